package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dwikikusuma/flowmazon/internal/catalog/app"
	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type productRow struct {
	ID          string          `gorm:"primaryKey;type:varchar(36)"`
	Name        string          `gorm:"not null;index"`
	Description string          `gorm:"not null"`
	ImageURL    string          `gorm:"column:image_url;not null"`
	Price       decimal.Decimal `gorm:"type:numeric;not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productRow) TableName() string { return "products" }

func (r productRow) toDomain() domain.Product {
	return domain.Product{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		ImageURL:    r.ImageURL,
		Price:       r.Price,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// Migrate creates or updates the catalog schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&productRow{})
}

type ProductRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) *ProductRepo {
	return &ProductRepo{db: db}
}

func (r *ProductRepo) Create(ctx context.Context, p domain.NewProduct) (domain.Product, error) {
	row := productRow{
		ID:          uuid.NewString(),
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) Get(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	var row productRow
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Product{}, app.ErrNotFound
	}
	if err != nil {
		return domain.Product{}, err
	}
	return row.toDomain(), nil
}

func (r *ProductRepo) List(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error) {
	tx := r.db.WithContext(ctx).Model(&productRow{}).Order("id ASC").Limit(limit)

	if c := strings.TrimSpace(cursor); c != "" {
		if _, err := uuid.Parse(c); err != nil {
			return nil, "", app.ErrInvalidInput
		}
		tx = tx.Where("id > ?", c)
	}
	if q := strings.TrimSpace(query); q != "" {
		tx = tx.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}

	var rows []productRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	out := make([]domain.Product, 0, len(rows))
	var nextCursor string
	for _, row := range rows {
		out = append(out, row.toDomain())
		nextCursor = row.ID
	}

	if len(out) < limit {
		nextCursor = ""
	}

	return out, nextCursor, nil
}

func (r *ProductRepo) UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, app.ErrNotFound
	}

	res := r.db.WithContext(ctx).Model(&productRow{}).Where("id = ?", id).
		Updates(map[string]any{"price": price, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return domain.Product{}, res.Error
	}
	if res.RowsAffected == 0 {
		return domain.Product{}, app.ErrNotFound
	}
	return r.Get(ctx, id)
}
