package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dwikikusuma/flowmazon/internal/cart/app"
	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
	pgutil "github.com/dwikikusuma/flowmazon/pkg/postgres"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type cartRow struct {
	ID          string        `gorm:"primaryKey;type:varchar(36)"`
	OwnerUserID *string       `gorm:"column:owner_user_id;type:text"`
	Items       []cartItemRow `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time
}

func (cartRow) TableName() string { return "carts" }

type cartItemRow struct {
	ID        string `gorm:"primaryKey;type:varchar(36)"`
	CartID    string `gorm:"type:varchar(36);not null;uniqueIndex:ux_cart_items_cart_product,priority:1"`
	ProductID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_cart_items_cart_product,priority:2"`
	Quantity  int    `gorm:"not null;check:chk_cart_items_quantity,quantity >= 1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (cartItemRow) TableName() string { return "cart_items" }

func (r cartItemRow) toDomain() domain.CartItem {
	return domain.CartItem{
		ID:        r.ID,
		CartID:    r.CartID,
		ProductID: r.ProductID,
		Quantity:  r.Quantity,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}

// Migrate creates or updates the cart schema.
func Migrate(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).AutoMigrate(&cartRow{}, &cartItemRow{})
}

type CartRepo struct {
	db *gorm.DB
}

func NewCartRepo(db *gorm.DB) *CartRepo {
	return &CartRepo{
		db: db,
	}
}

func (r *CartRepo) CreateCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	row := cartRow{ID: cart.ID, CreatedAt: cart.CreatedAt}
	if cart.OwnerUserID != "" {
		owner := cart.OwnerUserID
		row.OwnerUserID = &owner
	}

	// Omit the association so creation stays a single INSERT.
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return domain.Cart{}, err
	}

	return domain.Cart{
		ID:          row.ID,
		OwnerUserID: cart.OwnerUserID,
		Items:       []domain.CartItem{},
		CreatedAt:   row.CreatedAt,
	}, nil
}

func (r *CartRepo) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	var row cartRow
	err := r.db.WithContext(ctx).
		Preload("Items", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("created_at ASC, id ASC")
		}).
		Where("id = ?", cartID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Cart{}, app.ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, err
	}

	items := make([]domain.CartItem, 0, len(row.Items))
	for _, it := range row.Items {
		items = append(items, it.toDomain())
	}

	cart := domain.Cart{
		ID:        row.ID,
		Items:     items,
		CreatedAt: row.CreatedAt,
	}
	if row.OwnerUserID != nil {
		cart.OwnerUserID = *row.OwnerUserID
	}
	return cart, nil
}

func (r *CartRepo) FindItem(ctx context.Context, cartID, productID string) (domain.CartItem, error) {
	var row cartItemRow
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.CartItem{}, app.ErrItemNotFound
	}
	if err != nil {
		return domain.CartItem{}, err
	}
	return row.toDomain(), nil
}

func (r *CartRepo) InsertItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	row := cartItemRow{
		ID:        item.ID,
		CartID:    item.CartID,
		ProductID: item.ProductID,
		Quantity:  item.Quantity,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return domain.CartItem{}, translate(err)
	}
	return row.toDomain(), nil
}

func (r *CartRepo) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	res := r.db.WithContext(ctx).Model(&cartItemRow{}).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Updates(map[string]any{"quantity": quantity, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return app.ErrItemNotFound
	}
	return nil
}

// IncrementItem is a single INSERT ... ON CONFLICT DO UPDATE, so concurrent
// increments of the same line are serialised by the database.
func (r *CartRepo) IncrementItem(ctx context.Context, cartID, productID string, delta int) error {
	now := time.Now().UTC()
	row := cartItemRow{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  delta,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"quantity":   gorm.Expr("cart_items.quantity + ?", delta),
			"updated_at": now,
		}),
	}).Create(&row).Error
	return translate(err)
}

func (r *CartRepo) DeleteItem(ctx context.Context, cartID, productID string) error {
	return r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&cartItemRow{}).Error
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case pgutil.IsUniqueViolation(err):
		return app.ErrDuplicateItem
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return app.ErrCartNotFound
	default:
		return err
	}
}
