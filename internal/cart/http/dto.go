package http

import (
	"time"

	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
	catalogdomain "github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

type moneyJSON struct {
	Amount  string `json:"amount"`
	Display string `json:"display"`
}

func money(d decimal.Decimal) moneyJSON {
	return moneyJSON{Amount: d.String(), Display: catalogdomain.FormatPrice(d)}
}

type productJSON struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	Price       moneyJSON `json:"price"`
}

type lineJSON struct {
	ID        string      `json:"id"`
	ProductID string      `json:"product_id"`
	Quantity  int         `json:"quantity"`
	Product   productJSON `json:"product"`
	Total     moneyJSON   `json:"total"`
}

type cartJSON struct {
	ID        string     `json:"id"`
	Items     []lineJSON `json:"items"`
	Size      int        `json:"size"`
	Subtotal  moneyJSON  `json:"subtotal"`
	CreatedAt time.Time  `json:"created_at"`
}

type cartResponse struct {
	Cart *cartJSON `json:"cart"`
}

func toCartJSON(sc domain.ShoppingCart) *cartJSON {
	items := make([]lineJSON, 0, len(sc.Lines))
	for _, l := range sc.Lines {
		items = append(items, lineJSON{
			ID:        l.Item.ID,
			ProductID: l.Item.ProductID,
			Quantity:  l.Item.Quantity,
			Product: productJSON{
				ID:          l.Product.ID,
				Name:        l.Product.Name,
				Description: l.Product.Description,
				ImageURL:    l.Product.ImageURL,
				Price:       money(l.Product.Price),
			},
			Total: money(l.Total()),
		})
	}
	return &cartJSON{
		ID:        sc.ID,
		Items:     items,
		Size:      sc.Size,
		Subtotal:  money(sc.Subtotal),
		CreatedAt: sc.CreatedAt,
	}
}

// quantityRequest uses a pointer so a missing field is distinguishable from 0.
type quantityRequest struct {
	Quantity *int `json:"quantity"`
}
