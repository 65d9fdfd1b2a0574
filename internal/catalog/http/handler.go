package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/dwikikusuma/flowmazon/internal/catalog/app"
	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/dwikikusuma/flowmazon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	CreateProduct(ctx context.Context, in domain.NewProduct) (domain.Product, error)
	GetProduct(ctx context.Context, id string) (domain.Product, error)
	ListProducts(ctx context.Context, query string, limit int, cursor string) ([]domain.Product, string, error)
	UpdatePrice(ctx context.Context, id string, price decimal.Decimal) (domain.Product, error)
}

type Handler struct {
	svc ProductService
}

func NewHandler(svc ProductService) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/products")
	g.GET("", h.ListProducts)
	g.POST("", h.CreateProduct)
	g.GET("/:id", h.GetProduct)
	g.PATCH("/:id/price", h.UpdatePrice)
}

type productJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	ImageURL     string    `json:"image_url"`
	Price        string    `json:"price"`
	PriceDisplay string    `json:"price_display"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toJSON(p domain.Product) productJSON {
	return productJSON{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        p.Price.String(),
		PriceDisplay: domain.FormatPrice(p.Price),
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

type createProductRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	ImageURL    string          `json:"image_url"`
	Price       decimal.Decimal `json:"price"`
}

type updatePriceRequest struct {
	Price *decimal.Decimal `json:"price"`
}

// GET /products?q=&limit=&cursor=
func (h *Handler) ListProducts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", errors.New("limit must be an integer"))
			return
		}
		limit = n
	}

	products, next, err := h.svc.ListProducts(c.Request.Context(), c.Query("q"), limit, c.Query("cursor"))
	if err != nil {
		fail(c, err)
		return
	}

	out := make([]productJSON, 0, len(products))
	for _, p := range products {
		out = append(out, toJSON(p))
	}
	response.OK(c, gin.H{"products": out, "next_cursor": next})
}

// GET /products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	p, err := h.svc.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, gin.H{"product": toJSON(p)})
}

// POST /products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", err)
		return
	}

	p, err := h.svc.CreateProduct(c.Request.Context(), domain.NewProduct{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, gin.H{"product": toJSON(p)})
}

// PATCH /products/:id/price
func (h *Handler) UpdatePrice(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Price == nil {
		response.Error(c, http.StatusBadRequest, "INVALID_ARGUMENT", errors.New("price is required"))
		return
	}

	p, err := h.svc.UpdatePrice(c.Request.Context(), c.Param("id"), *req.Price)
	if err != nil {
		fail(c, err)
		return
	}
	response.OK(c, gin.H{"product": toJSON(p)})
}

func statusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, app.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "UNAVAILABLE"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

func fail(c *gin.Context, err error) {
	status, code := statusFromErr(err)
	_ = c.Error(err)
	if status == http.StatusInternalServerError {
		err = errors.New("internal error")
	}
	response.Error(c, status, code, err)
}
