package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dwikikusuma/flowmazon/internal/catalog/app"
	"github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubService struct {
	products  map[string]domain.Product
	lastLimit int
	lastQuery string
	created   []domain.NewProduct
}

func (s *stubService) CreateProduct(_ context.Context, in domain.NewProduct) (domain.Product, error) {
	if in.Name == "" || !in.Price.IsPositive() {
		return domain.Product{}, app.ErrInvalidInput
	}
	s.created = append(s.created, in)
	p := domain.Product{ID: "new", Name: in.Name, Description: in.Description, ImageURL: in.ImageURL, Price: in.Price}
	s.products[p.ID] = p
	return p, nil
}

func (s *stubService) GetProduct(_ context.Context, id string) (domain.Product, error) {
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	return p, nil
}

func (s *stubService) ListProducts(_ context.Context, query string, limit int, _ string) ([]domain.Product, string, error) {
	s.lastLimit = limit
	s.lastQuery = query
	if query == "explode" {
		return nil, "", errors.New("pq: relation does not exist")
	}
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	return out, "", nil
}

func (s *stubService) UpdatePrice(_ context.Context, id string, price decimal.Decimal) (domain.Product, error) {
	if price.IsNegative() {
		return domain.Product{}, app.ErrInvalidInput
	}
	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, app.ErrNotFound
	}
	p.Price = price
	s.products[id] = p
	return p, nil
}

func newTestRouter() (*gin.Engine, *stubService) {
	svc := &stubService{products: map[string]domain.Product{
		"p-1": {ID: "p-1", Name: "Mug", Description: "A mug", ImageURL: "https://img/mug.png", Price: decimal.RequireFromString("10.00")},
	}}
	r := gin.New()
	NewHandler(svc).Register(r)
	return r, svc
}

func serve(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetProduct(t *testing.T) {
	r, _ := newTestRouter()

	w := serve(r, http.MethodGet, "/products/p-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Product productJSON `json:"product"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "Mug", body.Product.Name)
	require.Equal(t, "10", body.Product.Price)
	require.Equal(t, "$10.00", body.Product.PriceDisplay)

	w = serve(r, http.MethodGet, "/products/nope", "")
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "NOT_FOUND")
}

func TestListProducts(t *testing.T) {
	r, svc := newTestRouter()

	w := serve(r, http.MethodGet, "/products?q=mu&limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, 5, svc.lastLimit)
	require.Equal(t, "mu", svc.lastQuery)

	w = serve(r, http.MethodGet, "/products?limit=abc", "")
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodGet, "/products?q=explode", "")
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.NotContains(t, w.Body.String(), "relation")
}

func TestCreateProduct(t *testing.T) {
	r, svc := newTestRouter()

	w := serve(r, http.MethodPost, "/products", `{"name":"Lamp","description":"Bright","image_url":"https://img/lamp.png","price":"24.99"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.Len(t, svc.created, 1)
	require.True(t, svc.created[0].Price.Equal(decimal.RequireFromString("24.99")))

	w = serve(r, http.MethodPost, "/products", `{"name":"Free","description":"x","image_url":"y","price":0}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Contains(t, w.Body.String(), "INVALID_ARGUMENT")
}

func TestUpdatePrice(t *testing.T) {
	r, svc := newTestRouter()

	w := serve(r, http.MethodPatch, "/products/p-1/price", `{"price":"8.00"}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, svc.products["p-1"].Price.Equal(decimal.NewFromInt(8)))

	w = serve(r, http.MethodPatch, "/products/p-1/price", `{}`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = serve(r, http.MethodPatch, "/products/missing/price", `{"price":"1"}`)
	require.Equal(t, http.StatusNotFound, w.Code)
}
