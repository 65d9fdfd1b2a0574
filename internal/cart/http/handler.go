package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/dwikikusuma/flowmazon/internal/cart/app"
	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
	"github.com/dwikikusuma/flowmazon/pkg/response"
	"github.com/gin-gonic/gin"
)

type CartService interface {
	GetCart(ctx context.Context, token, userID string) (domain.ShoppingCart, bool)
	ResolveOrCreate(ctx context.Context, token, userID string) (domain.Cart, string, error)
	Mutate(ctx context.Context, cartID string, req domain.MutationRequest) error
}

type Handler struct {
	svc         CartService
	identity    IdentityConfig
	maxQuantity int
}

func NewHandler(svc CartService, identity IdentityConfig, maxQuantity int) *Handler {
	return &Handler{
		svc:         svc,
		identity:    identity,
		maxQuantity: maxQuantity,
	}
}

func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/cart", IdentityMiddleware(h.identity))
	g.GET("", h.GetCart)
	g.POST("/items/:productId/increment", h.IncrementItem)
	g.PUT("/items/:productId", h.SetItemQuantity)
}

// GET /cart
func (h *Handler) GetCart(c *gin.Context) {
	id := identityFrom(c)
	sc, ok := h.svc.GetCart(c.Request.Context(), id.Token, id.UserID)
	if !ok {
		response.OK(c, cartResponse{})
		return
	}
	response.OK(c, cartResponse{Cart: toCartJSON(sc)})
}

// POST /cart/items/:productId/increment
func (h *Handler) IncrementItem(c *gin.Context) {
	h.mutate(c, domain.Increment{ProductID: strings.TrimSpace(c.Param("productId"))})
}

// PUT /cart/items/:productId
func (h *Handler) SetItemQuantity(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		response.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", fmt.Errorf("%w: quantity must be an integer", app.ErrInvalidQuantity))
		return
	}
	if q := *req.Quantity; q < 0 || q > h.maxQuantity {
		response.Error(c, http.StatusBadRequest, "INVALID_QUANTITY", fmt.Errorf("%w: quantity must be between 0 and %d", app.ErrInvalidQuantity, h.maxQuantity))
		return
	}

	h.mutate(c, domain.SetAbsolute{
		ProductID: strings.TrimSpace(c.Param("productId")),
		Quantity:  *req.Quantity,
	})
}

func (h *Handler) mutate(c *gin.Context, req domain.MutationRequest) {
	ctx := c.Request.Context()
	id := identityFrom(c)

	cart, newToken, err := h.svc.ResolveOrCreate(ctx, id.Token, id.UserID)
	if err != nil {
		h.fail(c, err)
		return
	}
	token := id.Token
	if newToken != "" {
		token = newToken
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(h.identity.CookieName, newToken, 0, "/", "", h.identity.CookieSecure, true)
	}

	if err := h.svc.Mutate(ctx, cart.ID, req); err != nil {
		h.fail(c, err)
		return
	}

	sc, ok := h.svc.GetCart(ctx, token, id.UserID)
	if !ok {
		response.OK(c, cartResponse{})
		return
	}
	response.OK(c, cartResponse{Cart: toCartJSON(sc)})
}

func (h *Handler) fail(c *gin.Context, err error) {
	status, code := statusFromErr(err)
	_ = c.Error(err)
	if status >= http.StatusInternalServerError {
		// Storage details stay in the logs.
		response.Error(c, status, code, errors.New("cart is temporarily unavailable"))
		return
	}
	response.Error(c, status, code, err)
}
