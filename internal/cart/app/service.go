package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
	"github.com/google/uuid"
)

type Service struct {
	store   CartStore
	catalog CatalogReader
	signal  RefreshSignal
	log     *slog.Logger
	now     func() time.Time
}

type Option func(*Service)

func WithRefreshSignal(sig RefreshSignal) Option {
	return func(s *Service) {
		if sig != nil {
			s.signal = sig
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(store CartStore, catalog CatalogReader, opts ...Option) *Service {
	s := &Service{
		store:   store,
		catalog: catalog,
		signal:  noopSignal{},
		log:     slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Resolve returns the cart identified by token. userID is accepted so every
// entry point passes the full identity, but the token is the only lookup key:
// a cart created anonymously stays authoritative after sign-in.
func (s *Service) Resolve(ctx context.Context, token, userID string) (domain.Cart, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.Cart{}, ErrCartNotFound
	}
	if _, err := uuid.Parse(token); err != nil {
		return domain.Cart{}, ErrCartNotFound
	}

	cart, err := s.store.GetCart(ctx, token)
	if errors.Is(err, ErrCartNotFound) {
		return domain.Cart{}, ErrCartNotFound
	}
	if err != nil {
		return domain.Cart{}, storageFailure("get cart", err)
	}
	return cart, nil
}

// Create persists a new empty cart. The returned token is the cart id and is
// only handed out once the cart row is durable.
func (s *Service) Create(ctx context.Context, userID string) (domain.Cart, string, error) {
	cart := domain.Cart{
		ID:          uuid.NewString(),
		OwnerUserID: strings.TrimSpace(userID),
		CreatedAt:   s.now().UTC(),
	}

	created, err := s.store.CreateCart(ctx, cart)
	if err != nil {
		return domain.Cart{}, "", storageFailure("create cart", err)
	}
	if created.Items == nil {
		created.Items = []domain.CartItem{}
	}

	s.log.InfoContext(ctx, "cart created",
		slog.String("cart_id", created.ID),
		slog.Bool("authenticated", created.OwnerUserID != ""),
	)
	return created, created.ID, nil
}

// ResolveOrCreate is the single find-or-create path shared by every mutating
// entry point. newToken is empty when an existing cart was reused.
func (s *Service) ResolveOrCreate(ctx context.Context, token, userID string) (cart domain.Cart, newToken string, err error) {
	cart, err = s.Resolve(ctx, token, userID)
	if err == nil {
		return cart, "", nil
	}
	if !errors.Is(err, ErrCartNotFound) {
		return domain.Cart{}, "", err
	}
	return s.Create(ctx, userID)
}

// Lookup is the read path with a distinguishable error channel: it returns
// ErrCartNotFound for "no cart" and ErrStorageFailure when storage or the
// catalog could not answer.
func (s *Service) Lookup(ctx context.Context, token, userID string) (domain.ShoppingCart, error) {
	cart, err := s.Resolve(ctx, token, userID)
	if err != nil {
		return domain.ShoppingCart{}, err
	}
	return s.view(ctx, cart)
}

// GetCart is the read path used for display. Storage failures are logged and
// reported as "no cart" so the visitor sees an empty cart instead of an error.
func (s *Service) GetCart(ctx context.Context, token, userID string) (domain.ShoppingCart, bool) {
	sc, err := s.Lookup(ctx, token, userID)
	if err == nil {
		return sc, true
	}
	if !errors.Is(err, ErrCartNotFound) {
		s.log.ErrorContext(ctx, "cart read degraded to empty", slog.Any("err", err))
	}
	return domain.ShoppingCart{}, false
}

// CreateCart creates an empty cart and returns it with its token.
func (s *Service) CreateCart(ctx context.Context, userID string) (domain.ShoppingCart, string, error) {
	cart, token, err := s.Create(ctx, userID)
	if err != nil {
		return domain.ShoppingCart{}, "", err
	}
	sc, _ := domain.NewShoppingCart(cart, nil)
	return sc, token, nil
}

func (s *Service) Increment(ctx context.Context, cartID, productID string) error {
	return s.Mutate(ctx, cartID, domain.Increment{ProductID: productID})
}

func (s *Service) SetQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	return s.Mutate(ctx, cartID, domain.SetAbsolute{ProductID: productID, Quantity: quantity})
}

// Mutate applies a quantity change to an existing cart.
func (s *Service) Mutate(ctx context.Context, cartID string, req domain.MutationRequest) error {
	if req == nil || strings.TrimSpace(req.Product()) == "" {
		return fmt.Errorf("%w: product id is required", ErrProductNotFound)
	}

	var (
		evt domain.CartChanged
		err error
	)
	switch m := req.(type) {
	case domain.Increment:
		evt, err = s.increment(ctx, cartID, m)
	case domain.SetAbsolute:
		evt, err = s.setAbsolute(ctx, cartID, m)
	default:
		return fmt.Errorf("unsupported mutation %T", req)
	}
	if err != nil {
		return err
	}

	evt.CartID = cartID
	evt.At = s.now().UTC()
	if sigErr := s.signal.CartChanged(ctx, evt); sigErr != nil {
		s.log.WarnContext(ctx, "cart refresh signal failed",
			slog.String("cart_id", cartID),
			slog.String("product_id", evt.ProductID),
			slog.Any("err", sigErr),
		)
	}
	return nil
}

func (s *Service) increment(ctx context.Context, cartID string, m domain.Increment) (domain.CartChanged, error) {
	if err := s.requireProduct(ctx, m.ProductID); err != nil {
		return domain.CartChanged{}, err
	}
	if err := s.store.IncrementItem(ctx, cartID, m.ProductID, 1); err != nil {
		return domain.CartChanged{}, storageFailure("increment item", err)
	}
	return domain.CartChanged{ProductID: m.ProductID, Kind: domain.ChangeIncrement, Quantity: 1}, nil
}

// setAbsolute reads the line and then writes it. Concurrent calls for the
// same line race and the last write wins.
func (s *Service) setAbsolute(ctx context.Context, cartID string, m domain.SetAbsolute) (domain.CartChanged, error) {
	if m.Quantity < 0 {
		return domain.CartChanged{}, fmt.Errorf("%w: %d", ErrInvalidQuantity, m.Quantity)
	}
	evt := domain.CartChanged{ProductID: m.ProductID, Kind: domain.ChangeSet, Quantity: m.Quantity}

	_, err := s.store.FindItem(ctx, cartID, m.ProductID)
	exists := err == nil
	if err != nil && !errors.Is(err, ErrItemNotFound) {
		return domain.CartChanged{}, storageFailure("find item", err)
	}

	if m.Quantity == 0 {
		evt.Kind = domain.ChangeRemove
		if !exists {
			return evt, nil
		}
		if err := s.store.DeleteItem(ctx, cartID, m.ProductID); err != nil {
			return domain.CartChanged{}, storageFailure("delete item", err)
		}
		return evt, nil
	}

	if exists {
		err := s.store.UpdateItemQuantity(ctx, cartID, m.ProductID, m.Quantity)
		if err == nil {
			return evt, nil
		}
		if !errors.Is(err, ErrItemNotFound) {
			return domain.CartChanged{}, storageFailure("update item", err)
		}
		// Another writer removed the line between our read and write; recreate it.
	}

	if err := s.requireProduct(ctx, m.ProductID); err != nil {
		return domain.CartChanged{}, err
	}
	_, err = s.store.InsertItem(ctx, domain.CartItem{
		ID:        uuid.NewString(),
		CartID:    cartID,
		ProductID: m.ProductID,
		Quantity:  m.Quantity,
	})
	if errors.Is(err, ErrDuplicateItem) {
		// Another writer inserted the line between our read and write.
		err = s.store.UpdateItemQuantity(ctx, cartID, m.ProductID, m.Quantity)
	}
	if err != nil {
		return domain.CartChanged{}, storageFailure("insert item", err)
	}
	return evt, nil
}

func (s *Service) requireProduct(ctx context.Context, productID string) error {
	products, err := s.catalog.GetProducts(ctx, []string{productID})
	if err != nil {
		return storageFailure("get product", err)
	}
	if _, ok := products[productID]; !ok {
		return fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return nil
}

func (s *Service) view(ctx context.Context, cart domain.Cart) (domain.ShoppingCart, error) {
	ids := make([]string, 0, len(cart.Items))
	for _, it := range cart.Items {
		ids = append(ids, it.ProductID)
	}

	products := map[string]domain.Product{}
	if len(ids) > 0 {
		var err error
		products, err = s.catalog.GetProducts(ctx, ids)
		if err != nil {
			return domain.ShoppingCart{}, storageFailure("get products", err)
		}
	}

	sc, dropped := domain.NewShoppingCart(cart, products)
	for _, it := range dropped {
		s.log.WarnContext(ctx, "cart item references unknown product",
			slog.String("cart_id", cart.ID),
			slog.String("product_id", it.ProductID),
		)
	}
	return sc, nil
}
