package adapter

import (
	"context"
	"errors"
	"fmt"

	cartdomain "github.com/dwikikusuma/flowmazon/internal/cart/domain"
	catalogapp "github.com/dwikikusuma/flowmazon/internal/catalog/app"
	catalogdomain "github.com/dwikikusuma/flowmazon/internal/catalog/domain"
	"golang.org/x/sync/errgroup"
)

// ProductGetter is the slice of the catalog service the cart needs.
type ProductGetter interface {
	GetProduct(ctx context.Context, id string) (catalogdomain.Product, error)
}

type CatalogServiceReader struct {
	svc           ProductGetter
	maxConcurrent int
}

func NewCatalogServiceReader(svc ProductGetter, maxConcurrent int) *CatalogServiceReader {
	if maxConcurrent <= 0 {
		maxConcurrent = 10
	}
	return &CatalogServiceReader{svc: svc, maxConcurrent: maxConcurrent}
}

// GetProducts looks products up concurrently. Ids the catalog does not know
// are left out of the result.
func (r *CatalogServiceReader) GetProducts(ctx context.Context, productIDs []string) (map[string]cartdomain.Product, error) {
	ids := dedupe(productIDs)
	found := make([]*cartdomain.Product, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrent)

	for idx := range ids {
		idx := idx
		g.Go(func() error {
			p, err := r.svc.GetProduct(ctx, ids[idx])
			if errors.Is(err, catalogapp.ErrNotFound) || errors.Is(err, catalogapp.ErrInvalidInput) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get product %s: %w", ids[idx], err)
			}
			found[idx] = &cartdomain.Product{
				ID:          p.ID,
				Name:        p.Name,
				Description: p.Description,
				ImageURL:    p.ImageURL,
				Price:       p.Price,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]cartdomain.Product, len(ids))
	for _, p := range found {
		if p != nil {
			out[p.ID] = *p
		}
	}
	return out, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
