// Package redisstore stores carts in Redis: one hash for cart metadata and one hash
// mapping product id to quantity. Field uniqueness of the items hash keeps one
// line per product. Both keys share a hash tag so the scripts
// stay on one slot under Redis Cluster.
package redisstore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/dwikikusuma/flowmazon/internal/cart/app"
	"github.com/dwikikusuma/flowmazon/internal/cart/domain"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cart"

func metaKey(cartID string) string  { return fmt.Sprintf("%s:{%s}:meta", keyPrefix, cartID) }
func itemsKey(cartID string) string { return fmt.Sprintf("%s:{%s}:items", keyPrefix, cartID) }

// itemID is stable per (cart, product) so callers can still key lines by id.
func itemID(cartID, productID string) string {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(cartID+"/"+productID)).String()
}

// Both write scripts refuse to touch an items hash whose cart does not exist,
// so an increment can never resurrect a cart.
var incrementScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HINCRBY', KEYS[2], ARGV[1], ARGV[2])
`)

var insertScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[1]) == 0 then
	return -1
end
return redis.call('HSETNX', KEYS[2], ARGV[1], ARGV[2])
`)

var updateScript = redis.NewScript(`
if redis.call('HEXISTS', KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 1
`)

type CartRepo struct {
	client *redis.Client
}

func NewCartRepo(client *redis.Client) *CartRepo {
	return &CartRepo{client: client}
}

func (r *CartRepo) CreateCart(ctx context.Context, cart domain.Cart) (domain.Cart, error) {
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}
	if cart.CreatedAt.IsZero() {
		cart.CreatedAt = time.Now().UTC()
	}

	// MULTI/EXEC: the meta hash appears in one step or not at all.
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, metaKey(cart.ID),
			"id", cart.ID,
			"owner_user_id", cart.OwnerUserID,
			"created_at", cart.CreatedAt.Format(time.RFC3339Nano),
		)
		return nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("create cart: %w", err)
	}

	cart.Items = []domain.CartItem{}
	return cart, nil
}

func (r *CartRepo) GetCart(ctx context.Context, cartID string) (domain.Cart, error) {
	var (
		metaCmd  *redis.MapStringStringCmd
		itemsCmd *redis.MapStringStringCmd
	)
	_, err := r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		metaCmd = pipe.HGetAll(ctx, metaKey(cartID))
		itemsCmd = pipe.HGetAll(ctx, itemsKey(cartID))
		return nil
	})
	if err != nil {
		return domain.Cart{}, fmt.Errorf("get cart: %w", err)
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return domain.Cart{}, app.ErrCartNotFound
	}

	cart := domain.Cart{
		ID:          cartID,
		OwnerUserID: meta["owner_user_id"],
	}
	if ts := meta["created_at"]; ts != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("invalid created_at for cart %s: %w", cartID, err)
		}
		cart.CreatedAt = createdAt
	}

	items := make([]domain.CartItem, 0, len(itemsCmd.Val()))
	for productID, raw := range itemsCmd.Val() {
		qty, err := strconv.Atoi(raw)
		if err != nil {
			return domain.Cart{}, fmt.Errorf("invalid quantity for product %s: %w", productID, err)
		}
		if qty <= 0 {
			continue
		}
		items = append(items, domain.CartItem{
			ID:        itemID(cartID, productID),
			CartID:    cartID,
			ProductID: productID,
			Quantity:  qty,
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].ProductID < items[j].ProductID })
	cart.Items = items

	return cart, nil
}

func (r *CartRepo) FindItem(ctx context.Context, cartID, productID string) (domain.CartItem, error) {
	qty, err := r.client.HGet(ctx, itemsKey(cartID), productID).Int()
	if errors.Is(err, redis.Nil) {
		return domain.CartItem{}, app.ErrItemNotFound
	}
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("find item: %w", err)
	}
	return domain.CartItem{
		ID:        itemID(cartID, productID),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
	}, nil
}

func (r *CartRepo) InsertItem(ctx context.Context, item domain.CartItem) (domain.CartItem, error) {
	res, err := insertScript.Run(ctx, r.client,
		[]string{metaKey(item.CartID), itemsKey(item.CartID)},
		item.ProductID, item.Quantity,
	).Int64()
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("insert item: %w", err)
	}

	switch res {
	case -1:
		return domain.CartItem{}, app.ErrCartNotFound
	case 0:
		return domain.CartItem{}, app.ErrDuplicateItem
	}

	item.ID = itemID(item.CartID, item.ProductID)
	return item, nil
}

func (r *CartRepo) UpdateItemQuantity(ctx context.Context, cartID, productID string, quantity int) error {
	res, err := updateScript.Run(ctx, r.client, []string{itemsKey(cartID)}, productID, quantity).Int64()
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}
	if res == 0 {
		return app.ErrItemNotFound
	}
	return nil
}

func (r *CartRepo) IncrementItem(ctx context.Context, cartID, productID string, delta int) error {
	res, err := incrementScript.Run(ctx, r.client,
		[]string{metaKey(cartID), itemsKey(cartID)},
		productID, delta,
	).Int64()
	if err != nil {
		return fmt.Errorf("increment item: %w", err)
	}
	if res == -1 {
		return app.ErrCartNotFound
	}
	return nil
}

func (r *CartRepo) DeleteItem(ctx context.Context, cartID, productID string) error {
	if err := r.client.HDel(ctx, itemsKey(cartID), productID).Err(); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}
