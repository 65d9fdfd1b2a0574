package domain

import "time"

// MutationRequest is either Increment or SetAbsolute. The two must never share
// update logic: one is a relative +1, the other replaces the stored quantity.
type MutationRequest interface {
	Product() string
	isMutation()
}

// Increment adds exactly one unit of a product.
type Increment struct {
	ProductID string
}

// SetAbsolute replaces the quantity of a product. Zero removes the line.
type SetAbsolute struct {
	ProductID string
	Quantity  int
}

func (m Increment) Product() string   { return m.ProductID }
func (m SetAbsolute) Product() string { return m.ProductID }

func (Increment) isMutation()   {}
func (SetAbsolute) isMutation() {}

type ChangeKind string

const (
	ChangeIncrement ChangeKind = "increment"
	ChangeSet       ChangeKind = "set"
	ChangeRemove    ChangeKind = "remove"
)

// CartChanged is emitted after a mutation commits so cached views can refresh.
type CartChanged struct {
	CartID    string     `json:"cart_id"`
	ProductID string     `json:"product_id"`
	Kind      ChangeKind `json:"kind"`
	// Quantity is the requested absolute quantity for set/remove, 1 for increment.
	Quantity int       `json:"quantity"`
	At       time.Time `json:"at"`
}
