package model

import "github.com/google/uuid"

// Order is an immutable delivery request submitted by a store. Once created
// it is owned by the dispatcher, which tracks it through its lifecycle
// (not scheduled, in transit, delivery complete).
type Order struct {
	number     string
	products   []Product
	customer   Customer
	store      Store
	keepFrozen bool
}

// NewOrder creates an order for the given customer and originating store.
// An empty number is replaced with a generated UUID. The product slice is
// copied so later mutation by the caller cannot leak into the order.
func NewOrder(number string, products []Product, customer Customer, store Store, keepFrozen bool) *Order {
	if number == "" {
		number = uuid.NewString()
	}
	return &Order{
		number:     number,
		products:   append([]Product(nil), products...),
		customer:   customer,
		store:      store,
		keepFrozen: keepFrozen,
	}
}

// Number returns the unique order identifier.
func (o *Order) Number() string { return o.number }

// Products returns a copy of the ordered product list.
func (o *Order) Products() []Product { return append([]Product(nil), o.products...) }

// Customer returns the order recipient.
func (o *Order) Customer() Customer { return o.customer }

// Store returns the originating store.
func (o *Order) Store() Store { return o.store }

// KeepFrozen reports whether the order requires temperature-controlled
// transport.
func (o *Order) KeepFrozen() bool { return o.keepFrozen }
