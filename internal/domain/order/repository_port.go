// internal/domain/order/repository_port.go
package order

import (
	"context"
	"time"
)

// Filter narrows admin order listings.
type Filter struct {
	CustomerID  *string
	Status      *Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// Repository is the persistence port for Order.
//
// Storage (Firestore):
// - collection: orders
// - docId: orderId (deterministic when the caller supplies an idempotency key)
// - fields: orderNumber, customerId, customerInfo(map), items(array),
//   subtotal, deliveryZone, deliveryPrice, coupon, discount, total, status,
//   paymentMethod, createdAt, updatedAt
//
// Order creation does NOT go through this port: it happens inside the checkout
// transaction together with the stock decrement, coupon redemption, customer
// aggregates and cart clear.
type Repository interface {
	// GetByID returns ErrNotFound when the order does not exist.
	GetByID(ctx context.Context, id string) (Order, error)

	// ListByCustomer returns the customer's orders, newest first.
	ListByCustomer(ctx context.Context, customerID string) ([]Order, error)

	// List returns orders matching the filter, newest first (admin).
	List(ctx context.Context, f Filter) ([]Order, error)

	Count(ctx context.Context, f Filter) (int, error)

	// UpdateStatus applies an admin status transition and bumps updatedAt.
	UpdateStatus(ctx context.Context, id string, s Status, now time.Time) (Order, error)
}
