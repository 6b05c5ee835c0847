// internal/domain/cart/repository_port.go
package cart

import (
	"context"
	"errors"
)

// ErrVersionConflict is returned by Save when the stored document's version no
// longer matches the version the caller read. The caller re-reads and retries.
var ErrVersionConflict = errors.New("cart: version conflict")

// Repository is the persistence port for Cart.
//
// Storage (Firestore):
// - collection: carts
// - docId: userId
// - fields: items(array), version, createdAt, updatedAt
//
// Concurrency:
// - Save enforces optimistic concurrency: the write asserts the version the
//   caller read and bumps it. A lost race surfaces as ErrVersionConflict
//   instead of silently dropping one of the writes.
//
// Legacy data:
// - items[].variant may be a bare string (old clients persisted the variant
//   name only). Implementations normalize that to LineVariant{Name: s} when
//   loading; they never write the string shape back.
type Repository interface {
	// GetByUserID returns (nil, nil) when no cart exists for the user.
	GetByUserID(ctx context.Context, userID string) (*Cart, error)

	// Save persists the cart, asserting c.Version and incrementing it on
	// success. A new cart (Version 0, no document) is created.
	Save(ctx context.Context, c *Cart) error

	// DeleteByUserID removes the cart document entirely (account deletion).
	DeleteByUserID(ctx context.Context, userID string) error
}
