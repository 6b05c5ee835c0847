// internal/domain/coupon/repository_port.go
package coupon

import "context"

// Repository is the persistence port for Coupon.
//
// Storage (Firestore):
// - collection: coupons
// - docId: couponId
// - fields: code(uppercase), type, value, minOrder, usageLimit, used, expiry, isActive
//
// The used counter is NOT incremented through this port: redemption happens
// inside the checkout transaction so a retried order cannot double-count.
type Repository interface {
	// GetByCode looks up by normalized (uppercase) code.
	// Returns ErrNotFound when no coupon carries the code.
	GetByCode(ctx context.Context, code string) (Coupon, error)

	GetByID(ctx context.Context, id string) (Coupon, error)
	List(ctx context.Context) ([]Coupon, error)

	Create(ctx context.Context, c Coupon) (Coupon, error)
	Update(ctx context.Context, c Coupon) (Coupon, error)

	// Deactivate soft-deletes (isActive=false); coupon history is never erased.
	Deactivate(ctx context.Context, id string) error
}
