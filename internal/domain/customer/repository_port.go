// internal/domain/customer/repository_port.go
package customer

import "context"

// Repository is the persistence port for Customer.
//
// Storage (Firestore):
// - collection: customers
// - docId: userId (Firebase uid)
// - fields: name, email, phone, address, city, role, totalSpent, orderCount,
//   registrationDate
//
// The totalSpent/orderCount aggregates are NOT written through this port:
// they are bumped inside the checkout transaction together with the order
// create, so a partial failure cannot leave them out of step.
type Repository interface {
	// GetByID returns ErrNotFound when no customer exists for the id.
	GetByID(ctx context.Context, id string) (Customer, error)

	// Upsert creates or replaces the profile (registration / profile edit).
	Upsert(ctx context.Context, c Customer) error

	List(ctx context.Context) ([]Customer, error)

	// CountCustomers counts non-admin users (admin dashboard).
	CountCustomers(ctx context.Context) (int, error)
}
