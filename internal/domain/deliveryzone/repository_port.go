// internal/domain/deliveryzone/repository_port.go
package deliveryzone

import "context"

// Repository is the persistence port for delivery zones.
//
// Storage (Firestore):
// - collection: deliveryZones
// - docId: zoneId
// - fields: name, cities(array), price, isActive
type Repository interface {
	// GetByID returns ErrNotFound when the zone does not exist.
	GetByID(ctx context.Context, id string) (Zone, error)

	ListActive(ctx context.Context) ([]Zone, error)

	Create(ctx context.Context, z Zone) (Zone, error)
	Update(ctx context.Context, z Zone) (Zone, error)

	// Deactivate soft-deletes (isActive=false).
	Deactivate(ctx context.Context, id string) error
}
