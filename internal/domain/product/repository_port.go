// internal/domain/product/repository_port.go
package product

import "context"

// Repository is the read side of the catalog as the storefront core sees it.
//
// Storage (Firestore):
// - collection: products
// - docId: productId
// - fields: name, category, price, stock, variants(array), isActive, createdAt
//
// Stock writes do NOT go through this port: the order commit decrements stock
// inside the checkout transaction so the availability check and the decrement
// cannot be split by a concurrent checkout.
type Repository interface {
	// GetByID returns ErrNotFound when the product does not exist.
	GetByID(ctx context.Context, id string) (Product, error)

	// ListActive returns products currently offered (admin stats, catalog reads).
	ListActive(ctx context.Context) ([]Product, error)

	// CountActive counts offered products (admin dashboard).
	CountActive(ctx context.Context) (int, error)
}
