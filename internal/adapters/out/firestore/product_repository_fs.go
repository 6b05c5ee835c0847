// internal/adapters/out/firestore/product_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	productdom "simo/internal/domain/product"
)

const productsCollection = "products"

// ProductRepositoryFS implements product.Repository using Firestore.
//
// Collection design:
// - collection: products
// - docId: productId
// - fields: name, category, price, stock, description, image,
//   variants(array of {name,type,price,stock}), isActive, createdAt
type ProductRepositoryFS struct {
	Client *firestore.Client
}

func NewProductRepositoryFS(client *firestore.Client) *ProductRepositoryFS {
	return &ProductRepositoryFS{Client: client}
}

func (r *ProductRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(productsCollection)
}

func (r *ProductRepositoryFS) GetByID(ctx context.Context, id string) (productdom.Product, error) {
	if r == nil || r.Client == nil {
		return productdom.Product{}, errors.New("product_repository_fs: firestore client is nil")
	}
	pid := strings.TrimSpace(id)
	if pid == "" {
		return productdom.Product{}, productdom.ErrNotFound
	}

	snap, err := r.col().Doc(pid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return productdom.Product{}, productdom.ErrNotFound
		}
		return productdom.Product{}, err
	}
	return productFromSnapshotData(pid, snap.Data()), nil
}

func (r *ProductRepositoryFS) ListActive(ctx context.Context) ([]productdom.Product, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("product_repository_fs: firestore client is nil")
	}

	it := r.col().Where("isActive", "==", true).Documents(ctx)
	defer it.Stop()

	var out []productdom.Product
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, productFromSnapshotData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (r *ProductRepositoryFS) CountActive(ctx context.Context) (int, error) {
	ps, err := r.ListActive(ctx)
	if err != nil {
		return 0, err
	}
	return len(ps), nil
}

// -----------------------------------------
// Parsing
// -----------------------------------------

func productFromSnapshotData(id string, raw map[string]any) productdom.Product {
	p := productdom.Product{ID: id}
	if raw == nil {
		return p
	}

	p.Name = strings.TrimSpace(asString(raw["name"]))
	p.Category = strings.TrimSpace(asString(raw["category"]))
	p.Price = asFloat(raw["price"])
	p.Stock = asInt(raw["stock"])
	p.Description = asString(raw["description"])
	p.Image = asString(raw["image"])
	p.IsActive = asBool(raw["isActive"])
	if t, ok := asTime(raw["createdAt"]); ok {
		p.CreatedAt = t
	}

	arr, _ := raw["variants"].([]any)
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		name := strings.TrimSpace(asString(m["name"]))
		if name == "" {
			continue
		}
		p.Variants = append(p.Variants, productdom.Variant{
			Name:  name,
			Type:  strings.TrimSpace(asString(m["type"])),
			Price: asFloat(m["price"]),
		})
	}
	return p
}
