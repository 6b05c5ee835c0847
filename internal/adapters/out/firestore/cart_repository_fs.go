// internal/adapters/out/firestore/cart_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	cartdom "simo/internal/domain/cart"
)

const cartsCollection = "carts"

// CartRepositoryFS implements cart.Repository using Firestore.
//
// Collection design:
// - collection: carts
// - docId: userId (docId is the source of truth)
// - fields: items(array), version, createdAt, updatedAt
//
// Concurrency: Save runs a transaction that asserts the stored version equals
// the version the caller read and writes version+1. A lost race surfaces as
// cart.ErrVersionConflict instead of last-write-wins.
type CartRepositoryFS struct {
	Client *firestore.Client
}

func NewCartRepositoryFS(client *firestore.Client) *CartRepositoryFS {
	return &CartRepositoryFS{Client: client}
}

func (r *CartRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(cartsCollection)
}

// GetByUserID returns (nil, nil) when no cart document exists.
func (r *CartRepositoryFS) GetByUserID(ctx context.Context, userID string) (*cartdom.Cart, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, errors.New("cart_repository_fs: userID is empty")
	}

	snap, err := r.col().Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	c := cartFromSnapshotData(snap.Data())
	// docId is the source of truth even when the doc carries no id field
	c.ID = uid
	return c, nil
}

// Save persists the cart with a compare-and-swap on the version field.
func (r *CartRepositoryFS) Save(ctx context.Context, c *cartdom.Cart) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	if c == nil {
		return errors.New("cart_repository_fs: cart is nil")
	}
	uid := strings.TrimSpace(c.ID)
	if uid == "" {
		return errors.New("cart_repository_fs: Save requires cart.ID (= userId) as docId")
	}

	ref := r.col().Doc(uid)
	expected := c.Version

	err := r.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		switch {
		case err == nil:
			stored := int64(asInt(snap.Data()["version"]))
			if stored != expected {
				return cartdom.ErrVersionConflict
			}
		case status.Code(err) == codes.NotFound:
			if expected != 0 {
				return cartdom.ErrVersionConflict
			}
		default:
			return err
		}
		return tx.Set(ref, cartDocFromDomain(c, expected+1))
	})
	if err != nil {
		return err
	}

	c.Version = expected + 1
	return nil
}

// DeleteByUserID removes the cart document entirely.
func (r *CartRepositoryFS) DeleteByUserID(ctx context.Context, userID string) error {
	if r == nil || r.Client == nil {
		return errors.New("cart_repository_fs: firestore client is nil")
	}
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return errors.New("cart_repository_fs: userID is empty")
	}
	_, err := r.col().Doc(uid).Delete(ctx)
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type cartLineDoc struct {
	ProductID   string          `firestore:"productId"`
	ProductName string          `firestore:"productName"`
	Variant     *cartVariantDoc `firestore:"variant,omitempty"`
	UnitPrice   float64         `firestore:"unitPrice"`
	Quantity    int             `firestore:"quantity"`
}

type cartVariantDoc struct {
	Name  string  `firestore:"name"`
	Type  string  `firestore:"type,omitempty"`
	Price float64 `firestore:"price,omitempty"`
}

type cartDoc struct {
	Items     []cartLineDoc `firestore:"items"`
	Version   int64         `firestore:"version"`
	CreatedAt time.Time     `firestore:"createdAt"`
	UpdatedAt time.Time     `firestore:"updatedAt"`
}

func cartDocFromDomain(c *cartdom.Cart, version int64) cartDoc {
	items := make([]cartLineDoc, 0, len(c.Items))
	for _, l := range c.Items {
		d := cartLineDoc{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
		if l.Variant != nil {
			d.Variant = &cartVariantDoc{
				Name:  l.Variant.Name,
				Type:  l.Variant.Type,
				Price: l.Variant.Price,
			}
		}
		items = append(items, d)
	}
	return cartDoc{
		Items:     items,
		Version:   version,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// cartFromSnapshotData parses document data with backward compatibility.
//
// Supported variant shapes inside items[]:
//  1. map {name, type, price} (current)
//  2. bare string (legacy clients stored the variant name only)
//
// The legacy string is normalized to LineVariant{Name: s}; the string shape
// is never written back.
func cartFromSnapshotData(raw map[string]any) *cartdom.Cart {
	c := &cartdom.Cart{Items: []cartdom.Line{}}
	if raw == nil {
		return c
	}

	c.Version = int64(asInt(raw["version"]))
	if t, ok := asTime(raw["createdAt"]); ok {
		c.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		c.UpdatedAt = t
	}

	arr, _ := raw["items"].([]any)
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		line := cartdom.Line{
			ProductID:   strings.TrimSpace(asString(m["productId"])),
			ProductName: strings.TrimSpace(asString(m["productName"])),
			UnitPrice:   asFloat(m["unitPrice"]),
			Quantity:    asInt(m["quantity"]),
		}
		// older docs used "price" for the captured unit price
		if line.UnitPrice == 0 {
			line.UnitPrice = asFloat(m["price"])
		}
		if line.ProductID == "" || line.Quantity <= 0 {
			continue
		}
		line.Variant = variantFromAny(m["variant"])
		c.Items = append(c.Items, line)
	}
	return c
}

func variantFromAny(v any) *cartdom.LineVariant {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		name := strings.TrimSpace(t)
		if name == "" {
			return nil
		}
		return &cartdom.LineVariant{Name: name}
	case map[string]any:
		name := strings.TrimSpace(asString(t["name"]))
		if name == "" {
			return nil
		}
		return &cartdom.LineVariant{
			Name:  name,
			Type:  strings.TrimSpace(asString(t["type"])),
			Price: asFloat(t["price"]),
		}
	default:
		return nil
	}
}
