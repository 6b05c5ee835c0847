// internal/domain/product/entity.go
package product

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("product: not found")
	ErrInvalidProduct    = errors.New("product: invalid")
	ErrVariantUnknown    = errors.New("product: variant not declared on product")
	ErrInsufficientStock = errors.New("product: insufficient stock")
)

// VariantRef identifies a purchasable variant of a product.
//
// Three shapes exist in stored data:
//   - no variant: zero value
//   - legacy: bare variant name, Type empty (old carts/orders persisted the name only)
//   - full: name + type ("size", "color", ...)
//
// Adapters normalize to this form on load; nothing downstream branches on the
// stored shape again.
type VariantRef struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func NewVariantRef(name, typ string) VariantRef {
	return VariantRef{
		Name: strings.TrimSpace(name),
		Type: strings.TrimSpace(typ),
	}
}

// LegacyVariantRef wraps a bare variant name as persisted by old documents.
func LegacyVariantRef(name string) VariantRef {
	return VariantRef{Name: strings.TrimSpace(name)}
}

func (r VariantRef) IsZero() bool {
	return r.Name == "" && r.Type == ""
}

// IsLegacy reports whether only the name survived (no type recorded).
func (r VariantRef) IsLegacy() bool {
	return r.Name != "" && r.Type == ""
}

// Matches compares two variant identities.
//
// Rules:
//   - both absent -> equal
//   - one absent  -> not equal
//   - either side legacy (no type) -> compare by name only
//   - both full   -> compare (name, type)
func (r VariantRef) Matches(o VariantRef) bool {
	if r.IsZero() || o.IsZero() {
		return r.IsZero() && o.IsZero()
	}
	if r.Type == "" || o.Type == "" {
		return r.Name == o.Name
	}
	return r.Name == o.Name && r.Type == o.Type
}

// Variant is one purchasable option declared on a product. Stock is tracked
// at the product level, not per variant.
type Variant struct {
	Name  string  `json:"name"`
	Type  string  `json:"type"` // size, color, etc.
	Price float64 `json:"price"`
}

func (v Variant) Ref() VariantRef {
	return VariantRef{Name: v.Name, Type: v.Type}
}

// Product is a catalog entry. The storefront core reads it and decrements
// stock at order commit; it never mutates anything else.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Description string    `json:"description,omitempty"`
	Image       string    `json:"image,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

func New(id, name, category string, price float64, stock int, now time.Time) (Product, error) {
	p := Product{
		ID:        strings.TrimSpace(id),
		Name:      strings.TrimSpace(name),
		Category:  strings.TrimSpace(category),
		Price:     price,
		Stock:     stock,
		IsActive:  true,
		CreatedAt: now.UTC(),
	}
	if err := p.validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// FindVariant resolves a ref against the declared variants.
// A legacy ref (name only) resolves by name; a full ref by (name, type).
func (p Product) FindVariant(ref VariantRef) (Variant, bool) {
	if ref.IsZero() {
		return Variant{}, false
	}
	for _, v := range p.Variants {
		if v.Ref().Matches(ref) {
			return v, true
		}
	}
	return Variant{}, false
}

// UnitPriceFor returns the capture price for a cart line: the variant price
// when a variant is selected, the base price otherwise.
func (p Product) UnitPriceFor(ref VariantRef) (float64, error) {
	if ref.IsZero() {
		return p.Price, nil
	}
	v, ok := p.FindVariant(ref)
	if !ok {
		return 0, ErrVariantUnknown
	}
	if v.Price > 0 {
		return v.Price, nil
	}
	return p.Price, nil
}

func (p Product) validate() error {
	if p.ID == "" || p.Name == "" {
		return ErrInvalidProduct
	}
	if p.Price < 0 || p.Stock < 0 {
		return ErrInvalidProduct
	}
	for _, v := range p.Variants {
		if strings.TrimSpace(v.Name) == "" {
			return ErrInvalidProduct
		}
	}
	return nil
}
