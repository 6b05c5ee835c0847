// internal/domain/cart/entity.go
package cart

import (
	"errors"
	"strings"
	"time"

	"simo/internal/domain/product"
)

var (
	ErrInvalidCart  = errors.New("cart: invalid")
	ErrLineNotFound = errors.New("cart: line not found")
)

// LineVariant is the variant snapshot carried by a cart line.
// Type is empty when the line was persisted by an old client that stored the
// bare variant name only.
type LineVariant struct {
	Name  string  `json:"name"`
	Type  string  `json:"type,omitempty"`
	Price float64 `json:"price,omitempty"`
}

func (v LineVariant) Ref() product.VariantRef {
	return product.VariantRef{Name: v.Name, Type: v.Type}
}

// Line is one product(+variant) entry in a cart.
//
// Identity is (ProductID, variant identity); at most one line per identity
// exists in a cart. ProductName and UnitPrice are captured at add time and
// are not re-synced against the catalog afterwards.
type Line struct {
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	Variant     *LineVariant `json:"variant,omitempty"`
	UnitPrice   float64      `json:"unitPrice"`
	Quantity    int          `json:"quantity"`
}

func (l Line) VariantRef() product.VariantRef {
	if l.Variant == nil {
		return product.VariantRef{}
	}
	return l.Variant.Ref()
}

// Cart is one user's cart document.
//   - docId = userId (1:1 lifecycle with the user, created lazily)
//   - Items keep insertion order for display; order carries no pricing meaning
//   - Version backs optimistic concurrency in the repository
type Cart struct {
	// ID is the Firestore docId (= userId).
	ID string `json:"id"`

	Items []Line `json:"items"`

	// Version is incremented by the repository on every successful save.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// New creates an empty cart for the user.
func New(userID string, now time.Time) (*Cart, error) {
	uid := strings.TrimSpace(userID)
	c := &Cart{
		ID:        uid,
		Items:     []Line{},
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// AddLine merges quantity into an existing line with the same identity, or
// appends a new line. An existing line keeps its captured UnitPrice and
// ProductName; a repeated add never re-prices.
func (c *Cart) AddLine(l Line, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	l.ProductID = strings.TrimSpace(l.ProductID)
	l.ProductName = strings.TrimSpace(l.ProductName)
	if l.ProductID == "" || l.Quantity <= 0 || l.UnitPrice < 0 {
		return ErrInvalidCart
	}
	if c.Items == nil {
		c.Items = []Line{}
	}

	idx := findLineIndex(c.Items, l.ProductID, l.VariantRef())
	if idx >= 0 {
		c.Items[idx].Quantity += l.Quantity
	} else {
		c.Items = append(c.Items, l)
	}

	c.touch(now)
	return c.validate()
}

// SetQuantity replaces the quantity of the matching line.
// qty <= 0 removes the line; removing an absent line is a no-op.
// qty > 0 on an absent line returns ErrLineNotFound.
func (c *Cart) SetQuantity(productID string, ref product.VariantRef, qty int, now time.Time) error {
	if c == nil {
		return ErrInvalidCart
	}
	pid := strings.TrimSpace(productID)
	if pid == "" {
		return ErrInvalidCart
	}

	idx := findLineIndex(c.Items, pid, ref)

	if qty <= 0 {
		if idx >= 0 {
			c.Items = removeIndex(c.Items, idx)
			c.touch(now)
		}
		return c.validate()
	}

	if idx < 0 {
		return ErrLineNotFound
	}
	c.Items[idx].Quantity = qty
	c.touch(now)
	return c.validate()
}

// QuantityOf returns the current quantity for an identity (0 when absent).
func (c *Cart) QuantityOf(productID string, ref product.VariantRef) int {
	if c == nil {
		return 0
	}
	idx := findLineIndex(c.Items, strings.TrimSpace(productID), ref)
	if idx < 0 {
		return 0
	}
	return c.Items[idx].Quantity
}

// Clear empties the items. The document itself stays (it is cleared after
// order placement, never deleted).
func (c *Cart) Clear(now time.Time) {
	if c == nil {
		return
	}
	c.Items = []Line{}
	c.touch(now)
}

func (c *Cart) IsEmpty() bool {
	return c == nil || len(c.Items) == 0
}

func (c *Cart) touch(now time.Time) {
	c.UpdatedAt = now.UTC()
}

func (c *Cart) validate() error {
	if c == nil {
		return ErrInvalidCart
	}
	if strings.TrimSpace(c.ID) == "" {
		return ErrInvalidCart
	}
	if c.CreatedAt.IsZero() || c.UpdatedAt.IsZero() {
		return ErrInvalidCart
	}
	for i, l := range c.Items {
		if strings.TrimSpace(l.ProductID) == "" || l.Quantity <= 0 || l.UnitPrice < 0 {
			return ErrInvalidCart
		}
		// no two lines may share one identity
		if findLineIndex(c.Items[:i], l.ProductID, l.VariantRef()) >= 0 {
			return ErrInvalidCart
		}
	}
	return nil
}

// ----------------------------
// Helpers
// ----------------------------

func findLineIndex(items []Line, productID string, ref product.VariantRef) int {
	for i := range items {
		if items[i].ProductID != productID {
			continue
		}
		if items[i].VariantRef().Matches(ref) {
			return i
		}
	}
	return -1
}

func removeIndex(items []Line, idx int) []Line {
	if idx < 0 || idx >= len(items) {
		return items
	}
	// preserve insertion order
	return append(items[:idx], items[idx+1:]...)
}
