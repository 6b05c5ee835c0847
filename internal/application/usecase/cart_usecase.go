// internal/application/usecase/cart_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	cartdom "simo/internal/domain/cart"
	productdom "simo/internal/domain/product"
)

var ErrCartInvalidArgument = errors.New("cart_usecase: invalid argument")

// Clock provides current time (for testability).
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// saveAttempts bounds the optimistic-concurrency retry loop. A conflict means
// another request for the same user won the write; we re-read and re-apply.
const saveAttempts = 3

// CartUsecase coordinates cart operations against the catalog.
type CartUsecase struct {
	carts    cartdom.Repository
	products productdom.Repository
	clock    Clock
}

func NewCartUsecase(carts cartdom.Repository, products productdom.Repository) *CartUsecase {
	return &CartUsecase{
		carts:    carts,
		products: products,
		clock:    systemClock{},
	}
}

// NewCartUsecaseWithClock is useful for tests.
func NewCartUsecaseWithClock(carts cartdom.Repository, products productdom.Repository, clock Clock) *CartUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CartUsecase{carts: carts, products: products, clock: clock}
}

// Get returns the user's cart, creating an empty one on first access.
func (uc *CartUsecase) Get(ctx context.Context, userID string) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return nil, ErrCartInvalidArgument
	}

	c, err := uc.carts.GetByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if c != nil {
		return c, nil
	}

	c, err = cartdom.New(uid, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	if err := uc.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

// AddItem merges quantity into the matching line or appends a new one.
//
// The product must exist and be active; a supplied variant must be declared
// on it. Stock is checked against existing+new quantity — a best-effort gate,
// not a reservation: the checkout transaction is the final authority.
func (uc *CartUsecase) AddItem(ctx context.Context, userID, productID string, ref productdom.VariantRef, qty int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" || qty <= 0 {
		return nil, ErrCartInvalidArgument
	}

	p, err := uc.products.GetByID(ctx, pid)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, productdom.ErrNotFound
	}

	var variant *cartdom.LineVariant
	unitPrice := p.Price
	if !ref.IsZero() {
		v, ok := p.FindVariant(ref)
		if !ok {
			return nil, productdom.ErrVariantUnknown
		}
		variant = &cartdom.LineVariant{Name: v.Name, Type: v.Type, Price: v.Price}
		unitPrice, _ = p.UnitPriceFor(ref)
	}

	var saved *cartdom.Cart
	err = uc.withCart(ctx, uid, func(c *cartdom.Cart, now time.Time) error {
		if p.Stock < c.QuantityOf(pid, ref)+qty {
			return productdom.ErrInsufficientStock
		}
		line := cartdom.Line{
			ProductID:   pid,
			ProductName: p.Name,
			Variant:     variant,
			UnitPrice:   unitPrice,
			Quantity:    qty,
		}
		if err := c.AddLine(line, now); err != nil {
			return err
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// SetItemQuantity replaces the matching line's quantity.
// qty <= 0 removes the line (idempotent); qty > 0 on an absent line is
// cart.ErrLineNotFound.
func (uc *CartUsecase) SetItemQuantity(ctx context.Context, userID, productID string, ref productdom.VariantRef, qty int) (*cartdom.Cart, error) {
	uid := strings.TrimSpace(userID)
	pid := strings.TrimSpace(productID)
	if uid == "" || pid == "" {
		return nil, ErrCartInvalidArgument
	}

	var saved *cartdom.Cart
	err := uc.withCart(ctx, uid, func(c *cartdom.Cart, now time.Time) error {
		if err := c.SetQuantity(pid, ref, qty, now); err != nil {
			return err
		}
		saved = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// RemoveItem removes the matching line from the cart.
func (uc *CartUsecase) RemoveItem(ctx context.Context, userID, productID string, ref productdom.VariantRef) (*cartdom.Cart, error) {
	return uc.SetItemQuantity(ctx, userID, productID, ref, 0)
}

// Clear empties the cart items; the document stays for the next session.
func (uc *CartUsecase) Clear(ctx context.Context, userID string) error {
	uid := strings.TrimSpace(userID)
	if uid == "" {
		return ErrCartInvalidArgument
	}
	return uc.withCart(ctx, uid, func(c *cartdom.Cart, now time.Time) error {
		c.Clear(now)
		return nil
	})
}

// withCart runs a read-modify-write on the user's cart with a bounded retry
// on version conflicts. The cart is created lazily when absent.
func (uc *CartUsecase) withCart(ctx context.Context, userID string, mutate func(c *cartdom.Cart, now time.Time) error) error {
	var lastErr error
	for attempt := 0; attempt < saveAttempts; attempt++ {
		c, err := uc.carts.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		now := uc.clock.Now()
		if c == nil {
			c, err = cartdom.New(userID, now)
			if err != nil {
				return err
			}
		}

		if err := mutate(c, now); err != nil {
			return err
		}

		err = uc.carts.Save(ctx, c)
		if err == nil {
			return nil
		}
		if !errors.Is(err, cartdom.ErrVersionConflict) {
			return err
		}
		lastErr = err
	}
	return lastErr
}
