// internal/application/usecase/checkout_usecase.go
package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"simo/internal/application/pricing"
	cartdom "simo/internal/domain/cart"
	coupondom "simo/internal/domain/coupon"
	zonedom "simo/internal/domain/deliveryzone"
	orderdom "simo/internal/domain/order"
	productdom "simo/internal/domain/product"

	"github.com/google/uuid"
)

var (
	ErrEmptyCart   = errors.New("checkout_usecase: cart is empty")
	ErrInvalidZone = errors.New("checkout_usecase: delivery zone unavailable")
)

// StockDecrement is one product's total quantity across the order's lines.
type StockDecrement struct {
	ProductID string
	Quantity  int
}

// CheckoutCommit is everything the store applies as one transaction:
// conditional stock decrements, the order create, the coupon redemption, the
// customer aggregates and the cart clear. All-or-nothing.
type CheckoutCommit struct {
	Order      orderdom.Order
	Decrements []StockDecrement

	// CouponID, when set, has its used counter incremented.
	CouponID string

	// CustomerID has totalSpent/orderCount bumped by the order total.
	CustomerID string

	// CartUserID identifies the cart document to clear.
	CartUserID string
}

// CheckoutStore is the transactional port backing order placement.
type CheckoutStore interface {
	// Commit applies the commit atomically. When the order document already
	// exists (an idempotent retry), it returns the stored order and applies
	// nothing. A stock shortfall fails the whole transaction with
	// product.ErrInsufficientStock.
	Commit(ctx context.Context, c CheckoutCommit) (orderdom.Order, error)
}

// ConfirmationMailer sends the post-commit confirmation email (best effort).
type ConfirmationMailer interface {
	SendOrderConfirmation(ctx context.Context, o orderdom.Order) error
}

// OrderArchiver mirrors committed orders into the reporting store (best effort).
type OrderArchiver interface {
	Insert(ctx context.Context, o orderdom.Order) error
}

// CheckoutUsecase assembles an immutable order from the cart and checkout
// inputs and commits it with its side effects as one unit.
type CheckoutUsecase struct {
	carts    cartdom.Repository
	products productdom.Repository
	zones    zonedom.Repository
	coupons  coupondom.Repository
	orders   orderdom.Repository
	store    CheckoutStore

	mailer  ConfirmationMailer // optional
	archive OrderArchiver      // optional

	clock Clock
}

func NewCheckoutUsecase(
	carts cartdom.Repository,
	products productdom.Repository,
	zones zonedom.Repository,
	coupons coupondom.Repository,
	orders orderdom.Repository,
	store CheckoutStore,
) *CheckoutUsecase {
	return &CheckoutUsecase{
		carts:    carts,
		products: products,
		zones:    zones,
		coupons:  coupons,
		orders:   orders,
		store:    store,
		clock:    systemClock{},
	}
}

func (uc *CheckoutUsecase) WithMailer(m ConfirmationMailer) *CheckoutUsecase {
	uc.mailer = m
	return uc
}

func (uc *CheckoutUsecase) WithArchiver(a OrderArchiver) *CheckoutUsecase {
	uc.archive = a
	return uc
}

func (uc *CheckoutUsecase) WithClock(clock Clock) *CheckoutUsecase {
	if clock != nil {
		uc.clock = clock
	}
	return uc
}

type PlaceOrderInput struct {
	UserID         string
	CustomerInfo   orderdom.CustomerInfo
	DeliveryZoneID string
	CouponCode     string
	PaymentMethod  string
	Notes          string

	// IdempotencyKey, when supplied by the caller, makes a retried submission
	// return the order created by the first attempt instead of a duplicate.
	IdempotencyKey string
}

// PlaceOrder runs the checkout algorithm:
//
//  1. a supplied idempotency key is checked against existing orders; a match
//     means a retried submission and returns the stored order as-is
//  2. load the cart (EmptyCart when it has no lines) and resolve the zone
//  3. re-resolve each line's variant against the catalog; legacy names that
//     no longer resolve degrade to a "Variant not found" snapshot
//  4. compute subtotal, discount and total
//  5. commit order + stock decrement + coupon redemption + customer
//     aggregates + cart clear as one transaction
//  6. best-effort confirmation email and reporting archive after commit
func (uc *CheckoutUsecase) PlaceOrder(ctx context.Context, in PlaceOrderInput) (orderdom.Order, error) {
	uid := strings.TrimSpace(in.UserID)
	if uid == "" {
		return orderdom.Order{}, ErrCartInvalidArgument
	}

	// A retried submission must return the first attempt's order even though
	// that attempt already cleared the cart, so the lookup runs before the
	// empty-cart guard. The in-transaction existence check below stays as the
	// backstop for retries racing the first commit.
	if key := strings.TrimSpace(in.IdempotencyKey); key != "" {
		prior, err := uc.orders.GetByID(ctx, key)
		if err == nil {
			return prior, nil
		}
		if !errors.Is(err, orderdom.ErrNotFound) {
			return orderdom.Order{}, err
		}
	}

	c, err := uc.carts.GetByUserID(ctx, uid)
	if err != nil {
		return orderdom.Order{}, err
	}
	if c.IsEmpty() {
		return orderdom.Order{}, ErrEmptyCart
	}

	zone, err := uc.zones.GetByID(ctx, strings.TrimSpace(in.DeliveryZoneID))
	if err != nil {
		if errors.Is(err, zonedom.ErrNotFound) {
			return orderdom.Order{}, ErrInvalidZone
		}
		return orderdom.Order{}, err
	}
	if !zone.IsActive {
		return orderdom.Order{}, ErrInvalidZone
	}

	now := uc.clock.Now()

	items := uc.resolveItems(ctx, c.Items)
	subtotal := pricing.Subtotal(c.Items)

	var (
		discount float64
		cpn      coupondom.Coupon
		couponID string
	)
	if code := coupondom.NormalizeCode(in.CouponCode); code != "" {
		cpn, err = uc.coupons.GetByCode(ctx, code)
		if err != nil {
			return orderdom.Order{}, err
		}
		discount, err = pricing.ApplyCoupon(subtotal, cpn, now)
		if err != nil {
			return orderdom.Order{}, err
		}
		couponID = cpn.ID
	}

	total := pricing.Total(subtotal, zone.Price, discount)

	// A caller-supplied idempotency key doubles as the document id, so a
	// retried submission lands on the same doc and Commit short-circuits.
	orderID := strings.TrimSpace(in.IdempotencyKey)
	if orderID == "" {
		orderID = uuid.NewString()
	}

	o, err := orderdom.New(
		orderID,
		orderdom.NewNumber(now),
		uid,
		in.CustomerInfo,
		items,
		subtotal,
		zone.Name,
		zone.Price,
		cpn.Code,
		discount,
		total,
		in.PaymentMethod,
		now,
	)
	if err != nil {
		return orderdom.Order{}, err
	}
	o.Notes = strings.TrimSpace(in.Notes)

	committed, err := uc.store.Commit(ctx, CheckoutCommit{
		Order:      o,
		Decrements: aggregateDecrements(c.Items),
		CouponID:   couponID,
		CustomerID: uid,
		CartUserID: uid,
	})
	if err != nil {
		return orderdom.Order{}, err
	}

	if uc.mailer != nil {
		if err := uc.mailer.SendOrderConfirmation(ctx, committed); err != nil {
			log.Printf("[checkout] WARN: confirmation mail failed order=%s: %v", committed.OrderNumber, err)
		}
	}
	if uc.archive != nil {
		if err := uc.archive.Insert(ctx, committed); err != nil {
			log.Printf("[checkout] WARN: order archive insert failed order=%s: %v", committed.OrderNumber, err)
		}
	}

	return committed, nil
}

// resolveItems materializes variant info for the order snapshot. A line whose
// legacy variant name no longer resolves against the catalog is kept with a
// "Variant not found" marker rather than failing the order.
func (uc *CheckoutUsecase) resolveItems(ctx context.Context, lines []cartdom.Line) []orderdom.ItemSnapshot {
	out := make([]orderdom.ItemSnapshot, 0, len(lines))
	for _, l := range lines {
		snap := orderdom.ItemSnapshot{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   l.UnitPrice,
			Quantity:    l.Quantity,
		}
		if l.Variant != nil {
			snap.Variant = uc.resolveVariant(ctx, l)
		}
		out = append(out, snap)
	}
	return out
}

func (uc *CheckoutUsecase) resolveVariant(ctx context.Context, l cartdom.Line) *orderdom.ItemVariant {
	ref := l.VariantRef()
	if !ref.IsLegacy() {
		return &orderdom.ItemVariant{Name: l.Variant.Name, Type: l.Variant.Type}
	}

	// legacy bare name: re-resolve identity from the catalog
	p, err := uc.products.GetByID(ctx, l.ProductID)
	if err == nil {
		if v, ok := p.FindVariant(ref); ok {
			return &orderdom.ItemVariant{Name: v.Name, Type: v.Type}
		}
	}
	return &orderdom.ItemVariant{Name: orderdom.VariantNotFoundName}
}

// aggregateDecrements sums quantities per product across variant lines, since
// stock is tracked at the product level.
func aggregateDecrements(lines []cartdom.Line) []StockDecrement {
	idx := map[string]int{}
	out := make([]StockDecrement, 0, len(lines))
	for _, l := range lines {
		if i, ok := idx[l.ProductID]; ok {
			out[i].Quantity += l.Quantity
			continue
		}
		idx[l.ProductID] = len(out)
		out = append(out, StockDecrement{ProductID: l.ProductID, Quantity: l.Quantity})
	}
	return out
}
