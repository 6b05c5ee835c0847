// internal/adapters/out/firestore/checkout_store_fs.go
package firestore

import (
	"context"
	"errors"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"simo/internal/application/usecase"
	coupondom "simo/internal/domain/coupon"
	orderdom "simo/internal/domain/order"
	productdom "simo/internal/domain/product"
)

// CheckoutStoreFS implements usecase.CheckoutStore with one Firestore
// transaction per order.
//
// Inside the transaction (reads first, then writes, per Firestore rules):
//   - read the order doc: if it already exists the submission is a retry and
//     the stored order is returned with no further effects
//   - read every product and verify stock covers the decrement; any shortfall
//     aborts with product.ErrInsufficientStock — two concurrent checkouts on
//     the last unit cannot both pass
//   - write: order create, stock decrements, coupon used+1, customer
//     aggregates, cart items cleared (version bumped)
type CheckoutStoreFS struct {
	Client *firestore.Client
}

func NewCheckoutStoreFS(client *firestore.Client) *CheckoutStoreFS {
	return &CheckoutStoreFS{Client: client}
}

// couponCapacityLeft rejects a redemption that would push used past a
// positive usage limit; limit <= 0 means unlimited.
func couponCapacityLeft(used, limit int) error {
	if limit > 0 && used >= limit {
		return coupondom.ErrExhausted
	}
	return nil
}

func (s *CheckoutStoreFS) Commit(ctx context.Context, c usecase.CheckoutCommit) (orderdom.Order, error) {
	if s == nil || s.Client == nil {
		return orderdom.Order{}, errors.New("checkout_store_fs: firestore client is nil")
	}
	if c.Order.ID == "" {
		return orderdom.Order{}, orderdom.ErrInvalidID
	}

	orderRef := s.Client.Collection(ordersCollection).Doc(c.Order.ID)
	cartRef := s.Client.Collection(cartsCollection).Doc(c.CartUserID)

	var committed orderdom.Order

	err := s.Client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		// ---- reads ----

		existing, err := tx.Get(orderRef)
		if err == nil {
			// idempotent retry: order was already created, apply nothing
			committed = orderFromSnapshotData(orderRef.ID, existing.Data())
			return nil
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		type stockWrite struct {
			ref   *firestore.DocumentRef
			stock int
		}
		stocks := make([]stockWrite, 0, len(c.Decrements))
		for _, d := range c.Decrements {
			ref := s.Client.Collection(productsCollection).Doc(d.ProductID)
			snap, err := tx.Get(ref)
			if err != nil {
				if status.Code(err) == codes.NotFound {
					return productdom.ErrNotFound
				}
				return err
			}
			remaining := asInt(snap.Data()["stock"]) - d.Quantity
			if remaining < 0 {
				return productdom.ErrInsufficientStock
			}
			stocks = append(stocks, stockWrite{ref: ref, stock: remaining})
		}

		var couponRef *firestore.DocumentRef
		couponUsed := 0
		if c.CouponID != "" {
			couponRef = s.Client.Collection(couponsCollection).Doc(c.CouponID)
			snap, err := tx.Get(couponRef)
			if err != nil {
				return err
			}
			// The usecase checked eligibility outside the transaction; the
			// counter may have moved since, so the cap is re-checked against
			// the value this transaction actually read.
			couponUsed = asInt(snap.Data()["used"])
			if err := couponCapacityLeft(couponUsed, asInt(snap.Data()["usageLimit"])); err != nil {
				return err
			}
		}

		customerRef := s.Client.Collection(customersCollection).Doc(c.CustomerID)
		custSnap, err := tx.Get(customerRef)
		customerExists := err == nil
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		cartSnap, err := tx.Get(cartRef)
		cartExists := err == nil
		if err != nil && status.Code(err) != codes.NotFound {
			return err
		}

		// ---- writes ----

		if err := tx.Create(orderRef, orderDocFromDomain(c.Order)); err != nil {
			return err
		}

		for _, w := range stocks {
			if err := tx.Update(w.ref, []firestore.Update{
				{Path: "stock", Value: w.stock},
			}); err != nil {
				return err
			}
		}

		if couponRef != nil {
			if err := tx.Update(couponRef, []firestore.Update{
				{Path: "used", Value: couponUsed + 1},
			}); err != nil {
				return err
			}
		}

		if customerExists {
			data := custSnap.Data()
			if err := tx.Update(customerRef, []firestore.Update{
				{Path: "totalSpent", Value: asFloat(data["totalSpent"]) + c.Order.Total},
				{Path: "orderCount", Value: asInt(data["orderCount"]) + 1},
			}); err != nil {
				return err
			}
		}

		if cartExists {
			version := int64(asInt(cartSnap.Data()["version"]))
			if err := tx.Update(cartRef, []firestore.Update{
				{Path: "items", Value: []cartLineDoc{}},
				{Path: "version", Value: version + 1},
				{Path: "updatedAt", Value: time.Now().UTC()},
			}); err != nil {
				return err
			}
		}

		committed = c.Order
		return nil
	})
	if err != nil {
		return orderdom.Order{}, err
	}
	return committed, nil
}
