package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "simo/internal/domain/cart"
	coupondom "simo/internal/domain/coupon"
	zonedom "simo/internal/domain/deliveryzone"
	orderdom "simo/internal/domain/order"
	productdom "simo/internal/domain/product"
)

type fakeCheckoutStore struct {
	commits []CheckoutCommit

	// existing short-circuits Commit, simulating an idempotent retry hitting
	// an already-created order document.
	existing *orderdom.Order
	err      error
}

func (s *fakeCheckoutStore) Commit(_ context.Context, c CheckoutCommit) (orderdom.Order, error) {
	if s.err != nil {
		return orderdom.Order{}, s.err
	}
	if s.existing != nil {
		return *s.existing, nil
	}
	s.commits = append(s.commits, c)
	return c.Order, nil
}

type fakeOrderRepo struct {
	orders map[string]orderdom.Order
}

func newFakeOrderRepo(os ...orderdom.Order) *fakeOrderRepo {
	r := &fakeOrderRepo{orders: map[string]orderdom.Order{}}
	for _, o := range os {
		r.orders[o.ID] = o
	}
	return r
}

func (r *fakeOrderRepo) GetByID(_ context.Context, id string) (orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	return o, nil
}

func (r *fakeOrderRepo) ListByCustomer(_ context.Context, customerID string) ([]orderdom.Order, error) {
	var out []orderdom.Order
	for _, o := range r.orders {
		if o.CustomerID == customerID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *fakeOrderRepo) List(context.Context, orderdom.Filter) ([]orderdom.Order, error) {
	var out []orderdom.Order
	for _, o := range r.orders {
		out = append(out, o)
	}
	return out, nil
}

func (r *fakeOrderRepo) Count(context.Context, orderdom.Filter) (int, error) {
	return len(r.orders), nil
}

func (r *fakeOrderRepo) UpdateStatus(_ context.Context, id string, s orderdom.Status, now time.Time) (orderdom.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return orderdom.Order{}, orderdom.ErrNotFound
	}
	o.Status = s
	o.UpdatedAt = now
	r.orders[id] = o
	return o, nil
}

type failingMailer struct{}

func (failingMailer) SendOrderConfirmation(context.Context, orderdom.Order) error {
	return errors.New("smtp down")
}

type failingArchiver struct{}

func (failingArchiver) Insert(context.Context, orderdom.Order) error {
	return errors.New("pg down")
}

func casablancaZone() zonedom.Zone {
	return zonedom.Zone{ID: "z1", Name: "Casablanca", Cities: []string{"casablanca"}, Price: 25, IsActive: true}
}

func promoCoupon() coupondom.Coupon {
	return coupondom.Coupon{ID: "c1", Code: "PROMO10", Type: coupondom.TypePercentage, Value: 10, IsActive: true}
}

func checkoutInfo() orderdom.CustomerInfo {
	return orderdom.CustomerInfo{
		Name:    "Amina Alaoui",
		Email:   "amina@example.com",
		Phone:   "+212600000000",
		Address: "12 Rue des Fleurs",
		City:    "Casablanca",
	}
}

func seedCart(t *testing.T, repo *fakeCartRepo, uid string, lines ...cartdom.Line) {
	t.Helper()
	c, err := cartdom.New(uid, testNow)
	require.NoError(t, err)
	for _, l := range lines {
		require.NoError(t, c.AddLine(l, testNow))
	}
	require.NoError(t, repo.Save(context.Background(), c))
}

func newCheckoutFixture(store *fakeCheckoutStore, orders *fakeOrderRepo) (*CheckoutUsecase, *fakeCartRepo) {
	carts := newFakeCartRepo()
	uc := NewCheckoutUsecase(
		carts,
		newFakeProductRepo(serumProduct(), creamProduct()),
		newFakeZoneRepo(casablancaZone()),
		newFakeCouponRepo(promoCoupon()),
		orders,
		store,
	).WithClock(fakeClock{testNow})
	return uc, carts
}

func TestPlaceOrderHappyPath(t *testing.T) {
	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p1", ProductName: "Argan Serum", Variant: &cartdom.LineVariant{Name: "50ml", Type: "size", Price: 140}, UnitPrice: 140, Quantity: 2},
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	o, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID:         "u1",
		CustomerInfo:   checkoutInfo(),
		DeliveryZoneID: "z1",
		CouponCode:     "promo10",
		PaymentMethod:  "cod",
		Notes:          "  ring the bell  ",
	})
	require.NoError(t, err)

	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.Equal(t, "u1", o.CustomerID)
	assert.Equal(t, "Casablanca", o.DeliveryZone)
	assert.Equal(t, "PROMO10", o.CouponCode)
	assert.Equal(t, "ring the bell", o.Notes)
	assert.InDelta(t, 369.9, o.Subtotal, 0.001)
	assert.InDelta(t, 25, o.DeliveryPrice, 0.001)
	assert.InDelta(t, 36.99, o.Discount, 0.001)
	assert.InDelta(t, 357.91, o.Total, 0.001)

	require.Len(t, o.Items, 2)
	require.NotNil(t, o.Items[0].Variant)
	assert.Equal(t, "50ml", o.Items[0].Variant.Name)
	assert.Equal(t, "size", o.Items[0].Variant.Type)
	assert.Nil(t, o.Items[1].Variant)

	require.Len(t, store.commits, 1)
	commit := store.commits[0]
	assert.Equal(t, "c1", commit.CouponID)
	assert.Equal(t, "u1", commit.CustomerID)
	assert.Equal(t, "u1", commit.CartUserID)
	assert.ElementsMatch(t, []StockDecrement{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 1},
	}, commit.Decrements)
}

func TestPlaceOrderAggregatesDecrementsAcrossVariants(t *testing.T) {
	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p1", ProductName: "Argan Serum", Variant: &cartdom.LineVariant{Name: "30ml", Type: "size", Price: 90}, UnitPrice: 90, Quantity: 1},
		cartdom.Line{ProductID: "p1", ProductName: "Argan Serum", Variant: &cartdom.LineVariant{Name: "50ml", Type: "size", Price: 140}, UnitPrice: 140, Quantity: 2},
	)

	_, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
	})
	require.NoError(t, err)

	require.Len(t, store.commits, 1)
	assert.Equal(t, []StockDecrement{{ProductID: "p1", Quantity: 3}}, store.commits[0].Decrements)
}

func TestPlaceOrderEmptyOrMissingCart(t *testing.T) {
	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())

	// no cart document at all
	_, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)

	// cart exists but has no lines
	seedCart(t, carts, "u2")
	_, err = uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u2", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, store.commits)
}

func TestPlaceOrderRejectsBadZone(t *testing.T) {
	store := &fakeCheckoutStore{}
	carts := newFakeCartRepo()
	inactive := casablancaZone()
	inactive.ID = "z2"
	inactive.IsActive = false
	uc := NewCheckoutUsecase(
		carts,
		newFakeProductRepo(creamProduct()),
		newFakeZoneRepo(inactive),
		newFakeCouponRepo(),
		newFakeOrderRepo(),
		store,
	).WithClock(fakeClock{testNow})
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	_, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "nope", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, ErrInvalidZone)

	_, err = uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z2", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, ErrInvalidZone)
}

func TestPlaceOrderCouponRejectionPropagates(t *testing.T) {
	store := &fakeCheckoutStore{}
	carts := newFakeCartRepo()
	strict := promoCoupon()
	strict.MinOrder = 1000
	uc := NewCheckoutUsecase(
		carts,
		newFakeProductRepo(creamProduct()),
		newFakeZoneRepo(casablancaZone()),
		newFakeCouponRepo(strict),
		newFakeOrderRepo(),
		store,
	).WithClock(fakeClock{testNow})
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	_, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", CouponCode: "PROMO10", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, coupondom.ErrMinOrderNotMet)

	_, err = uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", CouponCode: "NOPE", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, coupondom.ErrNotFound)
	assert.Empty(t, store.commits)
}

func TestPlaceOrderInsufficientStockFromStore(t *testing.T) {
	store := &fakeCheckoutStore{err: productdom.ErrInsufficientStock}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	_, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
	})
	assert.ErrorIs(t, err, productdom.ErrInsufficientStock)
}

func TestPlaceOrderIdempotencyKeyBecomesOrderID(t *testing.T) {
	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	o, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
		IdempotencyKey: "idem-123",
	})
	require.NoError(t, err)
	assert.Equal(t, "idem-123", o.ID)
}

func TestPlaceOrderIdempotentRetryReturnsStoredOrder(t *testing.T) {
	// The order lookup misses (the first commit raced this retry), so the
	// in-transaction existence check is what short-circuits.
	first, err := orderdom.New(
		"idem-123", "ORD1700000000000-ABC123", "u1", checkoutInfo(),
		[]orderdom.ItemSnapshot{{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1}},
		89.9, "Casablanca", 25, "", 0, 114.9, "cod", testNow,
	)
	require.NoError(t, err)

	store := &fakeCheckoutStore{existing: &first}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	o, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
		IdempotencyKey: "idem-123",
	})
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, o.OrderNumber)
	assert.Empty(t, store.commits, "retry must not re-apply the commit")
}

func TestPlaceOrderIdempotentRetryAfterCartCleared(t *testing.T) {
	// The first attempt committed (and cleared the cart) but the response was
	// lost. The retry finds an empty cart; it must still return the stored
	// order instead of failing the empty-cart check.
	first, err := orderdom.New(
		"idem-123", "ORD1700000000000-ABC123", "u1", checkoutInfo(),
		[]orderdom.ItemSnapshot{{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1}},
		89.9, "Casablanca", 25, "", 0, 114.9, "cod", testNow,
	)
	require.NoError(t, err)

	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo(first))
	seedCart(t, carts, "u1")

	o, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
		IdempotencyKey: "idem-123",
	})
	require.NoError(t, err)
	assert.Equal(t, first.OrderNumber, o.OrderNumber)
	assert.Empty(t, store.commits, "retry must not re-apply the commit")
}

func TestPlaceOrderResolvesLegacyVariants(t *testing.T) {
	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	seedCart(t, carts, "u1",
		// bare legacy name still declared on the product: identity resolves
		cartdom.Line{ProductID: "p1", ProductName: "Argan Serum", Variant: &cartdom.LineVariant{Name: "30ml"}, UnitPrice: 90, Quantity: 1},
		// bare legacy name gone from the catalog: degraded marker, not a failure
		cartdom.Line{ProductID: "p1", ProductName: "Argan Serum", Variant: &cartdom.LineVariant{Name: "100ml"}, UnitPrice: 150, Quantity: 1},
	)

	o, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
	})
	require.NoError(t, err)

	require.Len(t, o.Items, 2)
	require.NotNil(t, o.Items[0].Variant)
	assert.Equal(t, "30ml", o.Items[0].Variant.Name)
	assert.Equal(t, "size", o.Items[0].Variant.Type)
	require.NotNil(t, o.Items[1].Variant)
	assert.Equal(t, orderdom.VariantNotFoundName, o.Items[1].Variant.Name)
}

func TestPlaceOrderSideEffectFailuresDoNotFailOrder(t *testing.T) {
	store := &fakeCheckoutStore{}
	uc, carts := newCheckoutFixture(store, newFakeOrderRepo())
	uc.WithMailer(failingMailer{}).WithArchiver(failingArchiver{})
	seedCart(t, carts, "u1",
		cartdom.Line{ProductID: "p2", ProductName: "Night Cream", UnitPrice: 89.9, Quantity: 1},
	)

	o, err := uc.PlaceOrder(context.Background(), PlaceOrderInput{
		UserID: "u1", CustomerInfo: checkoutInfo(), DeliveryZoneID: "z1", PaymentMethod: "cod",
	})
	require.NoError(t, err)
	assert.Equal(t, orderdom.StatusPending, o.Status)
	assert.Len(t, store.commits, 1)
}
