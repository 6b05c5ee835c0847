package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartdom "simo/internal/domain/cart"
	coupondom "simo/internal/domain/coupon"
	zonedom "simo/internal/domain/deliveryzone"
	productdom "simo/internal/domain/product"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

type fakeClock struct{ t time.Time }

func (c fakeClock) Now() time.Time { return c.t }

// ----------------------------
// In-memory fakes
// ----------------------------

type fakeCartRepo struct {
	carts map[string]*cartdom.Cart

	// conflicts makes the next n Save calls fail with ErrVersionConflict.
	conflicts int
	saves     int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{carts: map[string]*cartdom.Cart{}}
}

func (r *fakeCartRepo) GetByUserID(_ context.Context, userID string) (*cartdom.Cart, error) {
	c, ok := r.carts[userID]
	if !ok {
		return nil, nil
	}
	cp := *c
	cp.Items = append([]cartdom.Line(nil), c.Items...)
	return &cp, nil
}

func (r *fakeCartRepo) Save(_ context.Context, c *cartdom.Cart) error {
	r.saves++
	if r.conflicts > 0 {
		r.conflicts--
		return cartdom.ErrVersionConflict
	}

	var expected int64
	if stored, ok := r.carts[c.ID]; ok {
		expected = stored.Version
	}
	if c.Version != expected {
		return cartdom.ErrVersionConflict
	}

	cp := *c
	cp.Version = expected + 1
	cp.Items = append([]cartdom.Line(nil), c.Items...)
	r.carts[c.ID] = &cp
	c.Version = cp.Version
	return nil
}

func (r *fakeCartRepo) DeleteByUserID(_ context.Context, userID string) error {
	delete(r.carts, userID)
	return nil
}

type fakeProductRepo struct {
	products map[string]productdom.Product
}

func newFakeProductRepo(ps ...productdom.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: map[string]productdom.Product{}}
	for _, p := range ps {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) GetByID(_ context.Context, id string) (productdom.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return productdom.Product{}, productdom.ErrNotFound
	}
	return p, nil
}

func (r *fakeProductRepo) ListActive(_ context.Context) ([]productdom.Product, error) {
	var out []productdom.Product
	for _, p := range r.products {
		if p.IsActive {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) CountActive(ctx context.Context) (int, error) {
	ps, _ := r.ListActive(ctx)
	return len(ps), nil
}

type fakeZoneRepo struct {
	zones map[string]zonedom.Zone
}

func newFakeZoneRepo(zs ...zonedom.Zone) *fakeZoneRepo {
	r := &fakeZoneRepo{zones: map[string]zonedom.Zone{}}
	for _, z := range zs {
		r.zones[z.ID] = z
	}
	return r
}

func (r *fakeZoneRepo) GetByID(_ context.Context, id string) (zonedom.Zone, error) {
	z, ok := r.zones[id]
	if !ok {
		return zonedom.Zone{}, zonedom.ErrNotFound
	}
	return z, nil
}

func (r *fakeZoneRepo) ListActive(_ context.Context) ([]zonedom.Zone, error) {
	var out []zonedom.Zone
	for _, z := range r.zones {
		if z.IsActive {
			out = append(out, z)
		}
	}
	return out, nil
}

func (r *fakeZoneRepo) Create(_ context.Context, z zonedom.Zone) (zonedom.Zone, error) {
	r.zones[z.ID] = z
	return z, nil
}

func (r *fakeZoneRepo) Update(_ context.Context, z zonedom.Zone) (zonedom.Zone, error) {
	r.zones[z.ID] = z
	return z, nil
}

func (r *fakeZoneRepo) Deactivate(_ context.Context, id string) error {
	z := r.zones[id]
	z.IsActive = false
	r.zones[id] = z
	return nil
}

type fakeCouponRepo struct {
	coupons map[string]coupondom.Coupon // keyed by code
}

func newFakeCouponRepo(cs ...coupondom.Coupon) *fakeCouponRepo {
	r := &fakeCouponRepo{coupons: map[string]coupondom.Coupon{}}
	for _, c := range cs {
		r.coupons[c.Code] = c
	}
	return r
}

func (r *fakeCouponRepo) GetByCode(_ context.Context, code string) (coupondom.Coupon, error) {
	c, ok := r.coupons[code]
	if !ok {
		return coupondom.Coupon{}, coupondom.ErrNotFound
	}
	return c, nil
}

func (r *fakeCouponRepo) GetByID(_ context.Context, id string) (coupondom.Coupon, error) {
	for _, c := range r.coupons {
		if c.ID == id {
			return c, nil
		}
	}
	return coupondom.Coupon{}, coupondom.ErrNotFound
}

func (r *fakeCouponRepo) List(_ context.Context) ([]coupondom.Coupon, error) {
	var out []coupondom.Coupon
	for _, c := range r.coupons {
		out = append(out, c)
	}
	return out, nil
}

func (r *fakeCouponRepo) Create(_ context.Context, c coupondom.Coupon) (coupondom.Coupon, error) {
	r.coupons[c.Code] = c
	return c, nil
}

func (r *fakeCouponRepo) Update(_ context.Context, c coupondom.Coupon) (coupondom.Coupon, error) {
	r.coupons[c.Code] = c
	return c, nil
}

func (r *fakeCouponRepo) Deactivate(_ context.Context, id string) error {
	for code, c := range r.coupons {
		if c.ID == id {
			c.IsActive = false
			r.coupons[code] = c
		}
	}
	return nil
}

// ----------------------------
// Fixtures
// ----------------------------

func serumProduct() productdom.Product {
	return productdom.Product{
		ID:       "p1",
		Name:     "Argan Serum",
		Price:    120,
		Stock:    10,
		IsActive: true,
		Variants: []productdom.Variant{
			{Name: "30ml", Type: "size", Price: 90},
			{Name: "50ml", Type: "size", Price: 140},
		},
	}
}

func creamProduct() productdom.Product {
	return productdom.Product{
		ID:       "p2",
		Name:     "Night Cream",
		Price:    89.9,
		Stock:    5,
		IsActive: true,
	}
}

// ----------------------------
// Tests
// ----------------------------

func TestCartGetCreatesLazily(t *testing.T) {
	carts := newFakeCartRepo()
	uc := NewCartUsecaseWithClock(carts, newFakeProductRepo(), fakeClock{testNow})

	c, err := uc.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	assert.Equal(t, "u1", c.ID)

	// the empty cart was persisted
	stored, err := carts.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, int64(1), stored.Version)
}

func TestAddItemCapturesVariantPrice(t *testing.T) {
	carts := newFakeCartRepo()
	uc := NewCartUsecaseWithClock(carts, newFakeProductRepo(serumProduct()), fakeClock{testNow})

	ref := productdom.NewVariantRef("50ml", "size")
	c, err := uc.AddItem(context.Background(), "u1", "p1", ref, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	line := c.Items[0]
	assert.Equal(t, 140.0, line.UnitPrice)
	assert.Equal(t, 2, line.Quantity)
	require.NotNil(t, line.Variant)
	assert.Equal(t, "50ml", line.Variant.Name)
	assert.Equal(t, "size", line.Variant.Type)
}

func TestAddItemWithoutVariantUsesBasePrice(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(creamProduct()), fakeClock{testNow})

	c, err := uc.AddItem(context.Background(), "u1", "p2", productdom.VariantRef{}, 1)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 89.9, c.Items[0].UnitPrice)
	assert.Nil(t, c.Items[0].Variant)
}

func TestAddItemMergesRepeatedAdds(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(serumProduct()), fakeClock{testNow})
	ref := productdom.NewVariantRef("50ml", "size")

	_, err := uc.AddItem(context.Background(), "u1", "p1", ref, 1)
	require.NoError(t, err)
	c, err := uc.AddItem(context.Background(), "u1", "p1", ref, 2)
	require.NoError(t, err)

	require.Len(t, c.Items, 1)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItemRejectsInactiveProduct(t *testing.T) {
	p := serumProduct()
	p.IsActive = false
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(p), fakeClock{testNow})

	_, err := uc.AddItem(context.Background(), "u1", "p1", productdom.VariantRef{}, 1)
	assert.ErrorIs(t, err, productdom.ErrNotFound)
}

func TestAddItemRejectsUnknownVariant(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(serumProduct()), fakeClock{testNow})

	_, err := uc.AddItem(context.Background(), "u1", "p1", productdom.NewVariantRef("75ml", "size"), 1)
	assert.ErrorIs(t, err, productdom.ErrVariantUnknown)
}

func TestAddItemStockGate(t *testing.T) {
	p := serumProduct()
	p.Stock = 3
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(p), fakeClock{testNow})
	ref := productdom.NewVariantRef("50ml", "size")

	_, err := uc.AddItem(context.Background(), "u1", "p1", ref, 2)
	require.NoError(t, err)

	// 2 already in the cart + 2 more would exceed stock of 3
	_, err = uc.AddItem(context.Background(), "u1", "p1", ref, 2)
	assert.ErrorIs(t, err, productdom.ErrInsufficientStock)

	// 1 more still fits
	c, err := uc.AddItem(context.Background(), "u1", "p1", ref, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, c.Items[0].Quantity)
}

func TestAddItemRetriesOnVersionConflict(t *testing.T) {
	carts := newFakeCartRepo()
	uc := NewCartUsecaseWithClock(carts, newFakeProductRepo(serumProduct()), fakeClock{testNow})

	carts.conflicts = 1

	c, err := uc.AddItem(context.Background(), "u1", "p1", productdom.VariantRef{}, 1)
	require.NoError(t, err)
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, carts.saves, "one conflicted save plus one successful retry")
}

func TestAddItemGivesUpAfterRepeatedConflicts(t *testing.T) {
	carts := newFakeCartRepo()
	uc := NewCartUsecaseWithClock(carts, newFakeProductRepo(serumProduct()), fakeClock{testNow})

	carts.conflicts = saveAttempts

	_, err := uc.AddItem(context.Background(), "u1", "p1", productdom.VariantRef{}, 1)
	assert.ErrorIs(t, err, cartdom.ErrVersionConflict)
}

func TestSetItemQuantity(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(serumProduct()), fakeClock{testNow})
	ref := productdom.NewVariantRef("50ml", "size")

	_, err := uc.AddItem(context.Background(), "u1", "p1", ref, 2)
	require.NoError(t, err)

	c, err := uc.SetItemQuantity(context.Background(), "u1", "p1", ref, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, c.Items[0].Quantity)

	// setting an absent line to a positive quantity fails
	_, err = uc.SetItemQuantity(context.Background(), "u1", "p2", productdom.VariantRef{}, 1)
	assert.ErrorIs(t, err, cartdom.ErrLineNotFound)

	// removal is idempotent
	c, err = uc.RemoveItem(context.Background(), "u1", "p1", ref)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
	_, err = uc.RemoveItem(context.Background(), "u1", "p1", ref)
	assert.NoError(t, err)
}

func TestClearEmptiesButKeepsCart(t *testing.T) {
	carts := newFakeCartRepo()
	uc := NewCartUsecaseWithClock(carts, newFakeProductRepo(serumProduct()), fakeClock{testNow})

	_, err := uc.AddItem(context.Background(), "u1", "p1", productdom.VariantRef{}, 1)
	require.NoError(t, err)

	require.NoError(t, uc.Clear(context.Background(), "u1"))

	stored, err := carts.GetByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.NotNil(t, stored, "clearing must not delete the document")
	assert.True(t, stored.IsEmpty())
}

func TestCartInvalidArguments(t *testing.T) {
	uc := NewCartUsecaseWithClock(newFakeCartRepo(), newFakeProductRepo(), fakeClock{testNow})

	_, err := uc.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrCartInvalidArgument)

	_, err = uc.AddItem(context.Background(), "u1", "p1", productdom.VariantRef{}, 0)
	assert.ErrorIs(t, err, ErrCartInvalidArgument)

	_, err = uc.AddItem(context.Background(), "u1", "", productdom.VariantRef{}, 1)
	assert.ErrorIs(t, err, ErrCartInvalidArgument)
}
