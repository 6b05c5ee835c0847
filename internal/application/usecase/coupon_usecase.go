// internal/application/usecase/coupon_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	coupondom "simo/internal/domain/coupon"

	"github.com/google/uuid"
)

var ErrCouponInvalidArgument = errors.New("coupon_usecase: invalid argument")

// CouponUsecase serves coupon validation for checkout and admin CRUD.
type CouponUsecase struct {
	coupons coupondom.Repository
	clock   Clock
}

func NewCouponUsecase(coupons coupondom.Repository) *CouponUsecase {
	return &CouponUsecase{coupons: coupons, clock: systemClock{}}
}

func NewCouponUsecaseWithClock(coupons coupondom.Repository, clock Clock) *CouponUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &CouponUsecase{coupons: coupons, clock: clock}
}

// Validate resolves a code and checks it against the subtotal. The returned
// error is the specific rejection (coupon.ErrNotFound, ErrInactive,
// ErrExpired, ErrExhausted, ErrMinOrderNotMet) for the caller to surface.
func (uc *CouponUsecase) Validate(ctx context.Context, code string, subtotal float64) (coupondom.Coupon, error) {
	norm := coupondom.NormalizeCode(code)
	if norm == "" {
		return coupondom.Coupon{}, coupondom.ErrNotFound
	}

	c, err := uc.coupons.GetByCode(ctx, norm)
	if err != nil {
		return coupondom.Coupon{}, err
	}
	if err := c.CheckEligibility(subtotal, uc.clock.Now()); err != nil {
		return coupondom.Coupon{}, err
	}
	return c, nil
}

// =======================
// Admin commands
// =======================

type CreateCouponInput struct {
	Code       string
	Type       coupondom.Type
	Value      float64
	MinOrder   float64
	UsageLimit int
	Expiry     *time.Time
}

func (uc *CouponUsecase) Create(ctx context.Context, in CreateCouponInput) (coupondom.Coupon, error) {
	c, err := coupondom.New(uuid.NewString(), in.Code, in.Type, in.Value, in.MinOrder, in.UsageLimit, in.Expiry)
	if err != nil {
		return coupondom.Coupon{}, err
	}
	return uc.coupons.Create(ctx, c)
}

type UpdateCouponInput struct {
	ID         string
	Value      *float64
	MinOrder   *float64
	UsageLimit *int
	Expiry     *time.Time
	IsActive   *bool
}

func (uc *CouponUsecase) Update(ctx context.Context, in UpdateCouponInput) (coupondom.Coupon, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		return coupondom.Coupon{}, ErrCouponInvalidArgument
	}

	c, err := uc.coupons.GetByID(ctx, id)
	if err != nil {
		return coupondom.Coupon{}, err
	}

	if in.Value != nil {
		c.Value = *in.Value
	}
	if in.MinOrder != nil {
		c.MinOrder = *in.MinOrder
	}
	if in.UsageLimit != nil {
		c.UsageLimit = *in.UsageLimit
	}
	if in.Expiry != nil {
		e := in.Expiry.UTC()
		c.Expiry = &e
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}

	return uc.coupons.Update(ctx, c)
}

func (uc *CouponUsecase) GetByID(ctx context.Context, id string) (coupondom.Coupon, error) {
	return uc.coupons.GetByID(ctx, strings.TrimSpace(id))
}

func (uc *CouponUsecase) List(ctx context.Context) ([]coupondom.Coupon, error) {
	return uc.coupons.List(ctx)
}

// Deactivate soft-deletes; redeemed coupons stay on record.
func (uc *CouponUsecase) Deactivate(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrCouponInvalidArgument
	}
	return uc.coupons.Deactivate(ctx, id)
}
