// internal/adapters/out/firestore/coupon_repository_fs.go
package firestore

import (
	"context"
	"errors"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	coupondom "simo/internal/domain/coupon"
)

const couponsCollection = "coupons"

// CouponRepositoryFS implements coupon.Repository using Firestore.
//
// Collection design:
// - collection: coupons
// - docId: couponId
// - fields: code(uppercase), type, value, minOrder, usageLimit, used,
//   expiry, isActive
//
// The used counter is bumped by the checkout transaction, not here.
type CouponRepositoryFS struct {
	Client *firestore.Client
}

func NewCouponRepositoryFS(client *firestore.Client) *CouponRepositoryFS {
	return &CouponRepositoryFS{Client: client}
}

func (r *CouponRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(couponsCollection)
}

func (r *CouponRepositoryFS) GetByCode(ctx context.Context, code string) (coupondom.Coupon, error) {
	if r == nil || r.Client == nil {
		return coupondom.Coupon{}, errors.New("coupon_repository_fs: firestore client is nil")
	}
	norm := coupondom.NormalizeCode(code)
	if norm == "" {
		return coupondom.Coupon{}, coupondom.ErrNotFound
	}

	it := r.col().Where("code", "==", norm).Limit(1).Documents(ctx)
	defer it.Stop()

	doc, err := it.Next()
	if err == iterator.Done {
		return coupondom.Coupon{}, coupondom.ErrNotFound
	}
	if err != nil {
		return coupondom.Coupon{}, err
	}
	return couponFromSnapshotData(doc.Ref.ID, doc.Data()), nil
}

func (r *CouponRepositoryFS) GetByID(ctx context.Context, id string) (coupondom.Coupon, error) {
	if r == nil || r.Client == nil {
		return coupondom.Coupon{}, errors.New("coupon_repository_fs: firestore client is nil")
	}
	cid := strings.TrimSpace(id)
	if cid == "" {
		return coupondom.Coupon{}, coupondom.ErrNotFound
	}

	snap, err := r.col().Doc(cid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return coupondom.Coupon{}, coupondom.ErrNotFound
		}
		return coupondom.Coupon{}, err
	}
	return couponFromSnapshotData(cid, snap.Data()), nil
}

func (r *CouponRepositoryFS) List(ctx context.Context) ([]coupondom.Coupon, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("coupon_repository_fs: firestore client is nil")
	}

	it := r.col().Documents(ctx)
	defer it.Stop()

	var out []coupondom.Coupon
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, couponFromSnapshotData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

func (r *CouponRepositoryFS) Create(ctx context.Context, c coupondom.Coupon) (coupondom.Coupon, error) {
	if r == nil || r.Client == nil {
		return coupondom.Coupon{}, errors.New("coupon_repository_fs: firestore client is nil")
	}
	_, err := r.col().Doc(c.ID).Create(ctx, couponDocFromDomain(c))
	if err != nil {
		return coupondom.Coupon{}, err
	}
	return c, nil
}

func (r *CouponRepositoryFS) Update(ctx context.Context, c coupondom.Coupon) (coupondom.Coupon, error) {
	if r == nil || r.Client == nil {
		return coupondom.Coupon{}, errors.New("coupon_repository_fs: firestore client is nil")
	}
	_, err := r.col().Doc(c.ID).Set(ctx, couponDocFromDomain(c))
	if err != nil {
		return coupondom.Coupon{}, err
	}
	return c, nil
}

func (r *CouponRepositoryFS) Deactivate(ctx context.Context, id string) error {
	if r == nil || r.Client == nil {
		return errors.New("coupon_repository_fs: firestore client is nil")
	}
	cid := strings.TrimSpace(id)
	if cid == "" {
		return coupondom.ErrNotFound
	}
	_, err := r.col().Doc(cid).Update(ctx, []firestore.Update{
		{Path: "isActive", Value: false},
	})
	if status.Code(err) == codes.NotFound {
		return coupondom.ErrNotFound
	}
	return err
}

// -----------------------------------------
// Firestore DTO
// -----------------------------------------

type couponDoc struct {
	Code       string     `firestore:"code"`
	Type       string     `firestore:"type"`
	Value      float64    `firestore:"value"`
	MinOrder   float64    `firestore:"minOrder"`
	UsageLimit int        `firestore:"usageLimit"`
	Used       int        `firestore:"used"`
	Expiry     *time.Time `firestore:"expiry,omitempty"`
	IsActive   bool       `firestore:"isActive"`
}

func couponDocFromDomain(c coupondom.Coupon) couponDoc {
	return couponDoc{
		Code:       c.Code,
		Type:       string(c.Type),
		Value:      c.Value,
		MinOrder:   c.MinOrder,
		UsageLimit: c.UsageLimit,
		Used:       c.Used,
		Expiry:     c.Expiry,
		IsActive:   c.IsActive,
	}
}

func couponFromSnapshotData(id string, raw map[string]any) coupondom.Coupon {
	c := coupondom.Coupon{ID: id}
	if raw == nil {
		return c
	}

	c.Code = coupondom.NormalizeCode(asString(raw["code"]))
	c.Type = coupondom.Type(strings.ToLower(strings.TrimSpace(asString(raw["type"]))))
	c.Value = asFloat(raw["value"])
	c.MinOrder = asFloat(raw["minOrder"])
	c.UsageLimit = asInt(raw["usageLimit"])
	c.Used = asInt(raw["used"])
	c.IsActive = asBool(raw["isActive"])
	if t, ok := asTime(raw["expiry"]); ok {
		c.Expiry = &t
	}
	return c
}
