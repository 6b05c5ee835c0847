// internal/adapters/out/firestore/order_repository_fs.go
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

	orderdom "simo/internal/domain/order"
)

const ordersCollection = "orders"

// OrderRepositoryFS implements order.Repository using Firestore.
//
// Collection design:
// - collection: orders
// - docId: orderId
// - fields: orderNumber, customerId, customerInfo(map), items(array),
//   subtotal, deliveryZone, deliveryPrice, coupon, discount, total, status,
//   paymentMethod, notes, createdAt, updatedAt
//
// Creation happens in CheckoutStoreFS; this repository only reads and applies
// the admin status transition.
type OrderRepositoryFS struct {
	Client *firestore.Client
}

func NewOrderRepositoryFS(client *firestore.Client) *OrderRepositoryFS {
	return &OrderRepositoryFS{Client: client}
}

func (r *OrderRepositoryFS) col() *firestore.CollectionRef {
	return r.Client.Collection(ordersCollection)
}

func (r *OrderRepositoryFS) GetByID(ctx context.Context, id string) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	snap, err := r.col().Doc(oid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return orderFromSnapshotData(oid, snap.Data()), nil
}

func (r *OrderRepositoryFS) ListByCustomer(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return nil, nil
	}

	q := r.col().
		Where("customerId", "==", cid).
		OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, q)
}

func (r *OrderRepositoryFS) List(ctx context.Context, f orderdom.Filter) ([]orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return nil, errors.New("order_repository_fs: firestore client is nil")
	}

	q := r.buildQuery(f).OrderBy("createdAt", firestore.Desc)
	return r.collect(ctx, q)
}

func (r *OrderRepositoryFS) Count(ctx context.Context, f orderdom.Filter) (int, error) {
	if r == nil || r.Client == nil {
		return 0, errors.New("order_repository_fs: firestore client is nil")
	}

	it := r.buildQuery(f).Documents(ctx)
	defer it.Stop()

	n := 0
	for {
		_, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

func (r *OrderRepositoryFS) UpdateStatus(ctx context.Context, id string, s orderdom.Status, now time.Time) (orderdom.Order, error) {
	if r == nil || r.Client == nil {
		return orderdom.Order{}, errors.New("order_repository_fs: firestore client is nil")
	}
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, orderdom.ErrNotFound
	}

	_, err := r.col().Doc(oid).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(s)},
		{Path: "updatedAt", Value: now.UTC()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return orderdom.Order{}, orderdom.ErrNotFound
		}
		return orderdom.Order{}, err
	}
	return r.GetByID(ctx, oid)
}

func (r *OrderRepositoryFS) buildQuery(f orderdom.Filter) firestore.Query {
	q := r.col().Query
	if f.CustomerID != nil {
		q = q.Where("customerId", "==", strings.TrimSpace(*f.CustomerID))
	}
	if f.Status != nil {
		q = q.Where("status", "==", string(*f.Status))
	}
	if f.CreatedFrom != nil {
		q = q.Where("createdAt", ">=", f.CreatedFrom.UTC())
	}
	if f.CreatedTo != nil {
		q = q.Where("createdAt", "<=", f.CreatedTo.UTC())
	}
	return q
}

func (r *OrderRepositoryFS) collect(ctx context.Context, q firestore.Query) ([]orderdom.Order, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var out []orderdom.Order
	for {
		doc, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, orderFromSnapshotData(doc.Ref.ID, doc.Data()))
	}
	return out, nil
}

// -----------------------------------------
// Firestore DTO (shared with CheckoutStoreFS)
// -----------------------------------------

type orderItemDoc struct {
	ProductID   string          `firestore:"productId"`
	ProductName string          `firestore:"productName"`
	Variant     *cartVariantDoc `firestore:"variant,omitempty"`
	UnitPrice   float64         `firestore:"unitPrice"`
	Quantity    int             `firestore:"quantity"`
}

type orderDoc struct {
	OrderNumber   string            `firestore:"orderNumber"`
	CustomerID    string            `firestore:"customerId"`
	CustomerInfo  map[string]string `firestore:"customerInfo"`
	Items         []orderItemDoc    `firestore:"items"`
	Subtotal      float64           `firestore:"subtotal"`
	DeliveryZone  string            `firestore:"deliveryZone"`
	DeliveryPrice float64           `firestore:"deliveryPrice"`
	Coupon        string            `firestore:"coupon,omitempty"`
	Discount      float64           `firestore:"discount"`
	Total         float64           `firestore:"total"`
	Status        string            `firestore:"status"`
	PaymentMethod string            `firestore:"paymentMethod"`
	Notes         string            `firestore:"notes,omitempty"`
	CreatedAt     time.Time         `firestore:"createdAt"`
	UpdatedAt     time.Time         `firestore:"updatedAt"`
}

func orderDocFromDomain(o orderdom.Order) orderDoc {
	items := make([]orderItemDoc, 0, len(o.Items))
	for _, it := range o.Items {
		d := orderItemDoc{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		}
		if it.Variant != nil {
			d.Variant = &cartVariantDoc{Name: it.Variant.Name, Type: it.Variant.Type}
		}
		items = append(items, d)
	}
	return orderDoc{
		OrderNumber: o.OrderNumber,
		CustomerID:  o.CustomerID,
		CustomerInfo: map[string]string{
			"name":       o.CustomerInfo.Name,
			"email":      o.CustomerInfo.Email,
			"phone":      o.CustomerInfo.Phone,
			"address":    o.CustomerInfo.Address,
			"city":       o.CustomerInfo.City,
			"postalCode": o.CustomerInfo.PostalCode,
		},
		Items:         items,
		Subtotal:      o.Subtotal,
		DeliveryZone:  o.DeliveryZone,
		DeliveryPrice: o.DeliveryPrice,
		Coupon:        o.CouponCode,
		Discount:      o.Discount,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentMethod: o.PaymentMethod,
		Notes:         o.Notes,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
}

// orderFromSnapshotData parses order data, tolerating the legacy string
// variant shape the same way the cart parser does.
func orderFromSnapshotData(id string, raw map[string]any) orderdom.Order {
	o := orderdom.Order{ID: id}
	if raw == nil {
		return o
	}

	o.OrderNumber = strings.TrimSpace(asString(raw["orderNumber"]))
	o.CustomerID = strings.TrimSpace(asString(raw["customerId"]))
	if m, ok := raw["customerInfo"].(map[string]any); ok {
		o.CustomerInfo = orderdom.CustomerInfo{
			Name:       strings.TrimSpace(asString(m["name"])),
			Email:      strings.TrimSpace(asString(m["email"])),
			Phone:      strings.TrimSpace(asString(m["phone"])),
			Address:    strings.TrimSpace(asString(m["address"])),
			City:       strings.TrimSpace(asString(m["city"])),
			PostalCode: strings.TrimSpace(asString(m["postalCode"])),
		}
	}

	arr, _ := raw["items"].([]any)
	for _, e := range arr {
		m, ok := e.(map[string]any)
		if !ok {
			continue
		}
		item := orderdom.ItemSnapshot{
			ProductID:   strings.TrimSpace(asString(m["productId"])),
			ProductName: strings.TrimSpace(asString(m["productName"])),
			UnitPrice:   asFloat(m["unitPrice"]),
			Quantity:    asInt(m["quantity"]),
		}
		if item.UnitPrice == 0 {
			item.UnitPrice = asFloat(m["price"])
		}
		if v := variantFromAny(m["variant"]); v != nil {
			item.Variant = &orderdom.ItemVariant{Name: v.Name, Type: v.Type}
		}
		o.Items = append(o.Items, item)
	}

	o.Subtotal = asFloat(raw["subtotal"])
	o.DeliveryZone = strings.TrimSpace(asString(raw["deliveryZone"]))
	o.DeliveryPrice = asFloat(raw["deliveryPrice"])
	o.CouponCode = strings.TrimSpace(asString(raw["coupon"]))
	o.Discount = asFloat(raw["discount"])
	o.Total = asFloat(raw["total"])
	o.Status = orderdom.Status(strings.TrimSpace(asString(raw["status"])))
	o.PaymentMethod = strings.TrimSpace(asString(raw["paymentMethod"]))
	o.Notes = asString(raw["notes"])
	if t, ok := asTime(raw["createdAt"]); ok {
		o.CreatedAt = t
	}
	if t, ok := asTime(raw["updatedAt"]); ok {
		o.UpdatedAt = t
	}
	return o
}
