// internal/domain/order/entity.go
package order

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound            = errors.New("order: not found")
	ErrInvalidID           = errors.New("order: invalid id")
	ErrInvalidCustomer     = errors.New("order: invalid customer")
	ErrInvalidItems        = errors.New("order: invalid items")
	ErrInvalidAmounts      = errors.New("order: invalid amounts")
	ErrInvalidStatus       = errors.New("order: invalid status")
	ErrInvalidItemSnapshot = errors.New("order: invalid item snapshot")
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// ParseStatus validates an externally supplied status string.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusPending:
		return StatusPending, nil
	case StatusConfirmed:
		return StatusConfirmed, nil
	case StatusShipped:
		return StatusShipped, nil
	case StatusDelivered:
		return StatusDelivered, nil
	case StatusCancelled:
		return StatusCancelled, nil
	}
	return "", ErrInvalidStatus
}

// VariantNotFoundName marks an item whose stored variant reference could not
// be re-resolved against the catalog at checkout. A display degradation, not
// an order failure.
const VariantNotFoundName = "Variant not found"

// ========================================
// Snapshot structs (stored in Order)
// ========================================

// CustomerInfo is captured at order time, independent of later profile edits.
type CustomerInfo struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode,omitempty"`
}

// ItemVariant is the resolved variant stored on an order item. Never a bare
// reference: by the time an order is cut, the name/type are materialized.
type ItemVariant struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

type ItemSnapshot struct {
	ProductID   string       `json:"productId"`
	ProductName string       `json:"productName"`
	Variant     *ItemVariant `json:"variant,omitempty"`
	UnitPrice   float64      `json:"unitPrice"`
	Quantity    int          `json:"quantity"`
}

// ========================================
// Entity
// ========================================

// Order is immutable once created except for Status and UpdatedAt.
// Orders are never deleted; cancellation is a status.
type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"`

	CustomerID   string       `json:"customerId"`
	CustomerInfo CustomerInfo `json:"customerInfo"`

	Items []ItemSnapshot `json:"items"`

	Subtotal      float64 `json:"subtotal"`
	DeliveryZone  string  `json:"deliveryZone"`
	DeliveryPrice float64 `json:"deliveryPrice"`
	CouponCode    string  `json:"coupon,omitempty"`
	Discount      float64 `json:"discount"`
	Total         float64 `json:"total"`

	Status        Status `json:"status"`
	PaymentMethod string `json:"paymentMethod"`
	Notes         string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func New(
	id string,
	orderNumber string,
	customerID string,
	info CustomerInfo,
	items []ItemSnapshot,
	subtotal float64,
	deliveryZone string,
	deliveryPrice float64,
	couponCode string,
	discount float64,
	total float64,
	paymentMethod string,
	createdAt time.Time,
) (Order, error) {
	o := Order{
		ID:            strings.TrimSpace(id),
		OrderNumber:   strings.TrimSpace(orderNumber),
		CustomerID:    strings.TrimSpace(customerID),
		CustomerInfo:  normalizeInfo(info),
		Items:         normalizeItems(items),
		Subtotal:      subtotal,
		DeliveryZone:  strings.TrimSpace(deliveryZone),
		DeliveryPrice: deliveryPrice,
		CouponCode:    strings.ToUpper(strings.TrimSpace(couponCode)),
		Discount:      discount,
		Total:         total,
		Status:        StatusPending,
		PaymentMethod: strings.TrimSpace(paymentMethod),
		CreatedAt:     createdAt.UTC(),
		UpdatedAt:     createdAt.UTC(),
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = "cod"
	}
	if err := o.validate(); err != nil {
		return Order{}, err
	}
	return o, nil
}

// SetStatus records an admin-driven transition. Any state is reachable from
// any state; delivered/cancelled are terminal in practice but not enforced.
func (o *Order) SetStatus(s Status, now time.Time) error {
	if _, err := ParseStatus(string(s)); err != nil {
		return err
	}
	o.Status = s
	o.UpdatedAt = now.UTC()
	return nil
}

// UnitsSold returns the total quantity across items.
func (o Order) UnitsSold() int {
	n := 0
	for _, it := range o.Items {
		n += it.Quantity
	}
	return n
}

// ========================================
// Validation
// ========================================

func (o Order) validate() error {
	if o.ID == "" || o.OrderNumber == "" {
		return ErrInvalidID
	}
	if o.CustomerID == "" || strings.TrimSpace(o.CustomerInfo.Email) == "" {
		return ErrInvalidCustomer
	}
	if len(o.Items) == 0 {
		return ErrInvalidItems
	}
	for _, it := range o.Items {
		if strings.TrimSpace(it.ProductID) == "" || it.Quantity <= 0 || it.UnitPrice < 0 {
			return ErrInvalidItemSnapshot
		}
	}
	if o.Subtotal < 0 || o.DeliveryPrice < 0 || o.Discount < 0 || o.Total < 0 {
		return ErrInvalidAmounts
	}
	// total is derived, never trusted from input
	want := o.Subtotal + o.DeliveryPrice - o.Discount
	if want < 0 {
		want = 0
	}
	if math.Abs(want-o.Total) > 0.005 {
		return ErrInvalidAmounts
	}
	return nil
}

// ========================================
// Order numbers
// ========================================

// NewNumber generates a unique order number: "ORD" + unix millis + a short
// random suffix so two orders cut in the same millisecond cannot collide.
func NewNumber(now time.Time) string {
	suffix := strings.ToUpper(uuid.NewString()[:6])
	return fmt.Sprintf("ORD%d-%s", now.UTC().UnixMilli(), suffix)
}

// ========================================
// Helpers
// ========================================

func normalizeInfo(i CustomerInfo) CustomerInfo {
	i.Name = strings.TrimSpace(i.Name)
	i.Email = strings.ToLower(strings.TrimSpace(i.Email))
	i.Phone = strings.TrimSpace(i.Phone)
	i.Address = strings.TrimSpace(i.Address)
	i.City = strings.TrimSpace(i.City)
	i.PostalCode = strings.TrimSpace(i.PostalCode)
	return i
}

func normalizeItems(items []ItemSnapshot) []ItemSnapshot {
	out := make([]ItemSnapshot, 0, len(items))
	for _, it := range items {
		n := ItemSnapshot{
			ProductID:   strings.TrimSpace(it.ProductID),
			ProductName: strings.TrimSpace(it.ProductName),
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
		}
		if it.Variant != nil {
			n.Variant = &ItemVariant{
				Name: strings.TrimSpace(it.Variant.Name),
				Type: strings.TrimSpace(it.Variant.Type),
			}
		}
		out = append(out, n)
	}
	return out
}
