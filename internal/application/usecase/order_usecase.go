// internal/application/usecase/order_usecase.go
package usecase

import (
	"context"
	"errors"
	"strings"

	orderdom "simo/internal/domain/order"
)

var (
	ErrOrderInvalidArgument = errors.New("order_usecase: invalid argument")
	ErrOrderAccessDenied    = errors.New("order_usecase: access denied")
)

// OrderUsecase serves order queries and the admin status transition.
// Creation is CheckoutUsecase's job; orders are never deleted.
type OrderUsecase struct {
	orders orderdom.Repository
	clock  Clock
}

func NewOrderUsecase(orders orderdom.Repository) *OrderUsecase {
	return &OrderUsecase{orders: orders, clock: systemClock{}}
}

func NewOrderUsecaseWithClock(orders orderdom.Repository, clock Clock) *OrderUsecase {
	if clock == nil {
		clock = systemClock{}
	}
	return &OrderUsecase{orders: orders, clock: clock}
}

// GetByID returns the order when the requester owns it or is an admin.
func (uc *OrderUsecase) GetByID(ctx context.Context, id, requesterID string, requesterIsAdmin bool) (orderdom.Order, error) {
	o, err := uc.orders.GetByID(ctx, strings.TrimSpace(id))
	if err != nil {
		return orderdom.Order{}, err
	}
	if !requesterIsAdmin && o.CustomerID != strings.TrimSpace(requesterID) {
		return orderdom.Order{}, ErrOrderAccessDenied
	}
	return o, nil
}

// ListMine returns the customer's own orders, newest first.
func (uc *OrderUsecase) ListMine(ctx context.Context, customerID string) ([]orderdom.Order, error) {
	cid := strings.TrimSpace(customerID)
	if cid == "" {
		return nil, ErrOrderInvalidArgument
	}
	return uc.orders.ListByCustomer(ctx, cid)
}

// List returns orders matching the filter (admin).
func (uc *OrderUsecase) List(ctx context.Context, f orderdom.Filter) ([]orderdom.Order, error) {
	return uc.orders.List(ctx, f)
}

// SetStatus applies an admin status transition. Any status is reachable from
// any status; only updatedAt changes besides the status itself.
func (uc *OrderUsecase) SetStatus(ctx context.Context, id, status string) (orderdom.Order, error) {
	oid := strings.TrimSpace(id)
	if oid == "" {
		return orderdom.Order{}, ErrOrderInvalidArgument
	}
	s, err := orderdom.ParseStatus(status)
	if err != nil {
		return orderdom.Order{}, err
	}
	return uc.orders.UpdateStatus(ctx, oid, s, uc.clock.Now())
}
