// internal/adapters/in/http/handlers/checkout_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "simo/internal/application/usecase"
	coupondom "simo/internal/domain/coupon"
	zonedom "simo/internal/domain/deliveryzone"
	orderdom "simo/internal/domain/order"
	productdom "simo/internal/domain/product"

	"simo/internal/adapters/in/http/middleware"
)

// CheckoutHandler serves POST /shop/checkout. An Idempotency-Key header (or
// body field) makes retried submissions return the first order instead of a
// duplicate.
type CheckoutHandler struct {
	uc *usecase.CheckoutUsecase
}

func NewCheckoutHandler(uc *usecase.CheckoutUsecase) http.Handler {
	return &CheckoutHandler{uc: uc}
}

type checkoutRequest struct {
	CustomerInfo struct {
		Name       string `json:"name"`
		Email      string `json:"email"`
		Phone      string `json:"phone"`
		Address    string `json:"address"`
		City       string `json:"city"`
		PostalCode string `json:"postalCode"`
	} `json:"customerInfo"`

	DeliveryZoneID string `json:"deliveryZoneId"`
	CouponCode     string `json:"couponCode"`
	PaymentMethod  string `json:"paymentMethod"`
	Notes          string `json:"notes"`
	IdempotencyKey string `json:"idempotencyKey"`
}

func (h *CheckoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	uid, ok := middleware.CurrentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	key := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if key == "" {
		key = strings.TrimSpace(req.IdempotencyKey)
	}

	o, err := h.uc.PlaceOrder(r.Context(), usecase.PlaceOrderInput{
		UserID: uid,
		CustomerInfo: orderdom.CustomerInfo{
			Name:       req.CustomerInfo.Name,
			Email:      req.CustomerInfo.Email,
			Phone:      req.CustomerInfo.Phone,
			Address:    req.CustomerInfo.Address,
			City:       req.CustomerInfo.City,
			PostalCode: req.CustomerInfo.PostalCode,
		},
		DeliveryZoneID: req.DeliveryZoneID,
		CouponCode:     req.CouponCode,
		PaymentMethod:  req.PaymentMethod,
		Notes:          req.Notes,
		IdempotencyKey: key,
	})
	if err != nil {
		writeCheckoutErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func writeCheckoutErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrEmptyCart),
		errors.Is(err, usecase.ErrInvalidZone),
		errors.Is(err, orderdom.ErrInvalidCustomer),
		errors.Is(err, zonedom.ErrInactive):
		code = http.StatusBadRequest
	case errors.Is(err, zonedom.ErrNotFound),
		errors.Is(err, productdom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, productdom.ErrInsufficientStock):
		code = http.StatusConflict
	case errors.Is(err, coupondom.ErrNotFound),
		errors.Is(err, coupondom.ErrInactive),
		errors.Is(err, coupondom.ErrExpired),
		errors.Is(err, coupondom.ErrExhausted),
		errors.Is(err, coupondom.ErrMinOrderNotMet):
		code = http.StatusUnprocessableEntity
	}
	writeError(w, code, err.Error())
}
