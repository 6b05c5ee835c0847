// internal/adapters/in/http/handlers/coupon_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	usecase "simo/internal/application/usecase"
	"simo/internal/application/pricing"
	coupondom "simo/internal/domain/coupon"
)

// CouponHandler serves POST /shop/coupons/validate: resolves a code against
// the current subtotal and returns the discount it would grant.
type CouponHandler struct {
	uc *usecase.CouponUsecase
}

func NewCouponHandler(uc *usecase.CouponUsecase) http.Handler {
	return &CouponHandler{uc: uc}
}

type validateCouponRequest struct {
	Code     string  `json:"code"`
	Subtotal float64 `json:"subtotal"`
}

type validateCouponResponse struct {
	Valid    bool             `json:"valid"`
	Coupon   coupondom.Coupon `json:"coupon"`
	Discount float64          `json:"discount"`
}

func (h *CouponHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req validateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.uc.Validate(r.Context(), req.Code, req.Subtotal)
	if err != nil {
		writeCouponErr(w, err)
		return
	}

	writeJSON(w, http.StatusOK, validateCouponResponse{
		Valid:    true,
		Coupon:   c,
		Discount: pricing.Round2(c.DiscountFor(req.Subtotal)),
	})
}

// AdminCouponHandler serves the back-office coupon CRUD under /admin/coupons.
type AdminCouponHandler struct {
	uc *usecase.CouponUsecase
}

func NewAdminCouponHandler(uc *usecase.CouponUsecase) http.Handler {
	return &AdminCouponHandler{uc: uc}
}

func (h *AdminCouponHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/coupons"), "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
		h.list(w, r)
	case r.Method == http.MethodPost && rest == "":
		h.create(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, rest)
	case r.Method == http.MethodPatch:
		h.update(w, r, rest)
	case r.Method == http.MethodDelete:
		h.deactivate(w, r, rest)
	default:
		methodNotAllowed(w)
	}
}

func (h *AdminCouponHandler) list(w http.ResponseWriter, r *http.Request) {
	coupons, err := h.uc.List(r.Context())
	if err != nil {
		writeCouponErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, coupons)
}

func (h *AdminCouponHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	c, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		writeCouponErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type createCouponRequest struct {
	Code       string  `json:"code"`
	Type       string  `json:"type"`
	Value      float64 `json:"value"`
	MinOrder   float64 `json:"minOrder"`
	UsageLimit int     `json:"usageLimit"`
	Expiry     string  `json:"expiry"`
}

func (h *AdminCouponHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.uc.Create(r.Context(), usecase.CreateCouponInput{
		Code:       req.Code,
		Type:       coupondom.Type(strings.TrimSpace(req.Type)),
		Value:      req.Value,
		MinOrder:   req.MinOrder,
		UsageLimit: req.UsageLimit,
		Expiry:     parseRFC3339Ptr(req.Expiry),
	})
	if err != nil {
		writeCouponErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

type updateCouponRequest struct {
	Value      *float64 `json:"value"`
	MinOrder   *float64 `json:"minOrder"`
	UsageLimit *int     `json:"usageLimit"`
	Expiry     *string  `json:"expiry"`
	IsActive   *bool    `json:"isActive"`
}

func (h *AdminCouponHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	in := usecase.UpdateCouponInput{
		ID:         id,
		Value:      req.Value,
		MinOrder:   req.MinOrder,
		UsageLimit: req.UsageLimit,
		IsActive:   req.IsActive,
	}
	if req.Expiry != nil {
		t, err := time.Parse(time.RFC3339, strings.TrimSpace(*req.Expiry))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid expiry")
			return
		}
		in.Expiry = &t
	}

	c, err := h.uc.Update(r.Context(), in)
	if err != nil {
		writeCouponErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *AdminCouponHandler) deactivate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.Deactivate(r.Context(), id); err != nil {
		writeCouponErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func writeCouponErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrCouponInvalidArgument),
		errors.Is(err, coupondom.ErrInvalidCoupon):
		code = http.StatusBadRequest
	case errors.Is(err, coupondom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, coupondom.ErrInactive),
		errors.Is(err, coupondom.ErrExpired),
		errors.Is(err, coupondom.ErrExhausted),
		errors.Is(err, coupondom.ErrMinOrderNotMet):
		code = http.StatusUnprocessableEntity
	}
	writeError(w, code, err.Error())
}
