// internal/adapters/in/http/handlers/cart_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "simo/internal/application/usecase"
	cartdom "simo/internal/domain/cart"
	productdom "simo/internal/domain/product"

	"simo/internal/adapters/in/http/middleware"
)

// CartHandler serves the authenticated customer's cart:
//
//	GET    /shop/cart              current cart
//	DELETE /shop/cart              clear
//	POST   /shop/cart/items        add (merges matching lines)
//	PATCH  /shop/cart/items        set quantity
//	DELETE /shop/cart/items        remove one line (query params)
type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) http.Handler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.CurrentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	isItems := strings.TrimSuffix(r.URL.Path, "/") == "/shop/cart/items"

	switch {
	case r.Method == http.MethodGet && !isItems:
		h.get(w, r, uid)
	case r.Method == http.MethodDelete && !isItems:
		h.clear(w, r, uid)
	case r.Method == http.MethodPost && isItems:
		h.addItem(w, r, uid)
	case r.Method == http.MethodPatch && isItems:
		h.setQuantity(w, r, uid)
	case r.Method == http.MethodDelete && isItems:
		h.removeItem(w, r, uid)
	default:
		methodNotAllowed(w)
	}
}

func (h *CartHandler) get(w http.ResponseWriter, r *http.Request, uid string) {
	c, err := h.uc.Get(r.Context(), uid)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type cartItemRequest struct {
	ProductID   string `json:"productId"`
	VariantName string `json:"variantName"`
	VariantType string `json:"variantType"`
	Quantity    int    `json:"quantity"`
}

func (h *CartHandler) addItem(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ref := variantRefFrom(req.VariantName, req.VariantType)
	c, err := h.uc.AddItem(r.Context(), uid, req.ProductID, ref, req.Quantity)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) setQuantity(w http.ResponseWriter, r *http.Request, uid string) {
	var req cartItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	ref := variantRefFrom(req.VariantName, req.VariantType)
	c, err := h.uc.SetItemQuantity(r.Context(), uid, req.ProductID, ref, req.Quantity)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) removeItem(w http.ResponseWriter, r *http.Request, uid string) {
	q := r.URL.Query()
	ref := variantRefFrom(q.Get("variantName"), q.Get("variantType"))

	c, err := h.uc.RemoveItem(r.Context(), uid, q.Get("productId"), ref)
	if err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CartHandler) clear(w http.ResponseWriter, r *http.Request, uid string) {
	if err := h.uc.Clear(r.Context(), uid); err != nil {
		writeCartErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

func writeCartErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrCartInvalidArgument):
		code = http.StatusBadRequest
	case errors.Is(err, productdom.ErrNotFound),
		errors.Is(err, productdom.ErrVariantUnknown),
		errors.Is(err, cartdom.ErrLineNotFound):
		code = http.StatusNotFound
	case errors.Is(err, productdom.ErrInsufficientStock),
		errors.Is(err, cartdom.ErrVersionConflict):
		code = http.StatusConflict
	}
	writeError(w, code, err.Error())
}
