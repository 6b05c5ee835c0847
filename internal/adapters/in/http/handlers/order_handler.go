// internal/adapters/in/http/handlers/order_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "simo/internal/application/usecase"
	orderdom "simo/internal/domain/order"

	"simo/internal/adapters/in/http/middleware"
)

// OrderHandler serves the customer-facing order endpoints:
//
//	GET /shop/orders         orders of the current customer, newest first
//	GET /shop/orders/{id}    one order (owner or admin)
type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &OrderHandler{uc: uc}
}

func (h *OrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.CurrentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/shop/orders"), "/")
	if rest == "" {
		h.listMine(w, r, uid)
		return
	}
	h.get(w, r, rest, uid)
}

func (h *OrderHandler) listMine(w http.ResponseWriter, r *http.Request, uid string) {
	orders, err := h.uc.ListMine(r.Context(), uid)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) get(w http.ResponseWriter, r *http.Request, id, uid string) {
	o, err := h.uc.GetByID(r.Context(), id, uid, middleware.IsAdmin(r))
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// AdminOrderHandler serves the back-office order endpoints:
//
//	GET   /admin/orders                    all orders, filterable
//	GET   /admin/orders/{id}               one order
//	PATCH /admin/orders/{id}/status        status transition
type AdminOrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewAdminOrderHandler(uc *usecase.OrderUsecase) http.Handler {
	return &AdminOrderHandler{uc: uc}
}

func (h *AdminOrderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/orders"), "/")

	switch {
	case r.Method == http.MethodGet && rest == "":
		h.list(w, r)
	case r.Method == http.MethodGet:
		h.get(w, r, rest)
	case r.Method == http.MethodPatch && strings.HasSuffix(rest, "/status"):
		h.setStatus(w, r, strings.TrimSuffix(rest, "/status"))
	default:
		methodNotAllowed(w)
	}
}

func (h *AdminOrderHandler) list(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var f orderdom.Filter
	if s := strings.TrimSpace(q.Get("customerId")); s != "" {
		f.CustomerID = &s
	}
	if s := strings.TrimSpace(q.Get("status")); s != "" {
		st, err := orderdom.ParseStatus(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid status filter")
			return
		}
		f.Status = &st
	}
	f.CreatedFrom = parseRFC3339Ptr(q.Get("from"))
	f.CreatedTo = parseRFC3339Ptr(q.Get("to"))

	orders, err := h.uc.List(r.Context(), f)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *AdminOrderHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	uid, _ := middleware.CurrentUserID(r)
	o, err := h.uc.GetByID(r.Context(), id, uid, true)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminOrderHandler) setStatus(w http.ResponseWriter, r *http.Request, id string) {
	var req setStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	o, err := h.uc.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		writeOrderErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func writeOrderErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrOrderInvalidArgument),
		errors.Is(err, orderdom.ErrInvalidStatus):
		code = http.StatusBadRequest
	case errors.Is(err, usecase.ErrOrderAccessDenied):
		code = http.StatusForbidden
	case errors.Is(err, orderdom.ErrNotFound):
		code = http.StatusNotFound
	}
	writeError(w, code, err.Error())
}
