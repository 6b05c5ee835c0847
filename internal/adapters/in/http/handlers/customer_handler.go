// internal/adapters/in/http/handlers/customer_handler.go
package handlers

import (
	"errors"
	"net/http"
	"time"

	custdom "simo/internal/domain/customer"

	"simo/internal/adapters/in/http/middleware"
)

// CustomerHandler serves the authenticated customer's own profile:
//
//	GET /shop/me    profile + purchase aggregates
//	PUT /shop/me    create or update the profile
//
// Aggregates (totalSpent, orderCount) are owned by the checkout transaction
// and are never writable here.
type CustomerHandler struct {
	customers custdom.Repository
}

func NewCustomerHandler(customers custdom.Repository) http.Handler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.CurrentUserID(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, r, uid)
	case http.MethodPut:
		h.upsert(w, r, uid)
	default:
		methodNotAllowed(w)
	}
}

func (h *CustomerHandler) get(w http.ResponseWriter, r *http.Request, uid string) {
	c, err := h.customers.GetByID(r.Context(), uid)
	if err != nil {
		writeCustomerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

type upsertCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

func (h *CustomerHandler) upsert(w http.ResponseWriter, r *http.Request, uid string) {
	var req upsertCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	c, err := h.customers.GetByID(r.Context(), uid)
	switch {
	case err == nil:
		// keep aggregates, registration date and role
	case errors.Is(err, custdom.ErrNotFound):
		email, _ := middleware.CurrentEmail(r)
		c, err = custdom.New(uid, req.Name, email, req.Phone, time.Now())
		if err != nil {
			writeCustomerErr(w, err)
			return
		}
	default:
		writeCustomerErr(w, err)
		return
	}

	c.Name = req.Name
	c.Phone = req.Phone
	c.Address = req.Address
	c.City = req.City

	if err := h.customers.Upsert(r.Context(), c); err != nil {
		writeCustomerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// AdminCustomerHandler serves GET /admin/customers: all registered customers
// with their purchase aggregates.
type AdminCustomerHandler struct {
	customers custdom.Repository
}

func NewAdminCustomerHandler(customers custdom.Repository) http.Handler {
	return &AdminCustomerHandler{customers: customers}
}

func (h *AdminCustomerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeCustomerErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func writeCustomerErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, custdom.ErrInvalidCustomer):
		code = http.StatusBadRequest
	case errors.Is(err, custdom.ErrNotFound):
		code = http.StatusNotFound
	}
	writeError(w, code, err.Error())
}
