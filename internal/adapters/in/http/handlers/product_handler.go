// internal/adapters/in/http/handlers/product_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	productdom "simo/internal/domain/product"
)

// ProductHandler serves the public catalog reads:
//
//	GET /shop/products         active products
//	GET /shop/products/{id}    one product
//
// Reads go straight to the repository; there is no write path here, so a
// usecase layer would only forward calls.
type ProductHandler struct {
	products productdom.Repository
}

func NewProductHandler(products productdom.Repository) http.Handler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/shop/products"), "/")
	if rest == "" {
		h.list(w, r)
		return
	}
	h.get(w, r, rest)
}

func (h *ProductHandler) list(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListActive(r.Context())
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	p, err := h.products.GetByID(r.Context(), id)
	if err != nil {
		writeProductErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func writeProductErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, productdom.ErrNotFound) {
		code = http.StatusNotFound
	}
	writeError(w, code, err.Error())
}
