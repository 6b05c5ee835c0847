// internal/adapters/in/http/handlers/zone_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"

	usecase "simo/internal/application/usecase"
	zonedom "simo/internal/domain/deliveryzone"
)

// ZoneHandler serves GET /shop/delivery-zones: active zones for the checkout
// form. Public, no auth.
type ZoneHandler struct {
	uc *usecase.DeliveryZoneUsecase
}

func NewZoneHandler(uc *usecase.DeliveryZoneUsecase) http.Handler {
	return &ZoneHandler{uc: uc}
}

func (h *ZoneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	zones, err := h.uc.ListActive(r.Context())
	if err != nil {
		writeZoneErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zones)
}

// AdminZoneHandler serves the back-office zone CRUD under /admin/delivery-zones.
type AdminZoneHandler struct {
	uc *usecase.DeliveryZoneUsecase
}

func NewAdminZoneHandler(uc *usecase.DeliveryZoneUsecase) http.Handler {
	return &AdminZoneHandler{uc: uc}
}

func (h *AdminZoneHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/admin/delivery-zones"), "/")

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

func (h *AdminZoneHandler) list(w http.ResponseWriter, r *http.Request) {
	zones, err := h.uc.ListActive(r.Context())
	if err != nil {
		writeZoneErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, zones)
}

func (h *AdminZoneHandler) get(w http.ResponseWriter, r *http.Request, id string) {
	z, err := h.uc.GetByID(r.Context(), id)
	if err != nil {
		writeZoneErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

type createZoneRequest struct {
	Name   string   `json:"name"`
	Cities []string `json:"cities"`
	Price  float64  `json:"price"`
}

func (h *AdminZoneHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	z, err := h.uc.Create(r.Context(), usecase.CreateZoneInput{
		Name:   req.Name,
		Cities: req.Cities,
		Price:  req.Price,
	})
	if err != nil {
		writeZoneErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, z)
}

type updateZoneRequest struct {
	Name     *string   `json:"name"`
	Cities   *[]string `json:"cities"`
	Price    *float64  `json:"price"`
	IsActive *bool     `json:"isActive"`
}

func (h *AdminZoneHandler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req updateZoneRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json body")
		return
	}

	z, err := h.uc.Update(r.Context(), usecase.UpdateZoneInput{
		ID:       id,
		Name:     req.Name,
		Cities:   req.Cities,
		Price:    req.Price,
		IsActive: req.IsActive,
	})
	if err != nil {
		writeZoneErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, z)
}

func (h *AdminZoneHandler) deactivate(w http.ResponseWriter, r *http.Request, id string) {
	if err := h.uc.Deactivate(r.Context(), id); err != nil {
		writeZoneErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deactivated"})
}

func writeZoneErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, usecase.ErrZoneInvalidArgument),
		errors.Is(err, zonedom.ErrInvalidZone):
		code = http.StatusBadRequest
	case errors.Is(err, zonedom.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, zonedom.ErrInactive):
		code = http.StatusUnprocessableEntity
	}
	writeError(w, code, err.Error())
}
