// internal/adapters/in/http/handlers/report_handler.go
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	usecase "simo/internal/application/usecase"
)

// ReportHandler serves the back-office dashboard:
//
//	GET /admin/stats                         headline counters
//	GET /admin/reports/sales?from=&to=       date-range sales report
type ReportHandler struct {
	uc *usecase.ReportUsecase
}

func NewReportHandler(uc *usecase.ReportUsecase) http.Handler {
	return &ReportHandler{uc: uc}
}

func (h *ReportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	switch {
	case strings.TrimSuffix(r.URL.Path, "/") == "/admin/stats":
		h.stats(w, r)
	case strings.TrimSuffix(r.URL.Path, "/") == "/admin/reports/sales":
		h.sales(w, r)
	default:
		notFound(w)
	}
}

func (h *ReportHandler) stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.uc.Stats(r.Context())
	if err != nil {
		writeReportErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *ReportHandler) sales(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("from")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date, want YYYY-MM-DD")
		return
	}
	to, err := time.Parse("2006-01-02", strings.TrimSpace(q.Get("to")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date, want YYYY-MM-DD")
		return
	}

	report, err := h.uc.Report(r.Context(), from, to)
	if err != nil {
		writeReportErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeReportErr(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if errors.Is(err, usecase.ErrReportInvalidRange) {
		code = http.StatusBadRequest
	}
	writeError(w, code, err.Error())
}
