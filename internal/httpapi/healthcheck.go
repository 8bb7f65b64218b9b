package httpapi

import (
	"net/http"
	"time"

	"dewchart/internal/modules/dewpoint/service"
	"dewchart/internal/utils"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

// Reports on the loaded report. The database is already closed by then.
type healthcheckerImpl struct {
	report *service.Report
}

func NewHealthchecker(report *service.Report) healthchecker {
	return &healthcheckerImpl{report: report}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if h.report == nil {
		utils.WriteError(w, http.StatusServiceUnavailable, "report not loaded")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"driver":   h.report.Driver,
		"rows":     len(h.report.Rows),
		"years":    h.report.Figure.SeriesCount(),
		"loadedAt": h.report.LoadedAt.UTC().Format(time.RFC3339),
	})
}

func registerHealthcheck(mux *http.ServeMux, report *service.Report) {
	healthchecker := NewHealthchecker(report)
	mux.HandleFunc("GET /healthz", healthchecker.handleHealthz)
}
