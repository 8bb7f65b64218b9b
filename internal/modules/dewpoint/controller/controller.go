package controller

import (
	"net/http"

	"dewchart/internal/modules/dewpoint/service"
)

type DewPointController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dewPointControllerImpl struct {
	report *service.Report
}

func NewDewPointController(report *service.Report) DewPointController {
	return &dewPointControllerImpl{report: report}
}

func (c *dewPointControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleChart)
	mux.HandleFunc("GET /chart.png", c.handleChartPNG)
	mux.HandleFunc("GET /partials/summary", c.handleSummaryPartial)
	mux.HandleFunc("GET /api/v1/figure", c.handleFigure)
	mux.HandleFunc("GET /api/v1/monthly-averages", c.handleMonthlyAverages)
}
