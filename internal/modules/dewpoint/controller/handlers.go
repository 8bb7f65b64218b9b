package controller

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"dewchart/internal/modules/dewpoint/chart"
	"dewchart/internal/modules/dewpoint/views"
	"dewchart/internal/utils"
)

func (c *dewPointControllerImpl) handleChart(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	page := views.NewChartPage(c.report.Figure, summaryData(c.report), false)
	var buf bytes.Buffer
	if err := views.RenderChart(&buf, page); err != nil {
		slog.Error("chart template render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render page")
		return
	}
	utils.WriteBody(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (c *dewPointControllerImpl) handleSummaryPartial(w http.ResponseWriter, r *http.Request) {
	data := summaryData(c.report)
	var buf bytes.Buffer
	if err := views.RenderSummaryPartial(&buf, &data); err != nil {
		slog.Error("summary partial render failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render")
		return
	}
	utils.WriteBody(w, http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (c *dewPointControllerImpl) handleFigure(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, c.report.Figure)
}

func (c *dewPointControllerImpl) handleMonthlyAverages(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, filterYear(c.report.Rows, year))
}

func (c *dewPointControllerImpl) handleChartPNG(w http.ResponseWriter, r *http.Request) {
	year, err := parseYearQuery(r)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	var buf bytes.Buffer
	if err := chart.RenderPNG(&buf, c.report.Rows, year); err != nil {
		if errors.Is(err, chart.ErrNoData) {
			msg := "no data loaded"
			if year != 0 {
				msg = fmt.Sprintf("no data for year %d", year)
			}
			utils.WriteError(w, http.StatusNotFound, msg)
			return
		}
		slog.Error("png render failed", "year", year, "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to render chart")
		return
	}
	utils.WriteBody(w, http.StatusOK, "image/png", buf.Bytes())
}
