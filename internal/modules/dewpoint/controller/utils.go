package controller

import (
	"errors"
	"net/http"
	"strconv"

	"dewchart/internal/modules/dewpoint/service"
	"dewchart/internal/modules/dewpoint/types"
	"dewchart/internal/modules/dewpoint/views"
)

// parseYearQuery reads the optional ?year= filter; 0 means all years.
func parseYearQuery(r *http.Request) (int, error) {
	s := r.URL.Query().Get("year")
	if s == "" {
		return 0, nil
	}
	year, err := strconv.Atoi(s)
	if err != nil || year <= 0 {
		return 0, errors.New("invalid 'year' (expected positive integer)")
	}
	return year, nil
}

func filterYear(rows []types.MonthlyAverage, year int) []types.MonthlyAverage {
	if year == 0 && rows != nil {
		return rows
	}
	out := []types.MonthlyAverage{}
	for _, row := range rows {
		if row.Year == year {
			out = append(out, row)
		}
	}
	return out
}

func summaryData(report *service.Report) views.SummaryData {
	return views.NewSummaryData(report.Summary())
}
