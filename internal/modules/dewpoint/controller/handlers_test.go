package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"dewchart/internal/modules/dewpoint/chart"
	"dewchart/internal/modules/dewpoint/service"
	"dewchart/internal/modules/dewpoint/types"
	"dewchart/internal/modules/dewpoint/views"
)

func testReport(rows []types.MonthlyAverage) *service.Report {
	return &service.Report{
		Rows:     rows,
		Figure:   chart.NewFigure(rows),
		Driver:   "sqlite3",
		LoadedAt: time.Date(2025, 2, 3, 14, 30, 0, 0, time.UTC),
	}
}

func sampleRows() []types.MonthlyAverage {
	return []types.MonthlyAverage{
		{MonthName: "January", MonthNumber: 1, Year: 2020, MeanDewPoint: 5.0},
		{MonthName: "February", MonthNumber: 2, Year: 2020, MeanDewPoint: 6.0},
		{MonthName: "January", MonthNumber: 1, Year: 2021, MeanDewPoint: 7.0},
	}
}

func newTestMux(t *testing.T, report *service.Report) *http.ServeMux {
	t.Helper()
	if err := views.LoadTemplates(); err != nil {
		t.Fatalf("LoadTemplates(): %v", err)
	}
	mux := http.NewServeMux()
	NewDewPointController(report).RegisterRoutes(mux)
	return mux
}

func serve(mux *http.ServeMux, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func Test_handleChart(t *testing.T) {
	mux := newTestMux(t, testReport(sampleRows()))

	t.Run("renders page at /", func(t *testing.T) {
		rec := serve(mux, "/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if ct := rec.Header().Get("Content-Type"); ct != "text/html; charset=utf-8" {
			t.Errorf("Content-Type = %q", ct)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Plotly.newPlot") || !strings.Contains(body, `"name":"2021"`) {
			t.Errorf("page does not embed the figure; got %q", body)
		}
	})

	t.Run("returns 404 for other paths", func(t *testing.T) {
		if rec := serve(mux, "/dashboard"); rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
	})

	t.Run("returns 404 when path is not exactly /", func(t *testing.T) {
		ctrl := NewDewPointController(testReport(nil)).(*dewPointControllerImpl)
		req := httptest.NewRequest(http.MethodGet, "http://example.com/", nil)
		req.URL.Path = "//"
		rec := httptest.NewRecorder()

		ctrl.handleChart(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d for path %q", rec.Code, http.StatusNotFound, req.URL.Path)
		}
	})

	t.Run("renders empty chart", func(t *testing.T) {
		rec := serve(newTestMux(t, testReport([]types.MonthlyAverage{})), "/")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
		}
		if !strings.Contains(rec.Body.String(), "No dew point readings") {
			t.Error("empty page missing empty-state message")
		}
	})
}

func Test_handleFigure(t *testing.T) {
	rec := serve(newTestMux(t, testReport(sampleRows())), "/api/v1/figure")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}

	var fig struct {
		Data []struct {
			Name   string    `json:"name"`
			Y      []float64 `json:"y"`
			Marker struct {
				Color string `json:"color"`
			} `json:"marker"`
		} `json:"data"`
		Layout struct {
			DragMode    string `json:"dragmode"`
			UpdateMenus []struct {
				Buttons []struct {
					Label string `json:"label"`
				} `json:"buttons"`
			} `json:"updatemenus"`
		} `json:"layout"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&fig); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(fig.Data) != 2 || fig.Data[0].Name != "2020" || fig.Data[1].Marker.Color != "rgb(255, 20, 147)" {
		t.Errorf("data = %+v", fig.Data)
	}
	if fig.Layout.DragMode != "zoom" || len(fig.Layout.UpdateMenus[0].Buttons) != 3 {
		t.Errorf("layout = %+v", fig.Layout)
	}
}

func Test_handleMonthlyAverages(t *testing.T) {
	mux := newTestMux(t, testReport(sampleRows()))

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantRows   int
	}{
		{name: "all rows", target: "/api/v1/monthly-averages", wantStatus: http.StatusOK, wantRows: 3},
		{name: "one year", target: "/api/v1/monthly-averages?year=2020", wantStatus: http.StatusOK, wantRows: 2},
		{name: "absent year", target: "/api/v1/monthly-averages?year=1999", wantStatus: http.StatusOK, wantRows: 0},
		{name: "invalid year", target: "/api/v1/monthly-averages?year=abc", wantStatus: http.StatusBadRequest},
		{name: "negative year", target: "/api/v1/monthly-averages?year=-4", wantStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(mux, tt.target)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d; want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus != http.StatusOK {
				var body map[string]any
				if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
					t.Fatalf("decode error body: %v", err)
				}
				if body["error"] != http.StatusText(tt.wantStatus) {
					t.Errorf("error = %v", body["error"])
				}
				return
			}
			var rows []types.MonthlyAverage
			if err := json.NewDecoder(rec.Body).Decode(&rows); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if rows == nil || len(rows) != tt.wantRows {
				t.Errorf("rows = %v; want %d (non-null)", rows, tt.wantRows)
			}
		})
	}
}

func Test_handleChartPNG(t *testing.T) {
	mux := newTestMux(t, testReport(sampleRows()))

	t.Run("all years", func(t *testing.T) {
		rec := serve(mux, "/chart.png")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d; want %d (%s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
			t.Errorf("Content-Type = %q", ct)
		}
		if !bytes.HasPrefix(rec.Body.Bytes(), []byte("\x89PNG")) {
			t.Error("body is not a PNG")
		}
	})

	t.Run("single year", func(t *testing.T) {
		if rec := serve(mux, "/chart.png?year=2021"); rec.Code != http.StatusOK {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusOK)
		}
	})

	t.Run("absent year", func(t *testing.T) {
		rec := serve(mux, "/chart.png?year=2015")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
		if !strings.Contains(rec.Body.String(), "no data for year 2015") {
			t.Errorf("body = %q", rec.Body.String())
		}
	})

	t.Run("invalid year", func(t *testing.T) {
		if rec := serve(mux, "/chart.png?year=20x0"); rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusBadRequest)
		}
	})

	t.Run("no data", func(t *testing.T) {
		rec := serve(newTestMux(t, testReport(nil)), "/chart.png")
		if rec.Code != http.StatusNotFound {
			t.Errorf("status = %d; want %d", rec.Code, http.StatusNotFound)
		}
	})
}

func Test_handleSummaryPartial(t *testing.T) {
	rec := serve(newTestMux(t, testReport(sampleRows())), "/partials/summary")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d; want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "2020–2021") || !strings.Contains(body, "sqlite3") {
		t.Errorf("partial = %q", body)
	}
	if strings.Contains(body, "<!DOCTYPE html>") {
		t.Error("partial rendered the full layout")
	}
}

func Test_parseYearQuery(t *testing.T) {
	tests := []struct {
		query   string
		want    int
		wantErr bool
	}{
		{query: "", want: 0},
		{query: "year=2010", want: 2010},
		{query: "year=0", wantErr: true},
		{query: "year=abc", wantErr: true},
		{query: "year=", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/chart.png?"+tt.query, nil)
			got, err := parseYearQuery(r)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v; wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("year = %d; want %d", got, tt.want)
			}
		})
	}
}

func Test_filterYear(t *testing.T) {
	if got := filterYear(nil, 0); got == nil || len(got) != 0 {
		t.Errorf("filterYear(nil, 0) = %#v; want empty non-nil", got)
	}
	if got := filterYear(sampleRows(), 2021); len(got) != 1 || got[0].MeanDewPoint != 7.0 {
		t.Errorf("filterYear(2021) = %+v", got)
	}
}
