package views

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"time"

	"dewchart/internal/modules/dewpoint/chart"
	"dewchart/internal/modules/dewpoint/service"
	"dewchart/internal/modules/dewpoint/types"
)

//go:embed templates
var viewsFS embed.FS

// PlotlyURL is the Plotly.js bundle the chart page loads.
const PlotlyURL = "https://cdn.plot.ly/plotly-2.35.2.min.js"

var pageTmpl *template.Template

// loadTemplatesFromFS loads page templates from the given fs and dir.
// Used by LoadTemplates and by tests to simulate failure scenarios.
func loadTemplatesFromFS(fsys fs.FS, dir string) error {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		return err
	}
	pageTmpl, err = template.ParseFS(sub, "*.html", "partials/*.html")
	if err != nil {
		return err
	}
	return nil
}

// LoadTemplates loads embedded templates. Call during startup before
// serving requests; if it returns an error, do not start the server.
func LoadTemplates() error {
	return loadTemplatesFromFS(viewsFS, "templates")
}

// SummaryData is the view model for the summary partial.
type SummaryData struct {
	Rows      int
	Years     int
	FirstYear int
	LastYear  int
	Min       *types.MonthlyAverage
	Max       *types.MonthlyAverage
	Driver    string
	LoadedAt  time.Time
}

func NewSummaryData(s service.Summary) SummaryData {
	return SummaryData{
		Rows:      s.Rows,
		Years:     s.Years,
		FirstYear: s.FirstYear,
		LastYear:  s.LastYear,
		Min:       s.Min,
		Max:       s.Max,
		Driver:    s.Driver,
		LoadedAt:  s.LoadedAt,
	}
}

// ChartPage is the view model for the full chart page.
type ChartPage struct {
	Title       string
	PlotlyURL   string
	Standalone  bool // exported file: no links back to the server
	Figure      chart.Figure
	SeriesCount int
	Summary     SummaryData
}

// NewChartPage fills the page defaults around fig.
func NewChartPage(fig chart.Figure, summary SummaryData, standalone bool) *ChartPage {
	return &ChartPage{
		Title:       chart.DefaultTitle,
		PlotlyURL:   PlotlyURL,
		Standalone:  standalone,
		Figure:      fig,
		SeriesCount: fig.SeriesCount(),
		Summary:     summary,
	}
}

func RenderChart(w io.Writer, data *ChartPage) error {
	if pageTmpl == nil {
		return errors.New("chart template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "chart.html", data)
}

// RenderSummaryPartial executes only the summary partial into w.
// Use for HTMX fragment refresh.
func RenderSummaryPartial(w io.Writer, data *SummaryData) error {
	if pageTmpl == nil {
		return errors.New("chart template not loaded: call views.LoadTemplates during startup")
	}
	return pageTmpl.ExecuteTemplate(w, "partials/summary.html", data)
}
