package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"sort"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"dewchart/internal/modules/dewpoint/palette"
	"dewchart/internal/modules/dewpoint/types"
)

// ErrNoData is returned when there is nothing to draw.
var ErrNoData = errors.New("chart: no data to render")

const (
	pngBarWidth   = 22
	pngBarSpacing = 6
	pngMinWidth   = 800
	pngHeight     = 560
)

// RenderPNG draws a static bar chart of rows to w. Bars are grouped by month
// and colored by year. A non-zero year keeps only that year's rows.
func RenderPNG(w io.Writer, rows []types.MonthlyAverage, year int) error {
	bars := pngBars(rows, year)
	if len(bars) == 0 {
		return ErrNoData
	}

	title := DefaultTitle
	if year != 0 {
		title = YearTitle(year)
	}

	lo, hi := 0.0, 0.0
	for _, b := range bars {
		lo = math.Min(lo, b.Value)
		hi = math.Max(hi, b.Value)
	}

	bc := gochart.BarChart{
		Title:      title,
		TitleStyle: gochart.Style{FontColor: drawing.Color{R: 30, G: 30, B: 30, A: 255}},
		Background: gochart.Style{
			FillColor: drawing.Color{R: 255, G: 255, B: 255, A: 255},
			Padding:   gochart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		Canvas:     gochart.Style{FillColor: drawing.Color{R: 240, G: 240, B: 240, A: 230}},
		Width:      max(pngMinWidth, len(bars)*(pngBarWidth+pngBarSpacing)+160),
		Height:     pngHeight,
		BarWidth:   pngBarWidth,
		BarSpacing: pngBarSpacing,
		// a range minimum of exactly zero is rejected by go-chart
		YAxis: gochart.YAxis{
			Name:  YAxisTitle,
			Range: &gochart.ContinuousRange{Min: math.Floor(lo) - 1, Max: math.Ceil(hi) + 1},
		},
		UseBaseValue: true,
		BaseValue:    0,
		Bars:         bars,
	}

	if err := bc.Render(gochart.PNG, w); err != nil {
		return fmt.Errorf("render png: %w", err)
	}
	return nil
}

func pngBars(rows []types.MonthlyAverage, year int) []gochart.Value {
	selected := make([]types.MonthlyAverage, 0, len(rows))
	for _, row := range rows {
		if year == 0 || row.Year == year {
			selected = append(selected, row)
		}
	}

	sort.SliceStable(selected, func(i, j int) bool {
		if selected[i].MonthNumber != selected[j].MonthNumber {
			return selected[i].MonthNumber < selected[j].MonthNumber
		}
		return selected[i].Year < selected[j].Year
	})

	bars := make([]gochart.Value, 0, len(selected))
	for _, row := range selected {
		color := palette.Resolve(row.Year).Drawing()
		bars = append(bars, gochart.Value{
			Value: row.MeanDewPoint,
			Label: pngLabel(row, year != 0),
			Style: gochart.Style{
				FillColor:   color,
				StrokeColor: color,
				StrokeWidth: 1,
			},
		})
	}
	return bars
}

func pngLabel(row types.MonthlyAverage, singleYear bool) string {
	month := row.MonthName
	if r := []rune(month); len(r) > 3 {
		month = string(r[:3])
	}
	if singleYear {
		return month
	}
	return fmt.Sprintf("%s '%02d", month, row.Year%100)
}
