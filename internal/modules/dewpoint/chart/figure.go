// Package chart builds the dew-point bar chart: a Plotly figure for the
// interactive page and a go-chart rendering for static PNG export.
package chart

import (
	"strconv"

	"dewchart/internal/modules/dewpoint/palette"
	"dewchart/internal/modules/dewpoint/types"
)

const (
	DefaultTitle  = "Average dew point in each month"
	AllYearsLabel = "All years"
	XAxisTitle    = "Month"
	YAxisTitle    = "Average dew point (°C)"

	hoverTemplate = "<b>%{x}</b><br>Average dew point: %{y}°C"
	fontFamily    = "Arial, sans-serif"
)

// Figure is a Plotly figure. Field names and JSON tags follow Plotly's
// schema so the value can be handed to Plotly.newPlot as is.
type Figure struct {
	Data   []Bar  `json:"data"`
	Layout Layout `json:"layout"`

	years []int
}

type Bar struct {
	Type          string    `json:"type"`
	Name          string    `json:"name"`
	X             []string  `json:"x"`
	Y             []float64 `json:"y"`
	Marker        Marker    `json:"marker"`
	HoverTemplate string    `json:"hovertemplate"`
	Text          []string  `json:"text"`
	TextPosition  string    `json:"textposition"`
	ShowLegend    bool      `json:"showlegend"`
	Visible       bool      `json:"visible"`
}

type Marker struct {
	Color string `json:"color"`
}

type Font struct {
	Size   int    `json:"size"`
	Family string `json:"family"`
	Color  string `json:"color"`
}

type Title struct {
	Text    string  `json:"text"`
	X       float64 `json:"x"`
	XAnchor string  `json:"xanchor"`
	YAnchor string  `json:"yanchor"`
	Font    Font    `json:"font"`
}

type AxisTitle struct {
	Text string `json:"text"`
	Font Font   `json:"font"`
}

type Axis struct {
	Title         AxisTitle `json:"title"`
	TickFont      Font      `json:"tickfont"`
	ShowGrid      bool      `json:"showgrid"`
	GridColor     string    `json:"gridcolor"`
	ZeroLine      bool      `json:"zeroline"`
	ZeroLineColor string    `json:"zerolinecolor"`
}

type Margin struct {
	T int `json:"t"`
	B int `json:"b"`
	L int `json:"l"`
	R int `json:"r"`
}

// Button is one dropdown entry. Args holds the data update (trace
// visibility) and the layout update (title) for Plotly's "update" method.
type Button struct {
	Label  string `json:"label"`
	Method string `json:"method"`
	Args   []any  `json:"args"`
}

type UpdateMenu struct {
	Type       string   `json:"type"`
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	ShowActive bool     `json:"showactive"`
	Buttons    []Button `json:"buttons"`
}

type Layout struct {
	Title        Title        `json:"title"`
	XAxis        Axis         `json:"xaxis"`
	YAxis        Axis         `json:"yaxis"`
	PlotBGColor  string       `json:"plot_bgcolor"`
	PaperBGColor string       `json:"paper_bgcolor"`
	ShowLegend   bool         `json:"showlegend"`
	UpdateMenus  []UpdateMenu `json:"updatemenus"`
	Margin       Margin       `json:"margin"`
	DragMode     string       `json:"dragmode"`
}

// NewFigure groups rows into one bar series per distinct year, in the order
// years first appear in rows, and adds a dropdown with an "All years" entry
// followed by one entry per year. Empty input yields a figure with no series.
func NewFigure(rows []types.MonthlyAverage) Figure {
	var years []int
	byYear := make(map[int]*Bar)

	for _, row := range rows {
		bar, ok := byYear[row.Year]
		if !ok {
			name := strconv.Itoa(row.Year)
			bar = &Bar{
				Type:          "bar",
				Name:          name,
				X:             []string{},
				Y:             []float64{},
				Marker:        Marker{Color: palette.Resolve(row.Year).String()},
				HoverTemplate: hoverTemplate,
				Text:          []string{},
				TextPosition:  "outside",
				ShowLegend:    true,
				Visible:       true,
			}
			byYear[row.Year] = bar
			years = append(years, row.Year)
		}
		bar.X = append(bar.X, row.MonthName)
		bar.Y = append(bar.Y, row.MeanDewPoint)
		bar.Text = append(bar.Text, BarLabel(row.MeanDewPoint, row.Year))
	}

	data := make([]Bar, 0, len(years))
	for _, y := range years {
		data = append(data, *byYear[y])
	}

	return Figure{
		Data:   data,
		Layout: newLayout(years),
		years:  years,
	}
}

// BarLabel is the text drawn outside a bar, e.g. "5.0°C (2020)".
func BarLabel(mean float64, year int) string {
	return strconv.FormatFloat(mean, 'f', 1, 64) + "°C (" + strconv.Itoa(year) + ")"
}

// YearTitle is the chart title while a single year is selected.
func YearTitle(year int) string {
	return "Average dew point in " + strconv.Itoa(year)
}

// Years returns the series years in display order.
func (f Figure) Years() []int {
	return append([]int(nil), f.years...)
}

func (f Figure) SeriesCount() int {
	return len(f.Data)
}

func newLayout(years []int) Layout {
	axisTitleFont := Font{Size: 18, Family: fontFamily, Color: "rgb(80, 80, 80)"}
	tickFont := Font{Size: 14, Family: fontFamily, Color: "rgb(80, 80, 80)"}
	gridColor := "rgba(200, 200, 200, 0.5)"

	axis := func(title string) Axis {
		return Axis{
			Title:         AxisTitle{Text: title, Font: axisTitleFont},
			TickFont:      tickFont,
			ShowGrid:      true,
			GridColor:     gridColor,
			ZeroLine:      true,
			ZeroLineColor: gridColor,
		}
	}

	return Layout{
		Title: Title{
			Text:    DefaultTitle,
			X:       0.5,
			XAnchor: "center",
			YAnchor: "top",
			Font:    Font{Size: 24, Family: fontFamily, Color: "rgb(30, 30, 30)"},
		},
		XAxis:        axis(XAxisTitle),
		YAxis:        axis(YAxisTitle),
		PlotBGColor:  "rgba(240, 240, 240, 0.9)",
		PaperBGColor: "rgba(255, 255, 255, 0.7)",
		ShowLegend:   true,
		UpdateMenus: []UpdateMenu{{
			Type:       "dropdown",
			X:          0.1,
			Y:          1.15,
			ShowActive: true,
			Buttons:    yearButtons(years),
		}},
		Margin:   Margin{T: 50, B: 50, L: 50, R: 50},
		DragMode: "zoom",
	}
}

func yearButtons(years []int) []Button {
	all := make([]bool, len(years))
	for i := range all {
		all[i] = true
	}

	buttons := make([]Button, 0, len(years)+1)
	buttons = append(buttons, updateButton(AllYearsLabel, all, DefaultTitle))

	for i, year := range years {
		only := make([]bool, len(years))
		only[i] = true
		buttons = append(buttons, updateButton(strconv.Itoa(year), only, YearTitle(year)))
	}
	return buttons
}

func updateButton(label string, visible []bool, title string) Button {
	return Button{
		Label:  label,
		Method: "update",
		Args: []any{
			map[string]any{"visible": visible},
			map[string]any{"title.text": title},
		},
	}
}
