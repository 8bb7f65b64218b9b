// Package palette maps a year to its fixed bar color. Years are grouped into
// five-year eras (green, yellow, blue, purple, red) that darken within each
// era; 2024 and 2025 extend the red era.
package palette

import (
	"fmt"

	"github.com/wcharczuk/go-chart/v2/drawing"
)

type RGB struct {
	R, G, B uint8
}

// Default is returned for any year outside the table.
var Default = RGB{0, 0, 0}

var byYear = map[int]RGB{
	1999: {144, 238, 144},
	2000: {124, 208, 124},
	2001: {104, 178, 104},
	2002: {84, 148, 84},
	2003: {64, 118, 64},

	2004: {255, 255, 153},
	2005: {255, 255, 102},
	2006: {255, 255, 51},
	2007: {255, 255, 0},
	2008: {204, 204, 0},

	2009: {173, 216, 230},
	2010: {135, 206, 250},
	2011: {100, 149, 237},
	2012: {65, 105, 225},
	2013: {0, 0, 255},

	2014: {216, 191, 216},
	2015: {186, 85, 211},
	2016: {138, 43, 226},
	2017: {75, 0, 130},
	2018: {148, 0, 211},

	2019: {255, 182, 193},
	2020: {255, 105, 180},
	2021: {255, 20, 147},
	2022: {219, 50, 55},
	2023: {255, 0, 0},
	2024: {200, 0, 0},
	2025: {139, 0, 0},
}

// Resolve returns the color for year, or Default when the year has none.
func Resolve(year int) RGB {
	if c, ok := byYear[year]; ok {
		return c
	}
	return Default
}

// Known reports whether year has its own color.
func Known(year int) bool {
	_, ok := byYear[year]
	return ok
}

// String formats the color as a CSS rgb() value, e.g. "rgb(135, 206, 250)".
func (c RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c.R, c.G, c.B)
}

func (c RGB) Drawing() drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
}
