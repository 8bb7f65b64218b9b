package types

import "math"

// MonthlyAverage is one row of the monthly aggregation: the mean dew point
// of all readings that fell into MonthNumber of Year.
type MonthlyAverage struct {
	MonthName    string  `json:"monthName"`
	MonthNumber  int     `json:"monthNumber"`
	Year         int     `json:"year"`
	MeanDewPoint float64 `json:"meanDewPoint"`
}

// Round1 rounds to one decimal place, halves to even.
func Round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
