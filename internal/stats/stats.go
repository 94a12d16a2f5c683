// Package stats provides the numeric summaries and regression lines used
// by dashboard chart panels: per-column descriptive statistics and a
// least-squares trendline over result columns.
package stats

import (
	"errors"
	"math"
	"strconv"
)

// Summary holds descriptive statistics for a numeric series.
type Summary struct {
	Count  int     `json:"count"`
	Sum    float64 `json:"sum"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	Mean   float64 `json:"mean"`
	Stddev float64 `json:"stddev"`
}

// Line is a fitted least-squares regression line y = Slope*x + Intercept.
type Line struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

var (
	// ErrInsufficientData indicates fewer than two points were supplied.
	ErrInsufficientData = errors.New("regression requires at least two points")

	// ErrMismatchedSeries indicates xs and ys differ in length.
	ErrMismatchedSeries = errors.New("series lengths differ")

	// ErrZeroVariance indicates all x values are identical, so no line
	// can be fitted.
	ErrZeroVariance = errors.New("x series has zero variance")
)

// Summarize computes descriptive statistics for a series.
// An empty series yields a zero Summary with Count 0.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}

	s := Summary{
		Count: len(values),
		Min:   values[0],
		Max:   values[0],
	}
	for _, v := range values {
		s.Sum += v
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
	}
	s.Mean = s.Sum / float64(s.Count)

	var ss float64
	for _, v := range values {
		d := v - s.Mean
		ss += d * d
	}
	// Population standard deviation.
	s.Stddev = math.Sqrt(ss / float64(s.Count))
	return s
}

// LinearRegression fits a least-squares line through (xs[i], ys[i]).
func LinearRegression(xs, ys []float64) (Line, error) {
	if len(xs) != len(ys) {
		return Line{}, ErrMismatchedSeries
	}
	if len(xs) < 2 {
		return Line{}, ErrInsufficientData
	}

	n := float64(len(xs))
	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / n
	meanY := sumY / n

	var sxx, sxy, syy float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		sxx += dx * dx
		sxy += dx * dy
		syy += dy * dy
	}
	if sxx == 0 {
		return Line{}, ErrZeroVariance
	}

	line := Line{Slope: sxy / sxx}
	line.Intercept = meanY - line.Slope*meanX

	// A flat y series is fitted exactly by the horizontal line.
	if syy == 0 {
		line.R2 = 1
	} else {
		line.R2 = (sxy * sxy) / (sxx * syy)
	}
	return line, nil
}

// ParseColumn extracts a numeric series from a result column.
// Cells that do not parse as numbers are skipped.
func ParseColumn(rows [][]string, col int) []float64 {
	values := []float64{}
	for _, row := range rows {
		if col < 0 || col >= len(row) {
			continue
		}
		v, err := strconv.ParseFloat(row[col], 64)
		if err != nil {
			continue
		}
		values = append(values, v)
	}
	return values
}
