package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	assert.Equal(t, 8, s.Count)
	assert.Equal(t, 40.0, s.Sum)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.Equal(t, 5.0, s.Mean)
	assert.InDelta(t, 2.0, s.Stddev, 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestSummarizeSingleValue(t *testing.T) {
	s := Summarize([]float64{3})
	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 3.0, s.Min)
	assert.Equal(t, 3.0, s.Max)
	assert.Equal(t, 0.0, s.Stddev)
}

func TestLinearRegressionExactFit(t *testing.T) {
	line, err := LinearRegression(
		[]float64{1, 2, 3, 4},
		[]float64{3, 5, 7, 9}, // y = 2x + 1
	)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, line.Slope, 1e-9)
	assert.InDelta(t, 1.0, line.Intercept, 1e-9)
	assert.InDelta(t, 1.0, line.R2, 1e-9)
}

func TestLinearRegressionFlatSeries(t *testing.T) {
	line, err := LinearRegression([]float64{1, 2, 3}, []float64{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, 0.0, line.Slope)
	assert.Equal(t, 5.0, line.Intercept)
	assert.Equal(t, 1.0, line.R2)
}

func TestLinearRegressionErrors(t *testing.T) {
	_, err := LinearRegression([]float64{1, 2}, []float64{1})
	assert.ErrorIs(t, err, ErrMismatchedSeries)

	_, err = LinearRegression([]float64{1}, []float64{1})
	assert.ErrorIs(t, err, ErrInsufficientData)

	_, err = LinearRegression([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.ErrorIs(t, err, ErrZeroVariance)
}

func TestParseColumn(t *testing.T) {
	rows := [][]string{
		{"http://example.org/a", "1.5"},
		{"http://example.org/b", "not a number"},
		{"http://example.org/c", "2.5"},
		{"short row"},
	}
	assert.Equal(t, []float64{1.5, 2.5}, ParseColumn(rows, 1))
	assert.Empty(t, ParseColumn(rows, 5))
}
