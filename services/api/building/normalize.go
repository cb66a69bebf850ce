package building

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Degenerate columns are not special-cased: a constant column under min-max
// and a single-value column under mean normalization become all Missing.

// MinMaxNormalization rescales every column of every building to [0, 1]
// using that column's finite minimum and maximum.
func MinMaxNormalization(c Collection) error {
	for _, b := range c {
		normalizeColumns(b.Table, minMax)
	}
	return nil
}

// MeanNormalization rescales every column of every building to zero mean and
// unit sample standard deviation.
func MeanNormalization(c Collection) error {
	for _, b := range c {
		normalizeColumns(b.Table, zScore)
	}
	return nil
}

func normalizeColumns(t *Table, fn func([]float64) []float64) {
	if t == nil || t.Len() == 0 {
		return
	}
	for _, name := range t.columns {
		t.values[name] = fn(t.values[name])
	}
}

func minMax(vals []float64) []float64 {
	finite := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	lo, hi := math.NaN(), math.NaN()
	if len(finite) > 0 {
		lo, hi = floats.Min(finite), floats.Max(finite)
	}

	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - lo) / (hi - lo)
	}
	return out
}

func zScore(vals []float64) []float64 {
	present := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !IsMissing(v) {
			present = append(present, v)
		}
	}

	mean, std := math.NaN(), math.NaN()
	if len(present) > 0 {
		mean, std = stat.MeanStdDev(present, nil)
	}

	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = (v - mean) / std
	}
	return out
}
