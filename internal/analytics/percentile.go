package analytics

import (
	"math"
	"sort"
)

// Percentile returns the nearest-rank percentile of an ascending slice,
// using the zero-based index floor(n*p) clamped to the last element.
func Percentile(sorted []float64, p float64) (float64, bool) {
	n := len(sorted)
	if n == 0 {
		return 0, false
	}
	idx := int(math.Floor(float64(n) * p))
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	return sorted[idx], true
}

// Quartiles returns the 25th, 50th and 75th percentile of values.
func Quartiles(values []float64) (p25, p50, p75 float64) {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	p25, _ = Percentile(sorted, 0.25)
	p50, _ = Percentile(sorted, 0.50)
	p75, _ = Percentile(sorted, 0.75)
	return p25, p50, p75
}
