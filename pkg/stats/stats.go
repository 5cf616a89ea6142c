// Package stats provides the aggregation helpers used to condense multiple
// raw sensor samples into a single value
package stats

import "sort"

// Median returns the median of the provided samples: the middle element for
// an odd count, the arithmetic mean of the two middle elements for an even one
func Median(vals []int32) float64 {

	n := len(vals)
	if n == 0 {
		return 0.
	}

	sorted := make([]int32, n)
	copy(sorted, vals)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i] < sorted[j]
	})

	if n%2 == 1 {
		return float64(sorted[n/2])
	}

	return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2.
}

// Average returns the arithmetic mean of the provided samples
func Average(vals []int32) float64 {

	if len(vals) == 0 {
		return 0.
	}

	var sum int64
	for _, v := range vals {
		sum += int64(v)
	}

	return float64(sum) / float64(len(vals))
}
