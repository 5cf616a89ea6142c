package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMedian(t *testing.T) {

	cases := []struct {
		name string
		vals []int32
		want float64
	}{
		{"odd count", []int32{1, 2, 3, 4, 5}, 3.},
		{"even count", []int32{1, 2, 3, 4}, 2.5},
		{"unsorted", []int32{5, 1, 4, 2, 3}, 3.},
		{"single", []int32{42}, 42.},
		{"negative", []int32{-10, 0, 10}, 0.},
		{"empty", nil, 0.},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Median(c.vals))
		})
	}
}

func TestMedianLeavesInputUntouched(t *testing.T) {

	vals := []int32{3, 1, 2}
	Median(vals)

	assert.Equal(t, []int32{3, 1, 2}, vals)
}

func TestAverage(t *testing.T) {

	cases := []struct {
		name string
		vals []int32
		want float64
	}{
		{"integral mean", []int32{1, 2, 3}, 2.},
		{"fractional mean", []int32{1, 2, 3, 4}, 2.5},
		{"single", []int32{42}, 42.},
		{"negative", []int32{-5, 5}, 0.},
		{"empty", nil, 0.},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			assert.Equal(t, c.want, Average(c.vals))
		})
	}
}
