package scale

import (
	"errors"
	"fmt"
	"strings"
)

// Unit denotes the unit of a mass value
type Unit string

const (

	// UnitUnknown denotes an unknown / invalid unit
	UnitUnknown Unit = "--"

	// UnitMilligrams denotes thousandths of a gram
	UnitMilligrams Unit = "mg"

	// UnitGrams denotes metric units
	UnitGrams Unit = "g"

	// UnitKilograms denotes thousands of grams
	UnitKilograms Unit = "kg"

	// UnitOz denotes imperial ounces
	UnitOz Unit = "oz"

	// UnitPounds denotes imperial pounds
	UnitPounds Unit = "lb"
)

// Mass denotes a calibrated mass value tagged with its unit
type Mass struct {
	Value float64
	Unit  Unit
}

// String returns a human-readable representation of the mass
func (m Mass) String() string {
	return fmt.Sprintf("%.2f %s", m.Value, m.Unit)
}

// ReadType denotes how multiple raw samples are aggregated into one value
type ReadType int

const (

	// Median aggregates samples via their median
	Median ReadType = iota

	// Average aggregates samples via their arithmetic mean
	Average
)

// String returns a human-readable representation of the read type
func (r ReadType) String() string {
	switch r {
	case Median:
		return "median"
	case Average:
		return "average"
	}
	return "unknown"
}

// ParseReadType converts a string into a ReadType
func ParseReadType(s string) (ReadType, error) {
	switch strings.ToLower(s) {
	case "median":
		return Median, nil
	case "average", "mean":
		return Average, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownReadType, s)
}

// RawSource denotes any producer of raw sensor values. Each value may block
// up to the source's own bounded wait and fail with a timeout if unavailable
type RawSource interface {

	// GetValues produces count raw values from the source
	GetValues(count int) ([]int32, error)
}

var (

	// ErrZeroReferenceUnit is returned when attempting to set a reference unit of 0
	ErrZeroReferenceUnit = errors.New("reference unit cannot be 0")

	// ErrSampleCount is returned when requesting fewer than one sample
	ErrSampleCount = errors.New("sample count must be at least 1")

	// ErrUnknownReadType is returned for an unsupported aggregation type
	ErrUnknownReadType = errors.New("unknown read type")
)
