// Package scale turns raw load-cell samples into calibrated mass values via
// a linear offset / reference-unit transform
package scale

import (
	"fmt"
	"math"
	"sync"

	"github.com/fako1024/hx711/pkg/stats"
)

// Scale denotes a calibrated scale on top of any raw value source
type Scale struct {
	source RawSource

	massUnit Unit
	refUnit  float64
	offset   float64

	logger Logger

	mu sync.Mutex
}

// New instantiates a new Scale with explicit initial calibration values,
// executing functional options, if any
func New(source RawSource, unit Unit, refUnit, offset float64, options ...func(*Scale)) (*Scale, error) {

	if refUnit == 0 {
		return nil, ErrZeroReferenceUnit
	}

	s := &Scale{
		source:   source,
		massUnit: unit,
		refUnit:  refUnit,
		offset:   offset,
		logger:   &NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(s)
	}

	return s, nil
}

// Unit returns the current mass unit
func (s *Scale) Unit() Unit {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.massUnit
}

// SetUnit sets the mass unit
func (s *Scale) SetUnit(unit Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.massUnit = unit
}

// ReferenceUnit returns the current reference unit
func (s *Scale) ReferenceUnit() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.refUnit
}

// SetReferenceUnit sets the divisor converting raw sensor units into mass
// units; it must not be 0
func (s *Scale) SetReferenceUnit(refUnit float64) error {

	if refUnit == 0 {
		return ErrZeroReferenceUnit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.refUnit = refUnit
	return nil
}

// Offset returns the current raw-value baseline corresponding to zero mass
func (s *Scale) Offset() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.offset
}

// SetOffset sets the raw-value baseline corresponding to zero mass
func (s *Scale) SetOffset(offset float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.offset = offset
}

// Normalise converts a raw value into a calibrated one
func (s *Scale) Normalise(v float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	return (v - s.offset) / s.refUnit
}

// sample collects the requested number of raw samples from the source and
// aggregates them according to the read type
func (s *Scale) sample(rt ReadType, samples int) (float64, error) {

	if samples < 1 {
		return 0., fmt.Errorf("%w: got %d", ErrSampleCount, samples)
	}
	if rt != Median && rt != Average {
		return 0., fmt.Errorf("%w: %d", ErrUnknownReadType, rt)
	}

	vals, err := s.source.GetValues(samples)
	if err != nil {
		return 0., err
	}

	switch rt {
	case Average:
		return stats.Average(vals), nil
	default:
		return stats.Median(vals), nil
	}
}

// Read collects the requested number of raw samples from the source,
// aggregates them according to the read type and normalises the result
func (s *Scale) Read(rt ReadType, samples int) (float64, error) {

	val, err := s.sample(rt, samples)
	if err != nil {
		return 0., err
	}

	return s.Normalise(val), nil
}

// Zero calibrates the scale so that the current load reads as zero mass. The
// new offset is the aggregate read against the old offset (with a reference
// unit of 1), so repeated calls with an unchanged load are not idempotent: a
// second call cancels the first calibration rather than reinforcing it
func (s *Scale) Zero(rt ReadType, samples int) error {

	val, err := s.sample(rt, samples)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.offset = math.Round(val - s.offset)
	s.mu.Unlock()

	s.logger.Debugf("scale zeroed, new offset: %v", s.Offset())
	return nil
}

// Weight returns the current calibrated mass in the configured unit
func (s *Scale) Weight(rt ReadType, samples int) (Mass, error) {

	val, err := s.Read(rt, samples)
	if err != nil {
		return Mass{Unit: UnitUnknown}, err
	}

	return Mass{
		Value: val,
		Unit:  s.Unit(),
	}, nil
}
