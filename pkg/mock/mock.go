// Package mock provides a synthetic raw value source for testing and for
// running the tooling without hardware attached
package mock

import (
	"sync"
	"time"

	"github.com/fako1024/hx711/pkg/scale"
)

// Source denotes a mock raw value source emitting scripted values. Once the
// script is exhausted the last value repeats indefinitely
type Source struct {
	values []int32
	index  int

	delay time.Duration
	err   error

	mu sync.Mutex
}

// Source satisfies the raw source capability consumed by the scale layer
var _ scale.RawSource = (*Source)(nil)

// NewSource instantiates a new mock source emitting the given values
func NewSource(values ...int32) *Source {
	return &Source{
		values: values,
	}
}

// SetDelay makes every produced value block for the given duration first,
// emulating the bounded wait of a real driver
func (s *Source) SetDelay(delay time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.delay = delay
}

// SetError makes all subsequent reads fail with the given error
func (s *Source) SetError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.err = err
}

// Append adds further values to the script
func (s *Source) Append(values ...int32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, values...)
}

// GetValues produces count raw values from the script
func (s *Source) GetValues(count int) ([]int32, error) {

	vals := make([]int32, count)
	for i := range vals {
		val, err := s.next()
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}

	return vals, nil
}

func (s *Source) next() (int32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return 0, s.err
	}
	if len(s.values) == 0 {
		return 0, nil
	}

	val := s.values[s.index]
	if s.index < len(s.values)-1 {
		s.index++
	}

	return val, nil
}
