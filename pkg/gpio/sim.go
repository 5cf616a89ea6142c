package gpio

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

const (
	bitsPerSample = 24

	// A clock line held high for at least this long powers the chip down
	simPowerDownThreshold = 60 * time.Microsecond
)

// Sim is an in-memory Conn that mimics a 24-bit bit-serial load-cell ADC on
// two pins: the data pin goes low when a queued sample is ready, bits shift
// out MSB-first on clock rising edges and the data pin is pulled high again
// from the 25th pulse onwards. Rising-edge counts per conversion period and
// power-down events are recorded for assertions.
type Sim struct {
	mu sync.Mutex

	dataPin  int
	clockPin int

	claims map[int]Direction
	clock  Level

	pending []int32
	cur     uint32
	curVal  int32
	popped  bool
	outBit  Level

	pulseCount int
	highSince  time.Time

	// Repeat keeps the last queued sample available indefinitely
	Repeat bool

	// ClaimErr, if set, is returned by every Claim call
	ClaimErr error

	pulseCounts    []int
	powerCycles    int
	accessErrors   int
	closed         bool
	usedAfterClose bool
}

// NewSim instantiates a simulated chip wired to the given data and clock pins
func NewSim(dataPin, clockPin int) *Sim {
	return &Sim{
		dataPin:  dataPin,
		clockPin: clockPin,
		claims:   make(map[int]Direction),
	}
}

// QueueSamples appends raw samples to be shifted out, one per conversion
func (s *Sim) QueueSamples(vals ...int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, vals...)
}

// Queued returns the number of samples not yet consumed
func (s *Sim) Queued() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// PulseCounts returns the total rising edges of each completed conversion
func (s *Sim) PulseCounts() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make([]int, len(s.pulseCounts))
	copy(counts, s.pulseCounts)
	return counts
}

// PowerCycles returns the number of observed power-down events (clock held
// high for at least 60µs)
func (s *Sim) PowerCycles() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.powerCycles
}

// AccessErrors returns the number of accesses to unclaimed pins
func (s *Sim) AccessErrors() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessErrors
}

// UsedAfterClose returns if any pin access occurred after Close
func (s *Sim) UsedAfterClose() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usedAfterClose
}

// Claim requests exclusive access to a pin with the given direction
func (s *Sim) Claim(pin int, dir Direction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.usedAfterClose = true
		return errors.New("sim: chip closed")
	}
	if s.ClaimErr != nil {
		return s.ClaimErr
	}
	if pin != s.dataPin && pin != s.clockPin {
		return fmt.Errorf("sim: pin %d not wired", pin)
	}
	if _, exists := s.claims[pin]; exists {
		return fmt.Errorf("sim: pin %d already claimed", pin)
	}

	s.claims[pin] = dir
	return nil
}

// Read returns the current level of a claimed input pin
func (s *Sim) Read(pin int) (Level, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.usedAfterClose = true
		return Low, errors.New("sim: chip closed")
	}
	if _, exists := s.claims[pin]; !exists {
		s.accessErrors++
		return Low, fmt.Errorf("sim: pin %d not claimed", pin)
	}

	if pin == s.clockPin {
		return s.clock, nil
	}

	// Mid-pulse: the driver samples the bit presented on the last rising edge
	if s.clock == High {
		return s.outBit, nil
	}

	// Clock low: readiness query. A completed conversion period is finalized
	// here, making the next queued sample (if any) available
	if s.pulseCount >= bitsPerSample+1 {
		s.finalize()
	}
	if s.pulseCount > 0 {
		return High, nil
	}
	if len(s.pending) > 0 {
		return Low, nil
	}

	return High, nil
}

// Write sets the level of a claimed output pin
func (s *Sim) Write(pin int, level Level) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.usedAfterClose = true
		return errors.New("sim: chip closed")
	}
	if dir, exists := s.claims[pin]; !exists || dir != Output {
		s.accessErrors++
		return fmt.Errorf("sim: pin %d not claimed as output", pin)
	}
	if pin != s.clockPin || level == s.clock {
		return nil
	}

	if level == High {
		s.risingEdge()
	} else {
		s.fallingEdge()
	}
	s.clock = level

	return nil
}

// Release relinquishes a previously claimed pin
func (s *Sim) Release(pin int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		s.usedAfterClose = true
		return errors.New("sim: chip closed")
	}
	if _, exists := s.claims[pin]; !exists {
		return fmt.Errorf("sim: pin %d not claimed", pin)
	}
	delete(s.claims, pin)

	return nil
}

// Close releases all pins and marks the chip closed
func (s *Sim) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.claims = make(map[int]Direction)
	s.closed = true

	return nil
}

func (s *Sim) risingEdge() {

	s.highSince = time.Now()

	if s.pulseCount == 0 {
		if len(s.pending) == 0 {
			s.outBit = High
			return
		}

		// Start of a conversion period: latch the next sample and present
		// its most significant bit
		s.curVal = s.pending[0]
		s.cur = uint32(s.curVal) & 0xffffff
		s.popped = false
		if !s.Repeat || len(s.pending) > 1 {
			s.pending = s.pending[1:]
			s.popped = true
		}
		s.pulseCount = 1
		s.outBit = s.bitAt(bitsPerSample - 1)
		return
	}

	s.pulseCount++
	if s.pulseCount <= bitsPerSample {
		s.outBit = s.bitAt(bitsPerSample - s.pulseCount)
	} else {
		// Trailing pulses select channel/gain; data is pulled high
		s.outBit = High
	}
}

func (s *Sim) fallingEdge() {

	if time.Since(s.highSince) < simPowerDownThreshold {
		return
	}

	// Stretched pulses mid-stream are ignored so scheduler pauses between
	// edges cannot masquerade as power transitions
	if s.pulseCount > 1 && s.pulseCount <= bitsPerSample {
		return
	}

	s.powerCycles++
	if s.pulseCount > bitsPerSample {

		// The pulse expressing the power-down is not part of the completed
		// conversion period preceding it
		s.pulseCounts = append(s.pulseCounts, s.pulseCount-1)
		s.pulseCount = 0
		s.popped = false
		return
	}
	s.finalize()
}

// finalize closes the current conversion period: a fully clocked sample is
// recorded, an interrupted one is requeued
func (s *Sim) finalize() {

	if s.pulseCount >= bitsPerSample+1 {
		s.pulseCounts = append(s.pulseCounts, s.pulseCount)
	} else if s.pulseCount > 0 && s.popped {
		s.pending = append([]int32{s.curVal}, s.pending...)
	}
	s.pulseCount = 0
	s.popped = false
}

func (s *Sim) bitAt(idx int) Level {
	if (s.cur>>uint(idx))&0x01 == 0x01 {
		return High
	}
	return Low
}
