package hx711

import "errors"

// Value denotes a raw sensor value decoded from the chip's 24-bit
// two's-complement output
type Value int32

const (

	// MinValue denotes the lowest representable raw value
	MinValue Value = -0x800000

	// MaxValue denotes the highest representable raw value
	MaxValue Value = 0x7fffff
)

// IsSaturated returns if the value denotes an out-of-range analog input. A
// saturated value is not a communication error, it merely carries no usable
// measurement
func (v Value) IsSaturated() bool {
	return v == MinValue || v == MaxValue
}

// decodeTwosComplement sign-extends bit 23 of the 24-bit field
func decodeTwosComplement(f uint32) Value {
	return Value(-(int32(f) & 0x800000) + (int32(f) & 0x7fffff))
}

// Channel denotes the chip's input multiplexer selection
type Channel int

const (

	// ChannelA denotes input channel A (gain 128 or 64)
	ChannelA Channel = iota

	// ChannelB denotes input channel B (fixed gain 32)
	ChannelB
)

// String returns a human-readable representation of the channel
func (c Channel) String() string {
	switch c {
	case ChannelA:
		return "A"
	case ChannelB:
		return "B"
	}
	return "unknown"
}

// Gain denotes the chip's amplifier setting
type Gain int

const (

	// Gain128 denotes a gain of 128 (channel A)
	Gain128 Gain = 128

	// Gain64 denotes a gain of 64 (channel A)
	Gain64 Gain = 64

	// Gain32 denotes a gain of 32 (channel B)
	Gain32 Gain = 32
)

// pulses returns the total number of clock pulses per conversion period for
// the gain. The pulses beyond the 24 data bits select channel and gain for
// the next conversion
func (g Gain) pulses() int {
	if g == Gain64 {
		return 27
	}
	return 25
}

// validConfig returns if the channel/gain pairing is one the chip supports
func validConfig(c Channel, g Gain) bool {
	switch {
	case c == ChannelA && (g == Gain128 || g == Gain64):
		return true
	case c == ChannelB && g == Gain32:
		return true
	}
	return false
}

// Format denotes a bit or byte ordering
type Format int

const (

	// MSB denotes most-significant-first ordering
	MSB Format = iota

	// LSB denotes least-significant-first ordering
	LSB
)

// WatcherState denotes the lifecycle state of the background watcher
type WatcherState int

const (

	// Uninitialized is active before the driver has been started
	Uninitialized WatcherState = iota

	// Running is active while the watcher is polling the sensor
	Running

	// Paused is active while the watcher is suspended around power
	// transitions and configuration changes
	Paused

	// Terminated is active after shutdown; it is terminal
	Terminated
)

var (

	// ErrTimeout is returned when the sensor does not provide a value within
	// the configured bounds; the caller may retry
	ErrTimeout = errors.New("timed out waiting for sensor value")

	// ErrInvalidConfig is returned for an unsupported channel/gain pairing
	ErrInvalidConfig = errors.New("invalid channel/gain combination")
)
