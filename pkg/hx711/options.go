package hx711

import (
	"time"

	"github.com/fako1024/hx711/pkg/gpio"
	"github.com/fako1024/hx711/pkg/scale"
)

// WithChip sets the GPIO character device to open on Begin
func WithChip(name string) func(*HX711) {
	return func(h *HX711) {
		h.chipName = name
	}
}

// WithConn injects an already opened GPIO connection (e.g. a gpio.Sim); the
// driver will not close it
func WithConn(conn gpio.Conn) func(*HX711) {
	return func(h *HX711) {
		h.conn = conn
		h.ownConn = false
	}
}

// WithConfig sets the initial channel/gain applied on Begin
func WithConfig(channel Channel, gain Gain) func(*HX711) {
	return func(h *HX711) {
		h.channel = channel
		h.gain = gain
	}
}

// WithBitFormat sets the order in which bits assemble into bytes
func WithBitFormat(f Format) func(*HX711) {
	return func(h *HX711) {
		h.bitFormat = f
	}
}

// WithByteFormat sets the order in which bytes assemble into the 24-bit field
func WithByteFormat(f Format) func(*HX711) {
	return func(h *HX711) {
		h.byteFormat = f
	}
}

// WithPollInterval sets the watcher sleep after a successful publication
func WithPollInterval(d time.Duration) func(*HX711) {
	return func(h *HX711) {
		h.pollInterval = d
	}
}

// WithNotReadyInterval sets the watcher backoff while the sensor is not ready
func WithNotReadyInterval(d time.Duration) func(*HX711) {
	return func(h *HX711) {
		h.notReadyInterval = d
	}
}

// WithSaturatedInterval sets the watcher backoff after a saturated reading
func WithSaturatedInterval(d time.Duration) func(*HX711) {
	return func(h *HX711) {
		h.saturatedInterval = d
	}
}

// WithMaxWait sets the maximum time a bounded-wait read blocks for a value
func WithMaxWait(d time.Duration) func(*HX711) {
	return func(h *HX711) {
		h.maxWait = d
	}
}

// WithDelay overrides the precise inter-pulse delay primitive, e.g. to back
// it by a hardware timer on platforms where busy-waiting is unsuitable
func WithDelay(fn func(time.Duration)) func(*HX711) {
	return func(h *HX711) {
		h.delay = fn
	}
}

// WithLogger sets a custom logger for the driver
func WithLogger(logger scale.Logger) func(*HX711) {
	return func(h *HX711) {
		h.logger = logger
	}
}
