// Package hx711 implements the two-wire bit-banging protocol of a 24-bit
// bit-serial load-cell ADC attached to a clock output pin and a data input
// pin, including gain/channel configuration, saturation handling and a
// background watcher publishing values to concurrent consumers
package hx711

import (
	"fmt"
	"sync"
	"time"

	"github.com/fako1024/hx711/pkg/gpio"
	"github.com/fako1024/hx711/pkg/scale"
)

const (
	bytesPerSample = 3

	// Minimum clock high/low hold per the datasheet (T2/T3), rounded up
	pulseDelay = time.Microsecond

	// Clock held high at least this long powers the chip down
	powerDownHold = 60 * time.Microsecond

	// Re-check interval while the watcher is paused
	pausedInterval = time.Millisecond

	defaultPollInterval      = 20 * time.Millisecond
	defaultNotReadyInterval  = time.Millisecond
	defaultSaturatedInterval = 100 * time.Millisecond
	defaultMaxWait           = time.Second
	defaultReadTries         = 200
)

// The driver acts as a raw value source for the scale layer
var _ scale.RawSource = (*HX711)(nil)

// HX711 denotes a load-cell ADC attached to two GPIO pins
type HX711 struct {
	dataPin  int
	clockPin int

	chipName string
	conn     gpio.Conn
	ownConn  bool

	channel    Channel
	gain       Gain
	bitFormat  Format
	byteFormat Format

	delay func(time.Duration)

	pollInterval      time.Duration
	notReadyInterval  time.Duration
	saturatedInterval time.Duration
	maxWait           time.Duration
	readTries         int

	busMu sync.Mutex

	mu     sync.Mutex
	state  WatcherState
	value  Value
	seq    uint64
	notify chan struct{}
	done   chan struct{}

	logger scale.Logger
}

// New instantiates a new HX711 bound to the given data and clock pins,
// executing functional options, if any. No hardware access takes place
// until Begin is called
func New(dataPin, clockPin int, options ...func(*HX711)) *HX711 {

	h := &HX711{
		dataPin:           dataPin,
		clockPin:          clockPin,
		chipName:          gpio.DefaultChip,
		channel:           ChannelA,
		gain:              Gain128,
		delay:             delayBusy,
		pollInterval:      defaultPollInterval,
		notReadyInterval:  defaultNotReadyInterval,
		saturatedInterval: defaultSaturatedInterval,
		maxWait:           defaultMaxWait,
		readTries:         defaultReadTries,
		notify:            make(chan struct{}),
		logger:            &scale.NullLogger{},
	}

	// Execute functional options (if any), see options.go for implementation
	for _, option := range options {
		option(h)
	}

	return h
}

// Begin claims the pins, resets the chip via a power-down/power-up cycle,
// applies the configured channel/gain and starts the background watcher.
// A pin or chip acquisition failure is fatal and leaves the driver unusable
func (h *HX711) Begin() error {

	if h.conn == nil {
		conn, err := gpio.Open(h.chipName)
		if err != nil {
			return fmt.Errorf("failed to open GPIO chip %s: %w", h.chipName, err)
		}
		h.conn = conn
		h.ownConn = true
	}

	if err := h.conn.Claim(h.dataPin, gpio.Input); err != nil {
		return fmt.Errorf("failed to claim data pin %d: %w", h.dataPin, err)
	}
	if err := h.conn.Claim(h.clockPin, gpio.Output); err != nil {
		return fmt.Errorf("failed to claim clock pin %d: %w", h.clockPin, err)
	}

	// Force a reset so the chip is in its documented default state
	// (channel A, gain 128) before configuration is applied
	if err := h.powerDown(); err != nil {
		return err
	}
	if err := h.powerUp(); err != nil {
		return err
	}
	if err := h.SetConfig(h.channel, h.gain); err != nil {
		return err
	}

	h.mu.Lock()
	h.state = Running
	h.done = make(chan struct{})
	h.mu.Unlock()
	go h.watch()

	h.logger.Debugf("started driver on pins data=%d clock=%d (channel %s, gain %d)",
		h.dataPin, h.clockPin, h.Channel(), h.Gain())

	return nil
}

// Close terminates the watcher, waits for it to exit and releases the pins
// and (if owned) the chip handle
func (h *HX711) Close() error {

	h.mu.Lock()
	started := h.state != Uninitialized
	h.state = Terminated
	done := h.done
	h.mu.Unlock()

	// Join the watcher before touching the pins so no released handle can be
	// accessed by a still-running iteration
	if started && done != nil {
		<-done
	}

	if h.conn == nil {
		return nil
	}

	var errs []error
	if err := h.conn.Release(h.dataPin); err != nil {
		errs = append(errs, fmt.Errorf("failed to release data pin %d: %w", h.dataPin, err))
	}
	if err := h.conn.Release(h.clockPin); err != nil {
		errs = append(errs, fmt.Errorf("failed to release clock pin %d: %w", h.clockPin, err))
	}
	if h.ownConn {
		if err := h.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close GPIO chip: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// DataPin returns the data (input) pin number
func (h *HX711) DataPin() int {
	return h.dataPin
}

// ClockPin returns the clock (output) pin number
func (h *HX711) ClockPin() int {
	return h.clockPin
}

// Channel returns the currently configured input channel
func (h *HX711) Channel() Channel {
	h.busMu.Lock()
	defer h.busMu.Unlock()

	return h.channel
}

// Gain returns the currently configured gain
func (h *HX711) Gain() Gain {
	h.busMu.Lock()
	defer h.busMu.Unlock()

	return h.gain
}

// BitFormat returns the configured bit ordering
func (h *HX711) BitFormat() Format {
	return h.bitFormat
}

// ByteFormat returns the configured byte ordering
func (h *HX711) ByteFormat() Format {
	return h.byteFormat
}

// SetBitFormat sets the order in which bits assemble into bytes
func (h *HX711) SetBitFormat(f Format) {
	h.bitFormat = f
}

// SetByteFormat sets the order in which bytes assemble into the 24-bit field
func (h *HX711) SetByteFormat(f Format) {
	h.byteFormat = f
}

// IsReady performs a single-shot, non-blocking readiness check: the chip
// signals a retrievable value by pulling the data line low. A low line can
// also occur incidentally while a conversion is in progress, so callers
// needing a fresh value must use GetValue instead of polling this
func (h *HX711) IsReady() bool {

	h.busMu.Lock()
	defer h.busMu.Unlock()

	level, err := h.conn.Read(h.dataPin)
	return err == nil && level == gpio.Low
}

// SetConfig selects the input channel and gain. Only (A, 128), (A, 64) and
// (B, 32) are supported; any other pairing is rejected without hardware
// interaction. The change is transactional: it only becomes visible once the
// hardware has acknowledged it via a successful raw read, otherwise the
// previous configuration is restored
func (h *HX711) SetConfig(channel Channel, gain Gain) error {

	if !validConfig(channel, gain) {
		return fmt.Errorf("%w: channel %s with gain %d", ErrInvalidConfig, channel, int(gain))
	}

	if h.pauseWatcher() {
		defer h.resumeWatcher()
	}

	return h.setConfig(channel, gain)
}

// setConfig stages the new channel/gain and propagates them to the hardware
// through one raw transaction (the trailing pulses of which perform the
// actual selection), rolling back on failure
func (h *HX711) setConfig(channel Channel, gain Gain) error {

	h.busMu.Lock()
	prevChannel, prevGain := h.channel, h.gain
	h.channel, h.gain = channel, gain
	h.busMu.Unlock()

	if _, err := h.readSample(); err != nil {
		h.busMu.Lock()
		h.channel, h.gain = prevChannel, prevGain
		h.busMu.Unlock()
		return err
	}

	return nil
}

// PowerDown pauses the watcher and puts the chip into power-down mode by
// holding the clock line high for at least 60µs
func (h *HX711) PowerDown() error {
	h.pauseWatcher()
	return h.powerDown()
}

// PowerUp wakes the chip, resumes the watcher and re-applies the configured
// channel/gain if it differs from the chip's post-reset default of channel A
// with gain 128
func (h *HX711) PowerUp() error {

	if err := h.powerUp(); err != nil {
		return err
	}
	h.resumeWatcher()

	if gain := h.Gain(); gain != Gain128 {
		return h.SetConfig(h.Channel(), gain)
	}
	return nil
}

func (h *HX711) powerDown() error {

	h.busMu.Lock()
	defer h.busMu.Unlock()

	if err := h.conn.Write(h.clockPin, gpio.Low); err != nil {
		return err
	}
	if err := h.conn.Write(h.clockPin, gpio.High); err != nil {
		return err
	}

	// The sleep only has to be a minimum, so coarse granularity is fine here
	time.Sleep(powerDownHold)

	return nil
}

func (h *HX711) powerUp() error {

	h.busMu.Lock()
	defer h.busMu.Unlock()

	// Returning the clock line to low resets the chip and resumes normal
	// operation at channel A / gain 128
	return h.conn.Write(h.clockPin, gpio.Low)
}

// readBit clocks a single bit off the chip: clock high, hold, sample the
// data line, hold, clock low, hold
func (h *HX711) readBit() (bool, error) {

	if err := h.conn.Write(h.clockPin, gpio.High); err != nil {
		return false, err
	}
	h.delay(pulseDelay)

	level, err := h.conn.Read(h.dataPin)
	if err != nil {
		return false, err
	}
	h.delay(pulseDelay)

	if err := h.conn.Write(h.clockPin, gpio.Low); err != nil {
		return false, err
	}
	h.delay(pulseDelay)

	return level == gpio.High, nil
}

// readByte clocks eight bits and assembles them per the configured bit order
func (h *HX711) readByte() (byte, error) {

	var val byte
	for i := 0; i < 8; i++ {
		bit, err := h.readBit()
		if err != nil {
			return 0, err
		}
		if h.bitFormat == MSB {
			val <<= 1
			if bit {
				val |= 0x01
			}
		} else {
			val >>= 1
			if bit {
				val |= 0x80
			}
		}
	}

	return val, nil
}

// waitReady polls the readiness of the chip, sleeping the not-ready interval
// between attempts
func (h *HX711) waitReady() error {

	for tries := 0; !h.IsReady(); tries++ {
		if tries >= h.readTries {
			return fmt.Errorf("%w: sensor not ready after %d attempts", ErrTimeout, tries)
		}
		time.Sleep(h.notReadyInterval)
	}

	return nil
}

// readSample waits for readiness and performs one raw transaction
func (h *HX711) readSample() (Value, error) {

	if err := h.waitReady(); err != nil {
		return 0, err
	}

	return h.readSampleRaw()
}

// readSampleRaw clocks one full conversion off the chip: three bytes plus
// the trailing pulses selecting channel/gain for the next conversion. The
// whole transaction holds the bus lock so no other transaction can
// interleave pulses
func (h *HX711) readSampleRaw() (Value, error) {

	h.busMu.Lock()
	defer h.busMu.Unlock()

	// Minimum settle time between the data line going low and the first
	// clock pulse
	h.delay(pulseDelay)

	var raw [bytesPerSample]byte
	for i := 0; i < bytesPerSample; i++ {
		b, err := h.readByte()
		if err != nil {
			return 0, err
		}
		raw[i] = b
	}

	// Total pulses per conversion period are dictated by the gain; the ones
	// beyond the 24 data bits program the next conversion
	for i := 0; i < h.gain.pulses()-8*bytesPerSample; i++ {
		if _, err := h.readBit(); err != nil {
			return 0, err
		}
	}

	// The chip shifts out big-endian; a reversed byte format swaps the outer
	// bytes while bit order within each byte is unaffected
	if h.byteFormat == LSB {
		raw[0], raw[2] = raw[2], raw[0]
	}

	field := uint32(raw[0])<<16 | uint32(raw[1])<<8 | uint32(raw[2])

	return decodeTwosComplement(field), nil
}
