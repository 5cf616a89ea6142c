//go:build !linux

package gpio

import "errors"

// Chip is not available on non-Linux platforms
type Chip struct{}

// Open returns an error on non-Linux platforms
func Open(name string) (*Chip, error) {
	return nil, errors.New("gpio: not supported on this platform (requires Linux)")
}

// Claim is not implemented on non-Linux platforms
func (c *Chip) Claim(pin int, dir Direction) error {
	return errors.New("gpio: not supported")
}

// Read is not implemented on non-Linux platforms
func (c *Chip) Read(pin int) (Level, error) {
	return Low, errors.New("gpio: not supported")
}

// Write is not implemented on non-Linux platforms
func (c *Chip) Write(pin int, level Level) error {
	return errors.New("gpio: not supported")
}

// Release is not implemented on non-Linux platforms
func (c *Chip) Release(pin int) error {
	return errors.New("gpio: not supported")
}

// Close is a no-op on non-Linux platforms
func (c *Chip) Close() error {
	return nil
}
