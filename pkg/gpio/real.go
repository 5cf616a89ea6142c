//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
)

// Chip denotes a physical GPIO chip accessed via the Linux character device
type Chip struct {
	chip  *gpiocdev.Chip
	lines map[int]*gpiocdev.Line
}

// Open opens the named GPIO character device (e.g. "gpiochip0")
func Open(name string) (*Chip, error) {

	chip, err := gpiocdev.NewChip(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open GPIO chip %s: %w", name, err)
	}

	return &Chip{
		chip:  chip,
		lines: make(map[int]*gpiocdev.Line),
	}, nil
}

// Claim requests exclusive access to a pin with the given direction
func (c *Chip) Claim(pin int, dir Direction) error {

	if _, exists := c.lines[pin]; exists {
		return fmt.Errorf("pin %d already claimed", pin)
	}

	var (
		line *gpiocdev.Line
		err  error
	)
	if dir == Input {
		line, err = c.chip.RequestLine(pin, gpiocdev.AsInput)
	} else {
		line, err = c.chip.RequestLine(pin, gpiocdev.AsOutput(0))
	}
	if err != nil {
		return fmt.Errorf("failed to claim pin %d: %w", pin, err)
	}

	c.lines[pin] = line
	return nil
}

// Read returns the current level of a claimed input pin
func (c *Chip) Read(pin int) (Level, error) {

	line, exists := c.lines[pin]
	if !exists {
		return Low, fmt.Errorf("pin %d not claimed", pin)
	}

	val, err := line.Value()
	if err != nil {
		return Low, fmt.Errorf("failed to read pin %d: %w", pin, err)
	}
	if val == 0 {
		return Low, nil
	}

	return High, nil
}

// Write sets the level of a claimed output pin
func (c *Chip) Write(pin int, level Level) error {

	line, exists := c.lines[pin]
	if !exists {
		return fmt.Errorf("pin %d not claimed", pin)
	}

	if err := line.SetValue(int(level)); err != nil {
		return fmt.Errorf("failed to write pin %d: %w", pin, err)
	}

	return nil
}

// Release relinquishes a previously claimed pin
func (c *Chip) Release(pin int) error {

	line, exists := c.lines[pin]
	if !exists {
		return fmt.Errorf("pin %d not claimed", pin)
	}
	delete(c.lines, pin)

	if err := line.Close(); err != nil {
		return fmt.Errorf("failed to release pin %d: %w", pin, err)
	}

	return nil
}

// Close releases all remaining pins and the chip handle
func (c *Chip) Close() error {

	for pin, line := range c.lines {
		_ = line.Close()
		delete(c.lines, pin)
	}

	return c.chip.Close()
}
