// Package gpio provides the GPIO chip access used by the sensor driver.
// The real implementation is backed by the Linux GPIO character device;
// Sim provides an in-memory chip for testing without hardware.
package gpio

// Level denotes a digital line level
type Level int

const (

	// Low denotes a logical low level
	Low Level = 0

	// High denotes a logical high level
	High Level = 1
)

// Direction denotes the requested direction of a claimed pin
type Direction int

const (

	// Input denotes a pin claimed for reading
	Input Direction = iota

	// Output denotes a pin claimed for writing
	Output
)

// DefaultChip denotes the default GPIO character device
const DefaultChip = "gpiochip0"

// Conn denotes an open GPIO chip on which pins can be claimed and accessed
type Conn interface {

	// Claim requests exclusive access to a pin with the given direction
	Claim(pin int, dir Direction) error

	// Read returns the current level of a claimed input pin
	Read(pin int) (Level, error)

	// Write sets the level of a claimed output pin
	Write(pin int, level Level) error

	// Release relinquishes a previously claimed pin
	Release(pin int) error

	// Close releases all remaining pins and the chip handle
	Close() error
}
