package hx711

import "time"

// delayBusy busy-waits for at least d against the monotonic clock. The chip
// requires minimum clock pulse widths in the order of 0.1-0.2µs; OS sleep
// granularity is far too coarse at that timescale and stretching a pulse by
// sleeping can corrupt the bit stream, so the calling goroutine spins instead.
// The driver holds this behind a single overridable primitive so alternate
// platforms can substitute a hardware timer
func delayBusy(d time.Duration) {
	start := time.Now()
	for time.Since(start) < d {
	}
}
