package hx711

import (
	"fmt"
	"time"

	"github.com/fako1024/hx711/pkg/scale"
)

// Timing denotes the monotonic timestamps of one acquisition cycle, used to
// measure sensor latency. It is purely diagnostic and plays no role in the
// calibration path
type Timing struct {

	// CycleStart is taken when the cycle begins
	CycleStart time.Time

	// DataReady is taken when the sensor signals a retrievable value
	DataReady time.Time

	// ReadComplete is taken once the raw transaction has finished
	ReadComplete time.Time

	// NextReady is taken when the sensor signals the following value
	NextReady time.Time
}

// ReadTimings records one Timing per requested sample by performing raw
// transactions directly (with the watcher suspended so measurements are not
// skewed by competing bus transactions)
func (h *HX711) ReadTimings(count int) ([]Timing, error) {

	if count < 1 {
		return nil, fmt.Errorf("%w: got %d", scale.ErrSampleCount, count)
	}

	if h.pauseWatcher() {
		defer h.resumeWatcher()
	}

	timings := make([]Timing, count)
	for i := range timings {

		t := Timing{CycleStart: time.Now()}

		if err := h.waitReady(); err != nil {
			return nil, err
		}
		t.DataReady = time.Now()

		if _, err := h.readSampleRaw(); err != nil {
			return nil, err
		}
		t.ReadComplete = time.Now()

		if err := h.waitReady(); err != nil {
			return nil, err
		}
		t.NextReady = time.Now()

		timings[i] = t
	}

	return timings, nil
}
