package hx711

import (
	"fmt"
	"time"
)

// watch is the long-lived background task polling the sensor and publishing
// each valid value to blocked readers. It runs until the driver terminates
// and observes pause/terminate transitions at iteration boundaries only, so
// an in-progress transaction is never interrupted
func (h *HX711) watch() {

	defer close(h.done)

	for {
		switch h.State() {
		case Terminated:
			return
		case Paused:
			time.Sleep(pausedInterval)
			continue
		}

		if !h.IsReady() {
			time.Sleep(h.notReadyInterval)
			continue
		}

		val, err := h.readSample()
		if err != nil {
			h.logger.Debugf("watcher read failed: %s", err)
			time.Sleep(h.notReadyInterval)
			continue
		}

		// Saturated values carry no usable measurement and are withheld;
		// consumers only ever observe this as a longer wait
		if val.IsSaturated() {
			time.Sleep(h.saturatedInterval)
			continue
		}

		h.publish(val)
		time.Sleep(h.pollInterval)
	}
}

// publish stores the latest value under a fresh sequence number and wakes
// all blocked readers
func (h *HX711) publish(val Value) {
	h.mu.Lock()
	h.value = val
	h.seq++
	close(h.notify)
	h.notify = make(chan struct{})
	h.mu.Unlock()
}

// State returns the current watcher lifecycle state
func (h *HX711) State() WatcherState {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.state
}

// pauseWatcher suspends the watcher if it is running and reports whether it
// did, so callers can pair it with resumeWatcher. The watcher observes the
// transition at its next iteration boundary
func (h *HX711) pauseWatcher() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == Running {
		h.state = Paused
		return true
	}
	return false
}

// resumeWatcher resumes a paused watcher; terminal and uninitialized states
// are left untouched
func (h *HX711) resumeWatcher() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.state == Paused {
		h.state = Running
	}
}

// GetValue blocks until the watcher publishes a value no older than the wait
// itself or the configured maximum wait elapses. Publications are tracked
// via a sequence number, so a wake is only honoured for a value published
// after the wait began. This is the only read primitive safe for arbitrary
// concurrent callers
func (h *HX711) GetValue() (Value, error) {

	h.mu.Lock()
	seq := h.seq
	notify := h.notify
	h.mu.Unlock()

	timer := time.NewTimer(h.maxWait)
	defer timer.Stop()

	for {
		select {
		case <-notify:
			h.mu.Lock()
			if h.seq > seq {
				val := h.value
				h.mu.Unlock()
				return val, nil
			}
			notify = h.notify
			h.mu.Unlock()
		case <-timer.C:
			return 0, fmt.Errorf("%w: nothing published within %v", ErrTimeout, h.maxWait)
		}
	}
}

// GetValues produces count raw values, each via a bounded-wait read. It
// satisfies the raw source capability consumed by the scale layer
func (h *HX711) GetValues(count int) ([]int32, error) {

	vals := make([]int32, count)
	for i := range vals {
		val, err := h.GetValue()
		if err != nil {
			return nil, err
		}
		vals[i] = int32(val)
	}

	return vals, nil
}
