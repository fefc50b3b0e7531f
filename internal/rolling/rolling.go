// Package rolling computes trailing moving averages over numeric
// sequences. The window shrinks at the start of the sequence, so every
// index has a defined average instead of the first window-1 points
// being dropped.
package rolling

import (
	"fmt"
	"math"
)

// InvalidWindowError reports a non-positive window size.
type InvalidWindowError struct {
	Window int
}

func (e *InvalidWindowError) Error() string {
	return fmt.Sprintf("invalid rolling window %d: must be a positive integer", e.Window)
}

// Average returns the trailing simple moving average of values with
// the given window. The output has the same length as the input; the
// value at index i is the mean of values[max(0, i-window+1)..i].
//
// NaN inputs count as missing: they are excluded from both numerator
// and denominator at each window position, so one missing game does
// not drag neighboring averages toward zero. A window holding only
// NaNs yields NaN at that index.
func Average(values []float64, window int) ([]float64, error) {
	if window <= 0 {
		return nil, &InvalidWindowError{Window: window}
	}

	// The trailing mean never looks back past the input itself, so the
	// ring is capped at len(values) no matter how large the requested
	// window is. The window size is caller-supplied and must not size
	// an allocation on its own.
	capacity := window
	if capacity > len(values) {
		capacity = len(values)
	}

	out := make([]float64, len(values))
	w := NewWindow(capacity)
	for i, v := range values {
		w.Add(v)
		out[i] = w.Mean()
	}

	return out, nil
}

// Window is a fixed-capacity trailing window of values. Once full,
// each Add evicts the oldest value.
type Window struct {
	capacity int
	values   []float64
	idx      int
	count    int
}

// NewWindow creates a window holding up to capacity values. A
// non-positive capacity is clamped to 1.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		capacity = 1
	}
	return &Window{
		capacity: capacity,
		values:   make([]float64, capacity),
	}
}

// Add pushes a value into the window, evicting the oldest when full.
func (w *Window) Add(v float64) {
	w.values[w.idx] = v
	w.idx = (w.idx + 1) % w.capacity
	if w.count < w.capacity {
		w.count++
	}
}

// Count returns how many values the window currently holds.
func (w *Window) Count() int {
	return w.count
}

// Mean returns the average of the valid (non-NaN) values currently in
// the window, or NaN when none are valid.
func (w *Window) Mean() float64 {
	sum := 0.0
	valid := 0
	for i := 0; i < w.count; i++ {
		v := w.values[i]
		if math.IsNaN(v) {
			continue
		}
		sum += v
		valid++
	}
	if valid == 0 {
		return math.NaN()
	}
	return sum / float64(valid)
}
