package core

import "math"

// MovingAverage is a fixed-point sliding window average filter:
//
//   - no allocation after construction (the ring buffer has a fixed
//     capacity and is never resized),
//   - O(1) update cost using a circular buffer,
//   - integer accumulation, so long runs of samples do not drift the way a
//     floating-point accumulator would.
//
// Inputs are scaled by the configured factor and stored as int16 values;
// with the default scale of 1000 a sample is kept in milliunits.
type MovingAverage struct {
	buf    []int16
	idx    int
	filled bool
	sum    int64
	scale  int
}

// DefaultAvgScale is the fixed-point scaling factor used when the
// constructor is given a non-positive scale.
const DefaultAvgScale = 1000

// NewMovingAverage creates a filter over a window of size samples.
// A size below 1 is raised to 1.
func NewMovingAverage(size, scale int) *MovingAverage {
	if size < 1 {
		size = 1
	}
	if scale <= 0 {
		scale = DefaultAvgScale
	}
	f := &MovingAverage{
		buf:   make([]int16, size),
		scale: scale,
	}
	f.Reset(0)
	return f
}

// toFixed converts an input sample to the fixed-point representation,
// clamped to the int16 range.
func (f *MovingAverage) toFixed(x float64) int16 {
	xs := x * float64(f.scale)
	if xs > 32767 {
		xs = 32767
	}
	if xs < -32768 {
		xs = -32768
	}
	return int16(math.Round(xs))
}

// Update inserts one sample and returns the current window average.
// Until the ring has wrapped once, the divisor is the number of samples
// written so far (floored at 1), so early output tracks the input instead
// of being dragged toward zero.
func (f *MovingAverage) Update(x float64) float64 {
	xf := f.toFixed(x)

	f.sum -= int64(f.buf[f.idx])
	f.buf[f.idx] = xf
	f.sum += int64(xf)

	f.idx++
	if f.idx >= len(f.buf) {
		f.idx = 0
		f.filled = true
	}

	denom := f.idx
	if f.filled {
		denom = len(f.buf)
	}
	if denom <= 0 {
		denom = 1
	}

	return (float64(f.sum) / float64(denom)) / float64(f.scale)
}

// Reset pre-fills the entire window with x0. A non-zero fill value marks
// the filter as filled immediately; with zero, the effective divisor grows
// again as samples arrive.
func (f *MovingAverage) Reset(x0 float64) {
	x := f.toFixed(x0)
	f.sum = 0
	f.idx = 0
	f.filled = false

	for i := range f.buf {
		f.buf[i] = x
		f.sum += int64(x)
	}

	if x != 0 {
		f.filled = true
	}
}

// Filled reports whether at least a full window of samples has been seen
// since the last zero Reset.
func (f *MovingAverage) Filled() bool {
	return f.filled
}

// Size returns the window length.
func (f *MovingAverage) Size() int {
	return len(f.buf)
}
