package core

import (
	"math"
	"testing"
)

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

func TestMovingAverageWarmup(t *testing.T) {
	f := NewMovingAverage(4, 0)

	// Divisor tracks the number of samples written until the first wrap
	if got := f.Update(1.0); !almostEqual(got, 1.0, 1e-9) {
		t.Errorf("first sample: got %v, want 1.0", got)
	}
	if got := f.Update(3.0); !almostEqual(got, 2.0, 1e-9) {
		t.Errorf("second sample: got %v, want 2.0", got)
	}
	if f.Filled() {
		t.Error("filter reported filled after 2 of 4 samples")
	}
}

func TestMovingAverageWrap(t *testing.T) {
	f := NewMovingAverage(4, 0)

	for i := 0; i < 4; i++ {
		f.Update(1.0)
	}
	if !f.Filled() {
		t.Fatal("filter not filled after a full window")
	}

	// Oldest sample evicted: window is now 1,1,1,5
	if got := f.Update(5.0); !almostEqual(got, 2.0, 1e-9) {
		t.Errorf("after wrap: got %v, want 2.0", got)
	}
}

func TestMovingAverageResetNonZero(t *testing.T) {
	f := NewMovingAverage(8, 0)

	f.Reset(2.0)
	if !f.Filled() {
		t.Error("non-zero reset should mark the filter filled")
	}
	if got := f.Update(2.0); !almostEqual(got, 2.0, 1e-9) {
		t.Errorf("after reset(2.0): got %v, want 2.0", got)
	}
}

func TestMovingAverageResetZero(t *testing.T) {
	f := NewMovingAverage(8, 0)

	f.Update(7.0)
	f.Reset(0)
	if f.Filled() {
		t.Error("zero reset should clear the filled flag")
	}
	// Divisor restarts at 1, so output tracks the input again
	if got := f.Update(4.0); !almostEqual(got, 4.0, 1e-9) {
		t.Errorf("first sample after zero reset: got %v, want 4.0", got)
	}
}

func TestMovingAverageClamp(t *testing.T) {
	f := NewMovingAverage(1, 1000)

	// 100 * 1000 overflows int16; stored value clamps to 32767
	if got := f.Update(100.0); !almostEqual(got, 32.767, 1e-9) {
		t.Errorf("positive clamp: got %v, want 32.767", got)
	}
	if got := f.Update(-100.0); !almostEqual(got, -32.768, 1e-9) {
		t.Errorf("negative clamp: got %v, want -32.768", got)
	}
}

func TestMovingAverageMinimumSize(t *testing.T) {
	f := NewMovingAverage(0, 0)
	if f.Size() != 1 {
		t.Errorf("size floor: got %d, want 1", f.Size())
	}
	if got := f.Update(1.5); !almostEqual(got, 1.5, 1e-9) {
		t.Errorf("size-1 window: got %v, want 1.5", got)
	}
}
