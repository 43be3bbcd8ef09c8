package core

import "testing"

func TestSinceOrdering(t *testing.T) {
	if got := Since(1000, 400); got != 600 {
		t.Errorf("Since(1000, 400): got %d, want 600", got)
	}
	if got := Since(400, 1000); got != -600 {
		t.Errorf("Since(400, 1000): got %d, want -600", got)
	}
	if got := Since(500, 500); got != 0 {
		t.Errorf("Since(500, 500): got %d, want 0", got)
	}
}

func TestSinceWraparound(t *testing.T) {
	// A deadline set just before the counter wraps must still compare
	// correctly against a time just after the wrap.
	before := Ticks(0xFFFFFFF0)
	after := Ticks(0x00000010)

	if got := Since(after, before); got != 0x20 {
		t.Errorf("Since across wrap: got %d, want 32", got)
	}
	if got := Since(before, after); got != -0x20 {
		t.Errorf("Since across wrap (reversed): got %d, want -32", got)
	}
}

func TestMsTicks(t *testing.T) {
	if got := MsTicks(0); got != 0 {
		t.Errorf("MsTicks(0): got %d, want 0", got)
	}
	if got := MsTicks(500); got != 500000 {
		t.Errorf("MsTicks(500): got %d, want 500000", got)
	}
}
