package process

import (
	"math"
	"testing"

	"tipetch/core"
)

func TestHomeModeFullSequence(t *testing.T) {
	r := newRig(t)
	baseline := &core.BaselineCell{}
	r.sensor.irms = 0.013

	h := NewHomeMode(r.disp, r.stepper, pinLimit, r.sensor, baseline)

	r.stepper.SetPositionMM(5)
	h.Begin()

	if !r.gpio.levels[pinLimit] {
		t.Fatal("limit input should idle high on the pull-up")
	}
	if r.sensor.enabled {
		t.Fatal("current measurement must stay off while seeking")
	}

	// Close the switch after 0.5 s of upward travel
	done, _ := r.runMode(h, 20000, func(i int) {
		if i == 500 {
			r.gpio.SetPin(pinLimit, false)
		}
	})

	if !done {
		t.Fatal("homing did not finish")
	}
	if got := r.stepper.PositionMM(); math.Abs(got-30.0) > 0.1 {
		t.Errorf("final position: got %v, want 30.0", got)
	}
	if got := baseline.Get(); math.Abs(got-0.013) > 1e-9 {
		t.Errorf("baseline: got %v, want 0.013", got)
	}
	if r.sensor.enabled {
		t.Error("current measurement still enabled after homing")
	}
	if r.disp.lines[0] != "HOME OK" {
		t.Errorf("display line 0: got %q, want HOME OK", r.disp.lines[0])
	}
}

func TestHomeModeZeroesAtSwitch(t *testing.T) {
	r := newRig(t)
	h := NewHomeMode(r.disp, r.stepper, pinLimit, r.sensor, &core.BaselineCell{})

	r.stepper.SetPositionMM(8)
	h.Begin()

	// Trip the switch immediately; the axis should zero without moving
	r.gpio.SetPin(pinLimit, false)
	r.runMode(h, 3, nil)

	if got := r.stepper.PositionMM(); math.Abs(got) > 0.05 {
		t.Errorf("position after switch: got %v, want 0", got)
	}
}
