package process

import (
	"math"
	"testing"
)

func newMod1(r *rig) *Mod1Mode {
	return NewMod1Mode(r.disp, r.stepper, r.relays, r.sensor, &r.params, 0.1, DefaultLimits())
}

func TestMod1FullRun(t *testing.T) {
	r := newRig(t)
	m := newMod1(r)

	r.stepper.SetPositionMM(30)
	m.Begin()

	if !r.sensor.enabled {
		t.Fatal("current measurement must be on during the search")
	}

	sawValidate := false
	done, _ := r.runMode(m, 60000, func(i int) {
		switch {
		case i == 2000:
			// Tip touches the surface after 2 s of travel
			r.sensor.corrected = 0.6
		case i > 2000 && r.relayState() == "30v":
			sawValidate = true
		}
		// Meniscus breaks a little into the etch phase
		if sawValidate && i > 12000 {
			r.sensor.corrected = 0
		}
	})

	if !done {
		t.Fatal("mod1 did not finish")
	}
	if !sawValidate {
		t.Error("30 V was never applied")
	}
	if r.relayState() != "off" {
		t.Errorf("final relay state: got %s, want off", r.relayState())
	}
	if r.sensor.enabled {
		t.Error("current measurement still enabled after the run")
	}
	if r.disp.lines[0] != "MOD1: DONE" {
		t.Errorf("display line 0: got %q", r.disp.lines[0])
	}

	// search 2 s at 1.5 mm/s, plunge 4 mm, final lift 30 mm
	want := 30.0 + 3.0 + 4.0 - 30.0
	if got := r.stepper.PositionMM(); math.Abs(got-want) > 0.5 {
		t.Errorf("final position: got %v, want ~%v", got, want)
	}
}

func TestMod1FalseSurfaceRetry(t *testing.T) {
	r := newRig(t)
	m := newMod1(r)

	r.stepper.SetPositionMM(30)
	m.Begin()

	// First contact is false: the current disappears before validation
	confirmed := false
	r.runMode(m, 12000, func(i int) {
		switch {
		case i == 100:
			r.sensor.corrected = 0.6
		case i == 150:
			// contact lost before the validation phase begins
			r.sensor.corrected = 0
		}
		if r.relayState() == "30v" {
			confirmed = true
		}
	})

	if !confirmed {
		t.Fatal("validation pulse never fired")
	}
	// After the 500 ms validation window the supply must drop and the
	// search must resume downward
	if r.relayState() != "off" {
		t.Errorf("relay state after false surface: got %s, want off", r.relayState())
	}

	posBefore := r.stepper.PositionMM()
	r.runMode(m, 1000, nil)
	if r.stepper.PositionMM() <= posBefore {
		t.Error("search did not resume downward after the false surface")
	}
}

func TestMod1SoftLimitAbort(t *testing.T) {
	r := newRig(t)
	m := newMod1(r)

	r.stepper.SetPositionMM(30)
	m.Begin()
	r.stepper.SetPositionMM(76) // beyond the upper soft limit

	done, ticks := r.runMode(m, 10, nil)
	if !done || ticks != 0 {
		t.Fatal("soft limit breach must abort on the next step")
	}
	if r.relayState() != "off" {
		t.Errorf("relay state after abort: got %s, want off", r.relayState())
	}
	if r.sensor.enabled {
		t.Error("current measurement still enabled after abort")
	}
	if r.disp.lines[0] != "MOD1: ABORT" {
		t.Errorf("display line 0: got %q", r.disp.lines[0])
	}
}
