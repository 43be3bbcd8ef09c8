// Package process implements the etching process state machines and the
// operator-facing mode controller. Every mode is a non-blocking state
// machine advanced one step per loop tick; the controller owns the
// per-tick update of the motion and sensing layers so each mode observes
// readings from the same tick it runs in.
package process

import "tipetch/core"

// Mode is one entry of the operator menu. Begin is called once when the
// mode starts, Step once per loop tick until it returns true, and End
// when the mode stops for any reason, including an operator exit.
type Mode interface {
	Name() string
	Begin()
	Step() bool
	End()
}

// CurrentSource is the sensing surface the process layer consumes. It is
// satisfied by core.CurrentSensor; tests substitute a scripted fake.
// Update is driven by the controller, never by individual modes.
type CurrentSource interface {
	Update()
	SetEnabled(on bool)
	IsEnabled() bool
	LastIrms() float64
	CorrectedIrms() float64
}

// Limits is the soft travel range of the Z axis. Any process mode that
// commands motion aborts immediately when the position leaves the open
// interval (ZMinMM, ZMaxMM).
type Limits struct {
	ZMinMM float64
	ZMaxMM float64
}

// DefaultLimits matches the physical clearance of the etching frame.
func DefaultLimits() Limits {
	return Limits{ZMinMM: 1.5, ZMaxMM: 75.0}
}

// Exceeded reports whether z is at or beyond either soft limit.
func (l Limits) Exceeded(z float64) bool {
	return z <= l.ZMinMM || z >= l.ZMaxMM
}

// Shared recipe timing and tuning. Both etch recipes use the same
// post-detection waits, validation pulse, and final retract.
const (
	// pause between recipe phases
	phaseWaitTicks = 1000000

	// validation pulse: the smoothed current must reach the confirm
	// level within the validation window or the contact is declared
	// false and the search resumes
	validateConfirmA = 0.5
	validateTicks    = 500000

	// 30 V dwell before any etch decision is taken
	preEtchTicks = 2000000

	// final retract after a finished or aborted etch
	finalLiftMM    = 30.0
	finalLiftSpeed = 3.0

	// plunge and search speeds in mm/s
	plungeSpeed = 1.0
	searchSpeed = 3.0

	// current filter windows in samples
	avgLongWindow  = 200
	avgShortWindow = 20
)

// secTicks converts a duration in seconds to clock ticks.
func secTicks(s float64) core.Ticks {
	if s < 0 {
		return 0
	}
	return core.Ticks(s * 1e6)
}
