package core

import "math"

// StepperConfig describes the Z-axis drive geometry and limits.
type StepperConfig struct {
	StepPin   GPIOPin
	DirPin    GPIOPin
	EnablePin GPIOPin

	StepsPerRev float64 // full steps per motor revolution (e.g. 200)
	Microsteps  int     // microstepping factor (e.g. 16)
	LeadMM      float64 // lead screw pitch in mm per revolution
	MaxSpeedMM  float64 // maximum allowed linear speed in mm/s
}

type motionMode uint8

const (
	motionIdle motionMode = iota
	motionVelocity
	motionToTarget
)

// Stepper is a non-blocking stepper motion controller with velocity and
// go-to-target modes. Update must be called every loop tick; it emits at
// most one step pulse per call, with deadlines advanced by the exact step
// period so pulse spacing does not accumulate drift. Position is held as a
// signed step count and converted to millimeters only at the read
// boundary, which keeps the hot path integer-cheap and free of rounding
// accumulation over long sessions.
type Stepper struct {
	cfg     StepperConfig
	backend StepBackend

	stepsPerMM   float64
	defaultSpeed float64

	posSteps    int64
	targetSteps int64
	speed       float64 // signed mm/s
	dir         bool    // true = positive travel
	nextStep    Ticks
	mode        motionMode
}

// NewStepper creates a stepper controller on the given backend. The driver
// enable line is configured but left disabled (EN high).
func NewStepper(cfg StepperConfig, backend StepBackend) (*Stepper, error) {
	if cfg.Microsteps <= 0 {
		cfg.Microsteps = 1
	}
	s := &Stepper{
		cfg:          cfg,
		backend:      backend,
		stepsPerMM:   cfg.StepsPerRev * float64(cfg.Microsteps) / cfg.LeadMM,
		defaultSpeed: cfg.MaxSpeedMM / 2,
		dir:          true,
	}

	if err := backend.Init(cfg.StepPin, cfg.DirPin); err != nil {
		return nil, err
	}
	backend.SetDirection(s.dir)

	if err := MustGPIO().ConfigureOutput(cfg.EnablePin); err != nil {
		return nil, err
	}
	MustGPIO().SetPin(cfg.EnablePin, true) // EN high = disabled

	return s, nil
}

// Enable gates the physical driver output. EN is active-low on the TMC
// driver family; this does not affect the software position counter.
func (s *Stepper) Enable(on bool) {
	MustGPIO().SetPin(s.cfg.EnablePin, !on)
}

// SetSpeed configures continuous motion at v mm/s. Positive v moves in the
// positive (downward) direction, negative upward, zero stops and returns
// to idle. The magnitude is clamped to the configured maximum. The step
// timer is re-armed only when starting from idle, so changing speed while
// already moving does not restart the pulse train.
func (s *Stepper) SetSpeed(v float64) {
	vmax := s.defaultSpeed * 2
	if v > vmax {
		v = vmax
	}
	if v < -vmax {
		v = -vmax
	}

	wasIdle := s.mode == motionIdle || s.speed == 0

	s.speed = v
	if v == 0 {
		s.mode = motionIdle
	} else {
		s.mode = motionVelocity
	}

	newDir := v >= 0
	if newDir != s.dir {
		s.dir = newDir
		s.backend.SetDirection(s.dir)
	}

	if v != 0 && wasIdle {
		s.nextStep = 0 // re-arm only when starting from idle
	}
}

// MoveTo starts a non-blocking move to an absolute position in mm.
// Direction comes from the sign of the displacement; the speed magnitude
// is clamped to the configured maximum, with the default speed substituted
// for a non-positive request. The move is executed over time by Update and
// the mode returns to idle once the target is reached or passed.
func (s *Stepper) MoveTo(mm float64, v float64) {
	s.targetSteps = int64(math.Round(mm * s.stepsPerMM))

	s.dir = s.targetSteps > s.posSteps
	s.backend.SetDirection(s.dir)

	v = math.Abs(v)
	if v <= 0 {
		v = s.defaultSpeed
	}
	vmax := s.defaultSpeed * 2
	if v > vmax {
		v = vmax
	}

	if s.dir {
		s.speed = v
	} else {
		s.speed = -v
	}
	s.mode = motionToTarget
	s.nextStep = 0 // start immediately
}

// MoveRelative starts a non-blocking move by delta mm from the current
// position.
func (s *Stepper) MoveRelative(deltaMM float64, v float64) {
	s.MoveTo(s.PositionMM()+deltaMM, v)
}

// Update is the non-blocking step scheduler; call it every loop tick.
// Speeds implying less than one step per second produce no motion.
func (s *Stepper) Update() {
	if s.mode == motionIdle && s.speed == 0 {
		s.nextStep = Now()
		return
	}

	stepsPerSec := math.Abs(s.speed) * s.stepsPerMM
	if stepsPerSec < 1 {
		return
	}
	period := Ticks(1000000 / stepsPerSec)

	now := Now()
	if s.nextStep == 0 {
		s.nextStep = now // first start
	}
	if Since(now, s.nextStep) < 0 {
		return
	}

	// Advance by the exact period, not to "now", so pulse spacing stays
	// even over long moves.
	s.nextStep += period
	s.stepOnce()

	if s.mode != motionToTarget {
		return
	}
	if s.dir {
		if s.posSteps >= s.targetSteps {
			s.speed = 0
			s.mode = motionIdle
		}
	} else {
		if s.posSteps <= s.targetSteps {
			s.speed = 0
			s.mode = motionIdle
		}
	}
}

// stepOnce emits one pulse and updates the position counter.
func (s *Stepper) stepOnce() {
	s.backend.Step()
	if s.dir {
		s.posSteps++
	} else {
		s.posSteps--
	}
}

// PositionMM returns the current logical position in millimeters.
func (s *Stepper) PositionMM() float64 {
	return float64(s.posSteps) / s.stepsPerMM
}

// SetPositionMM recalibrates the step counter without commanding motion.
// Used once after homing to zero the axis.
func (s *Stepper) SetPositionMM(mm float64) {
	s.posSteps = int64(math.Round(mm * s.stepsPerMM))
}

// StepsPerMM returns the mm-to-steps conversion factor.
func (s *Stepper) StepsPerMM() float64 {
	return s.stepsPerMM
}

// DefaultSpeed returns the speed used when a move requests none.
func (s *Stepper) DefaultSpeed() float64 {
	return s.defaultSpeed
}

// IsBusy reports whether a go-to-target move is still in progress.
func (s *Stepper) IsBusy() bool {
	return s.mode == motionToTarget
}
