//go:build rp2040

package main

import (
	"machine"

	"tipetch/core"
)

// StepPulseGPIO is a core.StepBackend that bit-bangs step pulses on
// plain GPIO. Fine for the sub-kHz step rates this axis runs at.
type StepPulseGPIO struct {
	stepPin machine.Pin
	dirPin  machine.Pin
}

func NewStepPulseGPIO() *StepPulseGPIO {
	return &StepPulseGPIO{}
}

func (s *StepPulseGPIO) Init(stepPin, dirPin core.GPIOPin) error {
	s.stepPin = machine.Pin(stepPin)
	s.dirPin = machine.Pin(dirPin)
	s.stepPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	s.dirPin.Configure(machine.PinConfig{Mode: machine.PinOutput})
	s.stepPin.Low()
	return nil
}

func (s *StepPulseGPIO) Step() {
	s.stepPin.High()

	// Brief busy loop for pulse width, ~2µs at 133MHz.
	// Most stepper driver ICs want >= 1µs.
	for i := 0; i < 300; i++ {
		// Empty loop for delay
	}

	s.stepPin.Low()
}

func (s *StepPulseGPIO) SetDirection(dir bool) {
	s.dirPin.Set(dir)
}
