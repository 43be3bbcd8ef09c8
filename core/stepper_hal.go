package core

// StepBackend defines the hardware abstraction for step pulse generation.
// The ~2 µs pulse-width timing lives entirely inside the implementation so
// that the motion scheduler itself never busy-waits.
type StepBackend interface {
	// Init initializes the step and direction outputs
	Init(stepPin, dirPin GPIOPin) error

	// Step generates a single step pulse.
	// Must handle pulse width timing internally.
	Step()

	// SetDirection sets the direction output
	// dir: true = positive travel, false = negative travel
	SetDirection(dir bool)
}
