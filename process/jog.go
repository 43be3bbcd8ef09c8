package process

import (
	"tipetch/core"
	"tipetch/panel"
)

const (
	jogSpeed   = 2.0 // mm/s
	jogUITicks = 200000
)

// JogMode gives the operator direct up/down control of the axis. UP and
// DOWN are level-triggered from the debounced key state so the axis moves
// while the button is held, stays inside the soft limits, and stops the
// instant the button is released. SELECT exits.
type JogMode struct {
	display panel.Display
	keys    panel.Input
	stepper *core.Stepper
	limits  Limits

	uiTick    core.Ticks
	firstStep bool
}

func NewJogMode(display panel.Display, keys panel.Input, stepper *core.Stepper, limits Limits) *JogMode {
	return &JogMode{
		display: display,
		keys:    keys,
		stepper: stepper,
		limits:  limits,
	}
}

func (m *JogMode) Name() string { return "JOG" }

func (m *JogMode) Begin() {
	m.uiTick = 0
	m.stepper.Enable(true)
	panel.Show(m.display, "JOG (UP/DOWN)", "")
	m.firstStep = true
}

func (m *JogMode) Step() bool {
	s := m.keys.Stable()

	// Swallow the SELECT that started the mode
	if m.firstStep {
		if s == panel.KeySelect {
			m.keys.Clear()
			s = panel.KeyNone
		}
		m.firstStep = false
	}

	z := m.stepper.PositionMM()

	switch s {
	case panel.KeyUp: // up means Z decreases
		if z > m.limits.ZMinMM {
			m.stepper.SetSpeed(-jogSpeed)
		} else {
			m.stepper.SetSpeed(0)
		}
	case panel.KeyDown:
		if z < m.limits.ZMaxMM {
			m.stepper.SetSpeed(+jogSpeed)
		} else {
			m.stepper.SetSpeed(0)
		}
	default:
		m.stepper.SetSpeed(0)
	}

	now := core.Now()
	if core.Since(now, m.uiTick) >= jogUITicks {
		m.uiTick = now
		m.display.WriteLine(1, "Z="+core.Ftoa(m.stepper.PositionMM(), 2)+" mm ")
	}

	return s == panel.KeySelect
}

func (m *JogMode) End() {
	m.stepper.SetSpeed(0)
	m.stepper.Enable(true)
}
