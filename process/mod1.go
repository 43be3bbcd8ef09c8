package process

import (
	"tipetch/core"
	"tipetch/panel"
)

// mod1 search starts slower than the resume speed so the very first
// contact happens gently on an uncalibrated tip position.
const mod1InitialSearchSpeed = 1.5

type mod1State uint8

const (
	mod1Search mod1State = iota
	mod1Wait1
	mod1Plunge
	mod1Wait2
	mod1Validate
	mod1Hold
	mod1Etch
	mod1Lift
	mod1Finished
)

// Mod1Mode is the continuous 30 V etch recipe. The tool moves down until
// the smoothed corrected current crosses the surface threshold, plunges a
// configured distance, validates the contact with a short 30 V pulse,
// dwells, then etches while rising slowly until the long-window current
// average falls below the etch threshold, and finally lifts clear.
type Mod1Mode struct {
	display panel.Display
	stepper *core.Stepper
	relays  *Relays
	sensor  CurrentSource
	params  *Params

	surfaceThresholdA float64
	limits            Limits

	avgLong  *core.MovingAverage
	avgShort *core.MovingAverage

	st            mod1State
	waitStart     core.Ticks
	validateStart core.Ticks
	etchStart     core.Ticks
}

func NewMod1Mode(display panel.Display, stepper *core.Stepper, relays *Relays, sensor CurrentSource, params *Params, surfaceThresholdA float64, limits Limits) *Mod1Mode {
	return &Mod1Mode{
		display:           display,
		stepper:           stepper,
		relays:            relays,
		sensor:            sensor,
		params:            params,
		surfaceThresholdA: surfaceThresholdA,
		limits:            limits,
		avgLong:           core.NewMovingAverage(avgLongWindow, 0),
		avgShort:          core.NewMovingAverage(avgShortWindow, 0),
	}
}

func (m *Mod1Mode) Name() string { return "MOD1" }

func (m *Mod1Mode) Begin() {
	panel.Show(m.display, "MOD1: Surface", "Move down")

	m.relays.Select9V()

	m.st = mod1Search
	m.avgLong.Reset(0)
	m.avgShort.Reset(0)

	m.stepper.Enable(true)
	m.stepper.SetSpeed(+mod1InitialSearchSpeed)

	m.sensor.SetEnabled(true)
}

// abort stops everything and reports the mode finished with safe outputs.
func (m *Mod1Mode) abort() bool {
	m.stepper.SetSpeed(0)
	m.sensor.SetEnabled(false)
	m.relays.Off()

	panel.Show(m.display, "MOD1: ABORT", "Z limit reached")
	core.Statusln("mod1: abort, Z=" + core.Ftoa(m.stepper.PositionMM(), 2))
	m.st = mod1Finished
	return true
}

func (m *Mod1Mode) Step() bool {
	now := core.Now()

	if m.limits.Exceeded(m.stepper.PositionMM()) {
		return m.abort()
	}

	switch m.st {
	case mod1Search:
		i := m.avgShort.Update(m.sensor.CorrectedIrms())
		if i >= m.surfaceThresholdA {
			m.stepper.SetSpeed(0)
			m.relays.Off()

			panel.Show(m.display, "MOD1: Surface!", "I="+core.Ftoa(i, 4)+" A")
			core.Statusln("mod1: surface at Z=" + core.Ftoa(m.stepper.PositionMM(), 2) + " I=" + core.Ftoa(i, 4))

			m.waitStart = now
			m.st = mod1Wait1
		}
		return false

	case mod1Wait1:
		if core.Since(now, m.waitStart) >= phaseWaitTicks {
			panel.Show(m.display, "MOD1: Step",
				"Down "+core.Ftoa(m.params.Mod1.PlungeAfterSurfaceMM, 2)+"mm")
			m.stepper.MoveRelative(+m.params.Mod1.PlungeAfterSurfaceMM, plungeSpeed)
			m.st = mod1Plunge
		}
		return false

	case mod1Plunge:
		if !m.stepper.IsBusy() {
			m.waitStart = now
			m.st = mod1Wait2
		}
		return false

	case mod1Wait2:
		if core.Since(now, m.waitStart) >= phaseWaitTicks {
			// 30 V on only for the validation pulse
			m.relays.Select30V()

			m.validateStart = now
			m.avgLong.Reset(0)
			m.avgShort.Reset(0)

			panel.Show(m.display, "MOD1: Test", "Validating...")
			m.st = mod1Validate
		}
		return false

	case mod1Validate:
		i := m.avgShort.Update(m.sensor.CorrectedIrms())

		if i >= validateConfirmA {
			panel.Show(m.display, "MOD1: 30V ON", "Etching...")
			m.etchStart = now
			m.st = mod1Hold
			return false
		}

		// False contact: drop the supply and resume the search
		if core.Since(now, m.validateStart) >= validateTicks {
			m.relays.Off()
			m.stepper.SetSpeed(+searchSpeed)
			panel.Show(m.display, "MOD1: Continue", "Searching...")
			core.Statusln("mod1: false surface, searching again")
			m.st = mod1Search
		}
		return false

	case mod1Hold:
		m.avgLong.Update(m.sensor.CorrectedIrms())

		if core.Since(now, m.etchStart) < preEtchTicks {
			return false
		}

		// Dwell over, start the slow upward etch
		m.stepper.SetSpeed(-m.params.Mod1.RetractSpeedMMS)
		panel.Show(m.display, "MOD1: Etching", "Rising...")
		m.st = mod1Etch
		return false

	case mod1Etch:
		i := m.avgLong.Update(m.sensor.CorrectedIrms())

		// Current collapses when the meniscus breaks and the tip is done
		if i < m.params.Mod1.EtchThresholdA {
			m.stepper.SetSpeed(0)
			m.relays.Off()

			core.Statusln("mod1: etch finished at Z=" + core.Ftoa(m.stepper.PositionMM(), 2))
			m.stepper.MoveRelative(-finalLiftMM, finalLiftSpeed)
			m.st = mod1Lift
		}
		return false

	case mod1Lift:
		if !m.stepper.IsBusy() {
			m.sensor.SetEnabled(false)
			panel.Show(m.display, "MOD1: DONE", "")
			m.st = mod1Finished
			return true
		}
		return false
	}

	return m.st == mod1Finished
}

func (m *Mod1Mode) End() {
	m.stepper.SetSpeed(0)
	m.stepper.Enable(true)
	m.sensor.SetEnabled(false)
	m.relays.Off()
}
