package process

import (
	"tipetch/core"
	"tipetch/panel"
)

type mod2State uint8

const (
	mod2Search mod2State = iota
	mod2Wait1
	mod2Plunge1
	mod2Wait2
	mod2Validate
	mod2Hold
	mod2Wait3
	mod2Plunge2
	mod2Wait4
	mod2Pulse
	mod2Lift
	mod2Finished
)

// Mod2Mode is the 30 V hold plus pulsed 9 V recipe. It shares the search,
// plunge, and validation phases with MOD1, then holds 30 V until the
// long-window current average drops below the etch threshold, plunges
// again, and applies a configured train of 9 V pulses before lifting.
type Mod2Mode struct {
	display panel.Display
	stepper *core.Stepper
	relays  *Relays
	sensor  CurrentSource
	params  *Params

	surfaceThresholdA float64
	limits            Limits

	avgLong  *core.MovingAverage
	avgShort *core.MovingAverage

	st            mod2State
	waitStart     core.Ticks
	validateStart core.Ticks
	etchStart     core.Ticks
	pulseStart    core.Ticks
	relayOn       bool
	pulsesDone    int
}

func NewMod2Mode(display panel.Display, stepper *core.Stepper, relays *Relays, sensor CurrentSource, params *Params, surfaceThresholdA float64, limits Limits) *Mod2Mode {
	return &Mod2Mode{
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

func (m *Mod2Mode) Name() string { return "MOD2" }

func (m *Mod2Mode) Begin() {
	panel.Show(m.display, "MOD2: Surface", "Move down...")

	m.relays.Off()

	m.st = mod2Search
	m.relayOn = false
	m.pulsesDone = 0
	m.avgLong.Reset(0)
	m.avgShort.Reset(0)

	m.stepper.Enable(true)
	m.stepper.SetSpeed(+searchSpeed)

	m.sensor.SetEnabled(true)
}

func (m *Mod2Mode) abort() bool {
	m.stepper.SetSpeed(0)
	m.sensor.SetEnabled(false)
	m.relays.Off()

	panel.Show(m.display, "MOD2: ABORT", "Z limit reached")
	core.Statusln("mod2: abort, Z=" + core.Ftoa(m.stepper.PositionMM(), 2))
	m.st = mod2Finished
	return true
}

func (m *Mod2Mode) Step() bool {
	now := core.Now()

	if m.limits.Exceeded(m.stepper.PositionMM()) {
		return m.abort()
	}

	switch m.st {
	case mod2Search:
		// Unsmoothed reading; the faster search speed needs the quickest
		// possible reaction to first contact
		i := m.sensor.CorrectedIrms()

		if i >= m.surfaceThresholdA {
			m.stepper.SetSpeed(0)
			m.relays.Off()

			panel.Show(m.display, "MOD2: Surface!", "I="+core.Ftoa(i, 4)+" A")
			core.Statusln("mod2: surface at Z=" + core.Ftoa(m.stepper.PositionMM(), 2) + " I=" + core.Ftoa(i, 4))

			m.waitStart = now
			m.st = mod2Wait1
		}
		return false

	case mod2Wait1:
		if core.Since(now, m.waitStart) >= phaseWaitTicks {
			panel.Show(m.display, "MOD2: Step",
				"Down "+core.Ftoa(m.params.Mod2.PlungeAfterSurfaceMM, 2)+"mm")
			m.stepper.MoveRelative(+m.params.Mod2.PlungeAfterSurfaceMM, plungeSpeed)
			m.st = mod2Plunge1
		}
		return false

	case mod2Plunge1:
		if !m.stepper.IsBusy() {
			m.waitStart = now
			m.st = mod2Wait2
		}
		return false

	case mod2Wait2:
		if core.Since(now, m.waitStart) >= phaseWaitTicks {
			m.relays.Select30V()

			m.validateStart = now
			m.avgLong.Reset(0)
			m.avgShort.Reset(0)

			panel.Show(m.display, "MOD2: Test", "Validating...")
			m.st = mod2Validate
		}
		return false

	case mod2Validate:
		i := m.avgShort.Update(m.sensor.CorrectedIrms())

		if i >= validateConfirmA {
			panel.Show(m.display, "MOD2: 30V ON", "Etching...")
			m.etchStart = now
			m.st = mod2Hold
			return false
		}

		if core.Since(now, m.validateStart) >= validateTicks {
			m.relays.Off()
			m.stepper.SetSpeed(+searchSpeed)
			panel.Show(m.display, "MOD2: Continue", "Searching...")
			core.Statusln("mod2: false surface, searching again")
			m.st = mod2Search
		}
		return false

	case mod2Hold:
		i := m.avgLong.Update(m.sensor.CorrectedIrms())

		if core.Since(now, m.etchStart) < preEtchTicks {
			return false
		}

		if i <= m.params.Mod2.EtchThresholdA {
			m.relays.Off()

			panel.Show(m.display, "MOD2: 30V OFF", "I="+core.Ftoa(i, 4)+" A")
			core.Statusln("mod2: hold finished, I=" + core.Ftoa(i, 4))

			m.waitStart = now
			m.st = mod2Wait3
		}
		return false

	case mod2Wait3:
		if core.Since(now, m.waitStart) >= phaseWaitTicks {
			panel.Show(m.display, "MOD2: Step",
				"Down "+core.Ftoa(m.params.Mod2.PlungeAfterEtchMM, 2)+"mm")
			m.stepper.MoveRelative(+m.params.Mod2.PlungeAfterEtchMM, plungeSpeed)
			m.st = mod2Plunge2
		}
		return false

	case mod2Plunge2:
		if !m.stepper.IsBusy() {
			m.waitStart = now
			m.st = mod2Wait4
		}
		return false

	case mod2Wait4:
		if core.Since(now, m.waitStart) >= phaseWaitTicks {
			m.sensor.SetEnabled(false)

			panel.Show(m.display, "MOD2: 9V ON", "Pulses...")
			m.pulseStart = now
			m.relayOn = true
			m.pulsesDone = 0
			m.relays.Select9V()

			m.st = mod2Pulse
		}
		return false

	case mod2Pulse:
		if m.relayOn {
			if core.Since(now, m.pulseStart) >= int32(secTicks(m.params.Mod2.PulseOnS)) {
				m.relays.Off()
				m.relayOn = false
				m.pulseStart = now
			}
		} else {
			if core.Since(now, m.pulseStart) >= int32(secTicks(m.params.Mod2.PulseOffS)) {
				m.pulsesDone++
				if m.pulsesDone >= m.params.Mod2.PulseCount {
					panel.Show(m.display, "MOD2: DONE", "")
					core.Statusln("mod2: pulses done, lifting")
					m.stepper.MoveRelative(-finalLiftMM, finalLiftSpeed)
					m.st = mod2Lift
				} else {
					m.relays.Select9V()
					m.relayOn = true
					m.pulseStart = now
				}
			}
		}
		return false

	case mod2Lift:
		if !m.stepper.IsBusy() {
			m.relays.Off()
			m.st = mod2Finished
			return true
		}
		return false
	}

	return m.st == mod2Finished
}

func (m *Mod2Mode) End() {
	m.stepper.SetSpeed(0)
	m.stepper.Enable(true)
	m.sensor.SetEnabled(false)
	m.relays.Off()
}
