package process

import (
	"tipetch/core"
	"tipetch/panel"
)

const (
	homeSeekSpeed    = 5.0  // mm/s toward the limit switch
	homeBaselineZ    = 30.0 // mm, measurement position below the switch
	homeSettleTicks  = 200000
	baselineTicks    = 5000000
	homeReportTicks  = 2000000
)

type homeState uint8

const (
	homeSeek homeState = iota
	homeSettle
	homeRaise
	homeMeasure
	homeReport
	homeDone
)

// HomeMode references the axis against the top limit switch and then
// calibrates the no-load baseline current. The sequence is: drive up until
// the switch closes, zero the position, settle briefly, move down to the
// measurement height, average the RMS current for five seconds with the
// motor stationary, and publish the mean to the shared baseline cell.
type HomeMode struct {
	display  panel.Display
	stepper  *core.Stepper
	limitPin core.GPIOPin
	sensor   CurrentSource
	baseline *core.BaselineCell

	st          homeState
	settleStart core.Ticks
	measStart   core.Ticks
	reportStart core.Ticks
	sum         float64
	count       uint32
}

func NewHomeMode(display panel.Display, stepper *core.Stepper, limitPin core.GPIOPin, sensor CurrentSource, baseline *core.BaselineCell) *HomeMode {
	return &HomeMode{
		display:  display,
		stepper:  stepper,
		limitPin: limitPin,
		sensor:   sensor,
		baseline: baseline,
	}
}

func (m *HomeMode) Name() string { return "HOME" }

func (m *HomeMode) Begin() {
	panel.Show(m.display, "HOMING...", "Moving up")
	core.MustGPIO().ConfigureInputPullUp(m.limitPin)

	m.stepper.Enable(true)
	m.stepper.SetSpeed(-homeSeekSpeed)

	m.st = homeSeek
	m.sum = 0
	m.count = 0
}

func (m *HomeMode) Step() bool {
	now := core.Now()

	switch m.st {
	case homeSeek:
		// Switch closes to ground
		if !core.MustGPIO().ReadPin(m.limitPin) {
			m.stepper.SetSpeed(0)
			m.stepper.SetPositionMM(0)
			m.settleStart = now
			m.st = homeSettle
			core.Statusln("home: switch hit, axis zeroed")
		}
		return false

	case homeSettle:
		// Let the mechanics come to rest before leaving the switch
		if core.Since(now, m.settleStart) >= homeSettleTicks {
			m.stepper.SetSpeed(+homeSeekSpeed)
			panel.Show(m.display, "HOMING", "Move to Z=30 mm")
			m.st = homeRaise
		}
		return false

	case homeRaise:
		if m.stepper.PositionMM() >= homeBaselineZ {
			m.stepper.SetSpeed(0)

			m.sensor.SetEnabled(true)
			m.measStart = now
			m.sum = 0
			m.count = 0

			panel.Show(m.display, "HOMING", "Measuring I0")
			m.st = homeMeasure
		}
		return false

	case homeMeasure:
		m.sum += m.sensor.LastIrms()
		m.count++

		if core.Since(now, m.measStart) >= baselineTicks {
			m.sensor.SetEnabled(false)

			i0 := 0.0
			if m.count > 0 {
				i0 = m.sum / float64(m.count)
			}
			m.baseline.Set(i0)

			panel.Show(m.display, "HOME OK", "I0="+core.Ftoa(i0, 3)+" A")
			core.Statusln("home: baseline I0=" + core.Ftoa(i0, 3) + " A")

			m.reportStart = now
			m.st = homeReport
		}
		return false

	case homeReport:
		// Keep the result on screen before returning to the menu
		if core.Since(now, m.reportStart) >= homeReportTicks {
			m.st = homeDone
			return true
		}
		return false
	}

	return m.st == homeDone
}

func (m *HomeMode) End() {
	m.stepper.Enable(true)
}
