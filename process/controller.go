package process

import (
	"tipetch/core"
	"tipetch/panel"
)

type uiState uint8

const (
	uiMenu uiState = iota
	uiRunning
)

// Controller is the top of the firmware loop: it owns the per-tick update
// of the motion and sensing layers and the operator menu. LEFT/RIGHT
// browse the mode list, SELECT starts the highlighted mode, and while a
// mode runs SELECT returns to the menu unless the mode handles SELECT
// itself (jog and the parameter editor). The stepper and the current
// sensor are updated exactly once per Loop call, before the active mode's
// Step, so every mode decision sees this tick's readings.
type Controller struct {
	display panel.Display
	keys    panel.Input
	stepper *core.Stepper
	sensor  CurrentSource
	modes   []Mode

	selected int
	running  int
	ui       uiState
}

func NewController(display panel.Display, keys panel.Input, stepper *core.Stepper, sensor CurrentSource, modes []Mode) *Controller {
	return &Controller{
		display: display,
		keys:    keys,
		stepper: stepper,
		sensor:  sensor,
		modes:   modes,
	}
}

// Begin draws the menu and autostarts the first mode. The mode list is
// ordered so that index 0 is homing; the machine always references itself
// before the operator can run anything else.
func (c *Controller) Begin() {
	c.selected = 0
	c.ui = uiMenu
	c.drawMenu()
	c.start(0)
}

func (c *Controller) drawMenu() {
	name := c.modes[c.selected].Name()

	line := "< " + name
	for len(line) < 14 {
		line += " "
	}
	line += " >"

	panel.Show(c.display, "Select Mode:", line)
}

func (c *Controller) start(idx int) {
	c.running = idx
	core.Statusln("mode start: " + c.modes[idx].Name())
	c.modes[idx].Begin()
	c.ui = uiRunning
}

func (c *Controller) stop() {
	core.Statusln("mode stop: " + c.modes[c.running].Name())
	c.modes[c.running].End()
	c.ui = uiMenu
	c.drawMenu()
}

// Loop runs one pass of the firmware loop. Call it as fast as the target
// allows; nothing in it blocks.
func (c *Controller) Loop() {
	c.stepper.Update()
	c.sensor.Update()

	k := c.keys.Poll()

	if c.ui == uiMenu {
		switch k {
		case panel.KeyLeft:
			c.selected--
			if c.selected < 0 {
				c.selected = len(c.modes) - 1
			}
			c.drawMenu()
		case panel.KeyRight:
			c.selected = (c.selected + 1) % len(c.modes)
			c.drawMenu()
		case panel.KeySelect:
			c.start(c.selected)
		}
		return
	}

	done := c.modes[c.running].Step()

	// Jog and the parameter editor consume SELECT themselves
	name := c.modes[c.running].Name()
	ownsSelect := name == "JOG" || name == "PARAM"

	if !ownsSelect && k == panel.KeySelect {
		c.stop()
		return
	}

	if done {
		c.stop()
	}
}
