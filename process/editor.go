package process

import (
	"tipetch/core"
	"tipetch/panel"
)

// On-device parameter editor. The operator picks a recipe, then a
// parameter, then edits it digit by digit. A short SELECT descends one
// level (or saves, inside an editor); holding SELECT for two seconds
// ascends one level, or exits the mode from the top.

const (
	longPressTicks  = 2000000
	blinkFloatTicks = 1000000
	blinkIntTicks   = 2000000
	blinkShowTicks  = 200000

	cursorBlock = byte(0xFF) // full block character on HD44780
)

type paramEntry struct {
	label string
	isInt bool
	get   func(*Params) float64
	set   func(*Params, float64)
}

var mod1Entries = []paramEntry{
	{
		label: "M1 PLUNGE [mm]",
		get:   func(p *Params) float64 { return p.Mod1.PlungeAfterSurfaceMM },
		set:   func(p *Params, v float64) { p.Mod1.PlungeAfterSurfaceMM = v },
	},
	{
		label: "M1 Ithr [A]",
		get:   func(p *Params) float64 { return p.Mod1.EtchThresholdA },
		set:   func(p *Params, v float64) { p.Mod1.EtchThresholdA = v },
	},
	{
		label: "M1 RET SPD[mm/s]",
		get:   func(p *Params) float64 { return p.Mod1.RetractSpeedMMS },
		set:   func(p *Params, v float64) { p.Mod1.RetractSpeedMMS = v },
	},
}

var mod2Entries = []paramEntry{
	{
		label: "M2 PLUNGE [mm]",
		get:   func(p *Params) float64 { return p.Mod2.PlungeAfterSurfaceMM },
		set:   func(p *Params, v float64) { p.Mod2.PlungeAfterSurfaceMM = v },
	},
	{
		label: "M2 Ithr [A]",
		get:   func(p *Params) float64 { return p.Mod2.EtchThresholdA },
		set:   func(p *Params, v float64) { p.Mod2.EtchThresholdA = v },
	},
	{
		label: "M2 PLUNGE2 [mm]",
		get:   func(p *Params) float64 { return p.Mod2.PlungeAfterEtchMM },
		set:   func(p *Params, v float64) { p.Mod2.PlungeAfterEtchMM = v },
	},
	{
		label: "M2 PULSE NUM",
		isInt: true,
		get:   func(p *Params) float64 { return float64(p.Mod2.PulseCount) },
		set:   func(p *Params, v float64) { p.Mod2.PulseCount = int(v) },
	},
	{
		label: "M2 PULSE ON [s]",
		get:   func(p *Params) float64 { return p.Mod2.PulseOnS },
		set:   func(p *Params, v float64) { p.Mod2.PulseOnS = v },
	},
	{
		label: "M2 PULSE OFF[s]",
		get:   func(p *Params) float64 { return p.Mod2.PulseOffS },
		set:   func(p *Params, v float64) { p.Mod2.PulseOffS = v },
	},
}

type editorState uint8

const (
	editSelectRecipe editorState = iota
	editSelectParam
	editFloat
	editInt
)

// ParamsMode implements the Mode interface for the editor. It owns
// SELECT entirely, so the controller never treats SELECT as an exit while
// it runs; the only way out is the long press at the top level.
type ParamsMode struct {
	display panel.Display
	keys    panel.Input
	params  *Params

	st            editorState
	selectedMode  int // 0 = MOD1, 1 = MOD2
	selectedParam int

	lastKey             panel.Key
	firstStep           bool
	ignoreSelectRelease bool
	needRedraw          bool

	selHeld bool
	selDown core.Ticks

	digits [7]byte // "XXX.XXX"
	cursor int

	idigits [3]byte
	icursor int

	blinkTs    core.Ticks
	blinkBlock bool
}

func NewParamsMode(display panel.Display, keys panel.Input, params *Params) *ParamsMode {
	return &ParamsMode{
		display: display,
		keys:    keys,
		params:  params,
	}
}

func (m *ParamsMode) Name() string { return "PARAM" }

func (m *ParamsMode) Begin() {
	m.st = editSelectRecipe
	m.selectedMode = 0
	m.selectedParam = 0
	m.selHeld = false
	m.needRedraw = false
	m.lastKey = panel.KeyNone
	m.firstStep = true
	m.ignoreSelectRelease = false

	m.drawSelectRecipe()
}

func (m *ParamsMode) End() {
	m.display.Clear()
}

func (m *ParamsMode) entries() []paramEntry {
	if m.selectedMode == 0 {
		return mod1Entries
	}
	return mod2Entries
}

func (m *ParamsMode) entry() *paramEntry {
	return &m.entries()[m.selectedParam]
}

func (m *ParamsMode) drawSelectRecipe() {
	if m.selectedMode == 0 {
		panel.Show(m.display, "Select MODE:", ">MOD1     MOD2")
	} else {
		panel.Show(m.display, "Select MODE:", " MOD1    >MOD2")
	}
}

func (m *ParamsMode) drawSelectParam() {
	e := m.entry()
	value := ""
	if e.isInt {
		value = core.Itoa(int(e.get(m.params)))
	} else {
		value = core.Ftoa(e.get(m.params), 3)
	}
	panel.Show(m.display, e.label, value)
}

// checkLongPress reports a single long-press event once SELECT has been
// held for the threshold. Releasing or pressing any other key cancels the
// measurement.
func (m *ParamsMode) checkLongPress(s panel.Key, now core.Ticks) bool {
	if s == panel.KeySelect {
		if !m.selHeld {
			m.selHeld = true
			m.selDown = now
		} else if core.Since(now, m.selDown) >= longPressTicks {
			m.selHeld = false
			return true
		}
	} else {
		m.selHeld = false
	}
	return false
}

// --- float editor ---

func (m *ParamsMode) startEditFloat(value float64) {
	if value < 0 {
		value = 0
	}
	if value > 999.999 {
		value = 999.999
	}

	v := int(value*1000 + 0.5)
	ip := v / 1000
	fp := v % 1000

	m.digits[0] = '0' + byte(ip/100%10)
	m.digits[1] = '0' + byte(ip/10%10)
	m.digits[2] = '0' + byte(ip%10)
	m.digits[3] = '.'
	m.digits[4] = '0' + byte(fp/100%10)
	m.digits[5] = '0' + byte(fp/10%10)
	m.digits[6] = '0' + byte(fp%10)

	m.cursor = 0
	m.needRedraw = true
}

func (m *ParamsMode) floatFromDigits() float64 {
	ip := int(m.digits[0]-'0')*100 + int(m.digits[1]-'0')*10 + int(m.digits[2]-'0')
	fp := int(m.digits[4]-'0')*100 + int(m.digits[5]-'0')*10 + int(m.digits[6]-'0')
	return float64(ip) + float64(fp)/1000
}

func editLine(digits []byte, cursor int, block bool) string {
	buf := make([]byte, len(digits))
	copy(buf, digits)
	if block {
		buf[cursor] = cursorBlock
	}
	return string(buf)
}

func (m *ParamsMode) updateFloatEditor(k panel.Key) {
	if k == panel.KeyLeft && m.cursor > 0 {
		m.cursor--
	}
	if k == panel.KeyRight && m.cursor < 6 {
		m.cursor++
	}

	if (k == panel.KeyUp || k == panel.KeyDown) && m.digits[m.cursor] != '.' {
		d := int(m.digits[m.cursor] - '0')
		if k == panel.KeyUp {
			d = (d + 1) % 10
		} else {
			d = (d + 9) % 10
		}
		m.digits[m.cursor] = '0' + byte(d)
	}

	m.display.WriteLine(0, m.entry().label)
	m.display.WriteLine(1, editLine(m.digits[:], m.cursor, false))
}

// --- int editor ---

func (m *ParamsMode) startEditInt(value int) {
	if value < 0 {
		value = 0
	}
	if value > 999 {
		value = 999
	}

	m.idigits[0] = '0' + byte(value/100%10)
	m.idigits[1] = '0' + byte(value/10%10)
	m.idigits[2] = '0' + byte(value%10)

	m.icursor = 0
	m.needRedraw = true
}

func (m *ParamsMode) intFromDigits() int {
	return int(m.idigits[0]-'0')*100 + int(m.idigits[1]-'0')*10 + int(m.idigits[2]-'0')
}

func (m *ParamsMode) updateIntEditor(k panel.Key) {
	if k == panel.KeyLeft && m.icursor > 0 {
		m.icursor--
	}
	if k == panel.KeyRight && m.icursor < 2 {
		m.icursor++
	}

	if k == panel.KeyUp || k == panel.KeyDown {
		d := int(m.idigits[m.icursor] - '0')
		if k == panel.KeyUp {
			d = (d + 1) % 10
		} else {
			d = (d + 9) % 10
		}
		m.idigits[m.icursor] = '0' + byte(d)
	}

	m.display.WriteLine(0, m.entry().label)
	m.display.WriteLine(1, editLine(m.idigits[:], m.icursor, false))
}

func (m *ParamsMode) saveEdited() {
	e := m.entry()
	if e.isInt {
		e.set(m.params, float64(m.intFromDigits()))
	} else {
		e.set(m.params, m.floatFromDigits())
	}
	core.Statusln("param saved: " + e.label)
}

func (m *ParamsMode) Step() bool {
	s := m.keys.Stable()
	prev := m.lastKey

	if m.firstStep {
		if s == panel.KeySelect {
			// discard the SELECT used to enter this mode
			m.keys.Clear()
			s = panel.KeyNone
		}
		m.firstStep = false
	}

	now := core.Now()
	longPress := m.checkLongPress(s, now)
	keyChanged := s != prev
	m.lastKey = s

	switch m.st {
	case editSelectRecipe:
		if m.needRedraw {
			m.drawSelectRecipe()
			m.needRedraw = false
		}

		if keyChanged {
			if s == panel.KeyUp || s == panel.KeyDown || s == panel.KeyLeft || s == panel.KeyRight {
				m.selectedMode = 1 - m.selectedMode
				m.needRedraw = true
			}

			// short SELECT acts on release so it cannot be confused with
			// the beginning of a long press
			if prev == panel.KeySelect && s == panel.KeyNone && !longPress {
				if m.ignoreSelectRelease {
					m.ignoreSelectRelease = false
				} else {
					m.selectedParam = 0
					m.st = editSelectParam
					m.needRedraw = true
				}
			}
		}

		if longPress {
			return true
		}

	case editSelectParam:
		if m.needRedraw {
			m.drawSelectParam()
			m.needRedraw = false
		}

		if keyChanged {
			if s == panel.KeyUp && m.selectedParam > 0 {
				m.selectedParam--
				m.needRedraw = true
			}
			if s == panel.KeyDown && m.selectedParam < len(m.entries())-1 {
				m.selectedParam++
				m.needRedraw = true
			}

			if s == panel.KeySelect && !longPress {
				m.blinkTs = now
				m.blinkBlock = false

				if m.entry().isInt {
					m.startEditInt(int(m.entry().get(m.params)))
					m.st = editInt
				} else {
					m.startEditFloat(m.entry().get(m.params))
					m.st = editFloat
				}
			}
		}

		if longPress {
			m.st = editSelectRecipe
			m.needRedraw = true
			m.ignoreSelectRelease = true
		}

	case editFloat:
		if m.needRedraw {
			m.updateFloatEditor(panel.KeyNone)
			m.needRedraw = false
		}

		if keyChanged {
			if s == panel.KeyUp || s == panel.KeyDown || s == panel.KeyLeft || s == panel.KeyRight {
				m.updateFloatEditor(s)
				m.blinkTs = now
				m.blinkBlock = false
			}

			if s == panel.KeySelect && !longPress {
				m.saveEdited()
				m.st = editSelectParam
				m.needRedraw = true
			}
		}

		if longPress {
			m.saveEdited()
			m.st = editSelectRecipe
			m.needRedraw = true
			m.ignoreSelectRelease = true
		}

		if m.st == editFloat {
			m.blinkCursor(now, m.digits[:], m.cursor, blinkFloatTicks)
		}

	case editInt:
		if m.needRedraw {
			m.updateIntEditor(panel.KeyNone)
			m.needRedraw = false
			m.blinkTs = now
			m.blinkBlock = false
		}

		if keyChanged {
			if s == panel.KeyUp || s == panel.KeyDown || s == panel.KeyLeft || s == panel.KeyRight {
				m.updateIntEditor(s)
				m.blinkTs = now
				m.blinkBlock = false
			}

			if s == panel.KeySelect && !longPress {
				m.saveEdited()
				m.st = editSelectParam
				m.needRedraw = true
			}
		}

		if longPress {
			m.saveEdited()
			m.st = editSelectRecipe
			m.needRedraw = true
			m.ignoreSelectRelease = true
		}

		if m.st == editInt {
			m.blinkCursor(now, m.idigits[:], m.icursor, blinkIntTicks)
		}
	}

	return false
}

// blinkCursor marks the edited digit with a solid block for a short flash
// after a quiet period, then restores it.
func (m *ParamsMode) blinkCursor(now core.Ticks, digits []byte, cursor int, quiet int32) {
	dt := core.Since(now, m.blinkTs)

	if !m.blinkBlock && dt >= quiet {
		m.blinkBlock = true
		m.blinkTs = now
		m.display.WriteLine(1, editLine(digits, cursor, true))
	} else if m.blinkBlock && dt >= blinkShowTicks {
		m.blinkBlock = false
		m.blinkTs = now
		m.display.WriteLine(1, editLine(digits, cursor, false))
	}
}
