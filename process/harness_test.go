package process

// Shared scaffolding for process tests: a scripted clock, mock drivers
// registered through the real HAL seams, a real stepper on a counting
// backend, and a fake current source the scenarios steer directly.

import (
	"testing"

	"tipetch/core"
	"tipetch/panel"
)

type testGPIO struct {
	outputs map[core.GPIOPin]bool
	levels  map[core.GPIOPin]bool
}

func newTestGPIO() *testGPIO {
	return &testGPIO{
		outputs: make(map[core.GPIOPin]bool),
		levels:  make(map[core.GPIOPin]bool),
	}
}

func (g *testGPIO) ConfigureOutput(pin core.GPIOPin) error {
	g.outputs[pin] = true
	return nil
}

func (g *testGPIO) ConfigureInputPullUp(pin core.GPIOPin) error {
	g.levels[pin] = true
	return nil
}

func (g *testGPIO) SetPin(pin core.GPIOPin, value bool) {
	g.levels[pin] = value
}

func (g *testGPIO) ReadPin(pin core.GPIOPin) bool {
	return g.levels[pin]
}

type testBackend struct {
	steps int
	dir   bool
}

func (b *testBackend) Init(stepPin, dirPin core.GPIOPin) error { return nil }
func (b *testBackend) Step()                                   { b.steps++ }
func (b *testBackend) SetDirection(dir bool)                   { b.dir = dir }

type fakeCurrent struct {
	enabled   bool
	irms      float64
	corrected float64
	updates   int
}

func (f *fakeCurrent) Update()                { f.updates++ }
func (f *fakeCurrent) SetEnabled(on bool)     { f.enabled = on }
func (f *fakeCurrent) IsEnabled() bool        { return f.enabled }
func (f *fakeCurrent) LastIrms() float64      { return f.irms }
func (f *fakeCurrent) CorrectedIrms() float64 { return f.corrected }

type fakeDisplay struct {
	lines [2]string
}

func (d *fakeDisplay) Clear() {
	d.lines[0] = ""
	d.lines[1] = ""
}

func (d *fakeDisplay) WriteLine(row int, text string) {
	if row >= 0 && row < 2 {
		d.lines[row] = text
	}
}

type fakeInput struct {
	stable panel.Key
	queue  []panel.Key
}

func (f *fakeInput) Poll() panel.Key {
	if len(f.queue) == 0 {
		return panel.KeyNone
	}
	k := f.queue[0]
	f.queue = f.queue[1:]
	return k
}

func (f *fakeInput) Stable() panel.Key { return f.stable }

// Clear matches the real keypad: the stable key resets along with any
// queued edge, so a held button disappears until it debounces back in.
func (f *fakeInput) Clear() {
	f.stable = panel.KeyNone
	f.queue = nil
}

// ladderADC feeds the real keypad decoder a scripted button-ladder code.
type ladderADC struct {
	raw uint16
}

func (a *ladderADC) ConfigureChannel(ch core.ADCChannel) error { return nil }
func (a *ladderADC) ReadRaw(ch core.ADCChannel) (uint16, error) {
	return a.raw, nil
}

const (
	pinStep   core.GPIOPin = 10
	pinDir    core.GPIOPin = 11
	pinEnable core.GPIOPin = 12
	pinRelayA core.GPIOPin = 6
	pinRelayB core.GPIOPin = 7
	pinLimit  core.GPIOPin = 8
)

type rig struct {
	gpio    *testGPIO
	backend *testBackend
	stepper *core.Stepper
	sensor  *fakeCurrent
	disp    *fakeDisplay
	keys    *fakeInput
	relays  *Relays
	params  Params
	now     core.Ticks
}

func newRig(t *testing.T) *rig {
	t.Helper()

	r := &rig{
		gpio:    newTestGPIO(),
		backend: &testBackend{},
		sensor:  &fakeCurrent{},
		disp:    &fakeDisplay{},
		keys:    &fakeInput{},
		params:  DefaultParams(),
	}
	core.SetGPIODriver(r.gpio)
	core.SetNow(0)
	r.now = 0

	var err error
	r.stepper, err = core.NewStepper(core.StepperConfig{
		StepPin:     pinStep,
		DirPin:      pinDir,
		EnablePin:   pinEnable,
		StepsPerRev: 200,
		Microsteps:  1,
		LeadMM:      2, // 100 steps/mm
		MaxSpeedMM:  10,
	}, r.backend)
	if err != nil {
		t.Fatal(err)
	}

	r.relays, err = NewRelays(pinRelayA, pinRelayB)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// realKeys builds a real debounced keypad fed by a scripted ladder code,
// for scenarios where the fake input's scripting would hide the debounce
// re-arm after Clear.
func (r *rig) realKeys(t *testing.T) (*panel.Keypad, *ladderADC) {
	t.Helper()
	adc := &ladderADC{raw: 1023}
	core.SetADCDriver(adc)
	k := panel.NewKeypad(panel.KeypadConfig{Channel: 0})
	if err := k.Begin(); err != nil {
		t.Fatal(err)
	}
	return k, adc
}

// keyTick advances 1 ms and runs the keypad ahead of the caller's work,
// matching the main loop ordering.
func (r *rig) keyTick(k *panel.Keypad) {
	r.now += 1000
	core.SetNow(r.now)
	k.Update()
}

// runMode ticks a simulated 1 ms main loop: the callback runs first so a
// scenario can steer inputs, then the stepper updates, then the mode
// steps, matching the controller's ordering. It returns whether the mode
// finished and after how many ticks.
func (r *rig) runMode(m Mode, maxTicks int, f func(i int)) (bool, int) {
	for i := 0; i < maxTicks; i++ {
		if f != nil {
			f(i)
		}
		r.now += 1000
		core.SetNow(r.now)
		r.stepper.Update()
		if m.Step() {
			return true, i
		}
	}
	return false, maxTicks
}

// relayState decodes the pin pair into "off", "30v", or "9v".
func (r *rig) relayState() string {
	a := r.gpio.levels[pinRelayA]
	b := r.gpio.levels[pinRelayB]
	switch {
	case a && b:
		return "off"
	case a && !b:
		return "30v"
	case !a && b:
		return "9v"
	}
	return "invalid"
}
