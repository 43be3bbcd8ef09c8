package core

// Shared mock drivers for core tests. Registered via the usual
// SetXxxDriver entry points so the code under test runs the same
// registration path as a real target.

type mockGPIO struct {
	outputs map[GPIOPin]bool
	inputs  map[GPIOPin]bool
	levels  map[GPIOPin]bool
}

func newMockGPIO() *mockGPIO {
	return &mockGPIO{
		outputs: make(map[GPIOPin]bool),
		inputs:  make(map[GPIOPin]bool),
		levels:  make(map[GPIOPin]bool),
	}
}

func (m *mockGPIO) ConfigureOutput(pin GPIOPin) error {
	m.outputs[pin] = true
	return nil
}

func (m *mockGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	m.inputs[pin] = true
	m.levels[pin] = true // pull-up idles high
	return nil
}

func (m *mockGPIO) SetPin(pin GPIOPin, value bool) {
	m.levels[pin] = value
}

func (m *mockGPIO) ReadPin(pin GPIOPin) bool {
	return m.levels[pin]
}

type mockADC struct {
	configured map[ADCChannel]bool
	reads      int
	readFn     func() uint16
}

func newMockADC(readFn func() uint16) *mockADC {
	return &mockADC{
		configured: make(map[ADCChannel]bool),
		readFn:     readFn,
	}
}

func (m *mockADC) ConfigureChannel(ch ADCChannel) error {
	m.configured[ch] = true
	return nil
}

func (m *mockADC) ReadRaw(ch ADCChannel) (uint16, error) {
	m.reads++
	return m.readFn(), nil
}

type mockStepBackend struct {
	initialized bool
	stepPin     GPIOPin
	dirPin      GPIOPin
	steps       int
	dir         bool
}

func (m *mockStepBackend) Init(stepPin, dirPin GPIOPin) error {
	m.initialized = true
	m.stepPin = stepPin
	m.dirPin = dirPin
	return nil
}

func (m *mockStepBackend) Step() {
	m.steps++
}

func (m *mockStepBackend) SetDirection(dir bool) {
	m.dir = dir
}
