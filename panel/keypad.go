package panel

import "tipetch/core"

// Key identifies one button of the shield's analog ladder.
type Key uint8

const (
	KeyNone Key = iota
	KeyRight
	KeyUp
	KeyDown
	KeyLeft
	KeySelect
)

func (k Key) String() string {
	switch k {
	case KeyRight:
		return "RIGHT"
	case KeyUp:
		return "UP"
	case KeyDown:
		return "DOWN"
	case KeyLeft:
		return "LEFT"
	case KeySelect:
		return "SELECT"
	}
	return "NONE"
}

// Input is the debounced button source consumed by the process layer.
// Poll returns each press edge exactly once; Stable is the current held
// key for press-and-hold behavior such as jogging.
type Input interface {
	Poll() Key
	Stable() Key
	Clear()
}

// KeypadConfig carries the ladder decode thresholds and debounce window.
// All five buttons share one ADC channel through a resistor divider; the
// raw code identifies the pressed button. Thresholds are upper bounds in
// ladder order: RIGHT, UP, DOWN, LEFT, SELECT.
type KeypadConfig struct {
	Channel       core.ADCChannel
	Thresholds    [5]uint16
	DebounceTicks core.Ticks
}

func (cfg *KeypadConfig) applyDefaults() {
	var zero [5]uint16
	if cfg.Thresholds == zero {
		cfg.Thresholds = [5]uint16{60, 200, 400, 600, 800}
	}
	if cfg.DebounceTicks == 0 {
		cfg.DebounceTicks = core.MsTicks(20)
	}
}

// Keypad decodes and debounces the analog button ladder. Update must be
// called every loop tick; a decoded key becomes the stable key only after
// the raw reading has held steady for the debounce window, and each
// transition to a non-idle key queues exactly one press edge for Poll.
type Keypad struct {
	cfg KeypadConfig

	lastRead   Key
	lastChange core.Ticks
	stable     Key
	pending    Key
}

// NewKeypad creates a keypad on the given ADC channel.
func NewKeypad(cfg KeypadConfig) *Keypad {
	cfg.applyDefaults()
	return &Keypad{cfg: cfg}
}

// Begin configures the ADC channel.
func (k *Keypad) Begin() error {
	return core.MustADC().ConfigureChannel(k.cfg.Channel)
}

func (k *Keypad) decode(raw uint16) Key {
	for i, th := range k.cfg.Thresholds {
		if raw < th {
			return Key(i + 1)
		}
	}
	return KeyNone
}

// Update samples the ladder once and advances the debounce state.
func (k *Keypad) Update() {
	raw, err := core.MustADC().ReadRaw(k.cfg.Channel)
	if err != nil {
		return
	}
	key := k.decode(raw)
	now := core.Now()

	if key != k.lastRead {
		k.lastRead = key
		k.lastChange = now
		return
	}

	if core.Since(now, k.lastChange) < int32(k.cfg.DebounceTicks) {
		return
	}
	if key == k.stable {
		return
	}

	k.stable = key
	if key != KeyNone {
		k.pending = key
	}
}

// Poll returns the queued press edge, or KeyNone, consuming it.
func (k *Keypad) Poll() Key {
	p := k.pending
	k.pending = KeyNone
	return p
}

// Stable returns the current debounced key level.
func (k *Keypad) Stable() Key {
	return k.stable
}

// Clear resets the whole key state: the stable and raw keys return to
// KeyNone, any queued press edge is dropped, and the debounce window is
// re-armed. Modes call this on entry so a button held across a mode
// switch must debounce afresh before it acts in the new mode.
func (k *Keypad) Clear() {
	k.stable = KeyNone
	k.lastRead = KeyNone
	k.lastChange = core.Now()
	k.pending = KeyNone
}
