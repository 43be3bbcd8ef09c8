package process

import "tipetch/core"

// Relays drives the two-relay supply selector. The relay coils are
// active-low, so the idle state keeps both pins high. The pin pair
// encodes which supply is connected to the etching electrodes:
//
//	off   A=high B=high
//	30 V  A=high B=low
//	9 V   A=low  B=high
//
// Both-low is never commanded; it would parallel the supplies.
type Relays struct {
	pinA core.GPIOPin
	pinB core.GPIOPin
}

// NewRelays configures both relay pins as outputs and forces the off
// state before returning.
func NewRelays(pinA, pinB core.GPIOPin) (*Relays, error) {
	gpio := core.MustGPIO()
	if err := gpio.ConfigureOutput(pinA); err != nil {
		return nil, err
	}
	if err := gpio.ConfigureOutput(pinB); err != nil {
		return nil, err
	}
	r := &Relays{pinA: pinA, pinB: pinB}
	r.Off()
	return r, nil
}

// Off disconnects both supplies.
func (r *Relays) Off() {
	gpio := core.MustGPIO()
	gpio.SetPin(r.pinA, true)
	gpio.SetPin(r.pinB, true)
}

// Select30V connects the 30 V etching supply.
func (r *Relays) Select30V() {
	gpio := core.MustGPIO()
	gpio.SetPin(r.pinA, true)
	gpio.SetPin(r.pinB, false)
}

// Select9V connects the 9 V pulse supply.
func (r *Relays) Select9V() {
	gpio := core.MustGPIO()
	gpio.SetPin(r.pinA, false)
	gpio.SetPin(r.pinB, true)
}
