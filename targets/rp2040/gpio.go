//go:build rp2040

package main

import (
	"machine"

	"tipetch/core"
)

// RpGPIODriver implements core.GPIODriver on top of the TinyGo
// machine package.
type RpGPIODriver struct{}

func NewRpGPIODriver() *RpGPIODriver {
	return &RpGPIODriver{}
}

func (d *RpGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinOutput})
	return nil
}

func (d *RpGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	machine.Pin(pin).Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

func (d *RpGPIODriver) SetPin(pin core.GPIOPin, high bool) {
	machine.Pin(pin).Set(high)
}

func (d *RpGPIODriver) ReadPin(pin core.GPIOPin) bool {
	return machine.Pin(pin).Get()
}
