//go:build rp2040

package main

import (
	"errors"

	"machine"

	"tipetch/core"
)

// RpADCDriver implements core.ADCDriver using TinyGo's machine.ADC.
type RpADCDriver struct {
	inited bool

	// Per-channel TinyGo ADC handles.
	channels map[core.ADCChannel]*machine.ADC
}

func NewRpADCDriver() *RpADCDriver {
	return &RpADCDriver{
		channels: make(map[core.ADCChannel]*machine.ADC),
	}
}

// ConfigureChannel sets up a specific ADC channel (pin mux, etc.).
func (d *RpADCDriver) ConfigureChannel(ch core.ADCChannel) error {
	if !d.inited {
		machine.InitADC()
		d.inited = true
	}

	if _, ok := d.channels[ch]; ok {
		// already configured
		return nil
	}

	// Map core.ADCChannel onto the RP2040's muxed inputs (GPIO26-29).
	var adc machine.ADC

	switch ch {
	case 0:
		adc = machine.ADC{Pin: machine.ADC0}
	case 1:
		adc = machine.ADC{Pin: machine.ADC1}
	case 2:
		adc = machine.ADC{Pin: machine.ADC2}
	case 3:
		adc = machine.ADC{Pin: machine.ADC3}
	default:
		return errors.New("unsupported ADC channel")
	}

	if err := adc.Configure(machine.ADCConfig{}); err != nil {
		return err
	}

	d.channels[ch] = &adc
	return nil
}

// ReadRaw samples the channel and scales TinyGo's left-justified 16-bit
// reading down to a 10-bit code (0-1023). The sense calibration and the
// keypad ladder thresholds are all against a 1023 full scale.
func (d *RpADCDriver) ReadRaw(ch core.ADCChannel) (uint16, error) {
	adc, ok := d.channels[ch]
	if !ok {
		if err := d.ConfigureChannel(ch); err != nil {
			return 0, err
		}
		adc = d.channels[ch]
	}

	return adc.Get() >> 6, nil
}
