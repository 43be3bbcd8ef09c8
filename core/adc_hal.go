package core

// ADCChannel identifies a logical ADC input channel.
type ADCChannel uint32

// ADCDriver is the abstract ADC interface that core code uses. Readings are
// raw codes against the channel's full-scale value; voltage conversion is
// the caller's business.
type ADCDriver interface {
	// ConfigureChannel prepares a channel for analog input.
	// For pin-muxed channels, this should set the pin to analog mode.
	ConfigureChannel(ch ADCChannel) error

	// ReadRaw performs a one-shot sample from the given channel.
	ReadRaw(ch ADCChannel) (uint16, error)
}

// Global singleton used by core code.
var adcDriver ADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
