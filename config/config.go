// Package config defines the machine configuration and its JSON loader.
// A zero-valued or partial document is usable: every missing field falls
// back to the values of the reference machine.
package config

import (
	"encoding/json"

	"tipetch/core"
	"tipetch/panel"
	"tipetch/process"
)

// PinConfig maps the controller's logical lines to GPIO numbers and ADC
// channels.
type PinConfig struct {
	Step   uint32 // step pulse output
	Dir    uint32 // direction output
	Enable uint32 // driver enable, active low
	RelayA uint32 // supply relay A
	RelayB uint32 // supply relay B
	Limit  uint32 // top limit switch, closes to ground

	CurrentChannel uint32 // ADC channel of the current transformer
	KeypadChannel  uint32 // ADC channel of the button ladder
}

// AxisConfig describes the Z drive geometry and speed limit.
type AxisConfig struct {
	StepsPerRev float64 // full steps per motor revolution
	Microsteps  int     // microstepping factor
	LeadMM      float64 // lead screw pitch (mm per revolution)
	MaxSpeedMM  float64 // maximum linear speed (mm/s)
}

// SensorConfig carries the current sensor front-end calibration.
type SensorConfig struct {
	VRef      float64 // ADC reference voltage (V)
	FullScale float64 // maximum ADC code
	Cal       float64 // RMS volts to RMS amperes
	WindowUS  uint32  // RMS window length (µs)
	SampleUS  uint32  // sampling interval (µs)
}

// KeypadConfig carries the button ladder decode table.
type KeypadConfig struct {
	Thresholds [5]uint16 // upper bounds: RIGHT, UP, DOWN, LEFT, SELECT
	DebounceMS uint32
}

// ProcessConfig carries recipe tuning and the soft travel range.
type ProcessConfig struct {
	SurfaceThresholdA float64 // corrected current that counts as contact
	ZMinMM            float64
	ZMaxMM            float64
	Mod1              process.Mod1Params
	Mod2              process.Mod2Params
}

// MachineConfig is the complete controller configuration.
type MachineConfig struct {
	Pins    PinConfig
	Axis    AxisConfig
	Sensor  SensorConfig
	Keypad  KeypadConfig
	Process ProcessConfig
}

// LoadConfig parses a JSON configuration document and fills any missing
// values with defaults.
func LoadConfig(jsonData []byte) (*MachineConfig, error) {
	var config MachineConfig

	err := json.Unmarshal(jsonData, &config)
	if err != nil {
		return nil, err
	}

	applyDefaults(&config)

	return &config, nil
}

// applyDefaults fills zero-valued fields with the reference machine's
// values. Pin numbers are left alone: zero is a valid GPIO.
func applyDefaults(config *MachineConfig) {
	if config.Axis.StepsPerRev == 0 {
		config.Axis.StepsPerRev = 200
	}
	if config.Axis.Microsteps == 0 {
		config.Axis.Microsteps = 16
	}
	if config.Axis.LeadMM == 0 {
		config.Axis.LeadMM = 8
	}
	if config.Axis.MaxSpeedMM == 0 {
		config.Axis.MaxSpeedMM = 10
	}

	if config.Sensor.VRef == 0 {
		config.Sensor.VRef = 5.0
	}
	if config.Sensor.FullScale == 0 {
		config.Sensor.FullScale = 1023
	}
	if config.Sensor.Cal == 0 {
		config.Sensor.Cal = 0.90
	}
	if config.Sensor.WindowUS == 0 {
		config.Sensor.WindowUS = 20000
	}
	if config.Sensor.SampleUS == 0 {
		config.Sensor.SampleUS = 200
	}

	var zero [5]uint16
	if config.Keypad.Thresholds == zero {
		config.Keypad.Thresholds = [5]uint16{60, 200, 400, 600, 800}
	}
	if config.Keypad.DebounceMS == 0 {
		config.Keypad.DebounceMS = 20
	}

	if config.Process.SurfaceThresholdA == 0 {
		config.Process.SurfaceThresholdA = 0.1
	}
	if config.Process.ZMinMM == 0 {
		config.Process.ZMinMM = 1.5
	}
	if config.Process.ZMaxMM == 0 {
		config.Process.ZMaxMM = 75.0
	}

	params := process.DefaultParams()
	if config.Process.Mod1 == (process.Mod1Params{}) {
		config.Process.Mod1 = params.Mod1
	}
	if config.Process.Mod2 == (process.Mod2Params{}) {
		config.Process.Mod2 = params.Mod2
	}
}

// Default returns the reference machine configuration.
func Default() *MachineConfig {
	config := &MachineConfig{
		Pins: PinConfig{
			Step:           2,
			Dir:            3,
			Enable:         4,
			RelayA:         6,
			RelayB:         7,
			Limit:          8,
			CurrentChannel: 1,
			KeypadChannel:  0,
		},
	}
	applyDefaults(config)
	return config
}

// StepperConfig converts the axis section for the motion layer.
func (c *MachineConfig) StepperConfig() core.StepperConfig {
	return core.StepperConfig{
		StepPin:     core.GPIOPin(c.Pins.Step),
		DirPin:      core.GPIOPin(c.Pins.Dir),
		EnablePin:   core.GPIOPin(c.Pins.Enable),
		StepsPerRev: c.Axis.StepsPerRev,
		Microsteps:  c.Axis.Microsteps,
		LeadMM:      c.Axis.LeadMM,
		MaxSpeedMM:  c.Axis.MaxSpeedMM,
	}
}

// CurrentSensorConfig converts the sensor section for the sensing layer.
func (c *MachineConfig) CurrentSensorConfig() core.CurrentSensorConfig {
	return core.CurrentSensorConfig{
		Channel:     core.ADCChannel(c.Pins.CurrentChannel),
		VRef:        c.Sensor.VRef,
		FullScale:   c.Sensor.FullScale,
		Cal:         c.Sensor.Cal,
		WindowTicks: core.Ticks(c.Sensor.WindowUS),
		SampleTicks: core.Ticks(c.Sensor.SampleUS),
	}
}

// KeypadConfig converts the keypad section for the panel layer.
func (c *MachineConfig) KeypadConfig() panel.KeypadConfig {
	return panel.KeypadConfig{
		Channel:       core.ADCChannel(c.Pins.KeypadChannel),
		Thresholds:    c.Keypad.Thresholds,
		DebounceTicks: core.MsTicks(c.Keypad.DebounceMS),
	}
}

// Params returns the recipe tuning as the live parameter set.
func (c *MachineConfig) Params() process.Params {
	return process.Params{
		Mod1: c.Process.Mod1,
		Mod2: c.Process.Mod2,
	}
}

// Limits returns the soft travel range.
func (c *MachineConfig) Limits() process.Limits {
	return process.Limits{
		ZMinMM: c.Process.ZMinMM,
		ZMaxMM: c.Process.ZMaxMM,
	}
}
