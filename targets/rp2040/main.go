//go:build rp2040

package main

import (
	"machine"
	"time"

	"tipetch/config"
	"tipetch/core"
	"tipetch/panel"
	"tipetch/process"
)

// LCD wiring (4-bit bus, write only)
var (
	lcdRS   = machine.GP9
	lcdEN   = machine.GP10
	lcdData = [4]machine.Pin{machine.GP11, machine.GP12, machine.GP13, machine.GP14}
)

// ledBlink blinks the LED a specific number of times for diagnostics
func ledBlink(count int) {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	for i := 0; i < count; i++ {
		led.High()
		time.Sleep(150 * time.Millisecond)
		led.Low()
		time.Sleep(150 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond) // Pause after blink sequence
}

// fatal signals an unrecoverable boot error by blinking forever.
func fatal(code int) {
	for {
		ledBlink(code)
		time.Sleep(time.Second)
	}
}

func main() {
	// CRITICAL: Disable watchdog on boot to clear any previous state
	err := machine.Watchdog.Configure(machine.WatchdogConfig{TimeoutMillis: 0})
	if err != nil {
		fatal(2)
	}

	// Mirror status lines to USB CDC for the host monitor
	core.SetStatusWriter(func(msg string) {
		machine.Serial.Write([]byte(msg))
		machine.Serial.Write([]byte("\r\n"))
	})

	// Register hardware drivers before anything touches a pin
	core.SetGPIODriver(NewRpGPIODriver())
	core.SetADCDriver(NewRpADCDriver())
	UpdateSystemTime()

	cfg := config.Default()

	// DIAGNOSTIC: 1 blink = drivers registered
	ledBlink(1)

	lcd, err := NewLCD16x2(lcdRS, lcdEN, lcdData)
	if err != nil {
		fatal(3)
	}

	keypad := panel.NewKeypad(cfg.KeypadConfig())
	if err := keypad.Begin(); err != nil {
		fatal(4)
	}

	stepper, err := core.NewStepper(cfg.StepperConfig(), NewStepPulseGPIO())
	if err != nil {
		fatal(5)
	}

	baseline := &core.BaselineCell{}
	sensor := core.NewCurrentSensor(cfg.CurrentSensorConfig(), baseline)
	if err := sensor.Begin(); err != nil {
		fatal(6)
	}

	relays, err := process.NewRelays(core.GPIOPin(cfg.Pins.RelayA), core.GPIOPin(cfg.Pins.RelayB))
	if err != nil {
		fatal(7)
	}

	params := cfg.Params()
	limits := cfg.Limits()
	thr := cfg.Process.SurfaceThresholdA

	modes := []process.Mode{
		process.NewHomeMode(lcd, stepper, core.GPIOPin(cfg.Pins.Limit), sensor, baseline),
		process.NewMod1Mode(lcd, stepper, relays, sensor, &params, thr, limits),
		process.NewMod2Mode(lcd, stepper, relays, sensor, &params, thr, limits),
		process.NewJogMode(lcd, keypad, stepper, limits),
		process.NewParamsMode(lcd, keypad, &params),
	}

	ctl := process.NewController(lcd, keypad, stepper, sensor, modes)

	// DIAGNOSTIC: 2 blinks = controller ready
	ledBlink(2)
	core.Statusln("BOOT OK")

	ctl.Begin()
	for {
		UpdateSystemTime()
		keypad.Update()
		ctl.Loop()
	}
}
