//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"tipetch/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x0C // Raw timer low word
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// hardwareMicros reads the low 32 bits of the free-running 1 MHz timer.
// The wraparound every ~71 minutes is handled by the signed tick
// comparisons in core.
func hardwareMicros() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime refreshes the core tick counter from the hardware
// timer. Called once per main loop pass.
func UpdateSystemTime() {
	core.SetNow(core.Ticks(hardwareMicros()))
}
