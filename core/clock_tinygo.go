//go:build tinygo

package core

import "sync/atomic"

var systemTicksValue uint32

// getSystemTicks returns the current system ticks
func getSystemTicks() Ticks {
	return Ticks(atomic.LoadUint32(&systemTicksValue))
}

// setSystemTicks sets the system ticks
func setSystemTicks(t Ticks) {
	atomic.StoreUint32(&systemTicksValue, uint32(t))
}
