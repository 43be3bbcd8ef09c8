//go:build !tinygo

package core

var systemTicks Ticks

// getSystemTicks returns the current system ticks (regular Go implementation)
func getSystemTicks() Ticks {
	return systemTicks
}

// setSystemTicks sets the system ticks (regular Go implementation)
func setSystemTicks(t Ticks) {
	systemTicks = t
}
