package core

// Ticks is a free-running microsecond counter value. It wraps around
// roughly every 71 minutes; all comparisons must go through Since.
type Ticks uint32

// Now returns the current system time in ticks. On hardware the target's
// main loop refreshes the counter from the µs timer before every pass.
func Now() Ticks {
	return getSystemTicks()
}

// SetNow sets the system tick counter (hardware refresh and tests).
func SetNow(t Ticks) {
	setSystemTicks(t)
}

// Since returns a-b as a signed difference. The result is correct across
// counter wraparound as long as the two values are less than 2^31 ticks
// apart.
func Since(a, b Ticks) int32 {
	return int32(a - b)
}

// MsTicks converts milliseconds to ticks.
func MsTicks(ms uint32) Ticks {
	return Ticks(ms * 1000)
}
