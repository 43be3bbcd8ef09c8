package core

// StatusWriter is a function type for writing status messages
type StatusWriter func(string)

// statusPrintln is the global status print function (set by platform code).
// No-op by default so the control loop never blocks on output.
var statusPrintln StatusWriter = func(string) {}

// SetStatusWriter sets the platform-specific status output function.
// This allows targets to mirror status lines to UART, USB CDC, etc.
func SetStatusWriter(w StatusWriter) {
	statusPrintln = w
}

// Statusln writes a status line using the platform-specific writer
func Statusln(msg string) {
	if statusPrintln != nil {
		statusPrintln(msg)
	}
}
