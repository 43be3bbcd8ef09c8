// Package panel holds the operator-facing surfaces: the 16x2 character
// display contract and the analog button ladder of the LCD keypad shield.
// Hardware bindings live under targets/; everything here runs against the
// abstract drivers so host tests can exercise it.
package panel

// Display is a 2-row character display. Rows are numbered from 0; text
// longer than the panel width is truncated by the implementation.
type Display interface {
	Clear()
	WriteLine(row int, text string)
}

// Show clears the display and writes both rows in one call. Process modes
// redraw the whole panel on every state change rather than patching
// characters in place.
func Show(d Display, line1, line2 string) {
	d.Clear()
	d.WriteLine(0, line1)
	d.WriteLine(1, line2)
}

// NullDisplay discards all output. Used on headless builds and in tests
// that do not care about what is shown.
type NullDisplay struct{}

func (NullDisplay) Clear()                {}
func (NullDisplay) WriteLine(int, string) {}
