//go:build rp2040

package main

import (
	"machine"

	"tinygo.org/x/drivers/hd44780"
)

const lcdCols = 16

// LCD16x2 drives a 16x2 character LCD over a 4-bit HD44780 bus and
// implements panel.Display.
type LCD16x2 struct {
	dev hd44780.Device
}

// NewLCD16x2 wires the LCD in write-only 4-bit mode.
func NewLCD16x2(rs, en machine.Pin, data [4]machine.Pin) (*LCD16x2, error) {
	dev, err := hd44780.NewGPIO4Bit(data[:], en, rs, hd44780.WRITE_ONLY_MODE)
	if err != nil {
		return nil, err
	}
	err = dev.Configure(hd44780.Config{
		Width:  lcdCols,
		Height: 2,
	})
	if err != nil {
		return nil, err
	}
	return &LCD16x2{dev: dev}, nil
}

func (l *LCD16x2) Clear() {
	l.dev.ClearDisplay()
}

// WriteLine replaces one full row. Text is padded out to the row width
// so stale characters never linger.
func (l *LCD16x2) WriteLine(row int, text string) {
	if row < 0 || row > 1 {
		return
	}
	buf := make([]byte, lcdCols)
	for i := range buf {
		if i < len(text) {
			buf[i] = text[i]
		} else {
			buf[i] = ' '
		}
	}
	l.dev.SetCursor(0, uint8(row))
	l.dev.Write(buf)
	l.dev.Display()
}
