package core

// Itoa converts an integer to a string without using the fmt package.
// This is a lightweight alternative for embedded systems.
func Itoa(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	// Count digits
	temp := n
	digits := 0
	for temp > 0 {
		digits++
		temp /= 10
	}

	if negative {
		digits++
	}

	// Build string from right to left
	buf := make([]byte, digits)
	pos := digits - 1

	for n > 0 {
		buf[pos] = byte('0' + n%10)
		n /= 10
		pos--
	}

	if negative {
		buf[0] = '-'
	}

	return string(buf)
}

// Ftoa formats a float with a fixed number of decimal digits, the way the
// character display expects it. prec is clamped to [0, 6].
func Ftoa(v float64, prec int) string {
	if prec < 0 {
		prec = 0
	}
	if prec > 6 {
		prec = 6
	}

	negative := v < 0
	if negative {
		v = -v
	}

	pow := 1
	for i := 0; i < prec; i++ {
		pow *= 10
	}

	// Round to the requested precision
	scaled := int64(v*float64(pow) + 0.5)
	ip := scaled / int64(pow)
	fp := scaled % int64(pow)

	s := Itoa(int(ip))
	if negative {
		s = "-" + s
	}
	if prec == 0 {
		return s
	}

	frac := Itoa(int(fp))
	for len(frac) < prec {
		frac = "0" + frac
	}
	return s + "." + frac
}
