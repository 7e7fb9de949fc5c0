package phone

import "strings"

// Normalize strips a phone number down to its digits.
func Normalize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Suffix returns the trailing 10 digits of a number, the comparable form
// used to match inbound replies against stored tenant numbers. Numbers
// shorter than 10 digits are returned whole.
func Suffix(raw string) string {
	digits := Normalize(raw)
	if len(digits) <= 10 {
		return digits
	}
	return digits[len(digits)-10:]
}

// Match reports whether two numbers refer to the same line, comparing
// their normalized 10-digit suffixes. Empty numbers never match.
func Match(a, b string) bool {
	sa, sb := Suffix(a), Suffix(b)
	if sa == "" || sb == "" {
		return false
	}
	return sa == sb
}

// Format renders a number for display as (XXX) XXX-XXXX, tolerating a
// leading country code 1. Unrecognized shapes are returned unchanged.
func Format(raw string) string {
	d := Normalize(raw)
	switch {
	case len(d) == 10:
		return "(" + d[:3] + ") " + d[3:6] + "-" + d[6:]
	case len(d) == 11 && d[0] == '1':
		return "+1 (" + d[1:4] + ") " + d[4:7] + "-" + d[7:]
	}
	return raw
}
