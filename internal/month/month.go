// Package month is a bidirectional, case-insensitive lookup between English
// month names (as they appear in the tabell's month column) and calendar
// month numbers. It replaces the MONTH_MAP dict duplicated with slightly
// different casing conventions across the original reader and comparator.
package month

import (
	"strings"
	"time"
)

// Number returns the 1..12 month number for a month name, matched
// case-insensitively, and whether the name was recognized.
func Number(name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m := time.January; m <= time.December; m++ {
		if strings.ToLower(m.String()) == name {
			return int(m), true
		}
	}
	return 0, false
}

// Name returns the capitalized English month name for a 1..12 month
// number, and whether the number was valid.
func Name(number int) (string, bool) {
	if number < 1 || number > 12 {
		return "", false
	}
	return time.Month(number).String(), true
}
