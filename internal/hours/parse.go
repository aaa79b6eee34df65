// Package hours parses tabell day cells into numeric hour counts.
package hours

import (
	"strconv"
	"strings"
)

// ParseHours normalizes a tabell cell to a worked-hours count.
//
// Tabell cells carry either numeric hours or domain codes (DOF, ALP, TER,
// ...) meaning "not a worked day" for reconciliation purposes. Unknown text
// is treated as zero on purpose — the diff column is what surfaces the
// discrepancy, not this parser.
func ParseHours(cell string) float64 {
	val := strings.TrimSpace(cell)
	if val == "" || val == "-" {
		return 0
	}
	// Half-merged cells from shifts crossing a cell boundary: "10(" -> "10".
	val = strings.TrimRight(val, "(")
	val = strings.ReplaceAll(val, ",", ".")
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return f
}
