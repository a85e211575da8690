// Package format renders numbers and times for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// DefaultPrecision is the number of decimals kept by Number.
const DefaultPrecision = 10

// Number formats x for display. Very small and very large magnitudes use
// exponent notation with precision fraction digits; everything else is
// rounded to precision decimals with trailing zeros dropped.
func Number(x float64, precision int) string {
	if math.IsNaN(x) {
		return "NaN"
	}
	if math.IsInf(x, 1) {
		return "Infinity"
	}
	if math.IsInf(x, -1) {
		return "-Infinity"
	}

	abs := math.Abs(x)
	if (abs < 1e-10 && x != 0) || abs > 1e10 {
		return strconv.FormatFloat(x, 'e', precision, 64)
	}

	rounded, err := strconv.ParseFloat(strconv.FormatFloat(x, 'f', precision, 64), 64)
	if err != nil {
		rounded = x
	}
	if rounded == 0 {
		// Avoid "-0".
		return "0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// Default formats x with DefaultPrecision.
func Default(x float64) string {
	return Number(x, DefaultPrecision)
}

// ValidNumber reports whether s holds a finite number.
func ValidNumber(s string) bool {
	_, ok := ParseNumber(s)
	return ok
}

// ParseNumber parses s as a finite number.
func ParseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// Timestamp renders t in local time as day/month/year hour:minute:second.
func Timestamp(t time.Time) string {
	return t.Local().Format("02/01/2006 15:04:05")
}

// Relative renders t relative to now, e.g. "3 minutes ago".
func Relative(t time.Time) string {
	return humanize.Time(t)
}

// Stamp is the history timestamp: the absolute time followed by its age.
// Entries imported without a timestamp show as unknown.
func Stamp(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return fmt.Sprintf("%s (%s)", Timestamp(t), Relative(t))
}
