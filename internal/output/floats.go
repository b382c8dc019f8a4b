package output

import (
	"math"
	"strconv"
	"strings"
)

// RoundFloat rounds a float to max 6 decimal places
func RoundFloat(f float64) float64 {
	multiplier := math.Pow(10, 6)
	return math.Round(f*multiplier) / multiplier
}

// FormatFloat formats a float rounded to 6 decimals with no trailing zeros.
// Used for summaries where sub-micro differences are noise.
func FormatFloat(f float64) string {
	str := strconv.FormatFloat(RoundFloat(f), 'f', 6, 64)
	str = strings.TrimRight(str, "0")
	str = strings.TrimRight(str, ".")
	if str == "-0" {
		return "0"
	}
	return str
}

// FormatExact formats a float with the fewest digits that round-trip.
// Geometry renderings use it so that values which compare unequal also print unequal.
func FormatExact(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
