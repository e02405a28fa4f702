package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// numberRegexp captures the first numeric value, thousands separators included.
var numberRegexp = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?|\.\d+`)

// ParseNumber extracts the first number from a display string.
// Examples:
//
//	"$1,250/mo"  → 1250
//	"2.5 baths"  → 2.5
//	"850 sq ft"  → 850
//	"Studio"     → false
func ParseNumber(raw string) (float64, bool) {
	match := numberRegexp.FindString(raw)
	if match == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(match, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
