// Package geo holds the pure geographic primitives of the service: coordinate
// parsing and validation, and the Haversine distance.
package geo

import (
	"math"
	"strconv"
	"strings"
)

// Coordinate bounds in degrees, inclusive.
const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// IsValidLatitude reports whether value is a finite number within [-90, 90].
func IsValidLatitude(value float64) bool {
	return inRange(value, MinLatitude, MaxLatitude)
}

// IsValidLongitude reports whether value is a finite number within [-180, 180].
func IsValidLongitude(value float64) bool {
	return inRange(value, MinLongitude, MaxLongitude)
}

func inRange(value, lower, upper float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	return value >= lower && value <= upper
}

// ParseCoordinate parses a decimal number from raw query text.
// Absent, unparsable or hexadecimal input yields NaN, which never passes validation.
func ParseCoordinate(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || isHex(raw) {
		return math.NaN()
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return math.NaN()
	}
	return value
}

func isHex(raw string) bool {
	unsigned := strings.TrimLeft(raw, "+-")
	return strings.HasPrefix(unsigned, "0x") || strings.HasPrefix(unsigned, "0X")
}
