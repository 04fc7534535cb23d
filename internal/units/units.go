// Package units provides shared constants and conversions for the speed and
// height units the reports can be printed in. Records always carry SI values
// (m/s, cm); conversion happens only at output.
package units

import "strings"

// Speed unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// Height unit constants
const (
	HeightCM = "cm"
	HeightIn = "in"
)

// ValidUnits contains all valid speed unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// IsValid checks if the given unit is in the list of valid speed units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return strings.Join(ValidUnits, ", ")
}

// ConvertSpeed converts a speed from meters per second to the target units.
// Unknown units are left in m/s.
func ConvertSpeed(speedMPS float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPS * 2.2369362920544
	case KMPH, KPH:
		return speedMPS * 3.6
	default:
		return speedMPS
	}
}

// SpeedLabel is the display suffix for a speed unit.
func SpeedLabel(unit string) string {
	switch unit {
	case MPH:
		return "mph"
	case KMPH, KPH:
		return "km/h"
	default:
		return "m/s"
	}
}

// HeightUnitsFor picks the height unit that pairs with a speed unit:
// inches for mph, centimetres otherwise.
func HeightUnitsFor(speedUnits string) string {
	if speedUnits == MPH {
		return HeightIn
	}
	return HeightCM
}

// ConvertHeight converts a height in centimetres to the target units.
func ConvertHeight(heightCM float64, targetUnits string) float64 {
	if targetUnits == HeightIn {
		return heightCM / 2.54
	}
	return heightCM
}

// HeightLabel is the display suffix for a height unit.
func HeightLabel(unit string) string {
	if unit == HeightIn {
		return "in"
	}
	return "cm"
}
