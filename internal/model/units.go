package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is a linear length unit.
type Unit string

const (
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
	UnitMeter      Unit = "m"
	UnitInch       Unit = "in"
	UnitFoot       Unit = "ft"
)

// unitMM holds the length of each unit in millimeters.
var unitMM = map[Unit]float64{
	UnitMillimeter: 1,
	UnitCentimeter: 10,
	UnitMeter:      1000,
	UnitInch:       25.4,
	UnitFoot:       304.8,
}

// unitAliases maps accepted suffixes to units (all lowercase).
var unitAliases = map[string]Unit{
	"mm": UnitMillimeter, "millimeter": UnitMillimeter, "millimeters": UnitMillimeter,
	"cm": UnitCentimeter, "centimeter": UnitCentimeter, "centimeters": UnitCentimeter,
	"m": UnitMeter, "meter": UnitMeter, "meters": UnitMeter,
	"in": UnitInch, "inch": UnitInch, "inches": UnitInch, "\"": UnitInch,
	"ft": UnitFoot, "foot": UnitFoot, "feet": UnitFoot, "'": UnitFoot,
}

// Valid reports whether u is a known unit.
func (u Unit) Valid() bool {
	_, ok := unitMM[u]
	return ok
}

// ParseLength parses a length such as "5", "2.5mm" or "1 in" and returns it
// expressed in docUnits. A bare number is taken to already be in docUnits.
func ParseLength(s string, docUnits Unit) (float64, error) {
	if !docUnits.Valid() {
		return 0, fmt.Errorf("unknown document unit %q", docUnits)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty length")
	}

	split := len(s)
	for i, r := range s {
		if (r < '0' || r > '9') && r != '.' && r != '-' && r != '+' && r != 'e' && r != 'E' {
			split = i
			break
		}
	}
	number := strings.TrimSpace(s[:split])
	suffix := strings.ToLower(strings.TrimSpace(s[split:]))

	v, err := strconv.ParseFloat(number, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid length %q", s)
	}
	if suffix == "" {
		return v, nil
	}
	u, ok := unitAliases[suffix]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q in %q", suffix, s)
	}
	return v * unitMM[u] / unitMM[docUnits], nil
}

// FormatLength renders v (in units) for display, e.g. "5 mm".
func FormatLength(v float64, units Unit) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + string(units)
}
