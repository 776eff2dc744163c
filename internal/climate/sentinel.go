package climate

import "math"

// FieldKind names a validated observation field, selecting its plausible range.
type FieldKind int

const (
	FieldTemperature FieldKind = iota
	FieldPrecipitation
	FieldSoilMoisture
	FieldSolarRadiation
	FieldHumidity
	FieldPressure
	FieldWindSpeed
	FieldTemperatureAnomaly
	FieldPrecipitationAnomaly
)

// powerSentinel is the missing-data constant the historical provider emits in
// place of a null. Any value at or beyond this magnitude is treated as absent.
const powerSentinel = -999.0

// fieldRange is the physically plausible interval per field; values outside
// it are discarded the same way sentinels are.
var fieldRanges = map[FieldKind][2]float64{
	FieldTemperature:    {-50, 60},   // °C
	FieldPrecipitation:  {0, 500},    // mm/day
	FieldSoilMoisture:   {0, 1},      // fraction
	FieldSolarRadiation: {0, 50},     // MJ/m²/day
	FieldHumidity:       {0, 100},    // %
	FieldPressure:       {800, 1100}, // hPa
	FieldWindSpeed:      {0, 120},    // m/s

	// Anomalies are deviations from a normal and may be negative.
	FieldTemperatureAnomaly:   {-30, 30},   // °C
	FieldPrecipitationAnomaly: {-500, 500}, // mm/day
}

// ValidateField screens one raw provider value. It returns (v, true) when the
// value is finite, not a sentinel, and inside the field's plausible range;
// (0, false) otherwise. Idempotent: a value that passed once always passes.
func ValidateField(kind FieldKind, v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if v <= powerSentinel {
		return 0, false
	}
	r, ok := fieldRanges[kind]
	if !ok {
		return 0, false
	}
	if v < r[0] || v > r[1] {
		return 0, false
	}
	return v, true
}

// ValidField is ValidateField for record construction: it returns a pointer
// to the value when it passes, nil otherwise.
func ValidField(kind FieldKind, v float64) *float64 {
	val, ok := ValidateField(kind, v)
	if !ok {
		return nil
	}
	return &val
}
