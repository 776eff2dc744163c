package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seasonalRecords(start time.Time, days int, tempAnom, precipAnom float64) []SeasonalForecastRecord {
	var out []SeasonalForecastRecord
	for i := 0; i < days; i++ {
		out = append(out, SeasonalForecastRecord{
			ForecastDate:         start,
			ValidDate:            start.AddDate(0, 0, i),
			TemperatureAnomaly:   fptr(tempAnom),
			PrecipitationAnomaly: fptr(precipAnom),
			Confidence:           80,
		})
	}
	return out
}

func TestSynthesizeSeasonalEmpty(t *testing.T) {
	got := SynthesizeSeasonal(Coordinate{Latitude: 20, Longitude: 78}, nil)

	assert.Empty(t, got.MonthlyOutlook)
	assert.NotNil(t, got.MonthlyOutlook, "outlook must be an empty slice, not nil")
	assert.Equal(t, "no seasonal guidance available", got.Summary.DominantPattern)
}

func TestSynthesizeSeasonalSixMonths(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	// ~7 months of daily records; outlook must still cap at 6.
	records := seasonalRecords(start, 210, 0.5, 0.2)

	got := SynthesizeSeasonal(Coordinate{Latitude: 20.5937, Longitude: 78.9629}, records)

	require.Len(t, got.MonthlyOutlook, 6)
	assert.Equal(t, "2026-03", got.MonthlyOutlook[0].Month)
	assert.Equal(t, "2026-08", got.MonthlyOutlook[5].Month)

	for _, m := range got.MonthlyOutlook {
		assert.InDelta(t, 0.5, m.TemperatureAnomaly, 1e-9)
		assert.InDelta(t, m.ExpectedTemperature-0.5, baselineTemperature(20.5937, monthOf(m.Month)), 1e-9)
		assert.Equal(t, 80.0, m.Confidence)
	}
}

func monthOf(key string) time.Month {
	ts, _ := time.Parse("2006-01", key)
	return ts.Month()
}

func TestSynthesizeSeasonalFallbacks(t *testing.T) {
	start := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	records := []SeasonalForecastRecord{
		{ForecastDate: start, ValidDate: start, SoilMoisture0to7cm: fptr(0.18), Confidence: 70},
		{ForecastDate: start, ValidDate: start.AddDate(0, 1, 0), TemperatureAnomaly: fptr(1), Confidence: 70},
	}

	got := SynthesizeSeasonal(Coordinate{Latitude: 45, Longitude: 5}, records)
	require.Len(t, got.MonthlyOutlook, 2)

	// First month has a measured surface value; root/deep use fallbacks.
	first := got.MonthlyOutlook[0]
	assert.InDelta(t, 0.18, first.SoilMoisture.Surface, 1e-9)
	assert.Equal(t, fallbackRootMoisture, first.SoilMoisture.Root)
	assert.Equal(t, fallbackDeepMoisture, first.SoilMoisture.Deep)
	assert.Equal(t, fallbackEvapotranspiration, first.Evapotranspiration)

	// Second month has no moisture reading at all.
	second := got.MonthlyOutlook[1]
	assert.Equal(t, fallbackSurfaceMoisture, second.SoilMoisture.Surface)
}

func TestSynthesizeSeasonalNegativePrecipClamped(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := seasonalRecords(start, 30, 0, -50)

	got := SynthesizeSeasonal(Coordinate{Latitude: 60, Longitude: 10}, records)
	require.NotEmpty(t, got.MonthlyOutlook)
	assert.GreaterOrEqual(t, got.MonthlyOutlook[0].ExpectedPrecipitation, 0.0)
}

func TestSummarizeSeasonPatterns(t *testing.T) {
	tests := []struct {
		name       string
		tempAnom   float64
		precipAnom float64
		pattern    string
	}{
		{"hot dry", 2.5, -1.5, "warmer and drier than normal"},
		{"hot", 1.5, 0, "warmer than normal"},
		{"cold wet", -2, 1, "cooler and wetter than normal"},
		{"wet", 0, 1, "wetter than normal"},
		{"neutral", 0.2, 0.1, "near-normal conditions"},
	}

	start := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SynthesizeSeasonal(Coordinate{Latitude: 30}, seasonalRecords(start, 60, tt.tempAnom, tt.precipAnom))
			assert.Equal(t, tt.pattern, got.Summary.DominantPattern)
		})
	}
}

func TestSummarizeSeasonIdempotent(t *testing.T) {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	records := seasonalRecords(start, 90, 2.4, -1.2)
	coord := Coordinate{Latitude: 10, Longitude: 20}

	a := SynthesizeSeasonal(coord, records)
	b := SynthesizeSeasonal(coord, records)
	assert.Equal(t, a, b)
}
