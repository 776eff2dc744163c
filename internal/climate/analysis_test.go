package climate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fptr(v float64) *float64 { return &v }

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAnalyzeHistoricalEmpty(t *testing.T) {
	got := AnalyzeHistorical(nil)
	assert.Equal(t, HistoricalAnalysis{}, got, "no records must yield the zero value, not an error or NaN")

	got = AnalyzeHistorical([]HistoricalRecord{})
	assert.Equal(t, HistoricalAnalysis{}, got)
}

func TestAnalyzeHistoricalNormals(t *testing.T) {
	records := []HistoricalRecord{
		{Date: day(2023, 1, 1), Temperature2M: fptr(10), Precipitation: fptr(2)},
		{Date: day(2023, 1, 2), Temperature2M: fptr(20)},
		{Date: day(2023, 1, 3), Temperature2M: fptr(30), Precipitation: fptr(4)},
	}

	got := AnalyzeHistorical(records)

	temp := got.ClimaticNormals.Temperature
	assert.Equal(t, 10.0, temp.Min)
	assert.Equal(t, 30.0, temp.Max)
	assert.InDelta(t, 20.0, temp.Avg, 1e-9)
	assert.Equal(t, 3, temp.ValidCount)

	precip := got.ClimaticNormals.Precipitation
	assert.Equal(t, 2, precip.ValidCount, "each field is filtered independently")
	assert.InDelta(t, 3.0, precip.Avg, 1e-9)

	assert.Equal(t, 0, got.ClimaticNormals.SolarRadiation.ValidCount)
	assert.Equal(t, 0.0, got.ClimaticNormals.SolarRadiation.Avg)
}

func TestAnalyzeHistoricalTrend(t *testing.T) {
	// Annual means rise by exactly 0.1 °C per year: trend is 1 °C/decade.
	var records []HistoricalRecord
	for i := 0; i < 5; i++ {
		records = append(records, HistoricalRecord{
			Date:          day(2019+i, 6, 1),
			Temperature2M: fptr(15 + 0.1*float64(i)),
		})
	}

	got := AnalyzeHistorical(records)
	require.Equal(t, 5, got.Trends.YearsAnalyzed)
	assert.InDelta(t, 1.0, got.Trends.TemperaturePerDecade, 1e-9)
}

func TestAnalyzeHistoricalTrendSingleYear(t *testing.T) {
	records := []HistoricalRecord{
		{Date: day(2023, 1, 1), Temperature2M: fptr(15)},
		{Date: day(2023, 6, 1), Temperature2M: fptr(25)},
	}

	got := AnalyzeHistorical(records)
	assert.Equal(t, 0.0, got.Trends.TemperaturePerDecade, "one year of data yields no trend")
	assert.Equal(t, 1, got.Trends.YearsAnalyzed)
}

func TestAnalyzeHistoricalTrendYearsCountOnlyTrendedFields(t *testing.T) {
	records := []HistoricalRecord{
		{Date: day(2022, 6, 1), Temperature2M: fptr(15)},
		{Date: day(2023, 6, 1), Temperature2M: fptr(15.1)},
		// 2024 carries only soil moisture, which feeds neither regression.
		{Date: day(2024, 6, 1), SoilMoisture: fptr(0.3)},
	}

	got := AnalyzeHistorical(records)
	assert.Equal(t, 2, got.Trends.YearsAnalyzed, "years without an annual mean for a trended field are not counted")
}

func TestAnalyzeHistoricalExtremes(t *testing.T) {
	records := []HistoricalRecord{
		{Date: day(2023, 5, 1), Temperature2M: fptr(42)},
		{Date: day(2023, 5, 2), Temperature2M: fptr(41), Precipitation: fptr(60)},
		{Date: day(2023, 12, 1), Temperature2M: fptr(-15)},
		{Date: day(2023, 7, 1), Temperature2M: fptr(25), Precipitation: fptr(10)},
	}

	got := AnalyzeHistorical(records)
	assert.Equal(t, 2, got.Extremes.HotDays)
	assert.Equal(t, 1, got.Extremes.ColdDays)
	assert.Equal(t, 1, got.Extremes.HeavyRainDays)
}

func TestLeastSquaresSlope(t *testing.T) {
	slope, ok := leastSquaresSlope([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.True(t, ok)
	assert.InDelta(t, 2.0, slope, 1e-9)

	_, ok = leastSquaresSlope([]float64{1}, []float64{2})
	assert.False(t, ok)

	_, ok = leastSquaresSlope(nil, nil)
	assert.False(t, ok)
}
