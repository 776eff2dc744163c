package climate

// AnalyzeHistorical computes climatic normals, decadal trends, and extreme
// event counts from a validated series. Each field is filtered independently;
// a field with zero valid values yields an all-zero AnnualStats, never an
// error or a division by zero.
func AnalyzeHistorical(records []HistoricalRecord) HistoricalAnalysis {
	var out HistoricalAnalysis
	if len(records) == 0 {
		return out
	}

	out.ClimaticNormals.Temperature = annualStats(records, func(r HistoricalRecord) *float64 { return r.Temperature2M })
	out.ClimaticNormals.Precipitation = annualStats(records, func(r HistoricalRecord) *float64 { return r.Precipitation })
	out.ClimaticNormals.SolarRadiation = annualStats(records, func(r HistoricalRecord) *float64 { return r.SolarRadiation })

	out.Trends = computeTrends(records)
	out.Extremes = countExtremes(records)

	return out
}

func annualStats(records []HistoricalRecord, field func(HistoricalRecord) *float64) AnnualStats {
	var stats AnnualStats
	var sum float64

	for _, r := range records {
		v := field(r)
		if v == nil {
			continue
		}
		if stats.ValidCount == 0 {
			stats.Min = *v
			stats.Max = *v
		} else {
			if *v < stats.Min {
				stats.Min = *v
			}
			if *v > stats.Max {
				stats.Max = *v
			}
		}
		sum += *v
		stats.ValidCount++
	}

	if stats.ValidCount > 0 {
		stats.Avg = sum / float64(stats.ValidCount)
	}
	return stats
}

// computeTrends estimates per-decade linear trends via ordinary least squares
// over annual means. Fewer than two years of data yields zeros.
func computeTrends(records []HistoricalRecord) ClimaticTrends {
	type yearAgg struct {
		tempSum, tempN     float64
		precipSum, precipN float64
	}
	years := make(map[int]*yearAgg)

	for _, r := range records {
		y := r.Date.Year()
		agg, ok := years[y]
		if !ok {
			agg = &yearAgg{}
			years[y] = agg
		}
		if r.Temperature2M != nil {
			agg.tempSum += *r.Temperature2M
			agg.tempN++
		}
		if r.Precipitation != nil {
			agg.precipSum += *r.Precipitation
			agg.precipN++
		}
	}

	var (
		tempX, tempY     []float64
		precipX, precipY []float64
		trendYears       int
	)
	for y, agg := range years {
		if agg.tempN > 0 {
			tempX = append(tempX, float64(y))
			tempY = append(tempY, agg.tempSum/agg.tempN)
		}
		if agg.precipN > 0 {
			precipX = append(precipX, float64(y))
			precipY = append(precipY, agg.precipSum/agg.precipN)
		}
		// Years carrying only untrended fields contribute to neither
		// regression and are not counted.
		if agg.tempN > 0 || agg.precipN > 0 {
			trendYears++
		}
	}

	trends := ClimaticTrends{YearsAnalyzed: trendYears}
	if slope, ok := leastSquaresSlope(tempX, tempY); ok {
		trends.TemperaturePerDecade = slope * 10
	}
	if slope, ok := leastSquaresSlope(precipX, precipY); ok {
		trends.PrecipitationPerDecade = slope * 10
	}
	return trends
}

// leastSquaresSlope fits y = a + b*x and returns b. At least two distinct x
// values are required.
func leastSquaresSlope(xs, ys []float64) (float64, bool) {
	n := float64(len(xs))
	if len(xs) < 2 || len(xs) != len(ys) {
		return 0, false
	}

	var sumX, sumY, sumXY, sumXX float64
	for i := range xs {
		sumX += xs[i]
		sumY += ys[i]
		sumXY += xs[i] * ys[i]
		sumXX += xs[i] * xs[i]
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return 0, false
	}
	return (n*sumXY - sumX*sumY) / denom, true
}

// Extreme-event thresholds over the validated series.
const (
	hotDayThreshold       = 40.0  // °C
	coldDayThreshold      = -10.0 // °C
	heavyRainDayThreshold = 50.0  // mm/day
)

func countExtremes(records []HistoricalRecord) ExtremeEvents {
	var ex ExtremeEvents
	for _, r := range records {
		if r.Temperature2M != nil {
			if *r.Temperature2M > hotDayThreshold {
				ex.HotDays++
			}
			if *r.Temperature2M < coldDayThreshold {
				ex.ColdDays++
			}
		}
		if r.Precipitation != nil && *r.Precipitation > heavyRainDayThreshold {
			ex.HeavyRainDays++
		}
	}
	return ex
}
