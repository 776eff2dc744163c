package climate

import (
	"math"
	"sort"
	"time"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/common"
)

// Climatological fallbacks used when the model does not supply a layer.
const (
	fallbackSurfaceMoisture    = 0.25
	fallbackRootMoisture       = 0.30
	fallbackDeepMoisture       = 0.35
	fallbackEvapotranspiration = 3.5 // mm/day
)

// SynthesizeSeasonal folds raw daily forecast records into at most six
// monthly outlook entries plus a qualitative summary. Empty input yields an
// empty outlook with a neutral summary.
func SynthesizeSeasonal(coord Coordinate, records []SeasonalForecastRecord) SeasonalForecast {
	if len(records) == 0 {
		return SeasonalForecast{
			MonthlyOutlook: []MonthlyOutlook{},
			Summary: SeasonalSummary{
				DominantPattern:          "no seasonal guidance available",
				KeyFeatures:              []string{},
				AgriculturalImplications: []string{},
			},
		}
	}

	type monthAgg struct {
		when                   time.Time
		tempSum, tempN         float64
		precipSum, precipN     float64
		moistureSum, moistureN float64
		confSum, confN         float64
	}
	months := make(map[string]*monthAgg)

	for _, r := range records {
		key := r.ValidDate.Format("2006-01")
		agg, ok := months[key]
		if !ok {
			agg = &monthAgg{when: time.Date(r.ValidDate.Year(), r.ValidDate.Month(), 1, 0, 0, 0, 0, time.UTC)}
			months[key] = agg
		}
		if r.TemperatureAnomaly != nil {
			agg.tempSum += *r.TemperatureAnomaly
			agg.tempN++
		}
		if r.PrecipitationAnomaly != nil {
			agg.precipSum += *r.PrecipitationAnomaly
			agg.precipN++
		}
		if r.SoilMoisture0to7cm != nil {
			agg.moistureSum += *r.SoilMoisture0to7cm
			agg.moistureN++
		}
		agg.confSum += r.Confidence
		agg.confN++
	}

	keys := make([]string, 0, len(months))
	for k := range months {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 6 {
		keys = keys[:6]
	}

	outlook := make([]MonthlyOutlook, 0, len(keys))
	for _, k := range keys {
		agg := months[k]

		m := MonthlyOutlook{
			Month:      k,
			Confidence: agg.confSum / agg.confN,
			SoilMoisture: SoilMoistureProfile{
				Surface: fallbackSurfaceMoisture,
				Root:    fallbackRootMoisture,
				Deep:    fallbackDeepMoisture,
			},
			Evapotranspiration: fallbackEvapotranspiration,
		}

		if agg.tempN > 0 {
			m.TemperatureAnomaly = agg.tempSum / agg.tempN
		}
		if agg.precipN > 0 {
			m.PrecipitationAnomaly = agg.precipSum / agg.precipN
		}
		if agg.moistureN > 0 {
			m.SoilMoisture.Surface = agg.moistureSum / agg.moistureN
		}

		// Expected value = latitude-band monthly baseline + anomaly.
		m.ExpectedTemperature = baselineTemperature(coord.Latitude, agg.when.Month()) + m.TemperatureAnomaly
		m.ExpectedPrecipitation = baselinePrecipitation(coord.Latitude, agg.when.Month()) + m.PrecipitationAnomaly
		if m.ExpectedPrecipitation < 0 {
			m.ExpectedPrecipitation = 0
		}

		outlook = append(outlook, m)
	}

	return SeasonalForecast{
		MonthlyOutlook: outlook,
		Summary:        summarizeSeason(outlook),
	}
}

// baselineTemperature is a coarse latitude-band monthly climatology: an
// annual-mean band value plus a hemisphere-aware seasonal swing. A heuristic
// stand-in for true climatological normals, not a dataset lookup.
func baselineTemperature(lat float64, month time.Month) float64 {
	absLat := math.Abs(lat)

	var base, amplitude float64
	switch {
	case absLat < 23.5:
		base, amplitude = 26, 3
	case absLat < 35:
		base, amplitude = 20, 8
	case absLat < 50:
		base, amplitude = 12, 12
	default:
		base, amplitude = 2, 15
	}

	// Peak in July for the northern hemisphere, January for the southern.
	phase := float64(month) - 7
	if lat < 0 {
		phase = float64(month) - 1
	}
	return base + amplitude*math.Cos(phase*math.Pi/6)
}

// baselinePrecipitation mirrors baselineTemperature for daily rainfall.
func baselinePrecipitation(lat float64, month time.Month) float64 {
	absLat := math.Abs(lat)

	var base, amplitude float64
	switch {
	case absLat < 23.5:
		base, amplitude = 5, 3 // monsoon-dominated swing
	case absLat < 35:
		base, amplitude = 3, 1.5
	case absLat < 50:
		base, amplitude = 2.5, 1
	default:
		base, amplitude = 1.5, 0.5
	}

	phase := float64(month) - 7
	if lat < 0 {
		phase = float64(month) - 1
	}
	p := base + amplitude*math.Cos(phase*math.Pi/6)
	if p < 0 {
		p = 0
	}
	return p
}

// summarizeSeason reads the aggregate anomaly signs and magnitudes into a
// qualitative summary via fixed thresholds.
func summarizeSeason(outlook []MonthlyOutlook) SeasonalSummary {
	var tempSum, precipSum float64
	for _, m := range outlook {
		tempSum += m.TemperatureAnomaly
		precipSum += m.PrecipitationAnomaly
	}
	n := float64(len(outlook))
	meanTemp := tempSum / n
	meanPrecip := precipSum / n

	summary := SeasonalSummary{
		KeyFeatures:              []string{},
		AgriculturalImplications: []string{},
	}

	switch {
	case meanTemp > 1 && meanPrecip < -0.5:
		summary.DominantPattern = "warmer and drier than normal"
	case meanTemp > 1:
		summary.DominantPattern = "warmer than normal"
	case meanTemp < -1 && meanPrecip > 0.5:
		summary.DominantPattern = "cooler and wetter than normal"
	case meanTemp < -1:
		summary.DominantPattern = "cooler than normal"
	case meanPrecip > 0.5:
		summary.DominantPattern = "wetter than normal"
	case meanPrecip < -0.5:
		summary.DominantPattern = "drier than normal"
	default:
		summary.DominantPattern = "near-normal conditions"
	}

	if meanTemp > 2 {
		summary.KeyFeatures = append(summary.KeyFeatures, "sustained heat anomaly across the season")
		summary.AgriculturalImplications = append(summary.AgriculturalImplications, "heat stress likely during flowering stages")
	}
	if meanTemp < -2 {
		summary.KeyFeatures = append(summary.KeyFeatures, "sustained cold anomaly across the season")
		summary.AgriculturalImplications = append(summary.AgriculturalImplications, "delayed germination and shortened growing window")
	}
	if meanPrecip < -1 {
		summary.KeyFeatures = append(summary.KeyFeatures, "pronounced rainfall deficit")
		summary.AgriculturalImplications = append(summary.AgriculturalImplications, "supplemental irrigation will be required")
	}
	if meanPrecip > 1 {
		summary.KeyFeatures = append(summary.KeyFeatures, "rainfall surplus")
		summary.AgriculturalImplications = append(summary.AgriculturalImplications, "waterlogging and fungal pressure possible")
	}

	if common.HasAny(summary.DominantPattern, "near-normal") && len(summary.KeyFeatures) == 0 {
		summary.KeyFeatures = append(summary.KeyFeatures, "no strong anomaly signal")
		summary.AgriculturalImplications = append(summary.AgriculturalImplications, "plan around typical seasonal conditions")
	}

	return summary
}
