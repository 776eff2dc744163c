package climate

import "math"

// AnalyzeAgriculture combines historical normals and the seasonal outlook
// with a latitude-band soil heuristic. It never fails: with no usable input
// it returns defensible defaults so guidance degrades instead of vanishing.
func AnalyzeAgriculture(coord Coordinate, hist HistoricalAnalysis, seasonal SeasonalForecast) AgriculturalAnalysis {
	out := AgriculturalAnalysis{
		SoilType:    estimateSoilType(coord.Latitude),
		RiskFactors: []string{},
	}

	moisture := soilMoistureLevel(hist, seasonal)
	out.SoilConditions = classifySoil(out.SoilType, moisture)
	out.SuitabilityScore = suitabilityScore(hist, moisture)
	out.IrrigationNeed = irrigationNeed(hist, seasonal)
	out.RiskLevel, out.RiskFactors = assessRisk(hist, seasonal)

	return out
}

// estimateSoilType buckets soil purely by latitude band. A documented coarse
// heuristic, kept as-is: downstream scoring assumes exactly these categories.
func estimateSoilType(lat float64) string {
	switch absLat := math.Abs(lat); {
	case absLat < 23.5:
		return "lateritic"
	case absLat < 35:
		return "alluvial"
	case absLat < 50:
		return "loamy"
	default:
		return "podzolic"
	}
}

// soilMoistureLevel prefers the observed historical mean, then the seasonal
// surface estimate, then the climatological fallback.
func soilMoistureLevel(hist HistoricalAnalysis, seasonal SeasonalForecast) float64 {
	// Soil moisture has no dedicated normals block; approximate from
	// precipitation adequacy when records exist.
	if hist.ClimaticNormals.Precipitation.ValidCount > 0 {
		// 4 mm/day sustains roughly field-capacity moisture in most soils.
		level := hist.ClimaticNormals.Precipitation.Avg / 4.0 * 0.30
		if level > 0.45 {
			level = 0.45
		}
		if level < 0.05 {
			level = 0.05
		}
		return level
	}
	if len(seasonal.MonthlyOutlook) > 0 {
		return seasonal.MonthlyOutlook[0].SoilMoisture.Surface
	}
	return fallbackSurfaceMoisture
}

func classifySoil(soilType string, moisture float64) SoilConditions {
	sc := SoilConditions{MoistureLevel: moisture}

	switch {
	case moisture < 0.15:
		sc.MoistureStatus = "dry"
	case moisture > 0.40:
		sc.MoistureStatus = "saturated"
	default:
		sc.MoistureStatus = "adequate"
	}

	switch soilType {
	case "lateritic":
		sc.WaterRetention = "low"
		sc.DrainageQuality = "excessive"
	case "alluvial":
		sc.WaterRetention = "high"
		sc.DrainageQuality = "moderate"
	case "loamy":
		sc.WaterRetention = "moderate"
		sc.DrainageQuality = "good"
	default: // podzolic
		sc.WaterRetention = "low"
		sc.DrainageQuality = "poor"
	}

	return sc
}

// suitabilityScore rates overall growing conditions 0..100. With no
// historical input the score settles on a neutral 50.
func suitabilityScore(hist HistoricalAnalysis, moisture float64) float64 {
	score := 50.0

	temp := hist.ClimaticNormals.Temperature
	if temp.ValidCount > 0 {
		// 15-30 °C annual mean is the productive band.
		switch {
		case temp.Avg >= 15 && temp.Avg <= 30:
			score += 20
		case temp.Avg >= 10 && temp.Avg < 15, temp.Avg > 30 && temp.Avg <= 35:
			score += 10
		default:
			score -= 10
		}
	}

	precip := hist.ClimaticNormals.Precipitation
	if precip.ValidCount > 0 {
		switch {
		case precip.Avg >= 2 && precip.Avg <= 8:
			score += 15
		case precip.Avg > 0.5 && precip.Avg < 2:
			score += 5
		default:
			score -= 5
		}
	}

	switch {
	case moisture >= 0.20 && moisture <= 0.40:
		score += 15
	case moisture >= 0.10:
		score += 5
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func irrigationNeed(hist HistoricalAnalysis, seasonal SeasonalForecast) string {
	precip := hist.ClimaticNormals.Precipitation

	var anomaly float64
	for _, m := range seasonal.MonthlyOutlook {
		anomaly += m.PrecipitationAnomaly
	}
	if len(seasonal.MonthlyOutlook) > 0 {
		anomaly /= float64(len(seasonal.MonthlyOutlook))
	}

	switch {
	case precip.ValidCount == 0 && len(seasonal.MonthlyOutlook) == 0:
		return "medium"
	case precip.ValidCount > 0 && precip.Avg < 1.5, anomaly < -1:
		return "high"
	case precip.ValidCount > 0 && precip.Avg > 5 && anomaly >= 0:
		return "low"
	default:
		return "medium"
	}
}

func assessRisk(hist HistoricalAnalysis, seasonal SeasonalForecast) (string, []string) {
	factors := []string{}
	score := 0

	if hist.Extremes.HotDays > 10 {
		score += 2
		factors = append(factors, "frequent extreme-heat days in the historical record")
	}
	if hist.Extremes.ColdDays > 10 {
		score++
		factors = append(factors, "recurring hard-frost days")
	}
	if hist.Extremes.HeavyRainDays > 5 {
		score++
		factors = append(factors, "recurring heavy-rain events")
	}

	var tempAnomaly, precipAnomaly float64
	for _, m := range seasonal.MonthlyOutlook {
		tempAnomaly += m.TemperatureAnomaly
		precipAnomaly += m.PrecipitationAnomaly
	}
	if n := len(seasonal.MonthlyOutlook); n > 0 {
		tempAnomaly /= float64(n)
		precipAnomaly /= float64(n)
	}

	if tempAnomaly > 2 {
		score += 2
		factors = append(factors, "strong warm anomaly forecast for the coming season")
	}
	if precipAnomaly < -1 {
		score += 2
		factors = append(factors, "seasonal rainfall deficit forecast")
	}
	if precipAnomaly > 2 {
		score++
		factors = append(factors, "seasonal rainfall surplus forecast")
	}

	switch {
	case score >= 4:
		return "high", factors
	case score >= 2:
		return "medium", factors
	default:
		return "low", factors
	}
}

// GenerateInsights derives findings, recommendations, and a sustainability
// score from the combined analysis. Purely rule-based and idempotent: the
// same analysis always yields the same insights.
func GenerateInsights(a AgriculturalAnalysis, hist HistoricalAnalysis, seasonal SeasonalForecast) Insights {
	ins := Insights{
		Findings:              []string{},
		Recommendations:       []string{},
		SustainabilityFactors: []string{},
	}

	// Findings.
	if hist.ClimaticNormals.Temperature.ValidCount > 0 {
		switch {
		case hist.ClimaticNormals.Temperature.Avg > 28:
			ins.Findings = append(ins.Findings, "the location runs hot year-round; heat-tolerant cultivars perform best")
		case hist.ClimaticNormals.Temperature.Avg < 10:
			ins.Findings = append(ins.Findings, "short thermal growing season; cold-hardy crops are the safer choice")
		default:
			ins.Findings = append(ins.Findings, "temperature regime supports a broad range of field crops")
		}
	} else {
		ins.Findings = append(ins.Findings, "historical climate record unavailable; assessment leans on seasonal guidance only")
	}

	if hist.Trends.TemperaturePerDecade > 0.3 {
		ins.Findings = append(ins.Findings, "warming trend detected in the local record")
	}
	if seasonal.Summary.DominantPattern != "" {
		ins.Findings = append(ins.Findings, "seasonal outlook: "+seasonal.Summary.DominantPattern)
	}

	// Recommendations.
	switch a.IrrigationNeed {
	case "high":
		ins.Recommendations = append(ins.Recommendations, "invest in drip irrigation and soil-moisture monitoring before planting")
	case "medium":
		ins.Recommendations = append(ins.Recommendations, "schedule irrigation around forecast dry spells")
	default:
		ins.Recommendations = append(ins.Recommendations, "rainfall should cover crop water demand in a typical season")
	}

	switch a.RiskLevel {
	case "high":
		ins.Recommendations = append(ins.Recommendations, "stagger sowing dates and diversify varieties to spread weather risk")
	case "medium":
		ins.Recommendations = append(ins.Recommendations, "keep contingency seed stock for re-sowing after extreme events")
	}

	if a.SoilConditions.WaterRetention == "low" {
		ins.Recommendations = append(ins.Recommendations, "add organic matter or mulch to improve water retention")
	}

	// Sustainability.
	score := 50.0
	if a.IrrigationNeed == "low" {
		score += 15
		ins.SustainabilityFactors = append(ins.SustainabilityFactors, "low irrigation dependence")
	}
	if a.RiskLevel == "low" {
		score += 15
		ins.SustainabilityFactors = append(ins.SustainabilityFactors, "low weather-risk exposure")
	}
	if a.SuitabilityScore >= 70 {
		score += 10
		ins.SustainabilityFactors = append(ins.SustainabilityFactors, "favourable baseline growing conditions")
	}
	if hist.Trends.TemperaturePerDecade > 0.5 {
		score -= 10
		ins.SustainabilityFactors = append(ins.SustainabilityFactors, "rapid local warming erodes long-term viability")
	}
	if a.SoilConditions.MoistureStatus == "dry" {
		score -= 10
		ins.SustainabilityFactors = append(ins.SustainabilityFactors, "chronic soil-moisture deficit")
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	ins.SustainabilityScore = score

	return ins
}
