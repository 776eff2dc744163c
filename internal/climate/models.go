package climate

import (
	"fmt"
	"math"
	"time"
)

// Coordinate identifies the point all providers are queried for.
// Latitude/Longitude are rounded before being used as cache keys or
// query parameters so that near-identical requests share results.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Rounded returns the coordinate rounded to 4 decimal places.
func (c Coordinate) Rounded() Coordinate {
	return Coordinate{
		Latitude:  math.Round(c.Latitude*10000) / 10000,
		Longitude: math.Round(c.Longitude*10000) / 10000,
	}
}

// Key returns a canonical string key for indexing this coordinate in caches.
func (c Coordinate) Key() string {
	r := c.Rounded()
	return fmt.Sprintf("%.4f:%.4f", r.Latitude, r.Longitude)
}

// Valid reports whether the coordinate lies within geographic bounds.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

// HistoricalRecord is one validated daily observation from the historical
// provider. Numeric fields are pointers: nil means the source value was
// absent, a sentinel, or physically implausible. A record is only kept when
// at least one field survived validation.
type HistoricalRecord struct {
	Date           time.Time `json:"date"`
	Temperature2M  *float64  `json:"temperature2m,omitempty"`  // °C
	Precipitation  *float64  `json:"precipitation,omitempty"`  // mm/day
	SoilMoisture   *float64  `json:"soilMoisture,omitempty"`   // fraction 0..1
	SolarRadiation *float64  `json:"solarRadiation,omitempty"` // MJ/m²/day
}

// HasData reports whether any field survived validation.
func (r HistoricalRecord) HasData() bool {
	return r.Temperature2M != nil || r.Precipitation != nil ||
		r.SoilMoisture != nil || r.SolarRadiation != nil
}

// SeasonalForecastRecord is one time step of the probabilistic seasonal
// forecast. Anomaly fields may be nil when the model run does not cover them;
// the record is still kept if some other field is present.
type SeasonalForecastRecord struct {
	ForecastDate         time.Time `json:"forecastDate"`
	ValidDate            time.Time `json:"validDate"`
	TemperatureAnomaly   *float64  `json:"temperatureAnomaly,omitempty"`   // °C
	PrecipitationAnomaly *float64  `json:"precipitationAnomaly,omitempty"` // mm/day
	SoilMoisture0to7cm   *float64  `json:"soilMoisture0to7cm,omitempty"`   // fraction
	Confidence           float64   `json:"confidence"`                     // 0..100
}

// HasData reports whether any forecast field is present.
func (r SeasonalForecastRecord) HasData() bool {
	return r.TemperatureAnomaly != nil || r.PrecipitationAnomaly != nil ||
		r.SoilMoisture0to7cm != nil
}

// CurrentConditions is a single instantaneous snapshot; no history is kept.
type CurrentConditions struct {
	Timestamp   time.Time `json:"timestamp"`
	Temperature float64   `json:"temperatureC"`
	Humidity    float64   `json:"humidityPercent"`
	Pressure    float64   `json:"pressureHpa"`
	WindSpeed   float64   `json:"windSpeedMs"`
	Description string    `json:"description"`
	Visibility  float64   `json:"visibilityM"`
	UVIndex     float64   `json:"uvIndex"`
}

// SourceStatus categorizes the outcome of one provider fetch.
type SourceStatus string

const (
	StatusSuccess SourceStatus = "success"
	StatusPartial SourceStatus = "partial"
	StatusFailed  SourceStatus = "failed"
)

// DataSourceStatus records how one external provider fared during a run.
// Invariant: Status == StatusFailed implies Confidence == 0.
type DataSourceStatus struct {
	Status      SourceStatus `json:"status"`
	Confidence  float64      `json:"confidence"` // 0..100
	RecordCount int          `json:"recordCount"`
	TimeRange   string       `json:"timeRange,omitempty"`
}

// AnnualStats holds per-field annual statistics over validated values only.
type AnnualStats struct {
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	Avg        float64 `json:"avg"`
	ValidCount int     `json:"validCount"`
}

// ClimaticNormals aggregates the annual statistics for each observed field.
type ClimaticNormals struct {
	Temperature    AnnualStats `json:"temperature"`
	Precipitation  AnnualStats `json:"precipitation"`
	SolarRadiation AnnualStats `json:"solarRadiation"`
}

// ClimaticTrends holds decadal linear-trend estimates. Zero when fewer than
// two years of data are available.
type ClimaticTrends struct {
	TemperaturePerDecade   float64 `json:"temperaturePerDecade"`   // °C/decade
	PrecipitationPerDecade float64 `json:"precipitationPerDecade"` // mm/day per decade
	YearsAnalyzed          int     `json:"yearsAnalyzed"`
}

// ExtremeEvents counts threshold exceedances in the validated series.
type ExtremeEvents struct {
	HotDays       int `json:"hotDays"`       // >40 °C
	ColdDays      int `json:"coldDays"`      // <-10 °C
	HeavyRainDays int `json:"heavyRainDays"` // >50 mm
}

// HistoricalAnalysis is the Historical Analyzer output. An all-zero value is
// returned when no validated records exist.
type HistoricalAnalysis struct {
	ClimaticNormals ClimaticNormals `json:"climaticNormals"`
	Trends          ClimaticTrends  `json:"trends"`
	Extremes        ExtremeEvents   `json:"extremes"`
}

// SoilMoistureProfile carries moisture fractions at three depths.
type SoilMoistureProfile struct {
	Surface float64 `json:"surface"` // 0-7 cm
	Root    float64 `json:"root"`    // 7-28 cm
	Deep    float64 `json:"deep"`    // 28-100 cm
}

// MonthlyOutlook is one month of the synthesized seasonal forecast.
type MonthlyOutlook struct {
	Month                 string              `json:"month"` // YYYY-MM
	TemperatureAnomaly    float64             `json:"temperatureAnomaly"`
	PrecipitationAnomaly  float64             `json:"precipitationAnomaly"`
	ExpectedTemperature   float64             `json:"expectedTemperature"`
	ExpectedPrecipitation float64             `json:"expectedPrecipitation"`
	SoilMoisture          SoilMoistureProfile `json:"soilMoisture"`
	Evapotranspiration    float64             `json:"evapotranspiration"` // mm/day
	Confidence            float64             `json:"confidence"`
}

// SeasonalSummary is the qualitative reading of the aggregate anomalies.
type SeasonalSummary struct {
	DominantPattern          string   `json:"dominantPattern"`
	KeyFeatures              []string `json:"keyFeatures"`
	AgriculturalImplications []string `json:"agriculturalImplications"`
}

// SeasonalForecast is the Seasonal Synthesizer output.
type SeasonalForecast struct {
	MonthlyOutlook []MonthlyOutlook `json:"monthlyOutlook"`
	Summary        SeasonalSummary  `json:"seasonalSummary"`
}

// SoilConditions summarizes the estimated state of the soil.
type SoilConditions struct {
	MoistureStatus  string  `json:"moistureStatus"` // dry | adequate | saturated
	MoistureLevel   float64 `json:"moistureLevel"`  // fraction
	WaterRetention  string  `json:"waterRetention"`
	DrainageQuality string  `json:"drainageQuality"`
}

// AgriculturalAnalysis is the combined agronomic assessment. It is always
// fully populated: absent inputs yield defensible defaults, never an error.
type AgriculturalAnalysis struct {
	SoilType         string         `json:"soilType"`
	SoilConditions   SoilConditions `json:"soilConditions"`
	SuitabilityScore float64        `json:"suitabilityScore"` // 0..100
	IrrigationNeed   string         `json:"irrigationNeed"`   // low | medium | high
	RiskLevel        string         `json:"riskLevel"`        // low | medium | high
	RiskFactors      []string       `json:"riskFactors"`
}

// Insights is the deterministic, rule-derived reading of the full analysis.
type Insights struct {
	Findings              []string `json:"findings"`
	Recommendations       []string `json:"recommendations"`
	SustainabilityScore   float64  `json:"sustainabilityScore"` // 0..100
	SustainabilityFactors []string `json:"sustainabilityFactors"`
}

// DataSources records per-provider status for one orchestration run.
type DataSources struct {
	Historical DataSourceStatus `json:"historical"`
	Seasonal   DataSourceStatus `json:"seasonal"`
	Current    DataSourceStatus `json:"current"`
}

// ComprehensiveAnalysis is the aggregate report returned to callers.
// It is immutable after construction and structurally complete even when
// every provider failed; DataSources says which parts are real.
type ComprehensiveAnalysis struct {
	AnalysisID         string               `json:"analysisId"`
	Location           Coordinate           `json:"location"`
	GeneratedAt        time.Time            `json:"generatedAt"` // always UTC
	LandID             string               `json:"landId,omitempty"`
	DataSources        DataSources          `json:"dataSources"`
	HistoricalAnalysis HistoricalAnalysis   `json:"historicalAnalysis"`
	SeasonalForecast   SeasonalForecast     `json:"seasonalForecast"`
	CurrentConditions  *CurrentConditions   `json:"currentConditions,omitempty"`
	Agricultural       AgriculturalAnalysis `json:"agriculturalAnalysis"`
	Insights           Insights             `json:"aiInsights"`
}
