package climate

import "context"

// MaxHistoricalRecords caps the assembled daily series to bound memory.
// The orchestrator's coverage confidence scales against the same bound.
const MaxHistoricalRecords = 366

// HistoricalProvider abstracts the multi-decade daily-observation source
// (e.g. NASA POWER). Implementations return whatever date chunks succeeded
// and fail only when the entire range produced nothing.
type HistoricalProvider interface {
	Name() string
	FetchHistorical(ctx context.Context, coord Coordinate) ([]HistoricalRecord, error)
}

// SeasonalProvider abstracts the forward-looking probabilistic forecast
// source (e.g. Open-Meteo's seasonal model endpoint).
type SeasonalProvider interface {
	Name() string
	FetchSeasonal(ctx context.Context, coord Coordinate) ([]SeasonalForecastRecord, error)
}

// CurrentProvider abstracts the instantaneous-conditions source
// (e.g. OpenWeatherMap).
type CurrentProvider interface {
	Name() string
	FetchCurrent(ctx context.Context, coord Coordinate) (CurrentConditions, error)
}

// Archive is the optional persistence layer for completed reports. Writes are
// best-effort; the orchestrator logs and continues on failure.
type Archive interface {
	Save(ctx context.Context, report *ComprehensiveAnalysis) error
	Latest(ctx context.Context, key string) (*ComprehensiveAnalysis, error)
}
