package climate

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/cache"
)

// Service orchestrates the three fetchers, the analyzers, and the caches.
// Every cache and dedup map is owned by the Service instance so tests can
// construct isolated copies.
type Service struct {
	historical HistoricalProvider
	seasonal   SeasonalProvider
	current    CurrentProvider
	archive    Archive // optional; nil disables persistence

	hot       *cache.TTLCache // raw fetch results
	reports   *cache.TTLCache // assembled analyses
	reportTTL time.Duration

	flight singleflight.Group

	now func() time.Time
}

// NewService creates a Service. archive may be nil.
func NewService(historical HistoricalProvider, seasonal SeasonalProvider, current CurrentProvider, archive Archive, hotTTL, reportTTL time.Duration) *Service {
	return &Service{
		historical: historical,
		seasonal:   seasonal,
		current:    current,
		archive:    archive,
		hot:        cache.New(hotTTL),
		reports:    cache.New(reportTTL),
		reportTTL:  reportTTL,
		now:        time.Now,
	}
}

// SweepCaches drops expired entries from both tiers.
func (s *Service) SweepCaches() {
	s.hot.Sweep()
	s.reports.Sweep()
}

func reportKey(coord Coordinate, landID string) string {
	if landID == "" {
		return "report:" + coord.Key()
	}
	return "report:" + coord.Key() + ":" + landID
}

// GenerateComprehensiveAnalysis is the top-level entry point. It validates
// the coordinates, consults the report cache unless forceRefresh is set, runs
// the three fetchers concurrently and independently, analyzes whatever subset
// succeeded, persists best-effort, and always returns a structurally complete
// report. Only invalid coordinates surface as an error.
func (s *Service) GenerateComprehensiveAnalysis(ctx context.Context, lat, lon float64, landID string, forceRefresh bool) (*ComprehensiveAnalysis, error) {
	coord := Coordinate{Latitude: lat, Longitude: lon}.Rounded()
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range: %.4f, %.4f", ErrValidation, lat, lon)
	}

	key := reportKey(coord, landID)

	if !forceRefresh {
		if v, ok := s.reports.Get(key); ok {
			return v.(*ComprehensiveAnalysis), nil
		}
		if report := s.archivedReport(ctx, key); report != nil {
			s.reports.Set(key, report)
			return report, nil
		}
	}

	// Concurrent identical requests share one computation.
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		report := s.buildReport(ctx, coord, landID)

		s.reports.Set(key, report)

		if s.archive != nil {
			if err := s.archive.Save(ctx, report); err != nil {
				// Persistence is best-effort; the computed report still wins.
				log.Printf("analysis: archive write failed for %s: %v", key, err)
			}
		}
		return report, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*ComprehensiveAnalysis), nil
}

// archivedReport returns a persisted report still inside the freshness
// window, or nil.
func (s *Service) archivedReport(ctx context.Context, key string) *ComprehensiveAnalysis {
	if s.archive == nil {
		return nil
	}
	report, err := s.archive.Latest(ctx, key)
	if err != nil || report == nil {
		return nil
	}
	if s.now().UTC().Sub(report.GeneratedAt) > s.reportTTL {
		return nil
	}
	return report
}

// buildReport runs the fetch/analyze pipeline. All three fetchers settle,
// whether they succeed or fail, before analysis begins; no failure cancels
// a sibling.
func (s *Service) buildReport(ctx context.Context, coord Coordinate, landID string) *ComprehensiveAnalysis {
	var (
		wg sync.WaitGroup

		histRecords []HistoricalRecord
		histErr     error

		seasonalRecords []SeasonalForecastRecord
		seasonalErr     error

		current    CurrentConditions
		currentErr error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		histRecords, histErr = s.fetchHistoricalCached(ctx, coord)
		if histErr != nil {
			log.Printf("provider %s fetch failed for %s: %v", s.historical.Name(), coord.Key(), histErr)
		}
	}()
	go func() {
		defer wg.Done()
		seasonalRecords, seasonalErr = s.fetchSeasonalCached(ctx, coord)
		if seasonalErr != nil {
			log.Printf("provider %s fetch failed for %s: %v", s.seasonal.Name(), coord.Key(), seasonalErr)
		}
	}()
	go func() {
		defer wg.Done()
		current, currentErr = s.fetchCurrentCached(ctx, coord)
		if currentErr != nil {
			log.Printf("provider %s fetch failed for %s: %v", s.current.Name(), coord.Key(), currentErr)
		}
	}()
	wg.Wait()

	histAnalysis := AnalyzeHistorical(histRecords)
	seasonalForecast := SynthesizeSeasonal(coord, seasonalRecords)
	agricultural := AnalyzeAgriculture(coord, histAnalysis, seasonalForecast)
	insights := GenerateInsights(agricultural, histAnalysis, seasonalForecast)

	report := &ComprehensiveAnalysis{
		AnalysisID:  uuid.NewString(),
		Location:    coord,
		GeneratedAt: s.now().UTC(),
		LandID:      landID,
		DataSources: DataSources{
			Historical: historicalStatus(histRecords, histErr),
			Seasonal:   seasonalStatus(seasonalRecords, seasonalErr),
			Current:    currentStatus(currentErr),
		},
		HistoricalAnalysis: histAnalysis,
		SeasonalForecast:   seasonalForecast,
		Agricultural:       agricultural,
		Insights:           insights,
	}
	if currentErr == nil {
		report.CurrentConditions = &current
	}
	return report
}

func historicalStatus(records []HistoricalRecord, err error) DataSourceStatus {
	if err != nil || len(records) == 0 {
		return DataSourceStatus{Status: StatusFailed, Confidence: 0}
	}

	status := DataSourceStatus{RecordCount: len(records)}
	status.TimeRange = fmt.Sprintf("%s..%s",
		records[0].Date.Format("2006-01-02"),
		records[len(records)-1].Date.Format("2006-01-02"))

	// Confidence scales with coverage of the fetcher's series cap.
	coverage := float64(len(records)) / MaxHistoricalRecords
	if coverage > 1 {
		coverage = 1
	}
	status.Confidence = 40 + 55*coverage

	if coverage < 0.8 {
		status.Status = StatusPartial
	} else {
		status.Status = StatusSuccess
	}
	return status
}

func seasonalStatus(records []SeasonalForecastRecord, err error) DataSourceStatus {
	if err != nil || len(records) == 0 {
		return DataSourceStatus{Status: StatusFailed, Confidence: 0}
	}
	return DataSourceStatus{
		Status:      StatusSuccess,
		Confidence:  75,
		RecordCount: len(records),
		TimeRange: fmt.Sprintf("%s..%s",
			records[0].ValidDate.Format("2006-01-02"),
			records[len(records)-1].ValidDate.Format("2006-01-02")),
	}
}

func currentStatus(err error) DataSourceStatus {
	if err != nil {
		return DataSourceStatus{Status: StatusFailed, Confidence: 0}
	}
	return DataSourceStatus{Status: StatusSuccess, Confidence: 90, RecordCount: 1}
}

// GetHistoricalSeries exposes just the validated historical series, hot-cached.
func (s *Service) GetHistoricalSeries(ctx context.Context, lat, lon float64) ([]HistoricalRecord, error) {
	coord := Coordinate{Latitude: lat, Longitude: lon}.Rounded()
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range: %.4f, %.4f", ErrValidation, lat, lon)
	}
	return s.fetchHistoricalCached(ctx, coord)
}

// GetSeasonalOutlook exposes just the raw seasonal series, hot-cached.
func (s *Service) GetSeasonalOutlook(ctx context.Context, lat, lon float64) ([]SeasonalForecastRecord, error) {
	coord := Coordinate{Latitude: lat, Longitude: lon}.Rounded()
	if !coord.Valid() {
		return nil, fmt.Errorf("%w: coordinates out of range: %.4f, %.4f", ErrValidation, lat, lon)
	}
	return s.fetchSeasonalCached(ctx, coord)
}

// The cached fetch helpers share one pattern: hot-cache lookup, then a
// singleflight-deduplicated provider call whose success repopulates the tier.
// A second caller for the same key while a fetch is in flight awaits the same
// result instead of issuing a duplicate request.

func (s *Service) fetchHistoricalCached(ctx context.Context, coord Coordinate) ([]HistoricalRecord, error) {
	key := "historical:" + coord.Key()
	if v, ok := s.hot.Get(key); ok {
		return v.([]HistoricalRecord), nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		records, err := s.historical.FetchHistorical(ctx, coord)
		if err != nil {
			return nil, err
		}
		s.hot.Set(key, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]HistoricalRecord), nil
}

func (s *Service) fetchSeasonalCached(ctx context.Context, coord Coordinate) ([]SeasonalForecastRecord, error) {
	key := "seasonal:" + coord.Key()
	if v, ok := s.hot.Get(key); ok {
		return v.([]SeasonalForecastRecord), nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		records, err := s.seasonal.FetchSeasonal(ctx, coord)
		if err != nil {
			return nil, err
		}
		s.hot.Set(key, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]SeasonalForecastRecord), nil
}

func (s *Service) fetchCurrentCached(ctx context.Context, coord Coordinate) (CurrentConditions, error) {
	key := "current:" + coord.Key()
	if v, ok := s.hot.Get(key); ok {
		return v.(CurrentConditions), nil
	}

	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		cond, err := s.current.FetchCurrent(ctx, coord)
		if err != nil {
			return nil, err
		}
		s.hot.Set(key, cond)
		return cond, nil
	})
	if err != nil {
		return CurrentConditions{}, err
	}
	return v.(CurrentConditions), nil
}
