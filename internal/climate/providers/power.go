package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

const (
	// powerReportingLagDays is how far behind real time the provider's daily
	// files run; querying more recent dates yields a client error.
	powerReportingLagDays = 7

	// powerChunkDays is the size of one date window per request.
	powerChunkDays = 15

	// powerBatchSize is the number of chunk requests in flight at once.
	// Deliberately small: the provider publishes no rate limit but throttles
	// bursts.
	powerBatchSize = 2

	// powerBatchPause separates consecutive chunk batches.
	powerBatchPause = 200 * time.Millisecond

	powerDateLayout = "20060102"
)

// PowerProvider implements climate.HistoricalProvider against the NASA POWER
// daily point API. The lookback range is split into fixed-size chunks fetched
// in small concurrent batches; a failed chunk contributes nothing and the
// fetch fails only when every chunk came back empty.
type PowerProvider struct {
	name     string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	lookback time.Duration

	// now is injectable for tests.
	now func() time.Time
}

func NewPowerProvider(client *http.Client, lookbackYears int) *PowerProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "power",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	if lookbackYears <= 0 {
		lookbackYears = 1
	}

	return &PowerProvider{
		name:    "power",
		baseURL: "https://power.larc.nasa.gov/api/temporal/daily/point",
		httpCfg: HTTPClientConfig{
			Client:         client,
			RequestTimeout: 15 * time.Second,
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit:  cb,
		lookback: time.Duration(lookbackYears) * 365 * 24 * time.Hour,
		now:      time.Now,
	}
}

func (p *PowerProvider) Name() string {
	return p.name
}

// dateChunk is one [Start, End] window of the lookback range.
type dateChunk struct {
	Start time.Time
	End   time.Time
}

// FetchHistorical retrieves the validated daily series for the lookback
// range. Chunk batches run oldest-first; within a batch chunks execute
// concurrently; the final series is re-sorted so completion order never
// affects output.
func (p *PowerProvider) FetchHistorical(ctx context.Context, coord climate.Coordinate) ([]climate.HistoricalRecord, error) {
	end := p.now().UTC().AddDate(0, 0, -powerReportingLagDays)
	start := end.Add(-p.lookback)

	chunks := splitChunks(start, end, powerChunkDays)

	var (
		mu      sync.Mutex
		records []climate.HistoricalRecord
	)

	for i := 0; i < len(chunks); i += powerBatchSize {
		mu.Lock()
		full := len(records) >= climate.MaxHistoricalRecords
		mu.Unlock()
		if full {
			break
		}

		batch := chunks[i:min(i+powerBatchSize, len(chunks))]

		g, gCtx := errgroup.WithContext(ctx)
		for _, ch := range batch {
			ch := ch
			g.Go(func() error {
				recs := p.fetchChunk(gCtx, coord, ch)
				if len(recs) == 0 {
					return nil
				}
				mu.Lock()
				records = append(records, recs...)
				mu.Unlock()
				// Chunk failures never propagate; only caller cancellation
				// stops the batch.
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if i+powerBatchSize < len(chunks) {
			timer := time.NewTimer(powerBatchPause)
			select {
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			case <-timer.C:
			}
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: power returned no usable records for %s", climate.ErrProvider, coord.Key())
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})

	// Truncate only after sorting so the retained window never depends on
	// which chunk of a batch appended first.
	if len(records) > climate.MaxHistoricalRecords {
		records = records[:climate.MaxHistoricalRecords]
	}

	return records, nil
}

// fetchChunk issues one chunk request. Any failure is logged and yields an
// empty contribution; it never aborts the batch.
func (p *PowerProvider) fetchChunk(ctx context.Context, coord climate.Coordinate, ch dateChunk) []climate.HistoricalRecord {
	reqCtx, cancel := withRequestTimeout(ctx, p.httpCfg)
	defer cancel()

	buildRequest := func() (*http.Request, error) {
		r := coord.Rounded()
		values := url.Values{}
		// Reduced, agriculturally essential parameter set.
		values.Set("parameters", "T2M,PRECTOTCORR,GWETROOT,ALLSKY_SFC_SW_DWN")
		values.Set("community", "AG")
		values.Set("latitude", fmt.Sprintf("%.4f", r.Latitude))
		values.Set("longitude", fmt.Sprintf("%.4f", r.Longitude))
		values.Set("start", ch.Start.Format(powerDateLayout))
		values.Set("end", ch.End.Format(powerDateLayout))
		values.Set("format", "JSON")

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(reqCtx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		log.Printf("power: chunk %s..%s failed for %s: %v",
			ch.Start.Format(powerDateLayout), ch.End.Format(powerDateLayout), coord.Key(), err)
		return nil
	}
	defer resp.Body.Close()

	var payload struct {
		Properties struct {
			Parameter map[string]map[string]float64 `json:"parameter"`
		} `json:"properties"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		log.Printf("power: chunk %s..%s malformed for %s: %v",
			ch.Start.Format(powerDateLayout), ch.End.Format(powerDateLayout), coord.Key(), err)
		return nil
	}

	return parsePowerChunk(payload.Properties.Parameter)
}

// parsePowerChunk converts the provider's parameter->date->value nesting into
// validated records. Records where every field failed validation are dropped.
func parsePowerChunk(params map[string]map[string]float64) []climate.HistoricalRecord {
	if len(params) == 0 {
		return nil
	}

	dates := make(map[string]struct{})
	for _, byDate := range params {
		for d := range byDate {
			dates[d] = struct{}{}
		}
	}

	records := make([]climate.HistoricalRecord, 0, len(dates))
	for d := range dates {
		ts, err := time.Parse(powerDateLayout, d)
		if err != nil {
			continue
		}

		rec := climate.HistoricalRecord{Date: ts.UTC()}
		if v, ok := params["T2M"][d]; ok {
			rec.Temperature2M = climate.ValidField(climate.FieldTemperature, v)
		}
		if v, ok := params["PRECTOTCORR"][d]; ok {
			rec.Precipitation = climate.ValidField(climate.FieldPrecipitation, v)
		}
		if v, ok := params["GWETROOT"][d]; ok {
			rec.SoilMoisture = climate.ValidField(climate.FieldSoilMoisture, v)
		}
		if v, ok := params["ALLSKY_SFC_SW_DWN"][d]; ok {
			rec.SolarRadiation = climate.ValidField(climate.FieldSolarRadiation, v)
		}

		if rec.HasData() {
			records = append(records, rec)
		}
	}

	return records
}

// splitChunks divides [start, end] into windows of at most chunkDays days,
// oldest first.
func splitChunks(start, end time.Time, chunkDays int) []dateChunk {
	var chunks []dateChunk
	for cur := start; !cur.After(end); {
		chunkEnd := cur.AddDate(0, 0, chunkDays-1)
		if chunkEnd.After(end) {
			chunkEnd = end
		}
		chunks = append(chunks, dateChunk{Start: cur, End: chunkEnd})
		cur = chunkEnd.AddDate(0, 0, 1)
	}
	return chunks
}
