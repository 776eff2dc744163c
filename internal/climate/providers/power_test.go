package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

// powerPayload builds a response covering [start, end] with the given
// temperature for every day.
func powerPayload(start, end time.Time, temp float64) map[string]interface{} {
	t2m := make(map[string]float64)
	precip := make(map[string]float64)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format(powerDateLayout)
		t2m[key] = temp
		precip[key] = 2.5
	}
	return map[string]interface{}{
		"properties": map[string]interface{}{
			"parameter": map[string]interface{}{
				"T2M":         t2m,
				"PRECTOTCORR": precip,
			},
		},
	}
}

func newTestPowerProvider(t *testing.T, handler http.HandlerFunc, lookbackDays int) (*PowerProvider, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	p := NewPowerProvider(srv.Client(), 1)
	p.baseURL = srv.URL
	p.lookback = time.Duration(lookbackDays) * 24 * time.Hour
	p.now = func() time.Time {
		return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	}
	return p, srv
}

func TestFetchHistoricalAssemblesSortedSeries(t *testing.T) {
	p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
		start, _ := time.Parse(powerDateLayout, r.URL.Query().Get("start"))
		end, _ := time.Parse(powerDateLayout, r.URL.Query().Get("end"))
		json.NewEncoder(w).Encode(powerPayload(start, end, 20))
	}, 60)

	records, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 20.5937, Longitude: 78.9629})
	require.NoError(t, err)
	require.NotEmpty(t, records)

	assert.True(t, sort.SliceIsSorted(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	}), "final series must be chronologically sorted")

	for _, rec := range records {
		require.NotNil(t, rec.Temperature2M)
		assert.Equal(t, 20.0, *rec.Temperature2M)
	}
}

func TestFetchHistoricalBoundedConcurrency(t *testing.T) {
	var inFlight, maxSeen int32

	p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inFlight, 1)
		for {
			prev := atomic.LoadInt32(&maxSeen)
			if cur <= prev || atomic.CompareAndSwapInt32(&maxSeen, prev, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inFlight, -1)

		start, _ := time.Parse(powerDateLayout, r.URL.Query().Get("start"))
		end, _ := time.Parse(powerDateLayout, r.URL.Query().Get("end"))
		json.NewEncoder(w).Encode(powerPayload(start, end, 18))
	}, 120)

	_, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxSeen), int32(powerBatchSize),
		"in-flight chunk requests must never exceed the batch size")
}

func TestFetchHistoricalSkipsFailedChunks(t *testing.T) {
	var n int32
	p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
		// Fail every other chunk outright.
		if atomic.AddInt32(&n, 1)%2 == 0 {
			http.Error(w, "boom", http.StatusBadRequest)
			return
		}
		start, _ := time.Parse(powerDateLayout, r.URL.Query().Get("start"))
		end, _ := time.Parse(powerDateLayout, r.URL.Query().Get("end"))
		json.NewEncoder(w).Encode(powerPayload(start, end, 22))
	}, 60)

	records, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 10, Longitude: 10})
	require.NoError(t, err, "partial chunk failure is recoverable")
	assert.NotEmpty(t, records)
}

func TestFetchHistoricalAllSentinelChunkContributesNothing(t *testing.T) {
	// Matches the clock newTestPowerProvider injects.
	testNow := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	cutoff := testNow.AddDate(0, 0, -powerReportingLagDays-30)

	p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
		start, _ := time.Parse(powerDateLayout, r.URL.Query().Get("start"))
		end, _ := time.Parse(powerDateLayout, r.URL.Query().Get("end"))

		// Earliest chunks of the range: all sentinels. Later chunks: valid data.
		temp := 21.0
		if start.Before(cutoff) {
			temp = -999
		}
		payload := powerPayload(start, end, temp)
		if temp == -999 {
			// Sentinel the precipitation too so nothing survives validation.
			params := payload["properties"].(map[string]interface{})["parameter"].(map[string]interface{})
			precip := params["PRECTOTCORR"].(map[string]float64)
			for k := range precip {
				precip[k] = -999
			}
		}
		json.NewEncoder(w).Encode(payload)
	}, 45)

	records, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	require.NotEmpty(t, records, "valid chunks still contribute despite a sentinel-only sibling")

	for _, rec := range records {
		assert.False(t, rec.Date.Before(cutoff), "sentinel-only records must be dropped")
	}
}

func TestFetchHistoricalAllChunksFail(t *testing.T) {
	p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadRequest)
	}, 30)

	_, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 10, Longitude: 10})
	require.Error(t, err)
	assert.ErrorIs(t, err, climate.ErrProvider)
}

func TestFetchHistoricalRespectsRecordCap(t *testing.T) {
	p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
		start, _ := time.Parse(powerDateLayout, r.URL.Query().Get("start"))
		end, _ := time.Parse(powerDateLayout, r.URL.Query().Get("end"))
		json.NewEncoder(w).Encode(powerPayload(start, end, 19))
	}, 3*365)

	records, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 10, Longitude: 10})
	require.NoError(t, err)
	assert.LessOrEqual(t, len(records), climate.MaxHistoricalRecords)
}

func TestFetchHistoricalCapIndependentOfCompletionOrder(t *testing.T) {
	// Fetch the same two-year range twice, staggering opposite halves of each
	// chunk batch so the append order flips between runs.
	fetch := func(delayOdd bool) []climate.HistoricalRecord {
		var n int32
		p, _ := newTestPowerProvider(t, func(w http.ResponseWriter, r *http.Request) {
			odd := atomic.AddInt32(&n, 1)%2 == 1
			if odd == delayOdd {
				time.Sleep(15 * time.Millisecond)
			}
			start, _ := time.Parse(powerDateLayout, r.URL.Query().Get("start"))
			end, _ := time.Parse(powerDateLayout, r.URL.Query().Get("end"))
			json.NewEncoder(w).Encode(powerPayload(start, end, 17))
		}, 2*365)

		records, err := p.FetchHistorical(context.Background(), climate.Coordinate{Latitude: 10, Longitude: 10})
		require.NoError(t, err)
		return records
	}

	first := fetch(false)
	second := fetch(true)

	require.Len(t, first, climate.MaxHistoricalRecords, "range beyond the cap must truncate to it")
	require.Len(t, second, len(first))
	for i := range first {
		assert.True(t, first[i].Date.Equal(second[i].Date), "series diverge at index %d: %s vs %s",
			i, first[i].Date.Format(powerDateLayout), second[i].Date.Format(powerDateLayout))
	}
}

func TestSplitChunks(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 2, 14, 0, 0, 0, 0, time.UTC) // 45 days inclusive

	chunks := splitChunks(start, end, 15)
	require.Len(t, chunks, 3)
	assert.Equal(t, start, chunks[0].Start)
	assert.Equal(t, end, chunks[2].End)

	// Windows tile the range with no overlap.
	for i := 1; i < len(chunks); i++ {
		assert.Equal(t, chunks[i-1].End.AddDate(0, 0, 1), chunks[i].Start)
	}
}

func TestParsePowerChunkDropsEmptyRecords(t *testing.T) {
	params := map[string]map[string]float64{
		"T2M":         {"20260101": -999, "20260102": 18},
		"PRECTOTCORR": {"20260101": -999, "20260102": 0.4},
	}

	records := parsePowerChunk(params)
	require.Len(t, records, 1)
	assert.Equal(t, "20260102", records[0].Date.Format(powerDateLayout))
}
