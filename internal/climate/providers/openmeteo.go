package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sony/gobreaker"

	"github.com/YOGESHVENKATAPTHI/Agri-Forecast-Public-sub001/internal/climate"
)

// seasonalHorizonMonths is the fixed forward-looking window requested from
// the model, starting the day after "now".
const seasonalHorizonMonths = 6

// OpenMeteoSeasonalProvider implements climate.SeasonalProvider against the
// Open-Meteo seasonal model endpoint. The whole horizon is requested as one
// call with a generous timeout since the provider computes on demand.
type OpenMeteoSeasonalProvider struct {
	name    string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker

	now func() time.Time
}

func NewOpenMeteoSeasonalProvider(client *http.Client) *OpenMeteoSeasonalProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-seasonal",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoSeasonalProvider{
		name:    "openmeteo-seasonal",
		baseURL: "https://seasonal-api.open-meteo.com/v1/seasonal",
		httpCfg: HTTPClientConfig{
			Client:         client,
			RequestTimeout: 30 * time.Second,
			Backoff: BackoffConfig{
				MaxRetries:      2,
				InitialInterval: 1 * time.Second,
				MaxInterval:     5 * time.Second,
			},
		},
		circuit: cb,
		now:     time.Now,
	}
}

func (p *OpenMeteoSeasonalProvider) Name() string {
	return p.name
}

// FetchSeasonal retrieves the 6-month daily anomaly forecast. A record is
// kept whenever at least one variable is present for its date; confidence
// decays with lead time.
func (p *OpenMeteoSeasonalProvider) FetchSeasonal(ctx context.Context, coord climate.Coordinate) ([]climate.SeasonalForecastRecord, error) {
	reqCtx, cancel := withRequestTimeout(ctx, p.httpCfg)
	defer cancel()

	issued := p.now().UTC()
	start := issued.AddDate(0, 0, 1)
	end := start.AddDate(0, seasonalHorizonMonths, 0)

	buildRequest := func() (*http.Request, error) {
		r := coord.Rounded()
		values := url.Values{}
		values.Set("latitude", fmt.Sprintf("%.4f", r.Latitude))
		values.Set("longitude", fmt.Sprintf("%.4f", r.Longitude))
		values.Set("daily", "temperature_2m_anomaly,precipitation_anomaly,soil_moisture_0_to_7cm")
		values.Set("start_date", start.Format("2006-01-02"))
		values.Set("end_date", end.Format("2006-01-02"))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(reqCtx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return nil, fmt.Errorf("%w: seasonal fetch for %s: %v", climate.ErrProvider, coord.Key(), err)
	}
	defer resp.Body.Close()

	var payload struct {
		Daily struct {
			Time                 []string   `json:"time"`
			TemperatureAnomaly   []*float64 `json:"temperature_2m_anomaly"`
			PrecipitationAnomaly []*float64 `json:"precipitation_anomaly"`
			SoilMoisture0to7cm   []*float64 `json:"soil_moisture_0_to_7cm"`
		} `json:"daily"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: seasonal response malformed: %v", climate.ErrProvider, err)
	}
	if len(payload.Daily.Time) == 0 {
		return nil, fmt.Errorf("%w: seasonal response missing daily.time", climate.ErrProvider)
	}

	records := make([]climate.SeasonalForecastRecord, 0, len(payload.Daily.Time))
	for i, ts := range payload.Daily.Time {
		validDate, err := time.Parse("2006-01-02", ts)
		if err != nil {
			continue
		}

		rec := climate.SeasonalForecastRecord{
			ForecastDate: issued,
			ValidDate:    validDate.UTC(),
			Confidence:   leadConfidence(issued, validDate),
		}
		if v := at(payload.Daily.TemperatureAnomaly, i); v != nil {
			rec.TemperatureAnomaly = climate.ValidField(climate.FieldTemperatureAnomaly, *v)
		}
		if v := at(payload.Daily.PrecipitationAnomaly, i); v != nil {
			rec.PrecipitationAnomaly = climate.ValidField(climate.FieldPrecipitationAnomaly, *v)
		}
		if v := at(payload.Daily.SoilMoisture0to7cm, i); v != nil {
			rec.SoilMoisture0to7cm = climate.ValidField(climate.FieldSoilMoisture, *v)
		}

		if rec.HasData() {
			records = append(records, rec)
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("%w: seasonal response carried no usable values", climate.ErrProvider)
	}

	return records, nil
}

// at guards against per-variable arrays shorter than daily.time.
func at(vals []*float64, i int) *float64 {
	if i >= len(vals) {
		return nil
	}
	return vals[i]
}

// leadConfidence maps forecast lead time to the 60..85 heuristic range:
// 85 for the first month, minus 5 per additional month of lead.
func leadConfidence(issued, valid time.Time) float64 {
	months := int(valid.Sub(issued).Hours() / 24 / 30)
	conf := 85 - float64(months)*5
	if conf < 60 {
		conf = 60
	}
	return conf
}
