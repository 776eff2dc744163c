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

// OpenWeatherProvider implements climate.CurrentProvider against the
// OpenWeatherMap current-weather endpoint. No retries beyond the shared
// backoff; a failure simply means "current conditions unavailable".
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, apiKey string) *OpenWeatherProvider {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openweather",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  apiKey,
		baseURL: "https://api.openweathermap.org/data/2.5/weather",
		httpCfg: HTTPClientConfig{
			Client:         client,
			RequestTimeout: 8 * time.Second,
			Backoff: BackoffConfig{
				MaxRetries:      1,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     2 * time.Second,
			},
		},
		circuit: cb,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchCurrent retrieves the instantaneous snapshot for the coordinate.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, coord climate.Coordinate) (climate.CurrentConditions, error) {
	if p.apiKey == "" {
		return climate.CurrentConditions{}, fmt.Errorf("%w: openweather api key is not configured", climate.ErrConfiguration)
	}

	reqCtx, cancel := withRequestTimeout(ctx, p.httpCfg)
	defer cancel()

	buildRequest := func() (*http.Request, error) {
		r := coord.Rounded()
		values := url.Values{}
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		values.Set("lat", fmt.Sprintf("%.4f", r.Latitude))
		values.Set("lon", fmt.Sprintf("%.4f", r.Longitude))

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(reqCtx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return climate.CurrentConditions{}, fmt.Errorf("%w: current conditions for %s: %v", climate.ErrProvider, coord.Key(), err)
	}
	defer resp.Body.Close()

	var payload struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp     float64 `json:"temp"`
			Humidity float64 `json:"humidity"`
			Pressure float64 `json:"pressure"`
		} `json:"main"`
		Wind struct {
			Speed float64 `json:"speed"`
		} `json:"wind"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Visibility float64 `json:"visibility"`
		UVI        float64 `json:"uvi"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return climate.CurrentConditions{}, fmt.Errorf("%w: current conditions malformed: %v", climate.ErrProvider, err)
	}

	ts := time.Unix(payload.Dt, 0).UTC()
	if payload.Dt == 0 {
		ts = time.Now().UTC()
	}

	desc := ""
	if len(payload.Weather) > 0 {
		desc = payload.Weather[0].Description
	}

	cond := climate.CurrentConditions{
		Timestamp:   ts,
		Description: desc,
		Visibility:  payload.Visibility,
		UVIndex:     payload.UVI,
	}

	// Screen the numeric fields like any other external value; an implausible
	// reading is zeroed rather than surfaced.
	if v, ok := climate.ValidateField(climate.FieldTemperature, payload.Main.Temp); ok {
		cond.Temperature = v
	}
	if v, ok := climate.ValidateField(climate.FieldHumidity, payload.Main.Humidity); ok {
		cond.Humidity = v
	}
	if v, ok := climate.ValidateField(climate.FieldPressure, payload.Main.Pressure); ok {
		cond.Pressure = v
	}
	if v, ok := climate.ValidateField(climate.FieldWindSpeed, payload.Wind.Speed); ok {
		cond.WindSpeed = v
	}

	return cond, nil
}
