package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"

	"github.com/i474232898/clock-widget/internal/weather"
)

const (
	DefaultQWeatherCityLookupURL = "https://geoapi.qweather.com/v2/city/lookup"
	DefaultQWeatherNowURL        = "https://api.qweather.com/v7/weather/now"

	qweatherOK = "200"
)

// QWeatherProvider implements weather.ConditionsProvider for QWeather: a GeoAPI
// city lookup followed by the "weather now" endpoint.
type QWeatherProvider struct {
	name          string
	apiKey        string
	cityLookupURL string
	nowURL        string
	httpCfg       HTTPClientConfig
	circuit       *gobreaker.CircuitBreaker
}

func NewQWeatherProvider(client *http.Client, apiKey, cityLookupURL, nowURL string) *QWeatherProvider {
	if cityLookupURL == "" {
		cityLookupURL = DefaultQWeatherCityLookupURL
	}
	if nowURL == "" {
		nowURL = DefaultQWeatherNowURL
	}
	return &QWeatherProvider{
		name:          "qweather",
		apiKey:        apiKey,
		cityLookupURL: cityLookupURL,
		nowURL:        nowURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("qweather"),
	}
}

func (p *QWeatherProvider) Name() string {
	return p.name
}

// LookupCityID returns the first location id QWeather knows for city.
func (p *QWeatherProvider) LookupCityID(ctx context.Context, city string) (string, error) {
	if p.apiKey == "" {
		return "", fmt.Errorf("qweather api key is not configured")
	}

	var payload struct {
		Code     string `json:"code"`
		Location []struct {
			ID string `json:"id"`
		} `json:"location"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.buildURL(p.cityLookupURL, city), &payload); err != nil {
		return "", err
	}

	if payload.Code != qweatherOK || len(payload.Location) == 0 || payload.Location[0].ID == "" {
		return "", fmt.Errorf("%w: code %q, %d results", weather.ErrCityNotFound, payload.Code, len(payload.Location))
	}
	return payload.Location[0].ID, nil
}

// Current fetches the current conditions for a QWeather location id.
func (p *QWeatherProvider) Current(ctx context.Context, locationID string) (weather.Conditions, error) {
	if p.apiKey == "" {
		return weather.Conditions{}, fmt.Errorf("qweather api key is not configured")
	}

	var payload struct {
		Code string `json:"code"`
		Now  struct {
			// QWeather sends numbers as strings; json.Number accepts both.
			Temp json.Number `json:"temp"`
			Text string      `json:"text"`
		} `json:"now"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.buildURL(p.nowURL, locationID), &payload); err != nil {
		return weather.Conditions{}, err
	}

	if payload.Code != qweatherOK {
		return weather.Conditions{}, fmt.Errorf("%w: code %q", weather.ErrConditionsUnavailable, payload.Code)
	}
	return weather.Conditions{
		Text:        payload.Now.Text,
		Temperature: payload.Now.Temp.String(),
	}, nil
}

func (p *QWeatherProvider) buildURL(base, location string) string {
	values := url.Values{}
	values.Set("key", p.apiKey)
	values.Set("location", location)
	return fmt.Sprintf("%s?%s", base, values.Encode())
}
