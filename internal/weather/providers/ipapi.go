package providers

import (
	"context"
	"net/http"

	"github.com/sony/gobreaker"

	"github.com/i474232898/clock-widget/internal/weather"
)

// DefaultIPAPIURL is the ipapi.co JSON endpoint.
const DefaultIPAPIURL = "https://ipapi.co/json/"

// IPAPIProvider implements weather.LocationProvider against ipapi.co and
// compatible services (ip-api.com reports the region as regionName).
type IPAPIProvider struct {
	name     string
	endpoint string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
}

func NewIPAPIProvider(client *http.Client, endpoint string) *IPAPIProvider {
	if endpoint == "" {
		endpoint = DefaultIPAPIURL
	}
	return &IPAPIProvider{
		name:     "ipapi",
		endpoint: endpoint,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Backoff: DefaultBackoff,
		},
		circuit: newCircuitBreaker("ipapi"),
	}
}

func (p *IPAPIProvider) Name() string {
	return p.name
}

func (p *IPAPIProvider) Locate(ctx context.Context) (weather.Place, error) {
	var payload struct {
		City        string `json:"city"`
		Region      string `json:"region"`
		RegionName  string `json:"regionName"`
		CountryName string `json:"country_name"`
	}
	if err := getJSON(ctx, p.httpCfg, p.circuit, p.endpoint, &payload); err != nil {
		return weather.Place{}, err
	}

	region := payload.Region
	if region == "" {
		region = payload.RegionName
	}
	return weather.Place{
		City:    payload.City,
		Region:  region,
		Country: payload.CountryName,
	}, nil
}
