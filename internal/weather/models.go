package weather

import (
	"errors"
	"fmt"
)

// Placeholders used when the location service omits a field.
const (
	UnknownCity    = "未知城市"
	UnknownCountry = "未知国家"
)

var (
	// ErrLocationUnavailable is returned when the IP location lookup fails.
	ErrLocationUnavailable = errors.New("location lookup failed")
	// ErrCityNotFound is returned when the city lookup yields no identifier.
	ErrCityNotFound = errors.New("no location id for city")
	// ErrConditionsUnavailable is returned when current conditions cannot be read.
	ErrConditionsUnavailable = errors.New("weather conditions unavailable")
)

// Place is the result of an IP geolocation lookup.
type Place struct {
	City    string `json:"city"`
	Region  string `json:"region,omitempty"`
	Country string `json:"country"`
}

// Label renders the place as "city[, region], country". The region is left
// out when empty or equal to the city.
func (p Place) Label() string {
	label := p.City
	if p.Region != "" && p.Region != p.City {
		label += ", " + p.Region
	}
	return label + ", " + p.Country
}

// Conditions is a current weather reading.
type Conditions struct {
	Text        string `json:"text"`
	Temperature string `json:"temp"`
}

// String renders the reading as "<text> <temp>°C".
func (c Conditions) String() string {
	return fmt.Sprintf("%s %s°C", c.Text, c.Temperature)
}
