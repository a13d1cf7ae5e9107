package weather

import "context"

// LocationProvider resolves the caller's place from its IP address.
type LocationProvider interface {
	Name() string
	Locate(ctx context.Context) (Place, error)
}

// ConditionsProvider is a two-stage weather source: a city name is first
// resolved to a provider-specific location id, which is then used to query
// current conditions.
type ConditionsProvider interface {
	Name() string
	LookupCityID(ctx context.Context, city string) (string, error)
	Current(ctx context.Context, locationID string) (Conditions, error)
}
