package weather

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Service runs the lookup pipelines the widget needs: the IP location lookup
// and the two-stage city → id → conditions weather chain.
type Service struct {
	locations  LocationProvider
	conditions ConditionsProvider
	logger     zerolog.Logger
}

// NewService creates a new Service. conditions may be nil when weather is
// disabled.
func NewService(locations LocationProvider, conditions ConditionsProvider, logger zerolog.Logger) *Service {
	return &Service{
		locations:  locations,
		conditions: conditions,
		logger:     logger.With().Str("component", "weather").Logger(),
	}
}

// Locate resolves the current place. Missing city and country fields are
// replaced with fixed placeholders.
func (s *Service) Locate(ctx context.Context) (Place, error) {
	if s.locations == nil {
		return Place{}, fmt.Errorf("%w: no location provider configured", ErrLocationUnavailable)
	}

	p, err := s.locations.Locate(ctx)
	if err != nil {
		return Place{}, fmt.Errorf("%w: %s: %w", ErrLocationUnavailable, s.locations.Name(), err)
	}

	if strings.TrimSpace(p.City) == "" {
		p.City = UnknownCity
	}
	if strings.TrimSpace(p.Country) == "" {
		p.Country = UnknownCountry
	}
	s.logger.Debug().Str("provider", s.locations.Name()).Str("place", p.Label()).Msg("location resolved")
	return p, nil
}

// CurrentForCity resolves the city to a location id and fetches current
// conditions for it. A failure in the first stage short-circuits the second.
func (s *Service) CurrentForCity(ctx context.Context, city string) (Conditions, error) {
	if s.conditions == nil {
		return Conditions{}, fmt.Errorf("%w: no weather provider configured", ErrConditionsUnavailable)
	}
	if city == "" {
		return Conditions{}, fmt.Errorf("%w: empty city", ErrCityNotFound)
	}

	id, err := s.conditions.LookupCityID(ctx, city)
	if err != nil {
		return Conditions{}, fmt.Errorf("%s city lookup for %q: %w", s.conditions.Name(), city, err)
	}

	cond, err := s.conditions.Current(ctx, id)
	if err != nil {
		return Conditions{}, fmt.Errorf("%s conditions for %s: %w", s.conditions.Name(), id, err)
	}

	s.logger.Debug().Str("provider", s.conditions.Name()).Str("city", city).Str("id", id).Msg("conditions resolved")
	return cond, nil
}
