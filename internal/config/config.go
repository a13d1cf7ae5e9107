package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/i474232898/clock-widget/internal/weather/providers"
)

// DefaultSelectors is the container discovery order.
var DefaultSelectors = []string{
	"#aside",
	".aside",
	".sidebar",
	".sticky_layout",
	".site-aside",
	`[role="complementary"]`,
}

type AppConfig struct {
	EnableWeather bool
	WeatherKey    string

	LocationAPI   string `validate:"required,url"`
	CityLookupAPI string `validate:"required,url"`
	WeatherAPI    string `validate:"required,url"`

	// UpdateInterval is the clock refresh period.
	UpdateInterval time.Duration `validate:"gt=0"`
	// RetryDelay and MaxRetries bound container discovery.
	RetryDelay time.Duration `validate:"gt=0"`
	MaxRetries int           `validate:"gte=0"`

	WeatherDelay    time.Duration `validate:"gt=0"`
	NavigationDelay time.Duration `validate:"gt=0"`
	HTTPTimeout     time.Duration `validate:"gt=0"`

	Selectors        []string `validate:"min=1,dive,required"`
	NavigationGlobal string
	// EnableNavigation marks the navigation library as present on the page.
	EnableNavigation bool

	// HistorySize and HistoryMaxAge bound the journal of ended cycles; zero
	// disables the limit.
	HistorySize   int           `validate:"gte=0"`
	HistoryMaxAge time.Duration `validate:"gte=0"`

	// HostPage is an HTML file to host the widget; empty uses the built-in page.
	HostPage string

	Port     string `validate:"required,numeric"`
	LogLevel string `validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}
	cfg := &AppConfig{}

	cfg.EnableWeather = getenvBool("ENABLE_WEATHER", true)
	cfg.WeatherKey = os.Getenv("WEATHER_KEY")

	cfg.LocationAPI = getenvDefault("LOCATION_API", providers.DefaultIPAPIURL)
	cfg.CityLookupAPI = getenvDefault("CITY_LOOKUP_API", providers.DefaultQWeatherCityLookupURL)
	cfg.WeatherAPI = getenvDefault("WEATHER_API", providers.DefaultQWeatherNowURL)

	durations := []struct {
		key string
		def string
		dst *time.Duration
	}{
		{"UPDATE_INTERVAL", "1s", &cfg.UpdateInterval},
		{"RETRY_DELAY", "3s", &cfg.RetryDelay},
		{"WEATHER_DELAY", "1s", &cfg.WeatherDelay},
		{"NAVIGATION_DELAY", "300ms", &cfg.NavigationDelay},
		{"HTTP_TIMEOUT", "10s", &cfg.HTTPTimeout},
		{"HISTORY_MAX_AGE", "1h", &cfg.HistoryMaxAge},
	}
	for _, d := range durations {
		v, err := time.ParseDuration(getenvDefault(d.key, d.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", d.key, err)
		}
		*d.dst = v
	}

	maxRetries, err := strconv.Atoi(getenvDefault("MAX_RETRIES", "3"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_RETRIES: %w", err)
	}
	cfg.MaxRetries = maxRetries

	historySize, err := strconv.Atoi(getenvDefault("HISTORY_SIZE", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid HISTORY_SIZE: %w", err)
	}
	cfg.HistorySize = historySize

	cfg.Selectors = DefaultSelectors
	if v := os.Getenv("CONTAINER_SELECTORS"); v != "" {
		cfg.Selectors = splitList(v)
	}
	cfg.NavigationGlobal = getenvDefault("NAVIGATION_GLOBAL", "pjax")
	cfg.EnableNavigation = getenvBool("ENABLE_NAVIGATION", true)

	cfg.HostPage = os.Getenv("HOST_PAGE")
	cfg.Port = getenvDefault("PORT", "8080")
	cfg.LogLevel = strings.ToLower(getenvDefault("LOG_LEVEL", "info"))

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// WeatherActive reports whether weather lookups will run.
func (c *AppConfig) WeatherActive() bool {
	return c.EnableWeather && c.WeatherKey != ""
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

// splitList splits a comma separated list, dropping blanks. Commas inside
// brackets are kept so attribute selectors survive.
func splitList(s string) []string {
	var (
		out   []string
		depth int
		start int
	)
	flush := func(end int) {
		if item := strings.TrimSpace(s[start:end]); item != "" {
			out = append(out, item)
		}
	}
	for i, r := range s {
		switch r {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				flush(i)
				start = i + 1
			}
		}
	}
	flush(len(s))
	return out
}
