package widget

import (
	"time"

	"github.com/i474232898/clock-widget/internal/dom"
)

// Options configures a Controller. They do not change after construction.
type Options struct {
	EnableWeather bool
	// WeatherKey is the weather provider credential; weather is never
	// resolved without one, even when EnableWeather is set.
	WeatherKey string

	UpdateInterval  time.Duration
	RetryDelay      time.Duration
	MaxRetries      int
	WeatherDelay    time.Duration
	NavigationDelay time.Duration
	LookupTimeout   time.Duration

	// Selectors are tried in order; the first matching element hosts the
	// widget.
	Selectors []dom.Selector

	StylesheetID   string
	StylesheetHref string

	NavigationGlobal string
	NavigationEvent  string

	Now func() time.Time
}

// DefaultSelectors returns the container selectors in priority order.
func DefaultSelectors() []dom.Selector {
	return []dom.Selector{
		dom.ByID("aside"),
		dom.ByClass("aside"),
		dom.ByClass("sidebar"),
		dom.ByClass("sticky_layout"),
		dom.ByClass("site-aside"),
		dom.ByAttr("role", "complementary"),
	}
}

// DefaultOptions mirrors the widget's stock configuration. Weather stays off
// until a key is supplied.
func DefaultOptions() Options {
	return Options{
		EnableWeather:    true,
		UpdateInterval:   time.Second,
		RetryDelay:       3 * time.Second,
		MaxRetries:       3,
		WeatherDelay:     time.Second,
		NavigationDelay:  300 * time.Millisecond,
		LookupTimeout:    10 * time.Second,
		Selectors:        DefaultSelectors(),
		StylesheetID:     "clock-widget-css",
		StylesheetHref:   "/css/clock-widget.css",
		NavigationGlobal: "pjax",
		NavigationEvent:  "pjax:complete",
		Now:              time.Now,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.UpdateInterval <= 0 {
		o.UpdateInterval = def.UpdateInterval
	}
	if o.RetryDelay <= 0 {
		o.RetryDelay = def.RetryDelay
	}
	if o.MaxRetries < 0 {
		o.MaxRetries = 0
	}
	if o.WeatherDelay <= 0 {
		o.WeatherDelay = def.WeatherDelay
	}
	if o.NavigationDelay <= 0 {
		o.NavigationDelay = def.NavigationDelay
	}
	if o.LookupTimeout <= 0 {
		o.LookupTimeout = def.LookupTimeout
	}
	if len(o.Selectors) == 0 {
		o.Selectors = def.Selectors
	}
	if o.StylesheetID == "" {
		o.StylesheetID = def.StylesheetID
	}
	if o.StylesheetHref == "" {
		o.StylesheetHref = def.StylesheetHref
	}
	if o.NavigationEvent == "" {
		o.NavigationEvent = def.NavigationEvent
	}
	if o.Now == nil {
		o.Now = def.Now
	}
	return o
}
