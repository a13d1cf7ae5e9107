package widget

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/clock-widget/internal/dom"
	"github.com/i474232898/clock-widget/internal/scheduler"
	"github.com/i474232898/clock-widget/internal/weather"
)

// Document is the part of the host page the widget touches.
type Document interface {
	Exists(id string) bool
	Remove(id string) bool
	PrependTo(sel dom.Selector, fragment string) (bool, error)
	SetText(id, text string) bool
	RemoveClass(id, class string) bool
	EnsureStylesheet(id, href string) (bool, error)
	HasGlobal(name string) bool
	AddEventListener(event string, fn func())
}

// Scheduler runs delayed and periodic work.
type Scheduler interface {
	Every(interval time.Duration, fn func()) (scheduler.Task, error)
	After(delay time.Duration, fn func()) (scheduler.Task, error)
}

// Lookups resolves the place and current weather.
type Lookups interface {
	Locate(ctx context.Context) (weather.Place, error)
	CurrentForCity(ctx context.Context, city string) (weather.Conditions, error)
}

// Recorder receives lifecycle events, typically for metrics.
type Recorder interface {
	CycleStarted(trigger string)
	MountAttempted()
	Mounted()
	MountAbandoned()
	LookupFinished(stage string, err error)
	StaleResult(stage string)
}

// Lookup stages reported to the Recorder.
const (
	StageLocation = "location"
	StageWeather  = "weather"
)

type nopRecorder struct{}

func (nopRecorder) CycleStarted(string)          {}
func (nopRecorder) MountAttempted()              {}
func (nopRecorder) Mounted()                     {}
func (nopRecorder) MountAbandoned()              {}
func (nopRecorder) LookupFinished(string, error) {}
func (nopRecorder) StaleResult(string)           {}

// Journal keeps the final state of ended cycles.
type Journal interface {
	Record(st State)
}

// Option customises a Controller.
type Option func(*Controller)

// WithRecorder reports lifecycle events to r.
func WithRecorder(r Recorder) Option {
	return func(c *Controller) {
		if r != nil {
			c.recorder = r
		}
	}
}

// WithJournal hands the final state of every ended cycle to j.
func WithJournal(j Journal) Option {
	return func(c *Controller) {
		c.journal = j
	}
}

// Controller owns the widget lifecycle: the initial mount on document ready,
// teardown and remount after navigation, and manual re-initialisation.
type Controller struct {
	doc      Document
	sched    Scheduler
	lookups  Lookups
	opts     Options
	recorder Recorder
	journal  Journal
	logger   zerolog.Logger

	mu       sync.Mutex
	current  *cycle
	started  bool
	inflight sync.WaitGroup
}

// NewController creates a Controller. Zero option values fall back to
// DefaultOptions.
func NewController(doc Document, sched Scheduler, lookups Lookups, opts Options, logger zerolog.Logger, options ...Option) *Controller {
	c := &Controller{
		doc:      doc,
		sched:    sched,
		lookups:  lookups,
		opts:     opts.withDefaults(),
		recorder: nopRecorder{},
		logger:   logger.With().Str("component", "clock-widget").Logger(),
	}
	for _, o := range options {
		o(c)
	}
	return c
}

// Start runs the document-ready sequence: attach the stylesheet, mount the
// widget and listen for navigation when the navigation library is present.
// Only the first call has an effect.
func (c *Controller) Start() {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return
	}
	c.started = true

	if inserted, err := c.doc.EnsureStylesheet(c.opts.StylesheetID, c.opts.StylesheetHref); err != nil {
		c.logger.Warn().Err(err).Msg("stylesheet not attached")
	} else if inserted {
		c.logger.Debug().Str("href", c.opts.StylesheetHref).Msg("stylesheet attached")
	}

	cy := c.beginCycle(TriggerLoad)
	c.attemptMount(cy)
	c.mu.Unlock()

	if c.opts.NavigationGlobal != "" && c.doc.HasGlobal(c.opts.NavigationGlobal) {
		c.doc.AddEventListener(c.opts.NavigationEvent, c.handleNavigation)
		c.logger.Debug().Str("event", c.opts.NavigationEvent).Msg("navigation listener installed")
	}
}

// Reinit tears down the current widget and mounts a fresh one immediately.
func (c *Controller) Reinit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardown()
	cy := c.beginCycle(TriggerManual)
	c.attemptMount(cy)
}

// handleNavigation tears down the current widget and schedules a fresh mount
// after the navigation delay.
func (c *Controller) handleNavigation() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.teardown()
	cy := c.beginCycle(TriggerNavigation)
	task, err := c.sched.After(c.opts.NavigationDelay, func() { c.mountLater(cy) })
	if err != nil {
		c.cycleLogger(cy).Error().Err(err).Msg("cannot schedule remount after navigation")
		return
	}
	cy.track(task)
}

// State returns a snapshot of the current cycle.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.snapshot(c.current)
}

// snapshot describes cy. Callers hold c.mu.
func (c *Controller) snapshot(cy *cycle) State {
	st := State{Present: c.doc.Exists(WidgetID)}
	if cy != nil {
		st.CycleID = cy.id
		st.Trigger = cy.trigger
		st.StartedAt = cy.startedAt
		st.Attempts = cy.attempts
		st.Retries = cy.retries
		st.Mounted = cy.mounted
		st.Abandoned = cy.abandoned
		st.City = cy.city
	}
	return st
}

// Close ends the current cycle and waits for in-flight lookups to return.
func (c *Controller) Close() {
	c.mu.Lock()
	c.endCycle()
	c.mu.Unlock()

	c.inflight.Wait()
}

// teardown closes the current cycle and removes the widget from the page.
// Callers hold c.mu.
func (c *Controller) teardown() {
	c.endCycle()
	// The host page may carry duplicate widget ids.
	for c.doc.Remove(WidgetID) {
		continue
	}
}

// endCycle closes the current cycle once and journals its final state.
// Callers hold c.mu.
func (c *Controller) endCycle() {
	cy := c.current
	if cy == nil || cy.closed {
		return
	}
	cy.close()
	if c.journal != nil {
		st := c.snapshot(cy)
		st.EndedAt = c.opts.Now()
		c.journal.Record(st)
	}
}

// beginCycle installs a fresh cycle. Callers hold c.mu.
func (c *Controller) beginCycle(trigger Trigger) *cycle {
	cy := newCycle(trigger, c.opts.Now())
	c.current = cy
	c.recorder.CycleStarted(string(trigger))
	c.cycleLogger(cy).Info().Msg("cycle started")
	return cy
}

func (c *Controller) cycleLogger(cy *cycle) *zerolog.Logger {
	l := c.logger.With().Str("cycle", cy.id).Str("trigger", string(cy.trigger)).Logger()
	return &l
}
