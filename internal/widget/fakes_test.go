package widget

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/i474232898/clock-widget/internal/dom"
	"github.com/i474232898/clock-widget/internal/scheduler"
	"github.com/i474232898/clock-widget/internal/weather"
)

// fakeScheduler records tasks and only runs them when the test fires them.
type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

type fakeTask struct {
	s       *fakeScheduler
	d       time.Duration
	fn      func()
	repeat  bool
	done    bool
	stopped bool
}

func (t *fakeTask) Stop() {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	t.stopped = true
}

func (s *fakeScheduler) add(d time.Duration, fn func(), repeat bool) (scheduler.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := &fakeTask{s: s, d: d, fn: fn, repeat: repeat}
	s.tasks = append(s.tasks, t)
	return t, nil
}

func (s *fakeScheduler) Every(d time.Duration, fn func()) (scheduler.Task, error) {
	return s.add(d, fn, true)
}

func (s *fakeScheduler) After(d time.Duration, fn func()) (scheduler.Task, error) {
	return s.add(d, fn, false)
}

func (s *fakeScheduler) active(d time.Duration, repeat bool) []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTask
	for _, t := range s.tasks {
		if t.d == d && t.repeat == repeat && !t.done && !t.stopped {
			out = append(out, t)
		}
	}
	return out
}

// fire runs the pending one-shot tasks with delay d and returns how many ran.
func (s *fakeScheduler) fire(d time.Duration) int {
	tasks := s.active(d, false)
	for _, t := range tasks {
		s.mu.Lock()
		t.done = true
		s.mu.Unlock()
		t.fn()
	}
	return len(tasks)
}

// tick runs the live periodic tasks with interval d once.
func (s *fakeScheduler) tick(d time.Duration) int {
	tasks := s.active(d, true)
	for _, t := range tasks {
		t.fn()
	}
	return len(tasks)
}

func (s *fakeScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, t := range s.tasks {
		if !t.done && !t.stopped {
			n++
		}
	}
	return n
}

// fakeLookups scripts the lookup results.
type fakeLookups struct {
	mu       sync.Mutex
	locate   func(ctx context.Context) (weather.Place, error)
	current  func(ctx context.Context, city string) (weather.Conditions, error)
	locates  int
	currents []string
}

func (f *fakeLookups) Locate(ctx context.Context) (weather.Place, error) {
	f.mu.Lock()
	f.locates++
	fn := f.locate
	f.mu.Unlock()
	if fn == nil {
		return weather.Place{City: "Paris", Country: "France"}, nil
	}
	return fn(ctx)
}

func (f *fakeLookups) CurrentForCity(ctx context.Context, city string) (weather.Conditions, error) {
	f.mu.Lock()
	f.currents = append(f.currents, city)
	fn := f.current
	f.mu.Unlock()
	if fn == nil {
		return weather.Conditions{Text: "Clear", Temperature: "18"}, nil
	}
	return fn(ctx, city)
}

func (f *fakeLookups) weatherCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.currents...)
}

const hostWithSidebar = `<!DOCTYPE html><html><head><title>blog</title></head>
<body><main>post</main><div id="aside"><div class="card">profile</div></div></body></html>`

const hostWithoutSidebar = `<!DOCTYPE html><html><head><title>blog</title></head>
<body><main>post</main></body></html>`

var fixedNow = time.Date(2024, 3, 5, 9, 7, 3, 0, time.Local)

func testOptions() Options {
	opts := DefaultOptions()
	opts.WeatherKey = "secret"
	opts.Now = func() time.Time { return fixedNow }
	return opts
}

type harness struct {
	t       *testing.T
	doc     *dom.Document
	sched   *fakeScheduler
	lookups *fakeLookups
	ctrl    *Controller
}

func newHarness(t *testing.T, page string, opts Options) *harness {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("parse host page: %v", err)
	}
	h := &harness{
		t:       t,
		doc:     doc,
		sched:   &fakeScheduler{},
		lookups: &fakeLookups{},
	}
	h.ctrl = NewController(doc, h.sched, h.lookups, opts, zerolog.Nop())
	t.Cleanup(h.ctrl.Close)
	return h
}

// settle waits for lookups started so far to return.
func (h *harness) settle() {
	h.ctrl.inflight.Wait()
}

func (h *harness) text(id string) string {
	h.t.Helper()
	s, ok := h.doc.Text(id)
	if !ok {
		h.t.Fatalf("element #%s not found", id)
	}
	return s
}
