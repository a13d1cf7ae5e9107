package widget

import (
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/clock-widget/internal/scheduler"
)

// Trigger is what started a cycle.
type Trigger string

const (
	TriggerLoad       Trigger = "load"
	TriggerNavigation Trigger = "navigation"
	TriggerManual     Trigger = "manual"
)

// cycle is one initialization sequence, from the first mount attempt until
// the next teardown. It owns the retry state, the resolved city and every
// task scheduled on its behalf. Fields are guarded by Controller.mu.
type cycle struct {
	id        string
	trigger   Trigger
	startedAt time.Time

	attempts  int // mount attempts, initial one included
	retries   int // scheduled retries, never above Options.MaxRetries
	mounted   bool
	abandoned bool

	city           string
	weatherStarted bool

	tasks  []scheduler.Task
	closed bool
}

func newCycle(trigger Trigger, now time.Time) *cycle {
	return &cycle{
		id:        uuid.NewString(),
		trigger:   trigger,
		startedAt: now,
	}
}

func (cy *cycle) track(t scheduler.Task) {
	if t != nil {
		cy.tasks = append(cy.tasks, t)
	}
}

// close stops every task owned by the cycle. Results arriving afterwards are
// discarded.
func (cy *cycle) close() {
	if cy.closed {
		return
	}
	cy.closed = true
	for _, t := range cy.tasks {
		t.Stop()
	}
	cy.tasks = nil
}

// State is a snapshot of the current cycle.
type State struct {
	CycleID   string    `json:"cycleId"`
	Trigger   Trigger   `json:"trigger"`
	StartedAt time.Time `json:"startedAt"`
	Attempts  int       `json:"attempts"`
	Retries   int       `json:"retries"`
	Mounted   bool      `json:"mounted"`
	Abandoned bool      `json:"abandoned"`
	City      string    `json:"city,omitempty"`
	Present   bool      `json:"present"`
	EndedAt   time.Time `json:"endedAt,omitzero"`
}
