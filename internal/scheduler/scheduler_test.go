package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestAfterRunsOnce(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	done := make(chan struct{}, 4)
	if _, err := s.After(20*time.Millisecond, func() { done <- struct{}{} }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("task did not run")
	}

	select {
	case <-done:
		t.Fatal("one-shot task ran twice")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestEveryRepeatsUntilStopped(t *testing.T) {
	s := New(zerolog.Nop())
	defer s.Stop()

	var runs int32
	task, err := s.Every(20*time.Millisecond, func() { atomic.AddInt32(&runs, 1) })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for atomic.LoadInt32(&runs) < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if atomic.LoadInt32(&runs) < 2 {
		t.Fatalf("expected at least two runs, got %d", runs)
	}
	if s.Len() != 1 {
		t.Fatalf("expected one scheduled job, got %d", s.Len())
	}

	task.Stop()
	task.Stop()
	if s.Len() != 0 {
		t.Fatalf("expected job to be removed on Stop, got %d", s.Len())
	}
	time.Sleep(50 * time.Millisecond)
	after := atomic.LoadInt32(&runs)
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&runs); got != after {
		t.Fatalf("task kept running after Stop: %d -> %d", after, got)
	}
}

func TestScheduleValidation(t *testing.T) {
	s := New(zerolog.Nop())

	if _, err := s.After(0, func() {}); err == nil {
		t.Fatal("expected error for zero delay")
	}

	s.Stop()
	if _, err := s.Every(time.Second, func() {}); !errors.Is(err, ErrStopped) {
		t.Fatalf("expected ErrStopped, got %v", err)
	}
}
