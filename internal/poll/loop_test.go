package poll

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestRun_ImmediateFirstTick(t *testing.T) {
	var ticks atomic.Int64
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := &Loop{
		Name:     "test",
		Interval: time.Hour,
		Task: func(ctx context.Context) error {
			if ticks.Add(1) == 1 {
				close(done)
			}
			return nil
		},
	}
	go l.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("first tick did not run immediately")
	}
	if got := ticks.Load(); got != 1 {
		t.Errorf("ticks = %d, want 1", got)
	}
}

func TestRun_SurvivesErrorsAndPanics(t *testing.T) {
	var ticks atomic.Int64
	done := make(chan struct{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	l := &Loop{
		Name:     "flaky",
		Interval: 5 * time.Millisecond,
		Task: func(ctx context.Context) error {
			switch ticks.Add(1) {
			case 1:
				return errors.New("transient")
			case 2:
				panic("boom")
			case 3:
				close(done)
			}
			return nil
		},
	}
	go l.Run(ctx)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not survive error and panic ticks")
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	var ticks atomic.Int64
	ctx, cancel := context.WithCancel(context.Background())

	stopped := make(chan struct{})
	l := &Loop{
		Name:     "stoppable",
		Interval: time.Millisecond,
		Task: func(ctx context.Context) error {
			ticks.Add(1)
			return nil
		},
	}
	go func() {
		l.Run(ctx)
		close(stopped)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not stop on context cancellation")
	}
	n := ticks.Load()
	time.Sleep(20 * time.Millisecond)
	if got := ticks.Load(); got != n {
		t.Errorf("loop ticked after cancellation: %d -> %d", n, got)
	}
}

func TestRun_InitialDelayHonorsCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ticks atomic.Int64
	l := &Loop{
		Name:         "delayed",
		Interval:     time.Millisecond,
		InitialDelay: time.Hour,
		Task: func(ctx context.Context) error {
			ticks.Add(1)
			return nil
		},
	}

	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("loop did not exit during initial delay")
	}
	if ticks.Load() != 0 {
		t.Error("task ran despite cancelled context")
	}
}
