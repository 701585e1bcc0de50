package driver

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"
)

type countingManager struct {
	ticks int
	err   error
}

func (m *countingManager) Tick(ctx context.Context) error {
	m.ticks++
	return m.err
}

func TestTickRunsEveryManager(t *testing.T) {
	a := &countingManager{}
	b := &countingManager{}
	d := NewNodeDriver(map[string]Manager{"a": a, "b": b})

	if err := d.Tick(context.Background()); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if a.ticks != 1 || b.ticks != 1 {
		t.Errorf("ticks = %d/%d, want 1/1", a.ticks, b.ticks)
	}
}

func TestTickErrorNamesTheManager(t *testing.T) {
	m := &countingManager{err: fmt.Errorf("boom")}
	d := NewNodeDriver(map[string]Manager{"pawn-report": m})

	err := d.Tick(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "pawn-report") {
		t.Errorf("error = %q, want the manager named", err)
	}
}

func TestStartStopsOnManagerError(t *testing.T) {
	m := &countingManager{err: fmt.Errorf("boom")}
	d := NewNodeDriver(map[string]Manager{"m": m}, WithTickLength(time.Millisecond))

	errc := make(chan error, 1)
	go func() { errc <- d.Start(context.Background()) }()

	select {
	case err := <-errc:
		if err == nil {
			t.Fatal("expected error")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop")
	}
}

func TestStartStopsOnCancel(t *testing.T) {
	d := NewNodeDriver(map[string]Manager{"m": &countingManager{}}, WithTickLength(time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	go func() { errc <- d.Start(ctx) }()
	cancel()

	select {
	case err := <-errc:
		if err != nil {
			t.Fatalf("start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("driver did not stop")
	}
}
