// Package driver owns the node's update pulse. Anything that needs a
// periodic kick, like the pawn report, registers as a named Manager and gets
// ticked at a fixed interval from one loop.
package driver

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

const (
	DefaultTickLength = time.Second * 5
)

type Manager interface {
	Tick(context.Context) error
}

type NodeDriver struct {
	tickLength time.Duration
	managers   map[string]Manager
}

func NewNodeDriver(managers map[string]Manager, opts ...NodeDriverOpt) *NodeDriver {
	d := &NodeDriver{
		tickLength: DefaultTickLength,
		managers:   managers,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *NodeDriver) Start(ctx context.Context) error {
	ticker := time.NewTicker(d.tickLength)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			err := d.Tick(ctx)
			if err != nil {
				return err
			}
		}
	}
}

func (d *NodeDriver) Tick(ctx context.Context) error {
	for name, m := range d.managers {
		start := time.Now()
		if err := m.Tick(ctx); err != nil {
			return fmt.Errorf("ticking %s: %w", name, err)
		}
		if elapsed := time.Since(start); elapsed > d.tickLength {
			slog.WarnContext(ctx, "tick overran its interval",
				"manager", name, "elapsed", elapsed, "interval", d.tickLength)
		}
	}
	return nil
}
