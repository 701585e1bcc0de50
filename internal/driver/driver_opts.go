package driver

import "time"

type NodeDriverOpt func(*NodeDriver)

func WithTickLength(tickLength time.Duration) NodeDriverOpt {
	return func(d *NodeDriver) {
		d.tickLength = tickLength
	}
}
