package search

import (
	"sync/atomic"
	"time"
)

// Metrics summarizes one search call.
type Metrics struct {
	StartTime time.Time
	Duration  time.Duration
	Nodes     int64
	Tasks     int64
}

type collector struct {
	startTime time.Time
	nodes     atomic.Int64
	tasks     atomic.Int64
}

func newCollector() *collector {
	return &collector{}
}

func (c *collector) Start() {
	c.startTime = time.Now()
	c.nodes.Store(0)
	c.tasks.Store(0)
}

func (c *collector) AddNode() {
	c.nodes.Add(1)
}

func (c *collector) AddTask() {
	c.tasks.Add(1)
}

func (c *collector) Complete() Metrics {
	return Metrics{
		StartTime: c.startTime,
		Duration:  time.Since(c.startTime),
		Nodes:     c.nodes.Load(),
		Tasks:     c.tasks.Load(),
	}
}
