package metrics

import "time"

// SearchConfig identifies one runtime configuration under test.
type SearchConfig struct {
	ID         int
	Skeleton   string
	Localities int
	Threads    int
	SpawnDepth int
}

// RunRecord is the outcome of one search run.
type RunRecord struct {
	Config    int // SearchConfig.ID
	Instance  string
	Objective int
	Nodes     int64
	Tasks     int64
	Duration  time.Duration
}
