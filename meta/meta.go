// meta/meta.go
package meta

import "github.com/shirou/gopsutil/v3/cpu"

// MAX_STACK_DEPTH is the default generator stack capacity per task.
const MAX_STACK_DEPTH = 5000

// SPAWN_DEPTH is the default task spawn depth for depth-bounded strategies.
const SPAWN_DEPTH = 4

// BACKTRACK_BUDGET is the default number of backtracks before offloading work.
const BACKTRACK_BUDGET = 1000

// MAX_LIVE_TASKS bounds the number of spawned-but-unfinished tasks.
const MAX_LIVE_TASKS = 1 << 16

// WorkerThreads returns the scheduler thread count for one locality:
// one thread per physical core, minus the coordinator thread.
func WorkerThreads() int {
	count, err := cpu.Counts(false)
	if err != nil || count <= 1 {
		return 1
	}
	return count - 1
}
