package workstealing

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Scheduler counters, labelled by locality. Registered once for the
// process; experiment runs scrape them between searches.
var (
	tasksExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treesearch_tasks_executed_total",
		Help: "Tasks executed by scheduler workers.",
	}, []string{"locality"})

	stealAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treesearch_steal_attempts_total",
		Help: "Remote steal attempts issued by idle workers.",
	}, []string{"locality"})

	stealSuccesses = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "treesearch_steal_successes_total",
		Help: "Remote steal attempts that returned work.",
	}, []string{"locality"})
)
