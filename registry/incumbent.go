package registry

import (
	"sync"

	"github.com/rs/zerolog/log"

	"treesearch/tree"
)

// Incumbent holds the best full solution seen anywhere in the cluster. It
// lives on the coordinator locality; updates are serialized under a single
// writer lock so the effective best value is monotone under the comparator.
type Incumbent struct {
	mutex   sync.Mutex
	better  tree.ObjectiveComparison
	best    tree.Node
	found   bool
	verbose bool
}

func NewIncumbent(better tree.ObjectiveComparison) *Incumbent {
	return &Incumbent{better: better}
}

// WithVerbose makes every accepted update log its objective.
func (i *Incumbent) WithVerbose() *Incumbent {
	i.verbose = true
	return i
}

// Update installs n if it is strictly better than the current incumbent.
// Ties keep the earlier arrival.
func (i *Incumbent) Update(n tree.Node) bool {
	i.mutex.Lock()
	defer i.mutex.Unlock()

	if i.found && !i.better(n.Objective(), i.best.Objective()) {
		return false
	}
	i.best = n
	i.found = true
	if i.verbose {
		log.Info().Msgf("new incumbent with objective %d", n.Objective())
	}
	return true
}

// Get returns the best solution seen so far.
func (i *Incumbent) Get() (tree.Node, bool) {
	i.mutex.Lock()
	defer i.mutex.Unlock()
	return i.best, i.found
}
