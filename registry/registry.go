package registry

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"treesearch/tree"
)

// Registry is the per-locality shared state of one search: the space, the
// root, the replicated parameters, the local best bound, the incumbent
// handle, the stop flag and the enumeration accumulator. A fresh registry
// is broadcast-installed on every locality at search entry and discarded
// when the search returns.
type Registry struct {
	SearchID uuid.UUID
	Space    tree.Space
	Root     tree.Node
	Params   tree.Params

	better    tree.ObjectiveComparison
	incumbent *Incumbent

	// boundMu serializes writers; readers go through the atomics only.
	boundMu    sync.Mutex
	localBound atomic.Int64
	boundSet   atomic.Bool

	stop atomic.Bool

	enumMu sync.Mutex
	acc    tree.Enumerator
}

// Init builds the registry for one locality. The incumbent handle is nil
// for enumeration searches.
func Init(space tree.Space, root tree.Node, params tree.Params,
	better tree.ObjectiveComparison, newEnum tree.EnumeratorFunc,
	incumbent *Incumbent, searchID uuid.UUID) *Registry {

	r := &Registry{
		SearchID:  searchID,
		Space:     space,
		Root:      root,
		Params:    params,
		better:    better,
		incumbent: incumbent,
		acc:       newEnum(),
	}
	if params.HasInitialBound {
		r.localBound.Store(int64(params.InitialBound))
		r.boundSet.Store(true)
	}
	return r
}

// UpdateBound installs b if it strictly improves the current local bound.
// The bound never regresses.
func (r *Registry) UpdateBound(b int) bool {
	r.boundMu.Lock()
	defer r.boundMu.Unlock()

	if r.boundSet.Load() && !r.better(b, int(r.localBound.Load())) {
		return false
	}
	r.localBound.Store(int64(b))
	r.boundSet.Store(true)
	return true
}

// Bound returns the current local bound, if any has been installed.
func (r *Registry) Bound() (int, bool) {
	if !r.boundSet.Load() {
		return 0, false
	}
	return int(r.localBound.Load()), true
}

// Incumbent returns the handle to the cluster-global incumbent.
func (r *Registry) Incumbent() *Incumbent {
	return r.incumbent
}

// Stop requests search termination on this locality.
func (r *Registry) Stop() {
	r.stop.Store(true)
}

func (r *Registry) Stopped() bool {
	return r.stop.Load()
}

// Accumulate folds one task's enumerator into the locality accumulator.
func (r *Registry) Accumulate(acc tree.Enumerator) {
	r.enumMu.Lock()
	defer r.enumMu.Unlock()
	r.acc.Combine(acc)
}

// Enumerator returns the locality accumulator for the final combine.
func (r *Registry) Enumerator() tree.Enumerator {
	r.enumMu.Lock()
	defer r.enumMu.Unlock()
	return r.acc
}
