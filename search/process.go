package search

import (
	"github.com/rs/zerolog/log"

	"treesearch/registry"
	"treesearch/tree"
)

// nodeAction tells the expansion loop what to do with a freshly generated
// child.
type nodeAction int

const (
	// actDescend: the child survives bounding and may be expanded.
	actDescend nodeAction = iota
	// actPrune: the child's subtree cannot improve the bound.
	actPrune
	// actPruneLevel: prune the child and all its remaining siblings.
	actPruneLevel
	// actExit: the decision target was met; unwind the whole task.
	actExit
)

// processNode counts, bounds and prunes one node, updating the registry
// bound and the global incumbent when the node improves them. It is the
// single place where bound and incumbent rules live; every strategy's
// expansion loop calls it before descending into or spawning a child.
func (d *driver) processNode(reg *registry.Registry, acc tree.Enumerator, n tree.Node) nodeAction {
	d.metrics.AddNode()

	if d.params.Mode == tree.Enumeration {
		acc.Accumulate(n)
		return actDescend
	}

	objective := n.Objective()

	if d.cfg.bound != nil {
		ubound := d.cfg.bound(d.space, n)
		if current, ok := reg.Bound(); ok && !d.cfg.better(ubound, current) {
			if d.cfg.pruneLevel {
				return actPruneLevel
			}
			return actPrune
		}
	}

	switch d.params.Mode {
	case tree.Optimisation:
		if current, ok := reg.Bound(); !ok || d.cfg.better(objective, current) {
			if d.inc.Update(n) {
				log.Debug().Msgf("objective improved to %d", objective)
				d.improveBound(objective)
			}
		}

	case tree.Decision:
		if current, ok := reg.Bound(); !ok || d.cfg.better(objective, current) {
			d.inc.Update(n)
			d.improveBound(objective)
		}
		if objective == d.params.ExpectedObjective ||
			d.cfg.better(objective, d.params.ExpectedObjective) {
			d.inc.Update(n)
			d.stopAll()
			return actExit
		}
	}

	return actDescend
}

// belowDepthLimit reports whether a node at childDepth may have its
// children generated. Nodes at the limit are counted but never expanded.
func (d *driver) belowDepthLimit(childDepth int) bool {
	return d.params.MaxDepth <= 0 || childDepth < d.params.MaxDepth
}
