package search

import (
	"fmt"

	"treesearch/cluster"
	"treesearch/tree"
)

// Searcher is any of the strategies.
type Searcher interface {
	Search(space tree.Space, root tree.Node, params tree.Params) (Result, error)
}

// Skeletons lists the selectable strategy names.
var Skeletons = []string{"depthbounded", "stacksteal", "budget", "ordered", "basicrandom", "indexed"}

// ByName builds the named strategy, for the CLI selector and the worker
// protocol.
func ByName(name string, c *cluster.Cluster, gen tree.GeneratorFunc, options ...Option) (Searcher, error) {
	switch name {
	case "depthbounded":
		return NewDepthBounded(c, gen, options...), nil
	case "stacksteal":
		return NewStackStealing(c, gen, options...), nil
	case "budget":
		return NewBudget(c, gen, options...), nil
	case "ordered":
		return NewOrdered(c, gen, options...), nil
	case "basicrandom":
		return NewRandom(c, gen, options...), nil
	case "indexed":
		return NewIndexed(c, gen, options...), nil
	}
	return nil, fmt.Errorf("unknown skeleton %q", name)
}
