package tree

// Space is the problem instance shared by every node of one search. It is
// opaque to the framework and never mutated after search entry.
type Space any

// Node is one point of the search tree: a partial solution together with
// its objective value. Implementations are value-like; the framework copies
// them freely between tasks and localities.
type Node interface {
	Objective() int
}

// Generator lazily produces the children of one node. A generator is not
// safe for concurrent use and is never shared between tasks.
type Generator interface {
	// NumChildren is fixed at construction time.
	NumChildren() int
	// Next returns the next unseen child. It is called at most NumChildren
	// times.
	Next() Node
}

// IndexedGenerator additionally supports random access to the k-th child
// without disturbing the Next sequence. Required by the Indexed strategy;
// the other strategies only call Next.
type IndexedGenerator interface {
	Generator
	Nth(k int) Node
}

// GeneratorFunc constructs a fresh generator for the children of parent.
type GeneratorFunc func(space Space, parent Node) Generator

// BoundFunc computes a bound on the best objective reachable in the
// subtree rooted at n. For maximisation it is an upper bound, for
// minimisation a lower bound.
type BoundFunc func(space Space, n Node) int

// ObjectiveComparison reports whether a is strictly better than b.
type ObjectiveComparison func(a, b int) bool

// Greater is the maximisation comparator, the default.
func Greater(a, b int) bool { return a > b }

// Less is the minimisation comparator.
func Less(a, b int) bool { return a < b }
