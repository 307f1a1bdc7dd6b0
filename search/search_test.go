package search

import (
	"treesearch/tree"
)

/**
Shared test fixtures: a full binary tree of a given height.

Nodes carry a value built from the path bits (child value = parent value*2
+ bit), so the best objective in a tree of height h is 2^h - 1 at the
all-ones leaf, and the total node count is 2^(h+1) - 1. Generators emit
the 1-bit child first so the exact bound is non-increasing across the
child order, which makes level pruning sound.
*/

type testSpace struct {
	height int
}

type testNode struct {
	depth int
	value int
}

func (n *testNode) Objective() int {
	return n.value
}

type testGen struct {
	space  *testSpace
	parent *testNode
	next   int
}

func newTestGen(space tree.Space, parent tree.Node) tree.Generator {
	return &testGen{space: space.(*testSpace), parent: parent.(*testNode)}
}

func (g *testGen) NumChildren() int {
	if g.parent.depth >= g.space.height {
		return 0
	}
	return 2
}

func (g *testGen) Next() tree.Node {
	child := g.Nth(g.next)
	g.next++
	return child
}

// Nth emits the 1-bit child first.
func (g *testGen) Nth(k int) tree.Node {
	bit := 1 - k
	return &testNode{
		depth: g.parent.depth + 1,
		value: g.parent.value*2 + bit,
	}
}

// testBound is the exact bound: the best leaf value below n.
func testBound(space tree.Space, n tree.Node) int {
	s := space.(*testSpace)
	node := n.(*testNode)
	remaining := s.height - node.depth
	value := node.value
	for i := 0; i < remaining; i++ {
		value = value*2 + 1
	}
	return value
}

func testTreeNodes(height int) int64 {
	return (1 << (height + 1)) - 1
}

func testTreeBest(height int) int {
	return (1 << height) - 1
}

// panicGen fails below the root, for callback failure tests.
func panicGen(space tree.Space, parent tree.Node) tree.Generator {
	if parent.(*testNode).depth >= 1 {
		panic("generator blew up")
	}
	return newTestGen(space, parent)
}
