package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/tree"
)

func buildStack(t *testing.T, capacity int) *generatorStack {
	t.Helper()
	space := &testSpace{height: 3}
	root := &testNode{}
	return newGeneratorStack(capacity, root, newTestGen(space, root))
}

func TestGeneratorStackWalksChildrenInOrder(t *testing.T) {
	stack := buildStack(t, 10)

	first, index, ok := stack.nextChild()
	require.True(t, ok)
	require.Equal(t, 0, index)
	require.Equal(t, 1, first.(*testNode).value)

	second, index, ok := stack.nextChild()
	require.True(t, ok)
	require.Equal(t, 1, index)
	require.Equal(t, 0, second.(*testNode).value)

	_, _, ok = stack.nextChild()
	require.False(t, ok, "a binary frame has two children")
	require.False(t, stack.pop(), "popping the only frame empties the stack")
}

func TestGeneratorStackSkipLevel(t *testing.T) {
	stack := buildStack(t, 10)
	stack.nextChild()
	stack.skipLevel()

	_, _, ok := stack.nextChild()
	require.False(t, ok)
}

func TestGeneratorStackOverflow(t *testing.T) {
	space := &testSpace{height: 5}
	stack := buildStack(t, 2)

	child, _, _ := stack.nextChild()
	require.NoError(t, stack.descend(child, newTestGen(space, child)))

	grandchild, _, _ := stack.nextChild()
	require.Error(t, stack.descend(grandchild, newTestGen(space, grandchild)))
}

func TestGeneratorStackDrainShallowest(t *testing.T) {
	space := &testSpace{height: 3}
	stack := buildStack(t, 10)

	child, _, _ := stack.nextChild()
	require.NoError(t, stack.descend(child, newTestGen(space, child)))

	// The root frame still holds one unseen child; the drain must take it,
	// not the deeper frame's work.
	nodes, frame, ok := stack.drainShallowest()
	require.True(t, ok)
	require.Equal(t, 0, frame)
	require.Len(t, nodes, 1)

	nodes, frame, ok = stack.drainShallowest()
	require.True(t, ok)
	require.Equal(t, 1, frame, "the next drain moves one frame deeper")
	require.Len(t, nodes, 2)

	_, _, ok = stack.drainShallowest()
	require.False(t, ok)
}

var _ tree.Generator = (*testGen)(nil)
var _ tree.IndexedGenerator = (*testGen)(nil)
