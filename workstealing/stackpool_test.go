package workstealing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/cluster"
	"treesearch/tree"
)

type countNode struct {
	id int
}

func (n countNode) Objective() int { return n.id }

type sliceGen struct {
	children []tree.Node
	next     int
}

func (g *sliceGen) NumChildren() int { return len(g.children) }

func (g *sliceGen) Next() tree.Node {
	c := g.children[g.next]
	g.next++
	return c
}

func nodes(ids ...int) []tree.Node {
	out := make([]tree.Node, len(ids))
	for i, id := range ids {
		out[i] = countNode{id: id}
	}
	return out
}

func TestSharedStackOwnerWalk(t *testing.T) {
	root := countNode{id: 0}
	stack := NewSharedStack(10, 0, root, &sliceGen{children: nodes(1, 2)})

	child, ok := stack.NextChild()
	require.True(t, ok)
	require.Equal(t, countNode{id: 1}, child)

	require.NoError(t, stack.Descend(child, &sliceGen{}))
	_, ok = stack.NextChild()
	require.False(t, ok, "leaf frame has no children")
	require.True(t, stack.Pop())

	child, ok = stack.NextChild()
	require.True(t, ok)
	require.Equal(t, countNode{id: 2}, child)

	_, ok = stack.NextChild()
	require.False(t, ok)
	require.False(t, stack.Pop(), "popping the root frame empties the stack")
}

func TestSharedStackOverflowFails(t *testing.T) {
	stack := NewSharedStack(2, 0, countNode{}, &sliceGen{children: nodes(1)})
	require.NoError(t, stack.Descend(countNode{id: 1}, &sliceGen{children: nodes(2)}))
	require.Error(t, stack.Descend(countNode{id: 2}, &sliceGen{}))
}

func TestSharedStackStealTakesTheShallowestFrame(t *testing.T) {
	stack := NewSharedStack(10, 3, countNode{id: 0}, &sliceGen{children: nodes(1, 2, 3)})

	// Owner moved into child 1; children 2 and 3 are unseen at the root frame.
	child, _ := stack.NextChild()
	require.NoError(t, stack.Descend(child, &sliceGen{children: nodes(10, 11)}))

	var stolen []tree.Node
	var stolenDepth int
	task := stack.StealShallowest(false, func(depth int, roots []tree.Node) (Task, *cluster.Future) {
		stolen = roots
		stolenDepth = depth
		return func(locality int) {}, cluster.NewPromise().Future()
	})
	require.NotNil(t, task)
	require.Equal(t, nodes(2), stolen, "a single steal takes one sibling")
	require.Equal(t, 4, stolenDepth, "stolen children sit one below the victim frame")
	require.Len(t, stack.ChildFutures(), 1, "the victim must await the thief")
}

func TestSharedStackStealAllTakesTheBatch(t *testing.T) {
	stack := NewSharedStack(10, 0, countNode{id: 0}, &sliceGen{children: nodes(1, 2, 3)})

	var stolen []tree.Node
	task := stack.StealShallowest(true, func(depth int, roots []tree.Node) (Task, *cluster.Future) {
		stolen = roots
		return func(locality int) {}, cluster.NewPromise().Future()
	})
	require.NotNil(t, task)
	require.Equal(t, nodes(1, 2, 3), stolen, "stealAll drains the whole frame")

	_, ok := stack.NextChild()
	require.False(t, ok, "the owner sees the frame exhausted afterwards")
}

func TestStackPoolPrefersPendingOverStacks(t *testing.T) {
	pool := NewStackPool(false)
	pool.SetTaskFactory(func(depth int, roots []tree.Node) (Task, *cluster.Future) {
		return func(locality int) {}, cluster.NewPromise().Future()
	})

	ran := false
	pool.AddWork(func(locality int) { ran = true })

	stack := NewSharedStack(10, 0, countNode{}, &sliceGen{children: nodes(1)})
	pool.Register(stack)

	pool.Steal()(0)
	require.True(t, ran, "queued tasks go before raiding a live stack")
	require.True(t, pool.WorkRemaining(), "the registered stack still holds work")

	require.NotNil(t, pool.Steal(), "with the queue dry the live stack is raided")
	require.False(t, pool.WorkRemaining())
}

func TestStackPoolUnregisteredStackIsInvisible(t *testing.T) {
	pool := NewStackPool(false)
	pool.SetTaskFactory(func(depth int, roots []tree.Node) (Task, *cluster.Future) {
		return func(locality int) {}, cluster.NewPromise().Future()
	})

	stack := NewSharedStack(10, 0, countNode{}, &sliceGen{children: nodes(1)})
	id := pool.Register(stack)
	pool.Unregister(id)

	require.Nil(t, pool.Steal())
	require.False(t, pool.WorkRemaining())
}
