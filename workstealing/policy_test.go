package workstealing

import (
	"testing"

	"github.com/stretchr/testify/require"
)

/**
Policy disciplines:
- workpool: LIFO local pops, steals take the oldest (tail) entry
- depth pool: shallowest bucket first, newest-first within a bucket
- priority queue: lowest priority first, newest-first on ties
*/

func taskRecorder(order *[]int, id int) Task {
	return func(locality int) {
		*order = append(*order, id)
	}
}

func TestWorkpoolLocalPopsAreLIFO(t *testing.T) {
	var order []int
	pool := NewWorkpool()
	for i := 0; i < 3; i++ {
		pool.AddWork(taskRecorder(&order, i))
	}

	for pool.WorkRemaining() {
		pool.GetWork()(0)
	}
	require.Equal(t, []int{2, 1, 0}, order, "local pops should return newest first")
}

func TestWorkpoolStealsTakeTheTail(t *testing.T) {
	var order []int
	pool := NewWorkpool()
	for i := 0; i < 3; i++ {
		pool.AddWork(taskRecorder(&order, i))
	}

	pool.Steal()(1)
	pool.Steal()(1)
	require.Equal(t, []int{0, 1}, order, "steals should return oldest first")
	require.True(t, pool.WorkRemaining())
}

func TestDepthPoolPrefersShallowWork(t *testing.T) {
	var order []int
	pool := NewDepthPool()
	pool.AddWork(taskRecorder(&order, 30), 3)
	pool.AddWork(taskRecorder(&order, 10), 1)
	pool.AddWork(taskRecorder(&order, 11), 1)
	pool.AddWork(taskRecorder(&order, 20), 2)

	for pool.WorkRemaining() {
		pool.GetWork()(0)
	}
	require.Equal(t, []int{11, 10, 20, 30}, order,
		"shallowest bucket drains first, newest first within a bucket")
}

func TestDepthPoolStealMatchesGetWork(t *testing.T) {
	var order []int
	pool := NewDepthPool()
	pool.AddWork(taskRecorder(&order, 2), 2)
	pool.AddWork(taskRecorder(&order, 0), 0)

	pool.Steal()(1)
	require.Equal(t, []int{0}, order, "steals also take the shallowest entry")
}

func TestPriorityWorkqueueOrdering(t *testing.T) {
	var order []int
	q := NewPriorityWorkqueue()
	q.AddWork(2, taskRecorder(&order, 2))
	q.AddWork(0, taskRecorder(&order, 0))
	q.AddWork(1, taskRecorder(&order, 1))

	for q.WorkRemaining() {
		q.Steal()(0)
	}
	require.Equal(t, []int{0, 1, 2}, order, "lowest priority pops first")
}

func TestPriorityWorkqueueTieBreaksNewestFirst(t *testing.T) {
	var order []int
	q := NewPriorityWorkqueue()
	q.AddWork(5, taskRecorder(&order, 0))
	q.AddWork(5, taskRecorder(&order, 1))
	q.AddWork(5, taskRecorder(&order, 2))

	for q.WorkRemaining() {
		q.Steal()(0)
	}
	require.Equal(t, []int{2, 1, 0}, order, "equal priorities pop newest first")
}

func TestPriorityOrderedPolicyForwardsToTheGlobalQueue(t *testing.T) {
	var order []int
	global := NewPriorityWorkqueue()
	local := NewPriorityOrderedPolicy(global)
	remote := NewPriorityOrderedPolicy(global)

	local.AddWork(1, taskRecorder(&order, 1))
	remote.AddWork(0, taskRecorder(&order, 0))

	require.True(t, local.WorkRemaining())
	local.GetWork()(0)
	remote.Steal()(1)
	require.Equal(t, []int{0, 1}, order)
	require.False(t, remote.WorkRemaining())
}
