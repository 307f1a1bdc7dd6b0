package workstealing

import (
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/cluster"
)

/**
Position index atomicity: once a stealer claims an index, the owner's next
GetNextPosition must skip it, and the stolen path must name the claimed
position uniquely.
*/

func TestPositionIndexOwnerClaimsInOrder(t *testing.T) {
	pos := NewPositionIndex(nil)
	pos.SetNumChildren(3)

	require.Equal(t, 0, pos.GetNextPosition())
	require.Equal(t, 1, pos.GetNextPosition())
	require.Equal(t, 2, pos.GetNextPosition())
	require.Equal(t, -1, pos.GetNextPosition())
}

func TestPositionIndexStealIsSkippedByTheOwner(t *testing.T) {
	pos := NewPositionIndex([]int{4})
	pos.SetNumChildren(3)
	require.Equal(t, 0, pos.GetNextPosition())

	var path []int
	task := pos.Steal(func(p []int) (Task, *cluster.Future) {
		path = p
		return func(locality int) {}, cluster.NewPromise().Future()
	})
	require.NotNil(t, task)
	require.Equal(t, []int{4, 1}, path, "the stolen path extends the prefix by the claimed index")

	require.Equal(t, 2, pos.GetNextPosition(), "the owner skips the stolen index")
	require.Equal(t, -1, pos.GetNextPosition())
	require.Len(t, pos.ChildFutures(), 1)
}

func TestPositionIndexStealReachesDeeperLevels(t *testing.T) {
	pos := NewPositionIndex(nil)
	pos.SetNumChildren(1)
	require.Equal(t, 0, pos.GetNextPosition())
	pos.PreExpand(0)
	pos.SetNumChildren(2)
	require.Equal(t, 0, pos.GetNextPosition())

	var path []int
	task := pos.Steal(func(p []int) (Task, *cluster.Future) {
		path = p
		return func(locality int) {}, cluster.NewPromise().Future()
	})
	require.NotNil(t, task)
	require.Equal(t, []int{0, 1}, path,
		"with the root level drained the steal descends along the owner's choices")
}

func TestPositionIndexPruneLevelEndsTheLevel(t *testing.T) {
	pos := NewPositionIndex(nil)
	pos.SetNumChildren(5)
	require.Equal(t, 0, pos.GetNextPosition())

	pos.PruneLevel()
	require.Equal(t, -1, pos.GetNextPosition())

	task := pos.Steal(func(p []int) (Task, *cluster.Future) {
		return func(locality int) {}, cluster.NewPromise().Future()
	})
	require.Nil(t, task, "pruned positions are not stealable")
}

func TestPosManagerQueueAndSteal(t *testing.T) {
	mgr := NewPosManager()
	mgr.SetTaskFactory(func(p []int) (Task, *cluster.Future) {
		return func(locality int) {}, cluster.NewPromise().Future()
	})

	ran := false
	mgr.AddWork(func(locality int) { ran = true })
	require.True(t, mgr.WorkRemaining())

	mgr.GetWork()(0)
	require.True(t, ran)
	require.False(t, mgr.WorkRemaining())

	pos := NewPositionIndex(nil)
	pos.SetNumChildren(2)
	id := mgr.Register(pos)
	require.True(t, mgr.WorkRemaining())
	require.NotNil(t, mgr.Steal())

	mgr.Unregister(id)
	require.Nil(t, mgr.Steal())
}
