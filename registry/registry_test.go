package registry

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"treesearch/tree"
)

type stubNode struct {
	objective int
}

func (n stubNode) Objective() int { return n.objective }

func newTestRegistry(params tree.Params) *Registry {
	return Init(nil, stubNode{}, params, tree.Greater, tree.NewCountEnumerator, nil, uuid.New())
}

func TestRegistryBoundStartsUnsetWithoutInitialBound(t *testing.T) {
	reg := newTestRegistry(tree.Params{})
	_, ok := reg.Bound()
	require.False(t, ok)
}

func TestRegistryInstallsInitialBound(t *testing.T) {
	reg := newTestRegistry(tree.Params{InitialBound: 5, HasInitialBound: true})
	b, ok := reg.Bound()
	require.True(t, ok)
	require.Equal(t, 5, b)
}

func TestRegistryBoundIsMonotone(t *testing.T) {
	reg := newTestRegistry(tree.Params{})

	require.True(t, reg.UpdateBound(3))
	require.False(t, reg.UpdateBound(3), "equal values never replace the bound")
	require.False(t, reg.UpdateBound(1), "worse values never replace the bound")
	require.True(t, reg.UpdateBound(7))

	b, ok := reg.Bound()
	require.True(t, ok)
	require.Equal(t, 7, b)
}

func TestRegistryBoundUnderContention(t *testing.T) {
	reg := newTestRegistry(tree.Params{})

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			previous := -1
			for b := 0; b <= 100; b++ {
				reg.UpdateBound(b)
				current, ok := reg.Bound()
				require.True(t, ok)
				require.GreaterOrEqual(t, current, previous,
					"an observed bound never regresses")
				previous = current
			}
		}(w)
	}
	wg.Wait()

	b, ok := reg.Bound()
	require.True(t, ok)
	require.Equal(t, 100, b)
}

func TestRegistryMinimisationComparator(t *testing.T) {
	reg := Init(nil, stubNode{}, tree.Params{}, tree.Less, tree.NewCountEnumerator, nil, uuid.New())

	require.True(t, reg.UpdateBound(10))
	require.True(t, reg.UpdateBound(4))
	require.False(t, reg.UpdateBound(11))

	b, _ := reg.Bound()
	require.Equal(t, 4, b)
}

func TestRegistryStopFlag(t *testing.T) {
	reg := newTestRegistry(tree.Params{})
	require.False(t, reg.Stopped())
	reg.Stop()
	require.True(t, reg.Stopped())
}

func TestRegistryAccumulatesEnumerators(t *testing.T) {
	reg := newTestRegistry(tree.Params{})

	acc := tree.NewCountEnumerator()
	acc.Accumulate(stubNode{})
	acc.Accumulate(stubNode{})
	reg.Accumulate(acc)

	other := tree.NewCountEnumerator()
	other.Accumulate(stubNode{})
	reg.Accumulate(other)

	require.Equal(t, int64(3), reg.Enumerator().Get())
}
