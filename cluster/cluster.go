package cluster

import (
	"fmt"

	"github.com/rs/zerolog/log"
)

// Cluster is the in-process actor substrate: a fixed set of localities
// addressed by id. Per-locality state (registries, policies, schedulers)
// is owned by the components that broadcast over the cluster; the cluster
// itself only knows how many localities exist and how to reach them.
type Cluster struct {
	size int
}

// New creates a cluster of size localities. Locality 0 hosts the
// coordinator and owns cluster-global singletons.
func New(size int) *Cluster {
	if size < 1 {
		panic("cluster needs at least one locality")
	}
	return &Cluster{size: size}
}

func (c *Cluster) Size() int {
	return c.size
}

// Localities returns every locality id, coordinator first.
func (c *Cluster) Localities() []int {
	ids := make([]int, c.size)
	for i := range ids {
		ids[i] = i
	}
	return ids
}

// Here is the locality the calling code runs on.
func (c *Cluster) Here() int {
	return 0
}

// Broadcast invokes f on each locality in turn, coordinator first. It stops
// at the first error and returns it; later localities are not invoked.
func (c *Cluster) Broadcast(f func(locality int) error) error {
	for _, id := range c.Localities() {
		if err := f(id); err != nil {
			return fmt.Errorf("broadcast to locality %d: %w", id, err)
		}
	}
	return nil
}

// Async schedules f on the given locality without waiting for it.
func (c *Cluster) Async(locality int, f func()) {
	if locality < 0 || locality >= c.size {
		log.Error().Msgf("async to unknown locality %d", locality)
		return
	}
	go f()
}
