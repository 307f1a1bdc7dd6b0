package experiments

import (
	"github.com/rs/zerolog/log"

	"treesearch/cluster"
	"treesearch/problems/semigroups"
	"treesearch/search"
	"treesearch/tree"
)

// RunThroughputExperiment enumerates numerical semigroups and reports node
// throughput per thread count. Enumeration has no pruning, so the node
// count is fixed and the numbers compare cleanly.
func RunThroughputExperiment() {
	const Genus = 12
	threadCounts := []int{1, 2, 4, 8}

	space := semigroups.NewSpace(Genus)

	log.Info().Msg("starting throughput experiment...")

	for _, threads := range threadCounts {
		searcher := search.NewDepthBounded(cluster.New(1), semigroups.NewGenerator,
			search.WithThreads(threads),
			search.WithEnumerator(semigroups.NewGenusCounts(Genus)),
		)
		params := tree.Params{
			Mode:       tree.Enumeration,
			MaxDepth:   Genus,
			SpawnDepth: 3,
		}

		result, err := searcher.Search(space, semigroups.Root(space), params)
		if err != nil {
			log.Error().Err(err).Msgf("throughput run with %d threads failed", threads)
			continue
		}

		nodesPerSec := float64(result.Metrics.Nodes) / result.Metrics.Duration.Seconds()
		log.Info().
			Int("threads", threads).
			Int64("nodes", result.Metrics.Nodes).
			Int64("tasks", result.Metrics.Tasks).
			Dur("duration", result.Metrics.Duration).
			Float64("nodesPerSec", nodesPerSec).
			Msg("throughput run complete")
	}

	log.Info().Msg("finished throughput experiment.")
}
