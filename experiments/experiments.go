package experiments

import (
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"

	"treesearch/cluster"
	"treesearch/experiments/metrics"
	"treesearch/problems/maxclique"
	"treesearch/search"
	"treesearch/tree"
)

const (
	NumRuns       = 3 // Per configuration; each run uses its own random instance
	InstanceOrder = 36
	EdgeDensity   = 0.5
)

var scalingConfigs = []metrics.SearchConfig{
	{ID: 1, Skeleton: "depthbounded", Localities: 1, Threads: 1, SpawnDepth: 2},
	{ID: 2, Skeleton: "depthbounded", Localities: 1, Threads: 4, SpawnDepth: 2},
	{ID: 3, Skeleton: "depthbounded", Localities: 2, Threads: 4, SpawnDepth: 2},
	{ID: 4, Skeleton: "stacksteal", Localities: 2, Threads: 4},
	{ID: 5, Skeleton: "budget", Localities: 2, Threads: 4},
	{ID: 6, Skeleton: "ordered", Localities: 2, Threads: 4, SpawnDepth: 2},
	{ID: 7, Skeleton: "basicrandom", Localities: 2, Threads: 4},
}

// RunScalingExperiment measures every skeleton on the same random
// max-clique instances across worker configurations.
func RunScalingExperiment() {
	writer, err := metrics.NewWriter("scaling")
	if err != nil {
		panic(fmt.Sprintf("failed to create experiment writer: %v", err))
	}
	err = writer.WriteSearchConfigs(scalingConfigs)
	if err != nil {
		panic(fmt.Sprintf("failed to store search configs: %v", err))
	}

	log.Info().Msg("starting scaling experiment...")

	records := []metrics.RunRecord{}
	for _, config := range scalingConfigs {
		log.Info().Msgf("running config %+v...", config)
		for run := 0; run < NumRuns; run++ {
			instance := fmt.Sprintf("gnp-%d-%d", InstanceOrder, run)
			graph := randomGraph(InstanceOrder, EdgeDensity, uint64(run))

			record, err := runSearch(config, instance, graph)
			if err != nil {
				panic(fmt.Sprintf("search failed: %v", err))
			}
			records = append(records, record)
		}
	}

	err = writer.WriteRunRecords(records)
	if err != nil {
		panic(fmt.Sprintf("failed to store run records: %v", err))
	}
	log.Info().Msg("finished scaling experiment.")
}

func runSearch(config metrics.SearchConfig, instance string, graph *maxclique.Graph) (metrics.RunRecord, error) {
	options := []search.Option{
		search.WithBoundFunction(maxclique.Bound),
		search.WithThreads(config.Threads),
	}
	searcher, err := search.ByName(config.Skeleton, cluster.New(config.Localities), maxclique.NewGenerator, options...)
	if err != nil {
		return metrics.RunRecord{}, err
	}

	params := tree.Params{
		Mode:            tree.Optimisation,
		SpawnDepth:      config.SpawnDepth,
		BacktrackBudget: 100,
		SpawnProbability: func() int {
			if config.Skeleton == "basicrandom" {
				return 32
			}
			return 0
		}(),
	}
	result, err := searcher.Search(graph, maxclique.Root(graph), params)
	if err != nil {
		return metrics.RunRecord{}, err
	}

	return metrics.RunRecord{
		Config:    config.ID,
		Instance:  instance,
		Objective: result.Objective,
		Nodes:     result.Metrics.Nodes,
		Tasks:     result.Metrics.Tasks,
		Duration:  result.Metrics.Duration,
	}, nil
}

// randomGraph samples G(n,p) with a fixed seed per run for repeatability.
func randomGraph(n int, p float64, seed uint64) *maxclique.Graph {
	rng := rand.New(rand.NewSource(seed))
	g := maxclique.NewGraph(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			if rng.Float64() < p {
				g.AddEdge(u, v)
			}
		}
	}
	return g
}
