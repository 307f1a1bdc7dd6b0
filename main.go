package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"treesearch/cluster"
	"treesearch/cluster/client"
	"treesearch/cluster/server"
	"treesearch/coordinator"
	"treesearch/experiments"
	"treesearch/meta"
	"treesearch/problems/maxclique"
	"treesearch/problems/semigroups"
	"treesearch/search"
	"treesearch/tree"
	"treesearch/utils"
	"treesearch/worker"
)

type searchFlags struct {
	skeleton   string
	localities int
	threads    int
	spawnDepth int
	budget     int
	spawnProb  int
	stealAll   bool
	maxDepth   int
	pruneLevel bool
	verbose    bool
}

func (f *searchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.skeleton, "skeleton", "depthbounded",
		"search strategy: depthbounded|stacksteal|budget|ordered|basicrandom|indexed")
	cmd.Flags().IntVar(&f.localities, "localities", 1, "number of simulated localities")
	cmd.Flags().IntVar(&f.threads, "threads", 0, "worker threads per locality (0 = physical cores - 1)")
	cmd.Flags().IntVar(&f.spawnDepth, "spawn-depth", meta.SPAWN_DEPTH, "task spawn depth for depthbounded/ordered")
	cmd.Flags().IntVar(&f.budget, "budget", meta.BACKTRACK_BUDGET, "backtrack budget for the budget skeleton")
	cmd.Flags().IntVar(&f.spawnProb, "spawn-prob", 64, "spawn probability denominator for basicrandom")
	cmd.Flags().BoolVar(&f.stealAll, "steal-all", false, "steal whole sibling batches in stacksteal")
	cmd.Flags().IntVar(&f.maxDepth, "max-depth", 0, "depth limit (0 = unbounded)")
	cmd.Flags().BoolVar(&f.pruneLevel, "prune-level", false, "prune remaining siblings once one child is pruned")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "log search configuration and incumbent improvements")
}

func (f *searchFlags) validate() error {
	if utils.FindIndex(search.Skeletons, f.skeleton) == -1 {
		return fmt.Errorf("unknown skeleton %q", f.skeleton)
	}
	if f.localities < 1 {
		return fmt.Errorf("need at least one locality")
	}
	return nil
}

func (f *searchFlags) params(mode tree.Mode) tree.Params {
	p := tree.Params{
		Mode:            mode,
		MaxDepth:        f.maxDepth,
		SpawnDepth:      f.spawnDepth,
		BacktrackBudget: f.budget,
		StealAll:        f.stealAll,
	}
	if f.skeleton == "basicrandom" {
		p.SpawnProbability = f.spawnProb
	}
	return p
}

func (f *searchFlags) options(extra ...search.Option) []search.Option {
	options := extra
	if f.threads > 0 {
		options = append(options, search.WithThreads(f.threads))
	}
	if f.pruneLevel {
		options = append(options, search.WithPruneLevel())
	}
	if f.verbose {
		options = append(options, search.WithVerbose())
	}
	return options
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	root := &cobra.Command{
		Use:           "treesearch",
		Short:         "Parallel distributed tree search skeletons",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(maxcliqueCmd(), semigroupsCmd(), workerCmd(), coordinateCmd(), experimentCmd())

	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func maxcliqueCmd() *cobra.Command {
	var flags searchFlags
	var input string
	var decision bool
	var expected int

	cmd := &cobra.Command{
		Use:   "maxclique",
		Short: "Find a maximum clique in a DIMACS graph",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()
			graph, err := maxclique.ParseDIMACS(f)
			if err != nil {
				return err
			}

			mode := tree.Optimisation
			if decision {
				mode = tree.Decision
			}
			params := flags.params(mode)
			params.ExpectedObjective = expected

			searcher, err := search.ByName(flags.skeleton, cluster.New(flags.localities),
				maxclique.NewGenerator, flags.options(search.WithBoundFunction(maxclique.Bound))...)
			if err != nil {
				return err
			}
			result, err := searcher.Search(graph, maxclique.Root(graph), params)
			if err != nil {
				return err
			}

			clique := result.Best.(*maxclique.Clique)
			fmt.Printf("clique size %d: %v\n", result.Objective, clique.Members)
			fmt.Printf("nodes %d, tasks %d, took %s\n",
				result.Metrics.Nodes, result.Metrics.Tasks, result.Metrics.Duration)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&input, "input", "", "DIMACS clique input file")
	cmd.Flags().BoolVar(&decision, "decision", false, "stop at the first clique of the expected size")
	cmd.Flags().IntVar(&expected, "expected", 0, "expected clique size for decision mode")
	cmd.MarkFlagRequired("input")
	return cmd
}

func semigroupsCmd() *cobra.Command {
	var flags searchFlags
	var genus int

	cmd := &cobra.Command{
		Use:   "semigroups",
		Short: "Count numerical semigroups per genus",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			space := semigroups.NewSpace(genus)
			params := flags.params(tree.Enumeration)
			params.MaxDepth = genus

			searcher, err := search.ByName(flags.skeleton, cluster.New(flags.localities),
				semigroups.NewGenerator,
				flags.options(search.WithEnumerator(semigroups.NewGenusCounts(genus)))...)
			if err != nil {
				return err
			}
			result, err := searcher.Search(space, semigroups.Root(space), params)
			if err != nil {
				return err
			}

			fmt.Printf("counts by genus: %v\n", result.Enumeration)
			fmt.Printf("nodes %d, tasks %d, took %s\n",
				result.Metrics.Nodes, result.Metrics.Tasks, result.Metrics.Duration)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().IntVar(&genus, "genus", 10, "enumerate semigroups up to this genus")
	return cmd
}

func workerCmd() *cobra.Command {
	var flags searchFlags
	var input, addr, boundServer string

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Serve subtree searches for a remote coordinator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()
			graph, err := maxclique.ParseDIMACS(f)
			if err != nil {
				return err
			}

			var comm cluster.Communicator
			if boundServer != "" {
				comm = client.NewBoundClient(boundServer)
			}
			w := worker.New(maxclique.NewProblem(graph), comm, flags.localities, flags.threads)
			return w.Start(addr)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&input, "input", "", "DIMACS clique input file")
	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&boundServer, "bound-server", "", "bound server URL")
	cmd.MarkFlagRequired("input")
	return cmd
}

func coordinateCmd() *cobra.Command {
	var flags searchFlags
	var input, workers, boundAddr string

	cmd := &cobra.Command{
		Use:   "coordinate",
		Short: "Distribute a max-clique search across workers",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := flags.validate(); err != nil {
				return err
			}
			f, err := os.Open(input)
			if err != nil {
				return err
			}
			defer f.Close()
			graph, err := maxclique.ParseDIMACS(f)
			if err != nil {
				return err
			}
			urls := strings.Split(workers, ",")
			if len(urls) == 0 || urls[0] == "" {
				return fmt.Errorf("at least one worker URL is required")
			}

			bounds := server.NewBoundServer(tree.Greater)
			go bounds.Start(boundAddr)

			c := coordinator.New(maxclique.NewProblem(graph), urls, bounds, flags.skeleton)
			result, err := c.Run(flags.params(tree.Optimisation))
			if err != nil {
				return err
			}

			clique := result.Best.(*maxclique.Clique)
			fmt.Printf("clique size %d: %v\n", result.Objective, clique.Members)
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&input, "input", "", "DIMACS clique input file")
	cmd.Flags().StringVar(&workers, "workers", "", "comma-separated worker URLs")
	cmd.Flags().StringVar(&boundAddr, "bound-addr", ":8079", "bound server listen address")
	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("workers")
	return cmd
}

func experimentCmd() *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "experiment",
		Short: "Run a measurement harness",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch name {
			case "scaling":
				experiments.RunScalingExperiment()
			case "throughput":
				experiments.RunThroughputExperiment()
			default:
				return fmt.Errorf("unknown experiment %q", name)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "scaling", "experiment to run: scaling|throughput")
	return cmd
}
