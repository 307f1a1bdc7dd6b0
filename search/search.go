package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"treesearch/cluster"
	"treesearch/meta"
	"treesearch/registry"
	"treesearch/tree"
	"treesearch/workstealing"
)

// Result is what a search returns: the best node for optimisation and
// decision searches, the combined enumerator value for enumeration, plus
// the per-search metrics.
type Result struct {
	Best        tree.Node
	Objective   int
	Enumeration any
	Metrics     Metrics
}

type config struct {
	gen           tree.GeneratorFunc
	bound         tree.BoundFunc
	better        tree.ObjectiveComparison
	newEnum       tree.EnumeratorFunc
	pruneLevel    bool
	discrepancy   bool
	workpool      bool
	verbose       bool
	maxStackDepth int
	threads       int
}

type Option func(*config)

// WithBoundFunction installs the user's bound on the best descendant
// objective. Required for pruning.
func WithBoundFunction(f tree.BoundFunc) Option {
	return func(c *config) {
		if f != nil {
			c.bound = f
		}
	}
}

// WithObjectiveComparison replaces the default maximisation comparator.
func WithObjectiveComparison(better tree.ObjectiveComparison) Option {
	return func(c *config) {
		if better != nil {
			c.better = better
		}
	}
}

// WithPruneLevel skips all remaining siblings once one child is pruned.
// Only sound when the bound is monotone across the emitted child order.
func WithPruneLevel() Option {
	return func(c *config) {
		c.pruneLevel = true
	}
}

// WithEnumerator replaces the node-count enumerator.
func WithEnumerator(f tree.EnumeratorFunc) Option {
	return func(c *config) {
		if f != nil {
			c.newEnum = f
		}
	}
}

// WithMaxStackDepth sets the hard generator-stack capacity per task.
func WithMaxStackDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxStackDepth = depth
		}
	}
}

// WithDiscrepancySearch keys Ordered priorities by accumulated discrepancy
// instead of the parent child index.
func WithDiscrepancySearch() Option {
	return func(c *config) {
		c.discrepancy = true
	}
}

// WithWorkpoolPolicy makes DepthBounded use the deque workpool instead of
// the depth pool.
func WithWorkpoolPolicy() Option {
	return func(c *config) {
		c.workpool = true
	}
}

// WithThreads overrides the per-locality worker thread count.
func WithThreads(threads int) Option {
	return func(c *config) {
		if threads > 0 {
			c.threads = threads
		}
	}
}

// WithVerbose logs skeleton configuration and incumbent improvements.
func WithVerbose() Option {
	return func(c *config) {
		c.verbose = true
	}
}

func newConfig(gen tree.GeneratorFunc, options ...Option) config {
	c := config{ // Default values
		gen:           gen,
		better:        tree.Greater,
		newEnum:       tree.NewCountEnumerator,
		maxStackDepth: meta.MAX_STACK_DEPTH,
		threads:       meta.WorkerThreads(),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// driver is the shared runtime of one search call: registries, incumbent,
// schedulers and termination bookkeeping. Each strategy embeds one and
// plugs in its own spawn discipline and policy.
type driver struct {
	cluster  *cluster.Cluster
	cfg      config
	searchID uuid.UUID

	space  tree.Space
	root   tree.Node
	params tree.Params

	regs   []*registry.Registry
	scheds []*workstealing.Scheduler
	inc    *registry.Incumbent
	sem    *semaphore.Weighted

	metrics *collector
}

func newDriver(c *cluster.Cluster, cfg config) *driver {
	if c == nil {
		panic("search needs a cluster")
	}
	if cfg.gen == nil {
		panic("search needs a generator function")
	}
	return &driver{
		cluster: c,
		cfg:     cfg,
		metrics: newCollector(),
	}
}

// validate surfaces configuration errors before any task is spawned or
// resource acquired.
func (d *driver) validate(params tree.Params) error {
	switch params.Mode {
	case tree.Enumeration, tree.Optimisation, tree.Decision:
	default:
		return fmt.Errorf("unknown search mode %d", params.Mode)
	}
	if d.cfg.maxStackDepth < 1 {
		return fmt.Errorf("max stack depth must be positive, got %d", d.cfg.maxStackDepth)
	}
	if d.cfg.pruneLevel && d.cfg.bound == nil {
		return fmt.Errorf("prune level requires a bound function")
	}
	if params.SpawnProbability < 0 {
		return fmt.Errorf("spawn probability must be non-negative, got %d", params.SpawnProbability)
	}
	if params.SpawnDepth < 0 {
		return fmt.Errorf("spawn depth must be non-negative, got %d", params.SpawnDepth)
	}
	return nil
}

// init broadcasts registry initialization and installs the incumbent.
func (d *driver) init(space tree.Space, root tree.Node, params tree.Params) {
	d.space = space
	d.root = root
	d.params = params
	d.searchID = uuid.New()
	d.sem = semaphore.NewWeighted(meta.MAX_LIVE_TASKS)
	d.metrics.Start()

	if params.Mode != tree.Enumeration {
		d.inc = registry.NewIncumbent(d.cfg.better)
		if d.cfg.verbose {
			d.inc.WithVerbose()
		}
	}

	d.regs = make([]*registry.Registry, d.cluster.Size())
	d.cluster.Broadcast(func(locality int) error {
		d.regs[locality] = registry.Init(space, root, params, d.cfg.better,
			d.cfg.newEnum, d.inc, d.searchID)
		return nil
	})

	if d.inc != nil {
		d.inc.Update(root)
	}
}

// startSchedulers spins up one scheduler per locality over the given
// policies, wired for inter-locality stealing.
func (d *driver) startSchedulers(policies []workstealing.Policy) {
	d.scheds = make([]*workstealing.Scheduler, d.cluster.Size())
	d.cluster.Broadcast(func(locality int) error {
		d.scheds[locality] = workstealing.NewScheduler(locality, d.cfg.threads, policies[locality])
		d.scheds[locality].SetPeers(policies)
		return nil
	})
	d.cluster.Broadcast(func(locality int) error {
		d.scheds[locality].Start()
		return nil
	})
}

func (d *driver) stopSchedulers() {
	d.cluster.Broadcast(func(locality int) error {
		d.scheds[locality].Stop()
		return nil
	})
}

// stopAll raises the stop flag on every locality.
func (d *driver) stopAll() {
	for _, reg := range d.regs {
		reg.Stop()
	}
}

// improveBound broadcasts an improved bound to every registry. Receivers
// apply the same monotone rule, so reordered broadcasts are safe.
func (d *driver) improveBound(b int) {
	for _, reg := range d.regs {
		reg.UpdateBound(b)
	}
}

// spawn wraps a subtree body into a schedulable task and its completion
// future. The promise fires only after the body is done and every child
// future has resolved; no worker thread blocks waiting for children.
func (d *driver) spawn(body func(locality int, reg *registry.Registry, acc tree.Enumerator) ([]*cluster.Future, error)) (workstealing.Task, *cluster.Future) {
	prom := cluster.NewPromise()
	d.sem.Acquire(context.Background(), 1)
	d.metrics.AddTask()

	task := func(locality int) {
		reg := d.regs[locality]
		acc := d.cfg.newEnum()

		var futures []*cluster.Future
		var err error
		func() {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("user callback failure: %v", r)
				}
			}()
			futures, err = body(locality, reg, acc)
		}()

		if err != nil {
			// First failure wins; peers unwind on the stop flag.
			d.stopAll()
		}
		if d.params.Mode == tree.Enumeration {
			reg.Accumulate(acc)
		}

		d.cluster.Async(locality, func() {
			waitErr := cluster.WaitAll(futures)
			if err == nil {
				err = waitErr
			}
			prom.Set(err)
			d.sem.Release(1)
		})
	}
	return task, prom.Future()
}

// result reads the search outcome after the root promise fired.
func (d *driver) result() (Result, error) {
	res := Result{Metrics: d.metrics.Complete()}

	if d.params.Mode == tree.Enumeration {
		combined := d.cfg.newEnum()
		for _, reg := range d.regs {
			combined.Combine(reg.Enumerator())
		}
		res.Enumeration = combined.Get()
		return res, nil
	}

	best, found := d.inc.Get()
	if !found {
		return res, fmt.Errorf("no solution found")
	}
	res.Best = best
	res.Objective = best.Objective()
	return res, nil
}

func (d *driver) logDetails(skeleton string) {
	if !d.cfg.verbose {
		return
	}
	log.Info().
		Str("skeleton", skeleton).
		Str("mode", d.params.Mode.String()).
		Int("localities", d.cluster.Size()).
		Int("threads", d.cfg.threads).
		Int("maxStackDepth", d.cfg.maxStackDepth).
		Bool("bounded", d.cfg.bound != nil).
		Bool("pruneLevel", d.cfg.pruneLevel).
		Msg("starting search")
}
