package coordinator

import (
	"treesearch/cluster"
	"treesearch/search"
	"treesearch/tree"
	"treesearch/worker"
)

// localRunner runs the whole search in-process on a simulated cluster. It
// is the single-machine counterpart of the HTTP coordinator and the
// reference the distributed mode is checked against.
type localRunner struct {
	problem    worker.Problem
	skeleton   string
	localities int
	threads    int
	options    []search.Option
}

func NewLocalRunner(problem worker.Problem, skeleton string, localities, threads int, options ...search.Option) *localRunner {
	if localities < 1 {
		localities = 1
	}
	return &localRunner{
		problem:    problem,
		skeleton:   skeleton,
		localities: localities,
		threads:    threads,
		options:    options,
	}
}

func (l *localRunner) Run(params tree.Params) (search.Result, error) {
	options := append([]search.Option{search.WithBoundFunction(l.problem.Bound())}, l.options...)
	if l.threads > 0 {
		options = append(options, search.WithThreads(l.threads))
	}

	searcher, err := search.ByName(l.skeleton, cluster.New(l.localities), l.problem.Generator(), options...)
	if err != nil {
		return search.Result{}, err
	}
	return searcher.Search(l.problem.Space(), l.problem.Root(), params)
}
