// Package coordinator drives a search across worker processes: it deals
// the root's depth-one subtrees to workers over HTTP and combines their
// results, sharing bounds through the bound server.
package coordinator

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog/log"

	"treesearch/cluster"
	"treesearch/search"
	"treesearch/tree"
	"treesearch/worker"
)

// Runner runs one configured search to completion.
type Runner interface {
	Run(params tree.Params) (search.Result, error)
}

type Coordinator struct {
	problem    worker.Problem
	workerURLs []string
	comm       cluster.Communicator
	skeleton   string
	better     tree.ObjectiveComparison
}

func New(problem worker.Problem, workerURLs []string, comm cluster.Communicator, skeleton string) *Coordinator {
	if len(workerURLs) == 0 {
		panic("coordinator needs at least one worker")
	}
	return &Coordinator{
		problem:    problem,
		workerURLs: workerURLs,
		comm:       comm,
		skeleton:   skeleton,
		better:     tree.Greater,
	}
}

// Run deals the root's children round-robin to the workers and waits for
// every subtree. The best response wins. In decision mode, once a worker's
// result meets the target the coordinator raises the stop flag on the bound
// server; workers check it before starting a subtree, not while searching.
func (c *Coordinator) Run(params tree.Params) (search.Result, error) {
	root := c.problem.Root()
	gen := c.problem.Generator()(c.problem.Space(), root)

	n := gen.NumChildren()
	if n == 0 {
		return search.Result{Best: root, Objective: root.Objective()}, nil
	}

	children := make([]tree.Node, n)
	for i := 0; i < n; i++ {
		children[i] = gen.Next()
	}

	log.Info().Msgf("dealing %d subtrees to %d workers", n, len(c.workerURLs))

	results := make([]*cluster.IncumbentMsg, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, child := range children {
		wg.Add(1)
		go func(i int, child tree.Node) {
			defer wg.Done()
			results[i], errs[i] = c.searchOn(c.workerURLs[i%len(c.workerURLs)], child, params)
		}(i, child)
	}
	wg.Wait()

	best := root
	for i := range results {
		if errs[i] != nil {
			return search.Result{}, errs[i]
		}
		if results[i] == nil {
			continue
		}
		node, err := c.problem.DecodeNode(results[i].Node)
		if err != nil {
			return search.Result{}, fmt.Errorf("worker returned a bad node: %w", err)
		}
		if c.better(node.Objective(), best.Objective()) {
			best = node
		}
	}
	return search.Result{Best: best, Objective: best.Objective()}, nil
}

// searchOn ships one subtree to a worker and reads back its incumbent.
func (c *Coordinator) searchOn(url string, subtree tree.Node, params tree.Params) (*cluster.IncumbentMsg, error) {
	encoded, err := c.problem.EncodeNode(subtree)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(worker.SearchRequest{
		Root:     encoded,
		Depth:    1,
		Skeleton: c.skeleton,
		Params:   params,
	})
	if err != nil {
		return nil, err
	}

	resp, err := http.Post(url+"/search", "application/json", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("worker %s unreachable: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNoContent {
		// Worker observed the stop signal before starting.
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("worker %s returned status %d", url, resp.StatusCode)
	}

	var msg cluster.IncumbentMsg
	if err := json.NewDecoder(resp.Body).Decode(&msg); err != nil {
		return nil, err
	}

	if params.Mode == tree.Decision && c.comm != nil {
		if msg.Objective == params.ExpectedObjective || c.better(msg.Objective, params.ExpectedObjective) {
			c.comm.PublishStop()
		}
	}
	return &msg, nil
}
