// Package worker runs subtree searches on behalf of a remote coordinator.
// A worker process owns its own in-process cluster; only node payloads,
// bounds and the stop signal cross the wire.
package worker

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"treesearch/cluster"
	"treesearch/search"
	"treesearch/tree"
)

// Problem binds a concrete search space to the wire: the coordinator and
// workers must agree on one implementation.
type Problem interface {
	Space() tree.Space
	Root() tree.Node
	Generator() tree.GeneratorFunc
	Bound() tree.BoundFunc
	EncodeNode(n tree.Node) (json.RawMessage, error)
	DecodeNode(data json.RawMessage) (tree.Node, error)
}

// SearchRequest is one subtree assignment.
type SearchRequest struct {
	Root     json.RawMessage `json:"root"`
	Depth    int             `json:"depth"`
	Skeleton string          `json:"skeleton"`
	Params   tree.Params     `json:"params"`
}

// Worker serves subtree searches over HTTP, sharing bounds through the
// communicator between requests.
type Worker struct {
	problem    Problem
	comm       cluster.Communicator
	localities int
	threads    int
}

func New(problem Problem, comm cluster.Communicator, localities, threads int) *Worker {
	if problem == nil {
		panic("worker needs a problem")
	}
	return &Worker{
		problem:    problem,
		comm:       comm,
		localities: localities,
		threads:    threads,
	}
}

// Start serves the worker endpoints on addr. It blocks.
func (w *Worker) Start(addr string) error {
	log.Info().Msgf("starting search worker on %s", addr)
	return http.ListenAndServe(addr, w.Handler())
}

// Handler exposes the endpoint mux, for tests and embedding.
func (w *Worker) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/search", w.handleSearch)
	return mux
}

func (w *Worker) handleSearch(rw http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(rw, "bad request: "+err.Error(), http.StatusBadRequest)
		return
	}
	if w.comm != nil && w.comm.Stopped() {
		rw.WriteHeader(http.StatusNoContent)
		return
	}

	root, err := w.problem.DecodeNode(req.Root)
	if err != nil {
		http.Error(rw, "bad node: "+err.Error(), http.StatusBadRequest)
		return
	}

	params := req.Params
	if params.MaxDepth > 0 {
		// The subtree root already sits req.Depth below the real root.
		params.MaxDepth -= req.Depth
		if params.MaxDepth <= 0 {
			// The assignment is at the depth limit; it is its own result.
			payload, err := w.encodeResult(search.Result{Best: root, Objective: root.Objective()})
			if err != nil {
				http.Error(rw, "failed to encode result: "+err.Error(), http.StatusInternalServerError)
				return
			}
			rw.Header().Set("Content-Type", "application/json")
			json.NewEncoder(rw).Encode(payload)
			return
		}
	}
	if w.comm != nil {
		// Seed the local registries with the cluster-wide best bound.
		if b, ok := w.comm.GetBound(); ok {
			params.InitialBound = b
			params.HasInitialBound = true
		}
	}

	result, err := w.runSearch(req.Skeleton, root, params)
	if err != nil {
		http.Error(rw, "search failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	payload, err := w.encodeResult(result)
	if err != nil {
		http.Error(rw, "failed to encode result: "+err.Error(), http.StatusInternalServerError)
		return
	}

	if w.comm != nil {
		w.comm.PublishIncumbent(*payload)
	}
	rw.Header().Set("Content-Type", "application/json")
	json.NewEncoder(rw).Encode(payload)
}

func (w *Worker) runSearch(skeleton string, root tree.Node, params tree.Params) (search.Result, error) {
	if skeleton == "" {
		skeleton = "depthbounded"
	}
	options := []search.Option{search.WithBoundFunction(w.problem.Bound())}
	if w.threads > 0 {
		options = append(options, search.WithThreads(w.threads))
	}

	localities := w.localities
	if localities < 1 {
		localities = 1
	}
	searcher, err := search.ByName(skeleton, cluster.New(localities), w.problem.Generator(), options...)
	if err != nil {
		return search.Result{}, err
	}
	return searcher.Search(w.problem.Space(), root, params)
}

func (w *Worker) encodeResult(result search.Result) (*cluster.IncumbentMsg, error) {
	node, err := w.problem.EncodeNode(result.Best)
	if err != nil {
		return nil, err
	}
	return &cluster.IncumbentMsg{Node: node, Objective: result.Objective}, nil
}
