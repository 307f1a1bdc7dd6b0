package server

import (
	"encoding/json"
	"net/http"
	"sync"

	"treesearch/cluster"
	"treesearch/tree"
)

// BoundServer hosts the shared search state for a multi-process run: the
// best known bound, the incumbent and the stop flag. Workers and the
// coordinator reach it over HTTP.
type BoundServer struct {
	better    tree.ObjectiveComparison
	bound     int
	hasBound  bool
	incumbent *cluster.IncumbentMsg
	stopped   bool
	mutex     sync.RWMutex
}

// NewBoundServer initializes and returns a new BoundServer.
func NewBoundServer(better tree.ObjectiveComparison) *BoundServer {
	return &BoundServer{
		better: better,
	}
}

// Start serves the bound endpoints on addr. It blocks.
func (bs *BoundServer) Start(addr string) error {
	return http.ListenAndServe(addr, bs.Handler())
}

// Handler exposes the endpoint mux, for tests and embedding.
func (bs *BoundServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/getBound", bs.handleGetBound)
	mux.HandleFunc("/updateBound", bs.handleUpdateBound)
	mux.HandleFunc("/getIncumbent", bs.handleGetIncumbent)
	mux.HandleFunc("/updateIncumbent", bs.handleUpdateIncumbent)
	mux.HandleFunc("/stop", bs.handleStop)
	mux.HandleFunc("/stopped", bs.handleStopped)
	return mux
}

func (bs *BoundServer) handleGetBound(w http.ResponseWriter, r *http.Request) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if !bs.hasBound {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	json.NewEncoder(w).Encode(bs.bound)
}

func (bs *BoundServer) handleUpdateBound(w http.ResponseWriter, r *http.Request) {
	var b int
	if err := json.NewDecoder(r.Body).Decode(&b); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	// Monotone: a stale or equal bound never overwrites a better one.
	if !bs.hasBound || bs.better(b, bs.bound) {
		bs.bound = b
		bs.hasBound = true
	}
	w.WriteHeader(http.StatusOK)
}

func (bs *BoundServer) handleGetIncumbent(w http.ResponseWriter, r *http.Request) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if bs.incumbent == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	json.NewEncoder(w).Encode(bs.incumbent)
}

func (bs *BoundServer) handleUpdateIncumbent(w http.ResponseWriter, r *http.Request) {
	var inc cluster.IncumbentMsg
	if err := json.NewDecoder(r.Body).Decode(&inc); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	if bs.incumbent == nil || bs.better(inc.Objective, bs.incumbent.Objective) {
		bs.incumbent = &inc
		if !bs.hasBound || bs.better(inc.Objective, bs.bound) {
			bs.bound = inc.Objective
			bs.hasBound = true
		}
	}
	w.WriteHeader(http.StatusOK)
}

func (bs *BoundServer) handleStop(w http.ResponseWriter, r *http.Request) {
	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	bs.stopped = true
	w.WriteHeader(http.StatusOK)
}

func (bs *BoundServer) handleStopped(w http.ResponseWriter, r *http.Request) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	json.NewEncoder(w).Encode(bs.stopped)
}

func (bs *BoundServer) GetBound() (int, bool) {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	return bs.bound, bs.hasBound
}

func (bs *BoundServer) PublishBound(b int) {
	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	if !bs.hasBound || bs.better(b, bs.bound) {
		bs.bound = b
		bs.hasBound = true
	}
}

func (bs *BoundServer) GetIncumbent() *cluster.IncumbentMsg {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	if bs.incumbent == nil {
		return nil
	}
	inc := *bs.incumbent
	return &inc
}

func (bs *BoundServer) PublishIncumbent(inc cluster.IncumbentMsg) {
	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	if bs.incumbent == nil || bs.better(inc.Objective, bs.incumbent.Objective) {
		bs.incumbent = &inc
	}
}

func (bs *BoundServer) PublishStop() {
	bs.mutex.Lock()
	defer bs.mutex.Unlock()
	bs.stopped = true
}

func (bs *BoundServer) Stopped() bool {
	bs.mutex.RLock()
	defer bs.mutex.RUnlock()
	return bs.stopped
}
