package coordinator

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/problems/maxclique"
	"treesearch/tree"
	"treesearch/worker"
)

func startWorkers(t *testing.T, problem worker.Problem, n int) []string {
	t.Helper()
	urls := make([]string, n)
	for i := range urls {
		w := worker.New(problem, nil, 1, 2)
		srv := httptest.NewServer(w.Handler())
		t.Cleanup(srv.Close)
		urls[i] = srv.URL
	}
	return urls
}

func TestCoordinatorCombinesWorkerResults(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.Complete(6))
	urls := startWorkers(t, problem, 2)

	c := New(problem, urls, nil, "depthbounded")
	result, err := c.Run(tree.Params{Mode: tree.Optimisation, SpawnDepth: 1})
	require.NoError(t, err)
	require.Equal(t, 6, result.Objective,
		"the best subtree result must win even though each worker only saw a slice")
}

func TestCoordinatorChildlessRootShortCircuits(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.NewGraph(0))
	c := New(problem, []string{"http://unused"}, nil, "depthbounded")

	result, err := c.Run(tree.Params{Mode: tree.Optimisation})
	require.NoError(t, err)
	require.Equal(t, 0, result.Objective)
	require.NotNil(t, result.Best, "the root itself is returned with no workers contacted")
}

func TestCoordinatorSurfacesWorkerFailures(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.Complete(4))
	c := New(problem, []string{"http://127.0.0.1:1"}, nil, "depthbounded")

	_, err := c.Run(tree.Params{Mode: tree.Optimisation})
	require.Error(t, err)
}
