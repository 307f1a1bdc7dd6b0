package worker

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"treesearch/cluster"
	"treesearch/cluster/client"
	"treesearch/cluster/server"
	"treesearch/problems/maxclique"
	"treesearch/tree"
)

func postSearch(t *testing.T, url string, req SearchRequest) *http.Response {
	t.Helper()
	body, err := json.Marshal(req)
	require.NoError(t, err)
	resp, err := http.Post(url+"/search", "application/json", bytes.NewBuffer(body))
	require.NoError(t, err)
	return resp
}

func TestWorkerSearchesASubtree(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.Complete(5))
	w := New(problem, nil, 1, 2)
	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	root, err := problem.EncodeNode(problem.Root())
	require.NoError(t, err)

	resp := postSearch(t, srv.URL, SearchRequest{
		Root:     root,
		Skeleton: "depthbounded",
		Params:   tree.Params{Mode: tree.Optimisation, SpawnDepth: 1},
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var msg cluster.IncumbentMsg
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&msg))
	require.Equal(t, 5, msg.Objective)

	node, err := problem.DecodeNode(msg.Node)
	require.NoError(t, err)
	require.Len(t, node.(*maxclique.Clique).Members, 5)
}

func TestWorkerRejectsMalformedRequests(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.Complete(3))
	w := New(problem, nil, 1, 1)
	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/search", "application/json", bytes.NewBufferString("{"))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestWorkerPublishesItsIncumbent(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.Complete(4))

	bounds := server.NewBoundServer(tree.Greater)
	boundSrv := httptest.NewServer(bounds.Handler())
	defer boundSrv.Close()
	comm := client.NewBoundClient(boundSrv.URL)

	w := New(problem, comm, 1, 1)
	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	root, err := problem.EncodeNode(problem.Root())
	require.NoError(t, err)
	resp := postSearch(t, srv.URL, SearchRequest{
		Root:   root,
		Params: tree.Params{Mode: tree.Optimisation, SpawnDepth: 1},
	})
	resp.Body.Close()

	inc := bounds.GetIncumbent()
	require.NotNil(t, inc, "the worker should publish its best solution")
	require.Equal(t, 4, inc.Objective)

	b, ok := bounds.GetBound()
	require.True(t, ok)
	require.Equal(t, 4, b)
}

func TestWorkerHonoursTheStopSignal(t *testing.T) {
	problem := maxclique.NewProblem(maxclique.Complete(3))

	bounds := server.NewBoundServer(tree.Greater)
	boundSrv := httptest.NewServer(bounds.Handler())
	defer boundSrv.Close()
	comm := client.NewBoundClient(boundSrv.URL)
	comm.PublishStop()

	w := New(problem, comm, 1, 1)
	srv := httptest.NewServer(w.Handler())
	defer srv.Close()

	root, err := problem.EncodeNode(problem.Root())
	require.NoError(t, err)
	resp := postSearch(t, srv.URL, SearchRequest{Root: root})
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}
