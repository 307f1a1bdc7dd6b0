package maxclique

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
)

// Graph is an undirected graph with adjacency bitmaps, the search space of
// the maximum-clique problem.
type Graph struct {
	N   int
	adj []*roaring.Bitmap
}

func NewGraph(n int) *Graph {
	g := &Graph{N: n, adj: make([]*roaring.Bitmap, n)}
	for i := range g.adj {
		g.adj[i] = roaring.New()
	}
	return g
}

func (g *Graph) AddEdge(u, v int) {
	if u == v {
		return
	}
	g.adj[u].Add(uint32(v))
	g.adj[v].Add(uint32(u))
}

func (g *Graph) Adjacent(v int) *roaring.Bitmap {
	return g.adj[v]
}

// Complete returns K_n.
func Complete(n int) *Graph {
	g := NewGraph(n)
	for u := 0; u < n; u++ {
		for v := u + 1; v < n; v++ {
			g.AddEdge(u, v)
		}
	}
	return g
}

// Cycle returns C_n.
func Cycle(n int) *Graph {
	g := NewGraph(n)
	for v := 0; v < n; v++ {
		g.AddEdge(v, (v+1)%n)
	}
	return g
}

// ParseDIMACS reads a graph in DIMACS clique format: a "p edge N M" line
// followed by "e u v" lines with 1-based vertices.
func ParseDIMACS(r io.Reader) (*Graph, error) {
	var g *Graph
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}
		fields := strings.Fields(line)
		switch fields[0] {
		case "p":
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed problem line: %q", line)
			}
			n, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("malformed vertex count: %q", line)
			}
			g = NewGraph(n)
		case "e":
			if g == nil {
				return nil, fmt.Errorf("edge before problem line: %q", line)
			}
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed edge line: %q", line)
			}
			u, err1 := strconv.Atoi(fields[1])
			v, err2 := strconv.Atoi(fields[2])
			if err1 != nil || err2 != nil || u < 1 || v < 1 || u > g.N || v > g.N {
				return nil, fmt.Errorf("malformed edge line: %q", line)
			}
			g.AddEdge(u-1, v-1)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, fmt.Errorf("no problem line found")
	}
	return g, nil
}
