package maxclique

import (
	"encoding/json"

	"github.com/RoaringBitmap/roaring/v2"

	"treesearch/tree"
)

// Clique is a search node: the members chosen so far plus the candidate
// vertices that are adjacent to all of them and come after the last member
// in vertex order, so each clique is generated exactly once.
type Clique struct {
	Members    []int
	Candidates *roaring.Bitmap
}

func Root(g *Graph) *Clique {
	candidates := roaring.New()
	candidates.AddRange(0, uint64(g.N))
	return &Clique{Candidates: candidates}
}

func (c *Clique) Objective() int {
	return len(c.Members)
}

// Bound is the trivial clique bound: current size plus everything that
// could still join.
func Bound(space tree.Space, n tree.Node) int {
	c := n.(*Clique)
	return len(c.Members) + int(c.Candidates.GetCardinality())
}

// NewGenerator yields one child per candidate vertex, in vertex order.
func NewGenerator(space tree.Space, parent tree.Node) tree.Generator {
	g := space.(*Graph)
	c := parent.(*Clique)
	return &generator{graph: g, parent: c, order: c.Candidates.ToArray()}
}

type generator struct {
	graph  *Graph
	parent *Clique
	order  []uint32
	next   int
}

func (gen *generator) NumChildren() int {
	return len(gen.order)
}

func (gen *generator) Next() tree.Node {
	child := gen.child(gen.order[gen.next])
	gen.next++
	return child
}

func (gen *generator) Nth(k int) tree.Node {
	return gen.child(gen.order[k])
}

func (gen *generator) child(v uint32) tree.Node {
	members := make([]int, len(gen.parent.Members), len(gen.parent.Members)+1)
	copy(members, gen.parent.Members)
	members = append(members, int(v))

	candidates := roaring.And(gen.parent.Candidates, gen.graph.adj[v])
	candidates.RemoveRange(0, uint64(v)+1)

	return &Clique{Members: members, Candidates: candidates}
}

// cliqueWire is the JSON form shipped between coordinator and workers.
type cliqueWire struct {
	Members    []int    `json:"members"`
	Candidates []uint32 `json:"candidates"`
}

func (c *Clique) MarshalJSON() ([]byte, error) {
	return json.Marshal(cliqueWire{
		Members:    c.Members,
		Candidates: c.Candidates.ToArray(),
	})
}

func (c *Clique) UnmarshalJSON(data []byte) error {
	var wire cliqueWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	c.Members = wire.Members
	c.Candidates = roaring.BitmapOf(wire.Candidates...)
	return nil
}
