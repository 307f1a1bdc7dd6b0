package maxclique

import (
	"encoding/json"

	"treesearch/tree"
)

// Problem packages the graph for the worker/coordinator wire protocol.
type Problem struct {
	Graph *Graph
}

func NewProblem(g *Graph) *Problem {
	return &Problem{Graph: g}
}

func (p *Problem) Space() tree.Space {
	return p.Graph
}

func (p *Problem) Root() tree.Node {
	return Root(p.Graph)
}

func (p *Problem) Generator() tree.GeneratorFunc {
	return NewGenerator
}

func (p *Problem) Bound() tree.BoundFunc {
	return Bound
}

func (p *Problem) EncodeNode(n tree.Node) (json.RawMessage, error) {
	return json.Marshal(n.(*Clique))
}

func (p *Problem) DecodeNode(data json.RawMessage) (tree.Node, error) {
	var c Clique
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}
