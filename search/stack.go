package search

import (
	"fmt"

	"treesearch/tree"
)

// generatorStack is the task-local depth-first expansion stack: one frame
// per open node, each holding the node, its child generator and how many
// children have been seen. Capacity is the client-declared hard limit on
// tree height; exceeding it fails the search fast.
type generatorStack struct {
	frames   []stackFrame
	top      int
	capacity int
}

type stackFrame struct {
	node tree.Node
	gen  tree.Generator
	seen int
}

func newGeneratorStack(capacity int, root tree.Node, gen tree.Generator) *generatorStack {
	s := &generatorStack{
		frames:   make([]stackFrame, 1, 16),
		capacity: capacity,
	}
	s.frames[0] = stackFrame{node: root, gen: gen}
	return s
}

// nextChild advances the top frame, returning the child and its sibling
// index, or false when the frame is exhausted.
func (s *generatorStack) nextChild() (tree.Node, int, bool) {
	top := &s.frames[s.top]
	if top.seen >= top.gen.NumChildren() {
		return nil, 0, false
	}
	index := top.seen
	top.seen++
	return top.gen.Next(), index, true
}

// skipLevel marks every remaining child of the top frame as seen.
func (s *generatorStack) skipLevel() {
	top := &s.frames[s.top]
	top.seen = top.gen.NumChildren()
}

// descend pushes a frame for node.
func (s *generatorStack) descend(node tree.Node, gen tree.Generator) error {
	if s.top+1 >= s.capacity {
		return fmt.Errorf("generator stack overflow: depth limit %d reached", s.capacity)
	}
	s.top++
	if s.top == len(s.frames) {
		s.frames = append(s.frames, stackFrame{})
	}
	s.frames[s.top] = stackFrame{node: node, gen: gen}
	return nil
}

// pop unwinds one frame; false once the stack is empty.
func (s *generatorStack) pop() bool {
	s.top--
	return s.top >= 0
}

// drainShallowest removes every unseen child of the shallowest unfinished
// frame and returns them with the frame index. Used by the Budget and
// Random offloading rules: the shallowest frame roots the largest subtrees.
func (s *generatorStack) drainShallowest() ([]tree.Node, int, bool) {
	for i := 0; i <= s.top; i++ {
		f := &s.frames[i]
		if f.seen >= f.gen.NumChildren() {
			continue
		}
		var nodes []tree.Node
		for f.seen < f.gen.NumChildren() {
			f.seen++
			nodes = append(nodes, f.gen.Next())
		}
		return nodes, i, true
	}
	return nil, 0, false
}
