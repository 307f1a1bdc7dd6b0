// Package semigroups enumerates numerical semigroups by genus. A node is a
// semigroup; its children remove one effective generator beyond the
// Frobenius number, so the tree below the full semigroup N contains every
// numerical semigroup exactly once, at depth equal to its genus.
package semigroups

import (
	"treesearch/tree"
)

// Space bounds the enumeration. Elements are tracked up to Cap, which must
// exceed every effective generator reachable within MaxGenus; 4*(g+1) is
// comfortably past the 3g worst case.
type Space struct {
	MaxGenus int
	Cap      int
}

func NewSpace(maxGenus int) *Space {
	return &Space{MaxGenus: maxGenus, Cap: 4 * (maxGenus + 1)}
}

// Semigroup is one node: a membership bitset over [0, Cap), the Frobenius
// number and the genus.
type Semigroup struct {
	words     []uint64
	Frobenius int
	Genus     int
}

// Root is the full semigroup N: genus 0, Frobenius -1.
func Root(space *Space) *Semigroup {
	words := make([]uint64, (space.Cap+63)/64)
	for i := range words {
		words[i] = ^uint64(0)
	}
	return &Semigroup{words: words, Frobenius: -1}
}

func (s *Semigroup) Objective() int {
	return s.Genus
}

func (s *Semigroup) contains(x int) bool {
	if x < 0 {
		return false
	}
	return s.words[x/64]&(1<<(x%64)) != 0
}

// remove returns the semigroup without element m, which must be an
// effective generator greater than the Frobenius number.
func (s *Semigroup) remove(m int) *Semigroup {
	words := make([]uint64, len(s.words))
	copy(words, s.words)
	words[m/64] &^= 1 << (m % 64)
	return &Semigroup{words: words, Frobenius: m, Genus: s.Genus + 1}
}

// effectiveGenerators lists the minimal generators beyond the Frobenius
// number, in increasing order: members that are not the sum of two smaller
// non-zero members. Removing any one of them keeps the set a semigroup.
func (s *Semigroup) effectiveGenerators(cap int) []int {
	var gens []int
	for m := s.Frobenius + 1; m < cap; m++ {
		if m < 1 || !s.contains(m) {
			continue
		}
		minimal := true
		for a := 1; a <= m/2; a++ {
			if s.contains(a) && s.contains(m-a) {
				minimal = false
				break
			}
		}
		if minimal {
			gens = append(gens, m)
		}
	}
	return gens
}

// NewGenerator yields the children of a semigroup in increasing order of
// the removed generator.
func NewGenerator(space tree.Space, parent tree.Node) tree.Generator {
	sp := space.(*Space)
	s := parent.(*Semigroup)
	return &generator{parent: s, gens: s.effectiveGenerators(sp.Cap)}
}

type generator struct {
	parent *Semigroup
	gens   []int
	next   int
}

func (g *generator) NumChildren() int {
	return len(g.gens)
}

func (g *generator) Next() tree.Node {
	child := g.parent.remove(g.gens[g.next])
	g.next++
	return child
}

func (g *generator) Nth(k int) tree.Node {
	return g.parent.remove(g.gens[k])
}

// GenusCounts accumulates the number of semigroups per genus.
type GenusCounts struct {
	counts []int64
}

// NewGenusCounts returns an enumerator factory for genus 0..maxGenus.
func NewGenusCounts(maxGenus int) tree.EnumeratorFunc {
	return func() tree.Enumerator {
		return &GenusCounts{counts: make([]int64, maxGenus+1)}
	}
}

func (e *GenusCounts) Accumulate(n tree.Node) {
	genus := n.(*Semigroup).Genus
	if genus < len(e.counts) {
		e.counts[genus]++
	}
}

func (e *GenusCounts) Combine(other tree.Enumerator) {
	for i, c := range other.(*GenusCounts).counts {
		e.counts[i] += c
	}
}

func (e *GenusCounts) Get() any {
	return e.counts
}
