package search

import (
	"fmt"

	"treesearch/cluster"
	"treesearch/registry"
	"treesearch/tree"
	"treesearch/workstealing"
)

// Indexed identifies work by position, not by value: a task carries the
// path of child indexes from the root and reconstructs its subtree root
// through the generator's random access. Steals transfer paths out of a
// running expansion's position index, so nothing problem-specific ever
// crosses locality boundaries. Requires an IndexedGenerator.
type Indexed struct {
	driver *driver
	mgrs   []*workstealing.PosManager
}

func NewIndexed(c *cluster.Cluster, gen tree.GeneratorFunc, options ...Option) *Indexed {
	return &Indexed{driver: newDriver(c, newConfig(gen, options...))}
}

func (s *Indexed) Search(space tree.Space, root tree.Node, params tree.Params) (Result, error) {
	d := s.driver
	if err := d.validate(params); err != nil {
		return Result{}, err
	}
	if _, ok := d.cfg.gen(space, root).(tree.IndexedGenerator); !ok {
		return Result{}, fmt.Errorf("indexed search requires an IndexedGenerator")
	}
	d.init(space, root, params)
	d.logDetails("indexed")

	s.mgrs = make([]*workstealing.PosManager, d.cluster.Size())
	policies := make([]workstealing.Policy, d.cluster.Size())
	d.cluster.Broadcast(func(locality int) error {
		mgr := workstealing.NewPosManager()
		mgr.SetTaskFactory(s.createTask)
		s.mgrs[locality] = mgr
		policies[locality] = mgr
		return nil
	})
	d.startSchedulers(policies)

	task, fut := s.createTask(nil)
	s.mgrs[d.cluster.Here()].AddWork(task)

	err := fut.Wait()
	d.stopSchedulers()
	if err != nil {
		return Result{}, err
	}
	return d.result()
}

// createTask builds the task for the subtree at path. Stolen positions are
// claimed out of the victim's index before it could process them, so the
// reconstructed root is counted and bounded here exactly once.
func (s *Indexed) createTask(path []int) (workstealing.Task, *cluster.Future) {
	d := s.driver
	return d.spawn(func(locality int, reg *registry.Registry, acc tree.Enumerator) ([]*cluster.Future, error) {
		taskRoot, err := s.reconstruct(reg, path)
		if err != nil {
			return nil, err
		}

		switch d.processNode(reg, acc, taskRoot) {
		case actPrune, actPruneLevel, actExit:
			return nil, nil
		}

		pos := workstealing.NewPositionIndex(path)
		id := s.mgrs[locality].Register(pos)
		defer s.mgrs[locality].Unregister(id)

		err = s.expand(reg, acc, pos, taskRoot, len(path), 0)
		return pos.ChildFutures(), err
	})
}

// reconstruct walks the root's generator tree along path.
func (s *Indexed) reconstruct(reg *registry.Registry, path []int) (tree.Node, error) {
	d := s.driver
	node := reg.Root
	for _, index := range path {
		gen, ok := d.cfg.gen(d.space, node).(tree.IndexedGenerator)
		if !ok {
			return nil, fmt.Errorf("indexed search requires an IndexedGenerator")
		}
		node = gen.Nth(index)
	}
	return node, nil
}

// expand recurses over the positions this task still owns at each level.
func (s *Indexed) expand(reg *registry.Registry, acc tree.Enumerator, pos *workstealing.PositionIndex, n tree.Node, depth int, height int) error {
	d := s.driver
	if reg.Stopped() || !d.belowDepthLimit(depth) {
		return nil
	}
	if height >= d.cfg.maxStackDepth {
		return fmt.Errorf("generator stack overflow: depth limit %d reached", d.cfg.maxStackDepth)
	}

	gen := d.cfg.gen(d.space, n).(tree.IndexedGenerator)
	pos.SetNumChildren(gen.NumChildren())

	for {
		if reg.Stopped() {
			return nil
		}
		index := pos.GetNextPosition()
		if index < 0 {
			return nil
		}
		child := gen.Nth(index)

		switch d.processNode(reg, acc, child) {
		case actExit:
			return nil
		case actPrune:
			continue
		case actPruneLevel:
			pos.PruneLevel()
			continue
		}

		pos.PreExpand(index)
		err := s.expand(reg, acc, pos, child, depth+1, height+1)
		pos.PostExpand()
		if err != nil {
			return err
		}
	}
}
