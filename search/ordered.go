package search

import (
	"treesearch/cluster"
	"treesearch/registry"
	"treesearch/tree"
	"treesearch/workstealing"
)

// Ordered spawns every child above the spawn depth into one cluster-global
// priority queue, keyed by the child's sibling index or, with discrepancy
// search, by the accumulated discrepancy on the root path. Priority zero is
// the greedy dive: with heuristically ordered generators the best-looking
// subtrees are searched first cluster-wide.
type Ordered struct {
	driver   *driver
	global   *workstealing.PriorityWorkqueue
	policies []workstealing.Policy
}

func NewOrdered(c *cluster.Cluster, gen tree.GeneratorFunc, options ...Option) *Ordered {
	return &Ordered{driver: newDriver(c, newConfig(gen, options...))}
}

func (s *Ordered) Search(space tree.Space, root tree.Node, params tree.Params) (Result, error) {
	d := s.driver
	if err := d.validate(params); err != nil {
		return Result{}, err
	}
	d.init(space, root, params)
	d.logDetails("ordered")

	// The queue lives on the coordinator locality; every other locality
	// forwards through its policy.
	s.global = workstealing.NewPriorityWorkqueue()
	s.policies = make([]workstealing.Policy, d.cluster.Size())
	d.cluster.Broadcast(func(locality int) error {
		s.policies[locality] = workstealing.NewPriorityOrderedPolicy(s.global)
		return nil
	})
	d.startSchedulers(s.policies)

	task, fut := s.createTask(root, 0, 0, false)
	s.global.AddWork(0, task)

	err := fut.Wait()
	d.stopSchedulers()
	if err != nil {
		return Result{}, err
	}
	return d.result()
}

// createTask carries the task's accumulated discrepancy so spawned
// grandchildren inherit it.
func (s *Ordered) createTask(taskRoot tree.Node, rootDepth int, discrepancy int, preprocessed bool) (workstealing.Task, *cluster.Future) {
	d := s.driver
	return d.spawn(func(locality int, reg *registry.Registry, acc tree.Enumerator) ([]*cluster.Future, error) {
		if !preprocessed {
			switch d.processNode(reg, acc, taskRoot) {
			case actPrune, actPruneLevel, actExit:
				return nil, nil
			}
		}
		return s.expand(reg, acc, taskRoot, rootDepth, discrepancy)
	})
}

func (s *Ordered) expand(reg *registry.Registry, acc tree.Enumerator, taskRoot tree.Node, rootDepth int, discrepancy int) ([]*cluster.Future, error) {
	d := s.driver
	if !d.belowDepthLimit(rootDepth) {
		return nil, nil
	}

	stack := newGeneratorStack(d.cfg.maxStackDepth, taskRoot, d.cfg.gen(d.space, taskRoot))
	var futures []*cluster.Future
	depth := rootDepth

	for {
		if reg.Stopped() {
			return futures, nil
		}

		child, index, ok := stack.nextChild()
		if !ok {
			if !stack.pop() {
				break
			}
			depth--
			continue
		}

		switch d.processNode(reg, acc, child) {
		case actExit:
			return futures, nil
		case actPrune:
			continue
		case actPruneLevel:
			stack.skipLevel()
			continue
		}

		if depth < d.params.SpawnDepth {
			priority := index
			childDiscrepancy := discrepancy
			if d.cfg.discrepancy {
				childDiscrepancy += index
				priority = childDiscrepancy
			}
			task, fut := s.createTask(child, depth+1, childDiscrepancy, true)
			s.global.AddWork(priority, task)
			futures = append(futures, fut)
			continue
		}

		if !d.belowDepthLimit(depth + 1) {
			continue
		}
		if err := stack.descend(child, d.cfg.gen(d.space, child)); err != nil {
			return futures, err
		}
		depth++
	}
	return futures, nil
}
