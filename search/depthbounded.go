package search

import (
	"treesearch/cluster"
	"treesearch/registry"
	"treesearch/tree"
	"treesearch/workstealing"
)

// DepthBounded turns every child encountered above the spawn depth into a
// stealable task and expands the rest of the tree locally. It is the
// workhorse strategy: cheap task creation near the root, sequential speed
// below.
type DepthBounded struct {
	driver   *driver
	policies []workstealing.Policy
	addWork  func(locality int, t workstealing.Task, depth int)
}

func NewDepthBounded(c *cluster.Cluster, gen tree.GeneratorFunc, options ...Option) *DepthBounded {
	return &DepthBounded{driver: newDriver(c, newConfig(gen, options...))}
}

func (s *DepthBounded) Search(space tree.Space, root tree.Node, params tree.Params) (Result, error) {
	d := s.driver
	if err := d.validate(params); err != nil {
		return Result{}, err
	}
	d.init(space, root, params)
	d.logDetails("depthbounded")

	s.policies = make([]workstealing.Policy, d.cluster.Size())
	if d.cfg.workpool {
		pools := make([]*workstealing.Workpool, d.cluster.Size())
		d.cluster.Broadcast(func(locality int) error {
			pools[locality] = workstealing.NewWorkpool()
			s.policies[locality] = pools[locality]
			return nil
		})
		s.addWork = func(locality int, t workstealing.Task, depth int) {
			pools[locality].AddWork(t)
		}
	} else {
		pools := make([]*workstealing.DepthPool, d.cluster.Size())
		d.cluster.Broadcast(func(locality int) error {
			pools[locality] = workstealing.NewDepthPool()
			s.policies[locality] = pools[locality]
			return nil
		})
		s.addWork = func(locality int, t workstealing.Task, depth int) {
			pools[locality].AddWork(t, depth)
		}
	}
	d.startSchedulers(s.policies)

	task, fut := s.createTask(root, 0, false)
	s.addWork(d.cluster.Here(), task, 0)

	err := fut.Wait()
	d.stopSchedulers()
	if err != nil {
		return Result{}, err
	}
	return d.result()
}

// createTask wraps the subtree under taskRoot. preprocessed is set for
// children the parent already counted and bounded before spawning.
func (s *DepthBounded) createTask(taskRoot tree.Node, rootDepth int, preprocessed bool) (workstealing.Task, *cluster.Future) {
	d := s.driver
	return d.spawn(func(locality int, reg *registry.Registry, acc tree.Enumerator) ([]*cluster.Future, error) {
		if !preprocessed {
			switch d.processNode(reg, acc, taskRoot) {
			case actPrune, actPruneLevel, actExit:
				return nil, nil
			}
		}
		return s.expand(locality, reg, acc, taskRoot, rootDepth)
	})
}

func (s *DepthBounded) expand(locality int, reg *registry.Registry, acc tree.Enumerator, taskRoot tree.Node, rootDepth int) ([]*cluster.Future, error) {
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

		child, _, ok := stack.nextChild()
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
			task, fut := s.createTask(child, depth+1, true)
			s.addWork(locality, task, depth+1)
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
