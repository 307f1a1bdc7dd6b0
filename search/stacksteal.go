package search

import (
	"treesearch/cluster"
	"treesearch/registry"
	"treesearch/tree"
	"treesearch/workstealing"
)

// StackStealing never spawns proactively: each running task exposes its
// live generator stack and idle workers raid the shallowest frame of a
// victim. With Params.StealAll a steal takes the whole remaining sibling
// batch of that frame.
type StackStealing struct {
	driver *driver
	pools  []*workstealing.StackPool
}

func NewStackStealing(c *cluster.Cluster, gen tree.GeneratorFunc, options ...Option) *StackStealing {
	return &StackStealing{driver: newDriver(c, newConfig(gen, options...))}
}

func (s *StackStealing) Search(space tree.Space, root tree.Node, params tree.Params) (Result, error) {
	d := s.driver
	if err := d.validate(params); err != nil {
		return Result{}, err
	}
	d.init(space, root, params)
	d.logDetails("stacksteal")

	s.pools = make([]*workstealing.StackPool, d.cluster.Size())
	policies := make([]workstealing.Policy, d.cluster.Size())
	d.cluster.Broadcast(func(locality int) error {
		pool := workstealing.NewStackPool(params.StealAll)
		pool.SetTaskFactory(s.createBatchTask)
		s.pools[locality] = pool
		policies[locality] = pool
		return nil
	})
	d.startSchedulers(policies)

	task, fut := s.createBatchTask(0, []tree.Node{root})
	s.pools[d.cluster.Here()].AddWork(task)

	err := fut.Wait()
	d.stopSchedulers()
	if err != nil {
		return Result{}, err
	}
	return d.result()
}

// createBatchTask runs a batch of stolen siblings (or the root) as one
// task. Stolen nodes were never processed by their victim, so each root is
// counted and bounded here.
func (s *StackStealing) createBatchTask(rootDepth int, roots []tree.Node) (workstealing.Task, *cluster.Future) {
	d := s.driver
	return d.spawn(func(locality int, reg *registry.Registry, acc tree.Enumerator) ([]*cluster.Future, error) {
		var futures []*cluster.Future
		for _, taskRoot := range roots {
			if reg.Stopped() {
				return futures, nil
			}
			switch d.processNode(reg, acc, taskRoot) {
			case actExit:
				return futures, nil
			case actPrune, actPruneLevel:
				continue
			}
			futs, err := s.expand(locality, reg, acc, taskRoot, rootDepth)
			futures = append(futures, futs...)
			if err != nil {
				return futures, err
			}
		}
		return futures, nil
	})
}

// expand drives the depth-first loop over a shared stack registered with
// the local pool, so stealers can see it for the lifetime of the walk.
func (s *StackStealing) expand(locality int, reg *registry.Registry, acc tree.Enumerator, taskRoot tree.Node, rootDepth int) ([]*cluster.Future, error) {
	d := s.driver
	if !d.belowDepthLimit(rootDepth) {
		return nil, nil
	}

	stack := workstealing.NewSharedStack(d.cfg.maxStackDepth, rootDepth, taskRoot, d.cfg.gen(d.space, taskRoot))
	id := s.pools[locality].Register(stack)
	defer s.pools[locality].Unregister(id)

	depth := rootDepth
	for {
		if reg.Stopped() {
			break
		}

		child, ok := stack.NextChild()
		if !ok {
			if !stack.Pop() {
				break
			}
			depth--
			continue
		}

		switch d.processNode(reg, acc, child) {
		case actExit:
			return stack.ChildFutures(), nil
		case actPrune:
			continue
		case actPruneLevel:
			stack.SkipLevel()
			continue
		}

		if !d.belowDepthLimit(depth + 1) {
			continue
		}
		if err := stack.Descend(child, d.cfg.gen(d.space, child)); err != nil {
			return stack.ChildFutures(), err
		}
		depth++
	}
	return stack.ChildFutures(), nil
}
