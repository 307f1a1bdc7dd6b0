package search

import (
	"golang.org/x/exp/rand"

	"treesearch/cluster"
	"treesearch/registry"
	"treesearch/tree"
	"treesearch/workstealing"
)

// Random flips a 1/spawnProbability coin on every expansion step; on heads
// it offloads the remaining children of the shallowest unfinished frame.
// No structural assumption about where the work is, just a steady trickle
// of coarse tasks.
type Random struct {
	driver *driver
	pools  []*workstealing.DepthPool
}

func NewRandom(c *cluster.Cluster, gen tree.GeneratorFunc, options ...Option) *Random {
	return &Random{driver: newDriver(c, newConfig(gen, options...))}
}

func (s *Random) Search(space tree.Space, root tree.Node, params tree.Params) (Result, error) {
	d := s.driver
	if err := d.validate(params); err != nil {
		return Result{}, err
	}
	d.init(space, root, params)
	d.logDetails("basicrandom")

	s.pools = make([]*workstealing.DepthPool, d.cluster.Size())
	policies := make([]workstealing.Policy, d.cluster.Size())
	d.cluster.Broadcast(func(locality int) error {
		s.pools[locality] = workstealing.NewDepthPool()
		policies[locality] = s.pools[locality]
		return nil
	})
	d.startSchedulers(policies)

	task, fut := s.createTask(root, 0, false)
	s.pools[d.cluster.Here()].AddWork(task, 0)

	err := fut.Wait()
	d.stopSchedulers()
	if err != nil {
		return Result{}, err
	}
	return d.result()
}

func (s *Random) createTask(taskRoot tree.Node, rootDepth int, preprocessed bool) (workstealing.Task, *cluster.Future) {
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

func (s *Random) expand(locality int, reg *registry.Registry, acc tree.Enumerator, taskRoot tree.Node, rootDepth int) ([]*cluster.Future, error) {
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

		if d.params.SpawnProbability > 0 && rand.Intn(d.params.SpawnProbability) == 0 {
			if nodes, frame, ok := stack.drainShallowest(); ok {
				childDepth := rootDepth + frame + 1
				for _, node := range nodes {
					task, fut := s.createTask(node, childDepth, false)
					s.pools[locality].AddWork(task, childDepth)
					futures = append(futures, fut)
				}
			}
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
