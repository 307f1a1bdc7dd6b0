package workstealing

import (
	"sync"

	"github.com/RoaringBitmap/roaring/v2"

	"treesearch/cluster"
)

// PositionIndex identifies a node by its path of child indexes from the
// root and tracks which indexes of the running expansion are still owned
// locally. A stealer claims an index atomically with respect to the owner's
// GetNextPosition, so no position is ever expanded twice.
type PositionIndex struct {
	mutex   sync.Mutex
	prefix  []int
	choices []int
	levels  []posLevel
	futures []*cluster.Future
}

type posLevel struct {
	numChildren int
	taken       *roaring.Bitmap
}

func NewPositionIndex(prefix []int) *PositionIndex {
	return &PositionIndex{prefix: prefix}
}

// Prefix is the path from the tree root to this task's subtree root.
func (p *PositionIndex) Prefix() []int {
	return p.prefix
}

// SetNumChildren opens the expansion level at the current depth.
func (p *PositionIndex) SetNumChildren(n int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	depth := len(p.choices)
	p.levels = p.levels[:depth]
	p.levels = append(p.levels, posLevel{numChildren: n, taken: roaring.New()})
}

// GetNextPosition claims and returns the next child index this task still
// owns at the current level, or -1 when the level is exhausted.
func (p *PositionIndex) GetNextPosition() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	depth := len(p.choices)
	if depth >= len(p.levels) {
		return -1
	}
	level := &p.levels[depth]
	for i := 0; i < level.numChildren; i++ {
		if !level.taken.Contains(uint32(i)) {
			level.taken.Add(uint32(i))
			return i
		}
	}
	return -1
}

// PreExpand records the descent into child index i.
func (p *PositionIndex) PreExpand(i int) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.choices = append(p.choices, i)
}

// PostExpand returns from the current child.
func (p *PositionIndex) PostExpand() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.choices = p.choices[:len(p.choices)-1]
	p.levels = p.levels[:len(p.choices)+1]
}

// PruneLevel marks every remaining index at the current level as taken.
func (p *PositionIndex) PruneLevel() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	depth := len(p.choices)
	if depth < len(p.levels) {
		level := &p.levels[depth]
		level.taken.AddRange(0, uint64(level.numChildren))
	}
}

// Steal claims an index at the shallowest incomplete level and turns the
// stolen position's root path into a task via makeTask. The future attaches
// to the owner under the same lock, so the owner cannot unwind between the
// claim and the attach; its next GetNextPosition skips the claimed index.
func (p *PositionIndex) Steal(makeTask func(path []int) (Task, *cluster.Future)) Task {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for d := 0; d < len(p.levels); d++ {
		level := &p.levels[d]
		for i := 0; i < level.numChildren; i++ {
			if level.taken.Contains(uint32(i)) {
				continue
			}
			level.taken.Add(uint32(i))
			path := make([]int, 0, len(p.prefix)+d+1)
			path = append(path, p.prefix...)
			path = append(path, p.choices[:d]...)
			path = append(path, i)
			t, fut := makeTask(path)
			p.futures = append(p.futures, fut)
			return t
		}
	}
	return nil
}

func (p *PositionIndex) ChildFutures() []*cluster.Future {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.futures
}

func (p *PositionIndex) workRemaining() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for d := range p.levels {
		if int(p.levels[d].taken.GetCardinality()) < p.levels[d].numChildren {
			return true
		}
	}
	return false
}

// PosManager is the indexed policy: it queues explicit indexed tasks and
// lets stealers claim positions out of running expansions. Stolen work
// travels as a path, never as a serialized node.
type PosManager struct {
	mutex    sync.Mutex
	pending  []Task
	active   map[uint64]*PositionIndex
	nextID   uint64
	makeTask func(path []int) (Task, *cluster.Future)
}

func NewPosManager() *PosManager {
	return &PosManager{active: map[uint64]*PositionIndex{}}
}

func (m *PosManager) SetTaskFactory(f func(path []int) (Task, *cluster.Future)) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.makeTask = f
}

func (m *PosManager) AddWork(t Task) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.pending = append(m.pending, t)
}

func (m *PosManager) Register(p *PositionIndex) uint64 {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.nextID++
	m.active[m.nextID] = p
	return m.nextID
}

func (m *PosManager) Unregister(id uint64) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.active, id)
}

func (m *PosManager) GetWork() Task {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	n := len(m.pending)
	if n == 0 {
		return nil
	}
	t := m.pending[n-1]
	m.pending = m.pending[:n-1]
	return t
}

func (m *PosManager) Steal() Task {
	m.mutex.Lock()
	if len(m.pending) > 0 {
		t := m.pending[0]
		m.pending = m.pending[1:]
		m.mutex.Unlock()
		return t
	}
	makeTask := m.makeTask
	victims := make([]*PositionIndex, 0, len(m.active))
	for _, p := range m.active {
		victims = append(victims, p)
	}
	m.mutex.Unlock()

	if makeTask == nil {
		return nil
	}
	for _, victim := range victims {
		if t := victim.Steal(makeTask); t != nil {
			return t
		}
	}
	return nil
}

func (m *PosManager) WorkRemaining() bool {
	m.mutex.Lock()
	if len(m.pending) > 0 {
		m.mutex.Unlock()
		return true
	}
	victims := make([]*PositionIndex, 0, len(m.active))
	for _, p := range m.active {
		victims = append(victims, p)
	}
	m.mutex.Unlock()

	for _, p := range victims {
		if p.workRemaining() {
			return true
		}
	}
	return false
}
