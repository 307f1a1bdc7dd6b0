package tree

// Enumerator accumulates visited nodes within one task and is combined
// across tasks and localities when the search returns. Accumulate is only
// ever called from a single goroutine; Combine is serialized by the
// registry.
type Enumerator interface {
	Accumulate(n Node)
	Combine(other Enumerator)
	Get() any
}

// EnumeratorFunc produces a fresh, empty enumerator for one task.
type EnumeratorFunc func() Enumerator

// CountEnumerator counts visited nodes. It is the identity enumerator used
// when an enumeration search does not supply its own.
type CountEnumerator struct {
	count int64
}

func NewCountEnumerator() Enumerator {
	return &CountEnumerator{}
}

func (c *CountEnumerator) Accumulate(Node) {
	c.count++
}

func (c *CountEnumerator) Combine(other Enumerator) {
	c.count += other.(*CountEnumerator).count
}

func (c *CountEnumerator) Get() any {
	return c.count
}
