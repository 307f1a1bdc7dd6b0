package cluster

import (
	"sync"

	"github.com/google/uuid"
)

// Promise is the write side of a one-shot completion signal. Every spawned
// task carries one; its future is what parents and the root waiter block on.
type Promise struct {
	id   uuid.UUID
	done chan struct{}
	once sync.Once
	err  error
}

func NewPromise() *Promise {
	return &Promise{
		id:   uuid.New(),
		done: make(chan struct{}),
	}
}

func (p *Promise) ID() uuid.UUID {
	return p.id
}

// Set completes the promise. Only the first call takes effect.
func (p *Promise) Set(err error) {
	p.once.Do(func() {
		p.err = err
		close(p.done)
	})
}

func (p *Promise) Future() *Future {
	return &Future{promise: p}
}

// Future is the read side of a promise.
type Future struct {
	promise *Promise
}

// Wait blocks until the promise is set and returns its error.
func (f *Future) Wait() error {
	<-f.promise.done
	return f.promise.err
}

// Done exposes the completion channel for select loops.
func (f *Future) Done() <-chan struct{} {
	return f.promise.done
}

// WaitAll waits on every future and returns the first error observed.
func WaitAll(futures []*Future) error {
	var first error
	for _, fut := range futures {
		if err := fut.Wait(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
