package workstealing

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerExecutesLocalWork(t *testing.T) {
	pool := NewWorkpool()
	var executed atomic.Int64
	done := make(chan struct{})
	pool.AddWork(func(locality int) {
		require.Equal(t, 0, locality, "tasks run bound to the executing locality")
		executed.Add(1)
		close(done)
	})

	sched := NewScheduler(0, 2, pool)
	sched.SetPeers([]Policy{pool})
	sched.Start()
	defer sched.Stop()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler never executed the queued task")
	}
	require.Equal(t, int64(1), executed.Load())
}

func TestSchedulerStealsFromAPeerLocality(t *testing.T) {
	idle := NewWorkpool()
	busy := NewWorkpool()
	done := make(chan int, 1)
	busy.AddWork(func(locality int) {
		done <- locality
	})

	peers := []Policy{idle, busy}
	sched := NewScheduler(0, 1, idle)
	sched.SetPeers(peers)
	sched.Start()
	defer sched.Stop()

	select {
	case locality := <-done:
		require.Equal(t, 0, locality, "stolen work executes on the thief's locality")
	case <-time.After(2 * time.Second):
		t.Fatal("idle scheduler never stole the remote task")
	}
}

func TestSchedulerStopDrainsWorkers(t *testing.T) {
	pool := NewWorkpool()
	sched := NewScheduler(0, 4, pool)
	sched.SetPeers([]Policy{pool})
	sched.Start()

	stopped := make(chan struct{})
	go func() {
		sched.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not drain the workers")
	}
}
