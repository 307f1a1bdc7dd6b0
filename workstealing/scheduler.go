package workstealing

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Scheduler drives the worker threads of one locality. Each worker asks the
// local policy for work, falls back to stealing from one random peer, and
// backs off briefly when both come back empty. Workers exit when
// Stop is broadcast after the root task's promise fires.
type Scheduler struct {
	locality int
	threads  int
	policy   Policy
	peers    []Policy

	group   *errgroup.Group
	quit    chan struct{}
	limiter *rate.Limiter
	label   string
}

func NewScheduler(locality int, threads int, policy Policy) *Scheduler {
	if threads < 1 {
		threads = 1
	}
	return &Scheduler{
		locality: locality,
		threads:  threads,
		policy:   policy,
		quit:     make(chan struct{}),
		limiter:  rate.NewLimiter(rate.Every(100*time.Microsecond), threads),
		label:    strconv.Itoa(locality),
	}
}

// SetPeers installs the cluster-wide policy table, indexed by locality.
func (s *Scheduler) SetPeers(peers []Policy) {
	s.peers = peers
}

func (s *Scheduler) Policy() Policy {
	return s.policy
}

// Start launches the worker threads.
func (s *Scheduler) Start() {
	s.group = &errgroup.Group{}
	for i := 0; i < s.threads; i++ {
		s.group.Go(s.work)
	}
	log.Debug().Msgf("locality %d: started %d scheduler workers", s.locality, s.threads)
}

// Stop signals the workers and waits for them to drain.
func (s *Scheduler) Stop() {
	close(s.quit)
	s.group.Wait()
	log.Debug().Msgf("locality %d: schedulers stopped", s.locality)
}

func (s *Scheduler) work() error {
	for {
		select {
		case <-s.quit:
			return nil
		default:
		}

		if t := s.policy.GetWork(); t != nil {
			tasksExecuted.WithLabelValues(s.label).Inc()
			t(s.locality)
			continue
		}

		if t := s.stealRemote(); t != nil {
			tasksExecuted.WithLabelValues(s.label).Inc()
			t(s.locality)
			continue
		}

		s.limiter.Wait(context.Background())
	}
}

// stealRemote raids a uniformly chosen peer locality.
func (s *Scheduler) stealRemote() Task {
	if len(s.peers) < 2 {
		return nil
	}
	victim := rand.Intn(len(s.peers) - 1)
	if victim >= s.locality {
		victim++
	}
	stealAttempts.WithLabelValues(s.label).Inc()
	t := s.peers[victim].Steal()
	if t != nil {
		stealSuccesses.WithLabelValues(s.label).Inc()
	}
	return t
}
