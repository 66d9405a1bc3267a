package workers

import (
	"io"
	"log"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// WorkItem is an interface to work item used b the Workers
type WorkItem interface {
	Run() error
	Name() string
}

type Logger interface {
	Printf(fmt string, a ...interface{})
}

// WorkerPool runs work items with at most nbWorker of them at the same time.
type WorkerPool struct {
	g        errgroup.Group
	nbWorker int
	active   atomic.Int64 // Items currently running
	peak     atomic.Int64 // Highest value reached by active
	seq      atomic.Int64
	logger   Logger
}

// WithLogger gets the pool to log items' outcome
func WithLogger(l Logger) func(w *WorkerPool) {
	return func(w *WorkerPool) {
		w.logger = l
	}
}

// New creates a worker pool accepting n concurrent items. n < 1 is read as 1.
func New(n int, opts ...func(w *WorkerPool)) *WorkerPool {
	if n < 1 {
		n = 1
	}
	w := &WorkerPool{
		nbWorker: n,
		logger:   log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.g.SetLimit(n)
	return w
}

// Submit a work item to the worker pool. It blocks until a worker is free.
// The worker is released when the item returns, whatever its outcome.
func (w *WorkerPool) Submit(wi WorkItem) {
	id := w.seq.Add(1)
	w.g.Go(func() error {
		n := w.active.Add(1)
		defer w.active.Add(-1)
		for {
			p := w.peak.Load()
			if n <= p || w.peak.CompareAndSwap(p, n) {
				break
			}
		}
		t := time.Now()
		err := wi.Run()
		if err == nil {
			w.logger.Printf("Done  [%d]: %s(%s)", id, wi.Name(), time.Since(t).Round(100*time.Millisecond))
		} else {
			w.logger.Printf("Fail  [%d]: %s with error(%v)", id, wi.Name(), err)
		}
		return err
	})
}

// Wait for all submitted items and returns the first error if any
func (w *WorkerPool) Wait() error {
	return w.g.Wait()
}

// Workers gives the concurrency limit
func (w *WorkerPool) Workers() int { return w.nbWorker }

// Active gives the number of running items
func (w *WorkerPool) Active() int { return int(w.active.Load()) }

// Peak gives the highest number of items that were running together
func (w *WorkerPool) Peak() int { return int(w.peak.Load()) }

// RunAction is an helper to submit a work to the worker pool
type RunAction struct {
	name string
	fn   func() error
}

// NewRunAction creates a work item out of a name and a function
func NewRunAction(n string, fn func() error) RunAction {
	return RunAction{name: n, fn: fn}
}

// Name returns the names of the work
func (r RunAction) Name() string {
	return r.name
}

// Run invoke the function
func (r RunAction) Run() error {
	return r.fn()
}
