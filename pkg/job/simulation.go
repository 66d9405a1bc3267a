package job

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/simulot/multidl/pkg/models"
	"github.com/simulot/multidl/pkg/progress"
)

// Simulation is a task advancing a bar step by step with random pauses.
// It shows the display at work without network.
type Simulation struct {
	name     string
	steps    int
	minDelay time.Duration
	maxDelay time.Duration
}

// NewSimulation gives a task of steps, each one lasting between minDelay and maxDelay
func NewSimulation(name string, steps int, minDelay, maxDelay time.Duration) *Simulation {
	if maxDelay < minDelay {
		maxDelay = minDelay
	}
	return &Simulation{
		name:     name,
		steps:    steps,
		minDelay: minDelay,
		maxDelay: maxDelay,
	}
}

func (s *Simulation) Name() string { return "task " + s.name }

func (s *Simulation) delay() time.Duration {
	if s.maxDelay == s.minDelay {
		return s.minDelay
	}
	return s.minDelay + time.Duration(rand.Int63n(int64(s.maxDelay-s.minDelay+1)))
}

func (s *Simulation) Run(ctx context.Context, display progress.Display) error {
	bar := display.NewBar(progress.KindCount, int64(s.steps), s.Name())
	t := time.NewTimer(s.delay())
	defer t.Stop()
	for i := 0; i < s.steps; i++ {
		select {
		case <-ctx.Done():
			bar.Abort()
			return models.NewError(models.KindUnknown, ctx.Err(), "%s interrupted at step %d", s.Name(), i)
		case <-t.C:
			bar.Increment(1)
			t.Reset(s.delay())
		}
	}
	bar.Finish()
	return nil
}

// Simulations gives n simulated tasks named 0 to n-1
func Simulations(n, steps int, minDelay, maxDelay time.Duration) []Task {
	tasks := make([]Task, n)
	for i := range tasks {
		tasks[i] = NewSimulation(fmt.Sprint(i), steps, minDelay, maxDelay)
	}
	return tasks
}
