package main

import (
	"context"
	"fmt"
	"time"

	"github.com/simulot/multidl/pkg/job"
)

type demoConfig struct {
	Tasks    int
	Steps    int
	MaxTasks int
	MinDelay time.Duration
	MaxDelay time.Duration
}

var defaultDemo = demoConfig{
	Tasks:    10,
	Steps:    10,
	MaxTasks: 3,
	MinDelay: 500 * time.Millisecond,
	MaxDelay: 1500 * time.Millisecond,
}

// Demo runs simulated tasks through the download orchestration
func (a *app) Demo(ctx context.Context) error {
	if a.demo.Tasks < 1 || a.demo.Steps < 1 {
		return fmt.Errorf("at least one task of one step is expected")
	}
	if a.demo.MaxTasks < 1 {
		return fmt.Errorf("invalid max-tasks %d, at least 1 is expected", a.demo.MaxTasks)
	}
	display, done := a.display()
	defer done()

	j := job.New(display,
		job.WithConcurrency(a.demo.MaxTasks),
		job.WithLogger(a.logger),
	)
	return j.Run(ctx, job.Simulations(a.demo.Tasks, a.demo.Steps, a.demo.MinDelay, a.demo.MaxDelay))
}
