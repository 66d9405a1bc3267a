package main

import (
	"context"
	"fmt"

	"github.com/simulot/multidl/pkg/dispatcher"
	"github.com/simulot/multidl/pkg/download"
	"github.com/simulot/multidl/pkg/job"
	"github.com/simulot/multidl/pkg/models"
)

// Download all locations at the same time
func (a *app) Download(ctx context.Context, locations []string) error {
	if len(locations) == 0 {
		locations = a.Config.Locations
	}
	if len(locations) == 0 {
		a.logger.Info().Printf("[DOWNLOAD] No URL given, downloading the sample files")
		locations = sampleLocations
	}
	policy, err := job.ParsePolicy(a.Config.Policy)
	if err != nil {
		return err
	}
	if a.Config.MaxTasks < 1 {
		return fmt.Errorf("invalid max-tasks %d, at least 1 is expected", a.Config.MaxTasks)
	}

	tasks, err := job.Downloads(a.client(), locations, a.downloadOptions()...)
	if err != nil {
		return err
	}

	d := dispatcher.NewDispatcher(len(tasks) + 1)
	stop := d.Subscribe(func(m *models.Message) {
		a.logger.Trace().Printf("[JOB] %s", m)
	})
	defer stop()

	display, done := a.display()
	defer done()

	j := job.New(display,
		job.WithConcurrency(a.Config.MaxTasks),
		job.WithPolicy(policy),
		job.WithLogger(a.logger),
		job.WithDispatcher(d),
	)
	a.logger.Info().Printf("[DOWNLOAD] %d files, %d at a time, policy %s", len(tasks), a.Config.MaxTasks, policy)
	return j.Run(ctx, tasks)
}

func (a *app) downloadOptions() []download.Option {
	return []download.Option{
		download.WithDirectory(a.Config.Directory),
		download.WithDefaultName(a.Config.DefaultName),
		download.WithIdleTimeout(a.Config.IdleTimeout),
		download.WithLogger(a.logger.Info()),
	}
}
