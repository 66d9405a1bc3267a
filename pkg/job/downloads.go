package job

import (
	"context"
	"errors"

	"github.com/simulot/multidl/pkg/download"
	"github.com/simulot/multidl/pkg/myhttp"
	"github.com/simulot/multidl/pkg/progress"
)

// Downloads gives one download task per location.
// All invalid locations are reported together.
func Downloads(client *myhttp.Client, locations []string, opts ...download.Option) ([]Task, error) {
	var errs []error
	tasks := make([]Task, 0, len(locations))
	for _, l := range locations {
		u, err := download.ParseLocation(l)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		tasks = append(tasks, download.NewTask(client, u, opts...))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return tasks, nil
}

// Run downloads locations into the current directory, at most limit at a time,
// with the default HTTP client.
func Run(ctx context.Context, display progress.Display, locations []string, limit int, opts ...Option) error {
	j := New(display, append(append([]Option{}, opts...), WithConcurrency(limit))...)
	if len(locations) == 0 {
		return errors.New("no location to download")
	}
	tasks, err := Downloads(nil, locations)
	if err != nil {
		return err
	}
	return j.Run(ctx, tasks)
}
