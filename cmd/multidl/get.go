package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/simulot/multidl/pkg/download"
	"github.com/simulot/multidl/pkg/progress"
)

// Get downloads one location with a single progression bar
func (a *app) Get(ctx context.Context, args []string) error {
	if len(args) != 1 {
		a.fsGet.Usage()
		return errors.New("one URL is expected")
	}
	u, err := download.ParseLocation(args[0])
	if err != nil {
		return err
	}

	var display progress.Display = progress.NewSingle(a.stdout)
	if a.Config.Headless {
		display = progress.NewDiscard()
	}
	t, err := download.Download(ctx, a.client(), u, display, a.downloadOptions()...)
	if t.Destination != "" {
		// The bar is ended, let the display draw it a last time
		if werr := display.Wait(ctx); err == nil {
			err = werr
		}
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %d bytes\n", t.Destination, t.Transferred)
	return nil
}

// Fetch copies one location into a file
func (a *app) Fetch(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		a.fsFetch.Usage()
		return errors.New("one URL and an optional file name are expected")
	}
	u, err := download.ParseLocation(args[0])
	if err != nil {
		return err
	}
	dest := filepath.Join(download.PathClean(a.Config.Directory), download.FileNameFromURL(u, a.Config.DefaultName))
	if len(args) == 2 {
		dest = args[1]
	}
	n, err := download.Fetch(ctx, a.client(), u, dest)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "%s: %d bytes\n", download.PathClean(dest), n)
	return nil
}
