package download

import (
	"bufio"
	"context"
	"io"
	"net/url"
	"os"

	"github.com/simulot/multidl/pkg/models"
	"github.com/simulot/multidl/pkg/myhttp"
)

// Fetch copies the body of location into destination, without probe nor progress.
// When destination is empty, the name is derived from the location.
// It returns the number of bytes written.
func Fetch(ctx context.Context, client *myhttp.Client, location *url.URL, destination string) (n int64, err error) {
	if client == nil {
		client = myhttp.DefaultClient
	}
	if destination == "" {
		destination = FileNameFromURL(location, DefaultName)
	}
	destination = PathClean(destination)

	resp, err := client.Get(ctx, location.String())
	if err != nil {
		return 0, err
	}
	if err := myhttp.CheckStatus(resp); err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	f, err := os.Create(destination)
	if err != nil {
		return 0, models.NewError(models.KindIO, err, "Can't create file %q", destination)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = models.NewError(models.KindIO, cerr, "Can't close file %q", destination)
		}
	}()

	w := bufio.NewWriter(f)
	n, err = io.Copy(w, resp.Body)
	if err != nil {
		return n, models.NewError(models.KindTransport, err, "Can't copy %s into %q", location, destination)
	}
	if err := w.Flush(); err != nil {
		return n, models.NewError(models.KindIO, err, "Can't write file %q", destination)
	}
	return n, nil
}
