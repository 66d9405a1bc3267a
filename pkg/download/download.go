// Package download transfers one remote file to the local disk.
package download

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/simulot/multidl/pkg/models"
	"github.com/simulot/multidl/pkg/myhttp"
	"github.com/simulot/multidl/pkg/progress"
)

const chunkSize = 32 * 1024

type Logger interface {
	Printf(fmt string, a ...interface{})
}

// Task is the download of one location into one file.
// Its fields are updated only by the goroutine running it.
type Task struct {
	ID          uuid.UUID
	Location    *url.URL
	Destination string // path of the file, known after the probe
	Expected    int64  // Content-Length given by the probe, 0 when unknown
	Transferred int64  // bytes received so far

	client      *myhttp.Client
	dir         string
	defaultName string
	idle        time.Duration
	logger      Logger
}

type Option func(t *Task)

// WithDirectory sets the directory receiving the file
func WithDirectory(dir string) Option {
	return func(t *Task) {
		t.dir = PathClean(dir)
	}
}

// WithDefaultName sets the file name used when the location doesn't give one
func WithDefaultName(name string) Option {
	return func(t *Task) {
		if n := FileNameCleaner(name); n != "" {
			t.defaultName = n
		}
	}
}

// WithIdleTimeout aborts the transfer when no data is received during d. 0 disables it.
func WithIdleTimeout(d time.Duration) Option {
	return func(t *Task) {
		t.idle = d
	}
}

func WithLogger(l Logger) Option {
	return func(t *Task) {
		t.logger = l
	}
}

// NewTask prepares the download of location. A nil client means myhttp.DefaultClient.
func NewTask(client *myhttp.Client, location *url.URL, opts ...Option) *Task {
	if client == nil {
		client = myhttp.DefaultClient
	}
	t := &Task{
		ID:          uuid.New(),
		Location:    location,
		client:      client,
		defaultName: DefaultName,
		logger:      log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Download fetches location into a file, reporting the progression on a bar of display
func Download(ctx context.Context, client *myhttp.Client, location *url.URL, display progress.Display, opts ...Option) (*Task, error) {
	t := NewTask(client, location, opts...)
	return t, t.Run(ctx, display)
}

// Name of the task for logs
func (t *Task) Name() string {
	return t.Location.String()
}

// Run probes the location, creates the file and copies the body into it.
func (t *Task) Run(ctx context.Context, display progress.Display) error {
	u := t.Location.String()

	// The probe gives the size for the progress bar
	resp, err := t.client.Head(ctx, u)
	if err != nil {
		return err
	}
	if err := myhttp.CheckStatus(resp); err != nil {
		return err
	}
	resp.Body.Close()
	// No Content-Length means an unknown size. A malformed one never gets
	// here: the HTTP client rejects it and Head returns a transport error.
	t.Expected = 0
	if resp.ContentLength > 0 {
		t.Expected = resp.ContentLength
	}

	name := FileNameFromURL(t.Location, t.defaultName)
	t.Destination = filepath.Join(t.dir, name)
	bar := display.NewBar(progress.KindBytes, t.Expected, name)

	err = t.transfer(ctx, bar)
	if err != nil {
		bar.Abort()
		return err
	}
	t.logger.Printf("[DOWNLOAD] %s saved into %q (%d bytes)", u, t.Destination, t.Transferred)
	return nil
}

func (t *Task) transfer(ctx context.Context, bar *progress.Bar) (err error) {
	u := t.Location.String()

	f, err := os.Create(t.Destination)
	if err != nil {
		return models.NewError(models.KindIO, err, "Can't create file %q", t.Destination)
	}
	defer func() {
		// Close errors matter only when everything else went well
		if cerr := f.Close(); cerr != nil && err == nil {
			err = models.NewError(models.KindIO, cerr, "Can't close file %q", t.Destination)
		}
	}()
	w := bufio.NewWriterSize(f, chunkSize)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	dog := newWatchDog(t.idle, cancel)
	defer dog.Stop()

	resp, err := t.client.Get(ctx, u)
	if err != nil {
		return t.idleError(dog, err)
	}
	if err := myhttp.CheckStatus(resp); err != nil {
		return err
	}
	defer resp.Body.Close()

	t.Transferred = 0
	buf := make([]byte, chunkSize)
	for {
		n, rerr := resp.Body.Read(buf)
		if n > 0 {
			dog.Kick()
			bar.Increment(int64(n))
			if _, err := w.Write(buf[:n]); err != nil {
				return models.NewError(models.KindIO, err, "Can't write file %q", t.Destination)
			}
			t.Transferred += int64(n)
		}
		if errors.Is(rerr, io.EOF) {
			break
		}
		if rerr != nil {
			return t.idleError(dog, models.NewError(models.KindTransport, rerr, "Can't read %s", u))
		}
	}

	bar.Finish()
	if err := w.Flush(); err != nil {
		return models.NewError(models.KindIO, err, "Can't write file %q", t.Destination)
	}
	return nil
}

func (t *Task) idleError(dog *watchdog, err error) error {
	if dog.Barked() {
		return models.NewError(models.KindTransport, err, "No data received from %s during %s", t.Location, t.idle)
	}
	return err
}
