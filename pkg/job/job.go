// Package job runs a set of tasks with a bounded concurrency while a display
// renders their progression.
package job

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/simulot/multidl/mylog"
	"github.com/simulot/multidl/pkg/dispatcher"
	"github.com/simulot/multidl/pkg/models"
	"github.com/simulot/multidl/pkg/progress"
	"github.com/simulot/multidl/workers"
)

// Task is a work unit of a job. Run must finish or abort every bar it creates on display.
type Task interface {
	Name() string
	Run(ctx context.Context, display progress.Display) error
}

// Policy tells what a job does with task failures
type Policy int

const (
	PolicyCollect  Policy = iota // run everything, return all failures
	PolicyIgnore                 // run everything, failures are only logged
	PolicyFailFast               // cancel the remaining tasks on the first failure
)

var policyNames = map[Policy]string{
	PolicyCollect:  "collect",
	PolicyIgnore:   "ignore",
	PolicyFailFast: "fail-fast",
}

func (p Policy) String() string { return policyNames[p] }

// ParsePolicy returns the policy named s
func ParsePolicy(s string) (Policy, error) {
	for p, n := range policyNames {
		if strings.EqualFold(strings.TrimSpace(s), n) {
			return p, nil
		}
	}
	return PolicyCollect, fmt.Errorf("invalid policy '%s', expecting collect, ignore or fail-fast", s)
}

// ErrSkipped is given for tasks not started because the job was cancelled
var ErrSkipped = errors.New("task skipped")

// DefaultTotalLabel is the label of the aggregate bar
const DefaultTotalLabel = "total  "

// A job launch a series of tasks
type Job struct {
	ID          uuid.UUID
	concurrency int // Number of concurrent tasks
	policy      Policy
	display     progress.Display
	publisher   dispatcher.Publisher
	logger      *mylog.MyLog
	totalLabel  string
	pool        *workers.WorkerPool
}

type Option func(j *Job)

// WithConcurrency sets the number of tasks running at the same time
func WithConcurrency(n int) Option {
	return func(j *Job) {
		j.concurrency = n
	}
}

func WithPolicy(p Policy) Option {
	return func(j *Job) {
		j.policy = p
	}
}

// WithDispatcher gets the job to publish its events
func WithDispatcher(p dispatcher.Publisher) Option {
	return func(j *Job) {
		j.publisher = p
	}
}

func WithLogger(l *mylog.MyLog) Option {
	return func(j *Job) {
		j.logger = l
	}
}

func WithTotalLabel(s string) Option {
	return func(j *Job) {
		j.totalLabel = s
	}
}

// New creates a job rendering on display. It runs one task at a time unless told otherwise.
func New(display progress.Display, opts ...Option) *Job {
	j := &Job{
		ID:          uuid.New(),
		concurrency: 1,
		display:     display,
		logger:      mylog.Discard(),
		totalLabel:  DefaultTotalLabel,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Run executes the tasks and waits for the display.
//
// The aggregate bar counts finished tasks, succeeded or not. The render loop
// runs beside the worker pool and doesn't take a worker. When the render loop
// fails, the running tasks are cancelled and the render error comes first in
// the returned error.
func (j *Job) Run(ctx context.Context, tasks []Task) error {
	if len(tasks) == 0 {
		return errors.New("no task to run")
	}
	if j.concurrency < 1 {
		return fmt.Errorf("invalid concurrency limit %d, at least 1 is expected", j.concurrency)
	}

	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	n := len(tasks)
	total := j.display.NewBar(progress.KindCount, int64(n), j.totalLabel)
	total.Tick()
	j.publish(models.NewEvent(j.ID, models.JobStarted, fmt.Sprintf("%d tasks, %d at a time", n, j.concurrency)).SetProgression(0, n))

	renderDone := make(chan error, 1)
	go func() {
		err := j.display.Wait(ctx)
		if err != nil {
			cancel()
		}
		renderDone <- err
	}()

	var (
		mu       sync.Mutex
		failures []error
		finished atomic.Int64
	)
	j.pool = workers.New(j.concurrency, workers.WithLogger(j.logger.Trace()))
	for _, t := range tasks {
		t := t // per-iteration copy: go.mod targets go1.21 loop semantics
		j.pool.Submit(workers.NewRunAction(t.Name(), func() error {
			defer total.Increment(1)
			if taskCtx.Err() != nil {
				finished.Add(1)
				return ErrSkipped
			}
			taskID := uuid.New()
			j.publish(models.NewEvent(j.ID, models.JobTaskStarted, t.Name()).SetTask(taskID))
			j.logger.Trace().Printf("[JOB] Start %s", t.Name())

			err := t.Run(taskCtx, j.display)
			done := int(finished.Add(1))
			if err != nil {
				j.logger.Error().Printf("[JOB] %s", models.Describe(err))
				j.publish(models.NewEvent(j.ID, models.JobTaskError, t.Name()).SetTask(taskID).SetError(err).SetProgression(done, n))
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
				if j.policy == PolicyFailFast {
					cancel()
				}
				return err
			}
			j.publish(models.NewEvent(j.ID, models.JobTaskSuccess, t.Name()).SetTask(taskID).SetProgression(done, n))
			return nil
		}))
	}
	j.pool.Wait()

	total.FinishWithLabel("done")
	renderErr := <-renderDone

	var taskErr error
	if j.policy != PolicyIgnore {
		taskErr = errors.Join(failures...)
	}
	j.publish(models.NewEvent(j.ID, models.JobEnded, fmt.Sprintf("%d tasks, %d failed", n, len(failures))).SetProgression(int(finished.Load()), n))

	switch {
	case renderErr != nil && taskErr != nil:
		return errors.Join(renderErr, taskErr)
	case renderErr != nil:
		return renderErr
	}
	return taskErr
}

// Peak gives the highest number of tasks that ran together during the last Run
func (j *Job) Peak() int {
	if j.pool == nil {
		return 0
	}
	return j.pool.Peak()
}

func (j *Job) publish(m *models.Message) {
	if j.publisher != nil {
		j.publisher.Publish(m)
	}
}
