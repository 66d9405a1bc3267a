package progress

import (
	"context"
)

// Display renders a set of bars.
// NewBar is called by the tasks, Wait is the render loop. Wait returns once
// every bar is finished, or with a render error when ctx is done.
type Display interface {
	NewBar(kind Kind, total int64, label string) *Bar
	Wait(ctx context.Context) error
}

// Discard is a display that draws nothing
type Discard struct {
	*Registry
}

func NewDiscard() *Discard {
	return &Discard{Registry: NewRegistry()}
}

func (d *Discard) NewBar(kind Kind, total int64, label string) *Bar {
	return d.add(kind, total, label)
}

func (d *Discard) Wait(ctx context.Context) error {
	return d.poll(ctx, defaultInterval, func() {})
}
