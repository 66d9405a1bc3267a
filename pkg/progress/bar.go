// Package progress holds the progress indicators shared by the download
// tasks and the display that renders them.
package progress

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Kind selects how a bar is rendered
type Kind int

const (
	KindBytes Kind = iota // a transfer, position and total are byte counts
	KindCount             // a counter of completed items
)

// State is a point in time copy of a bar
type State struct {
	ID       int
	Kind     Kind
	Position int64
	Total    int64
	Label    string
	Finished bool
	Aborted  bool
}

func (s State) String() string {
	switch {
	case s.Kind == KindCount:
		return fmt.Sprintf("%s %d/%d", s.Label, s.Position, s.Total)
	case s.Total > 0:
		return fmt.Sprintf("%s %d/%d bytes (%.1f%%)", s.Label, s.Position, s.Total, float64(s.Position)*100/float64(s.Total))
	default:
		return fmt.Sprintf("%s %d bytes", s.Label, s.Position)
	}
}

// hooks let a display mirror the bar updates into its renderer
type hooks struct {
	incr     func(n int64)
	setTotal func(total int64)
	setLabel func(label string)
	tick     func()
	finish   func(b *Bar)
	abort    func()
}

// Bar is a progress indicator. Tasks write it, the display reads it.
// All methods are safe for concurrent use.
type Bar struct {
	id    int
	kind  Kind
	pos   atomic.Int64
	total atomic.Int64

	mu    sync.Mutex
	label string

	ended    sync.RWMutex // held by Increment, locked to mark the end
	finished atomic.Bool
	aborted  atomic.Bool
	done     chan struct{}
	once     sync.Once

	hooks hooks
}

func newBar(id int, kind Kind, total int64, label string) *Bar {
	b := &Bar{
		id:    id,
		kind:  kind,
		label: label,
		done:  make(chan struct{}),
	}
	if total > 0 {
		b.total.Store(total)
	}
	return b
}

// Increment moves the position by n. Increments after the end are dropped.
func (b *Bar) Increment(n int64) {
	b.ended.RLock()
	defer b.ended.RUnlock()
	if b.finished.Load() {
		return
	}
	b.pos.Add(n)
	if b.hooks.incr != nil {
		b.hooks.incr(n)
	}
}

// SetTotal changes the length of the bar, 0 means unknown
func (b *Bar) SetTotal(total int64) {
	if total < 0 {
		total = 0
	}
	b.total.Store(total)
	if b.hooks.setTotal != nil {
		b.hooks.setTotal(total)
	}
}

// SetLabel changes the text displayed with the bar
func (b *Bar) SetLabel(label string) {
	b.mu.Lock()
	b.label = label
	b.mu.Unlock()
	if b.hooks.setLabel != nil {
		b.hooks.setLabel(label)
	}
}

// Tick asks the display to draw the bar now
func (b *Bar) Tick() {
	if b.hooks.tick != nil {
		b.hooks.tick()
	}
}

// Finish marks the bar as complete and asks for a last drawing.
// Only the first call has an effect.
func (b *Bar) Finish() {
	b.once.Do(func() {
		b.end()
		if b.hooks.finish != nil {
			b.hooks.finish(b)
		}
		close(b.done)
		b.Tick()
	})
}

// FinishWithLabel changes the label and marks the bar as complete
func (b *Bar) FinishWithLabel(label string) {
	b.SetLabel(label)
	b.Finish()
}

// Abort ends the bar without completing it
func (b *Bar) Abort() {
	b.once.Do(func() {
		b.aborted.Store(true)
		b.end()
		if b.hooks.abort != nil {
			b.hooks.abort()
		}
		close(b.done)
		b.Tick()
	})
}

func (b *Bar) end() {
	b.ended.Lock()
	b.finished.Store(true)
	b.ended.Unlock()
}

func (b *Bar) ID() int         { return b.id }
func (b *Bar) Kind() Kind      { return b.kind }
func (b *Bar) Position() int64 { return b.pos.Load() }
func (b *Bar) Total() int64    { return b.total.Load() }
func (b *Bar) Finished() bool  { return b.finished.Load() }
func (b *Bar) Aborted() bool   { return b.aborted.Load() }

// Done is closed when the bar is finished or aborted
func (b *Bar) Done() <-chan struct{} { return b.done }

func (b *Bar) Label() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.label
}

// State returns a copy of the bar
func (b *Bar) State() State {
	return State{
		ID:       b.id,
		Kind:     b.kind,
		Position: b.Position(),
		Total:    b.Total(),
		Label:    b.Label(),
		Finished: b.Finished(),
		Aborted:  b.Aborted(),
	}
}
