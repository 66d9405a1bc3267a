package progress

import (
	"context"
	"sync"
	"time"

	"github.com/simulot/multidl/pkg/models"
)

// Registry keeps the bars of one display. Tasks add bars, the render loop iterates them.
type Registry struct {
	mu     sync.RWMutex
	bars   []*Bar
	nextID int
	tick   chan struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		tick: make(chan struct{}, 1),
	}
}

func (r *Registry) add(kind Kind, total int64, label string) *Bar {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	b := newBar(r.nextID, kind, total, label)
	b.hooks.tick = r.requestTick
	r.bars = append(r.bars, b)
	return b
}

// requestTick wakes up the render loop without blocking the caller
func (r *Registry) requestTick() {
	select {
	case r.tick <- struct{}{}:
	default:
	}
}

// Bars returns the registered bars in creation order
func (r *Registry) Bars() []*Bar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Bar(nil), r.bars...)
}

// States returns a snapshot of every bar
func (r *Registry) States() []State {
	bars := r.Bars()
	s := make([]State, len(bars))
	for i, b := range bars {
		s[i] = b.State()
	}
	return s
}

// AllFinished is true when at least one bar exists and every bar is finished
func (r *Registry) AllFinished() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.bars) == 0 {
		return false
	}
	for _, b := range r.bars {
		if !b.Finished() {
			return false
		}
	}
	return true
}

// poll calls draw on every interval and on every tick request until all bars
// are finished. It returns a render error when ctx ends first.
func (r *Registry) poll(ctx context.Context, interval time.Duration, draw func()) error {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return models.NewError(models.KindRender, ctx.Err(), "Progress display interrupted")
		case <-r.tick:
		case <-t.C:
		}
		draw()
		if r.AllFinished() {
			return nil
		}
	}
}
