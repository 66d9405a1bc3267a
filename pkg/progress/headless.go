package progress

import (
	"context"
	"time"
)

const defaultInterval = 100 * time.Millisecond

type Logger interface {
	Printf(fmt string, a ...interface{})
}

// Headless logs the bars instead of drawing them. A line is emitted each time
// the state of a bar has changed since the previous round.
type Headless struct {
	*Registry
	logger   Logger
	interval time.Duration
	last     map[int]State
}

// NewHeadless gives a display that writes to logger every interval
func NewHeadless(logger Logger, interval time.Duration) *Headless {
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Headless{
		Registry: NewRegistry(),
		logger:   logger,
		interval: interval,
		last:     map[int]State{},
	}
}

func (h *Headless) NewBar(kind Kind, total int64, label string) *Bar {
	return h.add(kind, total, label)
}

func (h *Headless) Wait(ctx context.Context) error {
	return h.poll(ctx, h.interval, h.draw)
}

func (h *Headless) draw() {
	for _, s := range h.States() {
		if prev, ok := h.last[s.ID]; ok && prev == s {
			continue
		}
		h.last[s.ID] = s
		switch {
		case s.Aborted:
			h.logger.Printf("[PROGRESS] %s aborted", s)
		case s.Finished:
			h.logger.Printf("[PROGRESS] %s finished", s)
		default:
			h.logger.Printf("[PROGRESS] %s", s)
		}
	}
}
