package download

import (
	"sync/atomic"
	"time"
)

// watchdog calls back when it isn't kicked for interval.
// A zero interval gives a watchdog that never barks.
type watchdog struct {
	interval time.Duration
	timer    *time.Timer
	barked   atomic.Bool
}

// newWatchDog
func newWatchDog(interval time.Duration, callback func()) *watchdog {
	w := watchdog{
		interval: interval,
	}
	if interval > 0 {
		w.timer = time.AfterFunc(interval, func() {
			w.barked.Store(true)
			callback()
		})
	}
	return &w
}

func (w *watchdog) Stop() {
	if w.timer != nil {
		w.timer.Stop()
	}
}

func (w *watchdog) Kick() {
	if w.timer != nil {
		w.timer.Reset(w.interval)
	}
}

// Barked tells if the callback was called
func (w *watchdog) Barked() bool {
	return w.barked.Load()
}
