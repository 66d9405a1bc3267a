package workers

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type recorder struct {
	sync.Mutex
	lines []string
}

func (r *recorder) Printf(f string, a ...interface{}) {
	r.Lock()
	defer r.Unlock()
	r.lines = append(r.lines, fmt.Sprintf(f, a...))
}

func TestLimit(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		t.Run("workers_"+strconv.Itoa(n), func(t *testing.T) {
			w := New(n)
			var count atomic.Int64
			for i := 0; i < 8; i++ {
				w.Submit(
					NewRunAction("test_"+strconv.Itoa(i), func() error {
						time.Sleep(20 * time.Millisecond)
						count.Add(1)
						return nil
					}))
			}
			if err := w.Wait(); err != nil {
				t.Fatalf("Wait() error = %v", err)
			}
			if count.Load() != 8 {
				t.Errorf("%d items ran, want 8", count.Load())
			}
			if w.Peak() > n {
				t.Errorf("Peak() = %d, limit is %d", w.Peak(), n)
			}
			if w.Active() != 0 {
				t.Errorf("Active() = %d after Wait", w.Active())
			}
		})
	}
}

func TestFailureReleasesWorker(t *testing.T) {
	rec := &recorder{}
	w := New(1, WithLogger(rec))
	boom := errors.New("boom")
	w.Submit(NewRunAction("fail", func() error { return boom }))
	w.Submit(NewRunAction("ok", func() error { return nil }))

	if err := w.Wait(); !errors.Is(err, boom) {
		t.Errorf("Wait() error = %v, want %v", err, boom)
	}
	if len(rec.lines) != 2 {
		t.Fatalf("want 2 log lines, got %q", rec.lines)
	}
	if rec.lines[0] != "Fail  [1]: fail with error(boom)" {
		t.Errorf("unexpected log line %q", rec.lines[0])
	}
}

func TestNewLimitFloor(t *testing.T) {
	if w := New(0); w.Workers() != 1 {
		t.Errorf("Workers() = %d, want 1", w.Workers())
	}
}
