package progress

import (
	"context"
	"io"
	"time"

	"github.com/simulot/multidl/pkg/models"
	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Terminal draws the bars with an mpb container
type Terminal struct {
	*Registry
	p           *mpb.Progress
	width       int
	refreshRate time.Duration
	labelWidth  int
}

type TerminalOption func(t *Terminal)

// WithWidth sets the width of the byte bars
func WithWidth(w int) TerminalOption {
	return func(t *Terminal) {
		t.width = w
	}
}

func WithRefreshRate(d time.Duration) TerminalOption {
	return func(t *Terminal) {
		t.refreshRate = d
	}
}

// WithLabelWidth reserves room for the labels so the bars stay aligned
func WithLabelWidth(w int) TerminalOption {
	return func(t *Terminal) {
		t.labelWidth = w
	}
}

func NewTerminal(w io.Writer, opts ...TerminalOption) *Terminal {
	t := &Terminal{
		Registry:    NewRegistry(),
		width:       40,
		refreshRate: 150 * time.Millisecond,
		labelWidth:  24,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.p = mpb.New(
		mpb.WithOutput(w),
		mpb.WithWidth(t.width),
		mpb.WithRefreshRate(t.refreshRate),
	)
	return t
}

// Write prints above the bars, so logs don't garble the display
func (t *Terminal) Write(b []byte) (int, error) {
	return t.p.Write(b)
}

func (t *Terminal) NewBar(kind Kind, total int64, label string) *Bar {
	b := t.add(kind, total, label)

	name := decor.Any(func(decor.Statistics) string { return b.Label() }, decor.WC{W: t.labelWidth, C: decor.DindentRight})

	var (
		mb  *mpb.Bar
		err error
	)
	switch kind {
	case KindCount:
		mb, err = t.p.Add(0,
			mpb.BarStyle().Build(),
			mpb.BarWidth(10),
			mpb.PrependDecorators(name),
			mpb.AppendDecorators(decor.CountersNoUnit("%d/%d", decor.WCSyncSpace)),
		)
	default:
		mb, err = t.p.Add(0,
			mpb.BarStyle().Lbound("[").Filler("#").Tip(">").Padding("-").Rbound("]").Build(),
			mpb.PrependDecorators(name),
			mpb.AppendDecorators(
				decor.Counters(decor.SizeB1024(0), "% .1f / % .1f", decor.WCSyncSpace),
				decor.OnComplete(decor.AverageSpeed(decor.SizeB1024(0), " % .1f", decor.WCSyncSpace), ""),
			),
		)
	}
	if err != nil {
		// The container is gone, the bar is still usable but not drawn
		return b
	}
	if total > 0 {
		mb.SetTotal(total, false)
	}
	b.hooks.incr = mb.IncrInt64
	b.hooks.setTotal = func(total int64) { mb.SetTotal(total, false) }
	b.hooks.finish = func(*Bar) { mb.SetTotal(-1, true) }
	b.hooks.abort = func() { mb.Abort(false) }
	return b
}

// Wait blocks until all bars are completed. When ctx ends first, the container
// is shut down and a render error is returned.
func (t *Terminal) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		t.p.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		t.p.Shutdown()
		<-done
		return models.NewError(models.KindRender, ctx.Err(), "Progress display interrupted")
	}
}
