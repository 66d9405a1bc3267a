package progress

import (
	"context"
	"io"

	"github.com/schollz/progressbar/v3"
)

// Single draws each bar with its own progressbar, it suits one transfer at a time
type Single struct {
	*Registry
	w io.Writer
}

func NewSingle(w io.Writer) *Single {
	return &Single{
		Registry: NewRegistry(),
		w:        w,
	}
}

func (s *Single) NewBar(kind Kind, total int64, label string) *Bar {
	b := s.add(kind, total, label)

	length := total
	if length <= 0 {
		length = -1
	}
	opts := []progressbar.Option{
		progressbar.OptionSetWriter(s.w),
		progressbar.OptionSetDescription(label),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() { io.WriteString(s.w, "\n") }),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    ">",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	}
	if kind == KindBytes {
		opts = append(opts, progressbar.OptionShowBytes(true))
	}
	pb := progressbar.NewOptions64(length, opts...)

	b.hooks.incr = func(n int64) { pb.Add64(n) }
	b.hooks.setTotal = func(total int64) {
		if total <= 0 {
			total = -1
		}
		pb.ChangeMax64(total)
	}
	b.hooks.setLabel = pb.Describe
	b.hooks.finish = func(*Bar) { pb.Finish() }
	b.hooks.abort = func() { pb.Exit() }
	return b
}

func (s *Single) Wait(ctx context.Context) error {
	return s.poll(ctx, defaultInterval, func() {})
}
