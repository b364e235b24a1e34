package progress

import (
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/JSH-Team/unpack/internal/utils/logger"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Sink receives one Advance per successfully extracted unit.
// Implementations must be safe for concurrent use.
type Sink interface {
	Advance()
	Finish()
}

// New picks a terminal progress bar when stderr is a terminal and a
// log-based sink otherwise (or when quiet is set).
func New(total int, quiet bool) Sink {
	fd := os.Stderr.Fd()
	if quiet || !(isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)) {
		return NewLogSink(total)
	}
	return NewBar(total, os.Stderr)
}

type barSink struct {
	bar *progressbar.ProgressBar
}

// NewBar renders progress with a progressbar on w.
func NewBar(total int, w io.Writer) Sink {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("Unpacking"),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionOnCompletion(func() {
			io.WriteString(w, "\n")
		}),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
	return &barSink{bar: bar}
}

func (b *barSink) Advance() {
	b.bar.Add(1)
}

func (b *barSink) Finish() {
	b.bar.Exit()
}

type logSink struct {
	mu    sync.Mutex
	total int
	done  int
	step  int
}

// NewLogSink logs progress roughly every tenth of the total.
func NewLogSink(total int) Sink {
	step := total / 10
	if step < 1 {
		step = 1
	}
	return &logSink{total: total, step: step}
}

func (l *logSink) Advance() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.done++
	if l.done%l.step == 0 || l.done == l.total {
		logger.Info("Extracted %d/%d files", l.done, l.total)
	}
}

func (l *logSink) Finish() {}

// Counter counts Advance calls.
type Counter struct {
	advances atomic.Int64
	finished atomic.Bool
}

func (c *Counter) Advance() {
	c.advances.Add(1)
}

func (c *Counter) Finish() {
	c.finished.Store(true)
}

// Count returns the number of Advance calls so far.
func (c *Counter) Count() int {
	return int(c.advances.Load())
}

// Finished reports whether Finish was called.
func (c *Counter) Finished() bool {
	return c.finished.Load()
}
