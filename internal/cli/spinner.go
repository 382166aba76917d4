package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	spinnerFrames   = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	spinnerInterval = 80 * time.Millisecond
)

// spinner animates a status line on w until stop is called or ctx ends.
type spinner struct {
	w       io.Writer
	label   string
	ctx     context.Context
	quit    chan struct{}
	wg      sync.WaitGroup
	stopped sync.Once
}

func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	s := &spinner{w: w, label: label, ctx: ctx, quit: make(chan struct{})}
	s.wg.Add(1)
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer s.wg.Done()
	frames := []rune(spinnerFrames)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for n := 0; ; n++ {
		select {
		case <-s.quit:
			return
		case <-s.ctx.Done():
			return
		case <-tick.C:
			fmt.Fprintf(s.w, "\r%s %s",
				StyleHighlight.Render(string(frames[n%len(frames)])), StyleDim.Render(s.label))
		}
	}
}

// stop ends the animation and blanks the line. Repeated calls are no-ops.
func (s *spinner) stop() {
	s.stopped.Do(func() {
		close(s.quit)
		s.wg.Wait()
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len([]rune(s.label))+2))
	})
}

// interrupted reports whether ctx ended while the spinner was running.
func (s *spinner) interrupted() bool { return s.ctx.Err() != nil }

// spin runs fn while a spinner shows label on stderr.
func spin(ctx context.Context, label string, fn func() error) error {
	s := startSpinner(ctx, os.Stderr, label)
	defer s.stop()
	return fn()
}
