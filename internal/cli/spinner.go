package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames is the braille throbber cycle.
var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a throbber on stderr while a slow call (connecting to a
// store, rasterizing a large graph) is in flight. It stops on Stop or when
// the surrounding context is cancelled, whichever comes first.
type Spinner struct {
	msg    string
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	exited chan struct{}
	stop   sync.Once
}

func newSpinner(msg string) *Spinner {
	return newSpinnerWithContext(context.Background(), msg)
}

func newSpinnerWithContext(ctx context.Context, msg string) *Spinner {
	inner, cancel := context.WithCancel(ctx)
	return &Spinner{
		msg:    msg,
		parent: ctx,
		ctx:    inner,
		cancel: cancel,
		exited: make(chan struct{}),
	}
}

// Start begins the animation in a background goroutine.
func (s *Spinner) Start() {
	go func() {
		defer close(s.exited)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				frame := spinnerFrames[i%len(spinnerFrames)]
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.msg))
			}
		}
	}()
}

// Stop halts the animation and clears the line. Safe to call more than once.
func (s *Spinner) Stop() {
	s.stop.Do(func() {
		s.cancel()
		<-s.exited
		s.clearLine()
	})
}

// StopWithSuccess stops the spinner and prints a success line in its place.
func (s *Spinner) StopWithSuccess(msg string) {
	s.Stop()
	printSuccess("%s", msg)
}

// StopWithError stops the spinner and prints an error line in its place.
func (s *Spinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the surrounding context ended the spinner, as
// opposed to an explicit Stop.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}

func (s *Spinner) clearLine() {
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", len(s.msg)+4))
}
