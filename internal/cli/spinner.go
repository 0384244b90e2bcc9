package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/photogrid/pkg/observability"
)

// Spinner provides a simple progress indicator with context cancellation support.
type Spinner struct {
	w       io.Writer
	message string
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
	width   int // widest message drawn, for clearing
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       os.Stderr,
		message: message,
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation. While it runs, pipeline stage events
// replace the message.
func (s *Spinner) Start() {
	observability.SetPipelineHooks(stageHooks{s})
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		i := 0
		for {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-s.done:
				return
			case <-ticker.C:
				frame := s.frames[i%len(s.frames)]
				s.mu.Lock()
				if n := len(s.message) + 4; n > s.width {
					s.width = n
				}
				fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// Update replaces the message shown next to the spinner.
func (s *Spinner) Update(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Message returns the current message.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	<-s.stopped
	s.clearLine()
	observability.SetPipelineHooks(observability.NoopPipelineHooks{})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := s.width
	if n == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", n))
}

// StopWithSuccess stops the spinner and shows a success message.
func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

// StopWithError stops the spinner and shows an error message.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled returns true if the spinner was stopped due to context cancellation.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}

// stageHooks narrates pipeline stages on a spinner.
type stageHooks struct {
	s *Spinner
}

var _ observability.PipelineHooks = stageHooks{}

func (h stageHooks) OnLoadStart(_ context.Context, source string) {
	h.s.Update(fmt.Sprintf("Loading %s...", source))
}

func (h stageHooks) OnLoadComplete(context.Context, string, int, time.Duration, error) {}

func (h stageHooks) OnProbeStart(_ context.Context, images int) {
	h.s.Update(fmt.Sprintf("Probing %d images...", images))
}

func (h stageHooks) OnProbeComplete(context.Context, int, int, time.Duration, error) {}

func (h stageHooks) OnLayoutStart(_ context.Context, width float64, images int) {
	h.s.Update(fmt.Sprintf("Packing %d images at %.0fpx...", images, width))
}

func (h stageHooks) OnLayoutComplete(context.Context, float64, time.Duration) {}

func (h stageHooks) OnRenderStart(_ context.Context, format string) {
	h.s.Update(fmt.Sprintf("Rendering %s...", format))
}

func (h stageHooks) OnRenderComplete(context.Context, string, int, time.Duration, error) {}
