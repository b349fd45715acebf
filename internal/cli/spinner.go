package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/drawkit/pkg/observability"
	"github.com/matzehuels/drawkit/pkg/stylize"
)

// Spinner provides a simple progress indicator with context cancellation support.
type Spinner struct {
	message string
	width   int
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	stopped chan struct{}
	frames  []string
	mu      sync.Mutex
}

// newSpinner creates a new spinner with the given message.
func newSpinner(message string) *Spinner {
	return newSpinnerWithContext(context.Background(), message)
}

// newSpinnerWithContext creates a spinner that will stop when the context is cancelled.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	spinnerCtx, cancel := context.WithCancel(ctx)
	return &Spinner{
		message: message,
		width:   len(message),
		ctx:     spinnerCtx,
		cancel:  cancel,
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
		frames:  []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
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
				fmt.Fprintf(os.Stderr, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
				s.mu.Unlock()
				i++
			}
		}
	}()
}

// SetMessage replaces the text shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
	s.width = max(s.width, len(message))
}

// Message returns the text currently shown.
func (s *Spinner) Message() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.message
}

// Stop stops the spinner and clears the line.
func (s *Spinner) Stop() {
	s.cancel()
	s.mu.Lock()
	select {
	case <-s.done:
	default:
		close(s.done)
	}
	s.mu.Unlock()
	<-s.stopped
	s.clearLine()
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(os.Stderr, "\r%s\r", strings.Repeat(" ", s.width+4))
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

// =============================================================================
// Style Transfer Progress
// =============================================================================

var stateMessages = map[string]string{
	stylize.StateExporting.String():   "Exporting scene",
	stylize.StateUploading.String():   "Uploading to style transfer",
	stylize.StateDecoding.String():    "Loading result image",
	stylize.StateIntegrating.String(): "Adding image to scene",
}

// spinnerHooks mirrors style-transfer progress onto a spinner.
type spinnerHooks struct {
	observability.NoopStylizeHooks
	observability.NoopUploadHooks
	spinner *Spinner
}

func (h spinnerHooks) OnTransition(_ context.Context, _, to string) {
	if msg, ok := stateMessages[to]; ok {
		h.spinner.SetMessage(msg)
	}
}

func (h spinnerHooks) OnAttempt(_ context.Context, attempt int, replica string) {
	if attempt > 1 {
		h.spinner.SetMessage(fmt.Sprintf("Uploading to style transfer (attempt %d, %s)", attempt, replica))
	}
}

// attachSpinner routes stylize and upload hooks to s until the returned
// func is called.
func attachSpinner(s *Spinner) (detach func()) {
	prevStylize, prevUpload := observability.Stylize(), observability.Upload()
	h := spinnerHooks{spinner: s}
	observability.SetStylizeHooks(h)
	observability.SetUploadHooks(h)
	return func() {
		observability.SetStylizeHooks(prevStylize)
		observability.SetUploadHooks(prevUpload)
	}
}
