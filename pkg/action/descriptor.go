package action

import (
	"context"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// Input is everything a command sees when it runs.
type Input struct {
	Elements []scene.Element
	AppState scene.AppState
	// Data is trigger-specific: the originating event or a panel value.
	Data any
	App  App
}

// PredicateFunc reports whether a command is currently available.
type PredicateFunc func(in Input) bool

// KeyTestFunc reports whether ev triggers a command.
type KeyTestFunc func(ev KeyEvent) bool

// PerformFunc runs a command. A nil effect means nothing changes.
type PerformFunc func(ctx context.Context, in Input) (*scene.Effect, error)

// TrackEvent is analytics metadata.
type TrackEvent struct {
	Category string `json:"category"`
	Action   string `json:"action,omitempty"`
}

// Descriptor is one registered command.
type Descriptor struct {
	Name       string
	Label      string
	Icon       string
	TrackEvent *TrackEvent
	Keywords   []string
	Predicate  PredicateFunc
	KeyTest    KeyTestFunc
	Perform    PerformFunc
}

// Available reports whether the predicate holds. Commands without a
// predicate are always available.
func (d Descriptor) Available(in Input) bool {
	return d.Predicate == nil || d.Predicate(in)
}

// MatchesKey reports whether ev triggers d.
func (d Descriptor) MatchesKey(ev KeyEvent) bool {
	return d.KeyTest != nil && d.KeyTest(ev)
}
