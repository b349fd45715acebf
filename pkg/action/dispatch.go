package action

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/observability"
	"github.com/matzehuels/drawkit/pkg/scene"
)

// Trigger names passed to the action hooks.
const (
	TriggerName = "name"
	TriggerKey  = "key"
)

// Dispatched is the outcome of a performed command.
type Dispatched struct {
	Action string
	// Effect is nil when the command made no change.
	Effect *scene.Effect
}

// Dispatcher performs commands from a registry.
type Dispatcher struct {
	registry *Registry
	logger   *log.Logger
}

// DispatcherOption configures a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDispatcher creates a dispatcher over reg.
func NewDispatcher(reg *Registry, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{registry: reg, logger: log.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registry returns the registry the dispatcher reads from.
func (d *Dispatcher) Registry() *Registry { return d.registry }

// Available returns the descriptors whose predicate holds for in.
func (d *Dispatcher) Available(in Input) []Descriptor {
	var out []Descriptor
	for _, desc := range d.registry.order {
		if desc.Available(in) {
			out = append(out, desc)
		}
	}
	return out
}

// Perform runs the named command. It fails only when the command is
// unknown or its predicate does not hold; errors from the command itself
// become an error effect.
func (d *Dispatcher) Perform(ctx context.Context, name string, in Input) (Dispatched, error) {
	desc, ok := d.registry.Get(name)
	if !ok {
		return Dispatched{}, dkerrors.New(dkerrors.ErrCodeUnknownAction, "unknown action %q", name)
	}
	if !desc.Available(in) {
		return Dispatched{}, dkerrors.New(dkerrors.ErrCodeInvalidAction, "action %q is not available", name)
	}
	return d.perform(ctx, desc, TriggerName, in), nil
}

// DispatchByKey performs the first registered command whose key test
// matches ev and whose predicate holds. It reports false when no command
// matched.
func (d *Dispatcher) DispatchByKey(ctx context.Context, ev KeyEvent, in Input) (Dispatched, bool) {
	if in.Data == nil {
		in.Data = ev
	}
	for _, desc := range d.registry.order {
		if desc.MatchesKey(ev) && desc.Available(in) {
			return d.perform(ctx, desc, TriggerKey, in), true
		}
	}
	return Dispatched{}, false
}

func (d *Dispatcher) perform(ctx context.Context, desc Descriptor, trigger string, in Input) Dispatched {
	start := time.Now()
	eff, err := desc.Perform(ctx, in)
	var msg string
	if err != nil {
		msg = dkerrors.UserMessage(err)
		d.logger.Error("action failed", "action", desc.Name, "err", err)
		eff = scene.ErrorEffect(in.AppState, msg)
	}
	captured := eff != nil && eff.StoreAction == scene.StoreActionCapture
	observability.Action().OnPerform(ctx, desc.Name, trigger, time.Since(start), captured, msg)
	d.logger.Debug("action performed", "action", desc.Name, "trigger", trigger, "captured", captured)
	return Dispatched{Action: desc.Name, Effect: eff}
}
