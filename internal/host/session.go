// Package host wires the action subsystem to a document. A Session is the
// App that commands see: it owns the document, applies the effects that
// commands return and persists new file records.
package host

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawkit/pkg/action"
	"github.com/matzehuels/drawkit/pkg/clipboard"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/filestore"
	"github.com/matzehuels/drawkit/pkg/i18n"
	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/stylize"
)

// Session hosts one open document.
type Session struct {
	doc        *scene.Document
	name       string
	surface    bool
	dispatcher *action.Dispatcher
	clipboard  *clipboard.Interop
	exporter   *export.Exporter
	stylizer   action.Stylizer
	prompt     *stylize.PromptContext
	tr         *i18n.Translator
	store      filestore.Store
	logger     *log.Logger
	now        func() time.Time

	// mu serialises commands so repeated triggers run one after another.
	mu sync.Mutex
}

// Option configures a Session.
type Option func(*Session)

// WithName sets the scene name used for exports.
func WithName(name string) Option { return func(s *Session) { s.name = name } }

// WithSurface marks whether a drawing surface is attached. It is attached
// by default.
func WithSurface(attached bool) Option { return func(s *Session) { s.surface = attached } }

// WithStylizer sets the style-transfer runner.
func WithStylizer(st action.Stylizer) Option { return func(s *Session) { s.stylizer = st } }

// WithPrompt sets the prompt context read by stylize.
func WithPrompt(p *stylize.PromptContext) Option { return func(s *Session) { s.prompt = p } }

// WithTranslator sets the translator for user-facing messages.
func WithTranslator(tr *i18n.Translator) Option { return func(s *Session) { s.tr = tr } }

// WithFileStore persists file records added by effects.
func WithFileStore(fs filestore.Store) Option { return func(s *Session) { s.store = fs } }

// WithClock sets the time source for pasted elements.
func WithClock(now func() time.Time) Option { return func(s *Session) { s.now = now } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewSession opens doc with the given command dispatcher, clipboard and
// exporter.
func NewSession(doc *scene.Document, d *action.Dispatcher, cb *clipboard.Interop, ex *export.Exporter, opts ...Option) *Session {
	s := &Session{
		doc:        doc,
		surface:    true,
		dispatcher: d,
		clipboard:  cb,
		exporter:   ex,
		logger:     log.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.prompt == nil {
		s.prompt = stylize.NewPromptContext("")
	}
	if s.tr == nil {
		s.tr = i18n.Default().Translator(i18n.BaseLocale)
	}
	return s
}

// Document returns the hosted document.
func (s *Session) Document() *scene.Document { return s.doc }

// PromptContext returns the prompt context fed by the message channel.
func (s *Session) PromptContext() *stylize.PromptContext { return s.prompt }

// Dispatcher returns the command dispatcher.
func (s *Session) Dispatcher() *action.Dispatcher { return s.dispatcher }

func (s *Session) SurfaceAttached() bool        { return s.surface }
func (s *Session) Files() scene.Files           { return s.doc.Files() }
func (s *Session) Clipboard() action.Clipboard  { return s.clipboard }
func (s *Session) Exporter() action.Exporter    { return s.exporter }
func (s *Session) Prompt() string               { return s.prompt.Prompt() }
func (s *Session) Translator() *i18n.Translator { return s.tr }
func (s *Session) Stylizer() action.Stylizer    { return s.stylizer }

// Name returns the scene name, falling back to the app state name and
// then to the translated "Untitled".
func (s *Session) Name() string {
	if s.name != "" {
		return s.name
	}
	if n := s.doc.AppState().Name; n != "" {
		return n
	}
	return s.tr.T("labels.untitled")
}

// Input snapshots the document for a command.
func (s *Session) Input() action.Input {
	return action.Input{
		Elements: s.doc.Elements(),
		AppState: s.doc.AppState(),
		App:      s,
	}
}

// Available returns the commands whose predicate currently holds.
func (s *Session) Available() []action.Descriptor {
	return s.dispatcher.Available(s.Input())
}

// Perform runs the named command and applies its effect.
func (s *Session) Perform(ctx context.Context, name string) (action.Dispatched, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, err := s.dispatcher.Perform(ctx, name, s.Input())
	if err != nil {
		return res, err
	}
	return res, s.apply(ctx, res.Effect)
}

// DispatchKey runs the command bound to ev, if any, and applies its
// effect.
func (s *Session) DispatchKey(ctx context.Context, ev action.KeyEvent) (action.Dispatched, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.dispatcher.DispatchByKey(ctx, ev, s.Input())
	if !ok {
		return res, false, nil
	}
	return res, true, s.apply(ctx, res.Effect)
}

// apply persists new files and then applies eff to the document.
func (s *Session) apply(ctx context.Context, eff *scene.Effect) error {
	if eff == nil {
		return nil
	}
	if s.store != nil && len(eff.Files) > 0 {
		if err := filestore.PutAll(ctx, s.store, eff.Files); err != nil {
			return err
		}
		s.logger.Debug("persisted files", "count", len(eff.Files))
	}
	s.doc.Apply(eff)
	return nil
}

var _ action.App = (*Session)(nil)
