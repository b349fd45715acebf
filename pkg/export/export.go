// Package export prepares scene elements for rendering and hands them to
// a Renderer.
//
// Export decides what to render: which elements, which enclosing frame,
// and which app-state overrides apply for one call. Rendering itself is
// delegated to a [Renderer]; the default is [pkg/render].
//
//	elements, frame := export.PrepareElementsForExport(all, state, true)
//	blob, err := x.Export(ctx, export.FormatBlob, elements, state, files,
//	    export.Overrides{Name: "board", ExportingFrame: frame})
//
// Clipboard formats write their result through a [ClipboardWriter] and
// return a nil blob. Results are never cached.
//
// [pkg/render]: github.com/matzehuels/drawkit/pkg/render
package export

import (
	"context"

	"github.com/charmbracelet/log"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/i18n"
	"github.com/matzehuels/drawkit/pkg/render"
	"github.com/matzehuels/drawkit/pkg/scene"
)

// Format is an export target.
type Format string

const (
	// FormatClipboard renders PNG and writes it to the clipboard.
	FormatClipboard Format = "clipboard"
	// FormatClipboardSVG renders SVG and writes it to the clipboard.
	FormatClipboardSVG Format = "clipboard-svg"
	// FormatBlob renders PNG and returns it.
	FormatBlob Format = "blob"
)

// Blob is rendered output returned to the caller.
type Blob struct {
	MIME string
	Data []byte
}

// Renderer draws prepared elements.
type Renderer interface {
	SVG(elements []scene.Element, files scene.Files, opts render.Options) ([]byte, error)
	PNG(elements []scene.Element, files scene.Files, opts render.Options) ([]byte, error)
}

// ClipboardWriter receives clipboard exports.
type ClipboardWriter interface {
	WriteImage(ctx context.Context, mime string, data []byte) error
}

// Overrides are merged over the app state for one export.
type Overrides struct {
	Name               string
	ExportWithDarkMode *bool
	ExportingFrame     *scene.Element
}

// DefaultRenderer renders with pkg/render.
type DefaultRenderer struct{}

func (DefaultRenderer) SVG(elements []scene.Element, files scene.Files, opts render.Options) ([]byte, error) {
	return render.SVG(elements, files, opts)
}

func (DefaultRenderer) PNG(elements []scene.Element, files scene.Files, opts render.Options) ([]byte, error) {
	return render.PNG(elements, files, opts)
}

// Exporter runs exports.
type Exporter struct {
	renderer  Renderer
	clipboard ClipboardWriter
	tr        *i18n.Translator
	logger    *log.Logger
}

// Option configures an Exporter.
type Option func(*Exporter)

// WithRenderer replaces the default renderer.
func WithRenderer(r Renderer) Option { return func(x *Exporter) { x.renderer = r } }

// WithTranslator sets the translator for user-facing error messages.
func WithTranslator(tr *i18n.Translator) Option { return func(x *Exporter) { x.tr = tr } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(x *Exporter) {
		if l != nil {
			x.logger = l
		}
	}
}

// New creates an Exporter writing clipboard formats to cb. cb may be nil
// when only FormatBlob is used.
func New(cb ClipboardWriter, opts ...Option) *Exporter {
	x := &Exporter{
		renderer:  DefaultRenderer{},
		clipboard: cb,
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(x)
	}
	if x.tr == nil {
		x.tr = i18n.Default().Translator(i18n.BaseLocale)
	}
	return x
}

// Export renders elements in format. The state argument is not modified;
// overrides apply to a copy. FormatBlob returns a blob, the clipboard
// formats return nil.
func (x *Exporter) Export(ctx context.Context, format Format, elements []scene.Element, state scene.AppState, files scene.Files, ov Overrides) (*Blob, error) {
	if len(elements) == 0 {
		return nil, dkerrors.New(dkerrors.ErrCodeEmptyCanvas, "%s", x.tr.T("alerts.cannotExportEmptyCanvas"))
	}

	effective := ApplyOverrides(state, ov)
	opts := render.Options{
		Padding:         render.DefaultPadding,
		Scale:           effective.ExportScale,
		DarkMode:        effective.ExportWithDarkMode,
		Background:      effective.ExportBackground,
		BackgroundColor: effective.ViewBackgroundColor,
		Frame:           ov.ExportingFrame,
	}
	if opts.Frame != nil {
		opts.Padding = 0
	}
	x.logger.Debug("export", "format", format, "elements", len(elements), "frame", opts.Frame != nil, "name", effective.Name)

	switch format {
	case FormatBlob:
		data, err := x.renderer.PNG(elements, files, opts)
		if err != nil {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeInternal, err, "render png")
		}
		return &Blob{MIME: scene.MimePNG, Data: data}, nil
	case FormatClipboard:
		data, err := x.renderer.PNG(elements, files, opts)
		if err != nil {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeInternal, err, "render png")
		}
		return nil, x.toClipboard(ctx, scene.MimePNG, data)
	case FormatClipboardSVG:
		data, err := x.renderer.SVG(elements, files, opts)
		if err != nil {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeInternal, err, "render svg")
		}
		return nil, x.toClipboard(ctx, scene.MimeSVG, data)
	default:
		return nil, dkerrors.New(dkerrors.ErrCodeInvalidInput, "unknown export format %q", format)
	}
}

func (x *Exporter) toClipboard(ctx context.Context, mime string, data []byte) error {
	if x.clipboard == nil {
		return dkerrors.New(dkerrors.ErrCodeClipboardWriteUnsupported, "no clipboard configured")
	}
	if err := x.clipboard.WriteImage(ctx, mime, data); err != nil {
		switch dkerrors.GetCode(err) {
		case dkerrors.ErrCodeClipboardAborted, dkerrors.ErrCodeClipboardWriteUnsupported:
			return err
		}
		return dkerrors.Wrap(dkerrors.ErrCodeClipboardWrite, err, "%s", x.tr.T("errors.copyToSystemClipboardFailed"))
	}
	return nil
}

// ApplyOverrides returns a copy of state with ov merged over it.
func ApplyOverrides(state scene.AppState, ov Overrides) scene.AppState {
	out := state.Clone()
	if ov.Name != "" {
		out.Name = ov.Name
	}
	if ov.ExportWithDarkMode != nil {
		out.ExportWithDarkMode = *ov.ExportWithDarkMode
	}
	return out
}
