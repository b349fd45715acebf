package action

import (
	"context"

	"github.com/matzehuels/drawkit/pkg/clipboard"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/i18n"
	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/stylize"
)

// App is the host seen by commands.
type App interface {
	// SurfaceAttached reports whether there is a drawing surface to render onto.
	SurfaceAttached() bool
	Name() string
	Files() scene.Files
	Clipboard() Clipboard
	Exporter() Exporter
	Stylizer() Stylizer
	// Prompt is the current style-transfer prompt. Empty selects the default.
	Prompt() string
	Translator() *i18n.Translator
	// Paste turns a clipboard payload into an effect.
	Paste(ctx context.Context, p clipboard.Payload, in Input) (*scene.Effect, error)
}

// Clipboard is the clipboard interop used by commands.
// *clipboard.Interop implements it.
type Clipboard interface {
	Write(ctx context.Context, elements []scene.Element, files scene.Files) (clipboard.WriteReport, error)
	WriteText(ctx context.Context, text string) error
	Read(ctx context.Context) (clipboard.Payload, error)
	ProbablySupportsClipboardBlob() bool
	ProbablySupportsClipboardWriteText() bool
	Restricted() bool
}

// Exporter renders elements. *export.Exporter implements it.
type Exporter interface {
	Export(ctx context.Context, format export.Format, elements []scene.Element, state scene.AppState, files scene.Files, ov export.Overrides) (*export.Blob, error)
}

// Stylizer runs a style transfer. *stylize.Orchestrator implements it.
type Stylizer interface {
	Stylize(ctx context.Context, req stylize.Request) *scene.Effect
}

var (
	_ Clipboard = (*clipboard.Interop)(nil)
	_ Exporter  = (*export.Exporter)(nil)
	_ Stylizer  = (*stylize.Orchestrator)(nil)
)
