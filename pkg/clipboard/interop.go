package clipboard

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/charmbracelet/log"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/scene"
)

// Interop is the editor-facing clipboard API on top of a Backend.
type Interop struct {
	backend Backend
	logger  *log.Logger
}

// Option configures an Interop.
type Option func(*Interop)

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *Interop) {
		if l != nil {
			c.logger = l
		}
	}
}

// New wraps backend.
func New(backend Backend, opts ...Option) *Interop {
	c := &Interop{backend: backend, logger: log.Default()}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Probe returns the backend capabilities. It is evaluated on every call,
// so capabilities are never cached across writes.
func (c *Interop) Probe() Capabilities { return c.backend.Probe() }

// ProbablySupportsClipboardBlob reports whether image blobs can be written.
func (c *Interop) ProbablySupportsClipboardBlob() bool { return c.Probe().WriteBlob }

// ProbablySupportsClipboardWriteText reports whether programmatic text
// writes are accepted.
func (c *Interop) ProbablySupportsClipboardWriteText() bool { return c.Probe().WriteText }

// Restricted reports whether the environment restricts script-initiated
// clipboard access.
func (c *Interop) Restricted() bool { return c.Probe().Restricted }

// WriteReport describes a successful element write.
type WriteReport struct {
	// Written lists the MIME types placed on the clipboard.
	Written []string
	// TextErr is a soft CLIPBOARD_WRITE_UNSUPPORTED error when the
	// plain-text fallback could not be written. The write itself succeeded.
	TextErr error
}

// Write copies elements and the files they reference.
//
// The native envelope is always written. The plain-text fallback (the
// text of text elements, or the envelope JSON when there is none) is
// added only when the backend accepts text writes and holds several
// representations.
func (c *Interop) Write(ctx context.Context, elements []scene.Element, files scene.Files) (WriteReport, error) {
	env := NewEnvelope(elements, files)
	data, err := json.Marshal(env)
	if err != nil {
		return WriteReport{}, dkerrors.Wrap(dkerrors.ErrCodeClipboardWrite, err, "encode clipboard envelope")
	}

	caps := c.Probe()
	items := []Item{{MIME: MimeNative, Data: data}}
	var report WriteReport

	switch {
	case !caps.WriteText:
		report.TextErr = dkerrors.New(dkerrors.ErrCodeClipboardWriteUnsupported, "plain text clipboard writes are not supported here")
	case caps.MultiItem:
		text := scene.TextFromElements(elements)
		if text == "" {
			text = string(data)
		}
		items = append(items, Item{MIME: MimeText, Data: []byte(text)})
	}

	if err := c.backend.Write(ctx, items); err != nil {
		return WriteReport{}, c.writeError(err)
	}
	for _, it := range items {
		report.Written = append(report.Written, it.MIME)
	}
	if report.TextErr != nil {
		c.logger.Warn("clipboard text fallback skipped", "err", report.TextErr)
	}
	c.logger.Debug("clipboard write", "elements", len(env.Elements), "files", len(env.Files), "types", report.Written)
	return report, nil
}

// WriteText writes plain text. Unlike Write, a backend without text
// support is a hard CLIPBOARD_WRITE_UNSUPPORTED error.
func (c *Interop) WriteText(ctx context.Context, text string) error {
	if !c.Probe().WriteText {
		return dkerrors.New(dkerrors.ErrCodeClipboardWriteUnsupported, "plain text clipboard writes are not supported here")
	}
	if err := c.backend.Write(ctx, []Item{{MIME: MimeText, Data: []byte(text)}}); err != nil {
		return c.writeError(err)
	}
	return nil
}

// WriteImage writes an image blob (PNG or SVG).
func (c *Interop) WriteImage(ctx context.Context, mime string, data []byte) error {
	caps := c.Probe()
	switch {
	case mime == MimeSVG && caps.WriteText && !caps.WriteBlob:
		// SVG is text; backends without blob support still take it.
		if err := c.backend.Write(ctx, []Item{{MIME: MimeText, Data: data}}); err != nil {
			return c.writeError(err)
		}
		return nil
	case !caps.WriteBlob:
		return dkerrors.New(dkerrors.ErrCodeClipboardWriteUnsupported, "image clipboard writes are not supported here")
	}
	items := []Item{{MIME: mime, Data: data}}
	if mime == MimeSVG && caps.MultiItem {
		items = append(items, Item{MIME: MimeText, Data: data})
	}
	if err := c.backend.Write(ctx, items); err != nil {
		return c.writeError(err)
	}
	return nil
}

// Read classifies the clipboard content.
//
// Errors carry CLIPBOARD_PERMISSION_ABORTED when the platform denied
// access, CLIPBOARD_READ for other read failures and CLIPBOARD_PARSE when
// a native envelope is malformed.
func (c *Interop) Read(ctx context.Context) (Payload, error) {
	items, err := c.backend.Read(ctx)
	if err != nil {
		if errors.Is(err, ErrPermissionDenied) || errors.Is(err, context.Canceled) {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeClipboardAborted, err, "clipboard read aborted")
		}
		return nil, dkerrors.Wrap(dkerrors.ErrCodeClipboardRead, err, "read clipboard")
	}
	p, err := Classify(items)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("clipboard read", "kind", Kind(p))
	return p, nil
}

// Classify picks one payload from the available representations, in
// order of preference: native envelope, image, text. Text that holds an
// envelope is classified as native.
func Classify(items []Item) (Payload, error) {
	find := func(match func(string) bool) (Item, bool) {
		for _, it := range items {
			if match(it.MIME) {
				return it, true
			}
		}
		return Item{}, false
	}

	if it, ok := find(func(m string) bool { return m == MimeNative }); ok {
		env, isEnv, err := ParseEnvelope(it.Data)
		if err != nil || !isEnv {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeClipboardParse, err, "invalid %s content", MimeNative)
		}
		return NativePayload{Envelope: env}, nil
	}
	if it, ok := find(func(m string) bool { return strings.HasPrefix(m, "image/") }); ok {
		return ImagePayload{MIME: it.MIME, Data: it.Data}, nil
	}
	if it, ok := find(func(m string) bool { return m == MimeText }); ok {
		env, isEnv, err := ParseEnvelope(it.Data)
		if err != nil {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeClipboardParse, err, "invalid clipboard envelope")
		}
		if isEnv {
			return NativePayload{Envelope: env}, nil
		}
		return TextPayload{Text: string(it.Data)}, nil
	}
	return TextPayload{}, nil
}

func (c *Interop) writeError(err error) error {
	if errors.Is(err, ErrPermissionDenied) {
		return dkerrors.Wrap(dkerrors.ErrCodeClipboardAborted, err, "clipboard write aborted")
	}
	return dkerrors.Wrap(dkerrors.ErrCodeClipboardWrite, err, "write clipboard")
}
