package action

import (
	"context"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/i18n"
	"github.com/matzehuels/drawkit/pkg/scene"
)

var elementEvent = &TrackEvent{Category: "element"}

// translator returns the app's translator, or English when there is none.
func translator(in Input) *i18n.Translator {
	if in.App != nil {
		if tr := in.App.Translator(); tr != nil {
			return tr
		}
	}
	return i18n.Default().Translator("")
}

func withToast(state scene.AppState, msg string) *scene.Effect {
	s := state.Clone()
	s.Toast = &scene.Toast{Message: msg}
	return &scene.Effect{AppState: &s, StoreAction: scene.StoreActionNone}
}

// Copy writes the selected elements, their bound text and the contents
// of selected frames to the clipboard.
var Copy = Descriptor{
	Name:       "copy",
	Label:      "labels.copy",
	Icon:       "duplicate",
	TrackEvent: elementEvent,
	Keywords:   []string{"copy", "clipboard", "duplicate"},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		selected := scene.SelectedElements(in.Elements, in.AppState, scene.SelectOptions{
			IncludeBoundText:        true,
			IncludeElementsInFrames: true,
		})
		report, err := in.App.Clipboard().Write(ctx, selected, in.App.Files())
		if err != nil {
			if dkerrors.Is(err, dkerrors.ErrCodeClipboardAborted) {
				return nil, nil
			}
			return scene.ErrorEffect(in.AppState, dkerrors.UserMessage(err)), nil
		}
		if report.TextErr != nil {
			return withToast(in.AppState, translator(in).T("hints.clipboard_text_unsupported")), nil
		}
		return scene.None(), nil
	},
}

// Paste reads the clipboard and hands the payload to the host.
var Paste = Descriptor{
	Name:       "paste",
	Label:      "labels.paste",
	Icon:       "paste",
	TrackEvent: elementEvent,
	Keywords:   []string{"paste", "clipboard"},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		tr := translator(in)
		cb := in.App.Clipboard()
		payload, err := cb.Read(ctx)
		switch {
		case err == nil:
		case dkerrors.Is(err, dkerrors.ErrCodeClipboardAborted):
			return nil, nil
		case dkerrors.Is(err, dkerrors.ErrCodeClipboardParse):
			return scene.ErrorEffect(in.AppState, tr.T("errors.asyncPasteFailedOnParse")), nil
		case cb.Restricted():
			return scene.ErrorEffect(in.AppState, tr.T("hints.firefox_clipboard_write")), nil
		default:
			return scene.ErrorEffect(in.AppState, tr.T("errors.asyncPasteFailedOnRead")), nil
		}

		eff, err := in.App.Paste(ctx, payload, in)
		if err != nil {
			return scene.ErrorEffect(in.AppState, tr.T("errors.asyncPasteFailedOnParse")), nil
		}
		return eff, nil
	},
}

// Cut copies the selection and then deletes it. The effect is the one
// produced by DeleteSelected.
var Cut = Descriptor{
	Name:       "cut",
	Label:      "labels.cut",
	Icon:       "cut",
	TrackEvent: elementEvent,
	Keywords:   []string{"cut", "clipboard"},
	Predicate:  DeleteSelected.Available,
	KeyTest: func(ev KeyEvent) bool {
		return ev.CtrlOrCmd() && ev.Key == KeyX
	},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		if _, err := Copy.Perform(ctx, in); err != nil {
			return nil, err
		}
		return DeleteSelected.Perform(ctx, in)
	},
}

// exportToClipboard renders the selection (or everything when nothing is
// selected) and writes it to the clipboard.
func exportToClipboard(ctx context.Context, in Input, format export.Format) error {
	elements, frame := export.PrepareElementsForExport(in.Elements, in.AppState, true)
	_, err := in.App.Exporter().Export(ctx, format, elements, in.AppState, in.App.Files(), export.Overrides{
		Name:           in.App.Name(),
		ExportingFrame: frame,
	})
	return err
}

// CopyAsSVG copies the selection as an SVG document.
var CopyAsSVG = Descriptor{
	Name:       "copyAsSvg",
	Label:      "labels.copyAsSvg",
	Icon:       "svg",
	TrackEvent: elementEvent,
	Keywords:   []string{"svg", "clipboard", "copy"},
	Predicate: func(in Input) bool {
		return in.App != nil && in.App.Clipboard().ProbablySupportsClipboardWriteText() &&
			len(scene.NonDeleted(in.Elements)) > 0
	},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		if !in.App.SurfaceAttached() {
			return scene.None(), nil
		}
		if err := exportToClipboard(ctx, in, export.FormatClipboardSVG); err != nil {
			return scene.ErrorEffect(in.AppState, dkerrors.UserMessage(err)), nil
		}
		return scene.None(), nil
	},
}

// CopyAsPNG copies the selection as a PNG image and confirms with a toast.
var CopyAsPNG = Descriptor{
	Name:       "copyAsPng",
	Label:      "labels.copyAsPng",
	Icon:       "png",
	TrackEvent: elementEvent,
	Keywords:   []string{"png", "clipboard", "copy"},
	Predicate: func(in Input) bool {
		return in.App != nil && in.App.Clipboard().ProbablySupportsClipboardBlob() &&
			len(scene.NonDeleted(in.Elements)) > 0
	},
	KeyTest: func(ev KeyEvent) bool {
		return ev.Code == CodeC && ev.Alt && ev.Shift
	},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		if !in.App.SurfaceAttached() {
			return scene.None(), nil
		}
		if err := exportToClipboard(ctx, in, export.FormatClipboard); err != nil {
			return scene.ErrorEffect(in.AppState, dkerrors.UserMessage(err)), nil
		}
		tr := translator(in)
		selection, scheme := tr.T("toast.canvas"), tr.T("buttons.lightMode")
		if scene.HasSelection(in.Elements, in.AppState) {
			selection = tr.T("toast.selection")
		}
		if in.AppState.ExportWithDarkMode {
			scheme = tr.T("buttons.darkMode")
		}
		return withToast(in.AppState, tr.T("toast.copyToClipboardAsPng", i18n.Args{
			"exportSelection":   selection,
			"exportColorScheme": scheme,
		})), nil
	},
}

// CopyText copies the text of the selected text elements as plain text.
var CopyText = Descriptor{
	Name:       "copyText",
	Label:      "labels.copyText",
	Icon:       "text",
	TrackEvent: elementEvent,
	Keywords:   []string{"text", "clipboard", "copy"},
	Predicate: func(in Input) bool {
		if in.App == nil || !in.App.Clipboard().ProbablySupportsClipboardWriteText() {
			return false
		}
		for _, e := range selectedWithBoundText(in) {
			if e.IsText() {
				return true
			}
		}
		return false
	},
	Perform: func(ctx context.Context, in Input) (*scene.Effect, error) {
		text := scene.TextFromElements(selectedWithBoundText(in))
		if err := in.App.Clipboard().WriteText(ctx, text); err != nil {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeClipboardWrite, err, "%s", translator(in).T("errors.copyToSystemClipboardFailed"))
		}
		return scene.None(), nil
	},
}

func selectedWithBoundText(in Input) []scene.Element {
	return scene.SelectedElements(in.Elements, in.AppState, scene.SelectOptions{IncludeBoundText: true})
}
