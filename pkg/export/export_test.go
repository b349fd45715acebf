package export

import (
	"context"
	"errors"
	"testing"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/render"
	"github.com/matzehuels/drawkit/pkg/scene"
)

type fakeRenderer struct {
	calls int
	opts  render.Options
	err   error
}

func (f *fakeRenderer) SVG(els []scene.Element, _ scene.Files, opts render.Options) ([]byte, error) {
	f.calls++
	f.opts = opts
	return []byte("<svg/>"), f.err
}

func (f *fakeRenderer) PNG(els []scene.Element, _ scene.Files, opts render.Options) ([]byte, error) {
	f.calls++
	f.opts = opts
	return []byte("PNG"), f.err
}

type fakeClipboard struct {
	mime string
	data []byte
	err  error
}

func (f *fakeClipboard) WriteImage(_ context.Context, mime string, data []byte) error {
	f.mime, f.data = mime, data
	return f.err
}

func box(id string, x, y float64) scene.Element {
	return scene.Element{ID: id, Type: scene.TypeRectangle, X: x, Y: y, Width: 10, Height: 10, Opacity: 100}
}

func TestExportBlob(t *testing.T) {
	r := &fakeRenderer{}
	x := New(nil, WithRenderer(r))
	blob, err := x.Export(context.Background(), FormatBlob, []scene.Element{box("a", 0, 0)}, scene.DefaultAppState(), nil, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if blob == nil || blob.MIME != scene.MimePNG || string(blob.Data) != "PNG" {
		t.Errorf("blob = %+v", blob)
	}
	if r.opts.Padding != render.DefaultPadding {
		t.Errorf("padding = %v", r.opts.Padding)
	}
}

func TestExportClipboardFormats(t *testing.T) {
	cb := &fakeClipboard{}
	x := New(cb, WithRenderer(&fakeRenderer{}))
	ctx := context.Background()
	els := []scene.Element{box("a", 0, 0)}

	blob, err := x.Export(ctx, FormatClipboard, els, scene.DefaultAppState(), nil, Overrides{})
	if err != nil || blob != nil {
		t.Fatalf("clipboard: blob %v err %v", blob, err)
	}
	if cb.mime != scene.MimePNG {
		t.Errorf("mime = %s", cb.mime)
	}

	if _, err := x.Export(ctx, FormatClipboardSVG, els, scene.DefaultAppState(), nil, Overrides{}); err != nil {
		t.Fatal(err)
	}
	if cb.mime != scene.MimeSVG || string(cb.data) != "<svg/>" {
		t.Errorf("svg write = %s %q", cb.mime, cb.data)
	}

	cb.err = errors.New("denied")
	_, err = x.Export(ctx, FormatClipboard, els, scene.DefaultAppState(), nil, Overrides{})
	if !dkerrors.Is(err, dkerrors.ErrCodeClipboardWrite) {
		t.Errorf("err = %v", err)
	}
	if dkerrors.UserMessage(err) != "Couldn't copy to clipboard: denied" {
		t.Errorf("message = %q", dkerrors.UserMessage(err))
	}
}

func TestExportEmptyCanvas(t *testing.T) {
	r := &fakeRenderer{}
	x := New(nil, WithRenderer(r))
	_, err := x.Export(context.Background(), FormatBlob, nil, scene.DefaultAppState(), nil, Overrides{})
	if !dkerrors.Is(err, dkerrors.ErrCodeEmptyCanvas) {
		t.Errorf("err = %v", err)
	}
	if dkerrors.UserMessage(err) != "Cannot export empty canvas." {
		t.Errorf("message = %q", dkerrors.UserMessage(err))
	}
	if r.calls != 0 {
		t.Error("renderer called for empty canvas")
	}
}

func TestExportUnknownFormat(t *testing.T) {
	x := New(nil, WithRenderer(&fakeRenderer{}))
	_, err := x.Export(context.Background(), "pdf", []scene.Element{box("a", 0, 0)}, scene.DefaultAppState(), nil, Overrides{})
	if !dkerrors.Is(err, dkerrors.ErrCodeInvalidInput) {
		t.Errorf("err = %v", err)
	}
}

func TestExportOverridesDoNotMutateState(t *testing.T) {
	r := &fakeRenderer{}
	x := New(nil, WithRenderer(r))
	state := scene.DefaultAppState()
	state.Name = "original"
	dark := true
	frame := scene.Element{ID: "f", Type: scene.TypeFrame, Width: 50, Height: 50}

	_, err := x.Export(context.Background(), FormatBlob, []scene.Element{box("a", 0, 0)}, state, nil,
		Overrides{Name: "other", ExportWithDarkMode: &dark, ExportingFrame: &frame})
	if err != nil {
		t.Fatal(err)
	}
	if !r.opts.DarkMode || r.opts.Frame == nil || r.opts.Padding != 0 {
		t.Errorf("opts = %+v", r.opts)
	}
	if state.Name != "original" || state.ExportWithDarkMode {
		t.Error("state mutated")
	}
	if got := ApplyOverrides(state, Overrides{Name: "other"}); got.Name != "other" {
		t.Errorf("ApplyOverrides name = %q", got.Name)
	}
}

func TestExportRendererError(t *testing.T) {
	x := New(nil, WithRenderer(&fakeRenderer{err: errors.New("bad")}))
	_, err := x.Export(context.Background(), FormatBlob, []scene.Element{box("a", 0, 0)}, scene.DefaultAppState(), nil, Overrides{})
	if !dkerrors.Is(err, dkerrors.ErrCodeInternal) {
		t.Errorf("err = %v", err)
	}
}

func TestExportWithDefaultRenderer(t *testing.T) {
	x := New(nil)
	blob, err := x.Export(context.Background(), FormatBlob, []scene.Element{box("a", 0, 0)}, scene.DefaultAppState(), nil, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if len(blob.Data) < 8 || string(blob.Data[1:4]) != "PNG" {
		t.Error("default renderer did not produce a PNG")
	}
}
