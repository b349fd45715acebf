package host

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"testing"
	"time"

	"github.com/matzehuels/drawkit/pkg/action"
	"github.com/matzehuels/drawkit/pkg/clipboard"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/filestore"
	"github.com/matzehuels/drawkit/pkg/render"
	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/stylize"
)

type stubRenderer struct{}

func (stubRenderer) SVG([]scene.Element, scene.Files, render.Options) ([]byte, error) {
	return []byte("<svg/>"), nil
}

func (stubRenderer) PNG([]scene.Element, scene.Files, render.Options) ([]byte, error) {
	return []byte("PNG"), nil
}

type stubStylizer struct {
	eff  *scene.Effect
	reqs []stylize.Request
}

func (s *stubStylizer) Stylize(_ context.Context, req stylize.Request) *scene.Effect {
	s.reqs = append(s.reqs, req)
	return s.eff
}

func newTestSession(t *testing.T, opts ...Option) (*Session, *clipboard.MemoryBackend) {
	t.Helper()
	prev := action.Darwin
	action.Darwin = false
	t.Cleanup(func() { action.Darwin = prev })

	rect := scene.Element{ID: "r", Type: scene.TypeRectangle, X: 10, Y: 20, Width: 30, Height: 40, Index: "a0", Version: 3, GroupIDs: []string{"g"},
		BoundElements: []scene.BoundElement{{ID: "t", Type: scene.TypeText}}}
	label := scene.Element{ID: "t", Type: scene.TypeText, X: 15, Y: 30, Width: 10, Height: 10, Text: "hi", ContainerID: "r", Index: "a1", Version: 2, GroupIDs: []string{"g"}}
	doc := scene.NewDocument([]scene.Element{rect, label}, scene.DefaultAppState().WithSelection("r"), nil)
	doc.Checkpoint()

	mem := clipboard.NewMemoryBackend(clipboard.Capabilities{WriteText: true, WriteBlob: true, MultiItem: true})
	cb := clipboard.New(mem)
	ex := export.New(cb, export.WithRenderer(stubRenderer{}))
	now := time.UnixMilli(1_700_000_000_000)
	opts = append([]Option{WithClock(func() time.Time { return now })}, opts...)
	return NewSession(doc, action.NewDispatcher(action.DefaultRegistry()), cb, ex, opts...), mem
}

func TestCopyPasteRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSession(t)

	if _, err := s.Perform(ctx, "copy"); err != nil {
		t.Fatal(err)
	}
	res, err := s.Perform(ctx, "paste")
	if err != nil {
		t.Fatal(err)
	}
	if res.Effect == nil || res.Effect.StoreAction != scene.StoreActionCapture {
		t.Fatalf("paste effect = %+v", res.Effect)
	}

	els := s.Document().Elements()
	if len(els) != 4 {
		t.Fatalf("elements = %d, want 4", len(els))
	}
	newRect, newText := els[2], els[3]
	if newRect.ID == "r" || newText.ID == "t" {
		t.Error("pasted elements kept their ids")
	}
	if newRect.X != 20 || newRect.Y != 30 {
		t.Errorf("pasted at (%v, %v), want (20, 30)", newRect.X, newRect.Y)
	}
	if newText.ContainerID != newRect.ID {
		t.Errorf("bound text container = %q, want %q", newText.ContainerID, newRect.ID)
	}
	if len(newRect.BoundElements) != 1 || newRect.BoundElements[0].ID != newText.ID {
		t.Errorf("bound elements = %+v", newRect.BoundElements)
	}
	if newRect.GroupIDs[0] == "g" || newRect.GroupIDs[0] != newText.GroupIDs[0] {
		t.Errorf("group ids = %v / %v", newRect.GroupIDs, newText.GroupIDs)
	}
	if newRect.Index <= "a1" || newText.Index <= newRect.Index {
		t.Errorf("indices = %q, %q", newRect.Index, newText.Index)
	}
	if newRect.Version != 1 {
		t.Errorf("version = %d", newRect.Version)
	}
	state := s.Document().AppState()
	if len(state.SelectedElementIDs) != 1 || !state.IsSelected(newRect.ID) {
		t.Errorf("selection = %v", state.SelectedElementIDs)
	}
	if s.Document().Checkpoints() != 2 {
		t.Errorf("checkpoints = %d, want 2", s.Document().Checkpoints())
	}
}

func TestPasteText(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestSession(t)
	if err := mem.Write(ctx, []clipboard.Item{{MIME: clipboard.MimeText, Data: []byte("one\r\ntwo lines\n")}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Perform(ctx, "paste"); err != nil {
		t.Fatal(err)
	}
	els := s.Document().Elements()
	if len(els) != 3 {
		t.Fatalf("elements = %d", len(els))
	}
	el := els[2]
	if el.Type != scene.TypeText || el.Text != "one\ntwo lines" {
		t.Errorf("pasted %s %q", el.Type, el.Text)
	}
	if el.Y != 80 || el.X != 10 {
		t.Errorf("placed at (%v, %v), want below content at (10, 80)", el.X, el.Y)
	}
	if el.Height != 2*defaultFontSize*lineHeight {
		t.Errorf("height = %v", el.Height)
	}
}

func TestPasteImagePersistsFile(t *testing.T) {
	ctx := context.Background()
	store, err := filestore.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	s, mem := newTestSession(t, WithFileStore(store))

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 12, 7))); err != nil {
		t.Fatal(err)
	}
	if err := mem.Write(ctx, []clipboard.Item{{MIME: clipboard.MimePNG, Data: buf.Bytes()}}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Perform(ctx, "paste"); err != nil {
		t.Fatal(err)
	}

	els := s.Document().Elements()
	el := els[len(els)-1]
	if el.Type != scene.TypeImage || el.Width != 12 || el.Height != 7 {
		t.Errorf("pasted %s %vx%v", el.Type, el.Width, el.Height)
	}
	if _, ok := s.Document().Files()[el.FileID]; !ok {
		t.Error("file record missing from document")
	}
	if _, err := store.Get(ctx, el.FileID); err != nil {
		t.Errorf("file not persisted: %v", err)
	}
}

func TestPasteBadImage(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestSession(t)
	if err := mem.Write(ctx, []clipboard.Item{{MIME: clipboard.MimePNG, Data: []byte("nope")}}); err != nil {
		t.Fatal(err)
	}
	res, err := s.Perform(ctx, "paste")
	if err != nil {
		t.Fatal(err)
	}
	if res.Effect.AppState == nil || res.Effect.AppState.ErrorMessage != "Couldn't paste." {
		t.Errorf("effect = %+v", res.Effect)
	}
	if len(s.Document().Elements()) != 2 {
		t.Error("document changed")
	}
}

func TestCutAndUndo(t *testing.T) {
	ctx := context.Background()
	s, mem := newTestSession(t)

	res, ok, err := s.DispatchKey(ctx, action.KeyEvent{Key: "x", Ctrl: true})
	if err != nil || !ok || res.Action != "cut" {
		t.Fatalf("DispatchKey = %+v, %v, %v", res, ok, err)
	}
	for _, e := range s.Document().Elements() {
		if !e.IsDeleted {
			t.Errorf("%s not deleted", e.ID)
		}
	}
	if mem.Writes() != 1 {
		t.Errorf("clipboard writes = %d", mem.Writes())
	}
	if !s.Document().Undo() {
		t.Fatal("Undo failed")
	}
	for _, e := range s.Document().Elements() {
		if e.IsDeleted {
			t.Errorf("%s still deleted after undo", e.ID)
		}
	}

	if _, ok, _ := s.DispatchKey(ctx, action.KeyEvent{Key: "q"}); ok {
		t.Error("unbound key dispatched")
	}
}

func TestStylizeThroughSession(t *testing.T) {
	ctx := context.Background()
	store, err := filestore.NewDirStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	file := scene.BinaryFile{ID: "abc", MimeType: scene.MimePNG, DataURL: "data:image/png;base64,AA=="}
	img := scene.Element{ID: "new", Type: scene.TypeImage, FileID: "abc"}
	prompt := stylize.NewPromptContext("")
	st := &stubStylizer{}
	s, _ := newTestSession(t, WithStylizer(st), WithPrompt(prompt), WithFileStore(store), WithName("castle"))

	in := s.Input()
	state := in.AppState.WithSelection("new")
	st.eff = &scene.Effect{
		Elements:        append(in.Elements, img),
		AppState:        &state,
		Files:           []scene.BinaryFile{file},
		StoreAction:     scene.StoreActionCapture,
		CommitToHistory: true,
	}
	prompt.Set("stained glass")

	if _, err := s.Perform(ctx, "stylize"); err != nil {
		t.Fatal(err)
	}
	if got := st.reqs[0]; got.Prompt != "stained glass" || got.Name != "castle" {
		t.Errorf("request prompt/name = %q/%q", got.Prompt, got.Name)
	}
	if len(s.Document().Elements()) != 3 {
		t.Errorf("elements = %d", len(s.Document().Elements()))
	}
	if _, err := store.Get(ctx, "abc"); err != nil {
		t.Errorf("file not persisted: %v", err)
	}
}

func TestName(t *testing.T) {
	s, _ := newTestSession(t)
	if s.Name() != "Untitled" {
		t.Errorf("Name = %q", s.Name())
	}
	s, _ = newTestSession(t, WithName("sketch"))
	if s.Name() != "sketch" {
		t.Errorf("Name = %q", s.Name())
	}
}
