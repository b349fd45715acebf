package scene

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDocumentApply(t *testing.T) {
	doc := NewDocument([]Element{rect("a", 0, 0, 1, 1)}, DefaultAppState(), nil)

	doc.Apply(nil)
	doc.Apply(None())
	if doc.Checkpoints() != 0 || len(doc.Elements()) != 1 {
		t.Fatal("no-op effects changed the document")
	}

	state := doc.AppState().WithError("boom")
	doc.Apply(&Effect{AppState: &state, StoreAction: StoreActionNone})
	if doc.AppState().ErrorMessage != "boom" {
		t.Error("AppState not applied")
	}
	if doc.Checkpoints() != 0 {
		t.Error("NONE must not record history")
	}

	img := Element{ID: "img", Type: TypeImage, FileID: "f1"}
	doc.Apply(&Effect{
		Elements:    append(doc.Elements(), img),
		Files:       []BinaryFile{{ID: "f1", MimeType: MimePNG, DataURL: "data:image/png;base64,"}},
		StoreAction: StoreActionCapture,
	})
	if len(doc.Elements()) != 2 {
		t.Errorf("elements = %d", len(doc.Elements()))
	}
	if _, ok := doc.Files()["f1"]; !ok {
		t.Error("file record not added")
	}
	if doc.Checkpoints() != 1 {
		t.Errorf("checkpoints = %d, want 1", doc.Checkpoints())
	}
}

func TestDocumentIsolation(t *testing.T) {
	els := []Element{rect("a", 0, 0, 1, 1)}
	doc := NewDocument(els, DefaultAppState(), nil)
	els[0].X = 99
	got := doc.Elements()
	got[0].Y = 99
	if e := doc.Elements()[0]; e.X != 0 || e.Y != 0 {
		t.Error("document shares element memory with callers")
	}
}

func TestDocumentUndo(t *testing.T) {
	doc := NewDocument([]Element{rect("a", 0, 0, 1, 1)}, DefaultAppState(), nil)
	doc.Checkpoint()
	if doc.Undo() {
		t.Error("nothing to undo yet")
	}
	doc.Apply(&Effect{Elements: []Element{}, StoreAction: StoreActionCapture})
	if len(doc.Elements()) != 0 {
		t.Fatal("effect not applied")
	}
	if !doc.Undo() {
		t.Fatal("Undo = false")
	}
	if len(doc.Elements()) != 1 {
		t.Error("Undo did not restore elements")
	}
}

func TestSceneRoundTrip(t *testing.T) {
	doc := NewDocument(
		[]Element{rect("a", 1, 2, 3, 4), {ID: "t", Type: TypeText, Text: "hi"}},
		DefaultAppState().WithSelection("a"),
		Files{"f": {ID: "f", MimeType: MimePNG, DataURL: "data:image/png;base64,AA=="}},
	)
	path := filepath.Join(t.TempDir(), "s.excalidraw")
	if err := WriteFile(doc.Scene(), path); err != nil {
		t.Fatal(err)
	}
	s, err := ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(s.Elements) != 2 || s.Elements[1].Text != "hi" {
		t.Errorf("elements = %+v", s.Elements)
	}
	if !s.AppState.IsSelected("a") {
		t.Error("selection lost")
	}
	if s.Files["f"].MimeType != MimePNG {
		t.Error("files lost")
	}

	raw, _ := os.ReadFile(path)
	if bytes.Contains(raw, []byte("errorMessage")) {
		t.Error("transient error message written to file")
	}
}

func TestReadRejects(t *testing.T) {
	tests := map[string]string{
		"bad json":     `{`,
		"wrong type":   `{"type":"other","elements":[]}`,
		"missing id":   `{"type":"excalidraw","elements":[{"type":"text"}]}`,
		"duplicate id": `{"type":"excalidraw","elements":[{"id":"a"},{"id":"a"}]}`,
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Read(strings.NewReader(in)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestReadDefaults(t *testing.T) {
	s, err := Read(strings.NewReader(`{"type":"excalidraw","elements":[]}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.AppState.SelectedElementIDs == nil || s.Files == nil {
		t.Error("nil maps after Read")
	}
	if s.AppState.ExportScale != 1 {
		t.Errorf("ExportScale = %v", s.AppState.ExportScale)
	}
}

func TestEffectFileByID(t *testing.T) {
	eff := &Effect{Files: []BinaryFile{{ID: "x"}}}
	if _, ok := eff.FileByID("x"); !ok {
		t.Error("FileByID(x) not found")
	}
	if _, ok := eff.FileByID("y"); ok {
		t.Error("FileByID(y) found")
	}
}
