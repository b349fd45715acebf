package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Scene file envelope values.
const (
	SceneType    = "excalidraw"
	SceneVersion = 2
	SceneSource  = "https://github.com/matzehuels/drawkit"
)

// Scene is the decoded content of a .excalidraw file.
type Scene struct {
	Type     string    `json:"type"`
	Version  int       `json:"version"`
	Source   string    `json:"source"`
	Elements []Element `json:"elements"`
	AppState AppState  `json:"appState"`
	Files    Files     `json:"files"`
}

// Document returns a new document holding the scene's state.
func (s *Scene) Document() *Document {
	return NewDocument(s.Elements, s.AppState, s.Files)
}

// Read decodes a scene from r.
//
// The "type" field must be "excalidraw". Missing appState fields take
// their defaults from [DefaultAppState]. Read does not close r.
func Read(r io.Reader) (*Scene, error) {
	s := Scene{AppState: DefaultAppState()}
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if s.Type != SceneType {
		return nil, fmt.Errorf("unsupported scene type %q", s.Type)
	}
	if s.AppState.SelectedElementIDs == nil {
		s.AppState.SelectedElementIDs = map[string]bool{}
	}
	if s.Files == nil {
		s.Files = Files{}
	}
	seen := make(map[string]bool, len(s.Elements))
	for _, e := range s.Elements {
		if e.ID == "" {
			return nil, fmt.Errorf("element without id")
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("element %s: duplicate id", e.ID)
		}
		seen[e.ID] = true
	}
	return &s, nil
}

// ReadFile reads a scene from path.
func ReadFile(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Write encodes s as indented JSON.
func Write(s *Scene, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes s to path.
func WriteFile(s *Scene, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(s, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
