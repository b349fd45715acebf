package scene

import "maps"

// Toast is a short-lived notification shown to the user.
type Toast struct {
	Message  string `json:"message"`
	Closable bool   `json:"closable,omitempty"`
	Duration int    `json:"duration,omitempty"`
}

// AppState is the editor state that actions read and write.
type AppState struct {
	Name                string          `json:"name,omitempty"`
	Theme               string          `json:"theme,omitempty"`
	ViewBackgroundColor string          `json:"viewBackgroundColor,omitempty"`
	SelectedElementIDs  map[string]bool `json:"selectedElementIds"`
	ExportWithDarkMode  bool            `json:"exportWithDarkMode"`
	ExportBackground    bool            `json:"exportBackground"`
	ExportScale         float64         `json:"exportScale,omitempty"`
	ExportEmbedScene    bool            `json:"exportEmbedScene,omitempty"`

	// ErrorMessage is transient and dismissible. It is not written to scene files.
	ErrorMessage string `json:"-"`
	Toast        *Toast `json:"-"`
}

// DefaultAppState returns the state of a fresh editor.
func DefaultAppState() AppState {
	return AppState{
		Theme:               "light",
		ViewBackgroundColor: "#ffffff",
		SelectedElementIDs:  map[string]bool{},
		ExportBackground:    true,
		ExportScale:         1,
	}
}

// Clone returns a copy of s that shares no maps with it.
func (s AppState) Clone() AppState {
	c := s
	c.SelectedElementIDs = maps.Clone(s.SelectedElementIDs)
	if c.SelectedElementIDs == nil {
		c.SelectedElementIDs = map[string]bool{}
	}
	if s.Toast != nil {
		t := *s.Toast
		c.Toast = &t
	}
	return c
}

// WithError returns a copy of s carrying msg as the transient error.
func (s AppState) WithError(msg string) AppState {
	c := s.Clone()
	c.ErrorMessage = msg
	return c
}

// WithSelection returns a copy of s with exactly ids selected.
func (s AppState) WithSelection(ids ...string) AppState {
	c := s.Clone()
	c.SelectedElementIDs = make(map[string]bool, len(ids))
	for _, id := range ids {
		c.SelectedElementIDs[id] = true
	}
	return c
}

// IsSelected reports whether id is selected.
func (s AppState) IsSelected(id string) bool {
	return s.SelectedElementIDs[id]
}
