package action

import (
	"runtime"
	"strings"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
)

// Key names used by the built-in key tests.
const (
	KeyBackspace = "Backspace"
	KeyDelete    = "Delete"
	KeyR         = "r"
	KeyX         = "x"
	CodeC        = "KeyC"
)

// Darwin selects Meta instead of Ctrl as the command modifier.
var Darwin = runtime.GOOS == "darwin"

// KeyEvent is a keyboard event. Key is the produced character or key
// name; Code is the physical key.
type KeyEvent struct {
	Key   string `json:"key"`
	Code  string `json:"code,omitempty"`
	Ctrl  bool   `json:"ctrlKey,omitempty"`
	Meta  bool   `json:"metaKey,omitempty"`
	Alt   bool   `json:"altKey,omitempty"`
	Shift bool   `json:"shiftKey,omitempty"`
}

// CtrlOrCmd reports whether the platform command modifier is held.
func (e KeyEvent) CtrlOrCmd() bool {
	if Darwin {
		return e.Meta
	}
	return e.Ctrl
}

// String formats e as a chord that ParseKeyChord accepts.
func (e KeyEvent) String() string {
	var parts []string
	if e.Ctrl {
		parts = append(parts, "ctrl")
	}
	if e.Meta {
		parts = append(parts, "cmd")
	}
	if e.Alt {
		parts = append(parts, "alt")
	}
	if e.Shift {
		parts = append(parts, "shift")
	}
	return strings.Join(append(parts, strings.ToLower(e.Key)), "+")
}

var namedKeys = map[string]string{
	"backspace": KeyBackspace,
	"delete":    KeyDelete,
	"del":       KeyDelete,
	"enter":     "Enter",
	"escape":    "Escape",
	"esc":       "Escape",
	"tab":       "Tab",
	"space":     " ",
}

// ParseKeyChord parses chords such as "ctrl+x", "alt+shift+c" or "mod+v".
// "mod" is the platform command modifier. Letters set both Key and Code;
// with shift held, Key is upper case.
func ParseKeyChord(chord string) (KeyEvent, error) {
	var ev KeyEvent
	parts := strings.Split(strings.ToLower(strings.TrimSpace(chord)), "+")
	key := parts[len(parts)-1]
	if key == "" {
		return ev, dkerrors.New(dkerrors.ErrCodeInvalidInput, "invalid key chord %q", chord)
	}
	for _, mod := range parts[:len(parts)-1] {
		switch mod {
		case "ctrl", "control":
			ev.Ctrl = true
		case "cmd", "meta", "super":
			ev.Meta = true
		case "mod", "cmdorctrl":
			if Darwin {
				ev.Meta = true
			} else {
				ev.Ctrl = true
			}
		case "alt", "option", "opt":
			ev.Alt = true
		case "shift":
			ev.Shift = true
		default:
			return ev, dkerrors.New(dkerrors.ErrCodeInvalidInput, "unknown modifier %q in %q", mod, chord)
		}
	}

	if name, ok := namedKeys[key]; ok {
		ev.Key, ev.Code = name, name
		return ev, nil
	}
	if len(key) != 1 {
		return ev, dkerrors.New(dkerrors.ErrCodeInvalidInput, "unknown key %q in %q", key, chord)
	}
	c := key[0]
	switch {
	case c >= 'a' && c <= 'z':
		ev.Key = key
		if ev.Shift {
			ev.Key = strings.ToUpper(key)
		}
		ev.Code = "Key" + strings.ToUpper(key)
	case c >= '0' && c <= '9':
		ev.Key = key
		ev.Code = "Digit" + key
	default:
		ev.Key = key
	}
	return ev, nil
}
