package scene

import "fmt"

// StoreAction tells the host whether to snapshot history for an effect.
type StoreAction int

const (
	// StoreActionNone applies the effect without touching history.
	StoreActionNone StoreAction = iota
	// StoreActionCapture records a history checkpoint after applying.
	StoreActionCapture
)

func (a StoreAction) String() string {
	switch a {
	case StoreActionCapture:
		return "CAPTURE"
	default:
		return "NONE"
	}
}

// MarshalText encodes the action as NONE or CAPTURE.
func (a StoreAction) MarshalText() ([]byte, error) { return []byte(a.String()), nil }

// UnmarshalText decodes NONE or CAPTURE.
func (a *StoreAction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "NONE":
		*a = StoreActionNone
	case "CAPTURE":
		*a = StoreActionCapture
	default:
		return fmt.Errorf("unknown store action %q", b)
	}
	return nil
}

// Effect is the result of performing an action.
//
// A nil Elements or AppState leaves the corresponding document state
// unchanged. AppState, when set, is the full new state; actions derive it
// from the state they were given. Files are added to the document's file
// store in the same step as the element list is replaced.
type Effect struct {
	Elements        []Element    `json:"elements,omitempty"`
	AppState        *AppState    `json:"appState,omitempty"`
	Files           []BinaryFile `json:"files,omitempty"`
	StoreAction     StoreAction  `json:"storeAction"`
	CommitToHistory bool         `json:"commitToHistory,omitempty"`
}

// None returns an effect that changes nothing.
func None() *Effect {
	return &Effect{StoreAction: StoreActionNone}
}

// ErrorEffect returns an effect that sets msg as the transient error on a
// copy of state and leaves history alone.
func ErrorEffect(state AppState, msg string) *Effect {
	s := state.WithError(msg)
	return &Effect{AppState: &s, StoreAction: StoreActionNone}
}

// FileByID returns the file added by this effect with the given id.
func (e *Effect) FileByID(id FileID) (BinaryFile, bool) {
	for _, f := range e.Files {
		if f.ID == id {
			return f, true
		}
	}
	return BinaryFile{}, false
}
