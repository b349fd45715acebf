package stylize

// State is a step of an orchestrator run.
type State int

const (
	StateIdle State = iota
	StateExporting
	StateUploading
	StateDecoding
	StateIntegrating
	StateDone
	StateFailed
)

var stateNames = [...]string{
	StateIdle:        "idle",
	StateExporting:   "exporting",
	StateUploading:   "uploading",
	StateDecoding:    "decoding",
	StateIntegrating: "integrating",
	StateDone:        "done",
	StateFailed:      "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether s ends a run.
func (s State) Terminal() bool { return s == StateDone || s == StateFailed }
