package scene

import "sync"

// Snapshot is one history checkpoint.
type Snapshot struct {
	Elements []Element
	AppState AppState
}

// Document is the host-side owner of scene state. Effects are the only
// way to change it. A Document is safe for concurrent use; Apply calls
// are serialised.
type Document struct {
	mu       sync.RWMutex
	elements []Element
	state    AppState
	files    Files
	history  []Snapshot
}

// NewDocument creates a document from initial state. The arguments are
// copied.
func NewDocument(elements []Element, state AppState, files Files) *Document {
	return &Document{
		elements: CloneAll(elements),
		state:    state.Clone(),
		files:    files.Clone(),
	}
}

// Elements returns a copy of the element list.
func (d *Document) Elements() []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return CloneAll(d.elements)
}

// AppState returns a copy of the app state.
func (d *Document) AppState() AppState {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.Clone()
}

// Files returns a copy of the file store.
func (d *Document) Files() Files {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.files.Clone()
}

// Checkpoints returns the number of recorded history snapshots.
func (d *Document) Checkpoints() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.history)
}

// Apply applies eff. A nil effect is a no-op. Files are added before the
// element list is replaced so that a reader never sees an image element
// without its file record.
func (d *Document) Apply(eff *Effect) {
	if eff == nil {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(eff.Files) > 0 {
		if d.files == nil {
			d.files = Files{}
		}
		for _, f := range eff.Files {
			d.files[f.ID] = f
		}
	}
	if eff.Elements != nil {
		d.elements = CloneAll(eff.Elements)
	}
	if eff.AppState != nil {
		d.state = eff.AppState.Clone()
	}
	if eff.StoreAction == StoreActionCapture {
		d.history = append(d.history, Snapshot{
			Elements: CloneAll(d.elements),
			AppState: d.state.Clone(),
		})
	}
}

// Undo restores the checkpoint before the latest one. It reports false
// when there is nothing to undo. Files are kept, since elements in later
// checkpoints may still reference them.
func (d *Document) Undo() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.history) < 2 {
		return false
	}
	d.history = d.history[:len(d.history)-1]
	prev := d.history[len(d.history)-1]
	d.elements = CloneAll(prev.Elements)
	d.state = prev.AppState.Clone()
	return true
}

// Checkpoint records the current state as a history snapshot. Hosts call
// it once after loading a scene so the first captured effect can be undone.
func (d *Document) Checkpoint() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.history = append(d.history, Snapshot{Elements: CloneAll(d.elements), AppState: d.state.Clone()})
}

// Scene returns the document as a scene file value.
func (d *Document) Scene() *Scene {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return &Scene{
		Type:     SceneType,
		Version:  SceneVersion,
		Source:   SceneSource,
		Elements: CloneAll(d.elements),
		AppState: d.state.Clone(),
		Files:    d.files.Clone(),
	}
}
