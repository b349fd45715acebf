package action

import (
	"context"
	"time"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// now is the clock used when bumping deleted elements.
var now = time.Now

// DeleteSelected soft-deletes the selected elements, the text bound to
// them and the children of selected frames. Locked elements are kept.
var DeleteSelected = Descriptor{
	Name:       "deleteSelected",
	Label:      "labels.delete",
	Icon:       "trash",
	TrackEvent: elementEvent,
	Keywords:   []string{"delete", "destroy", "remove"},
	Predicate: func(in Input) bool {
		return scene.HasSelection(in.Elements, in.AppState)
	},
	KeyTest: func(ev KeyEvent) bool {
		return (ev.Key == KeyBackspace || ev.Key == KeyDelete) && !ev.CtrlOrCmd()
	},
	Perform: func(_ context.Context, in Input) (*scene.Effect, error) {
		doomed := map[string]bool{}
		for _, e := range scene.SelectedElements(in.Elements, in.AppState, scene.SelectOptions{
			IncludeBoundText:        true,
			IncludeElementsInFrames: true,
		}) {
			if !e.Locked {
				doomed[e.ID] = true
			}
		}
		if len(doomed) == 0 {
			return scene.None(), nil
		}

		t := now()
		elements := scene.CloneAll(in.Elements)
		for i := range elements {
			e := &elements[i]
			if !doomed[e.ID] {
				continue
			}
			e.IsDeleted = true
			e.Bump(t)
		}
		state := in.AppState.WithSelection()
		return &scene.Effect{
			Elements:    elements,
			AppState:    &state,
			StoreAction: scene.StoreActionCapture,
		}, nil
	},
}
