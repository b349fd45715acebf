package export

import "github.com/matzehuels/drawkit/pkg/scene"

// PrepareElementsForExport selects what to export.
//
// Without a selection (or when exportSelectionOnly is false) all
// non-deleted elements are exported. When the selection is exactly one
// frame together with its own contents, that frame becomes the exporting
// frame and every element overlapping it is exported. The returned
// elements are deep copies.
func PrepareElementsForExport(elements []scene.Element, state scene.AppState, exportSelectionOnly bool) ([]scene.Element, *scene.Element) {
	visible := scene.NonDeleted(elements)
	if !exportSelectionOnly || !scene.HasSelection(visible, state) {
		return scene.CloneAll(visible), nil
	}

	selected := scene.SelectedElements(visible, state, scene.SelectOptions{
		IncludeBoundText:        true,
		IncludeElementsInFrames: true,
	})

	frame, ok := soleFrame(selected, visible)
	if !ok {
		return scene.CloneAll(selected), nil
	}
	exported := append([]scene.Element{frame}, scene.ElementsOverlappingFrame(visible, frame)...)
	f := frame.Clone()
	return scene.CloneAll(exported), &f
}

// soleFrame returns the frame when selected holds exactly one frame and
// every other element belongs to it.
func soleFrame(selected, all []scene.Element) (scene.Element, bool) {
	var frame *scene.Element
	for i := range selected {
		if selected[i].IsFrame() {
			if frame != nil {
				return scene.Element{}, false
			}
			frame = &selected[i]
		}
	}
	if frame == nil {
		return scene.Element{}, false
	}
	byID := scene.ByID(all)
	for _, e := range selected {
		if e.ID == frame.ID || e.FrameID == frame.ID {
			continue
		}
		if c, ok := byID[e.ContainerID]; ok && e.ContainerID != "" && c.FrameID == frame.ID {
			continue
		}
		return scene.Element{}, false
	}
	return *frame, true
}
