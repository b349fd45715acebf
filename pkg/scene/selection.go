package scene

// SelectOptions widens a selection query.
type SelectOptions struct {
	// IncludeBoundText adds text elements whose container is selected.
	IncludeBoundText bool
	// IncludeElementsInFrames adds elements whose frame is selected.
	IncludeElementsInFrames bool
}

// SelectedElements returns the non-deleted elements selected in state,
// in element order.
func SelectedElements(elements []Element, state AppState, opts SelectOptions) []Element {
	var out []Element
	for _, e := range elements {
		if e.IsDeleted {
			continue
		}
		switch {
		case state.IsSelected(e.ID):
		case opts.IncludeBoundText && e.ContainerID != "" && state.IsSelected(e.ContainerID):
		case opts.IncludeElementsInFrames && e.FrameID != "" && state.IsSelected(e.FrameID):
		default:
			continue
		}
		out = append(out, e)
	}
	return out
}

// HasSelection reports whether any non-deleted element is selected.
func HasSelection(elements []Element, state AppState) bool {
	for _, e := range elements {
		if !e.IsDeleted && state.IsSelected(e.ID) {
			return true
		}
	}
	return false
}

// ElementsOverlappingFrame returns the non-deleted elements that belong to
// frame or whose bounds overlap it, excluding the frame itself.
func ElementsOverlappingFrame(elements []Element, frame Element) []Element {
	fb := ElementBounds(frame)
	var out []Element
	for _, e := range elements {
		if e.IsDeleted || e.ID == frame.ID {
			continue
		}
		if e.FrameID == frame.ID || ElementBounds(e).Overlaps(fb) {
			out = append(out, e)
		}
	}
	return out
}
