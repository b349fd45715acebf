// Package scene holds the document model that actions read and write.
//
// # Elements
//
// An [Element] is one shape on the canvas. Only the fields that actions,
// clipboard and export read or write are modelled; everything else in a
// .excalidraw file round-trips through [Element.Extra].
//
// Elements are never removed from the element list. Deletion sets
// IsDeleted so that history and collaboration can still refer to them;
// use [NonDeleted] when iterating visible content.
//
// # Effects
//
// Actions never mutate a document. They return an [Effect] describing the
// new element list, the new app state, any binary files to add, and a
// [StoreAction]. A [Document] applies effects one at a time:
//
//	eff, err := act.Perform(ctx, in)
//	if err == nil {
//	    doc.Apply(eff)
//	}
//
// When an effect carries [StoreActionCapture], Apply records a history
// checkpoint of the resulting state before returning. [StoreActionNone]
// never touches history.
//
// # Files
//
// Binary file records ([BinaryFile]) hold image data as data URLs and are
// referenced from image elements by [FileID]. Effects add files; they are
// never removed by this package.
//
// # Scene files
//
// [Read] and [Write] handle the .excalidraw JSON envelope:
//
//	{"type": "excalidraw", "version": 2, "source": "...",
//	 "elements": [...], "appState": {...}, "files": {...}}
package scene
