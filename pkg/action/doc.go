// Package action is the editor's command registry and dispatcher.
//
// # Descriptors
//
// A [Descriptor] bundles everything about one command: its unique name,
// label key and icon, a predicate that gates availability, an optional
// key test for keyboard triggering, and the perform function. Perform is
// the only way a command changes the document: it returns a
// [scene.Effect] that the host applies. Clipboard writes and network
// calls are the only side effects performed before returning.
//
// # Registry
//
// A [Registry] is built once at startup from an explicit list of
// descriptors and is read-only afterwards:
//
//	reg, err := action.NewRegistry(action.Builtins()...)
//
// Registering two descriptors with the same name fails at build time.
//
// # Dispatch
//
// A [Dispatcher] looks up descriptors by name or by key event and
// performs them. An error returned from Perform never escapes: it is
// logged and turned into an effect that sets the transient error message
// on the app state without touching history.
//
//	d := action.NewDispatcher(reg, action.WithLogger(logger))
//	res, ok := d.DispatchByKey(ctx, action.KeyEvent{Key: "x", Ctrl: true}, in)
//
// # Built-in commands
//
//   - copy, paste, cut: clipboard interop with the native format
//   - copyAsSvg, copyAsPng, copyText: export to the clipboard
//   - deleteSelected: soft-deletes the selection
//   - stylize: AI style transfer of the selection
//
// Composite commands run their parts in sequence. cut performs copy for
// its clipboard side effect and returns the effect of deleteSelected.
package action
