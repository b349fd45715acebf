// Package stylize turns a selection into an AI-restyled image element.
//
// An [Orchestrator] run walks a fixed state machine:
//
//	Idle → Exporting → Uploading → Decoding → Integrating → Done
//
// with Failed reachable from every non-terminal state. The selection is
// rendered to PNG by an [Exporter], sent to the style-transfer backend by
// an [Uploader], and the returned image is fetched by an [ImageLoader],
// redrawn onto an offscreen raster and embedded as a data URL.
//
// The orchestrator never mutates a document. A run returns a
// [scene.Effect] that either adds the new image element together with
// its file record, sets a transient error message, or changes nothing
// when the backend returned no image path.
//
// The prompt is passed in with each [Request]. [PromptContext] holds the
// value last received on the external prompt channel so that hosts can
// thread it into requests.
package stylize
