// Package pkg provides the libraries behind drawkit: the action dispatch and
// clipboard interop of a whiteboard editor, and its AI style-transfer
// pipeline.
//
// # Overview
//
// A user intent (a key chord, a palette pick, an HTTP call) resolves to an
// action descriptor. The descriptor's perform function reads the document,
// talks to the clipboard or the export and upload collaborators, and returns
// an effect that the host applies to the document. The pkg directory is
// organized into four areas:
//
//  1. Document model: [scene], [filestore]
//  2. Actions: [action], [clipboard], [export], [render]
//  3. Style transfer: [stylize], [upload], [filename]
//  4. Infrastructure: [cache], [config], [errors], [httputil], [i18n],
//     [observability], [server], [buildinfo]
//
// # Architecture
//
// The typical data flow for style transfer:
//
//	action.Dispatcher (stylize, alt+r)
//	         ↓
//	stylize.Orchestrator ── export.Exporter (PNG blob of the selection)
//	         ↓
//	upload.Client (multipart POST, 3 attempts over random replicas)
//	         ↓
//	stylize.ImageLoader (decode WebP result)
//	         ↓
//	scene.Effect (new image element + file record, CAPTURE)
//
// # Quick Start
//
// Perform an action against an in-memory document:
//
//	import (
//	    "github.com/matzehuels/drawkit/internal/host"
//	    "github.com/matzehuels/drawkit/pkg/action"
//	    "github.com/matzehuels/drawkit/pkg/clipboard"
//	    "github.com/matzehuels/drawkit/pkg/export"
//	    "github.com/matzehuels/drawkit/pkg/scene"
//	)
//
//	doc := scene.NewDocument(elements, scene.DefaultAppState().WithSelection("rect-1"), nil)
//	cb := clipboard.New(clipboard.NewMemoryBackend(clipboard.Capabilities{WriteText: true, WriteBlob: true}))
//	sess := host.NewSession(doc, action.NewDispatcher(action.DefaultRegistry()), cb, export.New(cb))
//
//	res, err := sess.Perform(ctx, "cut")
//
// # Main Packages
//
// ## Document Model
//
//   - [scene]: elements, app state, binary files, effects, undo history and
//     .excalidraw scene IO
//   - [filestore]: binary file records in a directory or MongoDB
//
// ## Actions
//
//   - [action]: descriptors, the immutable registry, the dispatcher and the
//     built-in clipboard, delete and stylize actions
//   - [clipboard]: native/text/image payloads, capability probing and the
//     system clipboard tools
//   - [export]: selection preparation and export to clipboard or blob
//   - [render]: SVG and PNG rendering of elements
//
// ## Style Transfer
//
//   - [stylize]: the export → upload → decode → integrate state machine and
//     the prompt message channel
//   - [upload]: the resilient multipart upload client
//   - [filename]: prompt to storage path sanitization
//
// ## Infrastructure
//
//   - [cache]: upload-result caching (file, Redis, null)
//   - [config]: TOML configuration with environment overrides
//   - [errors]: structured error codes
//   - [httputil]: retry helpers
//   - [i18n]: localized messages
//   - [observability]: hooks for metrics and tracing
//   - [server]: HTTP surface for an embedding editor
//   - [buildinfo]: version information
package pkg
