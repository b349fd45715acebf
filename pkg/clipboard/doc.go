// Package clipboard reads and writes the system clipboard in the editor's
// formats.
//
// # Representations
//
// Three representations are understood:
//
//   - the native envelope ([MimeNative]): elements plus the binary files
//     they reference, as JSON
//   - plain text ([MimeText])
//   - an image blob ([MimePNG], [MimeSVG])
//
// A write of elements always places the native envelope. When the
// backend accepts programmatic text writes, a plain-text fallback built
// from text-bearing elements is written alongside it. When it does not,
// the write still succeeds and [WriteReport.TextErr] carries a soft
// CLIPBOARD_WRITE_UNSUPPORTED error for the caller to surface as a hint.
//
// # Reading
//
// [Interop.Read] classifies the clipboard into exactly one [Payload]:
// [NativePayload], [TextPayload] or [ImagePayload]. Consumers handle
// payloads through [PayloadVisitor], so adding a representation is a
// compile error at every consumption site.
//
// # Backends
//
// A [Backend] does the platform work. [ToolBackend] shells out to
// pbcopy, xclip, wl-copy and friends; [MemoryBackend] keeps items in
// memory for tests and for the HTTP server.
package clipboard
