package clipboard

import (
	"context"
	"errors"
)

// ErrPermissionDenied is returned by a backend when the platform refused
// access interactively. It is treated as a user abort, not a failure.
var ErrPermissionDenied = errors.New("clipboard permission denied")

// ErrNoClipboardTool is returned when no clipboard tool is available.
var ErrNoClipboardTool = errors.New("no clipboard tool available")

// Item is one representation on the clipboard.
type Item struct {
	MIME string
	Data []byte
}

// Capabilities is the result of probing a backend.
type Capabilities struct {
	// WriteText reports that programmatic text writes are accepted.
	WriteText bool
	// WriteBlob reports that image blobs can be written.
	WriteBlob bool
	// MultiItem reports that several representations can be held at once.
	// Without it, only the first item of a write is kept.
	MultiItem bool
	// Restricted marks environments that only allow clipboard access from
	// direct user gestures. Read failures there get a platform hint.
	Restricted bool
}

// Backend talks to a concrete clipboard.
type Backend interface {
	Probe() Capabilities
	Write(ctx context.Context, items []Item) error
	// Read returns every representation currently on the clipboard. It
	// must not modify the clipboard.
	Read(ctx context.Context) ([]Item, error)
}
