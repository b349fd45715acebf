package clipboard

import (
	"encoding/json"
	"fmt"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// MIME types understood on the clipboard.
const (
	MimeNative = "application/vnd.excalidraw+json"
	MimeText   = "text/plain"
	MimePNG    = "image/png"
	MimeSVG    = "image/svg+xml"
)

// EnvelopeType marks JSON text as a native clipboard envelope.
const EnvelopeType = "excalidraw/clipboard"

// Envelope is the native clipboard representation.
type Envelope struct {
	Type     string          `json:"type"`
	Elements []scene.Element `json:"elements"`
	Files    scene.Files     `json:"files,omitempty"`
}

// NewEnvelope builds an envelope holding copies of elements and the
// subset of files they reference.
func NewEnvelope(elements []scene.Element, files scene.Files) Envelope {
	env := Envelope{
		Type:     EnvelopeType,
		Elements: scene.CloneAll(elements),
	}
	if env.Elements == nil {
		env.Elements = []scene.Element{}
	}
	if sub := files.Subset(elements); len(sub) > 0 {
		env.Files = sub
	}
	return env
}

// ParseEnvelope decodes data as an envelope. ok is false when data is not
// an envelope at all; err is set when it claims to be one but is malformed.
func ParseEnvelope(data []byte) (env Envelope, ok bool, err error) {
	var probe struct {
		Type string `json:"type"`
	}
	if json.Unmarshal(data, &probe) != nil || probe.Type != EnvelopeType {
		return Envelope{}, false, nil
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, true, fmt.Errorf("decode clipboard envelope: %w", err)
	}
	return env, true, nil
}

// Payload is the classified content of the clipboard. It is one of
// [NativePayload], [TextPayload] or [ImagePayload].
type Payload interface {
	// Accept calls the visitor method matching the payload's kind.
	Accept(v PayloadVisitor) error
	isPayload()
}

// PayloadVisitor handles every payload kind.
type PayloadVisitor interface {
	VisitNative(NativePayload) error
	VisitText(TextPayload) error
	VisitImage(ImagePayload) error
}

// NativePayload holds elements copied from an editor.
type NativePayload struct {
	Envelope Envelope
}

// TextPayload holds plain text.
type TextPayload struct {
	Text string
}

// ImagePayload holds an image blob.
type ImagePayload struct {
	MIME string
	Data []byte
}

func (p NativePayload) Accept(v PayloadVisitor) error { return v.VisitNative(p) }
func (p TextPayload) Accept(v PayloadVisitor) error   { return v.VisitText(p) }
func (p ImagePayload) Accept(v PayloadVisitor) error  { return v.VisitImage(p) }

func (NativePayload) isPayload() {}
func (TextPayload) isPayload()   {}
func (ImagePayload) isPayload()  {}

// Kind returns a short name for logging: "native", "text" or "image".
func Kind(p Payload) string {
	switch p.(type) {
	case NativePayload:
		return "native"
	case TextPayload:
		return "text"
	case ImagePayload:
		return "image"
	}
	return "unknown"
}
