package scene

import (
	"encoding/json"
	"maps"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ElementType identifies the kind of shape.
type ElementType string

const (
	TypeRectangle ElementType = "rectangle"
	TypeEllipse   ElementType = "ellipse"
	TypeDiamond   ElementType = "diamond"
	TypeText      ElementType = "text"
	TypeImage     ElementType = "image"
	TypeFrame     ElementType = "frame"
	TypeArrow     ElementType = "arrow"
	TypeLine      ElementType = "line"
	TypeFreedraw  ElementType = "freedraw"
)

// Image element lifecycle.
const (
	StatusPending = "pending"
	StatusSaved   = "saved"
	StatusError   = "error"
)

// Roundness describes corner rounding. A nil *Roundness means sharp corners.
type Roundness struct {
	Type  int      `json:"type"`
	Value *float64 `json:"value,omitempty"`
}

// BoundElement is a reference from a container to an element bound to it.
type BoundElement struct {
	ID   string      `json:"id"`
	Type ElementType `json:"type"`
}

// Element is one shape in a scene.
type Element struct {
	ID     string      `json:"id"`
	Type   ElementType `json:"type"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Width  float64     `json:"width"`
	Height float64     `json:"height"`
	Angle  float64     `json:"angle"`

	StrokeColor     string     `json:"strokeColor"`
	BackgroundColor string     `json:"backgroundColor"`
	FillStyle       string     `json:"fillStyle"`
	StrokeWidth     float64    `json:"strokeWidth"`
	StrokeStyle     string     `json:"strokeStyle"`
	Roughness       int        `json:"roughness"`
	Opacity         int        `json:"opacity"`
	Roundness       *Roundness `json:"roundness"`

	GroupIDs      []string       `json:"groupIds"`
	FrameID       string         `json:"frameId,omitempty"`
	Index         string         `json:"index,omitempty"`
	BoundElements []BoundElement `json:"boundElements"`

	Seed         int    `json:"seed"`
	Version      int    `json:"version"`
	VersionNonce int    `json:"versionNonce"`
	IsDeleted    bool   `json:"isDeleted"`
	Updated      int64  `json:"updated"`
	Locked       bool   `json:"locked"`
	Link         string `json:"link,omitempty"`

	// Text and bound text.
	Text         string  `json:"text,omitempty"`
	OriginalText string  `json:"originalText,omitempty"`
	FontSize     float64 `json:"fontSize,omitempty"`
	FontFamily   int     `json:"fontFamily,omitempty"`
	ContainerID  string  `json:"containerId,omitempty"`

	// Image.
	FileID FileID      `json:"fileId,omitempty"`
	Status string      `json:"status,omitempty"`
	Scale  *[2]float64 `json:"scale,omitempty"`

	// Frame.
	Name string `json:"name,omitempty"`

	// Linear and freedraw, relative to (X, Y).
	Points [][2]float64 `json:"points,omitempty"`

	// Extra keeps unknown fields so scene files round-trip.
	Extra map[string]json.RawMessage `json:"-"`
}

// Clone returns a deep copy of e.
func (e Element) Clone() Element {
	c := e
	c.GroupIDs = slices.Clone(e.GroupIDs)
	c.BoundElements = slices.Clone(e.BoundElements)
	c.Points = slices.Clone(e.Points)
	c.Extra = maps.Clone(e.Extra)
	if e.Roundness != nil {
		r := *e.Roundness
		if r.Value != nil {
			v := *r.Value
			r.Value = &v
		}
		c.Roundness = &r
	}
	if e.Scale != nil {
		s := *e.Scale
		c.Scale = &s
	}
	return c
}

// IsText reports whether e carries text.
func (e Element) IsText() bool { return e.Type == TypeText }

// IsFrame reports whether e is a frame.
func (e Element) IsFrame() bool { return e.Type == TypeFrame }

// Bump marks e as modified: version+1, a new nonce and an updated timestamp.
func (e *Element) Bump(now time.Time) {
	e.Version++
	e.VersionNonce = rand.IntN(1 << 31)
	e.Updated = now.UnixMilli()
}

// NewID returns a fresh element id.
func NewID() string {
	return uuid.NewString()
}

// NewBase returns an element of type t with the editor's default styling,
// a fresh id and seed, and version 1.
func NewBase(t ElementType, now time.Time) Element {
	return Element{
		ID:              NewID(),
		Type:            t,
		StrokeColor:     "#1e1e1e",
		BackgroundColor: "transparent",
		FillStyle:       "solid",
		StrokeWidth:     2,
		StrokeStyle:     "solid",
		Roughness:       1,
		Opacity:         100,
		GroupIDs:        []string{},
		Seed:            rand.IntN(1 << 31),
		Version:         1,
		VersionNonce:    rand.IntN(1 << 31),
		Updated:         now.UnixMilli(),
	}
}

// CloneAll deep-copies a slice of elements. A nil input returns nil.
func CloneAll(elements []Element) []Element {
	if elements == nil {
		return nil
	}
	out := make([]Element, len(elements))
	for i, e := range elements {
		out[i] = e.Clone()
	}
	return out
}

// NonDeleted returns the elements that are not soft-deleted.
func NonDeleted(elements []Element) []Element {
	out := make([]Element, 0, len(elements))
	for _, e := range elements {
		if !e.IsDeleted {
			out = append(out, e)
		}
	}
	return out
}

// ByID indexes elements by id.
func ByID(elements []Element) map[string]Element {
	m := make(map[string]Element, len(elements))
	for _, e := range elements {
		m[e.ID] = e
	}
	return m
}

// TextFromElements joins the text of all text elements with newlines.
func TextFromElements(elements []Element) string {
	var parts []string
	for _, e := range elements {
		if e.IsText() {
			parts = append(parts, e.Text)
		}
	}
	return strings.Join(parts, "\n")
}
