package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// DefaultPadding surrounds exported content when no frame is exported.
const DefaultPadding = 10

const lineHeight = 1.25

// Options controls rendering.
type Options struct {
	Padding         float64
	Scale           float64 // PNG only; zero means 1
	DarkMode        bool
	Background      bool
	BackgroundColor string
	Frame           *scene.Element
}

type canvas struct {
	originX, originY float64
	width, height    float64
}

func newCanvas(elements []scene.Element, opts Options) canvas {
	if opts.Frame != nil {
		b := scene.ElementBounds(*opts.Frame)
		return canvas{b.MinX, b.MinY, b.Width(), b.Height()}
	}
	b := scene.CommonBounds(elements)
	p := opts.Padding
	return canvas{b.MinX - p, b.MinY - p, b.Width() + 2*p, b.Height() + 2*p}
}

func drawable(elements []scene.Element) []scene.Element {
	out := make([]scene.Element, 0, len(elements))
	for _, e := range elements {
		if e.IsDeleted || e.Opacity == 0 && e.Type != scene.TypeFrame {
			continue
		}
		out = append(out, e)
	}
	return out
}

func transparent(c string) bool {
	return c == "" || c == "transparent"
}

// parseColor understands #rgb, #rrggbb and #rrggbbaa.
func parseColor(s string) (color.NRGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.NRGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("unsupported colour %q", s)
	}
	return color.NRGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

func fontSize(e scene.Element) float64 {
	if e.FontSize > 0 {
		return e.FontSize
	}
	return 20
}
