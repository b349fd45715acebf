package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strings"

	"github.com/matzehuels/drawkit/pkg/scene"
)

const darkModeFilter = "invert(93%) hue-rotate(180deg)"

// SVG renders elements as a standalone SVG document.
func SVG(elements []scene.Element, files scene.Files, opts Options) ([]byte, error) {
	els := drawable(elements)
	cv := newCanvas(els, opts)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		cv.width, cv.height, cv.width, cv.height)
	if opts.DarkMode {
		fmt.Fprintf(&buf, `  <g style="filter: %s">`+"\n", darkModeFilter)
	}
	if opts.Background {
		bg := opts.BackgroundColor
		if transparent(bg) {
			bg = "#ffffff"
		}
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", cv.width, cv.height, bg)
	}
	if opts.Frame != nil {
		fmt.Fprintf(&buf, `  <defs><clipPath id="frame-clip"><rect width="%.1f" height="%.1f"/></clipPath></defs>`+"\n", cv.width, cv.height)
		buf.WriteString(`  <g clip-path="url(#frame-clip)">` + "\n")
	}

	for _, e := range els {
		if err := writeSVGElement(&buf, e, files, cv); err != nil {
			return nil, fmt.Errorf("element %s: %w", e.ID, err)
		}
	}

	if opts.Frame != nil {
		buf.WriteString("  </g>\n")
	}
	if opts.DarkMode {
		buf.WriteString("  </g>\n")
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes(), nil
}

func writeSVGElement(buf *bytes.Buffer, e scene.Element, files scene.Files, cv canvas) error {
	x, y := e.X-cv.originX, e.Y-cv.originY
	stroke, fill := svgPaint(e.StrokeColor), svgPaint(e.BackgroundColor)
	common := fmt.Sprintf(`stroke="%s" stroke-width="%.1f" fill="%s" opacity="%.2f"%s`,
		stroke, e.StrokeWidth, fill, float64(e.Opacity)/100, svgDash(e.StrokeStyle))
	transform := ""
	if e.Angle != 0 {
		transform = fmt.Sprintf(` transform="rotate(%.4f %.1f %.1f)"`, e.Angle*180/math.Pi, x+e.Width/2, y+e.Height/2)
	}

	switch e.Type {
	case scene.TypeRectangle:
		rx := 0.0
		if e.Roundness != nil {
			rx = min(e.Width, e.Height) * 0.25
		}
		fmt.Fprintf(buf, `  <rect id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" %s%s/>`+"\n",
			attr(e.ID), x, y, e.Width, e.Height, rx, common, transform)
	case scene.TypeEllipse:
		fmt.Fprintf(buf, `  <ellipse id="%s" cx="%.1f" cy="%.1f" rx="%.1f" ry="%.1f" %s%s/>`+"\n",
			attr(e.ID), x+e.Width/2, y+e.Height/2, e.Width/2, e.Height/2, common, transform)
	case scene.TypeDiamond:
		fmt.Fprintf(buf, `  <polygon id="%s" points="%.1f,%.1f %.1f,%.1f %.1f,%.1f %.1f,%.1f" %s%s/>`+"\n",
			attr(e.ID), x+e.Width/2, y, x+e.Width, y+e.Height/2, x+e.Width/2, y+e.Height, x, y+e.Height/2, common, transform)
	case scene.TypeLine, scene.TypeArrow, scene.TypeFreedraw:
		var pts []string
		for _, p := range e.Points {
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x+p[0], y+p[1]))
		}
		fmt.Fprintf(buf, `  <polyline id="%s" points="%s" stroke="%s" stroke-width="%.1f" fill="none" opacity="%.2f"%s/>`+"\n",
			attr(e.ID), strings.Join(pts, " "), stroke, e.StrokeWidth, float64(e.Opacity)/100, transform)
	case scene.TypeText:
		size := fontSize(e)
		fmt.Fprintf(buf, `  <text id="%s" x="%.1f" y="%.1f" font-size="%.1f" font-family="Virgil, Segoe UI Emoji" fill="%s"%s>`,
			attr(e.ID), x, y, size, stroke, transform)
		for i, line := range strings.Split(e.Text, "\n") {
			dy := size * lineHeight
			if i == 0 {
				dy = size
			}
			fmt.Fprintf(buf, `<tspan x="%.1f" dy="%.1f">%s</tspan>`, x, dy, html.EscapeString(line))
		}
		buf.WriteString("</text>\n")
	case scene.TypeImage:
		f, ok := files[e.FileID]
		if !ok {
			// Missing file data renders as a placeholder box.
			fmt.Fprintf(buf, `  <rect id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="#e9ecef"%s/>`+"\n",
				attr(e.ID), x, y, e.Width, e.Height, transform)
			return nil
		}
		fmt.Fprintf(buf, `  <image id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" href="%s" preserveAspectRatio="none"%s/>`+"\n",
			attr(e.ID), x, y, e.Width, e.Height, attr(f.DataURL), transform)
	case scene.TypeFrame:
		fmt.Fprintf(buf, `  <rect id="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="none" stroke="#bbb" stroke-width="1"/>`+"\n",
			attr(e.ID), x, y, e.Width, e.Height)
	default:
		return fmt.Errorf("unsupported element type %q", e.Type)
	}
	return nil
}

func svgPaint(c string) string {
	if transparent(c) {
		return "none"
	}
	return attr(c)
}

func svgDash(style string) string {
	switch style {
	case "dashed":
		return ` stroke-dasharray="8 8"`
	case "dotted":
		return ` stroke-dasharray="1.5 6"`
	}
	return ""
}

func attr(s string) string { return html.EscapeString(s) }
