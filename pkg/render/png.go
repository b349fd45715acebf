package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"math"
	"strings"

	"github.com/fogleman/gg"
	_ "golang.org/x/image/webp"

	"github.com/matzehuels/drawkit/pkg/scene"
)

// PNG rasterises elements.
func PNG(elements []scene.Element, files scene.Files, opts Options) ([]byte, error) {
	img, err := Raster(elements, files, opts)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// Raster draws elements into an RGBA image.
func Raster(elements []scene.Element, files scene.Files, opts Options) (image.Image, error) {
	els := drawable(elements)
	cv := newCanvas(els, opts)
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	w := max(1, int(math.Ceil(cv.width*scale)))
	h := max(1, int(math.Ceil(cv.height*scale)))

	dc := gg.NewContext(w, h)
	if opts.Background {
		bg := opts.BackgroundColor
		if transparent(bg) {
			bg = "#ffffff"
		}
		if c, err := parseColor(bg); err == nil {
			dc.SetColor(c)
			dc.Clear()
		}
	}
	dc.Scale(scale, scale)
	dc.Translate(-cv.originX, -cv.originY)
	if opts.Frame != nil {
		dc.DrawRectangle(cv.originX, cv.originY, cv.width, cv.height)
		dc.Clip()
	}

	var imageRects []image.Rectangle
	for _, e := range els {
		rect, err := drawPNGElement(dc, e, files)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", e.ID, err)
		}
		if !rect.Empty() {
			imageRects = append(imageRects, scaleRect(rect, cv, scale))
		}
	}

	out := dc.Image()
	if opts.DarkMode {
		invert(out.(*image.RGBA), imageRects)
	}
	return out, nil
}

// drawPNGElement draws e and returns the scene-space box of an embedded
// image, or the empty rectangle for other shapes.
func drawPNGElement(dc *gg.Context, e scene.Element, files scene.Files) (image.Rectangle, error) {
	dc.Push()
	defer dc.Pop()

	if e.Angle != 0 {
		dc.RotateAbout(e.Angle, e.X+e.Width/2, e.Y+e.Height/2)
	}
	alpha := float64(e.Opacity) / 100
	stroke := func() {
		if c, err := parseColor(e.StrokeColor); err == nil && !transparent(e.StrokeColor) {
			c.A = uint8(float64(c.A) * alpha)
			dc.SetColor(c)
			dc.SetLineWidth(max(e.StrokeWidth, 1))
			switch e.StrokeStyle {
			case "dashed":
				dc.SetDash(8, 8)
			case "dotted":
				dc.SetDash(1.5, 6)
			}
			dc.StrokePreserve()
			dc.SetDash()
		}
	}
	fillStroke := func() {
		if c, err := parseColor(e.BackgroundColor); err == nil && !transparent(e.BackgroundColor) {
			c.A = uint8(float64(c.A) * alpha)
			dc.SetColor(c)
			dc.FillPreserve()
		}
		stroke()
		dc.ClearPath()
	}

	switch e.Type {
	case scene.TypeRectangle:
		if e.Roundness != nil {
			dc.DrawRoundedRectangle(e.X, e.Y, e.Width, e.Height, min(e.Width, e.Height)*0.25)
		} else {
			dc.DrawRectangle(e.X, e.Y, e.Width, e.Height)
		}
		fillStroke()
	case scene.TypeEllipse:
		dc.DrawEllipse(e.X+e.Width/2, e.Y+e.Height/2, e.Width/2, e.Height/2)
		fillStroke()
	case scene.TypeDiamond:
		dc.MoveTo(e.X+e.Width/2, e.Y)
		dc.LineTo(e.X+e.Width, e.Y+e.Height/2)
		dc.LineTo(e.X+e.Width/2, e.Y+e.Height)
		dc.LineTo(e.X, e.Y+e.Height/2)
		dc.ClosePath()
		fillStroke()
	case scene.TypeLine, scene.TypeArrow, scene.TypeFreedraw:
		for i, p := range e.Points {
			if i == 0 {
				dc.MoveTo(e.X+p[0], e.Y+p[1])
			} else {
				dc.LineTo(e.X+p[0], e.Y+p[1])
			}
		}
		stroke()
		dc.ClearPath()
	case scene.TypeText:
		if c, err := parseColor(e.StrokeColor); err == nil {
			dc.SetColor(c)
		}
		size := fontSize(e)
		for i, line := range strings.Split(e.Text, "\n") {
			dc.DrawString(line, e.X, e.Y+size+float64(i)*size*lineHeight)
		}
	case scene.TypeImage:
		f, ok := files[e.FileID]
		if !ok {
			dc.SetColor(color.NRGBA{0xe9, 0xec, 0xef, 0xff})
			dc.DrawRectangle(e.X, e.Y, e.Width, e.Height)
			dc.Fill()
			return image.Rectangle{}, nil
		}
		img, err := decodeDataURLImage(f.DataURL)
		if err != nil {
			return image.Rectangle{}, err
		}
		b := img.Bounds()
		if b.Dx() > 0 && b.Dy() > 0 {
			dc.Push()
			dc.Translate(e.X, e.Y)
			dc.Scale(e.Width/float64(b.Dx()), e.Height/float64(b.Dy()))
			dc.DrawImage(img, 0, 0)
			dc.Pop()
		}
		if e.Angle == 0 {
			return image.Rect(int(e.X), int(e.Y), int(math.Ceil(e.X+e.Width)), int(math.Ceil(e.Y+e.Height))), nil
		}
	case scene.TypeFrame:
		dc.SetColor(color.NRGBA{0xbb, 0xbb, 0xbb, 0xff})
		dc.SetLineWidth(1)
		dc.DrawRectangle(e.X, e.Y, e.Width, e.Height)
		dc.Stroke()
	default:
		return image.Rectangle{}, fmt.Errorf("unsupported element type %q", e.Type)
	}
	return image.Rectangle{}, nil
}

func decodeDataURLImage(url string) (image.Image, error) {
	_, data, err := scene.DecodeDataURL(url)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode embedded image: %w", err)
	}
	return img, nil
}

func scaleRect(r image.Rectangle, cv canvas, scale float64) image.Rectangle {
	tx := func(v int, origin float64) int { return int(math.Round((float64(v) - origin) * scale)) }
	return image.Rect(tx(r.Min.X, cv.originX), tx(r.Min.Y, cv.originY), tx(r.Max.X, cv.originX), tx(r.Max.Y, cv.originY))
}

// invert flips colours outside the skip rectangles, keeping alpha.
func invert(img *image.RGBA, skip []image.Rectangle) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
	pixels:
		for x := b.Min.X; x < b.Max.X; x++ {
			for _, r := range skip {
				if (image.Point{x, y}).In(r) {
					continue pixels
				}
			}
			i := img.PixOffset(x, y)
			a := img.Pix[i+3]
			// Pixels are premultiplied, so invert against alpha.
			img.Pix[i+0] = a - img.Pix[i+0]
			img.Pix[i+1] = a - img.Pix[i+1]
			img.Pix[i+2] = a - img.Pix[i+2]
		}
	}
}
