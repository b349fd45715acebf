package render

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/matzehuels/drawkit/pkg/scene"
)

func testElements() []scene.Element {
	return []scene.Element{
		{ID: "r", Type: scene.TypeRectangle, X: 0, Y: 0, Width: 40, Height: 20,
			StrokeColor: "#000000", BackgroundColor: "#ff0000", StrokeWidth: 2, Opacity: 100},
		{ID: "t", Type: scene.TypeText, X: 50, Y: 0, Width: 30, Height: 20, Text: "a<b", StrokeColor: "#1e1e1e", Opacity: 100},
		{ID: "gone", Type: scene.TypeRectangle, X: 1000, Y: 1000, Width: 1, Height: 1, IsDeleted: true, Opacity: 100},
	}
}

func TestSVG(t *testing.T) {
	out, err := SVG(testElements(), nil, Options{Padding: DefaultPadding})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "<svg") {
		t.Fatalf("not an svg: %q", s[:20])
	}
	// 0..80 wide plus padding on both sides.
	if !strings.Contains(s, `width="100" height="40"`) {
		t.Errorf("unexpected canvas size in %s", s)
	}
	if !strings.Contains(s, `id="r"`) || !strings.Contains(s, "a&lt;b") {
		t.Error("missing elements or unescaped text")
	}
	if strings.Contains(s, `id="gone"`) {
		t.Error("deleted element rendered")
	}
}

func TestSVGDarkModeAndFrame(t *testing.T) {
	frame := scene.Element{ID: "f", Type: scene.TypeFrame, X: 0, Y: 0, Width: 30, Height: 30, Opacity: 100}
	out, err := SVG(testElements(), nil, Options{DarkMode: true, Frame: &frame})
	if err != nil {
		t.Fatal(err)
	}
	s := string(out)
	if !strings.Contains(s, darkModeFilter) {
		t.Error("dark mode filter missing")
	}
	if !strings.Contains(s, "frame-clip") || !strings.Contains(s, `width="30" height="30"`) {
		t.Errorf("frame canvas not applied: %s", s)
	}
}

func TestSVGUnsupportedType(t *testing.T) {
	_, err := SVG([]scene.Element{{ID: "x", Type: "laser", Opacity: 100}}, nil, Options{})
	if err == nil {
		t.Error("expected error")
	}
}

func TestPNG(t *testing.T) {
	out, err := PNG(testElements(), nil, Options{Padding: DefaultPadding, Scale: 2, Background: true})
	if err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 200 || b.Dy() != 80 {
		t.Errorf("size = %v, want 200x80", b)
	}
	// Centre of the red rectangle.
	r, g, _, _ := img.At(2*(10+20), 2*(10+10)).RGBA()
	if r>>8 < 200 || g>>8 > 50 {
		t.Errorf("expected red fill, got %v", img.At(60, 40))
	}
}

func TestPNGEmbeddedImage(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for i := range src.Pix {
		src.Pix[i] = 0xff
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, src); err != nil {
		t.Fatal(err)
	}
	files := scene.Files{"f": {ID: "f", MimeType: scene.MimePNG, DataURL: scene.EncodeDataURL(scene.MimePNG, buf.Bytes())}}
	els := []scene.Element{{ID: "i", Type: scene.TypeImage, Width: 8, Height: 8, FileID: "f", Opacity: 100}}

	img, err := Raster(els, files, Options{DarkMode: true})
	if err != nil {
		t.Fatal(err)
	}
	// Dark mode leaves embedded images untouched.
	if c := color.NRGBAModel.Convert(img.At(4, 4)).(color.NRGBA); c.R != 0xff {
		t.Errorf("image pixel inverted: %v", c)
	}

	files["f"] = scene.BinaryFile{ID: "f", DataURL: "data:image/png;base64,AAAA"}
	if _, err := Raster(els, files, Options{}); err == nil {
		t.Error("expected decode error")
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.NRGBA
		ok   bool
	}{
		{"#fff", color.NRGBA{255, 255, 255, 255}, true},
		{"#1e1e1e", color.NRGBA{0x1e, 0x1e, 0x1e, 255}, true},
		{"#00000080", color.NRGBA{0, 0, 0, 0x80}, true},
		{"red", color.NRGBA{}, false},
		{"#12345", color.NRGBA{}, false},
		{"#zzzzzz", color.NRGBA{}, false},
	}
	for _, tt := range tests {
		got, err := parseColor(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("parseColor(%q) = %v, %v", tt.in, got, err)
		}
	}
}
