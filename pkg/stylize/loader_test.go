package stylize

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/scene"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, testImage(w, h)); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestHTTPLoader(t *testing.T) {
	data := pngBytes(t, 5, 3)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(data)
		case "/garbage":
			w.Write([]byte("not an image"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.Client())
	ctx := context.Background()

	img, err := l.Load(ctx, srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 5 || b.Dy() != 3 {
		t.Errorf("bounds = %v, want 5x3", b)
	}

	if _, err := l.Load(ctx, srv.URL+"/missing"); !dkerrors.Is(err, dkerrors.ErrCodeHTTPStatus) {
		t.Errorf("missing: err = %v, want HTTP_STATUS", err)
	}
	if _, err := l.Load(ctx, srv.URL+"/garbage"); !dkerrors.Is(err, dkerrors.ErrCodeDecode) {
		t.Errorf("garbage: err = %v, want DECODE_FAILED", err)
	}
	if _, err := l.Load(ctx, "ftp://example.com/x.png"); !dkerrors.Is(err, dkerrors.ErrCodeInvalidInput) {
		t.Errorf("ftp: err = %v, want INVALID_INPUT", err)
	}
}

func TestHTTPLoaderDataURL(t *testing.T) {
	l := NewHTTPLoader(nil)
	img, err := l.Load(context.Background(), scene.EncodeDataURL(scene.MimePNG, pngBytes(t, 2, 7)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 7 {
		t.Errorf("bounds = %v, want 2x7", b)
	}
	if _, err := l.Load(context.Background(), "data:image/png,raw"); !dkerrors.Is(err, dkerrors.ErrCodeDecode) {
		t.Errorf("err = %v, want DECODE_FAILED", err)
	}
}

// withDimensions rewrites the IHDR size of an encoded PNG and fixes its CRC.
func withDimensions(data []byte, w, h uint32) []byte {
	out := bytes.Clone(data)
	binary.BigEndian.PutUint32(out[16:20], w)
	binary.BigEndian.PutUint32(out[20:24], h)
	binary.BigEndian.PutUint32(out[29:33], crc32.ChecksumIEEE(out[12:29]))
	return out
}

func TestHTTPLoaderRejectsHugeDimensions(t *testing.T) {
	huge := withDimensions(pngBytes(t, 1, 1), 50000, 50000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		w.Write(huge)
	}))
	defer srv.Close()

	l := NewHTTPLoader(srv.Client())
	for name, url := range map[string]string{
		"http":     srv.URL + "/huge.png",
		"data url": scene.EncodeDataURL(scene.MimePNG, huge),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := l.Load(context.Background(), url)
			if !dkerrors.Is(err, dkerrors.ErrCodeDecode) {
				t.Fatalf("err = %v, want DECODE_FAILED", err)
			}
			if !strings.Contains(err.Error(), "50000x50000") {
				t.Errorf("err = %v, want the declared size", err)
			}
		})
	}

	// withDimensions keeps the PNG valid.
	if _, err := decode(withDimensions(pngBytes(t, 1, 1), 1, 1)); err != nil {
		t.Errorf("1x1 round trip: %v", err)
	}
}
