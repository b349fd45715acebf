package stylize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"strings"
	"time"

	_ "golang.org/x/image/webp"

	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/observability"
	"github.com/matzehuels/drawkit/pkg/scene"
)

const (
	// maxImageBytes bounds a fetched result image.
	maxImageBytes = 64 << 20
	// maxImagePixels bounds the decoded size (8192x4096 RGBA is 128 MiB).
	maxImagePixels = 8192 * 4096
)

// ImageLoader fetches and decodes a result image.
type ImageLoader interface {
	Load(ctx context.Context, url string) (image.Image, error)
}

// HTTPLoader loads images over HTTP(S). Data URLs are decoded in place.
type HTTPLoader struct {
	Client *http.Client
}

// NewHTTPLoader returns a loader using client, or a client with a one
// minute timeout when nil.
func NewHTTPLoader(client *http.Client) *HTTPLoader {
	if client == nil {
		client = &http.Client{Timeout: time.Minute}
	}
	return &HTTPLoader{Client: client}
}

// Load fetches url and decodes it as WebP, PNG or JPEG.
func (l *HTTPLoader) Load(ctx context.Context, url string) (image.Image, error) {
	if strings.HasPrefix(url, "data:") {
		_, data, err := scene.DecodeDataURL(url)
		if err != nil {
			return nil, dkerrors.Wrap(dkerrors.ErrCodeDecode, err, "load result image")
		}
		return decode(data)
	}
	if err := dkerrors.ValidateURL(url); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeDecode, err, "load result image")
	}
	req.Header.Set("Accept", "image/webp,image/png,image/jpeg,*/*")

	hooks := observability.HTTP()
	hooks.OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := l.Client.Do(req)
	if err != nil {
		hooks.OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, dkerrors.Wrap(dkerrors.ErrCodeNetwork, err, "GET %s", url)
	}
	defer resp.Body.Close()
	hooks.OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
		return nil, dkerrors.Wrap(dkerrors.ErrCodeHTTPStatus,
			&dkerrors.HTTPStatusError{StatusCode: resp.StatusCode, Body: string(body)},
			"GET %s", url)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes+1))
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeNetwork, err, "read %s", url)
	}
	if len(data) > maxImageBytes {
		return nil, dkerrors.New(dkerrors.ErrCodeDecode, "result image exceeds %d bytes", maxImageBytes)
	}
	return decode(data)
}

// decode checks the declared dimensions before decoding pixels.
func decode(data []byte) (image.Image, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeDecode, err, "decode result image")
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, dkerrors.New(dkerrors.ErrCodeDecode, "result image (%s) is empty", format)
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxImagePixels {
		return nil, dkerrors.New(dkerrors.ErrCodeDecode, "result image (%s) is %dx%d, over the %d pixel limit",
			format, cfg.Width, cfg.Height, maxImagePixels)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeDecode, err, "decode result image")
	}
	if img.Bounds().Empty() {
		return nil, dkerrors.New(dkerrors.ErrCodeDecode, "result image (%s) is empty", format)
	}
	return img, nil
}

// LoaderFunc adapts a function to ImageLoader.
type LoaderFunc func(ctx context.Context, url string) (image.Image, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, url string) (image.Image, error) { return f(ctx, url) }

var _ ImageLoader = (*HTTPLoader)(nil)

func (l *HTTPLoader) String() string { return fmt.Sprintf("HTTPLoader(timeout=%s)", l.Client.Timeout) }
