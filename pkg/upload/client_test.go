package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/config"
	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/observability"
)

type request struct {
	replica  string
	query    map[string]string
	form     map[string]string
	filename string
	fileType string
	image    string
}

// backend fakes all replicas on one server; the replica name travels in
// the path prefix set by the resolver.
type backend struct {
	mu       sync.Mutex
	requests []request
	respond  func(n int, replica string) (int, string)
}

func (b *backend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	replica, _, _ := strings.Cut(strings.TrimPrefix(r.URL.Path, "/"), "/")
	req := request{replica: replica, query: map[string]string{}, form: map[string]string{}}
	for k := range r.URL.Query() {
		req.query[k] = r.URL.Query().Get(k)
	}
	if err := r.ParseMultipartForm(1 << 20); err == nil {
		for k := range r.MultipartForm.Value {
			req.form[k] = r.MultipartForm.Value[k][0]
		}
		if fh := r.MultipartForm.File["image_file"]; len(fh) == 1 {
			req.filename = fh[0].Filename
			req.fileType = fh[0].Header.Get("Content-Type")
			f, _ := fh[0].Open()
			data, _ := io.ReadAll(f)
			req.image = string(data)
		}
	}

	b.mu.Lock()
	b.requests = append(b.requests, req)
	n := len(b.requests)
	b.mu.Unlock()

	status, body := b.respond(n, replica)
	w.WriteHeader(status)
	fmt.Fprint(w, body)
}

func newTestClient(t *testing.T, b *backend, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(b)
	t.Cleanup(srv.Close)
	base := []Option{
		WithResolver(func(replica string) string { return srv.URL + "/" + replica }),
		WithHTTPClient(srv.Client()),
	}
	return New(append(base, opts...)...)
}

type attemptRecorder struct {
	observability.NoopUploadHooks
	mu       sync.Mutex
	attempts int
	failures int
}

func (r *attemptRecorder) OnAttempt(context.Context, int, string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attempts++
}

func (r *attemptRecorder) OnAttemptFailed(context.Context, int, string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failures++
}

func TestUploadRequestShape(t *testing.T) {
	b := &backend{respond: func(int, string) (int, string) {
		return 200, `{"path":"https://cdn.example/ai/x.webp","id":7}`
	}}
	c := newTestClient(t, b, WithRand(func(int) int { return 1 }))

	res, err := c.Upload(context.Background(), Job{Image: []byte("IMG"), Prompt: "a sword! (2024)", Canny: true})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Path != "https://cdn.example/ai/x.webp" {
		t.Errorf("Path = %q", res.Path)
	}
	if res.Raw["id"] != float64(7) {
		t.Errorf("Raw = %v", res.Raw)
	}

	if len(b.requests) != 1 {
		t.Fatalf("requests = %d", len(b.requests))
	}
	req := b.requests[0]
	if req.replica != "images2" {
		t.Errorf("replica = %q", req.replica)
	}
	if req.filename != "image.webp" || req.fileType != "image/webp" || req.image != "IMG" {
		t.Errorf("image part = %q %q %q", req.filename, req.fileType, req.image)
	}
	want := map[string]string{
		"save_path": "ai/a-sword21-28202429.webp",
		"strength":  "0.6",
		"canny":     "true",
		"prompt":    "a sword! (2024)",
	}
	for k, v := range want {
		if req.form[k] != v {
			t.Errorf("form[%s] = %q, want %q", k, req.form[k], v)
		}
		if req.query[k] != v {
			t.Errorf("query[%s] = %q, want %q", k, req.query[k], v)
		}
	}
}

func TestUploadSucceedsOnThirdAttempt(t *testing.T) {
	rec := &attemptRecorder{}
	observability.SetUploadHooks(rec)
	t.Cleanup(observability.Reset)

	b := &backend{respond: func(n int, _ string) (int, string) {
		if n < 3 {
			return 503, "busy"
		}
		return 200, `{"path":"p"}`
	}}
	c := newTestClient(t, b)

	res, err := c.Upload(context.Background(), Job{Image: []byte("x"), Prompt: "p"})
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if res.Path != "p" {
		t.Errorf("Path = %q", res.Path)
	}
	if len(b.requests) != 3 {
		t.Errorf("requests = %d, want 3", len(b.requests))
	}
	if rec.attempts != 3 || rec.failures != 2 {
		t.Errorf("hooks saw %d attempts, %d failures", rec.attempts, rec.failures)
	}
}

func TestUploadReturnsLastError(t *testing.T) {
	b := &backend{respond: func(n int, _ string) (int, string) {
		return 500, fmt.Sprintf("failure %d", n)
	}}
	c := newTestClient(t, b)

	_, err := c.Upload(context.Background(), Job{Image: []byte("x")})
	if !dkerrors.Is(err, dkerrors.ErrCodeHTTPStatus) {
		t.Fatalf("err = %v, want HTTP_STATUS", err)
	}
	var statusErr *dkerrors.HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("err does not carry HTTPStatusError: %v", err)
	}
	if statusErr.StatusCode != 500 || statusErr.Body != "failure 3" {
		t.Errorf("last error = %+v, want status 500 body %q", statusErr, "failure 3")
	}
	if !strings.Contains(err.Error(), "HTTP error! status: 500, message: failure 3") {
		t.Errorf("message = %q", err.Error())
	}
	if len(b.requests) != 3 {
		t.Errorf("requests = %d", len(b.requests))
	}
}

func TestUploadNetworkError(t *testing.T) {
	c := New(
		WithResolver(func(string) string { return "http://127.0.0.1:1" }),
		WithHTTPClient(&http.Client{Timeout: time.Second}),
	)
	_, err := c.Upload(context.Background(), Job{Image: []byte("x")})
	if !dkerrors.Is(err, dkerrors.ErrCodeNetwork) {
		t.Errorf("err = %v, want NETWORK_ERROR", err)
	}
}

func TestUploadInvalidJSONIsNotRetried(t *testing.T) {
	b := &backend{respond: func(int, string) (int, string) { return 200, "<html>" }}
	c := newTestClient(t, b)

	_, err := c.Upload(context.Background(), Job{Image: []byte("x")})
	if !dkerrors.Is(err, dkerrors.ErrCodeInvalidResponse) {
		t.Errorf("err = %v", err)
	}
	if len(b.requests) != 1 {
		t.Errorf("requests = %d, want 1", len(b.requests))
	}
}

func TestUploadWithoutPath(t *testing.T) {
	b := &backend{respond: func(int, string) (int, string) { return 200, `{"status":"queued"}` }}
	c := newTestClient(t, b)
	res, err := c.Upload(context.Background(), Job{Image: []byte("x")})
	if err != nil {
		t.Fatal(err)
	}
	if res.Path != "" || res.Raw["status"] != "queued" {
		t.Errorf("res = %+v", res)
	}
}

func TestUploadAvoidFailedReplicas(t *testing.T) {
	b := &backend{respond: func(_ int, replica string) (int, string) {
		if replica == "image" {
			return 502, "bad gateway"
		}
		return 200, `{"path":"ok"}`
	}}
	// Always prefer the first eligible replica.
	c := newTestClient(t, b, WithAvoidFailedReplicas(true), WithRand(func(int) int { return 0 }))

	if _, err := c.Upload(context.Background(), Job{Image: []byte("x")}); err != nil {
		t.Fatal(err)
	}
	if len(b.requests) != 2 || b.requests[0].replica != "image" || b.requests[1].replica != "images2" {
		t.Errorf("requests = %+v", b.requests)
	}

	b.requests = nil
	plain := newTestClient(t, b, WithRand(func(int) int { return 0 }))
	if _, err := plain.Upload(context.Background(), Job{Image: []byte("x")}); err == nil {
		t.Error("without avoidance the same replica is retried and all attempts fail")
	}
	if len(b.requests) != 3 {
		t.Errorf("requests = %d", len(b.requests))
	}
}

func TestPickIsUniform(t *testing.T) {
	c := New(WithReplicas("a", "b", "c"))
	counts := map[string]int{}
	for range 3000 {
		counts[c.pick(nil)]++
	}
	for _, r := range []string{"a", "b", "c"} {
		if counts[r] < 800 || counts[r] > 1200 {
			t.Errorf("replica %s picked %d times out of 3000", r, counts[r])
		}
	}
}

func TestUploadCache(t *testing.T) {
	b := &backend{respond: func(int, string) (int, string) { return 200, `{"path":"cached"}` }}
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := newTestClient(t, b, WithCache(fc, time.Hour))
	job := Job{Image: []byte("x"), Prompt: "p"}

	for range 2 {
		res, err := c.Upload(context.Background(), job)
		if err != nil || res.Path != "cached" {
			t.Fatalf("Upload = %+v, %v", res, err)
		}
	}
	if len(b.requests) != 1 {
		t.Errorf("requests = %d, want 1", len(b.requests))
	}

	job.Canny = true
	if _, err := c.Upload(context.Background(), job); err != nil {
		t.Fatal(err)
	}
	if len(b.requests) != 2 {
		t.Error("a different canny flag must not hit the cache")
	}
}

func TestURL(t *testing.T) {
	c := New()
	got := c.URL("image", Job{Prompt: "hi there"})
	if !strings.HasPrefix(got, "https://image.netwrck.com/style_transfer_bytes_and_upload_image?") {
		t.Errorf("URL = %q", got)
	}
	if !strings.Contains(got, "save_path=ai%2Fhi-there.webp") {
		t.Errorf("URL = %q", got)
	}
}

func TestNewFromConfig(t *testing.T) {
	cfg := config.Default().Upload
	cfg.Replicas = []string{"x", "y"}
	cfg.Strength = 0.5
	c := NewFromConfig(cfg)
	if got := c.URL("x", Job{}); !strings.Contains(got, "https://x.netwrck.com") || !strings.Contains(got, "strength=0.5") {
		t.Errorf("URL = %q", got)
	}
}

func TestUploadNoReplicas(t *testing.T) {
	c := New(WithReplicas())
	if _, err := c.Upload(context.Background(), Job{}); !dkerrors.Is(err, dkerrors.ErrCodeInvalidConfig) {
		t.Errorf("err = %v", err)
	}
}
