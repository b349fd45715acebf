package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/config"
	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/filename"
	"github.com/matzehuels/drawkit/pkg/httputil"
	"github.com/matzehuels/drawkit/pkg/observability"
)

// Defaults for a Client.
const (
	DefaultDomain      = "netwrck.com"
	DefaultEndpoint    = "/style_transfer_bytes_and_upload_image"
	DefaultMaxAttempts = 3
	DefaultStrength    = 0.6
	DefaultTimeout     = 2 * time.Minute

	// maxErrorBody bounds the response text kept for diagnostics.
	maxErrorBody = 4 << 10
)

// DefaultReplicas are the backend replica names.
var DefaultReplicas = []string{"image", "images2"}

// Job is one upload request.
type Job struct {
	Image  []byte
	Prompt string
	Canny  bool
}

// Result is the decoded server response.
type Result struct {
	// Path is the URL of the stylized image. Empty when the server did not
	// return one.
	Path string
	// Raw holds every field of the response, including path.
	Raw map[string]any
}

// Client uploads images to the style-transfer backend.
type Client struct {
	http        *http.Client
	scheme      string
	domain      string
	endpoint    string
	replicas    []string
	maxAttempts int
	strength    float64
	retryDelay  time.Duration
	avoidFailed bool
	resolve     func(replica string) string
	intn        func(n int) int
	cache       cache.Cache
	keyer       cache.Keyer
	cacheTTL    time.Duration
	logger      *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithDomain sets the domain replicas live under.
func WithDomain(domain string) Option { return func(c *Client) { c.domain = domain } }

// WithScheme sets the URL scheme, "https" by default.
func WithScheme(scheme string) Option { return func(c *Client) { c.scheme = scheme } }

// WithEndpoint sets the request path.
func WithEndpoint(path string) Option { return func(c *Client) { c.endpoint = path } }

// WithReplicas sets the replica names.
func WithReplicas(names ...string) Option {
	return func(c *Client) { c.replicas = slices.Clone(names) }
}

// WithMaxAttempts sets the attempt ceiling.
func WithMaxAttempts(n int) Option { return func(c *Client) { c.maxAttempts = n } }

// WithStrength sets the restyling strength.
func WithStrength(s float64) Option { return func(c *Client) { c.strength = s } }

// WithRetryDelay sets the pause before the second attempt. It doubles for
// each later attempt. The default is no pause.
func WithRetryDelay(d time.Duration) Option { return func(c *Client) { c.retryDelay = d } }

// WithAvoidFailedReplicas enables replica avoidance within one upload.
func WithAvoidFailedReplicas(on bool) Option { return func(c *Client) { c.avoidFailed = on } }

// WithResolver maps a replica name to a base URL such as
// "http://127.0.0.1:8080". It replaces scheme and domain handling.
func WithResolver(fn func(replica string) string) Option {
	return func(c *Client) { c.resolve = fn }
}

// WithRand sets the source used to pick replicas. fn(n) must return a
// value in [0, n).
func WithRand(fn func(n int) int) Option { return func(c *Client) { c.intn = fn } }

// WithCache caches successful results.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) {
		c.cache = cc
		c.cacheTTL = ttl
	}
}

// WithKeyer sets the cache keyer.
func WithKeyer(k cache.Keyer) Option { return func(c *Client) { c.keyer = k } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a Client with the defaults above.
func New(opts ...Option) *Client {
	c := &Client{
		http:        &http.Client{Timeout: DefaultTimeout},
		scheme:      "https",
		domain:      DefaultDomain,
		endpoint:    DefaultEndpoint,
		replicas:    slices.Clone(DefaultReplicas),
		maxAttempts: DefaultMaxAttempts,
		strength:    DefaultStrength,
		intn:        rand.IntN,
		cache:       cache.NewNullCache(),
		keyer:       cache.NewDefaultKeyer(),
		cacheTTL:    cache.TTLUpload,
		logger:      log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewFromConfig creates a Client from configuration. opts are applied last.
func NewFromConfig(cfg config.Upload, opts ...Option) *Client {
	base := []Option{
		WithDomain(cfg.Domain),
		WithScheme(cfg.Scheme),
		WithEndpoint(cfg.Endpoint),
		WithReplicas(cfg.Replicas...),
		WithMaxAttempts(cfg.MaxAttempts),
		WithStrength(cfg.Strength),
		WithRetryDelay(cfg.RetryDelay.Std()),
		WithAvoidFailedReplicas(cfg.AvoidFailedReplicas),
	}
	if t := cfg.Timeout.Std(); t > 0 {
		base = append(base, WithHTTPClient(&http.Client{Timeout: t}))
	}
	return New(append(base, opts...)...)
}

// SavePath returns the storage path requested for prompt.
func SavePath(prompt string) string {
	return "ai/" + filename.Sanitize(prompt) + ".webp"
}

// URL returns the request URL for replica, including query parameters.
func (c *Client) URL(replica string, job Job) string {
	base := c.scheme + "://" + replica + "." + c.domain
	if c.resolve != nil {
		base = c.resolve(replica)
	}
	return base + c.endpoint + "?" + c.params(job).Encode()
}

func (c *Client) params(job Job) url.Values {
	v := url.Values{}
	v.Set("prompt", job.Prompt)
	v.Set("strength", strconv.FormatFloat(c.strength, 'f', -1, 64))
	v.Set("canny", strconv.FormatBool(job.Canny))
	v.Set("save_path", SavePath(job.Prompt))
	return v
}

// Upload sends job, retrying on transport and status failures.
func (c *Client) Upload(ctx context.Context, job Job) (*Result, error) {
	if len(c.replicas) == 0 {
		return nil, dkerrors.New(dkerrors.ErrCodeInvalidConfig, "no upload replicas configured")
	}

	key := c.keyer.UploadKey(cache.UploadKeyOpts{
		ImageHash: cache.Hash(job.Image),
		Prompt:    job.Prompt,
		Canny:     job.Canny,
		Strength:  c.strength,
	})
	if res, ok := c.cached(ctx, key); ok {
		c.logger.Debug("upload cache hit", "path", res.Path)
		return res, nil
	}

	start := time.Now()
	failed := map[string]bool{}
	attempts := 0
	var res *Result

	err := httputil.RetryN(ctx, c.maxAttempts, c.retryDelay, func(attempt int) error {
		attempts = attempt
		replica := c.pick(failed)
		observability.Upload().OnAttempt(ctx, attempt, replica)

		r, err := c.attempt(ctx, replica, job)
		if err != nil {
			failed[replica] = true
			observability.Upload().OnAttemptFailed(ctx, attempt, replica, err)
			c.logger.Warn("upload attempt failed", "attempt", attempt, "replica", replica, "err", err)
			if dkerrors.IsRetryable(dkerrors.GetCode(err)) {
				return httputil.Retryable(err)
			}
			return err
		}
		res = r
		return nil
	})

	observability.Upload().OnUploadComplete(ctx, attempts, time.Since(start), err)
	if err != nil {
		if dkerrors.IsRetryable(dkerrors.GetCode(err)) {
			c.logger.Error("all upload attempts failed", "attempts", attempts, "err", err)
		}
		return nil, err
	}

	c.store(ctx, key, res)
	return res, nil
}

// pick chooses a replica uniformly at random, skipping failed ones when
// avoidance is on and at least one healthy replica remains.
func (c *Client) pick(failed map[string]bool) string {
	eligible := c.replicas
	if c.avoidFailed {
		var healthy []string
		for _, r := range c.replicas {
			if !failed[r] {
				healthy = append(healthy, r)
			}
		}
		if len(healthy) > 0 {
			eligible = healthy
		}
	}
	return eligible[c.intn(len(eligible))]
}

func (c *Client) attempt(ctx context.Context, replica string, job Job) (*Result, error) {
	body, contentType, err := c.multipart(job)
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeInternal, err, "build multipart body")
	}
	target := c.URL(replica, job)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, body)
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeInvalidConfig, err, "build request")
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	observability.HTTP().OnRequest(ctx, req.Method, req.URL.Host, req.URL.Path)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.HTTP().OnError(ctx, req.Method, req.URL.Host, req.URL.Path, err)
		return nil, dkerrors.Wrap(dkerrors.ErrCodeNetwork, err, "POST %s", req.URL.Host)
	}
	defer resp.Body.Close()
	observability.HTTP().OnResponse(ctx, req.Method, req.URL.Host, req.URL.Path, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		statusErr := &dkerrors.HTTPStatusError{StatusCode: resp.StatusCode, Body: string(text)}
		return nil, dkerrors.Wrap(dkerrors.ErrCodeHTTPStatus, statusErr, "POST %s", req.URL.Host)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeNetwork, err, "read response from %s", req.URL.Host)
	}
	return decodeResult(raw)
}

func (c *Client) multipart(job Job) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image_file"; filename="image.webp"`)
	h.Set("Content-Type", "image/webp")
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(job.Image); err != nil {
		return nil, "", err
	}

	params := c.params(job)
	for _, field := range []string{"save_path", "strength", "canny", "prompt"} {
		if err := w.WriteField(field, params.Get(field)); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func decodeResult(raw []byte) (*Result, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeInvalidResponse, err, "decode style transfer response")
	}
	if fields == nil {
		return nil, dkerrors.Wrap(dkerrors.ErrCodeInvalidResponse, errors.New("null body"), "decode style transfer response")
	}
	res := &Result{Raw: fields}
	if p, ok := fields["path"].(string); ok {
		res.Path = p
	}
	return res, nil
}

func (c *Client) cached(ctx context.Context, key string) (*Result, bool) {
	data, ok, err := c.cache.Get(ctx, key)
	if err != nil || !ok {
		observability.Cache().OnCacheMiss(ctx, "upload")
		return nil, false
	}
	res, err := decodeResult(data)
	if err != nil {
		_ = c.cache.Delete(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, "upload")
	return res, true
}

func (c *Client) store(ctx context.Context, key string, res *Result) {
	if res.Path == "" {
		return
	}
	data, err := json.Marshal(res.Raw)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, c.cacheTTL); err != nil {
		c.logger.Debug("upload cache write failed", "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, "upload", len(data))
}

// String describes the client for logs.
func (c *Client) String() string {
	return fmt.Sprintf("upload.Client{replicas=%v domain=%s attempts=%d}", c.replicas, c.domain, c.maxAttempts)
}
