package stylize

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/image/draw"

	"github.com/matzehuels/drawkit/pkg/config"
	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/observability"
	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/upload"
)

// DefaultOffset is the distance of a new image from the selection origin.
const DefaultOffset = 8

// Exporter renders elements. *export.Exporter implements it.
type Exporter interface {
	Export(ctx context.Context, format export.Format, elements []scene.Element, state scene.AppState, files scene.Files, ov export.Overrides) (*export.Blob, error)
}

// Uploader sends an image for restyling. *upload.Client implements it.
type Uploader interface {
	Upload(ctx context.Context, job upload.Job) (*upload.Result, error)
}

// Request is the input of one run.
type Request struct {
	Elements []scene.Element
	AppState scene.AppState
	Files    scene.Files
	// Name is the scene name passed to the exporter.
	Name string
	// Prompt overrides the orchestrator's default prompt when set.
	Prompt string
	// Canny overrides the orchestrator's edge-detection setting when set.
	Canny *bool
	// SurfaceAttached is false when there is nothing to render onto.
	SurfaceAttached bool
}

// Result describes a finished run.
type Result struct {
	State State
	// Effect is never nil.
	Effect *scene.Effect
	// Err is set when State is StateFailed.
	Err error
	// Path is the image path returned by the backend.
	Path    string
	Element *scene.Element
	File    *scene.BinaryFile
}

// Orchestrator runs style transfers.
type Orchestrator struct {
	exporter      Exporter
	uploader      Uploader
	loader        ImageLoader
	defaultPrompt string
	canny         bool
	offset        float64
	now           func() time.Time
	intn          func(n int) int
	logger        *log.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLoader sets the result image loader.
func WithLoader(l ImageLoader) Option { return func(o *Orchestrator) { o.loader = l } }

// WithDefaultPrompt sets the prompt used when a request has none.
func WithDefaultPrompt(p string) Option { return func(o *Orchestrator) { o.defaultPrompt = p } }

// WithCanny enables edge detection for requests that do not say otherwise.
func WithCanny(on bool) Option { return func(o *Orchestrator) { o.canny = on } }

// WithOffset sets the placement offset from the selection origin.
func WithOffset(d float64) Option { return func(o *Orchestrator) { o.offset = d } }

// WithClock sets the time source for element and file timestamps.
func WithClock(now func() time.Time) Option { return func(o *Orchestrator) { o.now = now } }

// WithRand sets the source of seeds and nonces.
func WithRand(fn func(n int) int) Option { return func(o *Orchestrator) { o.intn = fn } }

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// New creates an orchestrator.
func New(exporter Exporter, uploader Uploader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		exporter:      exporter,
		uploader:      uploader,
		defaultPrompt: config.DefaultPrompt,
		offset:        DefaultOffset,
		now:           time.Now,
		intn:          rand.IntN,
		logger:        log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.loader == nil {
		o.loader = NewHTTPLoader(nil)
	}
	return o
}

// NewFromConfig creates an orchestrator from the [stylize] config section.
func NewFromConfig(cfg config.Stylize, exporter Exporter, uploader Uploader, opts ...Option) *Orchestrator {
	base := []Option{
		WithDefaultPrompt(cfg.DefaultPrompt),
		WithCanny(cfg.Canny),
		WithOffset(cfg.Offset),
	}
	return New(exporter, uploader, append(base, opts...)...)
}

// Stylize runs req and returns only its effect.
func (o *Orchestrator) Stylize(ctx context.Context, req Request) *scene.Effect {
	return o.Run(ctx, req).Effect
}

// run tracks the state of one call to Run.
type run struct {
	o     *Orchestrator
	ctx   context.Context
	state State
}

func (r *run) to(s State) {
	observability.Stylize().OnTransition(r.ctx, r.state.String(), s.String())
	r.o.logger.Debug("stylize", "from", r.state, "to", s)
	r.state = s
}

// Run performs the full export, upload, decode and integrate sequence.
// Failures are returned as an error effect on req.AppState; the document
// is never partly changed.
func (o *Orchestrator) Run(ctx context.Context, req Request) *Result {
	start := time.Now()
	r := &run{o: o, ctx: ctx, state: StateIdle}
	res := o.run(r, req)
	res.State = r.state
	observability.Stylize().OnComplete(ctx, res.State.String(), time.Since(start), res.Err)
	return res
}

func (o *Orchestrator) run(r *run, req Request) *Result {
	fail := func(err error) *Result {
		r.to(StateFailed)
		o.logger.Error("style transfer failed", "err", err)
		return &Result{
			Effect: scene.ErrorEffect(req.AppState, dkerrors.UserMessage(err)),
			Err:    err,
		}
	}

	r.to(StateExporting)
	exported, frame := export.PrepareElementsForExport(req.Elements, req.AppState, true)
	if !req.SurfaceAttached || o.exporter == nil {
		return fail(dkerrors.New(dkerrors.ErrCodeExportUnavailable, "no drawing surface is attached"))
	}
	blob, err := o.exporter.Export(r.ctx, export.FormatBlob, exported, req.AppState, req.Files, export.Overrides{
		Name:           req.Name,
		ExportingFrame: frame,
	})
	if err != nil {
		return fail(err)
	}
	if blob == nil || len(blob.Data) == 0 {
		return fail(dkerrors.New(dkerrors.ErrCodeNotABlob, "exported canvas is not a blob"))
	}

	r.to(StateUploading)
	bounds := scene.CommonBounds(exported)
	job := upload.Job{Image: blob.Data, Prompt: req.Prompt, Canny: o.canny}
	if job.Prompt == "" {
		job.Prompt = o.defaultPrompt
	}
	if req.Canny != nil {
		job.Canny = *req.Canny
	}
	result, err := o.uploader.Upload(r.ctx, job)
	if err != nil {
		return fail(err)
	}

	if result == nil || result.Path == "" {
		o.logger.Warn("style transfer returned no image path, nothing to insert")
		r.to(StateDone)
		return &Result{Effect: scene.None()}
	}
	r.to(StateDecoding)
	img, err := o.loader.Load(r.ctx, result.Path)
	if err != nil {
		return fail(err)
	}

	r.to(StateIntegrating)
	file, err := o.rasterize(img)
	if err != nil {
		return fail(err)
	}
	size := img.Bounds().Size()
	el := o.imageElement(req.Elements, file.ID, bounds, size)

	elements := append(scene.CloneAll(req.Elements), el)
	state := req.AppState.WithSelection(el.ID)
	r.to(StateDone)
	o.logger.Info("style transfer inserted image", "element", el.ID, "width", size.X, "height", size.Y)
	return &Result{
		Path: result.Path,
		Effect: &scene.Effect{
			Elements:        elements,
			AppState:        &state,
			Files:           []scene.BinaryFile{file},
			StoreAction:     scene.StoreActionCapture,
			CommitToHistory: true,
		},
		Element: &el,
		File:    &file,
	}
}

// rasterize redraws img onto an RGBA surface of its natural size and
// encodes it as a PNG file record.
func (o *Orchestrator) rasterize(img image.Image) (scene.BinaryFile, error) {
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return scene.BinaryFile{}, dkerrors.Wrap(dkerrors.ErrCodeDecode, err, "encode result image")
	}
	data := buf.Bytes()
	return scene.BinaryFile{
		MimeType: scene.MimePNG,
		ID:       scene.FileIDFor(data),
		DataURL:  scene.EncodeDataURL(scene.MimePNG, data),
		Created:  o.now().UnixMilli(),
	}, nil
}

func (o *Orchestrator) imageElement(existing []scene.Element, fileID scene.FileID, bounds scene.Bounds, size image.Point) scene.Element {
	el := scene.NewBase(scene.TypeImage, o.now())
	el.X = bounds.MinX + o.offset
	el.Y = bounds.MinY + o.offset
	el.Width = float64(size.X)
	el.Height = float64(size.Y)
	el.StrokeColor = "transparent"
	el.BackgroundColor = "transparent"
	el.FillStyle = "hachure"
	el.StrokeWidth = 1
	el.Seed = o.intn(2000)
	el.VersionNonce = o.intn(1_000_000)
	el.FileID = fileID
	el.Status = scene.StatusPending
	el.Scale = &[2]float64{1, 1}
	el.Index = scene.NextIndex(existing)
	return el
}
