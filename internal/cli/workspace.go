package cli

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drawkit/internal/host"
	"github.com/matzehuels/drawkit/pkg/action"
	"github.com/matzehuels/drawkit/pkg/cache"
	"github.com/matzehuels/drawkit/pkg/clipboard"
	"github.com/matzehuels/drawkit/pkg/config"
	"github.com/matzehuels/drawkit/pkg/export"
	"github.com/matzehuels/drawkit/pkg/filestore"
	"github.com/matzehuels/drawkit/pkg/i18n"
	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/stylize"
	"github.com/matzehuels/drawkit/pkg/upload"
)

// workspace is one scene file opened for editing.
type workspace struct {
	path    string
	cfg     config.Config
	session *host.Session
	logger  *log.Logger

	cache cache.Cache
	store filestore.Store
}

// workspaceOptions are the per-command inputs that shape a session.
type workspaceOptions struct {
	selection []string
	prompt    string
	canny     *bool
}

// openWorkspace reads the scene at path and wires a session around it.
// An empty path opens an empty scene that is never saved.
func (c *CLI) openWorkspace(ctx context.Context, path string, opts workspaceOptions) (*workspace, error) {
	logger := loggerFromContext(ctx)

	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}

	sc, err := readScene(path)
	if err != nil {
		return nil, err
	}
	if len(opts.selection) > 0 {
		sc.AppState = sc.AppState.WithSelection(opts.selection...)
	}

	w := &workspace{path: path, cfg: cfg, logger: logger}

	w.store, err = filestore.Open(ctx, cfg.Files)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	if w.store != nil {
		if sc.Files, err = filestore.Hydrate(ctx, w.store, sc.Elements, sc.Files); err != nil {
			w.Close()
			return nil, fmt.Errorf("hydrate files: %w", err)
		}
	}

	w.cache, err = newCache(ctx, cfg.Cache)
	if err != nil {
		w.Close()
		return nil, fmt.Errorf("open cache: %w", err)
	}

	prompt := stylize.NewPromptContext("")
	if opts.prompt != "" {
		if _, err := prompt.Handle(stylize.Message{Type: stylize.MessageUpdatePrompt, Prompt: opts.prompt}); err != nil {
			w.Close()
			return nil, err
		}
	}

	tr := i18n.Default().Translator(cfg.I18n.Locale)
	cb := clipboard.New(c.clipboardBackend(), clipboard.WithLogger(logger))
	ex := export.New(cb, export.WithTranslator(tr), export.WithLogger(logger))

	uploadOpts := []upload.Option{
		upload.WithCache(w.cache, cfg.Cache.TTL.Std()),
		upload.WithLogger(logger),
	}
	if cfg.Cache.Scope != "" {
		uploadOpts = append(uploadOpts, upload.WithKeyer(cache.NewScopedKeyer(nil, cfg.Cache.Scope)))
	}
	up := upload.NewFromConfig(cfg.Upload, append(uploadOpts, c.uploadOpts...)...)

	stylizeOpts := []stylize.Option{stylize.WithLogger(logger)}
	if opts.canny != nil {
		stylizeOpts = append(stylizeOpts, stylize.WithCanny(*opts.canny))
	}
	st := stylize.NewFromConfig(cfg.Stylize, ex, up, stylizeOpts...)

	d := action.NewDispatcher(action.DefaultRegistry(), action.WithLogger(logger))

	sessionOpts := []host.Option{
		host.WithSurface(true),
		host.WithStylizer(st),
		host.WithPrompt(prompt),
		host.WithTranslator(tr),
		host.WithFileStore(w.store),
		host.WithLogger(logger),
	}
	if sc.AppState.Name == "" && path != "" {
		sessionOpts = append(sessionOpts, host.WithName(sceneName(path)))
	}
	w.session = host.NewSession(sc.Document(), d, cb, ex, sessionOpts...)

	logger.Debug("opened scene", "path", path, "elements", len(sc.Elements), "files", len(sc.Files))
	return w, nil
}

// readScene reads path, or returns an empty scene for "".
func readScene(path string) (*scene.Scene, error) {
	if path == "" {
		return &scene.Scene{
			Type:     scene.SceneType,
			Version:  scene.SceneVersion,
			Source:   scene.SceneSource,
			AppState: scene.DefaultAppState(),
			Files:    scene.Files{},
		}, nil
	}
	return scene.ReadFile(path)
}

// Save writes the document back to its scene file.
func (w *workspace) Save() error {
	if w.path == "" {
		return nil
	}
	if err := scene.WriteFile(w.session.Document().Scene(), w.path); err != nil {
		return err
	}
	w.logger.Debug("saved scene", "path", w.path)
	return nil
}

// Close releases the cache and file store.
func (w *workspace) Close() {
	if w.cache != nil {
		if err := w.cache.Close(); err != nil {
			w.logger.Warn("close cache", "err", err)
		}
	}
	if w.store != nil {
		if err := w.store.Close(); err != nil {
			w.logger.Warn("close file store", "err", err)
		}
	}
}
