// Package server exposes a hosted document over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness
//	POST /v1/messages          prompt channel ({"type":"updatePrompt","prompt":"..."})
//	GET  /v1/prompt            current prompt
//	GET  /v1/actions           registered commands and their availability
//	POST /v1/actions/{name}    perform a command
//	POST /v1/keys              dispatch a key event or chord
//	GET  /v1/scene             the document as a scene file
//
// The prompt channel is the boundary adapter that feeds the
// [stylize.PromptContext] read by the next style transfer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/drawkit/pkg/action"
	dkerrors "github.com/matzehuels/drawkit/pkg/errors"
	"github.com/matzehuels/drawkit/pkg/i18n"
	"github.com/matzehuels/drawkit/pkg/scene"
	"github.com/matzehuels/drawkit/pkg/stylize"
)

// maxBody bounds request bodies.
const maxBody = 1 << 20

// Host is the document session served over HTTP.
type Host interface {
	Document() *scene.Document
	PromptContext() *stylize.PromptContext
	Translator() *i18n.Translator
	Dispatcher() *action.Dispatcher
	Available() []action.Descriptor
	Perform(ctx context.Context, name string) (action.Dispatched, error)
	DispatchKey(ctx context.Context, ev action.KeyEvent) (action.Dispatched, bool, error)
}

// Server serves a Host.
type Server struct {
	host   Host
	logger *log.Logger
	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates a server for host.
func New(host Host, opts ...Option) *Server {
	s := &Server{host: host, logger: log.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/v1", func(r chi.Router) {
		r.Post("/messages", s.handleMessage)
		r.Get("/prompt", s.handlePrompt)
		r.Get("/actions", s.handleActions)
		r.Post("/actions/{name}", s.handlePerform)
		r.Post("/keys", s.handleKey)
		r.Get("/scene", s.handleScene)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, dkerrors.Wrap(dkerrors.ErrCodeInvalidInput, err, "read body"))
		return
	}
	handled, err := s.host.PromptContext().HandleJSON(body)
	if err != nil {
		writeError(w, err)
		return
	}
	if handled {
		s.logger.Info("prompt updated", "prompt", s.host.PromptContext().Prompt())
	}
	writeJSON(w, http.StatusOK, map[string]bool{"handled": handled})
}

type promptResponse struct {
	Prompt string `json:"prompt"`
	// Default is true when no prompt was set and the default applies.
	Default bool `json:"default"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, _ *http.Request) {
	p := s.host.PromptContext().Prompt()
	writeJSON(w, http.StatusOK, promptResponse{Prompt: p, Default: p == ""})
}

type actionInfo struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Icon      string   `json:"icon,omitempty"`
	Keywords  []string `json:"keywords,omitempty"`
	Available bool     `json:"available"`
}

func (s *Server) handleActions(w http.ResponseWriter, _ *http.Request) {
	tr := s.host.Translator()
	available := map[string]bool{}
	for _, d := range s.host.Available() {
		available[d.Name] = true
	}
	var out []actionInfo
	for _, d := range s.host.Dispatcher().Registry().All() {
		out = append(out, actionInfo{
			Name:      d.Name,
			Label:     tr.T(d.Label),
			Icon:      d.Icon,
			Keywords:  d.Keywords,
			Available: available[d.Name],
		})
	}
	writeJSON(w, http.StatusOK, out)
}

type effectResponse struct {
	Action          string            `json:"action"`
	Changed         bool              `json:"changed"`
	StoreAction     scene.StoreAction `json:"storeAction"`
	CommitToHistory bool              `json:"commitToHistory,omitempty"`
	Elements        int               `json:"elements"`
	Files           int               `json:"files"`
	ErrorMessage    string            `json:"errorMessage,omitempty"`
	Toast           *scene.Toast      `json:"toast,omitempty"`
}

func newEffectResponse(res action.Dispatched, doc *scene.Document) effectResponse {
	out := effectResponse{
		Action:   res.Action,
		Elements: len(scene.NonDeleted(doc.Elements())),
		Files:    len(doc.Files()),
	}
	if eff := res.Effect; eff != nil {
		out.Changed = eff.Elements != nil || len(eff.Files) > 0
		out.StoreAction = eff.StoreAction
		out.CommitToHistory = eff.CommitToHistory
		if eff.AppState != nil {
			out.ErrorMessage = eff.AppState.ErrorMessage
			out.Toast = eff.AppState.Toast
		}
	}
	return out
}

func (s *Server) handlePerform(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	res, err := s.host.Perform(r.Context(), name)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newEffectResponse(res, s.host.Document()))
}

type keyRequest struct {
	Chord string `json:"chord"`
	action.KeyEvent
}

func (s *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	var req keyRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBody)).Decode(&req); err != nil {
		writeError(w, dkerrors.Wrap(dkerrors.ErrCodeInvalidInput, err, "decode key event"))
		return
	}
	ev := req.KeyEvent
	if req.Chord != "" {
		parsed, err := action.ParseKeyChord(req.Chord)
		if err != nil {
			writeError(w, err)
			return
		}
		ev = parsed
	}
	res, ok, err := s.host.DispatchKey(r.Context(), ev)
	if err != nil {
		writeError(w, err)
		return
	}
	if !ok {
		writeError(w, dkerrors.New(dkerrors.ErrCodeNotFound, "no action bound to %s", ev))
		return
	}
	writeJSON(w, http.StatusOK, newEffectResponse(res, s.host.Document()))
}

func (s *Server) handleScene(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := scene.Write(s.host.Document().Scene(), w); err != nil {
		s.logger.Error("write scene", "err", err)
	}
}

type errorBody struct {
	Error struct {
		Code    dkerrors.Code `json:"code"`
		Message string        `json:"message"`
	} `json:"error"`
}

func statusFor(code dkerrors.Code) int {
	switch code {
	case dkerrors.ErrCodeUnknownAction, dkerrors.ErrCodeNotFound:
		return http.StatusNotFound
	case dkerrors.ErrCodeInvalidAction:
		return http.StatusConflict
	case dkerrors.ErrCodeInvalidInput:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) {
	code := dkerrors.GetCode(err)
	if code == "" {
		code = dkerrors.ErrCodeInternal
	}
	var body errorBody
	body.Error.Code = code
	body.Error.Message = dkerrors.UserMessage(err)
	writeJSON(w, statusFor(code), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
