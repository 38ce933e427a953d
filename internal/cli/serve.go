package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/matzehuels/masonry/pkg/buildinfo"
	"github.com/matzehuels/masonry/pkg/cache"
	errs "github.com/matzehuels/masonry/pkg/errors"
	"github.com/matzehuels/masonry/pkg/masonry"
	"github.com/matzehuels/masonry/pkg/observability"
	"github.com/matzehuels/masonry/pkg/pipeline"
	"github.com/matzehuels/masonry/pkg/render"
	"github.com/matzehuels/masonry/pkg/scene"
)

const (
	// maxSceneBytes bounds request bodies.
	maxSceneBytes = 1 << 20

	requestIDHeader = "X-Request-ID"
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		flags sceneFlags
		addr  string
		trace bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve layout and render over HTTP",
		Long: `Serve layout and render over HTTP.

Endpoints:
  POST /v1/layout            scene in the body, layout JSON in the response
  POST /v1/render/{format}   scene in the body, the artifact in the response
  GET  /healthz              liveness and version

The scene is read as JSON, TOML or YAML according to Content-Type
(application/json, application/toml, application/yaml). Query parameters
width, col_width, row_height, invert_x and invert_y override the scene.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), flags)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()
			runner.Keyer = cache.NewScopedKeyer(runner.Keyer, "serve:")
			if trace {
				observability.NewLogHooks(c.Logger).Register()
			}
			return c.runServe(cmd.Context(), addr, runner)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().BoolVar(&trace, "trace", false, "log every pass, cache access and request (needs -v)")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().StringVar(&flags.redisURL, "redis", os.Getenv(redisEnv), "cache in Redis at this URL instead of on disk (env "+redisEnv+")")
	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, runner *pipeline.Runner) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           c.newServer(runner).routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	printInfo("Listening on %s", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	c.Logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// =============================================================================
// Server
// =============================================================================

type server struct {
	cli    *CLI
	runner *pipeline.Runner
}

func (c *CLI) newServer(runner *pipeline.Runner) *server {
	return &server{cli: c, runner: runner}
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestContext)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render/{format}", s.handleRender)
	})
	return r
}

// requestContext tags each request with an id, attaches a request logger to
// the context and reports the request to the HTTP hooks.
func (s *server) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		logger := s.cli.Logger.With("request_id", id)
		ctx := withLogger(r.Context(), logger)
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, time.Since(start))
		logger.Debug("request", "method", r.Method, "path", r.URL.Path, "status", status, "duration", time.Since(start))
	})
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Short(),
	})
}

type layoutResponse struct {
	RequestID string         `json:"request_id"`
	Cached    bool           `json:"cached"`
	Layout    masonry.Layout `json:"layout"`
}

func (s *server) handleLayout(w http.ResponseWriter, r *http.Request) {
	sc, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	l, cached, err := s.runner.LayoutWithCacheInfo(r.Context(), sc, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, layoutResponse{
		RequestID: w.Header().Get(requestIDHeader),
		Cached:    cached,
		Layout:    l,
	})
}

func (s *server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	formats, err := render.ParseFormats(format)
	if err != nil || len(formats) != 1 {
		writeError(w, r, errs.New(errs.ErrCodeInvalidFormat, "unknown format %q", format))
		return
	}

	sc, opts, err := s.readRequest(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	opts.Formats = formats
	result, err := s.runner.Execute(r.Context(), sc, opts)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", contentType(formats[0]))
	w.Header().Set("X-Cache", strconv.FormatBool(result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[formats[0]])
}

// readRequest decodes the scene body and the override query parameters.
func (s *server) readRequest(w http.ResponseWriter, r *http.Request) (*scene.Scene, pipeline.Options, error) {
	opts := pipeline.Options{Logger: loggerFromContext(r.Context())}

	format, err := sceneFormat(r.Header.Get("Content-Type"))
	if err != nil {
		return nil, opts, err
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSceneBytes))
	if err != nil {
		return nil, opts, errs.Wrap(errs.ErrCodeInvalidScene, err, "read request body")
	}
	sc, err := scene.Parse(body, format)
	if err != nil {
		return nil, opts, err
	}

	q := r.URL.Query()
	for _, p := range []struct {
		name string
		dst  *float64
	}{
		{"width", &opts.Width},
		{"col_width", &opts.ColWidth},
		{"row_height", &opts.RowHeight},
	} {
		if v := q.Get(p.name); v != "" {
			f, err := strconv.ParseFloat(v, 64)
			if err != nil || f <= 0 {
				return nil, opts, errs.New(errs.ErrCodeInvalidConfig, "%s must be a positive number, got %q", p.name, v)
			}
			*p.dst = f
		}
	}
	opts.InvertX, _ = strconv.ParseBool(q.Get("invert_x"))
	opts.InvertY, _ = strconv.ParseBool(q.Get("invert_y"))
	opts.Refresh, _ = strconv.ParseBool(q.Get("refresh"))
	return sc, opts, nil
}

func sceneFormat(contentType string) (scene.Format, error) {
	if contentType == "" {
		return scene.FormatJSON, nil
	}
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidFormat, err, "bad Content-Type")
	}
	switch mt {
	case "application/json":
		return scene.FormatJSON, nil
	case "application/toml", "text/toml":
		return scene.FormatTOML, nil
	case "application/yaml", "application/x-yaml", "text/yaml":
		return scene.FormatYAML, nil
	}
	return "", errs.New(errs.ErrCodeInvalidFormat, "unsupported Content-Type %q", mt)
}

func contentType(format string) string {
	switch format {
	case render.FormatSVG:
		return "image/svg+xml"
	case render.FormatPNG:
		return "image/png"
	case render.FormatPDF:
		return "application/pdf"
	case render.FormatJSON:
		return "application/json"
	case render.FormatDOT:
		return "text/vnd.graphviz; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}

// =============================================================================
// Responses
// =============================================================================

type errorResponse struct {
	Error     string     `json:"error"`
	Code      errs.Code  `json:"code,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
	Item      *itemError `json:"item,omitempty"`
}

type itemError struct {
	ID      int `json:"id"`
	Width   int `json:"width"`
	Columns int `json:"columns"`
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errs.GetCode(err)
	status := statusFor(code)
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	resp := errorResponse{
		Error:     errs.UserMessage(err),
		Code:      code,
		RequestID: w.Header().Get(requestIDHeader),
	}
	var tooWide *errs.ItemTooWideError
	if errors.As(err, &tooWide) {
		resp.Item = &itemError{ID: tooWide.ID, Width: tooWide.Width, Columns: tooWide.Columns}
	}
	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "err", err)
	}
	writeJSON(w, status, resp)
}

func statusFor(code errs.Code) int {
	switch code {
	case errs.ErrCodeInvalidConfig, errs.ErrCodeInvalidScene, errs.ErrCodeInvalidFormat,
		errs.ErrCodeInvalidItem, errs.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errs.ErrCodeItemTooWide, errs.ErrCodeContainerNotFound:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
