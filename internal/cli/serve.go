package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/opdot/opdot/pkg/cache"
	"github.com/opdot/opdot/pkg/dot"
	"github.com/opdot/opdot/pkg/errors"
	"github.com/opdot/opdot/pkg/ir"
	"github.com/opdot/opdot/pkg/pipeline"
	"github.com/opdot/opdot/pkg/store"
)

// newServeCmd creates the serve command: an HTTP service that accepts
// module documents and returns rendered graphs.
func newServeCmd(cfg Config) *cobra.Command {
	var (
		addr     string
		redis    string
		mongoURI string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve graph exports over HTTP",
		Long: `Serve starts an HTTP service with three endpoints:

  POST /export?format=svg   module document in, rendered graph out
  GET  /exports             recent archived exports (requires --mongo-uri)
  GET  /healthz             liveness probe

With --redis, rendered artifacts are cached in Redis so several instances
can share one cache. With --mongo-uri, every successful export is archived
in MongoDB.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			artifacts, err := serveCache(ctx, cfg, redis, logger)
			if err != nil {
				return err
			}

			var archive store.Store
			if mongoURI != "" {
				connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				archive, err = store.NewMongo(connectCtx, mongoURI)
				cancel()
				if err != nil {
					return fmt.Errorf("connect to mongodb: %w", err)
				}
				defer archive.Close(context.Background())
				logger.Info("archiving exports", "uri", mongoURI)
			}

			srv := newServer(cfg.Export.Options(), artifacts, archive, logger)
			defer srv.runner.Close()
			httpSrv := &http.Server{
				Addr:         addr,
				Handler:      srv.routes(),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 60 * time.Second,
			}

			go func() {
				<-ctx.Done()
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = httpSrv.Shutdown(shutdownCtx)
			}()

			printTitle("opdot serve")
			logger.Info("listening", "addr", addr)
			if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	cmd.Flags().StringVar(&redis, "redis", "", "redis address for a shared artifact cache (e.g. localhost:6379)")
	cmd.Flags().StringVar(&mongoURI, "mongo-uri", "", "mongodb uri for archiving exports")

	return cmd
}

// serveCache selects the artifact cache for the service: Redis when given,
// otherwise the local file cache, degrading to no caching on failure.
func serveCache(ctx context.Context, cfg Config, redisAddr string, logger *log.Logger) (cache.Cache, error) {
	if redisAddr != "" {
		c, err := cache.NewRedisCache(ctx, redisAddr)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		logger.Info("using redis artifact cache", "addr", redisAddr)
		return c, nil
	}
	return newArtifactCache(cfg, false, logger), nil
}

// server handles export requests. Separate from the cobra command so the
// handlers can be exercised with httptest.
type server struct {
	export  dot.Options
	runner  *pipeline.Runner
	archive store.Store
	logger  *log.Logger
}

func newServer(export dot.Options, artifacts cache.Cache, archive store.Store, logger *log.Logger) *server {
	return &server{
		export:  export,
		runner:  pipeline.NewRunner(artifacts, logger),
		archive: archive,
		logger:  logger,
	}
}

func (s *server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Post("/export", s.handleExport)
	r.Get("/exports", s.handleRecent)
	r.Get("/healthz", s.handleHealthz)
	return r
}

// contentTypes maps output formats to response content types.
var contentTypes = map[string]string{
	pipeline.FormatDOT: "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatSVG: "image/svg+xml",
	pipeline.FormatPNG: "image/png",
}

func (s *server) handleExport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	mod, err := ir.Read(r.Body)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	dotText, err := s.runner.Export(ctx, mod, s.export)
	if err != nil {
		s.writeError(w, exportStatus(err), err)
		return
	}
	artifacts, _, err := s.runner.Render(ctx, dotText, []string{format})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	data := artifacts[format]

	if s.archive != nil {
		rec := store.Export{Module: mod.Name, Format: format, DOT: dotText, Bytes: len(data)}
		if err := s.archive.Save(ctx, rec); err != nil {
			// Archive failures never fail the export itself.
			s.logger.Warn("archive write failed", "module", mod.Name, "err", err)
		}
	}

	w.Header().Set("Content-Type", contentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if s.archive == nil {
		s.writeError(w, http.StatusNotFound,
			errors.New(errors.ErrCodeUnsupported, "export archive not configured"))
		return
	}
	exports, err := s.archive.Recent(r.Context(), 50)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(exports)
}

func (s *server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// errorResponse is the JSON body returned for failed requests.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Debug("request failed", "status", status, "err", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    string(errors.GetCode(err)),
		Message: errors.UserMessage(err),
	})
}

// exportStatus maps export failures to HTTP statuses. Binding errors mean
// the submitted document was inconsistent, not that the service failed.
func exportStatus(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeUnboundValue, errors.ErrCodeDuplicateBinding, errors.ErrCodeInvalidModule:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
