package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/density-cli/internal/filter"
	"github.com/sells-group/density-cli/internal/insights"
	"github.com/sells-group/density-cli/internal/store"
	"github.com/sells-group/density-cli/pkg/areainsights"
)

var servePort int

// analyzeFunc lets handler tests substitute a fake analyzer.
type analyzeFunc func(ctx context.Context, req insights.Request) (*insights.Analysis, error)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP analysis server",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		analyzer, err := initAnalyzer()
		if err != nil {
			return err
		}

		st, err := initStore()
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck
		if err := st.Migrate(ctx); err != nil {
			return err
		}

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: newRouter(analyzer.Analyze, st),
		}

		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func newRouter(analyze analyzeFunc, st store.Store) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Post("/v1/analyze", func(w http.ResponseWriter, req *http.Request) {
		var in insights.Request
		if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		analysis, err := analyze(req.Context(), in)
		if err != nil {
			status, msg := errorStatus(err)
			zap.L().Warn("analysis failed", zap.Int("status", status), zap.Error(err))
			writeError(w, status, msg)
			return
		}

		if st != nil {
			rec := &store.Record{
				ID:       analysis.ID,
				Industry: in.Industry,
				Intent:   in.Intent,
				Status:   store.StatusComplete,
				Request:  in,
				Analysis: analysis,
			}
			if err := st.SaveRecord(req.Context(), rec); err != nil {
				zap.L().Warn("save analysis record failed", zap.Error(err))
			}
		}

		writeJSON(w, http.StatusOK, analysis)
	})

	r.Get("/v1/analyses", func(w http.ResponseWriter, req *http.Request) {
		if st == nil {
			writeError(w, http.StatusNotFound, "history store disabled")
			return
		}
		recs, err := st.ListRecords(req.Context(), store.ListFilter{
			Status:   store.Status(req.URL.Query().Get("status")),
			Industry: req.URL.Query().Get("industry"),
			Limit:    50,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "list analyses failed")
			return
		}
		writeJSON(w, http.StatusOK, recs)
	})

	r.Get("/v1/analyses/{id}", func(w http.ResponseWriter, req *http.Request) {
		if st == nil {
			writeError(w, http.StatusNotFound, "history store disabled")
			return
		}
		rec, err := st.GetRecord(req.Context(), chi.URLParam(req, "id"))
		if err != nil {
			writeError(w, http.StatusNotFound, "analysis not found")
			return
		}
		writeJSON(w, http.StatusOK, rec)
	})

	return r
}

// errorStatus maps the error taxonomy onto HTTP status codes: caller
// mistakes are 4xx, upstream trouble is 502.
func errorStatus(err error) (int, string) {
	var (
		valErr *filter.ValidationError
		cfgErr *insights.ConfigurationError
		exhErr *insights.RetryExhaustedError
		apiErr *areainsights.APIError
	)
	switch {
	case errors.As(err, &valErr):
		return http.StatusBadRequest, valErr.Error()
	case errors.As(err, &cfgErr):
		return http.StatusInternalServerError, cfgErr.Error()
	case errors.As(err, &exhErr):
		return http.StatusBadGateway, exhErr.Error()
	case errors.As(err, &apiErr):
		return http.StatusBadGateway, apiErr.Error()
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "analysis canceled"
	default:
		return http.StatusInternalServerError, "analysis failed"
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
