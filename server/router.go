package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"phone-analytics/models"
	"phone-analytics/services"
	"phone-analytics/utils"
)

// Comparer forwards dataset comparisons to the gateway.
type Comparer interface {
	CompareModels(ctx context.Context, modelNames []string) (models.Comparison, error)
}

// Server exposes the estimator, recommendations and catalog over HTTP.
type Server struct {
	predictor     *services.Predictor
	recommender   *services.Recommender
	insights      *services.CatalogInsightService
	comparer      Comparer
	logger        *utils.Logger
	referenceYear int
	modelType     string
	currency      string
}

// Options carries the request defaults of a Server.
type Options struct {
	ReferenceYear    int
	DefaultModelType string
	DefaultCurrency  string
}

func New(
	predictor *services.Predictor,
	recommender *services.Recommender,
	insights *services.CatalogInsightService,
	comparer Comparer,
	logger *utils.Logger,
	opts Options,
) *Server {
	return &Server{
		predictor:     predictor,
		recommender:   recommender,
		insights:      insights,
		comparer:      comparer,
		logger:        logger,
		referenceYear: opts.ReferenceYear,
		modelType:     opts.DefaultModelType,
		currency:      opts.DefaultCurrency,
	}
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.logRequests)

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, "OK")
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/estimate", s.handleEstimate).Methods("POST")
	api.HandleFunc("/estimate/advanced", s.handleAdvanced).Methods("POST")
	api.HandleFunc("/recommendations", s.handleRecommendations).Methods("GET")
	api.HandleFunc("/catalog/summary", s.handleCatalogSummary).Methods("GET")
	api.HandleFunc("/compare", s.handleCompare).Methods("POST")
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("[server] Listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("[server] Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("[server] %s %s %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
