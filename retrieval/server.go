package retrieval

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/advisor-query-dispatch/agent/contract"
	metricsx "github.com/tanpawarit/advisor-query-dispatch/pkg/metrics"
)

const (
	headerRequestID       = "X-Request-ID"
	defaultRequestTimeout = 15 * time.Second
)

type ServerConfig struct {
	Addr            string        `envconfig:"ADDR" default:":8000"`
	ReadTimeout     time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"30s"`
	RequestTimeout  time.Duration `envconfig:"REQUEST_TIMEOUT" split_words:"true" default:"15s"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
}

type ServerOption func(*Server)

// WithRequestTimeout bounds the context of every handled request.
func WithRequestTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		if d > 0 {
			s.requestTimeout = d
		}
	}
}

// Server exposes the retrieval operations as JSON over HTTP.
type Server struct {
	retriever      contractx.Retriever
	metrics        *metricsx.Metrics
	requestTimeout time.Duration
	router         chi.Router
}

type errorBody struct {
	Detail string `json:"detail"`
}

func NewServer(retriever contractx.Retriever, metrics *metricsx.Metrics, opts ...ServerOption) (*Server, error) {
	if retriever == nil {
		return nil, errors.New("retriever is required")
	}

	s := &Server{
		retriever:      retriever,
		metrics:        metrics,
		requestTimeout: defaultRequestTimeout,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.requestTimeout))

	r.Get("/api/fa", s.handleAdvisorNames)
	r.Get("/api/fa/{fa_name}/clients", s.handleClientsByAdvisor)
	r.Get("/health", s.handleHealth)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler())
	}

	s.router = r
	return s, nil
}

// NewHTTPServer wraps the handler with the configured timeouts.
func NewHTTPServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := middleware.GetReqID(r.Context())
		w.Header().Set(headerRequestID, requestID)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		defer func() {
			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			elapsed := time.Since(start)
			s.metrics.ObserveRequest(route, status, elapsed)

			log.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("route", route).
				Int("status", status).
				Dur("elapsed", elapsed).
				Msg("retrieval request")
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) handleClientsByAdvisor(w http.ResponseWriter, r *http.Request) {
	name := pathParam(r, "fa_name")

	clients, err := s.retriever.ClientsByAdvisor(r.Context(), name)
	switch {
	case errors.Is(err, contractx.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Detail: fmt.Sprintf("No clients found for FA: %s", name)})
		return
	case err != nil:
		log.Error().Err(err).Str("fa_name", name).Msg("clients by advisor failed")
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: "Client data unavailable"})
		return
	}

	writeJSON(w, http.StatusOK, clients)
}

func (s *Server) handleAdvisorNames(w http.ResponseWriter, r *http.Request) {
	names, err := s.retriever.AdvisorNames(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("advisor names failed")
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Detail: "Client data unavailable"})
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn().Err(err).Msg("write json response")
	}
}

// pathParam decodes a URL parameter. chi matches on RawPath when the request
// carries escaped separators, so the value may still be escaped.
func pathParam(r *http.Request, key string) string {
	value := chi.URLParam(r, key)
	if r.URL.RawPath == "" {
		return value
	}
	if unescaped, err := url.PathUnescape(value); err == nil {
		return unescaped
	}
	return value
}
