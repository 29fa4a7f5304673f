package preview

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vango-dev/mini/internal/config"
	"github.com/vango-dev/mini/internal/errors"
	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/fx"
	"github.com/vango-dev/mini/pkg/mini"
)

const defaultTracerName = "mini/preview"

// maxSpecBytes bounds the body of a create request.
const maxSpecBytes = 64 << 10

// Options configures the preview server.
type Options struct {
	// Config supplies the address, metrics path and default fade speed.
	Config *config.Config

	// Logger receives request and stream logs. Default: slog.Default().
	Logger *slog.Logger

	// Registry collects the server and animation metrics. A fresh registry
	// is created when nil.
	Registry *prometheus.Registry
}

// Server serves the element builder and streams fade mutations.
type Server struct {
	config   *config.Config
	logger   *slog.Logger
	registry *prometheus.Registry
	fx       *fx.Metrics
	requests *prometheus.CounterVec
	streams  prometheus.Gauge
	tracer   trace.Tracer
	upgrader websocket.Upgrader
	router   chi.Router

	mu         sync.Mutex
	httpServer *http.Server
}

// New creates a preview server.
func New(opts Options) *Server {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.New()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	s := &Server{
		config:   cfg,
		logger:   logger,
		registry: reg,
		fx:       fx.NewMetrics(fx.WithRegistry(reg)),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mini",
			Subsystem: "preview",
			Name:      "requests_total",
			Help:      "Preview requests by route and status code",
		}, []string{"route", "code"}),
		streams: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "mini",
			Subsystem: "preview",
			Name:      "active_streams",
			Help:      "Fade streams currently open",
		}),
		tracer: otel.Tracer(defaultTracerName),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true // local preview tool
			},
		},
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Post("/create", s.handleCreate)
	r.Get("/ws/fade", s.handleFade)
	if path := s.config.Preview.MetricsPath; path != "" {
		r.Method(http.MethodGet, path, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Registry returns the metrics registry.
func (s *Server) Registry() *prometheus.Registry {
	return s.registry
}

// Start listens on the configured address until ctx is done or the
// server fails.
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.PreviewAddress(),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.mu.Lock()
	s.httpServer = srv
	s.mu.Unlock()

	s.logger.Info("preview server listening", "url", s.config.PreviewURL())

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case <-ctx.Done():
		s.Stop()
		return nil
	case err := <-errCh:
		s.Stop()
		if err != nil {
			return errors.New("E140").Wrap(err)
		}
		return nil
	}
}

// Stop shuts the server down, waiting up to five seconds.
func (s *Server) Stop() {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.mu.Unlock()
	if srv == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

// observe traces and counts each request.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := s.tracer.Start(r.Context(), "preview "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", r.Method),
				attribute.String("http.target", r.URL.Path),
				attribute.String("request.id", middleware.GetReqID(r.Context())),
			),
		)
		defer span.End()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}

		span.SetName("preview " + r.Method + " " + route)
		span.SetAttributes(attribute.Int("http.status_code", status))
		if status >= 500 {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
		s.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()

		s.logger.Debug("preview request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start))
	})
}

type errorBody struct {
	Code  string `json:"code,omitempty"`
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Code: errors.Classify(err), Error: err.Error()})
}

// handleCreate builds the element spec in the request body and returns
// its outer HTML. A form field named spec is accepted too.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	spec, err := readSpec(w, r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	el, err := mini.Create(dom.NewDocument(), spec)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, el.OuterHTML())
}

// readSpec reads the spec from the form or the raw body. Bodies over
// maxSpecBytes are rejected, never truncated.
func readSpec(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxSpecBytes)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return "", err
		}
		return r.PostForm.Get("spec"), nil
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
