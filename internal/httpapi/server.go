// Package httpapi exposes ranking and projections over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/akkash/bizsearch-new-sub002/internal/common/logger"
	"github.com/akkash/bizsearch-new-sub002/internal/common/observability"
	"github.com/akkash/bizsearch-new-sub002/internal/common/validation"
	"github.com/akkash/bizsearch-new-sub002/internal/projection"
	buildroiscenarios "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/build-roi-scenarios"
	rankopportunities "github.com/akkash/bizsearch-new-sub002/internal/workers/franchise/rank-opportunities"
)

const (
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes    = 4 << 20
	shutdownTimeout = 10 * time.Second
	readyTimeout    = 2 * time.Second
)

// Pinger is a dependency /ready can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps is everything the router needs. Validator, Observability, Checks
// and Gatherer are optional.
type Deps struct {
	Ranker         *rankopportunities.Handler
	Projector      *buildroiscenarios.Handler
	Benchmarks     *projection.BenchmarkTable
	Validator      *validation.Validator
	Observability  *observability.Observability
	Checks         map[string]Pinger
	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	Logger         logger.Logger
}

type Server struct {
	deps   Deps
	log    logger.Logger
	router *gin.Engine
}

func New(deps Deps) *Server {
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	s := &Server{deps: deps, log: log.WithFields(map[string]interface{}{"component": "httpapi"})}
	s.router = s.routes()
	return s
}

// Handler returns the gin engine as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(requestID())
	r.Use(accessLog(s.log))
	r.Use(gin.Recovery())
	if c, ok := corsConfig(s.deps.AllowedOrigins); ok {
		r.Use(cors.New(c))
	}

	r.GET("/health", s.health)
	r.GET("/ready", s.ready)

	gatherer := s.deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	v1 := r.Group("/v1")
	v1.POST("/matches", s.rankMatches)
	v1.POST("/scenarios", s.buildScenarios)
	v1.GET("/benchmarks", s.benchmarks)

	return r
}

// Run serves on addr until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", map[string]interface{}{"addr": addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.log.Info("http server shutting down", nil)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
