package report

import (
	"context"
	"errors"
	"image/png"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server keeps the latest report and serves it over HTTP:
//
//	GET /health    liveness
//	GET /metrics   Prometheus metrics from the given gatherer
//	GET /status    latest report as a JSON Event
//	GET /best.png  latest best individual
type Server struct {
	mu     sync.RWMutex
	latest *Report

	srv *http.Server
}

// NewServer builds a server listening on addr. Call ListenAndServe to start it.
func NewServer(addr string, gatherer prometheus.Gatherer) *Server {
	s := &Server{}
	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.router(gatherer),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler returns the HTTP handler, mostly useful for tests.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) router(gatherer prometheus.Gatherer) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	r.GET("/status", func(c *gin.Context) {
		latest := s.snapshot()
		if latest == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no generation reported yet"})
			return
		}
		c.JSON(http.StatusOK, NewEvent(*latest))
	})
	r.GET("/best.png", func(c *gin.Context) {
		latest := s.snapshot()
		if latest == nil || latest.Best == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "no image reported yet"})
			return
		}
		c.Header("Content-Type", "image/png")
		c.Status(http.StatusOK)
		if err := png.Encode(c.Writer, latest.Best); err != nil {
			_ = c.Error(err)
		}
	})
	return r
}

func (s *Server) snapshot() *Report {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// Report implements Reporter by replacing the served snapshot.
func (s *Server) Report(_ context.Context, r Report) error {
	s.mu.Lock()
	s.latest = &r
	s.mu.Unlock()
	return nil
}

// ListenAndServe blocks serving requests until Close is called.
func (s *Server) ListenAndServe() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
