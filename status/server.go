package status

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Server exposes the recorder over HTTP.
type Server struct {
	recorder *Recorder
	router   *gin.Engine
	server   *http.Server
}

func NewServer(addr string, recorder *Recorder) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(accessLogger())

	s := &Server{
		recorder: recorder,
		router:   router,
		server: &http.Server{
			Addr:         addr,
			Handler:      router.Handler(),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	s.setupRoutes()

	return s
}

// Start blocks until the server is shut down.
func (s *Server) Start() error {
	log.Info().Str("address", s.server.Addr).Msg("Starting status server")

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start status server: %w", err)
	}

	return nil
}

func (s *Server) Shutdown() {
	log.Info().Msg("Stopping status server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error stopping status server")
	}
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.HealthCheckHandler)
	s.router.GET("/status", s.StatusHandler)
}

func (s *Server) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "conni",
	})
}

func (s *Server) StatusHandler(c *gin.Context) {
	snapshot, ok := s.recorder.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "No check completed yet"})
		return
	}

	c.JSON(http.StatusOK, snapshot)
}

func accessLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logEvent := log.Debug()
		if c.Writer.Status() >= 500 {
			logEvent = log.Warn()
		}

		logEvent.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", c.Writer.Status()).
			Str("latency", time.Since(start).String()).
			Msg("Status request")
	}
}
