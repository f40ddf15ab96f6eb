// Package http serves the quote manager over REST with gin.
package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quote-manager/internal/platform/config"
)

// Server owns the listener and the gin engine behind it.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
}

// New builds the engine with the routes from router. Request bodies are
// capped at cfg.MaxRequestSize; a non-positive size leaves them unbounded.
func New(cfg *config.ServerConfig, router RouterConfig, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	if cfg.MaxRequestSize > 0 {
		engine.Use(limitBody(cfg.MaxRequestSize))
	}

	SetupRouter(engine, router)

	return &Server{
		engine: engine,
		logger: logger,
		srv: &http.Server{
			Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
			Handler:      engine,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
	}
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr is the configured address until Start binds, then the bound one.
// With port 0 that is where the kernel-chosen port shows up.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listener != nil {
		return s.listener.Addr().String()
	}

	return s.srv.Addr
}

// Start binds synchronously and serves in the background. A bind or serve
// failure is delivered on the returned channel, which is closed once the
// server has stopped.
func (s *Server) Start() <-chan error {
	errCh := make(chan error, 1)

	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		errCh <- fmt.Errorf("listening on %s: %w", s.srv.Addr, err)
		close(errCh)

		return errCh
	}

	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.logger.Info("http server listening",
		slog.String("addr", ln.Addr().String()),
		slog.Duration("read_timeout", s.srv.ReadTimeout),
		slog.Duration("write_timeout", s.srv.WriteTimeout),
	)

	go func() {
		defer close(errCh)

		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("serving http: %w", err)
		}
	}()

	return errCh
}

// Shutdown stops accepting connections and drains in-flight requests until
// ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("http server draining")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}

	s.logger.Info("http server stopped")

	return nil
}

func limitBody(n int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, n)
		c.Next()
	}
}
