package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/nohumanman/desc-comp-toolkit/internal/services/session"
)

// Config holds configuration for the TCP game server.
type Config struct {
	Host            string
	Port            int
	AuthGrace       time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns sensible defaults for server configuration.
func DefaultConfig() Config {
	return Config{
		Host:            "",
		Port:            65433,
		AuthGrace:       session.DefaultAuthGrace,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Server accepts game client connections and runs one session per
// connection.
type Server struct {
	config Config
	deps   session.Deps
	logger *slog.Logger

	mu       sync.Mutex
	listener net.Listener
	closed   bool

	wg sync.WaitGroup
}

// New creates a TCP server. The session deps are shared across all
// accepted connections; the server installs its own registry reference
// and auth grace into each session.
func New(config Config, deps session.Deps, logger *slog.Logger) *Server {
	deps.AuthGrace = config.AuthGrace
	return &Server{
		config: config,
		deps:   deps,
		logger: logger,
	}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
}

// Start listens and serves until Shutdown is called. It blocks.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.Addr())
	if err != nil {
		return fmt.Errorf("listen error: %w", err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("starting game server", slog.String("addr", listener.Addr().String()))
	return s.Serve(ctx, listener)
}

// Serve runs the accept loop on an existing listener. Exposed so tests
// can serve on an ephemeral port.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()

	for {
		conn, err := listener.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			return fmt.Errorf("accept error: %w", err)
		}
		s.wg.Add(1)
		go s.handle(ctx, conn)
	}
}

func (s *Server) handle(ctx context.Context, conn net.Conn) {
	defer s.wg.Done()

	sess := session.New(conn, s.deps)
	s.deps.Registry.Add(sess)
	s.logger.Info("client connected",
		slog.String("remote", conn.RemoteAddr().String()),
		slog.String("session_id", sess.ID()),
		slog.Int("sessions", s.deps.Registry.Count()),
	)
	sess.Run(ctx)
}

// Shutdown stops accepting connections, closes live sessions, and
// waits for their goroutines to unwind.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down game server")

	s.mu.Lock()
	s.closed = true
	listener := s.listener
	s.mu.Unlock()
	if listener != nil {
		listener.Close()
	}

	for _, sess := range s.deps.Registry.Snapshot() {
		sess.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()
	select {
	case <-done:
		s.logger.Info("game server stopped")
		return nil
	case <-shutdownCtx.Done():
		return fmt.Errorf("shutdown error: %w", shutdownCtx.Err())
	}
}
