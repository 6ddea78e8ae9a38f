package inspect

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/folio/core"
)

// ShutdownTimeout bounds graceful shutdown in Stop
const ShutdownTimeout = 2 * time.Second

// Service runs the inspector HTTP server
type Service struct {
	mu      sync.Mutex
	backend Backend
	addr    string
	server  *http.Server
	ln      net.Listener
	doneCh  chan struct{}
}

// NewService creates an inspector for backend
func NewService(backend Backend) *Service {
	return &Service{backend: backend}
}

// Name implements service.Service
func (s *Service) Name() string {
	return "inspect"
}

// Dependencies implements service.Service
func (s *Service) Dependencies() []string {
	return nil
}

// Init implements service.Service
// args[0]: string - listen address, e.g. 127.0.0.1:7878
func (s *Service) Init(args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(args) > 0 {
		if a, ok := args[0].(string); ok {
			s.addr = a
		}
	}
	if s.addr == "" {
		return fmt.Errorf("inspect init: no listen address")
	}
	gin.SetMode(gin.ReleaseMode)
	s.server = &http.Server{
		Handler:           NewRouter(s.backend),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return nil
}

// Start implements service.Service
func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return fmt.Errorf("inspect start: not initialized")
	}
	if s.ln != nil {
		return nil
	}
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("inspect start: %w", err)
	}
	s.ln = ln
	s.doneCh = make(chan struct{})

	srv, done := s.server, s.doneCh
	core.Go(func() {
		defer close(done)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("inspect: %v", err)
		}
	})
	log.Printf("inspect: listening on %s", ln.Addr())
	return nil
}

// Stop implements service.Service
func (s *Service) Stop() error {
	s.mu.Lock()
	srv, ln, done := s.server, s.ln, s.doneCh
	s.ln = nil
	s.mu.Unlock()

	if ln == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	err := srv.Shutdown(ctx)
	<-done
	return err
}

// Addr returns the bound address while running, else the configured one
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln != nil {
		return s.ln.Addr().String()
	}
	return s.addr
}
