package mockserver

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/chatroutes/chatroutes-go/logger"
)

// BasePath is the API prefix the routes are mounted under.
const BasePath = "/api/v1"

// Server is an in-memory ChatRoutes API served by gin.
type Server struct {
	engine     *gin.Engine
	httpServer *http.Server
	listener   net.Listener
	config     Config
	log        *logger.Logger
}

// Option configures a Server.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock sets the clock used for resource timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New creates a Server. Routes are registered but nothing is bound until Start.
func New(cfg Config, log *logger.Logger, opts ...Option) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	if log.Zerolog().GetLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	log = log.WithComponent("mockserver")
	engine := gin.New()
	engine.Use(recovery(log), requestID(), requestLogger(log))
	engine.NoRoute(noRoute)

	h := &handlers{store: newStore(o.now), config: cfg, log: log}
	h.register(engine.Group(BasePath, apiKeyAuth(cfg.APIKey)))

	return &Server{
		engine: engine,
		httpServer: &http.Server{
			Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		config: cfg,
		log:    log,
	}, nil
}

// Handler returns the gin engine, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("mockserver failed to bind %s: %w", s.httpServer.Addr, err)
	}
	s.listener = listener

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("Server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("Mock server started", logger.Fields("addr", s.Addr()))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("mockserver shutdown error: %w", err)
	}
	s.log.Info("Mock server shut down")
	return nil
}

// Addr returns the bound address after Start, the configured one before.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// URL returns the API base URL clients should use.
func (s *Server) URL() string {
	return "http://" + s.Addr() + BasePath
}
