package httpapi

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/onlygrow/identity/internal/identity"
	"github.com/onlygrow/identity/internal/logger"
	"github.com/onlygrow/identity/internal/observability"
	"github.com/onlygrow/identity/internal/token"
)

// Server is the HTTP front of the identity service.
type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	log        *logger.Logger
}

// New builds the server: middleware stack, routes, and an h2c-wrapped
// http.Server ready to Start.
func New(cfg Config, svc *identity.Service, issuer *token.Issuer, metrics *observability.Metrics, log *logger.Logger) (*Server, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := registerValidations(); err != nil {
		return nil, err
	}

	if zerolog.GlobalLevel() <= zerolog.DebugLevel {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	serverLog := log.WithComponent("httpapi")
	engine := gin.New()
	engine.Use(Recovery(serverLog))
	engine.Use(RequestID())
	engine.Use(Telemetry(metrics))
	engine.Use(RequestLogger(serverLog))

	h := &handlers{svc: svc}
	engine.GET("/health", h.health)

	api := engine.Group("/api")
	{
		api.POST("/register", h.register)
		api.POST("/login", h.login)
		api.POST("/google", h.googleLogin)
		api.POST("/token/refresh", h.refresh)
		api.POST("/logout", h.logout)
		api.GET("/email/verify", h.verifyEmail)
		api.POST("/password/reset", h.requestReset)
		api.POST("/password/reset/confirm", h.confirmReset)

		authed := api.Group("", BearerAuth(issuer))
		authed.GET("/me", h.profile)
	}

	h2s := &http2.Server{
		MaxConcurrentStreams: 250,
		IdleTimeout:          120 * time.Second,
	}
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      h2c.NewHandler(engine, h2s),
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.IdleTimeout) * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		engine:     engine,
		log:        serverLog,
	}, nil
}

// Engine returns the Gin engine, for handler-level tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start binds the port and begins serving. It returns once the listener is
// bound; serving continues in a goroutine.
func (s *Server) Start(_ context.Context) error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("httpapi: bind %s: %w", s.httpServer.Addr, err)
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", logger.Fields(logger.FieldError, err.Error()))
		}
	}()

	s.log.Info("HTTP server started", logger.Fields("addr", s.httpServer.Addr))
	return nil
}

// Stop gracefully shuts down the server with a 5-second deadline.
func (s *Server) Stop(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi: shutdown: %w", err)
	}
	s.log.Info("HTTP server shut down")
	return nil
}
