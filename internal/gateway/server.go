// Package gateway is the browser-facing edge of the repair-shop API. It
// terminates the cookie session (login, refresh, logout), enforces the
// route guard table and reverse-proxies everything else to the backend.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/amanf244/mars4/internal/api"
	"github.com/amanf244/mars4/internal/config"
)

// Server represents the gateway HTTP server
type Server struct {
	router        *gin.Engine
	config        *config.Config
	logger        zerolog.Logger
	routes        *RouteTable
	proxy         *httputil.ReverseProxy
	api           *api.Client
	httpClient    *http.Client
	loginLimiter  *ipLimiter
	jwtSecret     []byte
	secureCookies bool
	upstreamBase  string
	version       string
}

// New creates a new gateway server instance
func New(cfg *config.Config, zlog zerolog.Logger, version string) (*Server, error) {
	upstream, err := url.Parse(cfg.Upstream.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream URL %q: %w", cfg.Upstream.URL, err)
	}

	routes := DefaultRouteTable()
	if cfg.Server.RouteTablePath != "" {
		routes, err = LoadRouteTable(cfg.Server.RouteTablePath)
		if err != nil {
			return nil, err
		}
		zlog.Info().
			Str("path", cfg.Server.RouteTablePath).
			Int("rules", len(routes.Routes)).
			Msg("Loaded route table")
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}

	server := &Server{
		config:        cfg,
		logger:        zlog,
		routes:        routes,
		api:           api.New(cfg.Upstream.URL, api.WithPrefix(cfg.Upstream.Prefix), api.WithHTTPClient(httpClient), api.WithLogger(zlog)),
		httpClient:    httpClient,
		loginLimiter:  newIPLimiter(),
		jwtSecret:     []byte(cfg.Auth.JWTSecret),
		secureCookies: cfg.Server.SecureCookies,
		upstreamBase:  cfg.Upstream.URL + cfg.Upstream.Prefix,
		version:       version,
	}
	server.proxy = server.newProxy(upstream, cfg.Upstream.Prefix)

	server.setupRouter()

	return server, nil
}

// setupRouter configures the Gin router with routes and middleware
func (s *Server) setupRouter() {
	gin.SetMode(gin.ReleaseMode)

	s.router = gin.New()

	s.router.Use(gin.Recovery())
	s.router.Use(requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())

	// CORS middleware. Credentials must be allowed for the session cookies.
	s.router.Use(cors.New(cors.Config{
		AllowOrigins:     s.config.Server.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Health check endpoint (no auth required)
	s.router.GET("/health", s.healthCheck)

	// Session endpoints handled by the gateway itself
	s.router.POST("/api/auth/login", s.login)
	s.router.POST("/api/auth/refresh", s.refresh)
	s.router.POST("/api/auth/logout", s.logout)

	// Everything else is guarded and proxied to the upstream. Registered
	// as the NoRoute handler so it cannot conflict with the static routes.
	s.router.NoRoute(s.guardProxy)
}

// requestIDMiddleware tags every request with a ULID, honoring one supplied
// by an upstream load balancer.
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = ulid.Make().String()
		}
		c.Set("request_id", id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware creates a custom logging middleware using zerolog
func (s *Server) loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start)

		s.logger.Info().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Str("request_id", c.GetString("request_id")).
			Msg("HTTP request")
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "online",
		"timestamp": time.Now().UTC(),
		"service":   "mars4-gateway",
		"version":   s.version,
	})
}

// Router exposes the underlying handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until shutdown
func (s *Server) Start() error {
	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	srv := &http.Server{
		Addr:              s.config.Server.Addr,
		Handler:           s.router,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      60 * time.Second,
		ReadHeaderTimeout: 30 * time.Second,
		IdleTimeout:       300 * time.Second,
	}

	go func() {
		s.logger.Info().
			Str("addr", s.config.Server.Addr).
			Str("upstream", s.config.Upstream.URL).
			Msg("Starting gateway")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error().Err(err).Msg("HTTP server error")
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	s.logger.Info().Msg("Received shutdown signal, shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error().Err(err).Msg("Error shutting down HTTP server")
		return err
	}

	s.logger.Info().Msg("Gateway shutdown complete")
	return nil
}
