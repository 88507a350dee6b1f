package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the gateway
type Config struct {
	// Upstream backend API
	Upstream UpstreamConfig

	// HTTP server configuration
	Server ServerConfig

	// Authentication configuration
	Auth AuthConfig

	// Logging Configuration
	Logging LoggingConfig
}

// UpstreamConfig holds the upstream backend location
type UpstreamConfig struct {
	URL    string // Base URL of the repair-shop backend, e.g. http://localhost:5084
	Prefix string // API version prefix, e.g. /api/v1
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Addr           string   // Listen address (host:port)
	AllowedOrigins []string // CORS origins for the browser frontend
	SecureCookies  bool     // Set Secure on session cookies (production)
	RouteTablePath string   // Optional YAML route table, empty = built-in defaults
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// Shared HS256 secret for local token validation. Empty means the
	// gateway parses claims unverified and the upstream stays authoritative.
	JWTSecret string
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // json, console
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env files (fails silently if files don't exist)
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	upstreamURL := os.Getenv("UPSTREAM_URL")
	if upstreamURL == "" {
		upstreamURL = "http://localhost:5084"
	}

	upstreamPrefix := os.Getenv("UPSTREAM_PREFIX")
	if upstreamPrefix == "" {
		upstreamPrefix = "/api/v1"
	}

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	origins := []string{"http://localhost:3000"}
	if raw := os.Getenv("ALLOWED_ORIGINS"); raw != "" {
		origins = origins[:0]
		for _, o := range strings.Split(raw, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
	}

	// Logging configuration - defaults suitable for production
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	logFormat := os.Getenv("LOG_FORMAT")
	if logFormat == "" {
		logFormat = "json"
	}

	return &Config{
		Upstream: UpstreamConfig{
			URL:    upstreamURL,
			Prefix: upstreamPrefix,
		},
		Server: ServerConfig{
			Addr:           addr,
			AllowedOrigins: origins,
			SecureCookies:  os.Getenv("ENV") == "production",
			RouteTablePath: os.Getenv("ROUTE_TABLE"),
		},
		Auth: AuthConfig{
			JWTSecret: os.Getenv("JWT_SECRET"),
		},
		Logging: LoggingConfig{
			Level:  logLevel,
			Format: logFormat,
		},
	}, nil
}
