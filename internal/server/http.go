package server

import (
	"context"
	"time"

	"skillscan/internal/ai"
	"skillscan/internal/config"
	appErrors "skillscan/internal/errors"
	"skillscan/internal/observability"
	"skillscan/internal/quiz"
	"skillscan/internal/types"
)

// QuizRequest is the JSON body of POST /quiz
type QuizRequest struct {
	Name   string   `json:"name"`
	Skills []string `json:"skills"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

// ResumeParser turns a saved upload into a profile
type ResumeParser interface {
	Parse(ctx context.Context, path string) (types.Profile, error)
}

// QuizBuilder generates a quiz for a profile
type QuizBuilder interface {
	Build(ctx context.Context, profile types.Profile) (types.Quiz, error)
}

// ModelChecker reports the state of the question generation model
type ModelChecker interface {
	GetModelInfo(ctx context.Context) *ai.ModelInfo
	CircuitBreakerStats() map[string]any
}

// Server holds configuration for the HTTP server
type Server struct {
	Host    string
	Port    string
	Version string

	// Directory uploads are written to before parsing
	UploadDir   string
	MaxFileSize int64

	// API Authentication
	APIKeys map[string]bool

	// Timeout configurations
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// Request size limit
	MaxRequestSize int64

	// Rate limiting
	RateLimit   *config.RateLimitConfig
	RateLimiter *RateLimiter

	Parser ResumeParser
	// Quizzes and AI are nil when no AI key is configured
	Quizzes       QuizBuilder
	AI            ModelChecker
	Store         *quiz.Store
	Observability *observability.Manager

	Logger *appErrors.Logger
}

// ServerConfig holds configuration for creating a Server instance
type ServerConfig struct {
	Host           string
	Port           string
	Version        string
	UploadDir      string
	MaxFileSize    int64
	APIKeys        []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	MaxRequestSize int64
	RateLimit      *config.RateLimitConfig
}

// Dependencies are the domain services the handlers call
type Dependencies struct {
	Parser        ResumeParser
	Quizzes       QuizBuilder
	AI            ModelChecker
	Store         *quiz.Store
	Observability *observability.Manager
}

// ConfigFromApp builds a ServerConfig from the application configuration
func ConfigFromApp(cfg *config.Config, version string) ServerConfig {
	return ServerConfig{
		Host:           cfg.Server.Host,
		Port:           cfg.Server.Port,
		Version:        version,
		UploadDir:      cfg.Server.UploadDir,
		MaxFileSize:    cfg.App.MaxFileSize,
		APIKeys:        cfg.Server.APIKeys,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxRequestSize: cfg.App.MaxFileSize + multipartOverhead,
		RateLimit:      &cfg.Server.RateLimit,
	}
}

// multipartOverhead leaves room for multipart headers around a maximum size
// upload
const multipartOverhead = 1 << 20

// NewServer creates a new Server instance
func NewServer(cfg ServerConfig, deps Dependencies, logger *appErrors.Logger) *Server {
	apiKeyMap := make(map[string]bool)
	for _, key := range cfg.APIKeys {
		if key != "" {
			apiKeyMap[key] = true
		}
	}

	var rateLimiter *RateLimiter
	if cfg.RateLimit != nil && cfg.RateLimit.Enabled {
		rateLimiter = NewRateLimiter(
			cfg.RateLimit.RequestsPerMin,
			cfg.RateLimit.Window,
			cfg.RateLimit.BurstCapacity,
			logger,
		)
	}

	uploadDir := cfg.UploadDir
	if uploadDir == "" {
		uploadDir = "uploads"
	}

	return &Server{
		Host:           cfg.Host,
		Port:           cfg.Port,
		Version:        cfg.Version,
		UploadDir:      uploadDir,
		MaxFileSize:    cfg.MaxFileSize,
		APIKeys:        apiKeyMap,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxRequestSize: cfg.MaxRequestSize,
		RateLimit:      cfg.RateLimit,
		RateLimiter:    rateLimiter,
		Parser:         deps.Parser,
		Quizzes:        deps.Quizzes,
		AI:             deps.AI,
		Store:          deps.Store,
		Observability:  deps.Observability,
		Logger:         logger,
	}
}

func (s *Server) metrics() *observability.Metrics {
	return s.Observability.Metrics()
}
