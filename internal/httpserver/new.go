package httpserver

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aleqsd/github-codex-bot/internal/middleware"
	"github.com/Aleqsd/github-codex-bot/internal/webhook"
	"github.com/Aleqsd/github-codex-bot/pkg/log"
)

const (
	defaultRequestTimeout  = 30 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	// Server
	gin            *gin.Engine
	l              log.Logger
	host           string
	port           int
	mode           string
	environment    string
	requestTimeout time.Duration
	middleware     middleware.Middleware
	startedAt      time.Time
	dedup          DedupCounter

	// GitHub webhook
	webhookPath    string
	webhookHandler webhook.Handler
}

// DedupCounter exposes the size of the delivery dedup store for readiness reporting.
type DedupCounter interface {
	Len() int
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger         log.Logger
	Host           string
	Port           int
	Mode           string
	Environment    string
	RequestTimeout time.Duration
	TrustedProxies []string // Peers whose X-Forwarded-For is believed; empty trusts none
	Dedup          DedupCounter

	// GitHub webhook
	WebhookPath    string
	WebhookHandler webhook.Handler
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}

	srv := &HTTPServer{
		l:              logger,
		gin:            gin.New(),
		host:           cfg.Host,
		port:           cfg.Port,
		mode:           cfg.Mode,
		environment:    cfg.Environment,
		requestTimeout: timeout,
		middleware:     middleware.New(logger),
		startedAt:      time.Now(),
		dedup:          cfg.Dedup,
		webhookPath:    cfg.WebhookPath,
		webhookHandler: cfg.WebhookHandler,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	if err := srv.gin.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	if err := srv.mapHandlers(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.webhookHandler == nil {
		return errors.New("webhook handler is required")
	}
	if srv.webhookPath == "" {
		return errors.New("webhook path is required")
	}
	return nil
}
