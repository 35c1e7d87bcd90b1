package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrMissingRequired is wrapped once per required key that is absent.
	ErrMissingRequired = errors.New("missing required configuration")
	// ErrInvalidValue is wrapped when a key is present but unusable.
	ErrInvalidValue = errors.New("invalid configuration value")
)

// Config holds all service configuration.
type Config struct {
	// Environment
	Environment EnvironmentConfig

	// Server
	HTTPServer HTTPServerConfig
	Logger     LoggerConfig

	// Relay specifics
	GitHub  GitHubConfig
	Webhook WebhookConfig
	Dedup   DedupConfig
	Sink    SinkConfig

	// Optional fan-out
	NATS     NATSConfig
	Telegram TelegramConfig

	// Local development
	Tunnel TunnelConfig
}

type EnvironmentConfig struct {
	Name string
}

type HTTPServerConfig struct {
	Host           string
	Port           int
	Mode           string
	RequestTimeout time.Duration
	TrustedProxies []string
}

type LoggerConfig struct {
	Level        string
	Mode         string
	Encoding     string
	ColorEnabled bool
}

type GitHubConfig struct {
	WatchUser     string
	Repo          string
	WebhookSecret string
	WebhookPath   string
}

type WebhookConfig struct {
	AllowedIPs      []string
	RateLimitPerMin int
}

type DedupConfig struct {
	StatePath string        // Journal file; empty keeps keys in memory only
	TTL       time.Duration // 0 keeps keys forever
	MaxKeys   int           // 0 means unbounded
}

type SinkConfig struct {
	PromptLogPath string
	RecordDir     string
}

type NATSConfig struct {
	URL     string
	Subject string
}

type TelegramConfig struct {
	BotToken    string
	ChatID      int64
	HTTPTimeout time.Duration
}

type TunnelConfig struct {
	NgrokAPIURL string // ngrok local API, e.g. http://127.0.0.1:4040
}

// Options controls where configuration is read from.
type Options struct {
	ConfigFile string   // Explicit config file; empty searches the default locations
	EnvFiles   []string // .env files loaded before reading the environment
}

// envBindings maps config keys to the environment variables that set them.
var envBindings = map[string]string{
	"environment.name":            "ENVIRONMENT",
	"http_server.host":            "HOST",
	"http_server.port":            "PORT",
	"http_server.mode":            "GIN_MODE",
	"http_server.request_timeout": "HTTP_REQUEST_TIMEOUT",
	"http_server.trusted_proxies": "TRUSTED_PROXIES",
	"logger.level":                "LOG_LEVEL",
	"logger.mode":                 "LOG_MODE",
	"logger.encoding":             "LOG_ENCODING",
	"logger.color_enabled":        "LOG_COLOR_ENABLED",
	"github.watch_user":           "WATCH_USER",
	"github.repo":                 "REPO",
	"github.webhook_secret":       "GITHUB_WEBHOOK_SECRET",
	"github.webhook_path":         "WEBHOOK_PATH",
	"webhook.allowed_ips":         "WEBHOOK_ALLOWED_IPS",
	"webhook.rate_limit_per_min":  "WEBHOOK_RATE_LIMIT_PER_MIN",
	"dedup.state_path":            "DEDUP_STATE_PATH",
	"dedup.ttl":                   "DEDUP_TTL",
	"dedup.max_keys":              "DEDUP_MAX_KEYS",
	"sink.prompt_log_path":        "PROMPT_LOG_PATH",
	"sink.record_dir":             "PROMPT_RECORD_DIR",
	"nats.url":                    "NATS_URL",
	"nats.subject":                "NATS_SUBJECT",
	"telegram.bot_token":          "TELEGRAM_BOT_TOKEN",
	"telegram.chat_id":            "TELEGRAM_CHAT_ID",
	"telegram.http_timeout":       "HTTP_TIMEOUT",
	"tunnel.ngrok_api_url":        "NGROK_API_URL",
}

// Load loads configuration using Viper.
// Config file name: config.yaml, searched in ./config, . and /etc/github-codex-bot/ unless opts.ConfigFile is set.
// Environment variables always win over the file.
func Load(opts Options) (*Config, error) {
	LoadDotenv(opts.EnvFiles...)

	v := viper.New()
	v.SetConfigType("yaml")
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/github-codex-bot/")
	}

	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.ConfigFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := &Config{}
	var errs []error

	// Environment & Server
	cfg.Environment.Name = v.GetString("environment.name")
	cfg.HTTPServer.Host = v.GetString("http_server.host")
	cfg.HTTPServer.Mode = v.GetString("http_server.mode")
	cfg.HTTPServer.TrustedProxies = splitList(v.GetString("http_server.trusted_proxies"))
	cfg.Logger.Level = v.GetString("logger.level")
	cfg.Logger.Mode = v.GetString("logger.mode")
	cfg.Logger.Encoding = v.GetString("logger.encoding")
	cfg.Logger.ColorEnabled = v.GetBool("logger.color_enabled")

	port, err := parsePort(v.GetString("http_server.port"))
	if err != nil {
		errs = append(errs, err)
	}
	cfg.HTTPServer.Port = port

	// GitHub
	cfg.GitHub.WatchUser = strings.TrimSpace(v.GetString("github.watch_user"))
	cfg.GitHub.Repo = strings.TrimSpace(v.GetString("github.repo"))
	cfg.GitHub.WebhookSecret = v.GetString("github.webhook_secret")
	cfg.GitHub.WebhookPath = v.GetString("github.webhook_path")

	// Webhook hardening
	cfg.Webhook.AllowedIPs = splitList(v.GetString("webhook.allowed_ips"))
	cfg.Webhook.RateLimitPerMin = v.GetInt("webhook.rate_limit_per_min")

	// Dedup
	cfg.Dedup.StatePath = v.GetString("dedup.state_path")
	cfg.Dedup.MaxKeys = v.GetInt("dedup.max_keys")

	// Sink
	cfg.Sink.PromptLogPath = v.GetString("sink.prompt_log_path")
	cfg.Sink.RecordDir = v.GetString("sink.record_dir")

	cfg.Tunnel.NgrokAPIURL = v.GetString("tunnel.ngrok_api_url")

	// Optional fan-out
	cfg.NATS.URL = v.GetString("nats.url")
	cfg.NATS.Subject = v.GetString("nats.subject")
	cfg.Telegram.BotToken = v.GetString("telegram.bot_token")
	if raw := strings.TrimSpace(v.GetString("telegram.chat_id")); raw != "" {
		chatID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: TELEGRAM_CHAT_ID=%q", ErrInvalidValue, raw))
		}
		cfg.Telegram.ChatID = chatID
	}

	for _, d := range []struct {
		key string
		dst *time.Duration
	}{
		{"http_server.request_timeout", &cfg.HTTPServer.RequestTimeout},
		{"dedup.ttl", &cfg.Dedup.TTL},
		{"telegram.http_timeout", &cfg.Telegram.HTTPTimeout},
	} {
		dur, err := parseDuration(v.GetString(d.key))
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrInvalidValue, envBindings[d.key], err))
			continue
		}
		*d.dst = dur
	}

	if err := errors.Join(append(errs, cfg.Validate())...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports every missing or unusable setting at once.
func (c *Config) Validate() error {
	var errs []error

	if c.HTTPServer.Port == 0 {
		errs = append(errs, fmt.Errorf("%w: PORT", ErrMissingRequired))
	}
	if c.GitHub.WatchUser == "" {
		errs = append(errs, fmt.Errorf("%w: WATCH_USER", ErrMissingRequired))
	}
	if c.GitHub.Repo == "" {
		errs = append(errs, fmt.Errorf("%w: REPO", ErrMissingRequired))
	} else if owner, name, ok := strings.Cut(c.GitHub.Repo, "/"); !ok || owner == "" || name == "" || strings.Contains(name, "/") {
		errs = append(errs, fmt.Errorf("%w: REPO=%q, expected owner/name", ErrInvalidValue, c.GitHub.Repo))
	}
	if c.GitHub.WebhookSecret == "" {
		errs = append(errs, fmt.Errorf("%w: GITHUB_WEBHOOK_SECRET", ErrMissingRequired))
	}
	if c.GitHub.WebhookPath == "" || !strings.HasPrefix(c.GitHub.WebhookPath, "/") {
		errs = append(errs, fmt.Errorf("%w: WEBHOOK_PATH=%q, must start with /", ErrInvalidValue, c.GitHub.WebhookPath))
	}
	if c.Sink.PromptLogPath == "" {
		errs = append(errs, fmt.Errorf("%w: PROMPT_LOG_PATH", ErrMissingRequired))
	}
	if c.Webhook.RateLimitPerMin < 0 {
		errs = append(errs, fmt.Errorf("%w: WEBHOOK_RATE_LIMIT_PER_MIN must not be negative", ErrInvalidValue))
	}
	if c.Dedup.MaxKeys < 0 {
		errs = append(errs, fmt.Errorf("%w: DEDUP_MAX_KEYS must not be negative", ErrInvalidValue))
	}
	if c.Telegram.BotToken != "" && c.Telegram.ChatID == 0 {
		errs = append(errs, fmt.Errorf("%w: TELEGRAM_CHAT_ID (required with TELEGRAM_BOT_TOKEN)", ErrMissingRequired))
	}

	return errors.Join(errs...)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment.name", "development")
	v.SetDefault("http_server.host", "127.0.0.1")
	v.SetDefault("http_server.mode", "release")
	v.SetDefault("http_server.request_timeout", "30s")
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.mode", "production")
	v.SetDefault("logger.encoding", "console")
	v.SetDefault("logger.color_enabled", false)
	v.SetDefault("github.webhook_path", "/github-webhook-codex")
	v.SetDefault("webhook.rate_limit_per_min", 0)
	v.SetDefault("dedup.ttl", "0s")
	v.SetDefault("dedup.max_keys", 0)
	v.SetDefault("sink.prompt_log_path", "codex_prompts.log")
	v.SetDefault("sink.record_dir", "prompts")
	v.SetDefault("nats.subject", "codex.prompt.synthesized")
	v.SetDefault("telegram.http_timeout", "10s")
}

func parsePort(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil // reported by Validate
	}
	port, err := strconv.Atoi(raw)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("%w: PORT=%q", ErrInvalidValue, raw)
	}
	return port, nil
}

func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("negative duration %s", raw)
	}
	return d, nil
}

// splitList splits a comma separated value since viper does not parse lists from env.
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
