package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Aleqsd/github-codex-bot/config"
	_ "github.com/Aleqsd/github-codex-bot/docs" // Swagger docs
	"github.com/Aleqsd/github-codex-bot/internal/dedup"
	"github.com/Aleqsd/github-codex-bot/internal/httpserver"
	"github.com/Aleqsd/github-codex-bot/internal/prompt"
	"github.com/Aleqsd/github-codex-bot/internal/relay"
	"github.com/Aleqsd/github-codex-bot/internal/sink"
	"github.com/Aleqsd/github-codex-bot/internal/webhook"
	"github.com/Aleqsd/github-codex-bot/pkg/log"
	"github.com/Aleqsd/github-codex-bot/pkg/natsbus"
	"github.com/Aleqsd/github-codex-bot/pkg/telegram"
)

// @title       GitHub Codex Bot API
// @description Relays issue and comment webhooks from the watched GitHub user into structured Codex prompts.
// @version     1
// @host        localhost:8085
// @schemes     http
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "github-codex-bot:", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		configFile string
		envFiles   []string
	)

	flagSet := pflag.NewFlagSet("github-codex-bot", pflag.ContinueOnError)
	flagSet.StringVar(&configFile, "config", "", "path to config.yaml (default: search ./config, . and /etc/github-codex-bot)")
	flagSet.StringSliceVar(&envFiles, "env-file", nil, ".env files to load before reading the environment")
	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}

	// 1. Configuration
	cfg, err := config.Load(config.Options{ConfigFile: configFile, EnvFiles: envFiles})
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Logger
	logger := log.Init(log.ZapConfig{
		Level:        cfg.Logger.Level,
		Mode:         cfg.Logger.Mode,
		Encoding:     cfg.Logger.Encoding,
		ColorEnabled: cfg.Logger.ColorEnabled,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting GitHub Codex Bot...")
	logger.Infof(ctx, "Environment: %s", cfg.Environment.Name)
	logger.Infof(ctx, "Watching %s for events from %s", cfg.GitHub.Repo, cfg.GitHub.WatchUser)

	// 3. Dedup store
	store, err := dedup.New(ctx, logger, dedup.Options{
		TTL:         cfg.Dedup.TTL,
		MaxKeys:     cfg.Dedup.MaxKeys,
		JournalPath: cfg.Dedup.StatePath,
	})
	if err != nil {
		return fmt.Errorf("failed to open dedup store: %w", err)
	}
	defer store.Close()

	// 4. Sinks
	fileSink, err := sink.NewFileSink(cfg.Sink.PromptLogPath, cfg.Sink.RecordDir)
	if err != nil {
		return fmt.Errorf("failed to open prompt sink: %w", err)
	}
	writers := []sink.Writer{fileSink}
	logger.Infof(ctx, "Prompts appended to %s, records in %s", cfg.Sink.PromptLogPath, cfg.Sink.RecordDir)

	if cfg.NATS.URL != "" {
		bus, err := natsbus.Connect(cfg.NATS.URL, "github-codex-bot")
		if err != nil {
			logger.Warnf(ctx, "NATS not available (optional): %v", err)
		} else {
			defer bus.Close()
			writers = append(writers, sink.NewNATSSink(bus, cfg.NATS.Subject))
			logger.Infof(ctx, "✅ NATS sink publishing to %s", cfg.NATS.Subject)
		}
	}

	if cfg.Telegram.BotToken != "" {
		bot := telegram.NewBot(cfg.Telegram.BotToken, cfg.Telegram.HTTPTimeout)
		writers = append(writers, sink.NewTelegramSink(bot, cfg.Telegram.ChatID))
		logger.Info(ctx, "✅ Telegram notifications enabled")
	}

	// 5. Relay + webhook
	relayUC := relay.New(store, prompt.New(), sink.NewMulti(writers...), logger)
	webhookHandler := webhook.NewHandler(relayUC, webhook.Config{
		Security: webhook.SecurityConfig{
			Secret:          cfg.GitHub.WebhookSecret,
			AllowedIPs:      cfg.Webhook.AllowedIPs,
			RateLimitPerMin: cfg.Webhook.RateLimitPerMin,
		},
		Scope: webhook.ScopeConfig{
			WatchUser: cfg.GitHub.WatchUser,
			Repo:      cfg.GitHub.Repo,
		},
	}, logger)

	// 6. HTTP Server
	httpServer, err := httpserver.New(logger, httpserver.Config{
		Logger:         logger,
		Host:           cfg.HTTPServer.Host,
		Port:           cfg.HTTPServer.Port,
		Mode:           cfg.HTTPServer.Mode,
		Environment:    cfg.Environment.Name,
		RequestTimeout: cfg.HTTPServer.RequestTimeout,
		TrustedProxies: cfg.HTTPServer.TrustedProxies,
		Dedup:          store,
		WebhookPath:    cfg.GitHub.WebhookPath,
		WebhookHandler: webhookHandler,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize HTTP server: %w", err)
	}

	if cfg.Tunnel.NgrokAPIURL != "" {
		go func() {
			publicURL, err := newTunnelProbe().detectPublicURL(ctx, cfg.Tunnel.NgrokAPIURL)
			if err != nil {
				logger.Warnf(ctx, "Could not detect ngrok URL: %v", err)
				return
			}
			logger.Infof(ctx, "GitHub webhook payload URL: %s%s", publicURL, cfg.GitHub.WebhookPath)
		}()
	}

	// 7. Run
	if err := httpServer.Run(ctx); err != nil {
		logger.Errorf(ctx, "Failed to run server: %v", err)
		return err
	}

	logger.Info(ctx, "Server stopped gracefully")
	return nil
}
