package webhook

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Aleqsd/github-codex-bot/internal/relay"
	pkgLog "github.com/Aleqsd/github-codex-bot/pkg/log"
)

// Handler serves the GitHub webhook endpoint.
type Handler interface {
	HandleGitHubWebhook(c *gin.Context)
}

type handler struct {
	relayUC    relay.UseCase
	security   *SecurityValidator
	classifier Classifier
	l          pkgLog.Logger
	now        func() time.Time
}

func NewHandler(
	relayUC relay.UseCase,
	cfg Config,
	l pkgLog.Logger,
) Handler {
	return &handler{
		relayUC:    relayUC,
		security:   NewSecurityValidator(cfg.Security),
		classifier: NewClassifier(cfg.Scope),
		l:          l,
		now:        time.Now,
	}
}
