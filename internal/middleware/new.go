package middleware

import (
	"github.com/Aleqsd/github-codex-bot/pkg/log"
)

// Middleware holds the shared dependencies of the HTTP middlewares.
type Middleware struct {
	l log.Logger
}

func New(l log.Logger) Middleware {
	return Middleware{
		l: l,
	}
}
