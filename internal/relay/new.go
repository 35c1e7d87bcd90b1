package relay

import (
	"github.com/Aleqsd/github-codex-bot/internal/dedup"
	"github.com/Aleqsd/github-codex-bot/internal/prompt"
	"github.com/Aleqsd/github-codex-bot/internal/sink"
	pkgLog "github.com/Aleqsd/github-codex-bot/pkg/log"
)

type usecase struct {
	store       dedup.Store
	synthesizer prompt.Synthesizer
	sink        sink.Writer
	l           pkgLog.Logger
}

func New(
	store dedup.Store,
	synthesizer prompt.Synthesizer,
	sink sink.Writer,
	l pkgLog.Logger,
) UseCase {
	return &usecase{
		store:       store,
		synthesizer: synthesizer,
		sink:        sink,
		l:           l,
	}
}
