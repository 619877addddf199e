package job

import (
	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
	"github.com/nguyentantai21042004/title-flow/internal/media"
	"github.com/nguyentantai21042004/title-flow/internal/report"
	"github.com/nguyentantai21042004/title-flow/internal/store"
	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/trends"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

type implOrchestrator struct {
	cfg         *config.Config
	extractor   media.Extractor
	transcriber transcribe.Transcriber
	trends      trends.Aggregator
	generator   titles.Generator
	store       store.Store
	reporter    report.Writer
	logger      logger.Logger
}

// New creates an Orchestrator. reporter may be nil when report output is
// disabled.
func New(
	cfg *config.Config,
	extractor media.Extractor,
	transcriber transcribe.Transcriber,
	aggregator trends.Aggregator,
	generator titles.Generator,
	st store.Store,
	reporter report.Writer,
	log logger.Logger,
) Orchestrator {
	return &implOrchestrator{
		cfg:         cfg,
		extractor:   extractor,
		transcriber: transcriber,
		trends:      aggregator,
		generator:   generator,
		store:       st,
		reporter:    reporter,
		logger:      log,
	}
}
