package titles

import (
	"sync"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
)

type implGenerator struct {
	apiKeys   []string
	model     string
	numTitles int
	logger    logger.Logger

	// guards currentKey: one Generator serves every concurrent job
	mu         sync.Mutex
	currentKey int
}

// New creates a Generator that rotates through the supplied Gemini API keys.
func New(cfg config.TitlesConfig, log logger.Logger) Generator {
	return &implGenerator{
		apiKeys:   cfg.APIKeys,
		model:     cfg.Model,
		numTitles: cfg.NumTitles,
		logger:    log,
	}
}
