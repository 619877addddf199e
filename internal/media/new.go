package media

import (
	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
	"github.com/nguyentantai21042004/title-flow/pkg/executor"
)

type implExtractor struct {
	cfg      config.FFmpegConfig
	cutCfg   config.TranscriptionConfig
	executor executor.Executor
	logger   logger.Logger
}

// New creates a new Extractor instance
func New(cfg config.FFmpegConfig, cutCfg config.TranscriptionConfig, exec executor.Executor, log logger.Logger) Extractor {
	return &implExtractor{
		cfg:      cfg,
		cutCfg:   cutCfg,
		executor: exec,
		logger:   log,
	}
}
