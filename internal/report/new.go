package report

import (
	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
)

type implWriter struct {
	dir    string
	logger logger.Logger
}

// New creates a Writer that saves .docx reports under cfg.Dir.
func New(cfg config.ReportConfig, log logger.Logger) Writer {
	return &implWriter{
		dir:    cfg.Dir,
		logger: log,
	}
}
