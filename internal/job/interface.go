package job

import (
	"context"

	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

// Outcome is what a finished job produced. Status is always terminal.
type Outcome struct {
	JobID      string
	Status     Status
	Titles     []titles.GeneratedTitle
	Transcript transcribe.MergedTranscript
	Keywords   []string
	ReportPath string
}

// Orchestrator drives one video through the full pipeline:
// extract -> transcribe -> fetch trends -> generate titles.
type Orchestrator interface {
	Process(ctx context.Context, videoPath string) (Outcome, error)
}
