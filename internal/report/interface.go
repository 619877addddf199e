package report

import (
	"context"

	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

// Report holds everything a finished job produced.
type Report struct {
	JobID         string
	VideoFilename string
	Platform      string
	Titles        []titles.GeneratedTitle
	Keywords      []string
	Transcript    transcribe.MergedTranscript
}

// Writer renders a job report to a document on disk.
type Writer interface {
	// Write renders the report and returns the path of the written file.
	Write(ctx context.Context, rep Report) (string, error)
}
