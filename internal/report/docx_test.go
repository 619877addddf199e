package report

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
)

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()
	w := New(config.ReportConfig{Enabled: true, Dir: dir}, logger.New("error", "json"))

	path, err := w.Write(context.Background(), Report{
		JobID:         "job-1",
		VideoFilename: "espresso_talk.mp4",
		Platform:      "youtube",
		Titles: []titles.GeneratedTitle{
			{Title: "The Truth About Espresso", Style: "curiosity", Reasoning: "creates a gap"},
			{Title: "How To Pull a Perfect Shot", Style: "how_to", Reasoning: "searchable"},
		},
		Keywords: []string{"latte art", "crema"},
		Transcript: transcribe.MergedTranscript{
			Text:       "Today we talk about espresso.",
			WordCount:  5,
			Language:   "en",
			ChunkCount: 1,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "espresso_talk_titles.docx"), path)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteReportCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports", "out")
	w := New(config.ReportConfig{Enabled: true, Dir: dir}, logger.New("error", "json"))

	path, err := w.Write(context.Background(), Report{
		VideoFilename: "a.mkv",
		Platform:      "general",
		Transcript:    transcribe.MergedTranscript{Text: "hello"},
	})
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
