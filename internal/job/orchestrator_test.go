package job

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
	"github.com/nguyentantai21042004/title-flow/internal/media"
	"github.com/nguyentantai21042004/title-flow/internal/store"
	"github.com/nguyentantai21042004/title-flow/internal/titles"
	"github.com/nguyentantai21042004/title-flow/internal/transcribe"
	"github.com/nguyentantai21042004/title-flow/internal/trends"
)

type fakeStore struct {
	mu         sync.Mutex
	statuses   []string
	timedSteps []string
	completed  bool
	wordCount  int
	failed     bool
	failCode   string
	failMsg    string
}

func (f *fakeStore) CreateJob(ctx context.Context, record store.JobRecord) error { return nil }

func (f *fakeStore) UpdateStatus(ctx context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = append(f.statuses, status)
	return nil
}

func (f *fakeStore) RecordStepTiming(ctx context.Context, id, step string, elapsed time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.timedSteps = append(f.timedSteps, step)
	return nil
}

func (f *fakeStore) SetRetryCount(ctx context.Context, id string, count int) error { return nil }

func (f *fakeStore) MarkCompleted(ctx context.Context, id string, wordCount int, language string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completed = true
	f.wordCount = wordCount
	return nil
}

func (f *fakeStore) MarkFailed(ctx context.Context, id, code, message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failed = true
	f.failCode = code
	f.failMsg = message
	return nil
}

func (f *fakeStore) GetJob(ctx context.Context, id string) (store.JobRecord, error) {
	return store.JobRecord{}, nil
}

func (f *fakeStore) StepTimings(ctx context.Context, id string) ([]store.StepTiming, error) {
	return nil, nil
}

func (f *fakeStore) Close() error { return nil }

type fakeExtractor struct {
	err    error
	called bool
}

func (f *fakeExtractor) Extract(ctx context.Context, videoPath, outPath string) (media.AudioArtifact, error) {
	f.called = true
	if f.err != nil {
		return media.AudioArtifact{}, f.err
	}
	return media.AudioArtifact{Path: outPath, SizeBytes: 1 << 20, Duration: 5 * time.Minute}, nil
}

func (f *fakeExtractor) Probe(ctx context.Context, path string) (media.Info, error) {
	return media.Info{}, nil
}

func (f *fakeExtractor) CutChunk(ctx context.Context, audioPath, outPath string, start, duration time.Duration) error {
	return nil
}

type fakeTranscriber struct {
	err    error
	called bool
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, artifact media.AudioArtifact, workDir string) (transcribe.MergedTranscript, error) {
	f.called = true
	if f.err != nil {
		return transcribe.MergedTranscript{}, f.err
	}
	return transcribe.MergedTranscript{Text: "hello world from the talk", WordCount: 5, Language: "en", ChunkCount: 1}, nil
}

type fakeAggregator struct {
	keywords []trends.Keyword
}

func (f *fakeAggregator) Fetch(ctx context.Context, category string) []trends.Keyword {
	return f.keywords
}

type fakeGenerator struct {
	err         error
	called      bool
	gotKeywords []string
}

func (f *fakeGenerator) Generate(ctx context.Context, transcript string, keywords []string, platform string) ([]titles.GeneratedTitle, error) {
	f.called = true
	f.gotKeywords = keywords
	if f.err != nil {
		return nil, f.err
	}
	return []titles.GeneratedTitle{
		{Title: "A Title", Style: "curiosity", Reasoning: "test"},
		{Title: "Another Title", Style: "how_to", Reasoning: "test"},
	}, nil
}

type fixture struct {
	cfg         *config.Config
	st          *fakeStore
	extractor   *fakeExtractor
	transcriber *fakeTranscriber
	aggregator  *fakeAggregator
	generator   *fakeGenerator
	videoPath   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()

	inputDir := filepath.Join(base, "input")
	require.NoError(t, os.MkdirAll(inputDir, 0755))
	videoPath := filepath.Join(inputDir, "talk.mp4")
	require.NoError(t, os.WriteFile(videoPath, []byte("video"), 0644))

	return &fixture{
		cfg: &config.Config{
			Paths: config.PathsConfig{
				Input:    inputDir,
				Work:     filepath.Join(base, "work"),
				Output:   filepath.Join(base, "output"),
				Archived: filepath.Join(base, "archived"),
			},
			Trends: config.TrendsConfig{Category: "all"},
			Titles: config.TitlesConfig{Platform: "youtube"},
		},
		st:          &fakeStore{},
		extractor:   &fakeExtractor{},
		transcriber: &fakeTranscriber{},
		aggregator: &fakeAggregator{keywords: []trends.Keyword{
			{Source: "google_trends", Keyword: "latte art", Score: 10},
			{Source: "reddit", Keyword: "crema", Score: 5},
		}},
		generator: &fakeGenerator{},
		videoPath: videoPath,
	}
}

func (f *fixture) orchestrator() Orchestrator {
	return New(f.cfg, f.extractor, f.transcriber, f.aggregator, f.generator, f.st, nil, logger.New("error", "json"))
}

func TestProcessHappyPath(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Len(t, outcome.Titles, 2)
	assert.Equal(t, []string{"latte art", "crema"}, outcome.Keywords)
	assert.Equal(t, 5, outcome.Transcript.WordCount)

	assert.Equal(t, []string{"extracting", "transcribing", "fetching_trends", "generating"}, f.st.statuses)
	assert.Equal(t, []string{"extracting", "transcribing", "fetching_trends", "generating"}, f.st.timedSteps)
	assert.True(t, f.st.completed)
	assert.Equal(t, 5, f.st.wordCount)
	assert.False(t, f.st.failed)

	// generator saw the aggregated keywords
	assert.Equal(t, []string{"latte art", "crema"}, f.generator.gotKeywords)
}

func TestProcessRemovesWorkDir(t *testing.T) {
	f := newFixture(t)

	outcome, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.NoError(t, err)

	_, statErr := os.Stat(filepath.Join(f.cfg.Paths.Work, outcome.JobID))
	assert.True(t, os.IsNotExist(statErr))
}

func TestProcessArchivesVideo(t *testing.T) {
	f := newFixture(t)

	_, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.NoError(t, err)

	_, statErr := os.Stat(f.videoPath)
	assert.True(t, os.IsNotExist(statErr), "original should be moved out of input")

	_, statErr = os.Stat(filepath.Join(f.cfg.Paths.Archived, "talk.mp4"))
	assert.NoError(t, statErr)
}

func TestProcessExtractionFailure(t *testing.T) {
	f := newFixture(t)
	f.extractor.err = &media.ExtractionError{Kind: media.KindUnsupportedMedia, Path: f.videoPath, Diagnostic: "moov atom not found"}

	outcome, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.Error(t, err)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.True(t, f.st.failed)
	assert.Equal(t, CodeUnsupportedMedia, f.st.failCode)
	assert.Contains(t, f.st.failMsg, "moov atom")

	assert.False(t, f.transcriber.called, "pipeline must stop at the failed step")
	assert.False(t, f.generator.called)

	// extraction timing still recorded, work dir still removed
	assert.Equal(t, []string{"extracting"}, f.st.timedSteps)
	_, statErr := os.Stat(filepath.Join(f.cfg.Paths.Work, outcome.JobID))
	assert.True(t, os.IsNotExist(statErr))

	// video stays in input on failure
	_, statErr = os.Stat(f.videoPath)
	assert.NoError(t, statErr)
}

func TestProcessTranscriptionFailure(t *testing.T) {
	f := newFixture(t)
	f.transcriber.err = &transcribe.GatewayError{Kind: transcribe.FailurePayloadTooLarge, StatusCode: 413, Message: "too big"}

	outcome, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.Error(t, err)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, CodePayloadTooLarge, f.st.failCode)
	assert.Equal(t, []string{"extracting", "transcribing"}, f.st.timedSteps)
}

func TestProcessEmptyTrendsStillCompletes(t *testing.T) {
	f := newFixture(t)
	f.aggregator.keywords = nil

	outcome, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, outcome.Status)
	assert.Empty(t, outcome.Keywords)
	assert.True(t, f.generator.called, "generation proceeds without keywords")
	assert.Empty(t, f.generator.gotKeywords)
}

func TestProcessGenerationFailure(t *testing.T) {
	f := newFixture(t)
	f.generator.err = errors.New("model returned garbage")

	outcome, err := f.orchestrator().Process(context.Background(), f.videoPath)
	require.Error(t, err)

	assert.Equal(t, StatusFailed, outcome.Status)
	assert.Equal(t, CodeGenerationFailed, f.st.failCode)
	assert.False(t, f.st.completed)
}
