package transcribe

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"golang.org/x/time/rate"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
	"github.com/nguyentantai21042004/title-flow/internal/media"
)

// ChunkCutter extracts a time range of an audio file into a new chunk file.
type ChunkCutter interface {
	CutChunk(ctx context.Context, audioPath, outPath string, start, duration time.Duration) error
}

// Transcriber turns an extracted audio artifact into a merged transcript,
// splitting and sequencing chunk submissions as needed.
type Transcriber interface {
	Transcribe(ctx context.Context, artifact media.AudioArtifact, workDir string) (MergedTranscript, error)
}

type implTranscriber struct {
	cfg     config.TranscriptionConfig
	gateway Gateway
	cutter  ChunkCutter
	limiter *rate.Limiter
	logger  logger.Logger
}

// New creates a Transcriber. The limiter paces chunk submissions so a long
// plan does not trip the service's rate limits.
func New(cfg config.TranscriptionConfig, gateway Gateway, cutter ChunkCutter, log logger.Logger) Transcriber {
	return &implTranscriber{
		cfg:     cfg,
		gateway: gateway,
		cutter:  cutter,
		limiter: rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60.0), 1),
		logger:  log,
	}
}

// Transcribe plans the chunk split and folds over it strictly in index
// order: each chunk call carries the trailing text of the previous chunk's
// transcript as its context hint, so calls are never parallelized.
func (t *implTranscriber) Transcribe(ctx context.Context, artifact media.AudioArtifact, workDir string) (MergedTranscript, error) {
	plan := PlanChunks(
		artifact.SizeBytes,
		int64(t.cfg.MaxPayloadMB)<<20,
		artifact.Duration,
		time.Duration(t.cfg.TargetChunkSec)*time.Second,
		time.Duration(t.cfg.ContextOverlapSec)*time.Second,
	)

	t.logger.Info(ctx, "Transcribing %s: %d chunk(s), %.2fMB, %s",
		artifact.Path, len(plan.Chunks), float64(artifact.SizeBytes)/(1<<20), artifact.Duration)

	segments := make([]TranscriptSegment, 0, len(plan.Chunks))
	previousTail := ""
	totalRetries := 0

	for _, chunk := range plan.Chunks {
		audio, cleanup, err := t.chunkBytes(ctx, artifact, plan, chunk, workDir)
		if err != nil {
			return MergedTranscript{}, err
		}

		if err := t.limiter.Wait(ctx); err != nil {
			cleanup()
			return MergedTranscript{}, err
		}

		result, retries, err := t.callWithRetry(ctx, audio, previousTail)
		cleanup()
		totalRetries += retries
		if err != nil {
			return MergedTranscript{}, fmt.Errorf("transcribe chunk %d: %w", chunk.Index, err)
		}

		segments = append(segments, TranscriptSegment{
			Index:      chunk.Index,
			Text:       result.Text,
			Language:   result.Language,
			Confidence: result.Confidence,
		})
		previousTail = tailHint(result.Text, t.cfg.ContextHintChars)

		t.logger.Debug(ctx, "Chunk %d/%d done (%d chars)", chunk.Index+1, len(plan.Chunks), len(result.Text))
	}

	merged, err := Merge(segments)
	if err != nil {
		return MergedTranscript{}, err
	}
	merged.Duration = artifact.Duration
	merged.Retries = totalRetries

	t.logger.Info(ctx, "Transcription complete: %d words, language %q, %d chunk(s)",
		merged.WordCount, merged.Language, merged.ChunkCount)
	return merged, nil
}

// chunkBytes returns the audio payload for one chunk. A single-chunk plan
// submits the artifact as-is; otherwise the range is cut into a temporary
// chunk file that the returned cleanup removes.
func (t *implTranscriber) chunkBytes(ctx context.Context, artifact media.AudioArtifact, plan Plan, chunk Chunk, workDir string) ([]byte, func(), error) {
	if plan.Single() {
		audio, err := os.ReadFile(artifact.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("read audio artifact: %w", err)
		}
		return audio, func() {}, nil
	}

	chunkPath := filepath.Join(workDir, fmt.Sprintf("chunk_%03d.ogg", chunk.Index))
	if err := t.cutter.CutChunk(ctx, artifact.Path, chunkPath, chunk.Start, chunk.End-chunk.Start); err != nil {
		return nil, nil, fmt.Errorf("cut chunk %d: %w", chunk.Index, err)
	}

	audio, err := os.ReadFile(chunkPath)
	if err != nil {
		return nil, nil, fmt.Errorf("read chunk %d: %w", chunk.Index, err)
	}

	cleanup := func() {
		if err := os.Remove(chunkPath); err != nil {
			t.logger.Warn(ctx, "Failed to remove chunk file %s: %v", chunkPath, err)
		}
	}
	return audio, cleanup, nil
}

// callWithRetry retries transient gateway failures with bounded exponential
// backoff and reports how many retries it spent. PayloadTooLarge is a
// planning defect and surfaces immediately.
func (t *implTranscriber) callWithRetry(ctx context.Context, audio []byte, contextHint string) (Result, int, error) {
	var result Result
	attempts := 0

	operation := func() error {
		attempts++
		var err error
		result, err = t.gateway.Transcribe(ctx, audio, contextHint)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return backoff.Permanent(err)
		}
		t.logger.Warn(ctx, "Transient transcription failure, retrying: %v", err)
		return err
	}

	policy := backoff.WithMaxRetries(
		backoff.WithContext(backoff.NewExponentialBackOff(), ctx),
		uint64(t.cfg.MaxRetries),
	)
	if err := backoff.Retry(operation, policy); err != nil {
		return Result{}, attempts - 1, err
	}
	return result, attempts - 1, nil
}

// tailHint bounds the previous transcript's tail to the context budget,
// never splitting a multi-byte rune.
func tailHint(text string, maxChars int) string {
	if maxChars <= 0 || len(text) <= maxChars {
		return text
	}
	cut := len(text) - maxChars
	for cut < len(text) && !utf8.RuneStart(text[cut]) {
		cut++
	}
	return text[cut:]
}
