package media

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"
)

// Extract converts a video file to 16kHz mono Opus/OGG tuned for speech.
// The wall-clock timeout scales with input size; on any failure the partial
// output file is removed before returning.
func (e *implExtractor) Extract(ctx context.Context, videoPath, outPath string) (AudioArtifact, error) {
	stat, err := os.Stat(videoPath)
	if err != nil {
		return AudioArtifact{}, &ExtractionError{
			Kind: KindUnsupportedMedia,
			Path: videoPath,
			Err:  fmt.Errorf("video file not readable: %w", err),
		}
	}

	timeout := e.extractionTimeout(stat.Size())
	e.logger.Info(ctx, "Extracting audio: %s (%.2fGB, timeout %s)",
		videoPath, float64(stat.Size())/(1<<30), timeout)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// -vn drops video, libopus at a low bitrate with voip tuning keeps
	// speech intelligible while shrinking the payload for the
	// transcription service
	args := []string{
		"-i", videoPath,
		"-vn",
		"-c:a", "libopus",
		"-b:a", e.cfg.AudioBitrate,
		"-ar", strconv.Itoa(e.cfg.SampleRate),
		"-ac", "1",
		"-application", "voip",
		"-y",
		outPath,
	}

	if _, err := e.executor.Execute(ctx, e.cfg.BinaryPath, args...); err != nil {
		e.removePartial(ctx, outPath)
		return AudioArtifact{}, classify(err, videoPath)
	}

	outStat, err := os.Stat(outPath)
	if err != nil {
		return AudioArtifact{}, &ExtractionError{
			Kind: KindExtractionFailed,
			Path: videoPath,
			Err:  fmt.Errorf("ffmpeg completed but output is missing: %w", err),
		}
	}

	info, err := e.Probe(ctx, outPath)
	if err != nil {
		e.removePartial(ctx, outPath)
		return AudioArtifact{}, err
	}

	e.logger.Info(ctx, "Audio extracted: %s (%.2fMB, %s)",
		outPath, float64(outStat.Size())/(1<<20), info.Duration)

	return AudioArtifact{
		Path:       outPath,
		SizeBytes:  outStat.Size(),
		Duration:   info.Duration,
		Codec:      "opus",
		Bitrate:    e.cfg.AudioBitrate,
		SampleRate: e.cfg.SampleRate,
		Channels:   1,
	}, nil
}

// CutChunk extracts the [start, start+duration) range of an audio file into
// a new compressed chunk file.
func (e *implExtractor) CutChunk(ctx context.Context, audioPath, outPath string, start, duration time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, time.Duration(e.cutCfg.ChunkCutTimeoutSec)*time.Second)
	defer cancel()

	args := []string{
		"-i", audioPath,
		"-ss", formatSeconds(start),
		"-t", formatSeconds(duration),
		"-vn",
		"-c:a", "libopus",
		"-b:a", e.cfg.AudioBitrate,
		"-ar", strconv.Itoa(e.cfg.SampleRate),
		"-ac", "1",
		"-application", "voip",
		"-y",
		outPath,
	}

	if _, err := e.executor.Execute(ctx, e.cfg.BinaryPath, args...); err != nil {
		e.removePartial(ctx, outPath)
		return classify(err, audioPath)
	}

	if _, err := os.Stat(outPath); err != nil {
		return &ExtractionError{
			Kind: KindExtractionFailed,
			Path: audioPath,
			Err:  fmt.Errorf("chunk output missing: %w", err),
		}
	}

	return nil
}

// extractionTimeout scales the budget with input size and caps it.
func (e *implExtractor) extractionTimeout(sizeBytes int64) time.Duration {
	sizeGB := float64(sizeBytes) / (1 << 30)
	seconds := e.cfg.BaseTimeoutSec + int(sizeGB*float64(e.cfg.TimeoutPerGBSec))
	if seconds > e.cfg.MaxTimeoutSec {
		seconds = e.cfg.MaxTimeoutSec
	}
	return time.Duration(seconds) * time.Second
}

func (e *implExtractor) removePartial(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		e.logger.Warn(ctx, "Failed to remove partial output %s: %v", path, err)
	}
}

func formatSeconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}
