package media

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Probe returns duration and size of a media file via ffprobe.
func (e *implExtractor) Probe(ctx context.Context, path string) (Info, error) {
	stat, err := os.Stat(path)
	if err != nil {
		return Info{}, &ExtractionError{
			Kind: KindUnsupportedMedia,
			Path: path,
			Err:  fmt.Errorf("media file not readable: %w", err),
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	args := []string{
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	}

	out, err := e.executor.Execute(ctx, e.cfg.ProbePath, args...)
	if err != nil {
		return Info{}, classify(err, path)
	}

	seconds, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return Info{}, &ExtractionError{
			Kind:       KindUnsupportedMedia,
			Path:       path,
			Diagnostic: strings.TrimSpace(out),
			Err:        fmt.Errorf("ffprobe returned no duration: %w", err),
		}
	}

	return Info{
		Duration:  time.Duration(seconds * float64(time.Second)),
		SizeBytes: stat.Size(),
	}, nil
}
