package media

import (
	"context"
	"time"
)

// AudioArtifact describes the compressed audio extracted from a video.
// It is owned by the job and deleted when the job reaches a terminal state.
type AudioArtifact struct {
	Path       string
	SizeBytes  int64
	Duration   time.Duration
	Codec      string
	Bitrate    string
	SampleRate int
	Channels   int
}

// Info holds ffprobe results for a media file.
type Info struct {
	Duration  time.Duration
	SizeBytes int64
}

// Extractor converts video files to speech-tuned compressed audio and cuts
// time-range chunks out of extracted audio.
type Extractor interface {
	Extract(ctx context.Context, videoPath, outPath string) (AudioArtifact, error)
	Probe(ctx context.Context, path string) (Info, error)
	CutChunk(ctx context.Context, audioPath, outPath string, start, duration time.Duration) error
}
