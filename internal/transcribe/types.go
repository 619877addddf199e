package transcribe

import "time"

// TranscriptSegment is the transcription result for one chunk.
type TranscriptSegment struct {
	Index      int
	Text       string
	Language   string
	Confidence float64
}

// MergedTranscript is the terminal artifact of the transcription stage.
// Retries counts transient gateway failures that were retried across all
// chunks.
type MergedTranscript struct {
	Text          string
	WordCount     int
	Language      string
	ChunkCount    int
	LowConfidence bool
	Duration      time.Duration
	Retries       int
}
