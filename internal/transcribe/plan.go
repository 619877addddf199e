package transcribe

import (
	"math"
	"time"
)

// Chunk is one bounded time range of the audio artifact. Overlap is the
// trailing window of the previous segment whose transcript tail becomes the
// context hint for this chunk; it never widens the [Start, End) coverage.
type Chunk struct {
	Index   int
	Start   time.Duration
	End     time.Duration
	Overlap time.Duration
}

// Plan is the immutable split decision for one audio artifact.
type Plan struct {
	Chunks []Chunk
}

// Single reports whether the plan needs no splitting.
func (p Plan) Single() bool {
	return len(p.Chunks) == 1
}

// PlanChunks decides how an audio artifact is submitted to the transcription
// service. If the artifact fits the payload ceiling the plan is one chunk
// spanning the whole duration. Otherwise the audio is divided into
// targetChunk-sized segments, the last taking the remainder, each segment
// after the first carrying the trailing-context overlap window.
//
// Pure function: no I/O, deterministic for the same inputs.
func PlanChunks(sizeBytes, sizeLimit int64, duration, targetChunk, overlap time.Duration) Plan {
	if sizeBytes <= sizeLimit || duration <= 0 || targetChunk <= 0 {
		return Plan{Chunks: []Chunk{{Index: 0, Start: 0, End: duration}}}
	}

	count := int(math.Ceil(duration.Seconds() / targetChunk.Seconds()))
	if count < 1 {
		count = 1
	}

	chunks := make([]Chunk, 0, count)
	for i := 0; i < count; i++ {
		start := time.Duration(i) * targetChunk
		end := start + targetChunk
		if end > duration || i == count-1 {
			end = duration
		}

		chunk := Chunk{Index: i, Start: start, End: end}
		if i > 0 {
			chunk.Overlap = overlap
		}
		chunks = append(chunks, chunk)
	}

	return Plan{Chunks: chunks}
}
