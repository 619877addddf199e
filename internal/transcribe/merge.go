package transcribe

import (
	"fmt"
	"sort"
	"strings"
)

const lowConfidenceThreshold = 0.5

// Merge stitches per-chunk transcripts into one ordered transcript.
// Segments are reordered by chunk index; text is concatenated in index
// order; the word count is the sum of per-segment counts. The language is
// the majority across segments — disagreement flags low confidence instead
// of failing. An empty segment list is a contract violation: the
// orchestrator never invokes the merger with an empty plan.
func Merge(segments []TranscriptSegment) (MergedTranscript, error) {
	if len(segments) == 0 {
		return MergedTranscript{}, fmt.Errorf("merge called with zero segments")
	}

	ordered := make([]TranscriptSegment, len(segments))
	copy(ordered, segments)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].Index < ordered[j].Index
	})

	var parts []string
	wordCount := 0
	var confidenceSum float64
	for _, seg := range ordered {
		text := strings.TrimSpace(seg.Text)
		if text != "" {
			parts = append(parts, text)
			wordCount += len(strings.Fields(text))
		}
		confidenceSum += seg.Confidence
	}

	language, unanimous := majorityLanguage(ordered)
	avgConfidence := confidenceSum / float64(len(ordered))

	return MergedTranscript{
		Text:          strings.Join(parts, " "),
		WordCount:     wordCount,
		Language:      language,
		ChunkCount:    len(ordered),
		LowConfidence: !unanimous || avgConfidence < lowConfidenceThreshold,
	}, nil
}

// majorityLanguage picks the most frequent language among non-empty
// segments; ties resolve to the first non-empty segment's language.
func majorityLanguage(ordered []TranscriptSegment) (string, bool) {
	counts := make(map[string]int)
	first := ""
	distinct := 0
	for _, seg := range ordered {
		if strings.TrimSpace(seg.Text) == "" || seg.Language == "" {
			continue
		}
		if first == "" {
			first = seg.Language
		}
		if counts[seg.Language] == 0 {
			distinct++
		}
		counts[seg.Language]++
	}

	if first == "" {
		return "", true
	}

	best, bestCount := first, counts[first]
	for lang, count := range counts {
		if count > bestCount {
			best, bestCount = lang, count
		}
	}
	return best, distinct <= 1
}
