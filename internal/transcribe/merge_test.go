package transcribe

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seg(index int, text, lang string) TranscriptSegment {
	return TranscriptSegment{Index: index, Text: text, Language: lang, Confidence: 0.95}
}

func TestMergeOrdersByIndex(t *testing.T) {
	segments := []TranscriptSegment{
		seg(2, "third part", "en"),
		seg(0, "first part", "en"),
		seg(1, "second part", "en"),
	}

	merged, err := Merge(segments)
	require.NoError(t, err)

	assert.Equal(t, "first part second part third part", merged.Text)
	assert.Equal(t, 6, merged.WordCount)
	assert.Equal(t, "en", merged.Language)
	assert.Equal(t, 3, merged.ChunkCount)
	assert.False(t, merged.LowConfidence)
}

func TestMergeWordCountIsSumOfSegments(t *testing.T) {
	// nine stub transcripts of known word counts
	var segments []TranscriptSegment
	wantWords := 0
	for i := 0; i < 9; i++ {
		words := i + 1
		text := strings.TrimSpace(strings.Repeat(fmt.Sprintf("w%d ", i), words))
		segments = append(segments, seg(i, text, "en"))
		wantWords += words
	}

	merged, err := Merge(segments)
	require.NoError(t, err)
	assert.Equal(t, wantWords, merged.WordCount)
	assert.Equal(t, 9, merged.ChunkCount)
}

func TestMergeAssociativeOverChunkOrder(t *testing.T) {
	s1 := seg(0, "alpha beta", "en")
	s2 := seg(1, "gamma", "en")
	s3 := seg(2, "delta epsilon", "en")

	all, err := Merge([]TranscriptSegment{s1, s2, s3})
	require.NoError(t, err)

	firstTwo, err := Merge([]TranscriptSegment{s1, s2})
	require.NoError(t, err)

	assert.Equal(t, firstTwo.Text+" "+s3.Text, all.Text)
}

func TestMergeLanguageDisagreementFlagsLowConfidence(t *testing.T) {
	segments := []TranscriptSegment{
		seg(0, "hello there", "en"),
		seg(1, "hola amigo", "es"),
		seg(2, "good morning", "en"),
	}

	merged, err := Merge(segments)
	require.NoError(t, err)
	assert.Equal(t, "en", merged.Language)
	assert.True(t, merged.LowConfidence)
}

func TestMergeLanguageTieUsesFirstSegment(t *testing.T) {
	segments := []TranscriptSegment{
		seg(0, "bonjour", "fr"),
		seg(1, "hello", "en"),
	}

	merged, err := Merge(segments)
	require.NoError(t, err)
	assert.Equal(t, "fr", merged.Language)
}

func TestMergeSkipsEmptySegments(t *testing.T) {
	segments := []TranscriptSegment{
		seg(0, "spoken words", "en"),
		seg(1, "   ", ""),
		seg(2, "more words", "en"),
	}

	merged, err := Merge(segments)
	require.NoError(t, err)
	assert.Equal(t, "spoken words more words", merged.Text)
	assert.Equal(t, 4, merged.WordCount)
}

func TestMergeLowAverageConfidence(t *testing.T) {
	segments := []TranscriptSegment{
		{Index: 0, Text: "mumble", Language: "en", Confidence: 0.2},
		{Index: 1, Text: "static", Language: "en", Confidence: 0.3},
	}

	merged, err := Merge(segments)
	require.NoError(t, err)
	assert.True(t, merged.LowConfidence)
}

func TestMergeEmptyInputIsContractViolation(t *testing.T) {
	_, err := Merge(nil)
	assert.Error(t, err)
}
