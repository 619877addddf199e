package titles

import (
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nguyentantai21042004/title-flow/internal/config"
	"github.com/nguyentantai21042004/title-flow/internal/logger"
)

func newTestGenerator() *implGenerator {
	return New(config.TitlesConfig{
		APIKeys:   []string{"k1", "k2", "k3"},
		Model:     "gemini-2.5-flash",
		NumTitles: 5,
	}, logger.New("error", "json")).(*implGenerator)
}

func TestBuildPrompt(t *testing.T) {
	g := newTestGenerator()
	prompt := g.buildPrompt("a talk about home espresso machines", []string{"latte art", "crema"}, "youtube")

	assert.Contains(t, prompt, "exactly 5 distinct")
	assert.Contains(t, prompt, "youtube")
	assert.Contains(t, prompt, "70 characters")
	assert.Contains(t, prompt, "latte art, crema")
	assert.Contains(t, prompt, "home espresso machines")
}

func TestBuildPromptUnknownPlatformFallsBack(t *testing.T) {
	g := newTestGenerator()
	prompt := g.buildPrompt("transcript", nil, "myspace")

	assert.Contains(t, prompt, "70 characters")
	assert.NotContains(t, prompt, "trending keywords")
}

func TestBuildPromptTruncatesTranscript(t *testing.T) {
	g := newTestGenerator()
	long := strings.Repeat("word ", 2000)
	prompt := g.buildPrompt(long, nil, "general")

	assert.Less(t, len(prompt), len(long))
}

func TestBuildPromptTruncationKeepsValidUTF8(t *testing.T) {
	g := newTestGenerator()
	long := strings.Repeat("あ", 2000) // 6000 bytes; the cap lands mid-rune
	prompt := g.buildPrompt(long, nil, "general")

	assert.True(t, utf8.ValidString(prompt))
}

func TestParseTitles(t *testing.T) {
	raw := "```json\n" + `[
	  {"title": "The Truth About Espresso", "style": "curiosity", "reasoning": "creates a gap"},
	  {"title": "How To Pull a Perfect Shot", "style": "how_to", "reasoning": "searchable"}
	]` + "\n```"

	got, err := parseTitles(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "The Truth About Espresso", got[0].Title)
	assert.Equal(t, "how_to", got[1].Style)
}

func TestParseTitlesWithSurroundingProse(t *testing.T) {
	raw := `Here are your titles:
[{"title": "One Good Title", "style": "news", "reasoning": "direct"}]
Hope that helps!`

	got, err := parseTitles(raw)
	require.NoError(t, err)
	require.Len(t, got, 1)
}

func TestParseTitlesRejectsGarbage(t *testing.T) {
	_, err := parseTitles("no structure here")
	assert.Error(t, err)

	_, err = parseTitles(`[{"title": "   "}]`)
	assert.Error(t, err)
}

func TestRotateKey(t *testing.T) {
	g := newTestGenerator()
	assert.Equal(t, 0, g.keyIndex())
	g.rotateKey()
	assert.Equal(t, 1, g.keyIndex())
	g.rotateKey()
	g.rotateKey()
	assert.Equal(t, 0, g.keyIndex())
}

func TestRotateKeyConcurrent(t *testing.T) {
	g := newTestGenerator()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				g.rotateKey()
				_ = g.keyIndex()
			}
		}()
	}
	wg.Wait()

	// 8 * 100 rotations over 3 keys land back where they started
	idx := g.keyIndex()
	assert.Equal(t, 800%3, idx)
}
