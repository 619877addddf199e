package titles

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const maxTranscriptChars = 4000

// platformGuidance tunes length and tone per target platform.
var platformGuidance = map[string]struct {
	MaxLength int
	Style     string
}{
	"youtube":   {70, "curiosity gaps, power words, searchable phrasing"},
	"instagram": {60, "short, punchy, relatable"},
	"tiktok":    {50, "ultra-short, hook in the first three words"},
	"twitter":   {60, "hot-take energy, conversation-starting"},
	"general":   {70, "bold, attention-grabbing, accurate"},
}

const titlePrompt = `You are a video title strategist. Based on the transcript below, generate exactly %d distinct video titles for %s.

Rules:
- Maximum %d characters per title
- Tone: %s
- Each title must be accurate to the transcript content
- Where a trending keyword genuinely fits the content, weave it in%s

Respond with ONLY a JSON array, no prose, where each element is:
{"title": "...", "style": "curiosity|how_to|listicle|story|question|news", "reasoning": "one sentence"}

Transcript:
---
%s
---`

// Generate calls Gemini and parses the JSON title list. API keys are
// rotated when a key hits its quota, the same way chunk summarization
// handles exhaustion.
func (g *implGenerator) Generate(ctx context.Context, transcript string, keywords []string, platform string) ([]GeneratedTitle, error) {
	if len(g.apiKeys) == 0 {
		return nil, fmt.Errorf("no title generation API keys configured")
	}
	if strings.TrimSpace(transcript) == "" {
		return nil, fmt.Errorf("transcript is empty")
	}

	prompt := g.buildPrompt(transcript, keywords, platform)
	raw, err := g.callGemini(ctx, prompt)
	if err != nil {
		return nil, err
	}

	parsed, err := parseTitles(raw)
	if err != nil {
		return nil, fmt.Errorf("parse title response: %w", err)
	}

	g.logger.Info(ctx, "Generated %d title(s) for platform %s", len(parsed), platform)
	return parsed, nil
}

func (g *implGenerator) buildPrompt(transcript string, keywords []string, platform string) string {
	guidance, ok := platformGuidance[strings.ToLower(platform)]
	if !ok {
		guidance = platformGuidance["general"]
	}

	trendBlock := ""
	if len(keywords) > 0 {
		limit := keywords
		if len(limit) > 15 {
			limit = limit[:15]
		}
		trendBlock = "\n- Currently trending keywords: " + strings.Join(limit, ", ")
	}

	excerpt := transcript
	if len(excerpt) > maxTranscriptChars {
		cut := maxTranscriptChars
		for cut > 0 && !utf8.RuneStart(excerpt[cut]) {
			cut--
		}
		excerpt = excerpt[:cut]
	}

	return fmt.Sprintf(titlePrompt, g.numTitles, platform, guidance.MaxLength, guidance.Style, trendBlock, excerpt)
}

// callGemini sends the prompt and returns raw response text, rotating API
// keys on quota errors.
func (g *implGenerator) callGemini(ctx context.Context, prompt string) (string, error) {
	attempts := len(g.apiKeys)
	var lastErr error

	for range attempts {
		keyIdx := g.keyIndex()
		key := g.apiKeys[keyIdx]

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  key,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			lastErr = fmt.Errorf("create client: %w", err)
			g.rotateKey()
			continue
		}

		result, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
		if err != nil {
			errMsg := err.Error()
			if strings.Contains(errMsg, "429") || strings.Contains(errMsg, "quota") || strings.Contains(errMsg, "RESOURCE_EXHAUSTED") {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", keyIdx+1)
				g.rotateKey()
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}

		if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
			var text string
			for _, part := range result.Candidates[0].Content.Parts {
				if part.Text != "" {
					text += part.Text
				}
			}
			return text, nil
		}

		return "", fmt.Errorf("empty response from Gemini")
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *implGenerator) keyIndex() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey
}

func (g *implGenerator) rotateKey() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
}

// parseTitles extracts the JSON array from the model response, tolerating
// markdown code fences around it.
func parseTitles(raw string) ([]GeneratedTitle, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array in response")
	}

	var parsed []GeneratedTitle
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &parsed); err != nil {
		return nil, err
	}

	out := parsed[:0]
	for _, title := range parsed {
		if strings.TrimSpace(title.Title) != "" {
			out = append(out, title)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("response contained no usable titles")
	}
	return out, nil
}
