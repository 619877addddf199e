package titles

import "context"

// GeneratedTitle is one candidate title with its style tag and rationale.
type GeneratedTitle struct {
	Title     string `json:"title"`
	Style     string `json:"style"`
	Reasoning string `json:"reasoning"`
}

// Generator turns a transcript and ranked trend keywords into platform-tuned
// title candidates.
type Generator interface {
	Generate(ctx context.Context, transcript string, keywords []string, platform string) ([]GeneratedTitle, error)
}
