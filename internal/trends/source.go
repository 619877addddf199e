package trends

import (
	"context"
	"time"
)

// Keyword is a ranked term reported by one trend source.
type Keyword struct {
	Source    string
	Keyword   string
	Score     float64
	FetchedAt time.Time
}

// Source is one external trend provider. Missing credentials is an expected
// state, reported through IsConfigured, not an error.
type Source interface {
	Name() string
	IsConfigured() bool
	FetchTrends(ctx context.Context, category string) ([]Keyword, error)
}
