package trends

import (
	"context"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nguyentantai21042004/title-flow/internal/logger"
)

// Aggregator merges ranked keywords from every configured source. It never
// fails the job: broken or unconfigured sources contribute nothing.
type Aggregator interface {
	Fetch(ctx context.Context, category string) []Keyword
}

type implAggregator struct {
	sources       []Source
	cache         *Cache
	sourceTimeout time.Duration
	maxKeywords   int
	logger        logger.Logger
}

// NewAggregator creates an Aggregator over a fixed set of sources.
func NewAggregator(sources []Source, cache *Cache, sourceTimeout time.Duration, maxKeywords int, log logger.Logger) Aggregator {
	return &implAggregator{
		sources:       sources,
		cache:         cache,
		sourceTimeout: sourceTimeout,
		maxKeywords:   maxKeywords,
		logger:        log,
	}
}

// Fetch queries all configured sources concurrently, each inside its own
// timeout and failure domain, and returns the deduped, score-ranked union.
// Results are memoized per category for the cache TTL.
func (a *implAggregator) Fetch(ctx context.Context, category string) []Keyword {
	cacheKey := "aggregate:" + category
	if cached, ok := a.cache.Get(cacheKey); ok {
		a.logger.Debug(ctx, "Trend cache hit for %q", category)
		return cached
	}

	perSource := make([][]Keyword, len(a.sources))
	g, gctx := errgroup.WithContext(ctx)

	for i, source := range a.sources {
		if !source.IsConfigured() {
			a.logger.Debug(ctx, "Skipping unconfigured trend source: %s", source.Name())
			continue
		}

		g.Go(func() error {
			sctx, cancel := context.WithTimeout(gctx, a.sourceTimeout)
			defer cancel()

			keywords, err := source.FetchTrends(sctx, category)
			if err != nil {
				// isolated: one broken source never aborts the rest
				a.logger.Warn(ctx, "Trend source %s failed: %v", source.Name(), err)
				return nil
			}
			perSource[i] = keywords
			return nil
		})
	}
	_ = g.Wait()

	// cached even when empty: a window with every source down must not
	// re-query them on each call
	aggregated := a.aggregate(perSource)
	a.cache.Put(cacheKey, aggregated)

	a.logger.Info(ctx, "Aggregated %d trend keywords from %d source(s)", len(aggregated), len(a.sources))
	return aggregated
}

type rankedKeyword struct {
	Keyword
	firstSeen int
}

// aggregate dedupes keywords case-insensitively, sums scores across
// sources, and sorts descending by aggregate score with first-seen source
// order breaking ties. perSource preserves the fixed source order.
func (a *implAggregator) aggregate(perSource [][]Keyword) []Keyword {
	merged := make(map[string]*rankedKeyword)
	seq := 0

	for _, keywords := range perSource {
		for _, kw := range keywords {
			text := strings.TrimSpace(kw.Keyword)
			if text == "" {
				continue
			}

			key := strings.ToLower(text)
			if existing, ok := merged[key]; ok {
				existing.Score += kw.Score
				continue
			}
			merged[key] = &rankedKeyword{
				Keyword:   Keyword{Source: kw.Source, Keyword: text, Score: kw.Score, FetchedAt: kw.FetchedAt},
				firstSeen: seq,
			}
			seq++
		}
	}

	ranked := make([]*rankedKeyword, 0, len(merged))
	for _, kw := range merged {
		ranked = append(ranked, kw)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].firstSeen < ranked[j].firstSeen
	})

	if a.maxKeywords > 0 && len(ranked) > a.maxKeywords {
		ranked = ranked[:a.maxKeywords]
	}

	out := make([]Keyword, len(ranked))
	for i, kw := range ranked {
		out[i] = kw.Keyword
	}
	return out
}
