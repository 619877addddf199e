package trends

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nguyentantai21042004/title-flow/internal/config"
)

const googleTrendsRSSURL = "https://trends.google.com/trending/rss"

// googleSource pulls the daily trending searches RSS feed. No credentials
// required, so it is always configured.
type googleSource struct {
	cfg        config.GoogleTrends
	baseURL    string
	httpClient *http.Client
}

// NewGoogleSource creates the Google Trends adapter.
func NewGoogleSource(cfg config.GoogleTrends) Source {
	return &googleSource{
		cfg:        cfg,
		baseURL:    googleTrendsRSSURL,
		httpClient: &http.Client{},
	}
}

func (s *googleSource) Name() string { return "google_trends" }

func (s *googleSource) IsConfigured() bool { return true }

type trendsRSS struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Items []struct {
			Title string `xml:"title"`
		} `xml:"item"`
	} `xml:"channel"`
}

func (s *googleSource) FetchTrends(ctx context.Context, category string) ([]Keyword, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("geo", s.cfg.Geo)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rss+xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("google trends returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}

	var feed trendsRSS
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("parse trends feed: %w", err)
	}

	now := time.Now().UTC()
	items := feed.Channel.Items
	if len(items) > 15 {
		items = items[:15]
	}

	// rank position becomes the score: first entry scores highest
	keywords := make([]Keyword, 0, len(items))
	for i, item := range items {
		if item.Title == "" {
			continue
		}
		keywords = append(keywords, Keyword{
			Source:    s.Name(),
			Keyword:   item.Title,
			Score:     float64(len(items) - i),
			FetchedAt: now,
		})
	}
	return keywords, nil
}
