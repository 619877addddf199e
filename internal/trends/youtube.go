package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/nguyentantai21042004/title-flow/internal/config"
)

const youtubeVideosURL = "https://www.googleapis.com/youtube/v3/videos"

// youtubeSource reads tags off the most-popular chart via the YouTube Data
// API. Configured only when an API key is present.
type youtubeSource struct {
	cfg        config.YouTubeTrends
	baseURL    string
	httpClient *http.Client
}

// NewYouTubeSource creates the YouTube trends adapter.
func NewYouTubeSource(cfg config.YouTubeTrends) Source {
	return &youtubeSource{
		cfg:        cfg,
		baseURL:    youtubeVideosURL,
		httpClient: &http.Client{},
	}
}

func (s *youtubeSource) Name() string { return "youtube" }

func (s *youtubeSource) IsConfigured() bool { return s.cfg.APIKey != "" }

type youtubeResponse struct {
	Items []struct {
		Snippet struct {
			Title string   `json:"title"`
			Tags  []string `json:"tags"`
		} `json:"snippet"`
	} `json:"items"`
}

func (s *youtubeSource) FetchTrends(ctx context.Context, category string) ([]Keyword, error) {
	u, err := url.Parse(s.baseURL)
	if err != nil {
		return nil, err
	}
	q := u.Query()
	q.Set("part", "snippet")
	q.Set("chart", "mostPopular")
	q.Set("regionCode", s.cfg.Region)
	q.Set("maxResults", "20")
	if category != "" {
		q.Set("videoCategoryId", category)
	}
	q.Set("key", s.cfg.APIKey)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var parsed youtubeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parse youtube response: %w", err)
	}

	// tag frequency across the chart is the score
	now := time.Now().UTC()
	counts := make(map[string]float64)
	order := make([]string, 0)
	for _, item := range parsed.Items {
		tags := item.Snippet.Tags
		if len(tags) > 5 {
			tags = tags[:5]
		}
		for _, tag := range tags {
			if tag == "" {
				continue
			}
			if _, seen := counts[tag]; !seen {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	keywords := make([]Keyword, 0, len(order))
	for _, tag := range order {
		keywords = append(keywords, Keyword{
			Source:    s.Name(),
			Keyword:   tag,
			Score:     counts[tag],
			FetchedAt: now,
		})
	}
	if len(keywords) > 20 {
		keywords = keywords[:20]
	}
	return keywords, nil
}
