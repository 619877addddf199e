package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nguyentantai21042004/title-flow/internal/config"
)

const (
	redditTokenURL = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL   = "https://oauth.reddit.com"
)

// redditSource mines keywords from hot post titles using app-only OAuth.
// Configured only when both client credentials are present.
type redditSource struct {
	cfg        config.RedditTrends
	tokenURL   string
	apiURL     string
	httpClient *http.Client
}

// NewRedditSource creates the Reddit trends adapter.
func NewRedditSource(cfg config.RedditTrends) Source {
	return &redditSource{
		cfg:        cfg,
		tokenURL:   redditTokenURL,
		apiURL:     redditAPIURL,
		httpClient: &http.Client{},
	}
}

func (s *redditSource) Name() string { return "reddit" }

func (s *redditSource) IsConfigured() bool {
	return s.cfg.ClientID != "" && s.cfg.ClientSecret != ""
}

type redditListing struct {
	Data struct {
		Children []struct {
			Data struct {
				Title string  `json:"title"`
				Score float64 `json:"score"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

func (s *redditSource) FetchTrends(ctx context.Context, category string) ([]Keyword, error) {
	token, err := s.appToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("reddit auth: %w", err)
	}

	subreddit := "all"
	if category != "" {
		subreddit = category
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/r/%s/hot?limit=25", s.apiURL, subreddit), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("reddit API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, err
	}

	var listing redditListing
	if err := json.Unmarshal(body, &listing); err != nil {
		return nil, fmt.Errorf("parse reddit listing: %w", err)
	}

	return s.extractKeywords(listing), nil
}

// appToken performs the client_credentials grant.
func (s *redditSource) appToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(s.cfg.ClientID, s.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.cfg.UserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if parsed.AccessToken == "" {
		return "", fmt.Errorf("empty access token")
	}
	return parsed.AccessToken, nil
}

// extractKeywords pulls significant title words weighted by post score.
func (s *redditSource) extractKeywords(listing redditListing) []Keyword {
	now := time.Now().UTC()
	counts := make(map[string]float64)
	order := make([]string, 0)

	for _, child := range listing.Data.Children {
		for _, word := range significantWords(child.Data.Title, 3) {
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	keywords := make([]Keyword, 0, len(order))
	for _, word := range order {
		keywords = append(keywords, Keyword{
			Source:    s.Name(),
			Keyword:   word,
			Score:     counts[word],
			FetchedAt: now,
		})
	}
	if len(keywords) > 25 {
		keywords = keywords[:25]
	}
	return keywords
}

// significantWords keeps up to max alphabetic words longer than 4 chars.
func significantWords(title string, max int) []string {
	var out []string
	for _, word := range strings.Fields(title) {
		if len(out) == max {
			break
		}
		if len(word) > 4 && isAlpha(word) {
			out = append(out, strings.ToLower(word))
		}
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}
