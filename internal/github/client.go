// Package github fetches quickstart suggestion issues and org repositories
// from the GitHub REST API, with a TTL file cache to keep repeated runs
// inside rate limits.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const apiBase = "https://api.github.com"

// Issue is one quickstart suggestion issue.
type Issue struct {
	Number    int    `json:"number"`
	Title     string `json:"title"`
	Body      string `json:"body"`
	HTMLURL   string `json:"html_url"`
	User      string `json:"user"`
	CreatedAt string `json:"created_at"`
}

// Repo is one organization repository.
type Repo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Topics      []string `json:"topics"`
}

// Client talks to the GitHub API for a single org/repo pair.
type Client struct {
	Org         string
	Repo        string
	Token       string
	TitlePrefix string

	HTTPClient *http.Client
	Cache      *Cache
}

// ClientConfig configures a Client.
type ClientConfig struct {
	Org         string
	Repo        string
	Token       string
	TitlePrefix string
	CacheDir    string
	CacheTTL    time.Duration
}

// NewClient creates a GitHub client. An empty token means unauthenticated
// access, which works for public repos at a lower rate limit.
func NewClient(cfg ClientConfig) *Client {
	var cache *Cache
	if cfg.CacheDir != "" {
		cache = NewCache(cfg.CacheDir, cfg.CacheTTL)
	}
	return &Client{
		Org:         cfg.Org,
		Repo:        cfg.Repo,
		Token:       cfg.Token,
		TitlePrefix: cfg.TitlePrefix,
		HTTPClient:  &http.Client{Timeout: 30 * time.Second},
		Cache:       cache,
	}
}

// FetchIssues returns all open issues whose title carries the quickstart
// suggestion prefix. Results come from cache when fresh unless bypassCache
// is set.
func (c *Client) FetchIssues(ctx context.Context, bypassCache bool) ([]Issue, error) {
	if !bypassCache && c.Cache != nil {
		var cached []Issue
		if c.Cache.Load("issues", &cached) {
			return cached, nil
		}
	}

	var issues []Issue
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/repos/%s/%s/issues?%s", apiBase, c.Org, c.Repo, url.Values{
			"state":    {"open"},
			"per_page": {"100"},
			"page":     {fmt.Sprint(page)},
		}.Encode())

		var raw []struct {
			Number    int    `json:"number"`
			Title     string `json:"title"`
			Body      string `json:"body"`
			HTMLURL   string `json:"html_url"`
			CreatedAt string `json:"created_at"`
			User      struct {
				Login string `json:"login"`
			} `json:"user"`
			PullRequest *struct{} `json:"pull_request"`
		}
		if err := c.getJSON(ctx, u, &raw); err != nil {
			return nil, fmt.Errorf("fetching issues page %d: %w", page, err)
		}
		if len(raw) == 0 {
			break
		}

		for _, it := range raw {
			// The issues endpoint also returns pull requests.
			if it.PullRequest != nil {
				continue
			}
			if c.TitlePrefix != "" && !strings.HasPrefix(it.Title, c.TitlePrefix) {
				continue
			}
			issues = append(issues, Issue{
				Number:    it.Number,
				Title:     it.Title,
				Body:      it.Body,
				HTMLURL:   it.HTMLURL,
				User:      it.User.Login,
				CreatedAt: it.CreatedAt,
			})
		}
	}

	if c.Cache != nil {
		c.Cache.Store("issues", issues)
	}
	return issues, nil
}

// GetIssue returns one issue by number regardless of title prefix.
func (c *Client) GetIssue(ctx context.Context, number int) (*Issue, error) {
	u := fmt.Sprintf("%s/repos/%s/%s/issues/%d", apiBase, c.Org, c.Repo, number)

	var raw struct {
		Number    int    `json:"number"`
		Title     string `json:"title"`
		Body      string `json:"body"`
		HTMLURL   string `json:"html_url"`
		CreatedAt string `json:"created_at"`
		User      struct {
			Login string `json:"login"`
		} `json:"user"`
	}
	if err := c.getJSON(ctx, u, &raw); err != nil {
		return nil, fmt.Errorf("fetching issue #%d: %w", number, err)
	}

	return &Issue{
		Number:    raw.Number,
		Title:     raw.Title,
		Body:      raw.Body,
		HTMLURL:   raw.HTMLURL,
		User:      raw.User.Login,
		CreatedAt: raw.CreatedAt,
	}, nil
}

// FetchOrgRepos returns the org's repositories, cached like issues.
func (c *Client) FetchOrgRepos(ctx context.Context, bypassCache bool) ([]Repo, error) {
	if !bypassCache && c.Cache != nil {
		var cached []Repo
		if c.Cache.Load("repositories", &cached) {
			return cached, nil
		}
	}

	var repos []Repo
	for page := 1; ; page++ {
		u := fmt.Sprintf("%s/orgs/%s/repos?per_page=100&page=%d", apiBase, c.Org, page)

		var raw []Repo
		if err := c.getJSON(ctx, u, &raw); err != nil {
			return nil, fmt.Errorf("fetching org repos page %d: %w", page, err)
		}
		if len(raw) == 0 {
			break
		}
		repos = append(repos, raw...)
	}

	if c.Cache != nil {
		c.Cache.Store("repositories", repos)
	}
	return repos, nil
}

func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	if c.Token != "" {
		req.Header.Set("Authorization", "token "+c.Token)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("github API %s: %s: %s", url, resp.Status, strings.TrimSpace(string(body)))
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
