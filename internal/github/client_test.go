package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(ClientConfig{
		Org:         "rh-ai-quickstart",
		Repo:        "ai-quickstart",
		TitlePrefix: "[Quickstart suggestion]:",
	})
	// Route API calls at the test server.
	c.HTTPClient = srv.Client()
	c.HTTPClient.Transport = rewriteTransport{base: srv.URL}
	return c, srv
}

// rewriteTransport redirects api.github.com requests to the test server.
type rewriteTransport struct {
	base string
}

func (rt rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target := rt.base + req.URL.Path
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	clone := req.Clone(req.Context())
	u, err := clone.URL.Parse(target)
	if err != nil {
		return nil, err
	}
	clone.URL = u
	clone.Host = u.Host
	return http.DefaultTransport.RoundTrip(clone)
}

func TestFetchIssuesFiltersByPrefix(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/rh-ai-quickstart/ai-quickstart/issues", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") != "1" {
			json.NewEncoder(w).Encode([]any{})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{
				"number": 12, "title": "[Quickstart suggestion]: Fraud detection demo",
				"body": "Detect fraud.", "html_url": "https://example.com/12",
				"created_at": "2026-08-01T00:00:00Z",
				"user":       map[string]any{"login": "alice"},
			},
			{
				"number": 13, "title": "Unrelated bug report",
				"user": map[string]any{"login": "bob"},
			},
			{
				"number": 14, "title": "[Quickstart suggestion]: PR disguised as issue",
				"user":         map[string]any{"login": "carol"},
				"pull_request": map[string]any{},
			},
		})
	})

	c, _ := testClient(t, mux)
	issues, err := c.FetchIssues(context.Background(), false)
	if err != nil {
		t.Fatalf("FetchIssues: %v", err)
	}

	if len(issues) != 1 {
		t.Fatalf("got %d issues, want 1", len(issues))
	}
	got := issues[0]
	if got.Number != 12 || got.User != "alice" || got.Body != "Detect fraud." {
		t.Errorf("issue = %+v", got)
	}
}

func TestGetIssue(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/rh-ai-quickstart/ai-quickstart/issues/42", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"number": 42, "title": "[Quickstart suggestion]: Agentic RAG",
			"body": "details", "html_url": "https://example.com/42",
			"created_at": "2026-08-02T00:00:00Z",
			"user":       map[string]any{"login": "dora"},
		})
	})

	c, _ := testClient(t, mux)
	issue, err := c.GetIssue(context.Background(), 42)
	if err != nil {
		t.Fatalf("GetIssue: %v", err)
	}
	if issue.Number != 42 || issue.User != "dora" {
		t.Errorf("issue = %+v", issue)
	}
}

func TestGetIssueNotFound(t *testing.T) {
	c, _ := testClient(t, http.NotFoundHandler())

	_, err := c.GetIssue(context.Background(), 99)
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestFetchOrgReposPaginates(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/orgs/rh-ai-quickstart/repos", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("page") {
		case "1":
			json.NewEncoder(w).Encode([]map[string]any{
				{"name": "rag-chatbot", "description": "RAG demo", "html_url": "u1", "topics": []string{"rag"}},
			})
		case "2":
			json.NewEncoder(w).Encode([]map[string]any{
				{"name": "fraud-detection", "html_url": "u2"},
			})
		default:
			json.NewEncoder(w).Encode([]any{})
		}
	})

	c, _ := testClient(t, mux)
	repos, err := c.FetchOrgRepos(context.Background(), false)
	if err != nil {
		t.Fatalf("FetchOrgRepos: %v", err)
	}
	if len(repos) != 2 {
		t.Fatalf("got %d repos", len(repos))
	}
	if repos[0].Name != "rag-chatbot" || repos[1].Name != "fraud-detection" {
		t.Errorf("repos = %+v", repos)
	}
}

func TestFetchIssuesUsesCache(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/rh-ai-quickstart/ai-quickstart/issues", func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Query().Get("page") != "1" {
			json.NewEncoder(w).Encode([]any{})
			return
		}
		json.NewEncoder(w).Encode([]map[string]any{
			{"number": 1, "title": "[Quickstart suggestion]: One",
				"user": map[string]any{"login": "a"}},
		})
	})

	c, _ := testClient(t, mux)
	c.Cache = NewCache(t.TempDir(), time.Minute)

	if _, err := c.FetchIssues(context.Background(), false); err != nil {
		t.Fatalf("first fetch: %v", err)
	}
	firstCalls := calls

	issues, err := c.FetchIssues(context.Background(), false)
	if err != nil {
		t.Fatalf("second fetch: %v", err)
	}
	if calls != firstCalls {
		t.Errorf("cache miss: API called %d more times", calls-firstCalls)
	}
	if len(issues) != 1 || issues[0].Number != 1 {
		t.Errorf("cached issues = %+v", issues)
	}

	// Bypass goes back to the API.
	if _, err := c.FetchIssues(context.Background(), true); err != nil {
		t.Fatalf("bypass fetch: %v", err)
	}
	if calls == firstCalls {
		t.Error("bypass should hit the API")
	}
}
