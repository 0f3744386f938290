package main

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepoRef(t *testing.T) {
	tests := []struct {
		in    string
		owner string
		repo  string
		ok    bool
	}{
		{"golang/go", "golang", "go", true},
		{"  golang/go  ", "golang", "go", true},
		{"https://github.com/golang/go", "golang", "go", true},
		{"https://github.com/golang/go/issues/123", "golang", "go", true},
		{"https://github.com/golang/go/", "golang", "go", true},
		{"golang", "", "", false},
		{"", "", "", false},
		{"   ", "", "", false},
		{"https://github.com/", "", "", false},
		{"https://%zz", "", "", false},
	}
	for _, tt := range tests {
		ref, ok := parseRepoRef(tt.in)
		assert.Equal(t, tt.ok, ok, "input %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.owner, ref.Owner, "input %q", tt.in)
			assert.Equal(t, tt.repo, ref.Repo, "input %q", tt.in)
		}
	}
}

func TestFormatGithubIssuesSkipsPullRequests(t *testing.T) {
	pr := &struct {
		URL string `json:"url"`
	}{URL: "https://api.github.com/repos/o/r/pulls/7"}
	in := []githubIssue{
		{Number: 12, Title: "panic on empty input", HTMLURL: "https://github.com/o/r/issues/12",
			Labels: []struct {
				Name string `json:"name"`
			}{{Name: "Bug"}, {Name: "Urgent"}}},
		{Number: 7, Title: "add retries", HTMLURL: "https://github.com/o/r/pull/7", PullRequest: pr},
	}
	out := formatGithubIssues(in)
	require.Len(t, out, 1)
	assert.Equal(t, "#12", out[0].Number)
	assert.Equal(t, "panic on empty input", out[0].Title)
	assert.Equal(t, "https://github.com/o/r/issues/12", out[0].URL)
	assert.Equal(t, []string{"Bug", "Urgent"}, out[0].Labels)
	assert.Equal(t, 0.5, out[0].X)
	assert.Equal(t, 0.5, out[0].Y)
}

func TestFormatGithubIssuesEmpty(t *testing.T) {
	out := formatGithubIssues(nil)
	require.NotNil(t, out)
	assert.Empty(t, out)
}

func githubTestAPI(apiBase string) *api {
	cfg := defaultConfig()
	cfg.GitHub.APIBase = apiBase
	return &api{log: slog.New(slog.NewTextHandler(io.Discard, nil)), cfg: cfg}
}

func TestHandleGithubIssuesProxiesOpenIssues(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/golang/go/issues", r.URL.Path)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[
			{"number": 3, "title": "first", "html_url": "https://github.com/golang/go/issues/3", "labels": [{"name": "Bug"}]},
			{"number": 4, "title": "a pr", "html_url": "https://github.com/golang/go/pull/4", "pull_request": {"url": "x"}}
		]`)
	}))
	defer upstream.Close()

	a := githubTestAPI(upstream.URL)
	req := httptest.NewRequest("GET", "/api/github/issues?repo=golang/go", nil)
	rec := httptest.NewRecorder()
	a.handleGithubIssues(rec, req)

	require.Equal(t, 200, rec.Code)
	var got []SharedIssue
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "#3", got[0].Number)
	assert.Equal(t, "first", got[0].Title)
}

func TestHandleGithubIssuesRepoNotFound(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer upstream.Close()

	a := githubTestAPI(upstream.URL)
	req := httptest.NewRequest("GET", "/api/github/issues?repo=nosuch/repo", nil)
	rec := httptest.NewRecorder()
	a.handleGithubIssues(rec, req)

	require.Equal(t, 404, rec.Code)
	assert.Contains(t, rec.Body.String(), "repository not found")
}

func TestHandleGithubIssuesUpstreamFailure(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer upstream.Close()

	a := githubTestAPI(upstream.URL)
	req := httptest.NewRequest("GET", "/api/github/issues?repo=golang/go", nil)
	rec := httptest.NewRecorder()
	a.handleGithubIssues(rec, req)

	require.Equal(t, 502, rec.Code)
	assert.Contains(t, rec.Body.String(), "failed to fetch issues")
}

func TestHandleGithubIssuesBadRepoParam(t *testing.T) {
	a := githubTestAPI("http://unused.invalid")
	req := httptest.NewRequest("GET", "/api/github/issues?repo=not-a-repo", nil)
	rec := httptest.NewRecorder()
	a.handleGithubIssues(rec, req)

	require.Equal(t, 400, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid repository URL")
}
