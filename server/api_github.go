package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// repoRef identifies a public GitHub repository.
type repoRef struct {
	Owner string
	Repo  string
}

// parseRepoRef accepts either a repository URL
// (https://github.com/owner/repo[/...]) or a bare "owner/repo" string.
func parseRepoRef(s string) (repoRef, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return repoRef{}, false
	}
	path := s
	if strings.Contains(s, "://") {
		u, err := url.Parse(s)
		if err != nil {
			return repoRef{}, false
		}
		path = u.Path
	}
	parts := []string{}
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) < 2 {
		return repoRef{}, false
	}
	return repoRef{Owner: parts[0], Repo: parts[1]}, true
}

// githubIssue is the subset of the GitHub issues payload we read. The
// pull_request field marks PRs, which the issues endpoint also returns.
type githubIssue struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	HTMLURL     string `json:"html_url"`
	PullRequest *struct {
		URL string `json:"url"`
	} `json:"pull_request,omitempty"`
	Labels []struct {
		Name string `json:"name"`
	} `json:"labels"`
}

// formatGithubIssues shapes upstream issues for the board: display number,
// title, link, label names. Pull requests are dropped.
func formatGithubIssues(in []githubIssue) []SharedIssue {
	out := []SharedIssue{}
	for _, gi := range in {
		if gi.PullRequest != nil {
			continue
		}
		labels := make([]string, 0, len(gi.Labels))
		for _, l := range gi.Labels {
			labels = append(labels, l.Name)
		}
		out = append(out, SharedIssue{
			Number: fmt.Sprintf("#%d", gi.Number),
			Title:  gi.Title,
			URL:    gi.HTMLURL,
			Labels: labels,
			X:      0.5,
			Y:      0.5,
		})
	}
	return out
}

// GET /api/github/issues?repo=<url|owner/repo> — proxy the open issues of a
// public repository, formatted for bulk add.
func (a *api) handleGithubIssues(w http.ResponseWriter, r *http.Request) {
	ref, ok := parseRepoRef(r.URL.Query().Get("repo"))
	if !ok {
		writeError(w, 400, "invalid repository URL")
		return
	}
	endpoint := fmt.Sprintf("%s/repos/%s/%s/issues?state=open&per_page=100", a.cfg.GitHub.APIBase, ref.Owner, ref.Repo)
	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, endpoint, nil)
	if err != nil {
		writeError(w, 400, "invalid repository URL")
		return
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.log.Error("github fetch", "err", err, "repo", ref.Owner+"/"+ref.Repo)
		writeError(w, 502, "failed to fetch issues")
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		writeError(w, 404, "repository not found")
		return
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		a.log.Error("github fetch", "status", resp.StatusCode, "repo", ref.Owner+"/"+ref.Repo)
		writeError(w, 502, "failed to fetch issues")
		return
	}
	var issues []githubIssue
	if err := json.NewDecoder(resp.Body).Decode(&issues); err != nil {
		a.log.Error("github decode", "err", err)
		writeError(w, 502, "failed to fetch issues")
		return
	}
	writeJSON(w, 200, formatGithubIssues(issues))
}
