package main

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (a *api) routes(mux *http.ServeMux) {
	// Auth endpoints
	mux.HandleFunc("POST /api/auth/register", a.withRateLimit("auth", 20, time.Minute, a.handleRegister))
	mux.HandleFunc("POST /api/auth/login", a.withRateLimit("auth", 30, time.Minute, a.handleLogin))
	mux.HandleFunc("POST /api/auth/logout", a.handleLogout)
	mux.HandleFunc("GET /api/auth/me", a.handleMe)
	mux.HandleFunc("GET /api/auth/providers", a.handleAuthProviders)
	mux.HandleFunc("GET /api/auth/oauth/github/start", a.handleGithubStart)
	mux.HandleFunc("GET /api/auth/oauth/github/callback", a.handleGithubCallback)

	mux.HandleFunc("GET /api/health", a.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Projects
	mux.HandleFunc("GET /api/projects", a.requireAuth(a.handleListProjects))
	mux.HandleFunc("POST /api/projects", a.requireAuth(a.handleCreateProject))
	mux.HandleFunc("PATCH /api/projects/{id}", a.requireAuth(a.handleRenameProject))
	mux.HandleFunc("DELETE /api/projects/{id}", a.requireAuth(a.handleDeleteProject))
	mux.HandleFunc("GET /api/projects/{id}/events", a.requireAuth(a.handleProjectEvents))
	mux.HandleFunc("GET /api/events", a.requireAuth(a.handleUserEvents))

	// Issues
	mux.HandleFunc("GET /api/projects/{id}/issues", a.requireAuth(a.handleIssuesByProject))
	mux.HandleFunc("POST /api/projects/{id}/issues", a.requireAuth(a.handleCreateIssue))
	mux.HandleFunc("POST /api/projects/{id}/issues/bulk", a.requireAuth(a.handleCreateIssuesBulk))
	mux.HandleFunc("PATCH /api/projects/{id}/issues/{iid}", a.requireAuth(a.handleUpdateIssue))
	mux.HandleFunc("DELETE /api/projects/{id}/issues/{iid}", a.requireAuth(a.handleDeleteIssue))
	mux.HandleFunc("POST /api/projects/{id}/issues/{iid}/move", a.requireAuth(a.handleMoveIssue))

	// Labels
	mux.HandleFunc("GET /api/labels", a.requireAuth(a.handleListLabels))
	mux.HandleFunc("POST /api/labels", a.requireAuth(a.handleCreateLabel))
	mux.HandleFunc("DELETE /api/labels/{id}", a.requireAuth(a.handleDeleteLabel))

	// Sharing
	mux.HandleFunc("POST /api/projects/{id}/share", a.requireAuth(a.withRateLimit("share", 10, time.Minute, a.handleShareProject)))
	mux.HandleFunc("GET /api/shared/{token}", a.handleGetSharedCanvas)
	mux.HandleFunc("POST /api/shared/{token}/import", a.requireAuth(a.withRateLimit("import", 10, time.Minute, a.handleImportSharedCanvas)))

	// GitHub issue import source
	mux.HandleFunc("GET /api/github/issues", a.requireAuth(a.withRateLimit("github", 30, time.Minute, a.handleGithubIssues)))
}
