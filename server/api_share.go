package main

import (
	"errors"
	"net/http"
)

// shareLink builds the public URL for a snapshot token.
func shareLink(origin, token string) string {
	return origin + "/?share=" + token
}

func (a *api) origin(r *http.Request) string {
	if a.cfg.PublicOrigin != "" {
		return a.cfg.PublicOrigin
	}
	// best-effort default for local dev
	return "http://" + r.Host
}

// POST /api/projects/{id}/share — snapshot the project into a public shared
// canvas and hand back the link.
func (a *api) handleShareProject(w http.ResponseWriter, r *http.Request) {
	u, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	sc, err := a.store.ShareProject(r.Context(), p, u.ID)
	if err != nil {
		a.log.Error("share project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, map[string]any{
		"token": sc.Token,
		"link":  shareLink(a.origin(r), sc.Token),
	})
}

// GET /api/shared/{token} — public preview of a snapshot. An unknown token is
// a terminal 404, distinct from transient failures.
func (a *api) handleGetSharedCanvas(w http.ResponseWriter, r *http.Request) {
	sc, err := a.store.SharedCanvasByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "shared canvas not found")
			return
		}
		a.log.Error("get shared canvas", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	issues, err := a.store.SharedIssues(r.Context(), sc.ID)
	if err != nil {
		a.log.Error("shared issues", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"canvas": sc, "issue_count": len(issues)})
}

// POST /api/shared/{token}/import — clone the snapshot into the current
// user's account. Failures past the lookup collapse into one generic,
// retryable error.
func (a *api) handleImportSharedCanvas(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	sc, err := a.store.SharedCanvasByToken(r.Context(), r.PathValue("token"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "shared canvas not found")
			return
		}
		a.log.Error("get shared canvas", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	p, err := a.store.ImportSharedCanvas(r.Context(), sc, u.ID)
	if err != nil {
		a.log.Error("import shared canvas", "err", err, "token", sc.Token)
		writeError(w, 500, "failed to import the canvas")
		return
	}
	writeJSON(w, 201, p)
	a.bus.Publish(Event{Type: "project.created", Entity: "project", Topic: userTopic(u.ID), Payload: p})
}
