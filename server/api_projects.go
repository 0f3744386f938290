package main

import (
	"errors"
	"net/http"
	"strings"
)

// GET /api/projects — the user's projects, newest first. An empty result
// creates the default canvas first, so a fresh account always lands on one
// project.
func (a *api) handleListProjects(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.ProjectsByOwner(r.Context(), u.ID)
	if err != nil {
		a.log.Error("list projects", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	if len(items) == 0 {
		if _, err := a.store.EnsureDefaultProject(r.Context(), u.ID); err != nil {
			a.log.Error("ensure default project", "err", err)
			writeError(w, 500, "internal error")
			return
		}
		items, err = a.store.ProjectsByOwner(r.Context(), u.ID)
		if err != nil {
			a.log.Error("list projects", "err", err)
			writeError(w, 500, "internal error")
			return
		}
	}
	writeJSON(w, 200, items)
}

// POST /api/projects {name}
func (a *api) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if e := readJSON(w, r, &req); e != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "New Canvas"
	}
	p, err := a.store.CreateProject(r.Context(), u.ID, name)
	if err != nil {
		a.log.Error("create project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, p)
	a.bus.Publish(Event{Type: "project.created", Entity: "project", Topic: userTopic(u.ID), Payload: p})
}

// PATCH /api/projects/{id} {name} — rename only; blank input is rejected.
func (a *api) handleRenameProject(w http.ResponseWriter, r *http.Request) {
	u, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if e := readJSON(w, r, &req); e != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "name cannot be empty")
		return
	}
	if err := a.store.RenameProject(r.Context(), p.ID, strings.TrimSpace(req.Name)); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("rename project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.bus.Publish(Event{Type: "project.renamed", Entity: "project", Topic: userTopic(u.ID), Payload: map[string]any{"id": p.ID, "name": strings.TrimSpace(req.Name)}})
}

// DELETE /api/projects/{id} — cascades to issues. The response carries the id
// of the newest remaining project (or null) so clients can move their
// selection without a second round-trip.
func (a *api) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	u, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	if err := a.store.DeleteProject(r.Context(), p.ID); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("delete project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	var nextID *int64
	if next, err := a.store.NewestProject(r.Context(), u.ID); err == nil {
		nextID = &next.ID
	} else if !errors.Is(err, ErrNotFound) {
		a.log.Error("newest project", "err", err)
	}
	writeJSON(w, 200, map[string]any{"ok": true, "next_project_id": nextID})
	a.bus.Publish(Event{Type: "project.deleted", Entity: "project", Topic: userTopic(u.ID), Payload: map[string]any{"id": p.ID}})
}

// GET /api/projects/{id}/events — SSE stream of issue changes for one project.
func (a *api) handleProjectEvents(w http.ResponseWriter, r *http.Request) {
	_, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	a.bus.ServeSSE(w, r, projectTopic(p.ID))
}

// GET /api/events — SSE stream of project-list and label changes for the
// current user.
func (a *api) handleUserEvents(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	a.bus.ServeSSE(w, r, userTopic(u.ID))
}
