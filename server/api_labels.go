package main

import (
	"errors"
	"net/http"
	"strings"
)

// GET /api/labels — built-ins followed by the user's custom labels.
func (a *api) handleListLabels(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	items, err := a.store.LabelsForUser(r.Context(), u.ID)
	if err != nil {
		a.log.Error("list labels", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, items)
}

// POST /api/labels {name, color}
func (a *api) handleCreateLabel(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	var req struct {
		Name  string `json:"name"`
		Color string `json:"color"`
	}
	if e := readJSON(w, r, &req); e != nil || strings.TrimSpace(req.Name) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	l, err := a.store.CreateLabel(r.Context(), u.ID, strings.TrimSpace(req.Name), req.Color)
	if err != nil {
		a.log.Error("create label", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, l)
	a.bus.Publish(Event{Type: "label.created", Entity: "label", Topic: userTopic(u.ID), Payload: l})
}

// DELETE /api/labels/{id} — custom labels only; built-in ids never resolve
// here.
func (a *api) handleDeleteLabel(w http.ResponseWriter, r *http.Request) {
	u, err := a.currentUser(r)
	if err != nil {
		writeError(w, 401, "unauthorized")
		return
	}
	id, err := parseID(r.PathValue("id"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteLabel(r.Context(), u.ID, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("delete label", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.bus.Publish(Event{Type: "label.deleted", Entity: "label", Topic: userTopic(u.ID), Payload: map[string]any{"id": id}})
}
