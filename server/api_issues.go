package main

import (
	"errors"
	"net/http"
	"strings"
)

type issueView struct {
	Issue
	// Color is the resolved render color of the node (first label, gray
	// fallback), so clients don't need the label set to paint.
	Color string `json:"color"`
}

// GET /api/projects/{id}/issues
func (a *api) handleIssuesByProject(w http.ResponseWriter, r *http.Request) {
	u, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	items, err := a.store.IssuesByProject(r.Context(), p.ID)
	if err != nil {
		a.log.Error("issues by project", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	labels, err := a.store.LabelsForUser(r.Context(), u.ID)
	if err != nil {
		a.log.Error("labels for user", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	out := make([]issueView, 0, len(items))
	for _, i := range items {
		out = append(out, issueView{Issue: i, Color: colorForLabels(i.Labels, labels)})
	}
	writeJSON(w, 200, out)
}

// POST /api/projects/{id}/issues
func (a *api) handleCreateIssue(w http.ResponseWriter, r *http.Request) {
	_, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	var req struct {
		Number string   `json:"number"`
		Title  string   `json:"title"`
		URL    string   `json:"url"`
		Labels []string `json:"labels"`
		X      *float64 `json:"x"`
		Y      *float64 `json:"y"`
	}
	if err := readJSON(w, r, &req); err != nil || strings.TrimSpace(req.Title) == "" {
		writeError(w, 400, "invalid payload")
		return
	}
	// new issues land at the center of the matrix unless placed explicitly
	x, y := 0.5, 0.5
	if req.X != nil {
		x = *req.X
	}
	if req.Y != nil {
		y = *req.Y
	}
	i, err := a.store.CreateIssue(r.Context(), p.ID, req.Number, req.Title, req.URL, req.Labels, x, y)
	if err != nil {
		a.log.Error("create issue", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, i)
	a.bus.Publish(Event{Type: "issue.created", Entity: "issue", Topic: projectTopic(p.ID), Payload: i})
}

// POST /api/projects/{id}/issues/bulk — batch add (GitHub import target).
func (a *api) handleCreateIssuesBulk(w http.ResponseWriter, r *http.Request) {
	_, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	var req struct {
		Issues []struct {
			Number string   `json:"number"`
			Title  string   `json:"title"`
			URL    string   `json:"url"`
			Labels []string `json:"labels"`
			X      *float64 `json:"x"`
			Y      *float64 `json:"y"`
		} `json:"issues"`
	}
	if err := readJSON(w, r, &req); err != nil || len(req.Issues) == 0 {
		writeError(w, 400, "invalid payload")
		return
	}
	batch := make([]SharedIssue, 0, len(req.Issues))
	for _, in := range req.Issues {
		if strings.TrimSpace(in.Title) == "" {
			writeError(w, 400, "invalid payload")
			return
		}
		si := SharedIssue{Number: in.Number, Title: in.Title, URL: in.URL, Labels: in.Labels, X: 0.5, Y: 0.5}
		if in.X != nil {
			si.X = *in.X
		}
		if in.Y != nil {
			si.Y = *in.Y
		}
		batch = append(batch, si)
	}
	items, err := a.store.CreateIssues(r.Context(), p.ID, batch)
	if err != nil {
		a.log.Error("bulk create issues", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 201, items)
	a.bus.Publish(Event{Type: "issue.bulk_created", Entity: "issue", Topic: projectTopic(p.ID), Payload: map[string]any{"count": len(items)}})
}

// PATCH /api/projects/{id}/issues/{iid} — partial merge of content and/or
// position fields.
func (a *api) handleUpdateIssue(w http.ResponseWriter, r *http.Request) {
	_, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	iid, err := parseID(r.PathValue("iid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Number *string   `json:"number"`
		Title  *string   `json:"title"`
		URL    *string   `json:"url"`
		Labels *[]string `json:"labels"`
		X      *float64  `json:"x"`
		Y      *float64  `json:"y"`
	}
	if err := readJSON(w, r, &req); err != nil {
		writeError(w, 400, "invalid payload")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeError(w, 400, "title cannot be empty")
		return
	}
	if err := a.store.UpdateIssue(r.Context(), p.ID, iid, req.Number, req.Title, req.URL, req.Labels, req.X, req.Y); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("update issue", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.bus.Publish(Event{Type: "issue.updated", Entity: "issue", Topic: projectTopic(p.ID), Payload: map[string]any{"id": iid}})
}

// DELETE /api/projects/{id}/issues/{iid}
func (a *api) handleDeleteIssue(w http.ResponseWriter, r *http.Request) {
	_, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	iid, err := parseID(r.PathValue("iid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	if err := a.store.DeleteIssue(r.Context(), p.ID, iid); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("delete issue", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"ok": true})
	a.bus.Publish(Event{Type: "issue.deleted", Entity: "issue", Topic: projectTopic(p.ID), Payload: map[string]any{"id": iid}})
}

// POST /api/projects/{id}/issues/{iid}/move — replays a pointer gesture
// server-side. points[0] is the pointer-down position; the rest are moves,
// the last doubling as pointer-up. A gesture with no movement is a click: no
// position is written and the issue URL is returned for the client to open.
func (a *api) handleMoveIssue(w http.ResponseWriter, r *http.Request) {
	_, p, code, msg := a.requireProject(r)
	if code != 0 {
		writeError(w, code, msg)
		return
	}
	iid, err := parseID(r.PathValue("iid"))
	if err != nil {
		writeError(w, 400, "bad id")
		return
	}
	var req struct {
		Surface Surface `json:"surface"`
		Points  []Point `json:"points"`
	}
	if err := readJSON(w, r, &req); err != nil || len(req.Points) == 0 {
		writeError(w, 400, "invalid payload")
		return
	}
	issue, err := a.store.GetIssue(r.Context(), p.ID, iid)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("get issue", "err", err)
		writeError(w, 500, "internal error")
		return
	}

	nodePx := req.Surface.Denormalize(Point{X: issue.X, Y: issue.Y})
	sess := StartDrag(req.Surface, nodePx, req.Points[0])
	for _, pt := range req.Points[1:] {
		sess.Move(pt)
	}
	norm, moved := sess.End()
	if !moved {
		writeJSON(w, 200, map[string]any{"moved": false, "url": issue.URL})
		return
	}
	if err := a.store.UpdateIssuePosition(r.Context(), p.ID, iid, norm.X, norm.Y); err != nil {
		if errors.Is(err, ErrNotFound) {
			writeError(w, 404, "not found")
			return
		}
		a.log.Error("move issue", "err", err)
		writeError(w, 500, "internal error")
		return
	}
	writeJSON(w, 200, map[string]any{"moved": true, "x": norm.X, "y": norm.Y})
	a.bus.Publish(Event{Type: "issue.moved", Entity: "issue", Topic: projectTopic(p.ID), Payload: map[string]any{"id": iid, "x": norm.X, "y": norm.Y}})
}
