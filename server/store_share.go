package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/oklog/ulid/v2"
)

// ShareProject freezes the project into a public snapshot: the project name,
// the sharer's custom labels, and a copy of every issue. The issue copy is a
// single transaction; the snapshot never syncs with the live project
// afterwards.
func (s *Store) ShareProject(ctx context.Context, project Project, ownerID int64) (SharedCanvas, error) {
	issues, err := s.IssuesByProject(ctx, project.ID)
	if err != nil {
		return SharedCanvas{}, err
	}
	custom, err := s.CustomLabels(ctx, ownerID)
	if err != nil {
		return SharedCanvas{}, err
	}
	snapshot := make([]LabelSnapshot, 0, len(custom))
	for _, l := range custom {
		snapshot = append(snapshot, LabelSnapshot{Name: l.Name, Color: l.Color})
	}
	snapJSON, err := json.Marshal(snapshot)
	if err != nil {
		return SharedCanvas{}, err
	}

	sc := SharedCanvas{
		Token:           ulid.Make().String(),
		Name:            project.Name,
		OriginalOwnerID: ownerID,
		LabelsSnapshot:  snapshot,
	}
	err = s.db.QueryRowContext(ctx,
		`insert into shared_canvases(token, name, original_owner_id, labels_snapshot) values($1,$2,$3,$4)
		 returning id, shared_at`,
		sc.Token, sc.Name, sc.OriginalOwnerID, snapJSON).
		Scan(&sc.ID, &sc.SharedAt)
	if err != nil {
		return SharedCanvas{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return SharedCanvas{}, err
	}
	defer func() { _ = tx.Rollback() }()
	for _, i := range issues {
		lb, err := json.Marshal(i.Labels)
		if err != nil {
			return SharedCanvas{}, err
		}
		if _, err := tx.ExecContext(ctx,
			`insert into shared_issues(shared_canvas_id, number, title, url, labels, x, y) values($1,$2,$3,$4,$5,$6,$7)`,
			sc.ID, i.Number, i.Title, i.URL, lb, i.X, i.Y); err != nil {
			return SharedCanvas{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return SharedCanvas{}, err
	}
	return sc, nil
}

func (s *Store) SharedCanvasByToken(ctx context.Context, token string) (SharedCanvas, error) {
	var sc SharedCanvas
	var snap []byte
	err := s.db.QueryRowContext(ctx,
		`select id, token, name, original_owner_id, shared_at, labels_snapshot from shared_canvases where token=$1`, token).
		Scan(&sc.ID, &sc.Token, &sc.Name, &sc.OriginalOwnerID, &sc.SharedAt, &snap)
	if errors.Is(err, sql.ErrNoRows) {
		return SharedCanvas{}, ErrNotFound
	}
	if err != nil {
		return SharedCanvas{}, err
	}
	if err := json.Unmarshal(snap, &sc.LabelsSnapshot); err != nil {
		return SharedCanvas{}, err
	}
	return sc, nil
}

func (s *Store) SharedIssues(ctx context.Context, canvasID int64) ([]SharedIssue, error) {
	rows, err := s.db.QueryContext(ctx,
		`select number, title, url, labels, x, y from shared_issues where shared_canvas_id=$1 order by id`, canvasID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []SharedIssue{}
	for rows.Next() {
		var i SharedIssue
		var labels []byte
		if err := rows.Scan(&i.Number, &i.Title, &i.URL, &labels, &i.X, &i.Y); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(labels, &i.Labels); err != nil {
			return nil, err
		}
		if i.Labels == nil {
			i.Labels = []string{}
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

// ImportSharedCanvas clones a snapshot for the importer: labels the importer
// is missing are created, then a fresh "Copy of {name}" project receives a
// copy of every snapshot issue. Each step is atomic on its own; the sequence
// as a whole is not, so an interrupted import can leave the labels created
// without the project (accepted, retry just re-runs the remaining steps).
func (s *Store) ImportSharedCanvas(ctx context.Context, sc SharedCanvas, importerID int64) (Project, error) {
	issues, err := s.SharedIssues(ctx, sc.ID)
	if err != nil {
		return Project{}, err
	}

	custom, err := s.CustomLabels(ctx, importerID)
	if err != nil {
		return Project{}, err
	}
	if err := s.CreateLabels(ctx, importerID, missingLabels(sc.LabelsSnapshot, custom)); err != nil {
		return Project{}, err
	}

	p, err := s.CreateProject(ctx, importerID, "Copy of "+sc.Name)
	if err != nil {
		return Project{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Project{}, err
	}
	defer func() { _ = tx.Rollback() }()
	for _, i := range issues {
		lb, err := json.Marshal(i.Labels)
		if err != nil {
			return Project{}, err
		}
		if _, err := tx.ExecContext(ctx,
			`insert into issues(project_id, number, title, url, labels, x, y) values($1,$2,$3,$4,$5,$6,$7)`,
			p.ID, i.Number, i.Title, i.URL, lb, clamp01(i.X), clamp01(i.Y)); err != nil {
			return Project{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return Project{}, err
	}
	return p, nil
}
