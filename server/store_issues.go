package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

func scanIssue(sc interface{ Scan(...any) error }) (Issue, error) {
	var i Issue
	var labels []byte
	err := sc.Scan(&i.ID, &i.ProjectID, &i.Number, &i.Title, &i.URL, &labels, &i.X, &i.Y, &i.CreatedAt)
	if err != nil {
		return Issue{}, err
	}
	if err := json.Unmarshal(labels, &i.Labels); err != nil {
		return Issue{}, err
	}
	if i.Labels == nil {
		i.Labels = []string{}
	}
	return i, nil
}

const issueCols = `id, project_id, number, title, url, labels, x, y, created_at`

func (s *Store) IssuesByProject(ctx context.Context, projectID int64) ([]Issue, error) {
	rows, err := s.db.QueryContext(ctx,
		`select `+issueCols+` from issues where project_id=$1 order by id`, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Issue{}
	for rows.Next() {
		i, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}

func (s *Store) GetIssue(ctx context.Context, projectID, id int64) (Issue, error) {
	row := s.db.QueryRowContext(ctx,
		`select `+issueCols+` from issues where id=$1 and project_id=$2`, id, projectID)
	i, err := scanIssue(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Issue{}, ErrNotFound
	}
	return i, err
}

func (s *Store) CreateIssue(ctx context.Context, projectID int64, number, title, url string, labels []string, x, y float64) (Issue, error) {
	if labels == nil {
		labels = []string{}
	}
	lb, err := json.Marshal(labels)
	if err != nil {
		return Issue{}, err
	}
	row := s.db.QueryRowContext(ctx,
		`insert into issues(project_id, number, title, url, labels, x, y) values($1,$2,$3,$4,$5,$6,$7)
		 returning `+issueCols,
		projectID, number, title, url, lb, clamp01(x), clamp01(y))
	return scanIssue(row)
}

// CreateIssues inserts a batch (GitHub bulk import) atomically at the default
// center position.
func (s *Store) CreateIssues(ctx context.Context, projectID int64, issues []SharedIssue) ([]Issue, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()
	out := make([]Issue, 0, len(issues))
	for _, in := range issues {
		labels := in.Labels
		if labels == nil {
			labels = []string{}
		}
		lb, err := json.Marshal(labels)
		if err != nil {
			return nil, err
		}
		row := tx.QueryRowContext(ctx,
			`insert into issues(project_id, number, title, url, labels, x, y) values($1,$2,$3,$4,$5,$6,$7)
			 returning `+issueCols,
			projectID, in.Number, in.Title, in.URL, lb, clamp01(in.X), clamp01(in.Y))
		i, err := scanIssue(row)
		if err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateIssue merges the provided fields into the issue; nil fields are left
// untouched. Position fields are clamped to [0,1].
func (s *Store) UpdateIssue(ctx context.Context, projectID, id int64, number, title, url *string, labels *[]string, x, y *float64) error {
	set := []string{}
	args := []any{}
	idx := 1
	add := func(col string, v any) {
		set = append(set, fmt.Sprintf("%s=$%d", col, idx))
		args = append(args, v)
		idx++
	}
	if number != nil {
		add("number", *number)
	}
	if title != nil {
		add("title", *title)
	}
	if url != nil {
		add("url", *url)
	}
	if labels != nil {
		lb, err := json.Marshal(*labels)
		if err != nil {
			return err
		}
		add("labels", lb)
	}
	if x != nil {
		add("x", clamp01(*x))
	}
	if y != nil {
		add("y", clamp01(*y))
	}
	if len(set) == 0 {
		return nil
	}
	q := fmt.Sprintf("update issues set %s where id=$%d and project_id=$%d", strings.Join(set, ", "), idx, idx+1)
	args = append(args, id, projectID)
	res, err := s.db.ExecContext(ctx, q, args...)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateIssuePosition(ctx context.Context, projectID, id int64, x, y float64) error {
	res, err := s.db.ExecContext(ctx,
		`update issues set x=$1, y=$2 where id=$3 and project_id=$4`, clamp01(x), clamp01(y), id, projectID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteIssue(ctx context.Context, projectID, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from issues where id=$1 and project_id=$2`, id, projectID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
