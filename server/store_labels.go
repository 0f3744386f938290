package main

import (
	"context"
	"strconv"
)

// Built-in labels are fixed and never stored; the effective label set for a
// user is these followed by their custom labels.
var builtinLabels = []Label{
	{ID: "default-bug", Name: "Bug", Color: "#ef4444", Builtin: true},
	{ID: "default-enhancement", Name: "Enhancement", Color: "#22c55e", Builtin: true},
	{ID: "default-chore", Name: "Chore", Color: "#6b7280", Builtin: true},
	{ID: "default-question", Name: "Question", Color: "#a855f7", Builtin: true},
	{ID: "default-docs", Name: "Docs", Color: "#3b82f6", Builtin: true},
}

const (
	// color applied to new labels when none was picked
	defaultLabelColor = "#4299e1"
	// render color for issues whose first label resolves to nothing
	fallbackLabelColor = "#6b7280"
)

func (s *Store) CustomLabels(ctx context.Context, userID int64) ([]Label, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, color from labels where user_id=$1 order by id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Label{}
	for rows.Next() {
		var id int64
		var l Label
		if err := rows.Scan(&id, &l.Name, &l.Color); err != nil {
			return nil, err
		}
		l.ID = strconv.FormatInt(id, 10)
		out = append(out, l)
	}
	return out, rows.Err()
}

// LabelsForUser returns built-ins followed by the user's custom labels. No
// de-duplication by name is performed.
func (s *Store) LabelsForUser(ctx context.Context, userID int64) ([]Label, error) {
	custom, err := s.CustomLabels(ctx, userID)
	if err != nil {
		return nil, err
	}
	return mergeLabels(custom), nil
}

func mergeLabels(custom []Label) []Label {
	out := make([]Label, 0, len(builtinLabels)+len(custom))
	out = append(out, builtinLabels...)
	out = append(out, custom...)
	return out
}

func (s *Store) CreateLabel(ctx context.Context, userID int64, name, color string) (Label, error) {
	if color == "" {
		color = defaultLabelColor
	}
	var id int64
	var l Label
	err := s.db.QueryRowContext(ctx,
		`insert into labels(user_id, name, color) values($1,$2,$3) returning id, name, color`,
		userID, name, color).
		Scan(&id, &l.Name, &l.Color)
	if err != nil {
		return Label{}, err
	}
	l.ID = strconv.FormatInt(id, 10)
	return l, nil
}

// DeleteLabel removes a custom label by id, scoped to its owner. Issues that
// reference the label by name keep the plain string; rendering falls back to
// gray.
func (s *Store) DeleteLabel(ctx context.Context, userID, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from labels where id=$1 and user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateLabels inserts a batch of labels atomically (share import).
func (s *Store) CreateLabels(ctx context.Context, userID int64, labels []LabelSnapshot) error {
	if len(labels) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	for _, l := range labels {
		color := l.Color
		if color == "" {
			color = defaultLabelColor
		}
		if _, err := tx.ExecContext(ctx,
			`insert into labels(user_id, name, color) values($1,$2,$3)`, userID, l.Name, color); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// colorForLabels resolves the render color of an issue: the color of its
// first label, or gray when the issue has no labels or the name no longer
// resolves.
func colorForLabels(names []string, all []Label) string {
	if len(names) == 0 {
		return fallbackLabelColor
	}
	for _, l := range all {
		if l.Name == names[0] {
			return l.Color
		}
	}
	return fallbackLabelColor
}

// missingLabels returns the snapshot entries whose name (case-sensitive exact
// match) is absent from the existing set, preserving snapshot order.
func missingLabels(snapshot []LabelSnapshot, existing []Label) []LabelSnapshot {
	have := make(map[string]struct{}, len(existing))
	for _, l := range existing {
		have[l.Name] = struct{}{}
	}
	var out []LabelSnapshot
	for _, s := range snapshot {
		if _, ok := have[s.Name]; !ok {
			out = append(out, s)
		}
	}
	return out
}
