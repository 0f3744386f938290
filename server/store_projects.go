package main

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
)

const defaultProjectName = "Untitled Canvas"

func (s *Store) ProjectsByOwner(ctx context.Context, ownerID int64) ([]Project, error) {
	rows, err := s.db.QueryContext(ctx,
		`select id, name, owner_id, created_at from projects where owner_id=$1 order by created_at desc, id desc`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) CreateProject(ctx context.Context, ownerID int64, name string) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		`insert into projects(name, owner_id) values($1,$2) returning id, name, owner_id, created_at`,
		name, ownerID).
		Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt)
	return p, err
}

// EnsureDefaultProject creates the "Untitled Canvas" project iff the user owns
// none. Concurrent callers for the same user (several listeners observing an
// empty list at once) collapse into a single creation.
func (s *Store) EnsureDefaultProject(ctx context.Context, ownerID int64) (Project, error) {
	v, err, _ := s.ensure.Do(strconv.FormatInt(ownerID, 10), func() (any, error) {
		var p Project
		err := s.db.QueryRowContext(ctx,
			`insert into projects(name, owner_id)
			 select $1, $2 where not exists (select 1 from projects where owner_id=$2)
			 returning id, name, owner_id, created_at`,
			defaultProjectName, ownerID).
			Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt)
		if errors.Is(err, sql.ErrNoRows) {
			// someone else created a project in the meantime; return the newest
			err = s.db.QueryRowContext(ctx,
				`select id, name, owner_id, created_at from projects where owner_id=$1 order by created_at desc, id desc limit 1`,
				ownerID).
				Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt)
		}
		return p, err
	})
	if err != nil {
		return Project{}, err
	}
	return v.(Project), nil
}

func (s *Store) GetProject(ctx context.Context, id int64) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx, `select id, name, owner_id, created_at from projects where id=$1`, id).
		Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}

func (s *Store) RenameProject(ctx context.Context, id int64, name string) error {
	res, err := s.db.ExecContext(ctx, `update projects set name=$1 where id=$2`, name, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteProject removes the project; its issues go with it via FK cascade.
func (s *Store) DeleteProject(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `delete from projects where id=$1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// NewestProject returns the most recently created project of the owner, used
// as the selection fallback after a delete. ErrNotFound when none remain.
func (s *Store) NewestProject(ctx context.Context, ownerID int64) (Project, error) {
	var p Project
	err := s.db.QueryRowContext(ctx,
		`select id, name, owner_id, created_at from projects where owner_id=$1 order by created_at desc, id desc limit 1`,
		ownerID).
		Scan(&p.ID, &p.Name, &p.OwnerID, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Project{}, ErrNotFound
	}
	return p, err
}
