package main

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/singleflight"
)

type Store struct {
	db *sql.DB
	// collapses concurrent ensure-default-project calls per user
	ensure singleflight.Group
}

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

var ErrNotFound = errors.New("not found")

// Auth & Users

func (s *Store) CreateUser(ctx context.Context, email, passwordHash, name string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `insert into users(email, password_hash, name) values($1,$2,$3)
		returning id, email, name, coalesce(avatar_url,''), is_active, created_at`, email, passwordHash, name).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsActive, &u.CreatedAt)
	if err != nil {
		return User{}, err
	}
	return u, nil
}

// get user creds by email, including password hash
func (s *Store) userCredsByEmail(ctx context.Context, email string) (User, string, error) {
	var u User
	var hash string
	err := s.db.QueryRowContext(ctx, `select id, email, name, coalesce(avatar_url,''), is_active, created_at, password_hash from users where lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsActive, &u.CreatedAt, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, "", ErrNotFound
	}
	return u, hash, err
}

func (s *Store) userByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select id, email, name, coalesce(avatar_url,''), is_active, created_at from users where lower(email)=lower($1)`, email).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

// Verify user password and return user if ok
func (s *Store) Authenticate(ctx context.Context, email, password string) (User, error) {
	u, hash, err := s.userCredsByEmail(ctx, email)
	if err != nil {
		return User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return User{}, ErrNotFound
	}
	if !u.IsActive {
		return User{}, errors.New("user_inactive")
	}
	return u, nil
}

func (s *Store) CreateSession(ctx context.Context, userID int64, ttl time.Duration) (string, time.Time, error) {
	// 32 random bytes, base64 URL encoded
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", time.Time{}, err
	}
	token := base64.RawURLEncoding.EncodeToString(b)
	expires := time.Now().Add(ttl)
	_, err := s.db.ExecContext(ctx, `insert into sessions(user_id, token, expires_at) values($1,$2,$3)`, userID, token, expires)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expires, nil
}

func (s *Store) UserBySession(ctx context.Context, token string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx, `select u.id, u.email, u.name, coalesce(u.avatar_url,''), u.is_active, u.created_at
		from sessions s join users u on u.id=s.user_id
		where s.token=$1 and s.expires_at > now()`, token).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsActive, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, ErrNotFound
	}
	return u, err
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	_, err := s.db.ExecContext(ctx, `delete from sessions where token=$1`, token)
	return err
}

// EnsureOAuthUser links or creates a user for given provider and provider_user_id, returns the user
func (s *Store) EnsureOAuthUser(ctx context.Context, provider, providerUserID, email, name, avatarURL string) (User, error) {
	// 1) Try find by oauth_accounts
	var u User
	err := s.db.QueryRowContext(ctx, `select u.id, u.email, u.name, coalesce(u.avatar_url,''), u.is_active, u.created_at
		from oauth_accounts oa join users u on u.id = oa.user_id
		where oa.provider=$1 and oa.provider_user_id=$2`, provider, providerUserID).
		Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsActive, &u.CreatedAt)
	switch {
	case err == nil:
		if avatarURL != "" && avatarURL != u.AvatarURL {
			if _, e := s.db.ExecContext(ctx, `update users set avatar_url=$1 where id=$2`, avatarURL, u.ID); e == nil {
				u.AvatarURL = avatarURL
			}
		}
		return u, nil
	case !errors.Is(err, sql.ErrNoRows):
		return User{}, err
	}
	// 2) Try find user by email
	haveUser, err := s.userByEmail(ctx, email)
	notFound := errors.Is(err, ErrNotFound)
	if err != nil && !notFound {
		return User{}, err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return User{}, err
	}
	defer func() { _ = tx.Rollback() }()
	if notFound {
		err = tx.QueryRowContext(ctx, `insert into users(email, password_hash, name, avatar_url) values($1,$2,$3,nullif($4,''))
			returning id, email, name, coalesce(avatar_url,''), is_active, created_at`, email, "", name, avatarURL).
			Scan(&u.ID, &u.Email, &u.Name, &u.AvatarURL, &u.IsActive, &u.CreatedAt)
		if err != nil {
			return User{}, err
		}
	} else {
		u = haveUser
	}
	// 3) Link oauth account (ignore duplicate unique constraint)
	if _, err = tx.ExecContext(ctx, `insert into oauth_accounts(user_id, provider, provider_user_id) values($1,$2,$3)
			on conflict (provider, provider_user_id) do nothing`, u.ID, provider, providerUserID); err != nil {
		return User{}, err
	}
	if err = tx.Commit(); err != nil {
		return User{}, err
	}
	return u, nil
}

const schema = `
create table if not exists users(
		id bigserial primary key,
		email text unique not null,
		password_hash text not null default '',
		name text not null default '',
		avatar_url text,
		is_active boolean not null default true,
		created_at timestamptz not null default now()
);

create table if not exists oauth_accounts(
		id bigserial primary key,
		user_id bigint not null references users(id) on delete cascade,
		provider text not null,
		provider_user_id text not null,
		unique(provider, provider_user_id)
);

create table if not exists sessions(
		id bigserial primary key,
		user_id bigint not null references users(id) on delete cascade,
		token text unique not null,
		created_at timestamptz not null default now(),
		expires_at timestamptz not null
);

create table if not exists projects(
		id bigserial primary key,
		name text not null check (length(name) > 0),
		owner_id bigint not null references users(id) on delete cascade,
		created_at timestamptz not null default now()
);
create index if not exists projects_owner_idx on projects(owner_id);

create table if not exists issues(
		id bigserial primary key,
		project_id bigint not null references projects(id) on delete cascade,
		number text not null default '',
		title text not null check (length(title) > 0),
		url text not null default '',
		labels jsonb not null default '[]',
		x double precision not null default 0.5 check (x >= 0 and x <= 1),
		y double precision not null default 0.5 check (y >= 0 and y <= 1),
		created_at timestamptz not null default now()
);
create index if not exists issues_project_idx on issues(project_id);

create table if not exists labels(
		id bigserial primary key,
		user_id bigint not null references users(id) on delete cascade,
		name text not null check (length(name) > 0),
		color text not null,
		created_at timestamptz not null default now()
);
create index if not exists labels_user_idx on labels(user_id);

create table if not exists shared_canvases(
		id bigserial primary key,
		token text unique not null,
		name text not null,
		original_owner_id bigint not null,
		shared_at timestamptz not null default now(),
		labels_snapshot jsonb not null default '[]'
);

create table if not exists shared_issues(
		id bigserial primary key,
		shared_canvas_id bigint not null references shared_canvases(id) on delete cascade,
		number text not null default '',
		title text not null,
		url text not null default '',
		labels jsonb not null default '[]',
		x double precision not null default 0.5,
		y double precision not null default 0.5
);
create index if not exists shared_issues_canvas_idx on shared_issues(shared_canvas_id);
`
