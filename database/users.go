package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ghagga-dashboard/models"
)

type UserStore struct {
	db *sql.DB
}

func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

// UpsertGitHubUser inserts the GitHub profile or refreshes the stored copy,
// and stamps last_login.
func (s *UserStore) UpsertGitHubUser(ctx context.Context, u models.User) (*models.User, error) {
	err := s.db.QueryRowContext(ctx, `
        INSERT INTO users (github_id, login, name, email, avatar_url, last_login)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (github_id) DO UPDATE SET
            login = EXCLUDED.login,
            name = EXCLUDED.name,
            email = EXCLUDED.email,
            avatar_url = EXCLUDED.avatar_url,
            last_login = NOW()
        RETURNING id, created_at, last_login
    `, u.GitHubID, u.Login, u.Name, u.Email, u.AvatarURL).Scan(&u.ID, &u.CreatedAt, &u.LastLogin)
	if err != nil {
		return nil, fmt.Errorf("upsert user %s: %w", u.Login, err)
	}
	return &u, nil
}

func (s *UserStore) GetUser(ctx context.Context, id int64) (*models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, `
        SELECT id, github_id, login, name, email, avatar_url, created_at, last_login
        FROM users WHERE id = $1
    `, id).Scan(&u.ID, &u.GitHubID, &u.Login, &u.Name, &u.Email, &u.AvatarURL, &u.CreatedAt, &u.LastLogin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}
	return &u, nil
}
