package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"ghagga-dashboard/models"
)

type InstallationStore struct {
	db *sql.DB
}

func NewInstallationStore(db *sql.DB) *InstallationStore {
	return &InstallationStore{db: db}
}

func (s *InstallationStore) ListInstallations(ctx context.Context) ([]models.Installation, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, account_login, account_type, repository_selection, created_at, suspended_at
        FROM installations
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list installations: %w", err)
	}
	defer rows.Close()

	installations := []models.Installation{}
	for rows.Next() {
		var (
			in        models.Installation
			suspended sql.NullTime
		)
		if err := rows.Scan(&in.ID, &in.AccountLogin, &in.AccountType, &in.RepositorySelection, &in.CreatedAt, &suspended); err != nil {
			return nil, fmt.Errorf("scan installation: %w", err)
		}
		if suspended.Valid {
			t := suspended.Time
			in.SuspendedAt = &t
		}
		installations = append(installations, in)
	}
	return installations, rows.Err()
}

func (s *InstallationStore) UpsertInstallation(ctx context.Context, in models.Installation) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO installations (id, account_login, account_type, repository_selection, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (id) DO UPDATE SET
            account_login = EXCLUDED.account_login,
            account_type = EXCLUDED.account_type,
            repository_selection = EXCLUDED.repository_selection
    `, in.ID, in.AccountLogin, in.AccountType, in.RepositorySelection)
	if err != nil {
		return fmt.Errorf("upsert installation %d: %w", in.ID, err)
	}
	return nil
}

func (s *InstallationStore) DeleteInstallation(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM installations WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete installation %d: %w", id, err)
	}
	return expectAffected(res)
}

// SetInstallationSuspended stamps or clears suspended_at. A nil time
// unsuspends.
func (s *InstallationStore) SetInstallationSuspended(ctx context.Context, id int64, at *time.Time) error {
	res, err := s.db.ExecContext(ctx, "UPDATE installations SET suspended_at = $2 WHERE id = $1", id, at)
	if err != nil {
		return fmt.Errorf("suspend installation %d: %w", id, err)
	}
	return expectAffected(res)
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
