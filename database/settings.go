package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ghagga-dashboard/models"
)

type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetSettings returns the defaults when the user never saved any.
func (s *SettingsStore) GetSettings(ctx context.Context, userID int64) (models.UserSettings, error) {
	var st models.UserSettings
	err := s.db.QueryRowContext(ctx, `
        SELECT review_mode, email_notifications, theme, updated_at
        FROM user_settings
        WHERE user_id = $1
    `, userID).Scan(&st.ReviewMode, &st.EmailNotifications, &st.Theme, &st.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.DefaultSettings(), nil
	}
	if err != nil {
		return models.UserSettings{}, fmt.Errorf("get settings for user %d: %w", userID, err)
	}
	return st, nil
}

func (s *SettingsStore) UpdateSettings(ctx context.Context, userID int64, st models.UserSettings) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO user_settings (user_id, review_mode, email_notifications, theme, updated_at)
        VALUES ($1, $2, $3, $4, NOW())
        ON CONFLICT (user_id) DO UPDATE SET
            review_mode = $2,
            email_notifications = $3,
            theme = $4,
            updated_at = NOW()
    `, userID, st.ReviewMode, st.EmailNotifications, st.Theme)
	if err != nil {
		return fmt.Errorf("update settings for user %d: %w", userID, err)
	}
	return nil
}
