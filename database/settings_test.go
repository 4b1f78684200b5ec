package database

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghagga-dashboard/models"
)

func TestSettingsStore_DefaultsWhenMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewSettingsStore(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM user_settings")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"review_mode"}))

	st, err := store.GetSettings(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultSettings(), st)
}

func TestSettingsStore_UpdateSettings(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewSettingsStore(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO user_settings")).
		WithArgs(int64(1), models.ReviewModeWorkflow, false, "light").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err = store.UpdateSettings(context.Background(), 1, models.UserSettings{
		ReviewMode: models.ReviewModeWorkflow,
		Theme:      "light",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
