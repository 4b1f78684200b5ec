package database

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ghagga-dashboard/models"
)

func newWebhookMock(t *testing.T) (*WebhookStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWebhookStore(db), mock
}

func TestWebhookStore_RecordDelivery(t *testing.T) {
	store, mock := newWebhookMock(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO webhook_deliveries")).
		WithArgs("d-1", "pull_request", "opened", int64(1001), models.DeliveryProcessed).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := store.RecordDelivery(context.Background(), models.WebhookDelivery{
		DeliveryID:     "d-1",
		Event:          "pull_request",
		Action:         "opened",
		InstallationID: 1001,
		Status:         models.DeliveryProcessed,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWebhookStore_ListDeliveries_DefaultLimit(t *testing.T) {
	store, mock := newWebhookMock(t)
	at := time.Date(2026, 10, 2, 8, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM webhook_deliveries")).
		WithArgs(50).
		WillReturnRows(sqlmock.NewRows([]string{"delivery_id", "event", "action", "installation_id", "status", "received_at"}).
			AddRow("d-2", "installation", "created", int64(1001), models.DeliveryProcessed, at).
			AddRow("d-1", "ping", "", int64(0), models.DeliveryIgnored, at.Add(-time.Minute)))

	got, err := store.ListDeliveries(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "d-2", got[0].DeliveryID)
	assert.Equal(t, models.DeliveryIgnored, got[1].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
