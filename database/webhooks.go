package database

import (
	"context"
	"database/sql"
	"fmt"

	"ghagga-dashboard/models"
)

type WebhookStore struct {
	db *sql.DB
}

func NewWebhookStore(db *sql.DB) *WebhookStore {
	return &WebhookStore{db: db}
}

// RecordDelivery is idempotent on the delivery id: GitHub redeliveries update
// the stored status.
func (s *WebhookStore) RecordDelivery(ctx context.Context, d models.WebhookDelivery) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO webhook_deliveries (delivery_id, event, action, installation_id, status, received_at)
        VALUES ($1, $2, $3, $4, $5, NOW())
        ON CONFLICT (delivery_id) DO UPDATE SET
            status = EXCLUDED.status,
            received_at = NOW()
    `, d.DeliveryID, d.Event, d.Action, d.InstallationID, d.Status)
	if err != nil {
		return fmt.Errorf("record delivery %s: %w", d.DeliveryID, err)
	}
	return nil
}

func (s *WebhookStore) ListDeliveries(ctx context.Context, limit int) ([]models.WebhookDelivery, error) {
	if limit < 1 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
        SELECT delivery_id, event, action, installation_id, status, received_at
        FROM webhook_deliveries
        ORDER BY received_at DESC
        LIMIT $1
    `, limit)
	if err != nil {
		return nil, fmt.Errorf("list deliveries: %w", err)
	}
	defer rows.Close()

	deliveries := []models.WebhookDelivery{}
	for rows.Next() {
		var d models.WebhookDelivery
		if err := rows.Scan(&d.DeliveryID, &d.Event, &d.Action, &d.InstallationID, &d.Status, &d.ReceivedAt); err != nil {
			return nil, fmt.Errorf("scan delivery: %w", err)
		}
		deliveries = append(deliveries, d)
	}
	return deliveries, rows.Err()
}
