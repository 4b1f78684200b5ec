package models

import "time"

const (
	DeliveryProcessed = "processed"
	DeliveryIgnored   = "ignored"
	DeliveryFailed    = "failed"
)

// WebhookDelivery is one GitHub webhook request as it was handled.
type WebhookDelivery struct {
	DeliveryID     string    `json:"delivery_id"`
	Event          string    `json:"event"`
	Action         string    `json:"action"`
	InstallationID int64     `json:"installation_id"`
	Status         string    `json:"status"`
	ReceivedAt     time.Time `json:"received_at"`
}
