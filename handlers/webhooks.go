package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"ghagga-dashboard/database"
	"ghagga-dashboard/models"
)

type InstallationWriter interface {
	UpsertInstallation(ctx context.Context, in models.Installation) error
	DeleteInstallation(ctx context.Context, id int64) error
	SetInstallationSuspended(ctx context.Context, id int64, at *time.Time) error
}

type ReviewCreator interface {
	CreateReview(ctx context.Context, r models.Review) (int64, error)
}

type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, d models.WebhookDelivery) error
}

type webhookPayload struct {
	Action       string `json:"action"`
	Installation *struct {
		ID      int64 `json:"id"`
		Account struct {
			Login string `json:"login"`
			Type  string `json:"type"`
		} `json:"account"`
		RepositorySelection string `json:"repository_selection"`
	} `json:"installation"`
	Repository *struct {
		FullName string `json:"full_name"`
	} `json:"repository"`
	PullRequest *struct {
		Number int `json:"number"`
		Head   struct {
			SHA string `json:"sha"`
		} `json:"head"`
	} `json:"pull_request"`
}

func (p webhookPayload) installationID() int64 {
	if p.Installation == nil {
		return 0
	}
	return p.Installation.ID
}

// WebhookResponse tells GitHub how the delivery was handled.
type WebhookResponse struct {
	Status string `json:"status"`
}

// GitHubWebhook receives GitHub App events. The signature is checked by
// middleware before this runs. Every delivery is recorded.
func GitHubWebhook(installs InstallationWriter, reviews ReviewCreator, deliveries DeliveryRecorder, stats StatsRefresher, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event := r.Header.Get("X-GitHub-Event")
		deliveryID := r.Header.Get("X-GitHub-Delivery")
		if deliveryID == "" {
			deliveryID = uuid.NewString()
		}

		delivery := models.WebhookDelivery{DeliveryID: deliveryID, Event: event}
		record := func() {
			if err := deliveries.RecordDelivery(r.Context(), delivery); err != nil {
				log.Error("record webhook delivery", zap.String("delivery_id", deliveryID), zap.Error(err))
			}
		}

		var payload webhookPayload
		body, err := io.ReadAll(r.Body)
		if err == nil {
			err = json.Unmarshal(body, &payload)
		}
		if err != nil {
			delivery.Status = models.DeliveryFailed
			record()
			status, errResp := HandleError(fmt.Errorf("%w: malformed payload", errInvalidInput))
			WriteError(w, status, errResp)
			return
		}
		delivery.Action = payload.Action
		delivery.InstallationID = payload.installationID()

		handled, err := handleEvent(r.Context(), event, payload, installs, reviews)
		switch {
		case err != nil:
			delivery.Status = models.DeliveryFailed
		case handled:
			delivery.Status = models.DeliveryProcessed
		default:
			delivery.Status = models.DeliveryIgnored
		}
		record()

		log.Info("webhook delivery",
			zap.String("delivery_id", deliveryID),
			zap.String("event", event),
			zap.String("action", payload.Action),
			zap.String("status", delivery.Status),
		)

		if err != nil {
			log.Error("handle webhook", zap.String("delivery_id", deliveryID), zap.Error(err))
			status, errResp := HandleError(err)
			WriteError(w, status, errResp)
			return
		}
		if handled && event == "pull_request" {
			stats.Refresh(r.Context())
		}

		writeJSON(w, http.StatusOK, WebhookResponse{Status: delivery.Status})
	}
}

// handleEvent applies one event and reports whether it changed anything.
func handleEvent(ctx context.Context, event string, p webhookPayload, installs InstallationWriter, reviews ReviewCreator) (bool, error) {
	switch event {
	case "installation":
		if p.Installation == nil {
			return false, fmt.Errorf("%w: installation event without installation", errInvalidInput)
		}
		return handleInstallation(ctx, p, installs)

	case "pull_request":
		switch p.Action {
		case "opened", "synchronize", "reopened":
		default:
			return false, nil
		}
		if p.Repository == nil || p.PullRequest == nil {
			return false, fmt.Errorf("%w: pull_request event without repository", errInvalidInput)
		}
		_, err := reviews.CreateReview(ctx, models.Review{
			InstallationID: p.installationID(),
			Repository:     p.Repository.FullName,
			PullNumber:     p.PullRequest.Number,
			HeadSHA:        p.PullRequest.Head.SHA,
			Status:         models.ReviewPending,
		})
		return err == nil, err
	}

	return false, nil
}

func handleInstallation(ctx context.Context, p webhookPayload, installs InstallationWriter) (bool, error) {
	id := p.Installation.ID

	var err error
	switch p.Action {
	case "created", "new_permissions_accepted":
		err = installs.UpsertInstallation(ctx, models.Installation{
			ID:                  id,
			AccountLogin:        p.Installation.Account.Login,
			AccountType:         p.Installation.Account.Type,
			RepositorySelection: p.Installation.RepositorySelection,
		})
	case "deleted":
		err = installs.DeleteInstallation(ctx, id)
	case "suspend":
		now := time.Now().UTC()
		err = installs.SetInstallationSuspended(ctx, id, &now)
	case "unsuspend":
		err = installs.SetInstallationSuspended(ctx, id, nil)
	default:
		return false, nil
	}

	// An installation we never saw is nothing to delete or suspend.
	if errors.Is(err, database.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}
