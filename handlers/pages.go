// handlers/pages.go
package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

type InstallationLister interface {
	ListInstallations(ctx context.Context) ([]models.Installation, error)
}

type DeliveryLister interface {
	ListDeliveries(ctx context.Context, limit int) ([]models.WebhookDelivery, error)
}

func InstallationsPage(installations InstallationLister, rd *Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := installations.ListInstallations(r.Context())
		if err != nil {
			log.Error("list installations", zap.Error(err))
			rd.RenderError(w, http.StatusInternalServerError, "Could not load installations.")
			return
		}

		rd.Render(w, http.StatusOK, "installations", models.InstallationsData{
			Page: models.Page{
				Title:  "Installations",
				Active: "installations",
				User:   middleware.UserFromContext(r.Context()),
			},
			Installations: list,
		})
	}
}

// WebhooksPage lists recent deliveries and the URL GitHub should post to.
func WebhooksPage(deliveries DeliveryLister, baseURL string, rd *Renderer, log *zap.Logger) http.HandlerFunc {
	endpoint := strings.TrimRight(baseURL, "/") + "/api/webhooks/github"

	return func(w http.ResponseWriter, r *http.Request) {
		list, err := deliveries.ListDeliveries(r.Context(), 50)
		if err != nil {
			log.Error("list webhook deliveries", zap.Error(err))
			rd.RenderError(w, http.StatusInternalServerError, "Could not load webhook deliveries.")
			return
		}

		rd.Render(w, http.StatusOK, "webhooks", models.WebhooksData{
			Page: models.Page{
				Title:  "Webhooks",
				Active: "webhooks",
				User:   middleware.UserFromContext(r.Context()),
			},
			Deliveries: list,
			Endpoint:   endpoint,
		})
	}
}
