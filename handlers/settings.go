// handlers/settings.go
package handlers

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

type SettingsRepository interface {
	GetSettings(ctx context.Context, userID int64) (models.UserSettings, error)
	UpdateSettings(ctx context.Context, userID int64, s models.UserSettings) error
}

func settingsPage(r *http.Request) models.Page {
	return models.Page{
		Title:  "Settings",
		Active: "settings",
		User:   middleware.UserFromContext(r.Context()),
	}
}

func SettingsPage(repo SettingsRepository, rd *Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())

		settings, err := repo.GetSettings(r.Context(), user.ID)
		if err != nil {
			log.Error("load settings", zap.Int64("user_id", user.ID), zap.Error(err))
			rd.RenderError(w, http.StatusInternalServerError, "Could not load settings.")
			return
		}

		rd.Render(w, http.StatusOK, "settings", models.SettingsData{
			Page:     settingsPage(r),
			Settings: settings,
			Saved:    r.URL.Query().Get("saved") == "1",
		})
	}
}

// UpdateSettings handles the settings form and redirects back on success.
func UpdateSettings(repo SettingsRepository, rd *Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())

		if err := r.ParseForm(); err != nil {
			rd.Render(w, http.StatusBadRequest, "settings", models.SettingsData{
				Page:     settingsPage(r),
				Settings: models.DefaultSettings(),
				Error:    "Invalid form submission.",
			})
			return
		}

		settings := models.UserSettings{
			ReviewMode:         r.PostForm.Get("review_mode"),
			Theme:              r.PostForm.Get("theme"),
			EmailNotifications: r.PostForm.Get("email_notifications") == "on",
		}

		var problem string
		switch {
		case !models.ValidReviewMode(settings.ReviewMode):
			problem = "Unknown review mode."
		case !models.ValidTheme(settings.Theme):
			problem = "Unknown theme."
		}
		if problem != "" {
			rd.Render(w, http.StatusBadRequest, "settings", models.SettingsData{
				Page:     settingsPage(r),
				Settings: settings,
				Error:    problem,
			})
			return
		}

		if err := repo.UpdateSettings(r.Context(), user.ID, settings); err != nil {
			log.Error("save settings", zap.Int64("user_id", user.ID), zap.Error(err))
			rd.RenderError(w, http.StatusInternalServerError, "Could not save settings.")
			return
		}

		log.Info("settings updated",
			zap.Int64("user_id", user.ID),
			zap.String("review_mode", settings.ReviewMode),
		)
		http.Redirect(w, r, "/settings?saved=1", http.StatusSeeOther)
	}
}
