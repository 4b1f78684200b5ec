// handlers/profile.go
package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

type ProfileResponse struct {
	User     *models.User        `json:"user"`
	Settings models.UserSettings `json:"settings"`
}

// GetMyProfile returns the signed-in user with their settings.
func GetMyProfile(repo SettingsRepository, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())

		settings, err := repo.GetSettings(r.Context(), user.ID)
		if err != nil {
			log.Error("load settings", zap.Int64("user_id", user.ID), zap.Error(err))
			status, errResp := HandleError(err)
			WriteError(w, status, errResp)
			return
		}

		writeJSON(w, http.StatusOK, ProfileResponse{User: user, Settings: settings})
	}
}
