package handlers

import (
	"context"
	"net/http"
)

type VersionReporter interface {
	Version(ctx context.Context) string
}

type HealthResponse struct {
	Status         string `json:"status"`
	SemgrepVersion string `json:"semgrep_version"`
}

func Health(v VersionReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:         "ok",
			SemgrepVersion: v.Version(r.Context()),
		})
	}
}
