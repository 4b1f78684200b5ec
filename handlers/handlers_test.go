package handlers

import (
	"context"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

var testUser = &models.User{ID: 7, GitHubID: 583231, Login: "octocat", Name: "The Octocat"}

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	rd, err := NewRenderer(os.DirFS("../templates"), zap.NewNop())
	require.NoError(t, err)
	return rd
}

// asUser puts the user on the request the way the route guard does.
func asUser(r *http.Request, u *models.User) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), u))
}

type fakeStats struct {
	state     models.StatsState
	refreshed int
}

func (f *fakeStats) Snapshot() models.StatsState { return f.state }

func (f *fakeStats) Refresh(ctx context.Context) { f.refreshed++ }

func sampleSummary() *models.StatsSummary {
	return &models.StatsSummary{
		TotalReviews:   12,
		PassedReviews:  7,
		FailedReviews:  3,
		PendingReviews: 2,
		ReviewsOverTime: []models.ReviewsOnDate{
			{Date: "2026-10-01", Passed: 3, Failed: 1},
			{Date: "2026-10-02", Passed: 4, Failed: 2},
		},
	}
}

func readyState(s *models.StatsSummary) models.StatsState {
	return models.StatsState{Stats: s, UpdatedAt: time.Date(2026, 10, 2, 9, 30, 0, 0, time.UTC)}
}
