package main

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ghagga-dashboard/auth"
	"ghagga-dashboard/handlers"
	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

type stubResolver struct{ state models.AuthState }

func (s stubResolver) Resolve(ctx context.Context, userID int64) models.AuthState {
	if userID == 0 {
		return models.AuthState{}
	}
	return s.state
}

func (stubResolver) Forget(int64) {}

type stubStats struct{}

func (stubStats) Snapshot() models.StatsState {
	return models.StatsState{Stats: &models.StatsSummary{TotalReviews: 4, PassedReviews: 4}}
}

func (stubStats) Refresh(context.Context) {}

type stubScanner struct{}

func (stubScanner) Scan(ctx context.Context, req models.ScanRequest) (*models.ScanResponse, error) {
	return &models.ScanResponse{Findings: []models.Finding{}}, nil
}

func (stubScanner) Version(context.Context) string { return "1.85.0" }

type stubRepos struct{}

func (stubRepos) ListInstallations(context.Context) ([]models.Installation, error) {
	return nil, nil
}

func (stubRepos) UpsertInstallation(context.Context, models.Installation) error {
	return nil
}

func (stubRepos) DeleteInstallation(context.Context, int64) error {
	return nil
}

func (stubRepos) SetInstallationSuspended(context.Context, int64, *time.Time) error {
	return nil
}

func (stubRepos) ListDeliveries(context.Context, int) ([]models.WebhookDelivery, error) {
	return nil, nil
}

func (stubRepos) RecordDelivery(context.Context, models.WebhookDelivery) error {
	return nil
}

func (stubRepos) CompletePendingReview(context.Context, models.Review) error {
	return nil
}

func (stubRepos) CreateReview(context.Context, models.Review) (int64, error) {
	return 1, nil
}

func (stubRepos) GetSettings(context.Context, int64) (models.UserSettings, error) {
	return models.DefaultSettings(), nil
}

func (stubRepos) UpdateSettings(context.Context, int64, models.UserSettings) error {
	return nil
}

type stubOAuth struct{}

func (stubOAuth) Begin(w http.ResponseWriter, r *http.Request) error {
	http.Redirect(w, r, "https://github.com/login/oauth/authorize", http.StatusFound)
	return nil
}

func (stubOAuth) Complete(w http.ResponseWriter, r *http.Request) (*models.User, error) {
	return nil, auth.ErrDenied
}

const webhookSecret = "hook-secret"

func newTestServer(t *testing.T, state models.AuthState) (*server, *auth.TokenIssuer) {
	t.Helper()
	templates, err := fs.Sub(assets, "templates")
	require.NoError(t, err)
	static, err := fs.Sub(assets, "static")
	require.NoError(t, err)
	render, err := handlers.NewRenderer(templates, zap.NewNop())
	require.NoError(t, err)

	keys, err := auth.DeriveKeys("0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	tokens := auth.NewTokenIssuer(keys.JWT, time.Hour)

	return &server{
		log:           zap.NewNop(),
		render:        render,
		static:        static,
		store:         auth.NewStore(keys, time.Hour, false),
		resolver:      stubResolver{state: state},
		oauth:         stubOAuth{},
		tokens:        tokens,
		stats:         stubStats{},
		stream:        http.NotFoundHandler(),
		scan:          stubScanner{},
		installations: stubRepos{},
		deliveries:    stubRepos{},
		reviews:       stubRepos{},
		settings:      stubRepos{},
		baseURL:       "http://localhost:8181",
		webhookSecret: webhookSecret,
		corsOrigins:   []string{"http://localhost:3000"},
	}, tokens
}

func TestRoutes_GuardedPagesRedirect(t *testing.T) {
	s, _ := newTestServer(t, models.AuthState{})
	h := s.routes()

	for _, path := range []string{"/", "/installations", "/webhooks", "/settings"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader), path)
	}
}

func TestRoutes_PublicPages(t *testing.T) {
	s, _ := newTestServer(t, models.AuthState{})
	h := s.routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sign in with GitHub")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"semgrep_version":"1.85.0"`)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/css/app.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth/github", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestRoutes_API(t *testing.T) {
	s, tokens := newTestServer(t, models.AuthState{User: &models.User{ID: 7, Login: "octocat"}})
	h := s.routes()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	token, _, err := tokens.Issue(&models.User{ID: 7, Login: "octocat"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/stats", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"totalReviews":4`)
}

func TestRoutes_Webhook(t *testing.T) {
	s, _ := newTestServer(t, models.AuthState{})
	h := s.routes()
	body := `{"zen":"Keep it logically awesome."}`

	req := httptest.NewRequest(http.MethodPost, "/api/webhooks/github", strings.NewReader(body))
	req.Header.Set("X-GitHub-Event", "ping")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/webhooks/github", strings.NewReader(body))
	req.Header.Set("X-GitHub-Event", "ping")
	req.Header.Set(middleware.SignatureHeader, middleware.Sign(webhookSecret, []byte(body)))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"ignored"`)
}
