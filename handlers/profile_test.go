package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"ghagga-dashboard/models"
)

func TestGetMyProfile(t *testing.T) {
	repo := new(MockSettings)
	repo.On("GetSettings", mock.Anything, int64(7)).Return(models.DefaultSettings(), nil)

	rec := httptest.NewRecorder()
	GetMyProfile(repo, zap.NewNop()).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), testUser))

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp ProfileResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.User)
	assert.Equal(t, "octocat", resp.User.Login)
	assert.Equal(t, models.ReviewModeSimple, resp.Settings.ReviewMode)
}

func TestGetMyProfile_Error(t *testing.T) {
	repo := new(MockSettings)
	repo.On("GetSettings", mock.Anything, int64(7)).Return(models.UserSettings{}, errors.New("db down"))

	rec := httptest.NewRecorder()
	GetMyProfile(repo, zap.NewNop()).ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/me", nil), testUser))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db down")
}
