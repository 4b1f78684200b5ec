package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"ghagga-dashboard/models"
)

type MockSettings struct {
	mock.Mock
}

func (m *MockSettings) GetSettings(ctx context.Context, userID int64) (models.UserSettings, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserSettings), args.Error(1)
}

func (m *MockSettings) UpdateSettings(ctx context.Context, userID int64, s models.UserSettings) error {
	args := m.Called(ctx, userID, s)
	return args.Error(0)
}

func postSettings(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/settings", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return asUser(req, testUser)
}

func TestSettingsPage(t *testing.T) {
	repo := new(MockSettings)
	st := models.DefaultSettings()
	st.ReviewMode = models.ReviewModeConsensus
	repo.On("GetSettings", mock.Anything, int64(7)).Return(st, nil)

	rec := httptest.NewRecorder()
	SettingsPage(repo, newTestRenderer(t), zap.NewNop()).
		ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/settings?saved=1", nil), testUser))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `<option value="consensus" selected>Consensus</option>`)
	assert.Contains(t, body, "Settings saved.")
	repo.AssertExpectations(t)
}

func TestUpdateSettings(t *testing.T) {
	repo := new(MockSettings)
	repo.On("UpdateSettings", mock.Anything, int64(7), models.UserSettings{
		ReviewMode:         models.ReviewModeWorkflow,
		Theme:              "light",
		EmailNotifications: true,
	}).Return(nil)

	rec := httptest.NewRecorder()
	UpdateSettings(repo, newTestRenderer(t), zap.NewNop()).ServeHTTP(rec, postSettings(url.Values{
		"review_mode":         {"workflow"},
		"theme":               {"light"},
		"email_notifications": {"on"},
	}))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/settings?saved=1", rec.Header().Get("Location"))
	repo.AssertExpectations(t)
}

func TestUpdateSettings_Invalid(t *testing.T) {
	repo := new(MockSettings)

	rec := httptest.NewRecorder()
	UpdateSettings(repo, newTestRenderer(t), zap.NewNop()).ServeHTTP(rec, postSettings(url.Values{
		"review_mode": {"yolo"},
		"theme":       {"dark"},
	}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Unknown review mode.")
	repo.AssertNotCalled(t, "UpdateSettings", mock.Anything, mock.Anything, mock.Anything)
}
