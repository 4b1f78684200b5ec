// handlers/auth.go
package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"ghagga-dashboard/auth"
	"ghagga-dashboard/middleware"
	"ghagga-dashboard/models"
)

// OAuthFlow is the GitHub sign-in flow.
type OAuthFlow interface {
	Begin(w http.ResponseWriter, r *http.Request) error
	Complete(w http.ResponseWriter, r *http.Request) (*models.User, error)
}

// SessionResolver resolves and forgets session users.
type SessionResolver interface {
	Resolve(ctx context.Context, userID int64) models.AuthState
	Forget(userID int64)
}

type TokenIssuer interface {
	Issue(u *models.User) (string, time.Time, error)
}

type TokenResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresAt time.Time `json:"expires_at"`
	User      string    `json:"user"`
}

// LoginPage shows "Sign in with GitHub". A signed-in user goes straight to
// the dashboard.
func LoginPage(store sessions.Store, resolver SessionResolver, rd *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := resolver.Resolve(r.Context(), auth.SessionUserID(store, r))
		switch {
		case state.Loading:
			rd.Render(w, http.StatusOK, "loading", nil)
			return
		case state.Authenticated():
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		rd.Render(w, http.StatusOK, "login", models.LoginData{Title: "Sign in"})
	}
}

// GitHubLogin is signInWithGitHub: it redirects to GitHub's consent page.
func GitHubLogin(flow OAuthFlow, rd *Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := flow.Begin(w, r); err != nil {
			log.Error("start github login", zap.Error(err))
			rd.Render(w, http.StatusInternalServerError, "login", models.LoginData{
				Title: "Sign in",
				Error: "Could not start GitHub sign-in. Please try again.",
			})
		}
	}
}

func GitHubCallback(flow OAuthFlow, rd *Renderer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, err := flow.Complete(w, r)
		if err == nil {
			log.Info("github login complete", zap.Int64("user_id", user.ID))
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		data := models.LoginData{Title: "Sign in"}
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, auth.ErrDenied):
			data.Error = "GitHub sign-in was cancelled."
			status = http.StatusOK
		case errors.Is(err, auth.ErrStateMismatch), errors.Is(err, auth.ErrMissingCode):
			data.Error = "Your sign-in attempt expired. Please try again."
		default:
			log.Error("github callback", zap.Error(err))
			data.Error = "GitHub sign-in failed. Please try again."
			status = http.StatusBadGateway
		}
		rd.Render(w, status, "login", data)
	}
}

func Logout(store sessions.Store, resolver SessionResolver, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if id := auth.SessionUserID(store, r); id != 0 {
			resolver.Forget(id)
		}
		if err := auth.ClearSession(store, w, r); err != nil {
			log.Error("clear session", zap.Error(err))
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

// IssueToken hands the caller a bearer token for the JSON API.
func IssueToken(tokens TokenIssuer, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := middleware.UserFromContext(r.Context())

		token, expires, err := tokens.Issue(user)
		if err != nil {
			log.Error("issue token", zap.Int64("user_id", user.ID), zap.Error(err))
			status, errResp := HandleError(err)
			WriteError(w, status, errResp)
			return
		}

		writeJSON(w, http.StatusOK, TokenResponse{
			Token:     token,
			TokenType: "Bearer",
			ExpiresAt: expires,
			User:      user.Login,
		})
	}
}
