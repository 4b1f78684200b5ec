// models/user.go
package models

import (
	"time"
)

// User is a GitHub identity that signed in to the dashboard.
type User struct {
	ID        int64     `json:"id"`
	GitHubID  int64     `json:"github_id"`
	Login     string    `json:"login"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	LastLogin time.Time `json:"last_login"`
}

// DisplayName falls back to the login when the profile has no name.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Login
}

// AuthState is what the route guard sees for a request. Loading means the
// user behind the session has not been resolved yet.
type AuthState struct {
	User    *User
	Loading bool
}

func (s AuthState) Authenticated() bool {
	return !s.Loading && s.User != nil
}
