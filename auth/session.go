package auth

import (
	"net/http"
	"time"

	"github.com/gorilla/sessions"
)

const (
	SessionName = "ghagga_session"

	keyUserID = "user_id"
	keyState  = "oauth_state"
)

// NewStore builds the cookie store used for the dashboard session.
func NewStore(keys Keys, maxAge time.Duration, secure bool) *sessions.CookieStore {
	store := sessions.NewCookieStore(keys.CookieHash, keys.CookieBlock)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// SessionUserID returns the signed-in user id, or 0. A cookie that fails to
// decode counts as no session.
func SessionUserID(store sessions.Store, r *http.Request) int64 {
	session, err := store.Get(r, SessionName)
	if err != nil {
		return 0
	}
	id, _ := session.Values[keyUserID].(int64)
	return id
}

func ClearSession(store sessions.Store, w http.ResponseWriter, r *http.Request) error {
	session, _ := store.Get(r, SessionName)
	delete(session.Values, keyUserID)
	delete(session.Values, keyState)
	session.Options.MaxAge = -1
	return session.Save(r, w)
}

// SignIn records userID in the session cookie.
func SignIn(store sessions.Store, w http.ResponseWriter, r *http.Request, userID int64) error {
	session, _ := store.Get(r, SessionName)
	session.Values[keyUserID] = userID
	return session.Save(r, w)
}
