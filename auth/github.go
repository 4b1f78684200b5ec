package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	"ghagga-dashboard/models"
)

var (
	ErrStateMismatch = errors.New("oauth state mismatch")
	ErrMissingCode   = errors.New("oauth callback without code")
	ErrDenied        = errors.New("github login was denied")
)

// UserWriter persists GitHub profiles.
type UserWriter interface {
	UpsertGitHubUser(ctx context.Context, u models.User) (*models.User, error)
}

type GitHubConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
	APIURL       string
	// Endpoint overrides the github.com OAuth endpoints, for tests.
	Endpoint *oauth2.Endpoint
}

// GitHub drives the "Sign in with GitHub" flow.
type GitHub struct {
	oauth  *oauth2.Config
	apiURL string
	store  sessions.Store
	users  UserWriter
	log    *zap.Logger
}

func NewGitHub(cfg GitHubConfig, store sessions.Store, users UserWriter, log *zap.Logger) *GitHub {
	endpoint := github.Endpoint
	if cfg.Endpoint != nil {
		endpoint = *cfg.Endpoint
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = "https://api.github.com"
	}

	return &GitHub{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     endpoint,
		},
		apiURL: apiURL,
		store:  store,
		users:  users,
		log:    log,
	}
}

// Begin stores a fresh state in the session and redirects to GitHub.
func (g *GitHub) Begin(w http.ResponseWriter, r *http.Request) error {
	session, _ := g.store.Get(r, SessionName)
	state := uuid.NewString()
	session.Values[keyState] = state
	if err := session.Save(r, w); err != nil {
		return fmt.Errorf("save oauth state: %w", err)
	}

	http.Redirect(w, r, g.oauth.AuthCodeURL(state), http.StatusFound)
	return nil
}

// Complete handles the callback: checks state, exchanges the code, loads the
// GitHub profile, stores the user and signs the session in.
func (g *GitHub) Complete(w http.ResponseWriter, r *http.Request) (*models.User, error) {
	q := r.URL.Query()
	if e := q.Get("error"); e != "" {
		return nil, fmt.Errorf("%w: %s", ErrDenied, e)
	}

	session, _ := g.store.Get(r, SessionName)
	expected, _ := session.Values[keyState].(string)
	delete(session.Values, keyState)
	if expected == "" || q.Get("state") != expected {
		return nil, ErrStateMismatch
	}

	code := q.Get("code")
	if code == "" {
		return nil, ErrMissingCode
	}

	ctx := r.Context()
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	profile, err := g.fetchProfile(ctx, g.oauth.Client(ctx, token))
	if err != nil {
		return nil, err
	}

	user, err := g.users.UpsertGitHubUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	if err := SignIn(g.store, w, r, user.ID); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	g.log.Info("user signed in", zap.Int64("user_id", user.ID), zap.String("login", user.Login))
	return user, nil
}

type githubProfile struct {
	ID        int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url"`
}

func (g *GitHub) fetchProfile(ctx context.Context, client *http.Client) (models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.apiURL+"/user", nil)
	if err != nil {
		return models.User{}, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := client.Do(req)
	if err != nil {
		return models.User{}, fmt.Errorf("fetch github profile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return models.User{}, fmt.Errorf("fetch github profile: status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p githubProfile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return models.User{}, fmt.Errorf("decode github profile: %w", err)
	}
	if p.ID == 0 || p.Login == "" {
		return models.User{}, errors.New("github profile without id or login")
	}

	return models.User{
		GitHubID:  p.ID,
		Login:     p.Login,
		Name:      p.Name,
		Email:     p.Email,
		AvatarURL: p.AvatarURL,
	}, nil
}
