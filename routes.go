package main

import (
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"

	"ghagga-dashboard/handlers"
	"ghagga-dashboard/middleware"
)

type tokenService interface {
	handlers.TokenIssuer
	middleware.TokenValidator
}

type statsService interface {
	handlers.StatsSnapshotter
	handlers.StatsRefresher
}

type scanService interface {
	handlers.Scanner
	handlers.VersionReporter
}

type installationRepo interface {
	handlers.InstallationLister
	handlers.InstallationWriter
}

type deliveryRepo interface {
	handlers.DeliveryLister
	handlers.DeliveryRecorder
}

type reviewRepo interface {
	handlers.ReviewRecorder
	handlers.ReviewCreator
}

// server carries everything the routes close over.
type server struct {
	log      *zap.Logger
	render   *handlers.Renderer
	static   fs.FS
	store    sessions.Store
	resolver handlers.SessionResolver
	oauth    handlers.OAuthFlow
	tokens   tokenService

	stats  statsService
	stream http.Handler
	scan   scanService

	installations installationRepo
	deliveries    deliveryRepo
	reviews       reviewRepo
	settings      handlers.SettingsRepository

	baseURL       string
	webhookSecret string
	corsOrigins   []string
}

func (s *server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.RequestID, middleware.Logger(s.log), middleware.Recovery(s.log))

	// Static files
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))

	r.HandleFunc("/health", handlers.Health(s.scan)).Methods("GET")

	// Sign-in
	r.HandleFunc("/login", handlers.LoginPage(s.store, s.resolver, s.render)).Methods("GET")
	r.HandleFunc("/auth/github", handlers.GitHubLogin(s.oauth, s.render, s.log)).Methods("GET")
	r.HandleFunc("/auth/github/callback", handlers.GitHubCallback(s.oauth, s.render, s.log)).Methods("GET")
	r.HandleFunc("/auth/logout", handlers.Logout(s.store, s.resolver, s.log)).Methods("POST")

	// GitHub webhooks carry their own signature instead of a session.
	hooks := r.PathPrefix("/api/webhooks").Subrouter()
	hooks.Use(middleware.VerifyGitHubSignature(s.webhookSecret))
	hooks.HandleFunc("/github", handlers.GitHubWebhook(s.installations, s.reviews, s.deliveries, s.stats, s.log)).Methods("POST")

	// JSON API
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.CORS(s.corsOrigins), middleware.APIAuth(s.store, s.resolver, s.tokens))
	api.HandleFunc("/stats", handlers.GetStats(s.stats, s.log)).Methods("GET", "OPTIONS")
	api.HandleFunc("/me", handlers.GetMyProfile(s.settings, s.log)).Methods("GET", "OPTIONS")
	api.HandleFunc("/auth/token", handlers.IssueToken(s.tokens, s.log)).Methods("POST", "OPTIONS")
	api.HandleFunc("/scan", handlers.Scan(s.scan, s.reviews, s.stats, s.log)).Methods("POST", "OPTIONS")

	// Dashboard pages
	pages := r.PathPrefix("/").Subrouter()
	pages.Use(middleware.RequireAuth(s.store, s.resolver, s.render.Loading()))
	pages.HandleFunc("/", handlers.Dashboard(s.stats, s.render)).Methods("GET")
	pages.HandleFunc("/installations", handlers.InstallationsPage(s.installations, s.render, s.log)).Methods("GET")
	pages.HandleFunc("/webhooks", handlers.WebhooksPage(s.deliveries, s.baseURL, s.render, s.log)).Methods("GET")
	pages.HandleFunc("/settings", handlers.SettingsPage(s.settings, s.render, s.log)).Methods("GET")
	pages.HandleFunc("/settings", handlers.UpdateSettings(s.settings, s.render, s.log)).Methods("POST")
	pages.Handle("/ws/stats", s.stream).Methods("GET")

	return r
}
