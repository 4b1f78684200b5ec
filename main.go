package main

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"ghagga-dashboard/auth"
	"ghagga-dashboard/config"
	"ghagga-dashboard/database"
	"ghagga-dashboard/handlers"
	"ghagga-dashboard/logger"
	"ghagga-dashboard/scanner"
	"ghagga-dashboard/stats"
)

//go:embed templates/*.html static
var assets embed.FS

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Database
	db, err := database.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	users := database.NewUserStore(db)
	reviews := database.NewReviewStore(db)

	// Sessions and sign-in
	keys, err := auth.DeriveKeys(cfg.Session.Secret)
	if err != nil {
		return err
	}
	store := auth.NewStore(keys, cfg.Session.MaxAge, cfg.Session.SecureCookie || cfg.IsProd())
	github := auth.NewGitHub(auth.GitHubConfig{
		ClientID:     cfg.GitHub.ClientID,
		ClientSecret: cfg.GitHub.ClientSecret,
		RedirectURL:  cfg.CallbackURL(),
		Scopes:       cfg.GitHub.Scopes,
		APIURL:       cfg.GitHub.APIURL,
	}, store, users, log)

	// Stats
	var source stats.Source
	switch cfg.Stats.Source {
	case config.StatsSourceAPI:
		source = stats.NewAPIClient(cfg.Stats.APIURL, cfg.Stats.APIToken, &http.Client{Timeout: 10 * time.Second})
	default:
		source = stats.NewDBSource(reviews, cfg.Stats.Days)
	}
	loader := stats.NewLoader(source, cfg.Stats.Refresh, log)
	go loader.Run(ctx)

	// Pages
	templates, err := fs.Sub(assets, "templates")
	if err != nil {
		return err
	}
	static, err := fs.Sub(assets, "static")
	if err != nil {
		return err
	}
	render, err := handlers.NewRenderer(templates, log)
	if err != nil {
		return err
	}

	if cfg.GitHub.WebhookSecret == "" {
		log.Warn("GITHUB_WEBHOOK_SECRET is empty, webhook deliveries will be rejected")
	}

	s := &server{
		log:           log,
		render:        render,
		static:        static,
		store:         store,
		resolver:      auth.NewResolver(users, cfg.Session.AuthWait, cfg.Session.CacheTTL, log),
		oauth:         github,
		tokens:        auth.NewTokenIssuer(keys.JWT, cfg.Session.TokenTTL),
		stats:         loader,
		stream:        stats.NewStream(loader, log),
		scan:          scanner.New(scanner.Config(cfg.Scanner), log),
		installations: database.NewInstallationStore(db),
		deliveries:    database.NewWebhookStore(db),
		reviews:       reviews,
		settings:      database.NewSettingsStore(db),
		baseURL:       cfg.App.BaseURL,
		webhookSecret: cfg.GitHub.WebhookSecret,
		corsOrigins:   cfg.CORS.Origins,
	}

	srv := &http.Server{
		Handler:           s.routes(),
		Addr:              cfg.App.Addr,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Scanner.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.App.Addr), zap.String("base_url", cfg.App.BaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
