// config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrSessionSecret  = errors.New("SESSION_SECRET must be at least 32 bytes")
	ErrGitHubClient   = errors.New("GITHUB_CLIENT_ID and GITHUB_CLIENT_SECRET are required")
	ErrStatsAPIURL    = errors.New("STATS_API_URL is required when STATS_SOURCE=api")
	ErrStatsSource    = errors.New("STATS_SOURCE must be one of database, api")
	ErrDatabaseConfig = errors.New("DB_USER and DB_NAME are required when DATABASE_URL is empty")
)

const (
	StatsSourceDatabase = "database"
	StatsSourceAPI      = "api"
)

type AppConfig struct {
	Env     string `env:"APP_ENV" envDefault:"dev"`
	Addr    string `env:"APP_ADDR" envDefault:":8181"`
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8181"`
}

type DatabaseConfig struct {
	URL      string `env:"DATABASE_URL"`
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"ghagga"`
}

type GitHubConfig struct {
	ClientID      string   `env:"GITHUB_CLIENT_ID"`
	ClientSecret  string   `env:"GITHUB_CLIENT_SECRET"`
	WebhookSecret string   `env:"GITHUB_WEBHOOK_SECRET"`
	Scopes        []string `env:"GITHUB_SCOPES" envSeparator:"," envDefault:"read:user,user:email"`
	APIURL        string   `env:"GITHUB_API_URL" envDefault:"https://api.github.com"`
}

type SessionConfig struct {
	Secret       string        `env:"SESSION_SECRET"`
	MaxAge       time.Duration `env:"SESSION_MAX_AGE" envDefault:"24h"`
	TokenTTL     time.Duration `env:"TOKEN_TTL" envDefault:"1h"`
	AuthWait     time.Duration `env:"AUTH_WAIT" envDefault:"300ms"`
	CacheTTL     time.Duration `env:"AUTH_CACHE_TTL" envDefault:"1m"`
	SecureCookie bool          `env:"SESSION_SECURE" envDefault:"false"`
}

type StatsConfig struct {
	Source   string        `env:"STATS_SOURCE" envDefault:"database"`
	APIURL   string        `env:"STATS_API_URL"`
	APIToken string        `env:"STATS_API_TOKEN"`
	Refresh  time.Duration `env:"STATS_REFRESH" envDefault:"30s"`
	Days     int           `env:"STATS_DAYS" envDefault:"30"`
}

type ScannerConfig struct {
	Bin     string        `env:"SEMGREP_BIN" envDefault:"semgrep"`
	Rules   string        `env:"SEMGREP_RULES" envDefault:"rules.yml"`
	Timeout time.Duration `env:"SEMGREP_TIMEOUT" envDefault:"60s"`
}

type CORSConfig struct {
	Origins []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:8181"`
}

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	GitHub   GitHubConfig
	Session  SessionConfig
	Stats    StatsConfig
	Scanner  ScannerConfig
	CORS     CORSConfig
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return Parse()
}

// Parse builds the config from the process environment only.
func Parse() (*Config, error) {
	var c Config
	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	if err := makeDatabaseURL(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if len(c.Session.Secret) < 32 {
		return ErrSessionSecret
	}
	if c.GitHub.ClientID == "" || c.GitHub.ClientSecret == "" {
		return ErrGitHubClient
	}
	switch c.Stats.Source {
	case StatsSourceDatabase:
	case StatsSourceAPI:
		if c.Stats.APIURL == "" {
			return ErrStatsAPIURL
		}
	default:
		return fmt.Errorf("%w: got %q", ErrStatsSource, c.Stats.Source)
	}
	return nil
}

func (c *Config) IsProd() bool {
	return c.App.Env == "prod"
}

// CallbackURL is the OAuth redirect registered on the GitHub app.
func (c *Config) CallbackURL() string {
	return c.App.BaseURL + "/auth/github/callback"
}

func makeDatabaseURL(c *Config) error {
	if c.Database.URL != "" {
		return nil
	}
	if c.Database.User == "" || c.Database.Name == "" {
		return ErrDatabaseConfig
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     c.Database.Host + ":" + c.Database.Port,
		Path:     c.Database.Name,
		RawQuery: "sslmode=disable",
	}
	c.Database.URL = u.String()
	return nil
}
