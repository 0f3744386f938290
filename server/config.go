package main

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type SessionConfig struct {
	CookieName string        `yaml:"cookie_name"`
	TTL        time.Duration `yaml:"ttl"`
	Secure     bool          `yaml:"secure"`
	SameSite   string        `yaml:"same_site"`
}

type GitHubConfig struct {
	// APIBase is overridable so tests can point at a stub server.
	APIBase           string `yaml:"api_base"`
	OAuthClientID     string `yaml:"oauth_client_id"`
	OAuthClientSecret string `yaml:"oauth_client_secret"`
	OAuthRedirectURL  string `yaml:"oauth_redirect_url"`
}

type Config struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"database_url"`
	// PublicOrigin is the origin embedded in share links; when empty the
	// request Host is used.
	PublicOrigin string        `yaml:"public_origin"`
	Session      SessionConfig `yaml:"session"`
	GitHub       GitHubConfig  `yaml:"github"`
}

func defaultConfig() Config {
	return Config{
		Addr:        ":8080",
		DatabaseURL: "postgres://postgres:postgres@db:5432/gitboard?sslmode=disable",
		Session: SessionConfig{
			CookieName: "gitboard_sess",
			TTL:        14 * 24 * time.Hour,
			SameSite:   "lax",
		},
		GitHub: GitHubConfig{APIBase: "https://api.github.com"},
	}
}

// LoadConfig reads the optional YAML file and applies environment overrides
// on top, so a bare container can run on env vars alone.
func LoadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	if f, err := os.Open(path); err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}
	overrideFromEnv(&cfg)
	return cfg, nil
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("PUBLIC_ORIGIN"); v != "" {
		cfg.PublicOrigin = v
	}
	if v := os.Getenv("SESSION_COOKIE_NAME"); v != "" {
		cfg.Session.CookieName = v
	}
	if v := os.Getenv("SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Session.TTL = d
		}
	}
	if v := os.Getenv("COOKIE_SECURE"); v != "" {
		cfg.Session.Secure = v == "true"
	}
	if v := os.Getenv("COOKIE_SAMESITE"); v != "" {
		cfg.Session.SameSite = v
	}
	if v := os.Getenv("GITHUB_API_BASE"); v != "" {
		cfg.GitHub.APIBase = v
	}
	if v := os.Getenv("OAUTH_GITHUB_CLIENT_ID"); v != "" {
		cfg.GitHub.OAuthClientID = v
	}
	if v := os.Getenv("OAUTH_GITHUB_CLIENT_SECRET"); v != "" {
		cfg.GitHub.OAuthClientSecret = v
	}
	if v := os.Getenv("OAUTH_GITHUB_REDIRECT_URL"); v != "" {
		cfg.GitHub.OAuthRedirectURL = v
	}
}
