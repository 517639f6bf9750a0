package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

type Environment struct {
	IsDevelopment bool
	Domain        string
	CookieSecure  bool
}

// Config is everything the server reads from the environment.
type Config struct {
	Port           string
	DatabaseURL    string
	JWTSecret      string
	JWTIssuer      string
	JWTAudience    string
	TokenTTL       time.Duration
	AllowedOrigins []string
	LogLevel       string
	Env            Environment
}

// LoadEnvironment derives cookie settings from COOKIE_DOMAIN. No domain
// means local development.
func LoadEnvironment() Environment {
	domain := os.Getenv("COOKIE_DOMAIN")

	isDev := domain == ""
	if isDev {
		domain = "localhost"
	}

	return Environment{
		IsDevelopment: isDev,
		Domain:        domain,
		CookieSecure:  !isDev,
	}
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getenv("PORT", "8080"),
		DatabaseURL: DatabaseURL(),
		JWTSecret:   os.Getenv("JWT_SECRET_KEY"),
		JWTIssuer:   getenv("JWT_ISSUER", "formbook-api"),
		JWTAudience: getenv("JWT_AUDIENCE", "formbook"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Env:         LoadEnvironment(),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET_KEY not set")
	}

	ttl, err := time.ParseDuration(getenv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("config: invalid TOKEN_TTL: %w", err)
	}
	cfg.TokenTTL = ttl

	origins := getenv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg, nil
}

// DatabaseURL is read on its own so maintenance commands run without a JWT secret.
func DatabaseURL() string {
	return getenv("DB_URL", "sqlite:formbook.db")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
