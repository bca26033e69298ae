package config

import "os"

type Config struct {
	Server   ServerConfig
	Auth     AuthConfig
	OIDC     OIDCConfig
	Postgres PostgresConfig
	CORS     CORSConfig
}

type ServerConfig struct {
	Addr string
}

type AuthConfig struct {
	AccessSecret    string
	RefreshSecret   string
	AccessTTL       string
	RefreshTTL      string
	CSRFHeader      string
	CSRFSkipRefresh string
	RefetchUser     string
	CookieSecure    string
	CookieSameSite  string
	CookieDomain    string
	CookiePath      string
	AdminUsername   string
	AdminEmail      string
	AdminPassword   string
}

type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type CORSConfig struct {
	AllowedOrigins string
}

func Load() Config {
	return Config{
		Server: ServerConfig{
			Addr: getenv("LISTEN_ADDR", ":8080"),
		},
		Auth: AuthConfig{
			AccessSecret:    os.Getenv("ACCESS_TOKEN_SECRET"),
			RefreshSecret:   os.Getenv("REFRESH_TOKEN_SECRET"),
			AccessTTL:       getenv("ACCESS_TOKEN_TTL", "15m"),
			RefreshTTL:      getenv("REFRESH_TOKEN_TTL", "168h"),
			CSRFHeader:      getenv("AUTH_CSRF_HEADER", "X-Csrf-Token"),
			CSRFSkipRefresh: os.Getenv("AUTH_CSRF_SKIP_REFRESH"),
			RefetchUser:     os.Getenv("AUTH_REFETCH_USER"),
			CookieSecure:    os.Getenv("AUTH_COOKIE_SECURE"),
			CookieSameSite:  getenv("AUTH_COOKIE_SAMESITE", "strict"),
			CookieDomain:    os.Getenv("AUTH_COOKIE_DOMAIN"),
			CookiePath:      os.Getenv("AUTH_COOKIE_PATH"),
			AdminUsername:   os.Getenv("ADMIN_USERNAME"),
			AdminEmail:      os.Getenv("ADMIN_EMAIL"),
			AdminPassword:   os.Getenv("ADMIN_PASSWORD"),
		},
		OIDC: OIDCConfig{
			IssuerURL:    os.Getenv("OIDC_ISSUER_URL"),
			ClientID:     os.Getenv("OIDC_CLIENT_ID"),
			ClientSecret: os.Getenv("OIDC_CLIENT_SECRET"),
			RedirectURL:  os.Getenv("OIDC_REDIRECT_URL"),
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		CORS: CORSConfig{
			AllowedOrigins: os.Getenv("CORS_ALLOWED_ORIGINS"),
		},
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
