package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the example server's configuration, read from the environment.
type Config struct {
	Addr string `env:"ADDR" envDefault:"localhost"`
	Port string `env:"PORT" envDefault:"8080"`

	// DatabaseURL is a postgres DSN; empty keeps resources in memory
	DatabaseURL string `env:"DATABASE_URL"`

	AdminRootPath string `env:"ADMIN_ROOT_PATH" envDefault:"/admin"`
	AdminEmail    string `env:"ADMIN_EMAIL" envDefault:"test@example.com"`
	AdminPassword string `env:"ADMIN_PASSWORD" envDefault:"password"`
	BundleDir     string `env:"ADMIN_BUNDLE_DIR"`

	// AdminPasswordHash is a bcrypt hash; when set ADMIN_PASSWORD is ignored
	AdminPasswordHash string `env:"ADMIN_PASSWORD_HASH"`

	AuthEnabled    bool   `env:"AUTH_ENABLED" envDefault:"true"`
	CookiePassword string `env:"COOKIE_PASSWORD" envDefault:"a secret with minimum length of 32 characters"`
	CookieName     string `env:"COOKIE_NAME"`
	CookieSecure   bool   `env:"COOKIE_SECURE" envDefault:"false"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
	GinMode   string `env:"GIN_MODE" envDefault:"release"`
}

// Paths searched for a .env file, in order.
var EnvFiles = []string{"/etc/ginadmin/.env", ".env"}

// LoadConfig loads the first .env file found, then parses the environment.
func LoadConfig() (*Config, error) {
	loadEnvFile()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// ListenAddr is Addr:Port.
func (c *Config) ListenAddr() string {
	return c.Addr + ":" + c.Port
}

func loadEnvFile() {
	for _, path := range EnvFiles {
		if err := godotenv.Load(path); err == nil {
			log.Printf("Loaded %s", path)
			return
		}
	}
	log.Println("No .env found; using environment and defaults.")
}
