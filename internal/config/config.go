package config

import (
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config is the full runtime configuration, populated from the environment.
// godotenv loads a local .env first in main, so development setups need no
// exported variables.
type Config struct {
	Env  string `split_words:"true" default:"development"`
	Port string `split_words:"true" default:"8080"`

	// External API set (products, sales, reviews, analysis, purchase).
	APIBaseURL      string        `envconfig:"API_BASE_URL" default:"http://localhost:3000"`
	APITimeout      time.Duration `envconfig:"API_TIMEOUT" default:"10s"`
	CatalogTTL      time.Duration `envconfig:"CATALOG_TTL" default:"60s"`
	APITokenURL     string        `envconfig:"API_TOKEN_URL"`
	APIClientID     string        `envconfig:"API_CLIENT_ID"`
	APIClientSecret string        `envconfig:"API_CLIENT_SECRET"`

	// Cart persistence. cookie keeps the cart on the client the way the
	// original store did; file/redis/postgres hold it server-side keyed by
	// the session cookie.
	CartBackend string `split_words:"true" default:"cookie"`
	SessionKey  string `split_words:"true" default:"dev-insecure"`
	StorageDir  string `split_words:"true" default:"data"`
	RedisURL    string `envconfig:"REDIS_URL"`
	DBDSN       string `envconfig:"DB_DSN"`
}

func (c Config) IsDev() bool {
	return c.Env == "" || c.Env == "development" || c.Env == "dev"
}

func Load() (Config, error) {
	var c Config
	if err := envconfig.Process("", &c); err != nil {
		return Config{}, err
	}
	return c, nil
}
