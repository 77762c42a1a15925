package app

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/phenrril/shopfront/internal/adapters/httpserver"
	"github.com/phenrril/shopfront/internal/adapters/shopapi"
	"github.com/phenrril/shopfront/internal/adapters/storage/localkv"
	"github.com/phenrril/shopfront/internal/adapters/storage/postgreskv"
	"github.com/phenrril/shopfront/internal/adapters/storage/rediskv"
	"github.com/phenrril/shopfront/internal/config"
	"github.com/phenrril/shopfront/internal/domain"
	"github.com/phenrril/shopfront/internal/views"
)

type App struct {
	Cfg     config.Config
	API     *shopapi.Client
	Backend domain.Storage
	Tmpl    *template.Template
}

func New(cfg config.Config) (*App, error) {
	api := shopapi.New(cfg.APIBaseURL, shopapi.Options{
		Timeout:      cfg.APITimeout,
		CatalogTTL:   cfg.CatalogTTL,
		TokenURL:     cfg.APITokenURL,
		ClientID:     cfg.APIClientID,
		ClientSecret: cfg.APIClientSecret,
	})

	backend, err := cartBackend(cfg)
	if err != nil {
		return nil, err
	}

	tmpl, err := views.Parse()
	if err != nil {
		return nil, err
	}

	return &App{Cfg: cfg, API: api, Backend: backend, Tmpl: tmpl}, nil
}

// cartBackend picks where carts live. nil means the default: a signed
// cookie held by the client itself.
func cartBackend(cfg config.Config) (domain.Storage, error) {
	switch strings.ToLower(cfg.CartBackend) {
	case "", "cookie":
		return nil, nil
	case "file":
		return localkv.New(cfg.StorageDir), nil
	case "redis":
		return rediskv.Config{URL: cfg.RedisURL}.New()
	case "postgres":
		db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
		if err != nil {
			return nil, err
		}
		return postgreskv.New(db)
	default:
		return nil, fmt.Errorf("unknown cart backend %q", cfg.CartBackend)
	}
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Tmpl, a.API, a.API, a.API, a.Backend, []byte(a.Cfg.SessionKey))
}
