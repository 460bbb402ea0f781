package application

import (
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/matthewjwhite/sitecfg/internal/api"
	"github.com/matthewjwhite/sitecfg/internal/config"
	"github.com/matthewjwhite/sitecfg/internal/site"
)

// App encapsulates the served record and the HTTP server.
type App struct {
	record *site.SiteConfig
	router http.Handler
	logger *zap.Logger
	server *http.Server
}

// New wires the HTTP surface for record using the provided configuration.
func New(cfg config.Config, record *site.SiteConfig, logger *zap.Logger) (*App, error) {
	if record == nil {
		return nil, errors.New("site record is required")
	}

	router := api.NewRouter(api.NewHandler(record), logger,
		api.WithLogging(cfg.EnableRequestLogging),
		api.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
	)

	return &App{
		record: record,
		router: router,
		logger: logger,
		server: NewServer(cfg, router),
	}, nil
}

// NewServer creates and configures an HTTP server from the provided configuration.
func NewServer(cfg config.Config, handler http.Handler) *http.Server {
	addr := cfg.Port
	if !strings.Contains(addr, ":") {
		addr = ":" + addr
	}

	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// Start starts the HTTP server in a goroutine and logs the listening address.
func (a *App) Start() error {
	go func() {
		a.logger.Info("server listening",
			zap.String("addr", a.server.Addr),
			zap.String("site", a.record.Site()),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Fatal("server error", zap.Error(err))
		}
	}()
	return nil
}

// Server returns the HTTP server instance for shutdown handling.
func (a *App) Server() *http.Server {
	return a.server
}
