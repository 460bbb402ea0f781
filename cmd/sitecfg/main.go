package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/matthewjwhite/sitecfg/internal/application"
	"github.com/matthewjwhite/sitecfg/internal/config"
	"github.com/matthewjwhite/sitecfg/internal/logging"
	"github.com/matthewjwhite/sitecfg/internal/site"
)

var signalNotify = signal.Notify

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "sitecfg: %v\n", err)
		os.Exit(1)
	}
}

type cli struct {
	app *kingpin.Application

	configFile      *string
	site            *string
	syntaxHighlight *string
	integrations    *[]string
	port            *string
	rateLimitRPS    *float64
	rateLimitBurst  *int
	logLevel        *string

	print    *kingpin.CmdClause
	format   *string
	validate *kingpin.CmdClause
	document *string
	serve    *kingpin.CmdClause
}

func newCLI() *cli {
	app := kingpin.New("sitecfg", "Site configuration loader - builds and validates the configuration record consumed by the static-site build")
	c := &cli{
		app:             app,
		configFile:      app.Flag("config", "Path to a YAML or TOML configuration file").String(),
		site:            app.Flag("site", "Canonical absolute URL of the deployed site").String(),
		syntaxHighlight: app.Flag("syntax-highlight", "Syntax highlighting backend (prism, shiki)").String(),
		integrations:    app.Flag("integration", "Integration to enable with default options (repeatable)").Strings(),
		port:            app.Flag("port", "HTTP port exposed by the serve command").String(),
		rateLimitRPS:    app.Flag("rate-limit-rps", "Requests per second allowed (set 0 to disable)").Default("-1").Float64(),
		rateLimitBurst:  app.Flag("rate-limit-burst", "Burst capacity for rate limiter (set 0 to disable)").Default("-1").Int(),
		logLevel:        app.Flag("log-level", "Log level (debug, info, warn, error)").String(),
	}

	c.print = app.Command("print", "Write the configuration record to stdout").Default()
	c.format = c.print.Flag("format", "Output format").Default(string(site.FormatJSON)).Enum(site.Formats()...)

	c.validate = app.Command("validate", "Validate the configuration without writing it")
	c.document = c.validate.Flag("document", "Also validate a previously written JSON document").String()

	c.serve = app.Command("serve", "Serve the configuration record over HTTP")

	return c
}

func (c *cli) overrides() *config.CLIOverrides {
	overrides := &config.CLIOverrides{
		ConfigFile:   *c.configFile,
		Integrations: *c.integrations,
	}
	if *c.site != "" {
		overrides.Site = c.site
	}
	if *c.syntaxHighlight != "" {
		overrides.SyntaxHighlight = c.syntaxHighlight
	}
	if *c.port != "" {
		overrides.Port = c.port
	}
	if *c.rateLimitRPS >= 0 {
		overrides.RateLimitRPS = c.rateLimitRPS
	}
	if *c.rateLimitBurst >= 0 {
		overrides.RateLimitBurst = c.rateLimitBurst
	}
	if *c.logLevel != "" {
		overrides.LogLevel = c.logLevel
	}
	return overrides
}

func run(args []string, stdout io.Writer) error {
	c := newCLI()
	command, err := c.app.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(c.overrides())
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	record, err := site.Build(cfg.Site)
	if err != nil {
		logValidationError(logger, err)
		return err
	}

	switch command {
	case c.print.FullCommand():
		var buf bytes.Buffer
		if err := record.Encode(&buf, site.Format(*c.format)); err != nil {
			return err
		}
		_, err := buf.WriteTo(stdout)
		return err

	case c.validate.FullCommand():
		if *c.document != "" {
			if err := validateDocumentFile(*c.document); err != nil {
				logValidationError(logger, err)
				return fmt.Errorf("document %s: %w", *c.document, err)
			}
		}
		logger.Info("configuration valid",
			zap.String("site", record.Site()),
			zap.Int("integrations", len(record.Integrations())),
			zap.String("syntax_highlight", string(record.Markdown().SyntaxHighlight().Mode())),
		)
		return nil

	case c.serve.FullCommand():
		app, err := application.New(cfg, record, logger)
		if err != nil {
			return fmt.Errorf("initialize application: %w", err)
		}
		if err := app.Start(); err != nil {
			return fmt.Errorf("start server: %w", err)
		}
		shutdown(app.Server(), cfg.ShutdownGracePeriod, logger)
		return nil
	}

	return fmt.Errorf("unknown command %q", command)
}

func validateDocumentFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("parse JSON: %w", err)
	}
	return site.ValidateDocument(instance)
}

func logValidationError(logger *zap.Logger, err error) {
	var cve *site.ConfigValidationError
	if errors.As(err, &cve) {
		logger.Error("invalid site configuration",
			zap.String("field", cve.Field),
			zap.String("reason", cve.Reason),
		)
		return
	}
	logger.Error("invalid site configuration", zap.Error(err))
}

func shutdown(server *http.Server, timeout time.Duration, logger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signalNotify(quit, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		if closeErr := server.Close(); closeErr != nil {
			logger.Error("forced close failed", zap.Error(closeErr))
		}
	}
}
