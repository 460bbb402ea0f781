package integration

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/matthewjwhite/sitecfg/internal/application"
	"github.com/matthewjwhite/sitecfg/internal/config"
	"github.com/matthewjwhite/sitecfg/internal/site"
)

func newServer(t *testing.T, configYAML string) *httptest.Server {
	t.Helper()

	for _, key := range []string{"SITE_URL", "SYNTAX_HIGHLIGHT", "SITE_INTEGRATIONS", "PORT", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	path := filepath.Join(t.TempDir(), "site.yaml")
	if err := os.WriteFile(path, []byte(configYAML), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(&config.CLIOverrides{ConfigFile: path})
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	record, err := site.Build(cfg.Site)
	if err != nil {
		t.Fatalf("build record: %v", err)
	}
	app, err := application.New(cfg, record, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("new application: %v", err)
	}

	srv := httptest.NewServer(app.Server().Handler)
	t.Cleanup(srv.Close)
	return srv
}

func getJSON(t *testing.T, url string, out any) {
	t.Helper()

	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode %s: %v", url, err)
	}
}

func TestIntegrationFlow(t *testing.T) {
	srv := newServer(t, `
site: https://matthewjwhite.co.uk
integrations:
  - name: mdx
  - name: sitemap
    options:
      changefreq: monthly
markdown:
  syntax_highlight: prism
server:
  enable_request_logging: true
`)

	var health struct {
		Status string `json:"status"`
	}
	getJSON(t, srv.URL+"/api/health", &health)
	if health.Status != "ok" {
		t.Fatalf("unexpected health status %q", health.Status)
	}

	var doc site.Document
	getJSON(t, srv.URL+"/api/config", &doc)
	if doc.Site != "https://matthewjwhite.co.uk" || doc.Markdown.SyntaxHighlight != site.ModePrism {
		t.Fatalf("unexpected document %+v", doc)
	}
	if got := doc.Integrations[1].Options["changefreq"]; got != "monthly" {
		t.Fatalf("expected sitemap changefreq monthly, got %v", got)
	}

	var raw any
	getJSON(t, srv.URL+"/api/config", &raw)
	if err := site.ValidateDocument(raw); err != nil {
		t.Fatalf("served document failed schema validation: %v", err)
	}
}
