package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewjwhite/sitecfg/internal/integration"
)

func TestBuildConfigLiteral(t *testing.T) {
	cfg, err := BuildConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://matthewjwhite.co.uk", cfg.Site())

	integrations := cfg.Integrations()
	require.Len(t, integrations, 2)
	assert.Equal(t, integration.MDXName, integrations[0].Name())
	assert.Equal(t, integration.SitemapName, integrations[1].Name())
	assert.Empty(t, integrations[0].Options())
	assert.Empty(t, integrations[1].Options())

	assert.Equal(t, ModePrism, cfg.Markdown().SyntaxHighlight().Mode())
	assert.Equal(t, Prism{}, cfg.Markdown().SyntaxHighlight())
}

func TestBuildConfigIdempotent(t *testing.T) {
	first, err := BuildConfig()
	require.NoError(t, err)
	second, err := BuildConfig()
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.True(t, first.Equal(second))
	assert.Equal(t, first.Document(), second.Document())
}

func TestBuildKeepsSiteVerbatim(t *testing.T) {
	sites := []string{
		"https://matthewjwhite.co.uk",
		"https://matthewjwhite.co.uk/",
		"http://localhost:4321",
		"https://example.com/blog/",
		"https://user@example.com:8443/base?x=1",
		"HTTPS://matthewjwhite.co.uk",
		"Https://example.com",
		"ftp://example.com",
	}

	for _, raw := range sites {
		t.Run(raw, func(t *testing.T) {
			spec := Defaults()
			spec.Site = raw

			cfg, err := Build(spec)
			require.NoError(t, err)
			assert.Equal(t, raw, cfg.Site())
		})
	}
}

func TestBuildRejectsInvalidSite(t *testing.T) {
	sites := []string{"/foo", "not a url", "", "https://", "mailto:someone@example.com", "example.com", "://missing-scheme"}

	for _, raw := range sites {
		t.Run(raw, func(t *testing.T) {
			spec := Defaults()
			spec.Site = raw

			cfg, err := Build(spec)
			assert.Nil(t, cfg)
			var cve *ConfigValidationError
			require.ErrorAs(t, err, &cve)
			assert.Equal(t, "site", cve.Field)
		})
	}
}

func TestBuildRejectsUnsupportedHighlighter(t *testing.T) {
	for _, mode := range []string{"nonexistent", "", "Prism", "false"} {
		t.Run(mode, func(t *testing.T) {
			spec := Defaults()
			spec.SyntaxHighlight = mode

			_, err := Build(spec)
			var cve *ConfigValidationError
			require.ErrorAs(t, err, &cve)
			assert.Equal(t, "markdown.syntaxHighlight", cve.Field)
			assert.Equal(t, mode, cve.Value)
		})
	}
}

func TestBuildSelectsExactlyOneHighlighter(t *testing.T) {
	t.Run("prism ignores shiki options", func(t *testing.T) {
		cfg, err := Build(Defaults())
		require.NoError(t, err)

		_, isShiki := cfg.Markdown().SyntaxHighlight().(Shiki)
		assert.False(t, isShiki)
		assert.Nil(t, cfg.Document().Markdown.ShikiConfig)
	})

	t.Run("shiki replaces prism", func(t *testing.T) {
		spec := Defaults()
		spec.SyntaxHighlight = string(ModeShiki)

		cfg, err := Build(spec)
		require.NoError(t, err)

		hl := cfg.Markdown().SyntaxHighlight()
		assert.Equal(t, Shiki{Wrap: true, Theme: "github-dark-dimmed"}, hl)
		_, isPrism := hl.(Prism)
		assert.False(t, isPrism)

		doc := cfg.Document()
		assert.Equal(t, ModeShiki, doc.Markdown.SyntaxHighlight)
		require.NotNil(t, doc.Markdown.ShikiConfig)
		assert.Equal(t, "github-dark-dimmed", doc.Markdown.ShikiConfig.Theme)
	})

	t.Run("shiki without theme", func(t *testing.T) {
		spec := Defaults()
		spec.SyntaxHighlight = string(ModeShiki)
		spec.Shiki.Theme = ""

		_, err := Build(spec)
		var cve *ConfigValidationError
		require.ErrorAs(t, err, &cve)
		assert.Equal(t, "markdown.shikiConfig.theme", cve.Field)
	})
}

func TestBuildIntegrationErrors(t *testing.T) {
	tests := []struct {
		name         string
		integrations []IntegrationSpec
		wantField    string
	}{
		{
			name:         "duplicate",
			integrations: []IntegrationSpec{{Name: "mdx"}, {Name: "sitemap"}, {Name: "mdx"}},
			wantField:    "integrations[2]",
		},
		{
			name:         "unknown",
			integrations: []IntegrationSpec{{Name: "mdx"}, {Name: "partytown"}},
			wantField:    "integrations[1]",
		},
		{
			name: "rejected option",
			integrations: []IntegrationSpec{
				{Name: "mdx"},
				{Name: "sitemap", Options: integration.Options{"priority": 7}},
			},
			wantField: "integrations[1].options.priority",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			spec := Defaults()
			spec.Integrations = tc.integrations

			_, err := Build(spec)
			var cve *ConfigValidationError
			require.ErrorAs(t, err, &cve)
			assert.Equal(t, tc.wantField, cve.Field)
		})
	}
}

func TestBuildPreservesIntegrationOrder(t *testing.T) {
	spec := Defaults()
	spec.Integrations = []IntegrationSpec{{Name: "sitemap"}, {Name: "mdx"}}

	cfg, err := Build(spec)
	require.NoError(t, err)

	integrations := cfg.Integrations()
	assert.Equal(t, "sitemap", integrations[0].Name())
	assert.Equal(t, "mdx", integrations[1].Name())
}

func TestIntegrationsReturnsCopy(t *testing.T) {
	cfg, err := BuildConfig()
	require.NoError(t, err)

	got := cfg.Integrations()
	got[0] = got[1]

	assert.Equal(t, integration.MDXName, cfg.Integrations()[0].Name())
}

func TestConfigValidationErrorMessage(t *testing.T) {
	err := &ConfigValidationError{Field: "site", Value: "/foo", Reason: "must be an absolute URL with a host"}
	assert.Equal(t, `invalid site "/foo": must be an absolute URL with a host`, err.Error())

	err = &ConfigValidationError{Field: "markdown.shikiConfig.theme", Reason: "required"}
	assert.Equal(t, "invalid markdown.shikiConfig.theme: required", err.Error())
}
