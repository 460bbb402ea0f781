package site

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"slices"

	"github.com/matthewjwhite/sitecfg/internal/integration"
)

// DefaultSite is the canonical deployed origin.
const DefaultSite = "https://matthewjwhite.co.uk"

// Spec carries the literal values a SiteConfig is built from.
type Spec struct {
	Site            string
	Integrations    []IntegrationSpec
	SyntaxHighlight string
	Shiki           ShikiSpec
}

// IntegrationSpec names an integration and the options to invoke it with.
type IntegrationSpec struct {
	Name    string
	Options integration.Options
}

// Defaults returns the site's literal configuration. The Shiki options are
// declared but Prism is the selected backend.
func Defaults() Spec {
	return Spec{
		Site: DefaultSite,
		Integrations: []IntegrationSpec{
			{Name: integration.MDXName},
			{Name: integration.SitemapName},
		},
		SyntaxHighlight: string(ModePrism),
		Shiki: ShikiSpec{
			Wrap:  true,
			Theme: "github-dark-dimmed",
		},
	}
}

// SiteConfig is the validated configuration record. It is immutable; the
// accessors return copies.
type SiteConfig struct {
	site         string
	integrations []integration.Integration
	markdown     Markdown
}

// BuildConfig builds the record from Defaults.
func BuildConfig() (*SiteConfig, error) {
	return Build(Defaults())
}

// Build validates spec and assembles the record.
func Build(spec Spec) (*SiteConfig, error) {
	if err := validateSite(spec.Site); err != nil {
		return nil, err
	}

	integrations, err := buildIntegrations(spec.Integrations)
	if err != nil {
		return nil, err
	}

	hl, err := ParseHighlighter(spec.SyntaxHighlight, spec.Shiki)
	if err != nil {
		return nil, err
	}

	cfg := &SiteConfig{
		site:         spec.Site,
		integrations: integrations,
		markdown:     Markdown{syntaxHighlight: hl},
	}

	if err := validateDocument(cfg.Document()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Site returns the canonical origin exactly as configured.
func (c *SiteConfig) Site() string {
	return c.site
}

// Integrations returns the integrations in registration order.
func (c *SiteConfig) Integrations() []integration.Integration {
	return slices.Clone(c.integrations)
}

// Markdown returns the Markdown rendering settings.
func (c *SiteConfig) Markdown() Markdown {
	return c.markdown
}

// Equal reports whether both records hold the same values.
func (c *SiteConfig) Equal(other *SiteConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	return reflect.DeepEqual(*c, *other)
}

// validateSite accepts any absolute URL with a host. Schemes are not
// restricted and compare case-insensitively.
func validateSite(raw string) error {
	invalid := func(reason string, err error) error {
		return &ConfigValidationError{Field: "site", Value: raw, Reason: reason, Err: err}
	}

	if raw == "" {
		return invalid("must not be empty", nil)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return invalid("not a parseable URL", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return invalid("must be an absolute URL with a host", nil)
	}
	return nil
}

// buildIntegrations invokes each factory in order and rejects duplicate names.
func buildIntegrations(specs []IntegrationSpec) ([]integration.Integration, error) {
	out := make([]integration.Integration, 0, len(specs))
	seen := make(map[string]int, len(specs))

	for i, spec := range specs {
		field := fmt.Sprintf("integrations[%d]", i)
		if prev, dup := seen[spec.Name]; dup {
			return nil, &ConfigValidationError{
				Field:  field,
				Value:  spec.Name,
				Reason: fmt.Sprintf("duplicates integrations[%d]", prev),
			}
		}
		seen[spec.Name] = i

		in, err := integration.New(spec.Name, spec.Options)
		if err != nil {
			var optErr *integration.OptionError
			if errors.As(err, &optErr) {
				return nil, &ConfigValidationError{
					Field:  field + ".options." + optErr.Option,
					Value:  spec.Options[optErr.Option],
					Reason: optErr.Reason,
					Err:    err,
				}
			}
			return nil, &ConfigValidationError{Field: field, Value: spec.Name, Reason: err.Error(), Err: err}
		}
		out = append(out, in)
	}
	return out, nil
}
