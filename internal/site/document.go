package site

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Document is the serialised shape of a SiteConfig as the build tool reads it.
type Document struct {
	Site         string                `json:"site" yaml:"site" toml:"site"`
	Integrations []IntegrationDocument `json:"integrations" yaml:"integrations" toml:"integrations"`
	Markdown     MarkdownDocument      `json:"markdown" yaml:"markdown" toml:"markdown"`
}

// IntegrationDocument is one entry of the integrations list.
type IntegrationDocument struct {
	Name    string         `json:"name" yaml:"name" toml:"name"`
	Options map[string]any `json:"options" yaml:"options" toml:"options"`
}

// MarkdownDocument carries shikiConfig only while Shiki is the active backend.
type MarkdownDocument struct {
	SyntaxHighlight HighlightMode  `json:"syntaxHighlight" yaml:"syntaxHighlight" toml:"syntaxHighlight"`
	ShikiConfig     *ShikiDocument `json:"shikiConfig,omitempty" yaml:"shikiConfig,omitempty" toml:"shikiConfig,omitempty"`
}

// ShikiDocument holds the options of the active Shiki backend.
type ShikiDocument struct {
	Wrap  bool   `json:"wrap" yaml:"wrap" toml:"wrap"`
	Theme string `json:"theme" yaml:"theme" toml:"theme"`
}

// Document returns the serialisable form of the record.
func (c *SiteConfig) Document() Document {
	doc := Document{
		Site:         c.site,
		Integrations: make([]IntegrationDocument, 0, len(c.integrations)),
		Markdown: MarkdownDocument{
			SyntaxHighlight: c.markdown.syntaxHighlight.Mode(),
		},
	}
	for _, in := range c.integrations {
		doc.Integrations = append(doc.Integrations, IntegrationDocument{
			Name:    in.Name(),
			Options: in.Options(),
		})
	}
	if s, ok := c.markdown.syntaxHighlight.(Shiki); ok {
		doc.Markdown.ShikiConfig = &ShikiDocument{Wrap: s.Wrap, Theme: s.Theme}
	}
	return doc
}

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTOML)}
}

// Encode writes the record to w in the requested format.
func (c *SiteConfig) Encode(w io.Writer, format Format) error {
	doc := c.Document()

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("encode TOML: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
	return nil
}
