package site

import "fmt"

// HighlightMode names a syntax-highlighting backend.
type HighlightMode string

const (
	ModePrism HighlightMode = "prism"
	ModeShiki HighlightMode = "shiki"
)

// Modes lists the supported backends.
func Modes() []HighlightMode {
	return []HighlightMode{ModePrism, ModeShiki}
}

// Highlighter is the active syntax-highlighting backend. Prism and Shiki are
// its only variants, so a Markdown record always carries exactly one.
type Highlighter interface {
	Mode() HighlightMode
	highlighter()
}

// Prism tags code blocks using Prism grammars. It takes no options.
type Prism struct{}

func (Prism) Mode() HighlightMode { return ModePrism }
func (Prism) highlighter()        {}

// Shiki tags code blocks using Shiki grammars and a named theme.
type Shiki struct {
	Wrap  bool
	Theme string
}

func (Shiki) Mode() HighlightMode { return ModeShiki }
func (Shiki) highlighter()        {}

// ShikiSpec holds Shiki options as written in the configuration. They are
// inert unless the Shiki backend is selected.
type ShikiSpec struct {
	Wrap  bool
	Theme string
}

// ParseHighlighter selects the backend named by mode. Unsupported names are
// rejected instead of falling back to a default.
func ParseHighlighter(mode string, shiki ShikiSpec) (Highlighter, error) {
	switch HighlightMode(mode) {
	case ModePrism:
		return Prism{}, nil
	case ModeShiki:
		if shiki.Theme == "" {
			return nil, &ConfigValidationError{
				Field:  "markdown.shikiConfig.theme",
				Reason: "a theme is required when shiki is selected",
			}
		}
		return Shiki{Wrap: shiki.Wrap, Theme: shiki.Theme}, nil
	default:
		return nil, &ConfigValidationError{
			Field:  "markdown.syntaxHighlight",
			Value:  mode,
			Reason: fmt.Sprintf("must be one of %v", Modes()),
		}
	}
}

// Markdown holds the Markdown rendering settings.
type Markdown struct {
	syntaxHighlight Highlighter
}

// SyntaxHighlight returns the active backend.
func (m Markdown) SyntaxHighlight() Highlighter {
	return m.syntaxHighlight
}
