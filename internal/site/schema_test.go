package site

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateDocumentAcceptsBuiltRecord(t *testing.T) {
	cfg, err := BuildConfig()
	require.NoError(t, err)
	require.NoError(t, validateDocument(cfg.Document()))
}

func TestValidateDocumentMapsInstancePath(t *testing.T) {
	tests := []struct {
		name      string
		document  string
		wantField string
	}{
		{
			name:      "relative site",
			document:  `{"site":"/foo","integrations":[],"markdown":{"syntaxHighlight":"prism"}}`,
			wantField: "site",
		},
		{
			name:      "unknown integration",
			document:  `{"site":"https://example.com","integrations":[{"name":"mdx","options":{}},{"name":"astro-icon","options":{}}],"markdown":{"syntaxHighlight":"prism"}}`,
			wantField: "integrations[1].name",
		},
		{
			name:      "unsupported highlighter",
			document:  `{"site":"https://example.com","integrations":[],"markdown":{"syntaxHighlight":"nonexistent"}}`,
			wantField: "markdown.syntaxHighlight",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var instance any
			require.NoError(t, json.Unmarshal([]byte(tc.document), &instance))

			err := ValidateDocument(instance)
			var cve *ConfigValidationError
			require.ErrorAs(t, err, &cve)
			assert.Equal(t, tc.wantField, cve.Field)
		})
	}
}

func TestValidateDocumentRejectsBothHighlighters(t *testing.T) {
	var instance any
	doc := `{"site":"https://example.com","integrations":[],"markdown":{"syntaxHighlight":"prism","shikiConfig":{"theme":"nord"}}}`
	require.NoError(t, json.Unmarshal([]byte(doc), &instance))

	var cve *ConfigValidationError
	require.ErrorAs(t, ValidateDocument(instance), &cve)
}

func TestPointerToField(t *testing.T) {
	assert.Equal(t, "document", pointerToField(""))
	assert.Equal(t, "site", pointerToField("/site"))
	assert.Equal(t, "integrations[0].options.priority", pointerToField("/integrations/0/options/priority"))
	assert.Equal(t, "markdown.a/b", pointerToField("/markdown/a~1b"))
}

func TestSchemaReturnsCopy(t *testing.T) {
	s := Schema()
	require.True(t, json.Valid(s))
	s[0] = 'x'
	assert.True(t, json.Valid(Schema()))
}
