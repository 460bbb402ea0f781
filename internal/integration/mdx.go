package integration

import (
	"maps"
	"slices"
)

// MDXName identifies the content-authoring integration that registers
// handlers for Markdown with embedded components.
const MDXName = "mdx"

var mdxBoolOptions = []string{"optimize", "gfm", "smartypants", "extendMarkdownConfig"}

// MDX builds the content-authoring integration. All of its options are boolean
// toggles; an empty Options keeps the build tool's defaults.
func MDX(opts Options) (Integration, error) {
	if err := checkKnown(MDXName, opts, mdxBoolOptions...); err != nil {
		return Integration{}, err
	}

	normalized := make(Options, len(opts))
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		value := opts[key]
		b, ok := value.(bool)
		if !ok {
			return Integration{}, &OptionError{Integration: MDXName, Option: key, Reason: "must be a boolean"}
		}
		normalized[key] = b
	}

	return Integration{name: MDXName, options: normalized}, nil
}
