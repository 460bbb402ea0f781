package integration

import (
	"fmt"
	"maps"
	"slices"
)

// Options carries the keyword options an integration is invoked with.
type Options map[string]any

// Factory validates options and returns the integration handle.
type Factory func(Options) (Integration, error)

// Integration is an opaque handle registered with the build tool. Its options
// are normalised by the factory that created it.
type Integration struct {
	name    string
	options Options
}

// Name returns the integration identity.
func (i Integration) Name() string {
	return i.name
}

// Options returns a copy of the normalised options.
func (i Integration) Options() Options {
	return cloneOptions(i.options)
}

func (i Integration) String() string {
	if len(i.options) == 0 {
		return i.name + "()"
	}
	return fmt.Sprintf("%s(%v)", i.name, map[string]any(i.options))
}

var registry = map[string]Factory{
	MDXName:     MDX,
	SitemapName: Sitemap,
}

// Lookup returns the factory registered under name.
func Lookup(name string) (Factory, bool) {
	f, ok := registry[name]
	return f, ok
}

// New looks up the factory for name and invokes it with opts.
func New(name string, opts Options) (Integration, error) {
	f, ok := Lookup(name)
	if !ok {
		return Integration{}, fmt.Errorf("%w %q (known: %v)", ErrUnknownIntegration, name, Names())
	}
	return f(opts)
}

// Names lists the registered integration names in sorted order.
func Names() []string {
	return slices.Sorted(maps.Keys(registry))
}

// cloneOptions copies opts one level deep, including list values.
func cloneOptions(src Options) Options {
	out := make(Options, len(src))
	for k, v := range src {
		switch val := v.(type) {
		case []string:
			out[k] = slices.Clone(val)
		case []any:
			out[k] = slices.Clone(val)
		default:
			out[k] = v
		}
	}
	return out
}

// checkKnown rejects option keys outside allowed.
func checkKnown(integration string, opts Options, allowed ...string) error {
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		if !slices.Contains(allowed, key) {
			return &OptionError{Integration: integration, Option: key, Reason: "unsupported option"}
		}
	}
	return nil
}
