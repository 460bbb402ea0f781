package integration

import (
	"fmt"
	"maps"
	"math"
	"net/url"
	"slices"
	"time"
)

// SitemapName identifies the integration that emits a sitemap document of all
// generated routes at the end of a build.
const SitemapName = "sitemap"

var changeFrequencies = []string{"always", "hourly", "daily", "weekly", "monthly", "yearly", "never"}

// Sitemap builds the sitemap integration.
func Sitemap(opts Options) (Integration, error) {
	if err := checkKnown(SitemapName, opts, "changefreq", "priority", "lastmod", "entryLimit", "customPages"); err != nil {
		return Integration{}, err
	}

	normalized := make(Options, len(opts))
	for _, key := range slices.Sorted(maps.Keys(opts)) {
		value := opts[key]
		var (
			v   any
			err error
		)
		switch key {
		case "changefreq":
			v, err = parseChangeFreq(value)
		case "priority":
			v, err = parsePriority(value)
		case "lastmod":
			v, err = parseLastMod(value)
		case "entryLimit":
			v, err = parseEntryLimit(value)
		case "customPages":
			v, err = parseCustomPages(value)
		}
		if err != nil {
			return Integration{}, &OptionError{Integration: SitemapName, Option: key, Reason: err.Error()}
		}
		normalized[key] = v
	}

	return Integration{name: SitemapName, options: normalized}, nil
}

func parseChangeFreq(value any) (string, error) {
	s, ok := value.(string)
	if !ok || !slices.Contains(changeFrequencies, s) {
		return "", fmt.Errorf("must be one of %v", changeFrequencies)
	}
	return s, nil
}

func parsePriority(value any) (float64, error) {
	f, ok := toFloat(value)
	if !ok || math.IsNaN(f) || f < 0 || f > 1 {
		return 0, fmt.Errorf("must be a number between 0 and 1")
	}
	return f, nil
}

func parseLastMod(value any) (string, error) {
	switch v := value.(type) {
	case string:
		if _, err := time.Parse(time.RFC3339, v); err == nil {
			return v, nil
		}
		if _, err := time.Parse(time.DateOnly, v); err == nil {
			return v, nil
		}
	case time.Time:
		// YAML and TOML decoders produce time.Time for unquoted timestamps.
		return v.Format(time.RFC3339), nil
	}
	return "", fmt.Errorf("must be an RFC 3339 timestamp or YYYY-MM-DD date")
}

func parseEntryLimit(value any) (int, error) {
	f, ok := toFloat(value)
	if !ok || f != math.Trunc(f) || f < 1 || f > math.MaxInt32 {
		return 0, fmt.Errorf("must be a positive integer")
	}
	return int(f), nil
}

func parseCustomPages(value any) ([]string, error) {
	var raw []any
	switch v := value.(type) {
	case []string:
		for _, s := range v {
			raw = append(raw, s)
		}
	case []any:
		raw = v
	default:
		return nil, fmt.Errorf("must be a list of absolute URLs")
	}

	pages := make([]string, 0, len(raw))
	for i, item := range raw {
		s, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d must be a string", i)
		}
		u, err := url.Parse(s)
		if err != nil || !u.IsAbs() || u.Host == "" {
			return nil, fmt.Errorf("entry %d (%q) is not an absolute URL", i, s)
		}
		pages = append(pages, s)
	}
	return pages, nil
}

// toFloat accepts the numeric types produced by the YAML, TOML and JSON decoders.
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
