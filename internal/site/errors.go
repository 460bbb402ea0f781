package site

import "fmt"

// ConfigValidationError reports a literal that cannot form a valid SiteConfig.
type ConfigValidationError struct {
	Field  string
	Value  any
	Reason string
	Err    error
}

func (e *ConfigValidationError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, fmt.Sprint(e.Value), e.Reason)
}

func (e *ConfigValidationError) Unwrap() error {
	return e.Err
}
