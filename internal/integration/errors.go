package integration

import (
	"errors"
	"fmt"
)

// ErrUnknownIntegration is returned when no factory is registered under a name.
var ErrUnknownIntegration = errors.New("unknown integration")

// OptionError reports an option an integration factory rejected.
type OptionError struct {
	Integration string
	Option      string
	Reason      string
}

func (e *OptionError) Error() string {
	return fmt.Sprintf("%s: option %q: %s", e.Integration, e.Option, e.Reason)
}
