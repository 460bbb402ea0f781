// Package config resolves the site literals and service settings from multiple
// sources (YAML or TOML files, environment variables, CLI flags) with
// precedence: CLI flags > config file > environment variables > defaults.
// The site literals it produces are validated by site.Build, not here.
package config
