// Package integration provides handles for the build-tool integrations a
// site enables. Each integration is created by a Factory that validates its
// options against the integration's documented option set; the integration's
// behaviour itself lives in the external build tool.
package integration
