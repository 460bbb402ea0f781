// Package application provides dependency wiring for the serve command. It
// turns a resolved configuration and a built site record into a router and an
// HTTP server, keeping the main package focused on CLI parsing and
// orchestration.
package application
