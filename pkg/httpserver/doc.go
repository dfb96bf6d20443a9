// Package httpserver wraps net/http's Server with graceful shutdown,
// signal handling, environment-driven configuration, and probe handlers.
package httpserver
