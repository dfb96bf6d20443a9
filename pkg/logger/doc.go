// Package logger builds configured slog.Logger instances and provides
// attribute helpers for consistent log keys across the application.
package logger
