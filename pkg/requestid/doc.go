// Package requestid correlates HTTP requests with log records.
//
// Middleware picks up (or generates) an X-Request-ID header, stores it in
// the request context, and echoes it back to the client. Handlers retrieve
// it with FromContext; LogAttr turns it into a slog attribute.
package requestid
