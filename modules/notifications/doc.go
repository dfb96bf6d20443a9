// Package notifications mounts the HTTP control surface for the overdue
// task notifier.
//
// The module exposes four concerns:
//
//   - GET/POST /scheduler: inspect and control the background scheduler
//     (start, stop, or trigger an immediate scan pass).
//   - GET /tasks/check-overdue: run a full scan pass, authenticated with
//     a bearer secret so an external cron can drive scans.
//   - POST /tasks/check-overdue: scan a single recipient by id or email.
//   - POST /test-email: send a test message to verify email delivery.
//
// All endpoints answer with a JSON body. Scan failures are reported as
// a well-formed result with success=false rather than a transport error,
// so callers can always decode the response the same way.
package notifications
