// Package notifier implements the overdue-task notification scheduler: a
// process-wide recurring job that scans all user accounts for overdue work
// items and dispatches at most one reminder per account per rolling
// 24-hour window.
//
// The package splits into a pure decision core and a stateful controller:
//
//   - Evaluate and OverdueTasks decide, for one recipient, whether a
//     notification is due right now and which tasks belong in it. They
//     take the current time as an argument and perform no I/O, so the
//     dedup-window and overdue rules are testable as plain functions.
//   - Controller owns the recurring timer (Start/Stop/Status), runs the
//     scan passes, and talks to the collaborators through the
//     RecipientRepository, TaskRepository, and Dispatcher interfaces.
//
// # Scan passes
//
// A pass enumerates all recipients and, for each one, fetches pending
// tasks, evaluates the overdue set, dispatches a notice when allowed, and
// persists the last-notified timestamp only after the dispatcher reports
// success. Failures local to one task or one recipient are logged and
// absorbed; one unreachable mailbox never stops the rest of the batch.
// Only a failure to enumerate the recipient set at all fails the pass.
//
// # Concurrency
//
// Start and Stop are idempotent and serialized by an internal mutex, so
// two concurrent Start calls cannot arm two timers. Passes themselves are
// not serialized against each other: a manual ForceCheck can overlap a
// timer tick, and both may observe a stale last-notified timestamp for
// the same recipient. The dedup guarantee is therefore best effort within
// a single pass. Stop only suppresses future ticks; an in-flight pass
// runs to completion.
//
// Two repository implementations ship with the package: MongoStorage over
// the application's users and tasks collections, and MemoryStorage for
// tests and local development.
package notifier
