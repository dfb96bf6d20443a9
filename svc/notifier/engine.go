package notifier

import "time"

// DedupWindow is the minimum spacing between two overdue notifications to
// the same recipient. Sending is allowed again only strictly after the
// window has elapsed.
const DedupWindow = 24 * time.Hour

// Decision is the outcome of evaluating one recipient's tasks.
// When the overdue set is empty no decision is made: ShouldSend is false
// and Overdue is nil, and the recipient contributes nothing to counters.
type Decision struct {
	ShouldSend bool
	Overdue    []Task
}

// dueDateLayouts covers the formats the web application has historically
// written for due dates. Anything else is treated as unparseable.
var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseDueDate parses a stored due-date value. The second return value is
// false when the value does not match any known layout.
func ParseDueDate(raw string) (time.Time, bool) {
	for _, layout := range dueDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// OverdueTasks returns the subset of tasks that are overdue at the given
// instant: status pending, due date parseable, and strictly before now.
// Tasks with unparseable due dates are silently excluded so a single
// corrupt record cannot block an entire scan.
func OverdueTasks(now time.Time, tasks []Task) []Task {
	var overdue []Task
	for _, task := range tasks {
		if task.Status != TaskStatusPending {
			continue
		}
		due, ok := ParseDueDate(task.DueDate)
		if !ok {
			continue
		}
		if due.Before(now) {
			overdue = append(overdue, task)
		}
	}
	return overdue
}

// Evaluate decides whether a notification should be sent to one recipient
// right now, and which tasks belong in it. It is a pure function: no side
// effects, no clock access, no I/O.
//
// Sending is suppressed while the previous notification is still inside
// the dedup window; elapsed time must strictly exceed the window before a
// new notification is allowed.
func Evaluate(now time.Time, lastNotified *time.Time, tasks []Task) Decision {
	overdue := OverdueTasks(now, tasks)
	if len(overdue) == 0 {
		return Decision{}
	}

	if lastNotified != nil && now.Sub(*lastNotified) <= DedupWindow {
		return Decision{Overdue: overdue}
	}

	return Decision{ShouldSend: true, Overdue: overdue}
}
