package notifier

import "time"

// Task status values as written by the task-management subsystem.
const (
	TaskStatusPending   = "pending"
	TaskStatusCompleted = "completed"
)

// Recipient is a user account viewed as a notification target. The
// scheduler only reads it, except for LastOverdueNotification which it
// updates after a successful dispatch.
type Recipient struct {
	ID    string
	Email string
	Name  string

	// LastOverdueNotification is nil when the recipient has never been
	// notified about overdue tasks.
	LastOverdueNotification *time.Time
}

// Task is a work item as consumed by the scheduler. DueDate carries the
// raw stored value; parsing happens during evaluation so corrupt data
// never breaks a scan.
type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	DueDate     string
	Status      string
}

// Status is a read-only snapshot of the scheduler state.
type Status struct {
	Running         bool `json:"running"`
	IntervalMinutes int  `json:"intervalMinutes,omitempty"`
}

// ScanResult aggregates the outcome of one scan pass. It is constructed
// fresh per invocation and never persisted.
type ScanResult struct {
	Success           bool   `json:"success"`
	RecipientsScanned int    `json:"recipientsScanned"`
	NotificationsSent int    `json:"notificationsSent"`
	OverdueTasks      int    `json:"overdueTasks"`
	Message           string `json:"message"`
}
