package notifier

import "errors"

var (
	// ErrRepositoryNil is returned when a nil repository is provided.
	ErrRepositoryNil = errors.New("repository cannot be nil")

	// ErrDispatcherNil is returned when a nil dispatcher is provided.
	ErrDispatcherNil = errors.New("dispatcher cannot be nil")

	// ErrRecipientNotFound is returned when a recipient lookup matches no account.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrListRecipients is returned when the recipient set cannot be enumerated.
	ErrListRecipients = errors.New("failed to list recipients")

	// ErrListTasks is returned when a recipient's pending tasks cannot be fetched.
	ErrListTasks = errors.New("failed to list pending tasks")

	// ErrUpdateRecipient is returned when persisting the last-notified timestamp fails.
	ErrUpdateRecipient = errors.New("failed to update recipient")
)
