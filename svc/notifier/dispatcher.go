package notifier

import (
	"context"

	"github.com/pracsphere/pracsphere/pkg/email"
)

// Dispatcher sends an overdue notice to one recipient. Implementations
// are opaque side-effecting operations that may fail independently per
// recipient; the controller never retries within a pass.
type Dispatcher interface {
	SendOverdueNotice(ctx context.Context, rcpt Recipient, overdue []Task) error
}

// emailDispatcher delivers overdue notices through an EmailSender.
type emailDispatcher struct {
	sender   email.EmailSender
	tasksURL string
}

// NewEmailDispatcher creates a Dispatcher that renders the overdue-notice
// email and sends it through the provided sender. tasksURL is the absolute
// link to the tasks page embedded in the email.
func NewEmailDispatcher(sender email.EmailSender, tasksURL string) Dispatcher {
	return &emailDispatcher{sender: sender, tasksURL: tasksURL}
}

func (d *emailDispatcher) SendOverdueNotice(ctx context.Context, rcpt Recipient, overdue []Task) error {
	lines := make([]email.OverdueTask, 0, len(overdue))
	for _, task := range overdue {
		lines = append(lines, email.OverdueTask{
			Title:       task.Title,
			Description: task.Description,
			DueDate:     displayDueDate(task.DueDate),
		})
	}

	params, err := email.NewOverdueNotice(rcpt.Email, email.OverdueNoticeParams{
		Name:     rcpt.Name,
		Tasks:    lines,
		TasksURL: d.tasksURL,
	})
	if err != nil {
		return err
	}

	return d.sender.SendEmail(ctx, params)
}

// displayDueDate formats a due date for the email body, falling back to
// the raw value when it cannot be parsed.
func displayDueDate(raw string) string {
	if t, ok := ParseDueDate(raw); ok {
		return t.Format("Jan 2, 2006")
	}
	return raw
}
