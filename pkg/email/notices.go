package email

import (
	"fmt"
	"html/template"
	"strings"
	"time"
)

// OverdueTask is one overdue work item rendered into the reminder email.
type OverdueTask struct {
	Title       string
	Description string
	DueDate     string // already formatted for display
}

// OverdueNoticeParams describes the reminder email for one recipient.
type OverdueNoticeParams struct {
	Name     string        // recipient display name
	Tasks    []OverdueTask // overdue tasks, at least one
	TasksURL string        // absolute link to the tasks page
}

var overdueTmpl = template.Must(template.New("overdue").Parse(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #a855f7 0%, #ec4899 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
      .header h1 { color: white; margin: 0; }
      .content { background: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
      .task { background: #f3f4f6; padding: 15px; margin: 10px 0; border-radius: 8px; border-left: 4px solid #ef4444; }
      .task h3 { margin: 0 0 5px 0; color: #1f2937; }
      .task p { margin: 5px 0; color: #6b7280; }
      .task .due { color: #dc2626; font-weight: bold; }
      .button { display: inline-block; padding: 12px 30px; background: linear-gradient(135deg, #a855f7 0%, #ec4899 100%); color: white; text-decoration: none; border-radius: 6px; margin-top: 20px; }
      .footer { text-align: center; margin-top: 20px; color: #6b7280; font-size: 12px; }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Overdue Task Reminder</h1>
      </div>
      <div class="content">
        <p>Hi {{.Name}},</p>
        <p>You have <strong>{{len .Tasks}}</strong> overdue {{if eq (len .Tasks) 1}}task{{else}}tasks{{end}} that need your attention:</p>
        {{range .Tasks}}
        <div class="task">
          <h3>{{.Title}}</h3>
          <p>{{.Description}}</p>
          <p class="due">Due: {{.DueDate}}</p>
        </div>
        {{end}}
        <p>Don't let these tasks slip through the cracks! Log in to PracSphere to update their status.</p>
        <a href="{{.TasksURL}}" class="button">View My Tasks</a>
        <p style="margin-top: 30px; color: #6b7280; font-size: 14px;">
          Tip: Mark tasks as completed or update their due dates to stay organized.
        </p>
      </div>
      <div class="footer">
        <p>This is an automated reminder from PracSphere</p>
        <p>&copy; {{.Year}} PracSphere. All rights reserved.</p>
      </div>
    </div>
  </body>
</html>`))

var testTmpl = template.Must(template.New("test").Parse(`<!DOCTYPE html>
<html>
  <head>
    <style>
      body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
      .container { max-width: 600px; margin: 0 auto; padding: 20px; }
      .header { background: linear-gradient(135deg, #a855f7 0%, #ec4899 100%); padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
      .header h1 { color: white; margin: 0; }
      .content { background: white; padding: 30px; border-radius: 0 0 10px 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
    </style>
  </head>
  <body>
    <div class="container">
      <div class="header">
        <h1>Email Test Successful!</h1>
      </div>
      <div class="content">
        <p>Hello!</p>
        <p>This is a test email from PracSphere to verify that email notifications are working correctly.</p>
        <p><strong>Email system is functioning properly!</strong></p>
        <p>You will now receive notifications for overdue tasks.</p>
      </div>
    </div>
  </body>
</html>`))

// NewOverdueNotice builds the overdue-reminder email for one recipient.
// It returns ErrInvalidParams when the recipient or task list is incomplete;
// an empty task list is a caller bug, not an empty reminder.
func NewOverdueNotice(to string, p OverdueNoticeParams) (SendEmailParams, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(p.Name) == "" || len(p.Tasks) == 0 {
		return SendEmailParams{}, fmt.Errorf("%w: recipient and at least one task are required", ErrInvalidParams)
	}

	var sb strings.Builder
	data := struct {
		OverdueNoticeParams
		Year int
	}{p, time.Now().Year()}
	if err := overdueTmpl.Execute(&sb, data); err != nil {
		return SendEmailParams{}, fmt.Errorf("%w: failed to render overdue notice: %v", ErrFailedToSendEmail, err)
	}

	plural := ""
	if len(p.Tasks) > 1 {
		plural = "s"
	}

	return SendEmailParams{
		SendTo:   to,
		Subject:  fmt.Sprintf("You have %d overdue task%s", len(p.Tasks), plural),
		BodyHTML: sb.String(),
		Tag:      "overdue-notice",
	}, nil
}

// NewTestNotice builds the verification email used by the test-email endpoint.
func NewTestNotice(to string) (SendEmailParams, error) {
	if strings.TrimSpace(to) == "" {
		return SendEmailParams{}, fmt.Errorf("%w: recipient is required", ErrInvalidParams)
	}

	var sb strings.Builder
	if err := testTmpl.Execute(&sb, nil); err != nil {
		return SendEmailParams{}, fmt.Errorf("%w: failed to render test email: %v", ErrFailedToSendEmail, err)
	}

	return SendEmailParams{
		SendTo:   to,
		Subject:  "PracSphere Email Test",
		BodyHTML: sb.String(),
		Tag:      "test-email",
	}, nil
}
