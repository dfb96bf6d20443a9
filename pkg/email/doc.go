// Package email provides transactional email delivery behind a small
// EmailSender interface.
//
// Two implementations are included: a Postmark-backed client for
// production and a DevSender that writes emails to disk for local
// development. Notice constructors (NewOverdueNotice, NewTestNotice)
// render the application's HTML emails so callers only deal with
// SendEmailParams.
//
// The package never decides *whether* to send; that policy lives with the
// callers. A send failure is reported per call and wrapped with
// ErrFailedToSendEmail for errors.Is checks.
package email
