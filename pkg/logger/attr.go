package logger

import "log/slog"

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// RecipientEmail records the notification target under the key "recipient".
func RecipientEmail(email string) slog.Attr {
	return slog.String("recipient", email)
}

// PassID records the scan-pass identifier under the key "pass_id".
func PassID(id string) slog.Attr {
	return slog.String("pass_id", id)
}
