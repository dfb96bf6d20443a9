package notifications

import (
	"encoding/json"
	"net/http"

	"github.com/pracsphere/pracsphere/svc/notifier"
)

// statusResponse is returned by the scheduler status and start/stop commands.
type statusResponse struct {
	Success bool            `json:"success"`
	Status  notifier.Status `json:"status"`
	Message string          `json:"message"`
}

// checkResponse is returned by every scan-triggering command.
type checkResponse struct {
	Success           bool   `json:"success"`
	NotificationsSent int    `json:"notificationsSent"`
	OverdueTasks      int    `json:"overdueTasks"`
	Message           string `json:"message"`
}

// messageResponse is returned by commands with no counters to report.
type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func checkResponseFrom(res notifier.ScanResult) checkResponse {
	return checkResponse{
		Success:           res.Success,
		NotificationsSent: res.NotificationsSent,
		OverdueTasks:      res.OverdueTasks,
		Message:           res.Message,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
