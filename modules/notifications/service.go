package notifications

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/pracsphere/pracsphere/pkg/email"
	"github.com/pracsphere/pracsphere/pkg/logger"
	"github.com/pracsphere/pracsphere/svc/notifier"
)

// Scheduler defines the controller operations the module exposes over HTTP.
type Scheduler interface {
	Start(intervalMinutes int) notifier.Status
	Stop() notifier.Status
	Status() notifier.Status
	ForceCheck(ctx context.Context) notifier.ScanResult
	CheckRecipient(ctx context.Context, id string) (notifier.ScanResult, error)
}

// Service exposes the scheduler control surface, the cron batch trigger,
// the single-recipient check, and the email configuration test endpoint.
type Service struct {
	cfg       Config
	scheduler Scheduler
	sender    email.EmailSender
	logger    *slog.Logger
}

// NewService creates the control-surface service.
func NewService(cfg Config, scheduler Scheduler, sender email.EmailSender, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		cfg:       cfg,
		scheduler: scheduler,
		sender:    sender,
		logger:    log,
	}
}

// Handle returns the module's router, intended to be mounted by the host.
func (s *Service) Handle() http.Handler {
	r := chi.NewRouter()

	r.Get("/scheduler", s.schedulerStatus)
	r.Post("/scheduler", s.schedulerControl)
	r.Get("/tasks/check-overdue", s.checkAll)
	r.Post("/tasks/check-overdue", s.checkRecipient)
	r.Post("/test-email", s.testEmail)

	return r
}

func (s *Service) schedulerStatus(w http.ResponseWriter, r *http.Request) {
	st := s.scheduler.Status()

	msg := "email scheduler is stopped"
	if st.Running {
		msg = "email scheduler is running"
	}
	writeJSON(w, http.StatusOK, statusResponse{Success: true, Status: st, Message: msg})
}

type controlRequest struct {
	Action          string `json:"action"`
	IntervalMinutes int    `json:"intervalMinutes"`
}

func (s *Service) schedulerControl(w http.ResponseWriter, r *http.Request) {
	var req controlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Action {
	case "start":
		st := s.scheduler.Start(req.IntervalMinutes)
		writeJSON(w, http.StatusOK, statusResponse{
			Success: true,
			Status:  st,
			Message: fmt.Sprintf("email scheduler started - checking every %d minutes", st.IntervalMinutes),
		})

	case "stop":
		st := s.scheduler.Stop()
		writeJSON(w, http.StatusOK, statusResponse{
			Success: true,
			Status:  st,
			Message: "email scheduler stopped",
		})

	case "check":
		res := s.scheduler.ForceCheck(r.Context())
		writeJSON(w, http.StatusOK, checkResponseFrom(res))

	default:
		writeError(w, http.StatusBadRequest, "invalid action, use 'start', 'stop', or 'check'")
	}
}

// checkAll performs one full scan pass. It is authenticated by a shared
// secret so an OS-level cron or an external trigger service can drive
// scans without an in-process timer.
func (s *Service) checkAll(w http.ResponseWriter, r *http.Request) {
	if !s.authorized(r) {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	res := s.scheduler.ForceCheck(r.Context())
	writeJSON(w, http.StatusOK, checkResponseFrom(res))
}

type recipientCheckRequest struct {
	UserID string `json:"userId"`
}

func (s *Service) checkRecipient(w http.ResponseWriter, r *http.Request) {
	var req recipientCheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		writeError(w, http.StatusBadRequest, "userId required")
		return
	}

	res, err := s.scheduler.CheckRecipient(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, notifier.ErrRecipientNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		s.logger.Error("recipient check failed", logger.Error(err))
		writeJSON(w, http.StatusOK, checkResponse{Success: false, Message: "recipient check failed"})
		return
	}

	writeJSON(w, http.StatusOK, checkResponseFrom(res))
}

type testEmailRequest struct {
	Email string `json:"email"`
}

func (s *Service) testEmail(w http.ResponseWriter, r *http.Request) {
	var req testEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		writeError(w, http.StatusBadRequest, "email required")
		return
	}

	params, err := email.NewTestNotice(req.Email)
	if err == nil {
		err = params.Validate()
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid email address")
		return
	}

	if err := s.sender.SendEmail(r.Context(), params); err != nil {
		s.logger.Error("test email failed", logger.RecipientEmail(req.Email), logger.Error(err))
		writeJSON(w, http.StatusOK, messageResponse{Success: false, Message: "failed to send test email"})
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "test email sent successfully"})
}

// authorized compares the bearer token against the configured cron secret
// in constant time. An empty configured secret never authorizes.
func (s *Service) authorized(r *http.Request) bool {
	if s.cfg.CronSecret == "" {
		return false
	}

	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(s.cfg.CronSecret)) == 1
}
