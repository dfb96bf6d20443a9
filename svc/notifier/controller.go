package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pracsphere/pracsphere/pkg/logger"
)

// DefaultIntervalMinutes is used when Start is called without a usable interval.
const DefaultIntervalMinutes = 60

// RecipientRepository defines the account reads and the single write the
// scheduler performs.
type RecipientRepository interface {
	// ListRecipients returns every notification target. Order is whatever
	// the backing store returns; treat as arbitrary but stable.
	ListRecipients(ctx context.Context) ([]Recipient, error)

	// GetRecipient resolves one recipient by identifier or email address.
	// Returns ErrRecipientNotFound when no account matches.
	GetRecipient(ctx context.Context, id string) (*Recipient, error)

	// SetLastNotified persists the recipient's last-notified timestamp.
	SetLastNotified(ctx context.Context, id string, at time.Time) error
}

// TaskRepository exposes the single task query the scheduler needs.
type TaskRepository interface {
	// PendingTasks returns the recipient's tasks with status pending.
	PendingTasks(ctx context.Context, ownerID string) ([]Task, error)
}

// Controller owns the recurring-timer lifecycle and orchestrates scan
// passes. It is constructed once per process and passed to whatever hosts
// the control surface; there is no package-level instance.
type Controller struct {
	recipients RecipientRepository
	tasks      TaskRepository
	dispatcher Dispatcher
	logger     *slog.Logger

	mu              sync.RWMutex
	running         bool
	intervalMinutes int
	cancel          context.CancelFunc
}

// New creates a scheduler controller in the stopped state.
func New(recipients RecipientRepository, tasks TaskRepository, dispatcher Dispatcher, opts ...Option) (*Controller, error) {
	if recipients == nil || tasks == nil {
		return nil, ErrRepositoryNil
	}
	if dispatcher == nil {
		return nil, ErrDispatcherNil
	}

	options := &controllerOptions{
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Controller{
		recipients: recipients,
		tasks:      tasks,
		dispatcher: dispatcher,
		logger:     options.logger,
	}, nil
}

// Start arms the recurring timer and runs one scan pass immediately.
// A non-positive interval falls back to DefaultIntervalMinutes.
//
// Start is idempotent: when the scheduler is already running the call is a
// no-op that preserves the existing timer and interval, including when the
// requested interval differs. The returned status reflects whichever timer
// is actually armed.
func (c *Controller) Start(intervalMinutes int) Status {
	if intervalMinutes <= 0 {
		intervalMinutes = DefaultIntervalMinutes
	}

	c.mu.Lock()
	if c.running {
		st := Status{Running: true, IntervalMinutes: c.intervalMinutes}
		c.mu.Unlock()
		c.logger.Info("scheduler already running",
			slog.Int("interval_minutes", st.IntervalMinutes))
		return st
	}

	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.running = true
	c.intervalMinutes = intervalMinutes
	c.mu.Unlock()

	c.logger.Info("scheduler started",
		slog.Int("interval_minutes", intervalMinutes))

	go c.run(ctx, time.Duration(intervalMinutes)*time.Minute)

	return Status{Running: true, IntervalMinutes: intervalMinutes}
}

// Stop disarms the recurring timer. Idempotent; calling Stop when already
// stopped is a safe no-op. It only suppresses future ticks: a pass already
// in flight runs to completion.
func (c *Controller) Stop() Status {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	wasRunning := c.running
	c.running = false
	c.intervalMinutes = 0
	c.mu.Unlock()

	if wasRunning {
		c.logger.Info("scheduler stopped")
	}
	return Status{Running: false}
}

// Status returns the current scheduler state. Safe to call concurrently
// with Start and Stop; never mutates state.
func (c *Controller) Status() Status {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Status{Running: c.running, IntervalMinutes: c.intervalMinutes}
}

// ForceCheck runs exactly one scan pass immediately, independent of the
// recurring timer. It may overlap a timer-triggered pass; the dedup
// guarantee is best effort within a single pass, not a cross-pass
// exclusion.
func (c *Controller) ForceCheck(ctx context.Context) ScanResult {
	c.logger.Info("manual overdue check triggered")
	return c.scanAll(ctx)
}

// CheckRecipient runs the read-decide-dispatch-write sequence for a single
// recipient, resolved by identifier or email address. Returns
// ErrRecipientNotFound when no account matches.
func (c *Controller) CheckRecipient(ctx context.Context, id string) (ScanResult, error) {
	rcpt, err := c.recipients.GetRecipient(ctx, id)
	if err != nil {
		return ScanResult{Message: "recipient lookup failed"}, err
	}

	res := ScanResult{Success: true}
	c.scanRecipient(ctx, *rcpt, time.Now(), c.logger, &res)
	res.Message = fmt.Sprintf("check complete: %d notification(s) sent, %d overdue task(s) found",
		res.NotificationsSent, res.OverdueTasks)
	return res, nil
}

// run is the timer loop. The first pass fires immediately; afterwards one
// pass runs per tick until the context is canceled.
//
// Passes run on a cancel-detached context so that Stop never aborts a pass
// mid-flight.
func (c *Controller) run(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	c.scanAll(context.WithoutCancel(ctx))

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("scheduler loop exiting")
			return
		case <-ticker.C:
			c.scanAll(context.WithoutCancel(ctx))
		}
	}
}

// scanAll performs one full scan pass over all recipients.
//
// Per-recipient failures are absorbed and logged; only a failure to
// enumerate the recipient set is fatal to the pass. A faulty pass reports
// Success=false with zero notifications sent and leaves the timer alone.
func (c *Controller) scanAll(ctx context.Context) ScanResult {
	now := time.Now()
	log := c.logger.With(logger.PassID(uuid.NewString()))

	log.Info("checking for overdue tasks")

	recipients, err := c.recipients.ListRecipients(ctx)
	if err != nil {
		log.Error("failed to enumerate recipients", logger.Error(err))
		return ScanResult{
			Success: false,
			Message: fmt.Sprintf("scan failed: %v", err),
		}
	}

	res := ScanResult{Success: true}
	for _, rcpt := range recipients {
		c.scanRecipient(ctx, rcpt, now, log, &res)
	}

	res.Message = fmt.Sprintf("scan complete: %d notification(s) sent, %d overdue task(s) found",
		res.NotificationsSent, res.OverdueTasks)
	log.Info("overdue check complete",
		slog.Int("recipients_scanned", res.RecipientsScanned),
		slog.Int("notifications_sent", res.NotificationsSent),
		slog.Int("overdue_tasks", res.OverdueTasks))
	return res
}

// scanRecipient runs the overdue-decide-notify sequence for one recipient
// and folds the outcome into res. The last-notified timestamp is advanced
// only after the dispatcher reports success, so a failed send is retried
// naturally on the next pass.
func (c *Controller) scanRecipient(ctx context.Context, rcpt Recipient, now time.Time, log *slog.Logger, res *ScanResult) {
	tasks, err := c.tasks.PendingTasks(ctx, rcpt.ID)
	if err != nil {
		log.Error("failed to fetch pending tasks, skipping recipient",
			logger.RecipientEmail(rcpt.Email), logger.Error(err))
		return
	}

	res.RecipientsScanned++

	decision := Evaluate(now, rcpt.LastOverdueNotification, tasks)
	res.OverdueTasks += len(decision.Overdue)
	if len(decision.Overdue) == 0 {
		return
	}

	if !decision.ShouldSend {
		log.Debug("skipping notification, sent recently",
			logger.RecipientEmail(rcpt.Email))
		return
	}

	if err := c.dispatcher.SendOverdueNotice(ctx, rcpt, decision.Overdue); err != nil {
		log.Error("failed to send overdue notification",
			logger.RecipientEmail(rcpt.Email), logger.Error(err))
		return
	}

	res.NotificationsSent++
	log.Info("overdue notification sent",
		logger.RecipientEmail(rcpt.Email),
		slog.Int("overdue_tasks", len(decision.Overdue)))

	if err := c.recipients.SetLastNotified(ctx, rcpt.ID, now); err != nil {
		// The notification went out; a stale timestamp only risks an
		// extra email on the next pass.
		log.Error("failed to update last-notified timestamp",
			logger.RecipientEmail(rcpt.Email), logger.Error(err))
	}
}
