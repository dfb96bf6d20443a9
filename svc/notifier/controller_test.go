package notifier_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pracsphere/pracsphere/svc/notifier"
)

// mockDispatcher records dispatched notices and can simulate per-recipient
// transport failures.
type mockDispatcher struct {
	mu      sync.Mutex
	sent    map[string][]notifier.Task // keyed by recipient email
	failFor map[string]error
}

func newMockDispatcher() *mockDispatcher {
	return &mockDispatcher{
		sent:    make(map[string][]notifier.Task),
		failFor: make(map[string]error),
	}
}

func (m *mockDispatcher) SendOverdueNotice(ctx context.Context, rcpt notifier.Recipient, overdue []notifier.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.failFor[rcpt.Email]; ok {
		return err
	}
	m.sent[rcpt.Email] = append(m.sent[rcpt.Email], overdue...)
	return nil
}

func (m *mockDispatcher) sentTo(email string) []notifier.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sent[email]
}

func (m *mockDispatcher) totalSends(email string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent[email])
}

// failingRecipients simulates an unreachable account store.
type failingRecipients struct{}

func (failingRecipients) ListRecipients(ctx context.Context) ([]notifier.Recipient, error) {
	return nil, errors.New("connection refused")
}

func (failingRecipients) GetRecipient(ctx context.Context, id string) (*notifier.Recipient, error) {
	return nil, errors.New("connection refused")
}

func (failingRecipients) SetLastNotified(ctx context.Context, id string, at time.Time) error {
	return errors.New("connection refused")
}

// failingTasks fails the task query for one owner and delegates the rest.
type failingTasks struct {
	inner  notifier.TaskRepository
	broken string
}

func (f failingTasks) PendingTasks(ctx context.Context, ownerID string) ([]notifier.Task, error) {
	if ownerID == f.broken {
		return nil, errors.New("cursor timeout")
	}
	return f.inner.PendingTasks(ctx, ownerID)
}

func newController(t *testing.T, storage *notifier.MemoryStorage, dispatcher notifier.Dispatcher) *notifier.Controller {
	t.Helper()
	ctrl, err := notifier.New(storage, storage, dispatcher)
	require.NoError(t, err)
	return ctrl
}

func TestNew(t *testing.T) {
	t.Parallel()

	storage := notifier.NewMemoryStorage()
	dispatcher := newMockDispatcher()

	t.Run("successful creation", func(t *testing.T) {
		t.Parallel()

		ctrl, err := notifier.New(storage, storage, dispatcher)
		require.NoError(t, err)
		require.NotNil(t, ctrl)
		assert.False(t, ctrl.Status().Running)
	})

	t.Run("nil repositories", func(t *testing.T) {
		t.Parallel()

		_, err := notifier.New(nil, storage, dispatcher)
		assert.ErrorIs(t, err, notifier.ErrRepositoryNil)

		_, err = notifier.New(storage, nil, dispatcher)
		assert.ErrorIs(t, err, notifier.ErrRepositoryNil)
	})

	t.Run("nil dispatcher", func(t *testing.T) {
		t.Parallel()

		_, err := notifier.New(storage, storage, nil)
		assert.ErrorIs(t, err, notifier.ErrDispatcherNil)
	})
}

func TestController_ForceCheck(t *testing.T) {
	t.Parallel()

	t.Run("sends only overdue tasks", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		storage.AddRecipient(notifier.Recipient{ID: "a", Email: "a@example.com", Name: "Alice"})
		storage.AddTask(notifier.Task{
			ID: "t1", OwnerID: "a", Title: "due yesterday",
			DueDate: time.Now().Add(-24 * time.Hour).Format(time.RFC3339),
			Status:  notifier.TaskStatusPending,
		})
		storage.AddTask(notifier.Task{
			ID: "t2", OwnerID: "a", Title: "due next week",
			DueDate: time.Now().Add(7 * 24 * time.Hour).Format(time.RFC3339),
			Status:  notifier.TaskStatusPending,
		})

		dispatcher := newMockDispatcher()
		ctrl := newController(t, storage, dispatcher)

		res := ctrl.ForceCheck(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, 1, res.NotificationsSent)
		assert.Equal(t, 1, res.OverdueTasks)
		assert.Equal(t, 1, res.RecipientsScanned)

		delivered := dispatcher.sentTo("a@example.com")
		require.Len(t, delivered, 1)
		assert.Equal(t, "due yesterday", delivered[0].Title)

		// Timestamp advanced after the successful dispatch.
		rcpt, err := storage.GetRecipient(context.Background(), "a")
		require.NoError(t, err)
		require.NotNil(t, rcpt.LastOverdueNotification)
		assert.WithinDuration(t, time.Now(), *rcpt.LastOverdueNotification, 5*time.Second)
	})

	t.Run("recently notified recipient is suppressed", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		twoHoursAgo := time.Now().Add(-2 * time.Hour)
		storage.AddRecipient(notifier.Recipient{
			ID: "b", Email: "b@example.com", Name: "Bob",
			LastOverdueNotification: &twoHoursAgo,
		})
		storage.AddRecipient(notifier.Recipient{ID: "z", Email: "z@example.com", Name: "Zoe"})
		for _, owner := range []string{"b", "z"} {
			storage.AddTask(notifier.Task{
				ID: "t-" + owner, OwnerID: owner, Title: "late",
				DueDate: time.Now().Add(-time.Hour).Format(time.RFC3339),
				Status:  notifier.TaskStatusPending,
			})
		}

		dispatcher := newMockDispatcher()
		ctrl := newController(t, storage, dispatcher)

		res := ctrl.ForceCheck(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, 1, res.NotificationsSent)
		assert.Equal(t, 2, res.OverdueTasks)
		assert.Zero(t, dispatcher.totalSends("b@example.com"))
		assert.Equal(t, 1, dispatcher.totalSends("z@example.com"))
	})

	t.Run("dispatch failure does not stop the pass", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		storage.AddRecipient(notifier.Recipient{ID: "c", Email: "c@example.com", Name: "Carol"})
		storage.AddRecipient(notifier.Recipient{ID: "d", Email: "d@example.com", Name: "Dave"})
		for _, owner := range []string{"c", "d"} {
			storage.AddTask(notifier.Task{
				ID: "t-" + owner, OwnerID: owner, Title: "late",
				DueDate: time.Now().Add(-time.Hour).Format(time.RFC3339),
				Status:  notifier.TaskStatusPending,
			})
		}

		dispatcher := newMockDispatcher()
		dispatcher.failFor["c@example.com"] = errors.New("mailbox unavailable")
		ctrl := newController(t, storage, dispatcher)

		res := ctrl.ForceCheck(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, 1, res.NotificationsSent)
		assert.Equal(t, 1, dispatcher.totalSends("d@example.com"))

		// Failed dispatch must not engage the suppression window.
		rcpt, err := storage.GetRecipient(context.Background(), "c")
		require.NoError(t, err)
		assert.Nil(t, rcpt.LastOverdueNotification)
	})

	t.Run("recipient with no pending tasks contributes nothing", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		storage.AddRecipient(notifier.Recipient{ID: "e", Email: "e@example.com", Name: "Eve"})

		dispatcher := newMockDispatcher()
		ctrl := newController(t, storage, dispatcher)

		res := ctrl.ForceCheck(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, 1, res.RecipientsScanned)
		assert.Zero(t, res.NotificationsSent)
		assert.Zero(t, res.OverdueTasks)
	})

	t.Run("enumeration failure fails the pass", func(t *testing.T) {
		t.Parallel()

		ctrl, err := notifier.New(failingRecipients{}, notifier.NewMemoryStorage(), newMockDispatcher())
		require.NoError(t, err)

		res := ctrl.ForceCheck(context.Background())

		assert.False(t, res.Success)
		assert.Zero(t, res.NotificationsSent)
		assert.Contains(t, res.Message, "scan failed")
	})

	t.Run("task fetch failure skips only that recipient", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		storage.AddRecipient(notifier.Recipient{ID: "f", Email: "f@example.com", Name: "Frank"})
		storage.AddRecipient(notifier.Recipient{ID: "g", Email: "g@example.com", Name: "Grace"})
		storage.AddTask(notifier.Task{
			ID: "t-g", OwnerID: "g", Title: "late",
			DueDate: time.Now().Add(-time.Hour).Format(time.RFC3339),
			Status:  notifier.TaskStatusPending,
		})

		dispatcher := newMockDispatcher()
		ctrl, err := notifier.New(storage, failingTasks{inner: storage, broken: "f"}, dispatcher)
		require.NoError(t, err)

		res := ctrl.ForceCheck(context.Background())

		assert.True(t, res.Success)
		assert.Equal(t, 1, res.RecipientsScanned)
		assert.Equal(t, 1, res.NotificationsSent)
	})
}

func TestController_CheckRecipient(t *testing.T) {
	t.Parallel()

	t.Run("by id and by email", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		storage.AddRecipient(notifier.Recipient{ID: "h", Email: "h@example.com", Name: "Hank"})
		storage.AddTask(notifier.Task{
			ID: "t-h", OwnerID: "h", Title: "late",
			DueDate: time.Now().Add(-time.Hour).Format(time.RFC3339),
			Status:  notifier.TaskStatusPending,
		})

		dispatcher := newMockDispatcher()
		ctrl := newController(t, storage, dispatcher)

		res, err := ctrl.CheckRecipient(context.Background(), "h")
		require.NoError(t, err)
		assert.Equal(t, 1, res.NotificationsSent)

		// Second check by email hits the fresh suppression window.
		res, err = ctrl.CheckRecipient(context.Background(), "h@example.com")
		require.NoError(t, err)
		assert.Zero(t, res.NotificationsSent)
		assert.Equal(t, 1, res.OverdueTasks)
	})

	t.Run("unknown recipient", func(t *testing.T) {
		t.Parallel()

		ctrl := newController(t, notifier.NewMemoryStorage(), newMockDispatcher())

		_, err := ctrl.CheckRecipient(context.Background(), "nobody")
		assert.ErrorIs(t, err, notifier.ErrRecipientNotFound)
	})
}

func TestController_Lifecycle(t *testing.T) {
	t.Parallel()

	t.Run("start runs an immediate pass", func(t *testing.T) {
		t.Parallel()

		storage := notifier.NewMemoryStorage()
		storage.AddRecipient(notifier.Recipient{ID: "i", Email: "i@example.com", Name: "Iris"})
		storage.AddTask(notifier.Task{
			ID: "t-i", OwnerID: "i", Title: "late",
			DueDate: time.Now().Add(-time.Hour).Format(time.RFC3339),
			Status:  notifier.TaskStatusPending,
		})

		dispatcher := newMockDispatcher()
		ctrl := newController(t, storage, dispatcher)
		defer ctrl.Stop()

		st := ctrl.Start(60)
		assert.True(t, st.Running)
		assert.Equal(t, 60, st.IntervalMinutes)

		require.Eventually(t, func() bool {
			return dispatcher.totalSends("i@example.com") == 1
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("start is idempotent and preserves the interval", func(t *testing.T) {
		t.Parallel()

		ctrl := newController(t, notifier.NewMemoryStorage(), newMockDispatcher())
		defer ctrl.Stop()

		first := ctrl.Start(15)
		assert.Equal(t, 15, first.IntervalMinutes)

		second := ctrl.Start(90)
		assert.True(t, second.Running)
		assert.Equal(t, 15, second.IntervalMinutes)

		assert.Equal(t, 15, ctrl.Status().IntervalMinutes)
	})

	t.Run("non-positive interval falls back to default", func(t *testing.T) {
		t.Parallel()

		ctrl := newController(t, notifier.NewMemoryStorage(), newMockDispatcher())
		defer ctrl.Stop()

		st := ctrl.Start(0)
		assert.Equal(t, notifier.DefaultIntervalMinutes, st.IntervalMinutes)
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		t.Parallel()

		ctrl := newController(t, notifier.NewMemoryStorage(), newMockDispatcher())

		ctrl.Start(30)
		st := ctrl.Stop()
		assert.False(t, st.Running)
		assert.Zero(t, st.IntervalMinutes)

		assert.NotPanics(t, func() { ctrl.Stop() })
		assert.False(t, ctrl.Status().Running)
	})

	t.Run("restart after stop arms a new timer", func(t *testing.T) {
		t.Parallel()

		ctrl := newController(t, notifier.NewMemoryStorage(), newMockDispatcher())
		defer ctrl.Stop()

		ctrl.Start(15)
		ctrl.Stop()

		st := ctrl.Start(45)
		assert.True(t, st.Running)
		assert.Equal(t, 45, st.IntervalMinutes)
	})

	t.Run("status is safe while running", func(t *testing.T) {
		t.Parallel()

		ctrl := newController(t, notifier.NewMemoryStorage(), newMockDispatcher())
		defer ctrl.Stop()

		ctrl.Start(30)

		var wg sync.WaitGroup
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for range 50 {
					_ = ctrl.Status()
				}
			}()
		}
		wg.Wait()

		assert.True(t, ctrl.Status().Running)
	})
}
