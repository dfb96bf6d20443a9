package notifier

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"
)

// MemoryStorage implements RecipientRepository and TaskRepository in
// memory, for tests and local development without a database.
type MemoryStorage struct {
	mu         sync.RWMutex
	recipients map[string]Recipient
	tasks      map[string][]Task // keyed by owner id
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		recipients: make(map[string]Recipient),
		tasks:      make(map[string][]Task),
	}
}

// AddRecipient registers a notification target.
func (ms *MemoryStorage) AddRecipient(r Recipient) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.recipients[r.ID] = r
}

// AddTask registers a task under its owner.
func (ms *MemoryStorage) AddTask(t Task) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.tasks[t.OwnerID] = append(ms.tasks[t.OwnerID], t)
}

// ListRecipients implements RecipientRepository. Results are ordered by
// recipient id so repeated enumerations are stable.
func (ms *MemoryStorage) ListRecipients(ctx context.Context) ([]Recipient, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	ids := make([]string, 0, len(ms.recipients))
	for id := range ms.recipients {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	recipients := make([]Recipient, 0, len(ids))
	for _, id := range ids {
		recipients = append(recipients, ms.recipients[id])
	}
	return recipients, nil
}

// GetRecipient implements RecipientRepository, matching by id or email.
func (ms *MemoryStorage) GetRecipient(ctx context.Context, id string) (*Recipient, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if r, ok := ms.recipients[id]; ok {
		return &r, nil
	}
	for _, r := range ms.recipients {
		if strings.EqualFold(r.Email, id) {
			return &r, nil
		}
	}
	return nil, ErrRecipientNotFound
}

// SetLastNotified implements RecipientRepository.
func (ms *MemoryStorage) SetLastNotified(ctx context.Context, id string, at time.Time) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	r, ok := ms.recipients[id]
	if !ok {
		return ErrRecipientNotFound
	}
	r.LastOverdueNotification = &at
	ms.recipients[id] = r
	return nil
}

// PendingTasks implements TaskRepository.
func (ms *MemoryStorage) PendingTasks(ctx context.Context, ownerID string) ([]Task, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	var pending []Task
	for _, t := range ms.tasks[ownerID] {
		if t.Status == TaskStatusPending {
			pending = append(pending, t)
		}
	}
	return pending, nil
}
