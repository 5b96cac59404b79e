package subscription

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Repository errors.
var (
	ErrNotFound = errors.New("subscription not found")
)

// Repository defines the interface for subscription persistence.
type Repository interface {
	// FindByEmail retrieves a subscription by normalized email.
	FindByEmail(ctx context.Context, email string) (*Subscription, error)

	// Upsert creates a subscription or replaces the preferences of an
	// existing one keyed by the same email.
	Upsert(ctx context.Context, sub *Subscription) error

	// ListActive retrieves all active subscriptions.
	ListActive(ctx context.Context) ([]Subscription, error)

	// MarkNotified records the last successful notification time.
	// The update must be visible to the next read within the same
	// dispatch pass.
	MarkNotified(ctx context.Context, email string, at time.Time) error

	// SetActive flips the active flag for an existing subscription.
	SetActive(ctx context.Context, email string, active bool) error
}

// InMemoryRepository is an in-memory implementation of Repository,
// used in tests.
type InMemoryRepository struct {
	mu   sync.RWMutex
	subs map[string]*Subscription
}

// NewInMemoryRepository creates a new in-memory subscription repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{subs: make(map[string]*Subscription)}
}

// FindByEmail retrieves a subscription by email.
func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (*Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sub, ok := r.subs[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return copySubscription(sub), nil
}

// Upsert creates or replaces a subscription.
func (r *InMemoryRepository) Upsert(_ context.Context, sub *Subscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := NormalizeEmail(sub.Email)
	now := time.Now()

	if existing, ok := r.subs[key]; ok {
		sub.CreatedAt = existing.CreatedAt
		sub.LastNotifiedAt = existing.LastNotifiedAt
	} else {
		sub.CreatedAt = now
	}
	sub.UpdatedAt = now
	r.subs[key] = copySubscription(sub)
	return nil
}

// ListActive retrieves all active subscriptions.
func (r *InMemoryRepository) ListActive(_ context.Context) ([]Subscription, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Subscription
	for _, sub := range r.subs {
		if sub.Active {
			out = append(out, *copySubscription(sub))
		}
	}
	return out, nil
}

// MarkNotified records the last notification time.
func (r *InMemoryRepository) MarkNotified(_ context.Context, email string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[NormalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	sub.LastNotifiedAt = &at
	sub.UpdatedAt = time.Now()
	return nil
}

// SetActive flips the active flag.
func (r *InMemoryRepository) SetActive(_ context.Context, email string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	sub, ok := r.subs[NormalizeEmail(email)]
	if !ok {
		return ErrNotFound
	}
	sub.Active = active
	sub.UpdatedAt = time.Now()
	return nil
}

// copySubscription creates a deep copy so callers cannot mutate stored state.
func copySubscription(s *Subscription) *Subscription {
	if s == nil {
		return nil
	}
	subCopy := *s
	if s.LastNotifiedAt != nil {
		at := *s.LastNotifiedAt
		subCopy.LastNotifiedAt = &at
	}
	return &subCopy
}
