package reading

import (
	"context"
	"errors"
	"sync"
	"time"
)

// Repository errors.
var (
	ErrNoReadings = errors.New("no readings recorded")
)

// Repository defines the interface for reading persistence.
type Repository interface {
	// Insert stores a new reading, assigning its timestamp.
	Insert(ctx context.Context, r Reading) (Reading, error)

	// Latest retrieves the most recently inserted reading.
	// Returns ErrNoReadings when nothing has been recorded yet.
	Latest(ctx context.Context) (Reading, error)

	// LatestLocal retrieves the most recent sensor-sourced reading,
	// skipping merged readings. Returns ErrNoReadings when no sensor
	// reading has been recorded yet.
	LatestLocal(ctx context.Context) (Reading, error)

	// Range retrieves readings with timestamp >= since, ascending.
	Range(ctx context.Context, since time.Time) ([]Reading, error)
}

// InMemoryRepository is an in-memory implementation of Repository,
// used in tests.
type InMemoryRepository struct {
	mu       sync.RWMutex
	readings []Reading
	now      func() time.Time
}

// NewInMemoryRepository creates a new in-memory reading repository.
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{now: time.Now}
}

// SetClock overrides the timestamp source, for tests.
func (r *InMemoryRepository) SetClock(now func() time.Time) {
	r.now = now
}

// Insert stores a new reading.
func (r *InMemoryRepository) Insert(_ context.Context, reading Reading) (Reading, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	reading.Timestamp = r.now()
	r.readings = append(r.readings, reading)
	return reading, nil
}

// Latest returns the most recently inserted reading.
func (r *InMemoryRepository) Latest(_ context.Context) (Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.readings) == 0 {
		return Reading{}, ErrNoReadings
	}
	return r.readings[len(r.readings)-1], nil
}

// LatestLocal returns the most recently inserted sensor reading.
func (r *InMemoryRepository) LatestLocal(_ context.Context) (Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for i := len(r.readings) - 1; i >= 0; i-- {
		if r.readings[i].Source == SourceSensor {
			return r.readings[i], nil
		}
	}
	return Reading{}, ErrNoReadings
}

// Range returns readings at or after since, in insertion order.
func (r *InMemoryRepository) Range(_ context.Context, since time.Time) ([]Reading, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Reading
	for _, rd := range r.readings {
		if !rd.Timestamp.Before(since) {
			out = append(out, rd)
		}
	}
	return out, nil
}
