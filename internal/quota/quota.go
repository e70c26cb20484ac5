// Package quota caps how many generations each user may request.
package quota

import (
	"context"
	"errors"
	"strings"
)

// DefaultLimit is the number of attempts a user gets.
const DefaultLimit = 5

var (
	ErrQuotaExceeded = errors.New("attempt limit reached")
	ErrBlankUser     = errors.New("user key is blank")
)

// Store holds attempt counters. Implementations must make Increment atomic:
// a counter at or above limit is left unchanged and ErrQuotaExceeded returned.
type Store interface {
	Increment(ctx context.Context, key string, limit int) (int, error)
	Decrement(ctx context.Context, key string) error
	Get(ctx context.Context, key string) (int, error)
	// Raise sets the counter to n unless it is already higher.
	Raise(ctx context.Context, key string, n int) error
}

// Tracker applies a per-user attempt limit on top of a Store.
type Tracker struct {
	Limit int
	Store Store
}

// NewTracker returns a tracker with the given limit; limit <= 0 uses
// DefaultLimit. A nil store uses a MemoryStore.
func NewTracker(limit int, store Store) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &Tracker{Limit: limit, Store: store}
}

// Key normalises a user identifier into a counter key.
func Key(user string) string {
	return strings.ToLower(strings.Join(strings.Fields(user), " "))
}

// Acquire consumes one attempt and returns the new attempt count.
func (t *Tracker) Acquire(ctx context.Context, user string) (int, error) {
	key := Key(user)
	if key == "" {
		return 0, ErrBlankUser
	}
	return t.Store.Increment(ctx, key, t.Limit)
}

// Release gives back an attempt taken by Acquire, e.g. when the provider
// call failed.
func (t *Tracker) Release(ctx context.Context, user string) error {
	key := Key(user)
	if key == "" {
		return ErrBlankUser
	}
	return t.Store.Decrement(ctx, key)
}

// Used returns how many attempts the user has consumed.
func (t *Tracker) Used(ctx context.Context, user string) (int, error) {
	key := Key(user)
	if key == "" {
		return 0, nil
	}
	n, err := t.Store.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	return min(n, t.Limit), nil
}

// Remaining returns how many attempts the user has left.
func (t *Tracker) Remaining(ctx context.Context, user string) (int, error) {
	used, err := t.Used(ctx, user)
	if err != nil {
		return 0, err
	}
	return max(t.Limit-used, 0), nil
}

// Seed restores counters from previously recorded attempts, keyed by user.
// Counters are capped at the limit and never lowered.
func (t *Tracker) Seed(ctx context.Context, attempts map[string]int) error {
	for user, n := range attempts {
		key := Key(user)
		if key == "" || n <= 0 {
			continue
		}
		if err := t.Store.Raise(ctx, key, min(n, t.Limit)); err != nil {
			return err
		}
	}
	return nil
}
