// Package usage records accepted generations in an append-only ledger and
// aggregates them for the admin view.
package usage

import (
	"context"
	"errors"
	"strings"
	"sync"

	"atelier/internal/models"
)

// Header is the fixed column layout of the ledger.
var Header = []string{"timestamp", "user", "language", "activity", "attempts"}

var (
	ErrInvalidRecord = errors.New("invalid usage record")
)

// Ledger stores usage records. Records are only ever appended.
type Ledger interface {
	Append(ctx context.Context, rec models.UsageRecord) error
	All(ctx context.Context) ([]models.UsageRecord, error)
}

// Validate reports whether rec can be written to a ledger.
func Validate(rec models.UsageRecord) error {
	switch {
	case rec.Timestamp.IsZero():
		return errors.Join(ErrInvalidRecord, errors.New("missing timestamp"))
	case strings.TrimSpace(rec.User) == "":
		return errors.Join(ErrInvalidRecord, errors.New("missing user"))
	case rec.Language == "":
		return errors.Join(ErrInvalidRecord, errors.New("missing language"))
	case !rec.Activity.Valid():
		return errors.Join(ErrInvalidRecord, errors.New("unknown activity "+string(rec.Activity)))
	case rec.Attempts < 1:
		return errors.Join(ErrInvalidRecord, errors.New("attempts must be positive"))
	}
	return nil
}

// MemoryLedger keeps records in memory. It is used in tests and when no
// ledger file is configured.
type MemoryLedger struct {
	mu      sync.Mutex
	records []models.UsageRecord
}

func NewMemoryLedger(records ...models.UsageRecord) *MemoryLedger {
	return &MemoryLedger{records: append([]models.UsageRecord(nil), records...)}
}

func (l *MemoryLedger) Append(ctx context.Context, rec models.UsageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := Validate(rec); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.records = append(l.records, rec)
	return nil
}

func (l *MemoryLedger) All(ctx context.Context) ([]models.UsageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.UsageRecord(nil), l.records...), nil
}
