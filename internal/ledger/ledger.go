// Package ledger persists the attempt log and the learner's small settings.
package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/store"
)

// Slot keys.
const (
	KeyAttempts = "ai.learning.attempts.v1"
	KeyStreak   = "ai.learning.streak.v1"
	KeyGoal     = "ai.learning.goalMin.v1"
)

const maxAppendRetries = 16

// Ledger reads and writes a learner's attempt log.
type Ledger struct {
	slot    store.Slot
	learner string
	log     *logger.Logger
	now     func() time.Time
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithLearner namespaces every key by the learner's e-mail.
func WithLearner(email string) Option {
	return func(l *Ledger) { l.learner = email }
}

// WithLogger sets the logger used for soft failures.
func WithLogger(log *logger.Logger) Option {
	return func(l *Ledger) { l.log = logger.OrNop(log) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns a Ledger over slot.
func New(slot store.Slot, opts ...Option) *Ledger {
	l := &Ledger{slot: slot, log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Learner returns the learner the ledger is scoped to.
func (l *Ledger) Learner() string {
	return l.learner
}

// Now returns the ledger clock's current time.
func (l *Ledger) Now() time.Time {
	return l.now()
}

func (l *Ledger) key(k string) string {
	return store.NamespacedKey(l.learner, k)
}

// Load returns the full attempt log. A missing, unreadable or malformed slot
// yields an empty log.
func (l *Ledger) Load(ctx context.Context) []model.Attempt {
	list, _ := l.load(ctx)
	return list
}

func (l *Ledger) load(ctx context.Context) ([]model.Attempt, int64) {
	e, err := l.slot.Get(ctx, l.key(KeyAttempts))
	if err != nil {
		l.log.Warn("failed to read attempt log", "learner", l.learner, "error", err)
		return []model.Attempt{}, store.AnyVersion
	}
	if !e.Exists() || e.Value == "" {
		return []model.Attempt{}, e.Version
	}
	var list []model.Attempt
	if err := json.Unmarshal([]byte(e.Value), &list); err != nil {
		l.log.Warn("malformed attempt log, treating as empty", "learner", l.learner, "error", err)
		return []model.Attempt{}, e.Version
	}
	if list == nil {
		list = []model.Attempt{}
	}
	return list, e.Version
}

// Save overwrites the persisted log with list.
func (l *Ledger) Save(ctx context.Context, list []model.Attempt) error {
	raw, err := encode(list)
	if err != nil {
		return err
	}
	if _, err := l.slot.Put(ctx, l.key(KeyAttempts), raw, store.AnyVersion); err != nil {
		return fmt.Errorf("failed to save attempts: %w", err)
	}
	return nil
}

// Append adds attempts to the log with an optimistic read-modify-write,
// retrying when another writer got there first. Missing IDs and timestamps
// are filled in.
func (l *Ledger) Append(ctx context.Context, attempts ...model.Attempt) error {
	if len(attempts) == 0 {
		return nil
	}
	fresh := make([]model.Attempt, len(attempts))
	for i, a := range attempts {
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		if a.Timestamp == 0 {
			a.Timestamp = l.now().UnixMilli()
		}
		fresh[i] = a
	}

	for i := 0; i < maxAppendRetries; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		cur, version := l.load(ctx)
		if version == store.AnyVersion {
			return fmt.Errorf("failed to read attempts before append")
		}
		raw, err := encode(append(cur, fresh...))
		if err != nil {
			return err
		}
		_, err = l.slot.Put(ctx, l.key(KeyAttempts), raw, version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return fmt.Errorf("failed to append attempts: %w", err)
		}
		l.log.Debug("attempt log changed during append, retrying", "learner", l.learner, "try", i+1)
	}
	return fmt.Errorf("failed to append attempts after %d tries: %w", maxAppendRetries, store.ErrVersionConflict)
}

func encode(list []model.Attempt) (string, error) {
	if list == nil {
		list = []model.Attempt{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("failed to encode attempts: %w", err)
	}
	return string(raw), nil
}
