// Package subscription manages parent-to-learner digest subscriptions.
package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/store"
)

// Key is the slot holding the registry.
const Key = "ai.parent.subscriptions.v1"

const maxWriteRetries = 16

// ErrNotFound is returned when no subscription matches.
var ErrNotFound = errors.New("subscription not found")

// Registry stores subscriptions in insertion order.
type Registry struct {
	slot     store.Slot
	validate *validator.Validate
	log      *logger.Logger
	now      func() time.Time
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for soft failures.
func WithLogger(log *logger.Logger) Option {
	return func(r *Registry) { r.log = logger.OrNop(log) }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// New returns a Registry over slot.
func New(slot store.Slot, opts ...Option) *Registry {
	r := &Registry{slot: slot, validate: newValidator(), log: logger.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// List returns every subscription in insertion order. A corrupt registry
// reads as empty.
func (r *Registry) List(ctx context.Context) []model.Subscription {
	subs, _, err := r.read(ctx)
	if err != nil {
		r.log.Warn("failed to read subscriptions", "error", err)
	}
	return subs
}

// Subscribe links parentEmail to childEmail. Both must be Gmail addresses,
// otherwise a ValidationError is returned and nothing is stored. An existing
// identical pair is returned unchanged.
func (r *Registry) Subscribe(ctx context.Context, parentEmail, childEmail string) (model.Subscription, error) {
	if err := validateRequest(r.validate, subscribeRequest{ParentEmail: parentEmail, ChildEmail: childEmail}); err != nil {
		return model.Subscription{}, err
	}
	token, err := newToken()
	if err != nil {
		return model.Subscription{}, err
	}
	fresh := model.Subscription{
		ID:          "sub-" + uuid.NewString(),
		ParentEmail: parentEmail,
		ChildEmail:  childEmail,
		Token:       token,
		CreatedAt:   r.now().UnixMilli(),
		IsEnabled:   true,
	}

	var result model.Subscription
	err = r.update(ctx, func(subs []model.Subscription) ([]model.Subscription, bool) {
		for _, s := range subs {
			if s.ParentEmail == parentEmail && s.ChildEmail == childEmail {
				result = s
				return subs, false
			}
		}
		result = fresh
		return append(subs, fresh), true
	})
	if err != nil {
		return model.Subscription{}, err
	}
	return result, nil
}

// Remove deletes the subscription with id. Unknown ids are ignored.
func (r *Registry) Remove(ctx context.Context, id string) error {
	return r.update(ctx, func(subs []model.Subscription) ([]model.Subscription, bool) {
		out := make([]model.Subscription, 0, len(subs))
		for _, s := range subs {
			if s.ID != id {
				out = append(out, s)
			}
		}
		return out, len(out) != len(subs)
	})
}

// FindByToken returns the subscription owning a share token.
func (r *Registry) FindByToken(ctx context.Context, token string) (model.Subscription, error) {
	if token == "" {
		return model.Subscription{}, ErrNotFound
	}
	for _, s := range r.List(ctx) {
		if s.Token == token {
			return s, nil
		}
	}
	return model.Subscription{}, ErrNotFound
}

func (r *Registry) read(ctx context.Context) ([]model.Subscription, int64, error) {
	e, err := r.slot.Get(ctx, Key)
	if err != nil {
		return []model.Subscription{}, 0, err
	}
	if !e.Exists() || e.Value == "" {
		return []model.Subscription{}, e.Version, nil
	}
	var subs []model.Subscription
	if err := json.Unmarshal([]byte(e.Value), &subs); err != nil {
		r.log.Warn("malformed subscription registry, treating as empty", "error", err)
		return []model.Subscription{}, e.Version, nil
	}
	if subs == nil {
		subs = []model.Subscription{}
	}
	return subs, e.Version, nil
}

// update applies fn under optimistic concurrency. fn reports whether it
// changed the list; unchanged lists are not written.
func (r *Registry) update(ctx context.Context, fn func([]model.Subscription) ([]model.Subscription, bool)) error {
	for i := 0; i < maxWriteRetries; i++ {
		subs, version, err := r.read(ctx)
		if err != nil {
			return fmt.Errorf("failed to read subscriptions: %w", err)
		}
		next, changed := fn(subs)
		if !changed {
			return nil
		}
		raw, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to encode subscriptions: %w", err)
		}
		_, err = r.slot.Put(ctx, Key, string(raw), version)
		if err == nil {
			return nil
		}
		if !errors.Is(err, store.ErrVersionConflict) {
			return fmt.Errorf("failed to save subscriptions: %w", err)
		}
	}
	return fmt.Errorf("failed to save subscriptions after %d tries: %w", maxWriteRetries, store.ErrVersionConflict)
}
