package plan

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/store"
)

// Key is the slot holding the current plan.
const Key = "ai.studyplan.current.v1"

// Store keeps the learner's current plan.
type Store struct {
	slot    store.Slot
	learner string
	log     *logger.Logger
}

// NewStore returns a plan store scoped to learner.
func NewStore(slot store.Slot, learner string, log *logger.Logger) *Store {
	return &Store{slot: slot, learner: learner, log: logger.OrNop(log)}
}

// Save replaces the current plan.
func (s *Store) Save(ctx context.Context, plan model.StudyPlan) error {
	raw, err := json.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to encode plan: %w", err)
	}
	if _, err := s.slot.Put(ctx, store.NamespacedKey(s.learner, Key), string(raw), store.AnyVersion); err != nil {
		return fmt.Errorf("failed to save plan: %w", err)
	}
	return nil
}

// Load returns the current plan, or nil when none is stored or it cannot be
// read.
func (s *Store) Load(ctx context.Context) *model.StudyPlan {
	e, err := s.slot.Get(ctx, store.NamespacedKey(s.learner, Key))
	if err != nil {
		s.log.Warn("failed to read plan", "error", err)
		return nil
	}
	if !e.Exists() || e.Value == "" {
		return nil
	}
	var plan model.StudyPlan
	if err := json.Unmarshal([]byte(e.Value), &plan); err != nil {
		s.log.Warn("malformed plan, ignoring", "error", err)
		return nil
	}
	return &plan
}
