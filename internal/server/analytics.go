package server

import (
	"context"

	"github.com/verte-zerg/ontap/internal/ledger"
	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/plan"
	"github.com/verte-zerg/ontap/internal/stats"
	"github.com/verte-zerg/ontap/internal/store"
)

// Analytics derives a learner's reports.
type Analytics interface {
	Digest(ctx context.Context, learner string) model.WeeklyDigest
	Profile(ctx context.Context, learner string) model.ProfileSummary
}

// LedgerAnalytics reads each learner's ledger and plan from a shared slot.
type LedgerAnalytics struct {
	slot   store.Slot
	engine stats.Engine
	log    *logger.Logger
}

var _ Analytics = (*LedgerAnalytics)(nil)

// NewLedgerAnalytics returns analytics over slot.
func NewLedgerAnalytics(slot store.Slot, engine stats.Engine, log *logger.Logger) *LedgerAnalytics {
	return &LedgerAnalytics{slot: slot, engine: engine, log: logger.OrNop(log)}
}

func (a *LedgerAnalytics) ledger(learner string) *ledger.Ledger {
	return ledger.New(a.slot, ledger.WithLearner(learner), ledger.WithLogger(a.log), ledger.WithClock(a.engine.Now))
}

// Digest builds the learner's weekly digest.
func (a *LedgerAnalytics) Digest(ctx context.Context, learner string) model.WeeklyDigest {
	current := plan.NewStore(a.slot, learner, a.log).Load(ctx)
	return a.engine.WeeklyDigest(learner, a.ledger(learner).Load(ctx), current)
}

// Profile builds the learner's profile summary. It only reads the ledger.
func (a *LedgerAnalytics) Profile(ctx context.Context, learner string) model.ProfileSummary {
	l := a.ledger(learner)
	return a.engine.SummarizeProfile(l.Load(ctx), l.Streak(ctx), l.WeeklyGoal(ctx))
}
