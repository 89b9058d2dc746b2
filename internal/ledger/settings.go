package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/verte-zerg/ontap/internal/store"
)

// DefaultWeeklyGoalMin is the weekly goal written on first read.
const DefaultWeeklyGoalMin = 90

const dayLayout = "2006-01-02"

type streakState struct {
	LastDay string `json:"lastDay"`
	Days    int    `json:"days"`
}

// readStreak returns the stored streak state, or false when none is usable.
func (l *Ledger) readStreak(ctx context.Context) (streakState, bool) {
	e, err := l.slot.Get(ctx, l.key(KeyStreak))
	if err != nil {
		l.log.Warn("failed to read streak", "learner", l.learner, "error", err)
		return streakState{}, false
	}
	if !e.Exists() {
		return streakState{}, false
	}
	var st streakState
	if err := json.Unmarshal([]byte(e.Value), &st); err != nil {
		l.log.Warn("malformed streak", "learner", l.learner, "error", err)
		return streakState{}, false
	}
	return st, true
}

// StreakDays records today's visit and returns the consecutive-day streak.
// A visit on the same day keeps the count, a visit the day after extends it,
// anything else restarts it at 1. Corrupt state counts as a fresh start.
func (l *Ledger) StreakDays(ctx context.Context) int {
	now := l.now()
	today := now.Format(dayLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dayLayout)

	days := 1
	if st, ok := l.readStreak(ctx); ok {
		switch st.LastDay {
		case today:
			days = st.Days
		case yesterday:
			days = st.Days + 1
		}
		if days < 1 {
			days = 1
		}
	}
	raw, err := json.Marshal(streakState{LastDay: today, Days: days})
	if err == nil {
		_, err = l.slot.Put(ctx, l.key(KeyStreak), string(raw), store.AnyVersion)
	}
	if err != nil {
		l.log.Warn("failed to write streak", "learner", l.learner, "error", err)
	}
	return days
}

// Streak returns the stored streak without recording a visit. A streak whose
// last visit is older than yesterday has lapsed and reads as 0.
func (l *Ledger) Streak(ctx context.Context) int {
	st, ok := l.readStreak(ctx)
	if !ok || st.Days < 0 {
		return 0
	}
	now := l.now()
	switch st.LastDay {
	case now.Format(dayLayout), now.AddDate(0, 0, -1).Format(dayLayout):
		return st.Days
	}
	return 0
}

// WeeklyGoal returns the weekly goal in minutes without storing anything.
// A missing or invalid value reads as DefaultWeeklyGoalMin.
func (l *Ledger) WeeklyGoal(ctx context.Context) int {
	v, _ := l.weeklyGoal(ctx)
	return v
}

func (l *Ledger) weeklyGoal(ctx context.Context) (int, bool) {
	e, err := l.slot.Get(ctx, l.key(KeyGoal))
	if err != nil {
		l.log.Warn("failed to read weekly goal", "learner", l.learner, "error", err)
		return DefaultWeeklyGoalMin, true
	}
	if !e.Exists() {
		return DefaultWeeklyGoalMin, false
	}
	v, err := strconv.Atoi(strings.TrimSpace(e.Value))
	if err != nil || v <= 0 {
		return DefaultWeeklyGoalMin, true
	}
	return v, true
}

// WeeklyGoalMin returns the weekly goal in minutes, storing the default on
// first read.
func (l *Ledger) WeeklyGoalMin(ctx context.Context) int {
	v, stored := l.weeklyGoal(ctx)
	if !stored {
		if _, err := l.slot.Put(ctx, l.key(KeyGoal), strconv.Itoa(DefaultWeeklyGoalMin), store.AnyVersion); err != nil {
			l.log.Warn("failed to store default weekly goal", "learner", l.learner, "error", err)
		}
	}
	return v
}

// SetWeeklyGoalMin stores the weekly goal in minutes.
func (l *Ledger) SetWeeklyGoalMin(ctx context.Context, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("weekly goal must be positive, got %d", minutes)
	}
	if _, err := l.slot.Put(ctx, l.key(KeyGoal), strconv.Itoa(minutes), store.AnyVersion); err != nil {
		return fmt.Errorf("failed to save weekly goal: %w", err)
	}
	return nil
}
