// Package stats derives mastery, topic, profile and digest analytics from an
// attempt log.
package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/ontap/internal/model"
)

const week = 7 * 24 * time.Hour

// Policy holds the classifier and digest thresholds.
type Policy struct {
	StrengthMinAccuracy     float64
	StrengthMinAttempts     int
	WeaknessMaxAccuracy     float64
	DecliningMaxAccuracy    float64
	MinTrendSamples         int
	SubjectAlertTrend       int
	SubjectAlertMinAttempts int
	DigestRedChange         int
	DigestMinutesRatio      float64
	DigestLowAccuracy       int
	DefaultMinutesTarget    int
	TopN                    int
	// ZeroFillEmptyWindows scores an empty 7-day window as 0% when computing
	// subject trends instead of leaving the trend unset.
	ZeroFillEmptyWindows bool
}

// DefaultPolicy returns the stock thresholds.
func DefaultPolicy() Policy {
	return Policy{
		StrengthMinAccuracy:     0.8,
		StrengthMinAttempts:     8,
		WeaknessMaxAccuracy:     0.6,
		DecliningMaxAccuracy:    0.75,
		MinTrendSamples:         3,
		SubjectAlertTrend:       -8,
		SubjectAlertMinAttempts: 6,
		DigestRedChange:         -5,
		DigestMinutesRatio:      0.6,
		DigestLowAccuracy:       60,
		DefaultMinutesTarget:    100,
		TopN:                    3,
	}
}

// Validate checks that the thresholds are usable and keep strengths and
// weaknesses disjoint.
func (p Policy) Validate() error {
	for name, v := range map[string]float64{
		"strength-min-accuracy":  p.StrengthMinAccuracy,
		"weakness-max-accuracy":  p.WeaknessMaxAccuracy,
		"declining-max-accuracy": p.DecliningMaxAccuracy,
		"digest-minutes-ratio":   p.DigestMinutesRatio,
	} {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s must be within [0,1], got %v", name, v)
		}
	}
	if p.StrengthMinAccuracy < p.DecliningMaxAccuracy || p.DecliningMaxAccuracy < p.WeaknessMaxAccuracy {
		return fmt.Errorf("expected weakness-max-accuracy <= declining-max-accuracy <= strength-min-accuracy")
	}
	if p.StrengthMinAttempts < 1 || p.MinTrendSamples < 1 || p.TopN < 1 {
		return fmt.Errorf("strength-min-attempts, min-trend-samples and top-n must be positive")
	}
	if p.DefaultMinutesTarget <= 0 {
		return fmt.Errorf("default-minutes-target must be positive, got %d", p.DefaultMinutesTarget)
	}
	return nil
}

// Engine computes analytics relative to a clock.
type Engine struct {
	Policy Policy
	Now    func() time.Time
}

// NewEngine returns an Engine. A nil clock means time.Now.
func NewEngine(p Policy, now func() time.Time) Engine {
	return Engine{Policy: p, Now: now}
}

func (e Engine) now() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}

// windows splits attempts into the trailing week and the week before it.
// Attempts stamped after now count as this week.
type windows struct {
	weekStart int64
	prevStart int64
}

func windowsAt(now time.Time) windows {
	return windows{
		weekStart: now.Add(-week).UnixMilli(),
		prevStart: now.Add(-2 * week).UnixMilli(),
	}
}

func (w windows) split(list []model.Attempt) (last, prev []model.Attempt) {
	for _, a := range list {
		switch {
		case a.Timestamp >= w.weekStart:
			last = append(last, a)
		case a.Timestamp >= w.prevStart:
			prev = append(prev, a)
		}
	}
	return last, prev
}

func countCorrect(list []model.Attempt) int {
	n := 0
	for _, a := range list {
		if a.Correct {
			n++
		}
	}
	return n
}

func ratio(correct, total int) float64 {
	return float64(correct) / float64(max(1, total))
}

// roundHalfUp rounds halves toward positive infinity.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

func percent(v float64) int {
	return roundHalfUp(v * 100)
}
