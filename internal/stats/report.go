package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// Source provides a learner's attempt log and settings.
type Source interface {
	Learner() string
	Load(ctx context.Context) []model.Attempt
	StreakDays(ctx context.Context) int
	WeeklyGoalMin(ctx context.Context) int
}

// Report contains precomputed data for rendering.
type Report struct {
	Learner       string                 `json:"learner"`
	Attempts      int                    `json:"attempts"`
	ExcludedCount int                    `json:"excludedCount"`
	Mastery       []model.SubjectMastery `json:"mastery"`
	Topics        []model.TopicStat      `json:"topics"`
	Profile       model.ProfileSummary   `json:"profile"`
	Digest        model.WeeklyDigest     `json:"digest"`
	Daily         []DailyPoint           `json:"daily"`
}

// BuildReport loads the log once and derives every view from its in-syllabus
// attempts.
func BuildReport(ctx context.Context, src Source, e Engine, plan *model.StudyPlan, days int) Report {
	list := src.Load(ctx)
	filtered := syllabus.Filter(list)
	return Report{
		Learner:       src.Learner(),
		Attempts:      len(list),
		ExcludedCount: filtered.ExcludedCount,
		Mastery:       e.SubjectMastery(filtered.Included),
		Topics:        e.TopicStats(filtered.Included),
		Profile:       e.SummarizeProfile(list, src.StreakDays(ctx), src.WeeklyGoalMin(ctx)),
		Digest:        e.WeeklyDigest(src.Learner(), list, plan),
		Daily:         e.Daily(filtered.Included, days),
	}
}

// RenderReport prints the full text report.
func RenderReport(w io.Writer, r Report, topicLimit, window int) error {
	if err := RenderProfile(w, r.Profile); err != nil {
		return err
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return err
	}
	if err := RenderMastery(w, r.Mastery); err != nil {
		return err
	}
	if err := RenderTopics(w, r.Topics, topicLimit); err != nil {
		return err
	}
	if err := RenderMostPracticed(w, r.Topics, 3); err != nil {
		return err
	}
	return RenderDaily(w, r.Daily, window)
}
