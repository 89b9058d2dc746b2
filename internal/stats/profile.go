package stats

import (
	"fmt"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// Profile messages by mean subject accuracy.
const (
	MessageThriving = "Bạn đang tiến bộ rất tốt, hãy tiếp tục phát huy nhé!"
	MessageSteady   = "Tiến độ ổn! Tập trung 2–3 chủ đề yếu để bứt phá."
	MessageStarting = "Đừng lo, bắt đầu từ chủ đề cơ bản và học 15’/ngày."
)

const planTaskMinutes = 15

// SummarizeProfile builds the learning-profile overview. streakDays and
// goalMin are passed through from the learner's settings.
func (e Engine) SummarizeProfile(list []model.Attempt, streakDays, goalMin int) model.ProfileSummary {
	filtered := syllabus.Filter(list)
	mastery := e.SubjectMastery(filtered.Included)
	topics := e.TopicStats(filtered.Included)
	c := e.Classify(topics, mastery)

	summary := model.ProfileSummary{
		Message:           profileMessage(mastery),
		Strengths:         make([]model.Insight, 0, len(c.Strengths)),
		Weaknesses:        make([]model.Insight, 0, len(c.Weaknesses)),
		Watchlist:         make([]string, 0, len(c.Watchlist)),
		Alerts:            make([]string, 0, len(c.SubjectAlerts)),
		StreakDays:        streakDays,
		WeeklyGoalMin:     goalMin,
		IgnoredOutOfScope: filtered.ExcludedCount,
	}
	for _, t := range c.Strengths {
		summary.Strengths = append(summary.Strengths, model.Insight{
			Subject: t.Subject,
			Topic:   t.Topic,
			Label:   topicLabel(t.Subject, t.Topic),
			Reason:  fmt.Sprintf("Độ chính xác %d%% (%d câu), TB %ds", percent(t.Accuracy), t.Attempts, t.AvgTimeSec),
		})
	}
	for _, t := range c.Weaknesses {
		summary.Weaknesses = append(summary.Weaknesses, model.Insight{
			Subject: t.Subject,
			Topic:   t.Topic,
			Label:   topicLabel(t.Subject, t.Topic),
			Reason:  fmt.Sprintf("Độ chính xác %d%%, xu hướng %s", percent(t.Accuracy), trendText(t.Trend)),
		})
	}
	for _, t := range c.Watchlist {
		summary.Watchlist = append(summary.Watchlist, fmt.Sprintf("%s (%d%%, %sđ)", t.Topic, percent(t.Accuracy), signed(*t.Trend)))
	}
	for _, m := range c.SubjectAlerts {
		summary.Alerts = append(summary.Alerts, fmt.Sprintf("Phong độ %s đang giảm %d điểm trong 7 ngày qua.", m.Label, *m.Trend))
	}
	summary.Plan = planSuggestions(summary.Weaknesses, e.Policy.TopN)
	return summary
}

func profileMessage(mastery []model.SubjectMastery) string {
	var sum float64
	for _, m := range mastery {
		sum += m.Accuracy
	}
	avg := sum / float64(max(1, len(mastery)))
	switch {
	case avg >= 0.75:
		return MessageThriving
	case avg >= 0.6:
		return MessageSteady
	default:
		return MessageStarting
	}
}

func planSuggestions(weaknesses []model.Insight, n int) []model.PlanSuggestion {
	source := weaknesses
	if len(source) == 0 {
		source = []model.Insight{{
			Subject: model.SubjectMath,
			Topic:   "Ôn cơ bản",
			Label:   topicLabel(model.SubjectMath, "Ôn cơ bản"),
			Reason:  "Giữ nhịp học",
		}}
	}
	source = topN(source, n)
	out := make([]model.PlanSuggestion, 0, len(source))
	for _, w := range source {
		out = append(out, model.PlanSuggestion{
			Task:    fmt.Sprintf("Ôn %s bằng 10 câu mục tiêu + xem lời giải chậm", w.Label),
			Why:     w.Reason,
			Minutes: planTaskMinutes,
		})
	}
	return out
}

func topicLabel(subject model.Subject, topic string) string {
	return syllabus.Label(subject) + " – " + topic
}

func trendText(trend *int) string {
	if trend == nil {
		return "không đủ dữ liệu"
	}
	return signed(*trend) + " điểm"
}

func signed(v int) string {
	if v >= 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}
