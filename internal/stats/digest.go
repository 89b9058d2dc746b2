package stats

import (
	"fmt"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// DigestRangeLabel names the digest period.
const DigestRangeLabel = "7 ngày gần nhất"

// AlertNoActivity is the red alert for an idle week.
const AlertNoActivity = "Tuần này chưa có hoạt động luyện tập."

// WeeklyDigest builds the trailing-week report for one learner. plan supplies
// the minutes target when present. Attempts outside the syllabus are ignored.
func (e Engine) WeeklyDigest(childEmail string, list []model.Attempt, plan *model.StudyPlan) model.WeeklyDigest {
	p := e.Policy
	list = syllabus.Filter(list).Included
	last, prev := windowsAt(e.now()).split(list)

	acc7 := 0
	if len(last) > 0 {
		acc7 = percent(ratio(countCorrect(last), len(last)))
	}
	accPrev := acc7
	if len(prev) > 0 {
		accPrev = percent(ratio(countCorrect(prev), len(prev)))
	}
	spent := 0
	for _, a := range last {
		spent += max(0, a.TimeSpentSec)
	}
	target := p.DefaultMinutesTarget
	if plan != nil && plan.WeeklyMinutes() > 0 {
		target = plan.WeeklyMinutes()
	}

	d := model.WeeklyDigest{
		ChildEmail:      childEmail,
		RangeLabel:      DigestRangeLabel,
		MinutesThisWeek: roundHalfUp(float64(spent) / 60),
		MinutesTarget:   target,
		Accuracy7d:      acc7,
		AccuracyChange:  acc7 - accPrev,
		HasActivity:     len(last) > 0,
	}

	mastery := e.SubjectMastery(list)
	topics := e.TopicStats(list)
	c := e.Classify(topics, mastery)
	d.Mastery = make([]model.DigestMastery, 0, len(mastery))
	for _, m := range mastery {
		d.Mastery = append(d.Mastery, model.DigestMastery{Subject: m.Subject, Label: m.Label, Accuracy: percent(m.Accuracy)})
	}
	d.Strengths = digestTopics(c.Strengths)
	d.Weaknesses = digestTopics(c.Weaknesses)
	d.Alerts = e.digestAlerts(d)
	d.Actions = deriveActions(digestFacts{
		HasRedAlert:   d.HasRedAlert(),
		Minutes:       d.MinutesThisWeek,
		MinutesTarget: d.MinutesTarget,
		Weaknesses:    d.Weaknesses,
	})
	return d
}

func (e Engine) digestAlerts(d model.WeeklyDigest) []model.DigestAlert {
	p := e.Policy
	alerts := []model.DigestAlert{}
	if !d.HasActivity {
		alerts = append(alerts, model.DigestAlert{Level: model.AlertRed, Text: AlertNoActivity})
	} else if d.AccuracyChange <= p.DigestRedChange {
		alerts = append(alerts, model.DigestAlert{
			Level: model.AlertRed,
			Text:  fmt.Sprintf("Xu hướng giảm %d điểm so với tuần trước.", -d.AccuracyChange),
		})
	}
	if float64(d.MinutesThisWeek) < float64(d.MinutesTarget)*p.DigestMinutesRatio {
		alerts = append(alerts, model.DigestAlert{
			Level: model.AlertYellow,
			Text:  fmt.Sprintf("Thời lượng học thấp (%d’ so với mục tiêu %d’/tuần).", d.MinutesThisWeek, d.MinutesTarget),
		})
	}
	if d.Accuracy7d > 0 && d.Accuracy7d < p.DigestLowAccuracy {
		alerts = append(alerts, model.DigestAlert{
			Level: model.AlertYellow,
			Text:  fmt.Sprintf("Độ chính xác 7 ngày gần nhất ở mức %d%%.", d.Accuracy7d),
		})
	}
	return alerts
}

func digestTopics(list []model.TopicStat) []model.DigestTopic {
	out := make([]model.DigestTopic, 0, len(list))
	for _, t := range list {
		out = append(out, model.DigestTopic{
			Subject:  t.Subject,
			Label:    syllabus.Label(t.Subject),
			Topic:    t.Topic,
			Accuracy: percent(t.Accuracy),
			Trend:    t.Trend,
			Attempts: t.Attempts,
		})
	}
	return out
}
