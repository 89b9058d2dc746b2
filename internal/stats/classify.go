package stats

import (
	"sort"

	"github.com/verte-zerg/ontap/internal/model"
)

// Classification sorts topic and subject stats into actionable groups.
type Classification struct {
	Strengths     []model.TopicStat
	Weaknesses    []model.TopicStat
	Watchlist     []model.TopicStat
	SubjectAlerts []model.SubjectMastery
}

// Classify applies the policy thresholds to each topic independently. topics must be ordered weakest first,
// as returned by TopicStats.
func (e Engine) Classify(topics []model.TopicStat, mastery []model.SubjectMastery) Classification {
	p := e.Policy
	var c Classification
	for _, t := range topics {
		if e.isStrength(t) {
			c.Strengths = append(c.Strengths, t)
		}
		if e.isWeakness(t) {
			c.Weaknesses = append(c.Weaknesses, t)
		}
		if declining(t) && t.Accuracy >= p.DecliningMaxAccuracy {
			c.Watchlist = append(c.Watchlist, t)
		}
	}
	sort.SliceStable(c.Strengths, func(i, j int) bool {
		if c.Strengths[i].Accuracy != c.Strengths[j].Accuracy {
			return c.Strengths[i].Accuracy > c.Strengths[j].Accuracy
		}
		return c.Strengths[i].Attempts > c.Strengths[j].Attempts
	})
	c.Strengths = topN(c.Strengths, p.TopN)
	c.Weaknesses = topN(c.Weaknesses, p.TopN)
	c.Watchlist = topN(c.Watchlist, p.TopN)

	for _, m := range mastery {
		if m.Trend != nil && *m.Trend < p.SubjectAlertTrend && m.Attempts >= p.SubjectAlertMinAttempts {
			c.SubjectAlerts = append(c.SubjectAlerts, m)
		}
	}
	return c
}

func (e Engine) isStrength(t model.TopicStat) bool {
	return t.Accuracy >= e.Policy.StrengthMinAccuracy && t.Attempts >= e.Policy.StrengthMinAttempts
}

func (e Engine) isWeakness(t model.TopicStat) bool {
	return t.Accuracy < e.Policy.WeaknessMaxAccuracy || (declining(t) && t.Accuracy < e.Policy.DecliningMaxAccuracy)
}

func declining(t model.TopicStat) bool {
	return t.Trend != nil && *t.Trend < 0
}

func topN[T any](list []T, n int) []T {
	if n > 0 && len(list) > n {
		return list[:n]
	}
	return list
}
