package stats

import (
	"sort"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

type topicKey struct {
	subject model.Subject
	topic   string
}

// TopicStats aggregates the syllabus-valid part of list per (subject, topic),
// weakest first: accuracy ascending, then attempts descending.
func (e Engine) TopicStats(list []model.Attempt) []model.TopicStat {
	included := syllabus.Filter(list).Included
	w := windowsAt(e.now())
	minSamples := max(1, e.Policy.MinTrendSamples)

	groups := map[topicKey][]model.Attempt{}
	for _, a := range included {
		k := topicKey{subject: a.Subject, topic: a.Topic}
		groups[k] = append(groups[k], a)
	}

	out := make([]model.TopicStat, 0, len(groups))
	for k, group := range groups {
		correct := countCorrect(group)
		spent := 0
		for _, a := range group {
			spent += max(0, a.TimeSpentSec)
		}
		ts := model.TopicStat{
			Subject:    k.subject,
			Topic:      k.topic,
			Attempts:   len(group),
			Correct:    correct,
			Accuracy:   ratio(correct, len(group)),
			AvgTimeSec: roundHalfUp(float64(spent) / float64(max(1, len(group)))),
		}
		last, prev := w.split(group)
		ts.Last7Count = len(last)
		ts.Prev7Count = len(prev)
		if len(last) > 0 {
			acc := ratio(countCorrect(last), len(last))
			ts.Last7Acc = &acc
		}
		if len(last) >= minSamples && len(prev) >= minSamples {
			trend := percent(ratio(countCorrect(last), len(last)) - ratio(countCorrect(prev), len(prev)))
			ts.Trend = &trend
		}
		out = append(out, ts)
	}
	sortWeakestFirst(out)
	return out
}

func sortWeakestFirst(list []model.TopicStat) {
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if a.Accuracy != b.Accuracy {
			return a.Accuracy < b.Accuracy
		}
		if a.Attempts != b.Attempts {
			return a.Attempts > b.Attempts
		}
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Topic < b.Topic
	})
}
