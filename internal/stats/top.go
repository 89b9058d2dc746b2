package stats

import (
	"sort"

	"github.com/verte-zerg/ontap/internal/model"
)

// MostPracticed returns the n topics with the most attempts.
func MostPracticed(topics []model.TopicStat, n int) []model.TopicStat {
	if n <= 0 || len(topics) == 0 {
		return nil
	}
	items := make([]model.TopicStat, len(topics))
	copy(items, topics)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Attempts == items[j].Attempts {
			if items[i].Subject == items[j].Subject {
				return items[i].Topic < items[j].Topic
			}
			return items[i].Subject < items[j].Subject
		}
		return items[i].Attempts > items[j].Attempts
	})
	if n > len(items) {
		n = len(items)
	}
	return items[:n]
}
