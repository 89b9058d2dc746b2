package stats

import "github.com/verte-zerg/ontap/internal/model"

// WeakTopics returns every weak topic of subject, weakest first and unique.
func (e Engine) WeakTopics(subject model.Subject, list []model.Attempt) []string {
	own := make([]model.Attempt, 0, len(list))
	for _, a := range list {
		if a.Subject == subject {
			own = append(own, a)
		}
	}
	seen := map[string]struct{}{}
	var out []string
	for _, t := range e.TopicStats(own) {
		if !e.isWeakness(t) {
			continue
		}
		if _, ok := seen[t.Topic]; ok {
			continue
		}
		seen[t.Topic] = struct{}{}
		out = append(out, t.Topic)
	}
	return out
}
