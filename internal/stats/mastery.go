package stats

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// SubjectMastery returns one record per subject present in the syllabus-valid
// part of list, sorted by display label.
func (e Engine) SubjectMastery(list []model.Attempt) []model.SubjectMastery {
	included := syllabus.Filter(list).Included
	w := windowsAt(e.now())

	groups := map[model.Subject][]model.Attempt{}
	for _, a := range included {
		groups[a.Subject] = append(groups[a.Subject], a)
	}

	out := make([]model.SubjectMastery, 0, len(groups))
	for subject, group := range groups {
		m := model.SubjectMastery{
			Subject:  subject,
			Label:    syllabus.Label(subject),
			Attempts: len(group),
			Accuracy: ratio(countCorrect(group), len(group)),
		}
		last, prev := w.split(group)
		if (len(last) > 0 && len(prev) > 0) || e.Policy.ZeroFillEmptyWindows {
			trend := percent(ratio(countCorrect(last), len(last)) - ratio(countCorrect(prev), len(prev)))
			m.Trend = &trend
		}
		out = append(out, m)
	}
	sortByLabel(out)
	return out
}

func sortByLabel(list []model.SubjectMastery) {
	col := collate.New(language.Vietnamese)
	sort.Slice(list, func(i, j int) bool {
		if c := col.CompareString(list[i].Label, list[j].Label); c != 0 {
			return c < 0
		}
		return list[i].Subject < list[j].Subject
	})
}
