package stats

import (
	"fmt"
	"strings"

	"github.com/verte-zerg/ontap/internal/model"
)

// EncouragementAction is emitted when no other action rule fires.
const EncouragementAction = "Khen ngợi tiến bộ, duy trì thói quen học tập và luyện 1 đề tổng hợp vào cuối tuần."

// digestFacts are the inputs the action rules look at.
type digestFacts struct {
	HasRedAlert   bool
	Minutes       int
	MinutesTarget int
	Weaknesses    []model.DigestTopic
}

type actionRule struct {
	name string
	when func(digestFacts) bool
	text func(digestFacts) string
}

var actionRules = []actionRule{
	{
		name: "red-alert",
		when: func(f digestFacts) bool { return f.HasRedAlert },
		text: func(digestFacts) string {
			return "Động viên con làm 1 buổi luyện đề trọn vẹn (30–45’), hoàn thành đúng kế hoạch."
		},
	},
	{
		name: "under-target",
		when: func(f digestFacts) bool { return f.Minutes < f.MinutesTarget },
		text: func(f digestFacts) string {
			return fmt.Sprintf("Sắp xếp thời gian để đạt ≥ %d’/tuần (ví dụ 5 buổi × %d phút).",
				f.MinutesTarget, roundHalfUp(float64(f.MinutesTarget)/5))
		},
	},
	{
		name: "weak-topics",
		when: func(f digestFacts) bool { return len(f.Weaknesses) > 0 },
		text: func(f digestFacts) string {
			names := make([]string, 0, len(f.Weaknesses))
			for _, w := range f.Weaknesses {
				names = append(names, w.Topic)
			}
			return fmt.Sprintf("Nhắc con dùng tính năng “Ôn ngay” các chủ đề yếu: %s.", strings.Join(names, ", "))
		},
	},
}

func deriveActions(f digestFacts) []string {
	var out []string
	for _, r := range actionRules {
		if r.when(f) {
			out = append(out, r.text(f))
		}
	}
	if len(out) == 0 {
		out = append(out, EncouragementAction)
	}
	return out
}
