// Package plan builds multi-week study plans with ready-to-start exercise
// packs.
package plan

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/stats"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// Params describes the plan to generate.
type Params struct {
	Subject       model.Subject
	Weeks         int
	DaysPerWeek   int
	MinutesPerDay int
	Level         model.Level
	Goal          string
}

// Validate checks the plan shape.
func (p Params) Validate() error {
	if !p.Subject.Known() {
		return fmt.Errorf("unknown subject %q", p.Subject)
	}
	if p.Weeks < 1 || p.Weeks > 52 {
		return fmt.Errorf("weeks must be within [1,52], got %d", p.Weeks)
	}
	if p.DaysPerWeek < 1 || p.DaysPerWeek > 7 {
		return fmt.Errorf("days per week must be within [1,7], got %d", p.DaysPerWeek)
	}
	if p.MinutesPerDay < 1 {
		return fmt.Errorf("minutes per day must be positive, got %d", p.MinutesPerDay)
	}
	if _, err := model.ParseLevel(string(p.Level)); err != nil {
		return err
	}
	return nil
}

func practiceRatio(level model.Level) float64 {
	switch level {
	case model.LevelWeak:
		return 0.7
	case model.LevelAverage:
		return 0.6
	case model.LevelGood:
		return 0.55
	default:
		return 0.5
	}
}

// taskType picks the day's task: the last day of a week is review, every
// fifth day starting at day 2 is theory.
func taskType(day, daysPerWeek int) model.TaskType {
	switch {
	case day == daysPerWeek:
		return model.TaskReview
	case day%5 == 2:
		return model.TaskTheory
	default:
		return model.TaskPractice
	}
}

// topicQueue interleaves weak topics with the rest of the syllabus, then
// appends the syllabus topics not yet queued.
func topicQueue(subject model.Subject, weak []string) []string {
	syl := syllabus.Topics(subject)
	base := make([]string, 0, len(syl))
	for _, t := range syl {
		if !slices.Contains(weak, t) {
			base = append(base, t)
		}
	}
	var queue []string
	for i := 0; i < max(len(syl), 1); i++ {
		if i < len(weak) {
			queue = append(queue, weak[i])
		}
		if i%2 == 0 && i < len(base) {
			queue = append(queue, base[i])
		}
	}
	if len(queue) == 0 {
		return syl
	}
	for _, t := range base {
		if !slices.Contains(queue, t) {
			queue = append(queue, t)
		}
	}
	return queue
}

// GeneratePlan builds a plan from the learner's attempts. The result only
// depends on its inputs.
func GeneratePlan(p Params, attempts []model.Attempt, e stats.Engine, now time.Time) (model.StudyPlan, error) {
	if err := p.Validate(); err != nil {
		return model.StudyPlan{}, err
	}
	weak := e.WeakTopics(p.Subject, attempts)
	queue := topicQueue(p.Subject, weak)
	ratio := practiceRatio(p.Level)

	id := fmt.Sprintf("plan-%s-%d", p.Subject, now.UnixMilli())
	tasks := make([]model.PlanTask, 0, p.Weeks*p.DaysPerWeek)
	cursor := 0
	for w := 1; w <= p.Weeks; w++ {
		for d := 1; d <= p.DaysPerWeek; d++ {
			typ := taskType(d, p.DaysPerWeek)
			topic := queue[cursor%len(queue)]
			cursor++

			share := 1 - ratio
			if typ == model.TaskPractice {
				share = ratio
			}
			pack := BuildExercisePack(p.Subject, p.Level, topic, typ)
			tasks = append(tasks, model.PlanTask{
				ID:          fmt.Sprintf("%s-w%d-d%d", id, w, d),
				Week:        w,
				Subject:     p.Subject,
				Topic:       topic,
				Type:        typ,
				Minutes:     int(math.Floor(float64(p.MinutesPerDay)*share + 0.5)),
				Recommended: slices.Contains(weak, topic),
				Exercise:    &pack,
			})
		}
	}
	return model.StudyPlan{
		ID:            id,
		Subject:       p.Subject,
		Weeks:         p.Weeks,
		DaysPerWeek:   p.DaysPerWeek,
		MinutesPerDay: p.MinutesPerDay,
		Level:         p.Level,
		Goal:          p.Goal,
		CreatedAt:     now.UnixMilli(),
		Tasks:         tasks,
	}, nil
}

// ToggleTaskDone returns a copy of plan with the task's done flag flipped.
// The second result is false when no task has that id.
func ToggleTaskDone(plan model.StudyPlan, taskID string) (model.StudyPlan, bool) {
	out := plan
	out.Tasks = make([]model.PlanTask, len(plan.Tasks))
	copy(out.Tasks, plan.Tasks)
	found := false
	for i := range out.Tasks {
		if out.Tasks[i].ID == taskID {
			out.Tasks[i].Done = !out.Tasks[i].Done
			found = true
		}
	}
	return out, found
}

// MinutesProgress returns the done and total minutes of a plan.
func MinutesProgress(plan model.StudyPlan) (done, total int) {
	for _, t := range plan.Tasks {
		total += t.Minutes
		if t.Done {
			done += t.Minutes
		}
	}
	return done, total
}

// TaskProgress returns the number of done and total tasks of a plan.
func TaskProgress(plan model.StudyPlan) (done, total int) {
	for _, t := range plan.Tasks {
		if t.Done {
			done++
		}
	}
	return done, len(plan.Tasks)
}

// PercentDone returns the share of planned minutes already done, in percent.
func PercentDone(plan model.StudyPlan) int {
	done, total := MinutesProgress(plan)
	return int(math.Round(float64(done) / float64(max(1, total)) * 100))
}
