package model

import (
	"fmt"
	"strings"
)

// Level is the learner's self-assessed level.
type Level string

// Levels from weakest to strongest.
const (
	LevelWeak      Level = "yeu"
	LevelAverage   Level = "trung-binh"
	LevelGood      Level = "kha"
	LevelExcellent Level = "gioi"
)

// ParseLevel validates a level code.
func ParseLevel(v string) (Level, error) {
	switch l := Level(strings.ToLower(strings.TrimSpace(v))); l {
	case LevelWeak, LevelAverage, LevelGood, LevelExcellent:
		return l, nil
	}
	return "", fmt.Errorf("unknown level %q (use yeu, trung-binh, kha, gioi)", v)
}

// TaskType is the kind of plan task.
type TaskType string

// Task types.
const (
	TaskPractice TaskType = "practice"
	TaskTheory   TaskType = "theory"
	TaskReview   TaskType = "review"
)

// ExerciseItem is one block of an exercise pack.
type ExerciseItem struct {
	Mode       string     `json:"mode"`
	Minutes    int        `json:"minutes"`
	Count      int        `json:"count,omitempty"`
	Difficulty Difficulty `json:"difficulty,omitempty"`
	Note       string     `json:"note,omitempty"`
}

// StartParams opens a quiz for an exercise pack.
type StartParams struct {
	Mode string     `json:"mode"`
	Num  int        `json:"num"`
	Diff Difficulty `json:"diff"`
}

// ExercisePack is the ready-to-start exercise bundle attached to a task.
type ExercisePack struct {
	Title           string         `json:"title"`
	Minutes         int            `json:"minutes"`
	Items           []ExerciseItem `json:"items"`
	KnowledgePoints []string       `json:"knowledgePoints"`
	StartParams     *StartParams   `json:"startParams,omitempty"`
}

// PlanTask is a single study-plan task.
type PlanTask struct {
	ID          string        `json:"id"`
	Week        int           `json:"week"`
	Subject     Subject       `json:"subject"`
	Topic       string        `json:"topic"`
	Type        TaskType      `json:"type"`
	Minutes     int           `json:"minutes"`
	Recommended bool          `json:"recommended"`
	Done        bool          `json:"done"`
	Exercise    *ExercisePack `json:"exercise,omitempty"`
}

// StudyPlan is a generated multi-week plan.
type StudyPlan struct {
	ID            string     `json:"id"`
	Subject       Subject    `json:"subject"`
	Weeks         int        `json:"weeks"`
	DaysPerWeek   int        `json:"daysPerWeek"`
	MinutesPerDay int        `json:"minutesPerDay"`
	Level         Level      `json:"level"`
	Goal          string     `json:"goal"`
	CreatedAt     int64      `json:"createdAt"`
	Tasks         []PlanTask `json:"tasks"`
}

// WeeklyMinutes returns the planned minutes per week.
func (p StudyPlan) WeeklyMinutes() int {
	return p.DaysPerWeek * p.MinutesPerDay
}
