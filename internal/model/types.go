// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Subject is an exam subject code such as "toan" or "ngu-van".
type Subject string

// Known subjects of the grade-10 entrance exam.
const (
	SubjectMath        Subject = "toan"
	SubjectLiterature  Subject = "ngu-van"
	SubjectEnglish     Subject = "tieng-anh"
	SubjectPhysics     Subject = "vat-li"
	SubjectChemistry   Subject = "hoa-hoc"
	SubjectBiology     Subject = "sinh-hoc"
	SubjectHistory     Subject = "lich-su"
	SubjectGeography   Subject = "dia-li"
	SubjectInformatics Subject = "tin-hoc"
	SubjectFrench      Subject = "tieng-phap"
)

// KnownSubjects lists every known subject in canonical order.
var KnownSubjects = []Subject{
	SubjectMath,
	SubjectLiterature,
	SubjectEnglish,
	SubjectPhysics,
	SubjectChemistry,
	SubjectBiology,
	SubjectHistory,
	SubjectGeography,
	SubjectInformatics,
	SubjectFrench,
}

// Known reports whether s is one of the known subjects. Unknown codes are kept
// as-is in stored data but never pass the syllabus filter.
func (s Subject) Known() bool {
	for _, k := range KnownSubjects {
		if s == k {
			return true
		}
	}
	return false
}

// ParseSubject validates a subject code at an input boundary.
func ParseSubject(code string) (Subject, error) {
	s := Subject(strings.ToLower(strings.TrimSpace(code)))
	if !s.Known() {
		return "", fmt.Errorf("unknown subject %q", code)
	}
	return s, nil
}

// Difficulty of a practice question.
type Difficulty string

// Difficulty levels. The empty value means unspecified.
const (
	DifficultyEasy   Difficulty = "E"
	DifficultyMedium Difficulty = "M"
	DifficultyHard   Difficulty = "H"
)

// ParseDifficulty accepts E/M/H or easy/medium/hard. Empty input is unspecified.
func ParseDifficulty(v string) (Difficulty, error) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return "", nil
	case "e", "easy":
		return DifficultyEasy, nil
	case "m", "medium":
		return DifficultyMedium, nil
	case "h", "hard":
		return DifficultyHard, nil
	}
	return "", fmt.Errorf("unknown difficulty %q", v)
}

// Attempt is one recorded answer. Attempts are immutable once created.
type Attempt struct {
	ID           string     `json:"id"`
	Subject      Subject    `json:"subject"`
	Topic        string     `json:"topic"`
	Correct      bool       `json:"correct"`
	Difficulty   Difficulty `json:"difficulty,omitempty"`
	TimeSpentSec int        `json:"timeSpentSec,omitempty"`
	Timestamp    int64      `json:"timestamp"`
}

// Time returns the attempt timestamp as a time.Time.
func (a Attempt) Time() time.Time {
	return time.UnixMilli(a.Timestamp)
}

// SubjectTopic names a topic within a subject.
type SubjectTopic struct {
	Subject string `json:"subject"`
	Topic   string `json:"topic"`
}

// MockQuestion is a generated multiple-choice question.
type MockQuestion struct {
	ID          int      `json:"id"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
}

// LearningProfile is the AI-generated learning-profile suggestion.
type LearningProfile struct {
	Strengths         []SubjectTopic `json:"strengths"`
	Weaknesses        []SubjectTopic `json:"weaknesses"`
	Recommendations   []string       `json:"recommendations"`
	MotivationalQuote string         `json:"motivationalQuote"`
}

// Subscription links a parent to a learner's weekly digest.
type Subscription struct {
	ID          string `json:"id"`
	ParentEmail string `json:"parentEmail"`
	ChildEmail  string `json:"childEmail"`
	Token       string `json:"token"`
	CreatedAt   int64  `json:"createdAt"`
	IsEnabled   bool   `json:"isEnabled"`
}
