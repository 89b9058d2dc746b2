// Package generator builds demo attempt logs and picks practice topics.
package generator

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

const day = 24 * time.Hour

var difficulties = []model.Difficulty{model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard}

// Generator produces randomized attempts.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Demo returns 2 to 4 attempts per subject per day for the days ending at
// now, math slightly stronger than the rest.
func (g *Generator) Demo(now time.Time, days int) []model.Attempt {
	var out []model.Attempt
	for d := days - 1; d >= 0; d-- {
		dayStart := now.Add(-time.Duration(d) * day)
		for _, s := range syllabus.Subjects() {
			topics := syllabus.Topics(s)
			n := 2 + g.rnd.Intn(3)
			pCorrect := 0.6
			if s == model.SubjectMath {
				pCorrect += 0.1
			}
			for i := 0; i < n; i++ {
				ts := dayStart.Add(time.Duration(g.rnd.Int63n(int64(time.Hour))))
				if ts.After(now) {
					ts = now
				}
				out = append(out, model.Attempt{
					ID:           fmt.Sprintf("demo-%d-%s-%d", dayStart.UnixMilli(), s, i),
					Subject:      s,
					Topic:        topics[g.rnd.Intn(len(topics))],
					Correct:      g.rnd.Float64() < pCorrect,
					Difficulty:   difficulties[g.rnd.Intn(len(difficulties))],
					TimeSpentSec: 20 + g.rnd.Intn(70),
					Timestamp:    ts.UnixMilli(),
				})
			}
		}
	}
	return out
}

// Today returns n attempts spread over the hour before now.
func (g *Generator) Today(now time.Time, n int) []model.Attempt {
	subjects := syllabus.Subjects()
	out := make([]model.Attempt, 0, n)
	for i := 0; i < n; i++ {
		s := subjects[g.rnd.Intn(len(subjects))]
		topics := syllabus.Topics(s)
		out = append(out, model.Attempt{
			ID:           fmt.Sprintf("today-%d-%d", now.UnixMilli(), i),
			Subject:      s,
			Topic:        topics[g.rnd.Intn(len(topics))],
			Correct:      g.rnd.Float64() > 0.4,
			Difficulty:   difficulties[g.rnd.Intn(len(difficulties))],
			TimeSpentSec: 20 + g.rnd.Intn(80),
			Timestamp:    now.Add(-time.Duration(g.rnd.Int63n(int64(time.Hour)))).UnixMilli(),
		})
	}
	return out
}

// PickTopic selects a syllabus topic of subject with a bias toward weak
// topics: each weak topic weighs 1+factor, the rest 1.
func (g *Generator) PickTopic(subject model.Subject, weak map[string]struct{}, factor float64) string {
	topics := syllabus.Topics(subject)
	if len(topics) == 0 {
		return ""
	}
	weights := make([]float64, len(topics))
	total := 0.0
	for i, t := range topics {
		w := 1.0
		if _, ok := weak[t]; ok {
			w += factor
		}
		weights[i] = w
		total += w
	}
	r := g.rnd.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r <= acc {
			return topics[i]
		}
	}
	return topics[len(topics)-1]
}
