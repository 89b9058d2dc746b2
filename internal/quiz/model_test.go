package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/ontap/internal/model"
)

type fakeRecorder struct {
	attempts []model.Attempt
	err      error
}

func (f *fakeRecorder) Append(_ context.Context, attempts ...model.Attempt) error {
	if f.err != nil {
		return f.err
	}
	f.attempts = append(f.attempts, attempts...)
	return nil
}

func sampleQuestions() []model.MockQuestion {
	return []model.MockQuestion{
		{ID: 1, Question: "1 + 1 = ?", Options: []string{"1", "2", "3", "4"}, Answer: "2", Explanation: "Cộng hai số."},
		{ID: 2, Question: "2 × 3 = ?", Options: []string{"5", "6", "7", "8"}, Answer: "6"},
	}
}

func typeKey(m *Model, key string) tea.Cmd {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func newTestModel(rec Recorder) (*Model, *time.Time) {
	clock := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	cfg := Config{Subject: model.SubjectMath, Topic: "Phương trình bậc nhất", Difficulty: model.DifficultyMedium}
	m := NewModel(cfg, sampleQuestions(), rec, nil)
	m.now = func() time.Time { return clock }
	m.startedAt = clock
	return m, &clock
}

func TestAnswerRecordsAttempt(t *testing.T) {
	rec := &fakeRecorder{}
	m, clock := newTestModel(rec)
	*clock = clock.Add(42 * time.Second)
	typeKey(m, "2")
	if len(rec.attempts) != 1 {
		t.Fatalf("expected one attempt, got %d", len(rec.attempts))
	}
	a := rec.attempts[0]
	if !a.Correct || a.Subject != model.SubjectMath || a.Topic != "Phương trình bậc nhất" {
		t.Fatalf("unexpected attempt %+v", a)
	}
	if a.TimeSpentSec != 42 || a.Difficulty != model.DifficultyMedium {
		t.Fatalf("unexpected timing/difficulty %+v", a)
	}
	if a.Timestamp != clock.UnixMilli() {
		t.Fatalf("expected timestamp %d, got %d", clock.UnixMilli(), a.Timestamp)
	}
}

func TestAnswerIgnoredUntilNext(t *testing.T) {
	rec := &fakeRecorder{}
	m, _ := newTestModel(rec)
	typeKey(m, "a")
	typeKey(m, "b")
	if len(rec.attempts) != 1 || rec.attempts[0].Correct {
		t.Fatalf("expected single incorrect attempt, got %+v", rec.attempts)
	}
	typeKey(m, "enter")
	typeKey(m, "b")
	if len(rec.attempts) != 2 || !rec.attempts[1].Correct {
		t.Fatalf("expected second correct attempt, got %+v", rec.attempts)
	}
	if c, i := m.Score(); c != 1 || i != 1 {
		t.Fatalf("unexpected score %d/%d", c, i)
	}
}

func TestViewShowsExplanation(t *testing.T) {
	m, _ := newTestModel(&fakeRecorder{})
	typeKey(m, "1")
	view := m.View()
	if !strings.Contains(view, "Đáp án: 2") || !strings.Contains(view, "Cộng hai số.") {
		t.Fatalf("expected answer and explanation in view:\n%s", view)
	}
}

func TestFinishShowsSummaryAndQuits(t *testing.T) {
	m, _ := newTestModel(&fakeRecorder{})
	typeKey(m, "2")
	typeKey(m, "enter")
	typeKey(m, "b")
	typeKey(m, "enter")
	if !m.finished {
		t.Fatalf("expected quiz to be finished")
	}
	if !strings.Contains(m.View(), "Đúng 2/2 câu (100.0%)") {
		t.Fatalf("unexpected summary:\n%s", m.View())
	}
	if cmd := typeKey(m, "enter"); cmd == nil {
		t.Fatalf("expected quit command")
	}
}

func TestRecorderErrorShownInFooter(t *testing.T) {
	m, _ := newTestModel(&fakeRecorder{err: errors.New("disk full")})
	typeKey(m, "2")
	if !strings.Contains(m.renderFooter(), "disk full") {
		t.Fatalf("expected error in footer, got %q", m.renderFooter())
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := &Model{questions: sampleQuestions(), correct: 1, incorrect: 0, lastSec: 12, answered: true}
	out := m.renderFooter()
	for _, want := range []string{"Progress 50%", "Score 1/1 · 100.0%", "Last 12s", "enter: next"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestEmptyQuizIsFinished(t *testing.T) {
	m := NewModel(Config{}, nil, nil, nil)
	if !m.finished || !strings.Contains(m.View(), "Chưa có câu hỏi") {
		t.Fatalf("expected empty state")
	}
}
