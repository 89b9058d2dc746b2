// Package quiz provides the Bubble Tea mock-test runner.
package quiz

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
)

// Recorder persists answered questions.
type Recorder interface {
	Append(ctx context.Context, attempts ...model.Attempt) error
}

// Config describes the quiz being run.
type Config struct {
	Subject    model.Subject
	Topic      string
	Difficulty model.Difficulty
}

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#B0B0B0"))
	questionStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	currentStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	noteStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C")).Italic(true)
)

var optionKeys = []string{"A", "B", "C", "D"}

// Model implements the Bubble Tea quiz UI.
type Model struct {
	cfg       Config
	questions []model.MockQuestion
	recorder  Recorder
	log       *logger.Logger
	now       func() time.Time

	width  int
	height int

	index     int
	chosen    int
	answered  bool
	startedAt time.Time
	finished  bool

	correct   int
	incorrect int
	lastSec   int
	errMsg    string
}

// NewModel constructs a quiz over questions. Each answer is recorded through
// rec as one attempt.
func NewModel(cfg Config, questions []model.MockQuestion, rec Recorder, log *logger.Logger) *Model {
	m := &Model{
		cfg:       cfg,
		questions: questions,
		recorder:  rec,
		log:       logger.OrNop(log),
		now:       time.Now,
		chosen:    -1,
	}
	m.startedAt = m.now()
	m.finished = len(questions) == 0
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Score returns the number of correct and incorrect answers so far.
func (m *Model) Score() (correct, incorrect int) {
	return m.correct, m.incorrect
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		key := strings.ToLower(msg.String())
		if key == "q" {
			return m, tea.Quit
		}
		if m.finished {
			if key == "enter" {
				return m, tea.Quit
			}
			return m, nil
		}
		if m.answered {
			switch key {
			case "enter", "n", " ", "right":
				m.next()
			}
			return m, nil
		}
		if idx, ok := optionIndex(key); ok {
			m.answer(idx)
		}
		return m, nil
	}
	return m, nil
}

func optionIndex(key string) (int, bool) {
	switch key {
	case "1", "a":
		return 0, true
	case "2", "b":
		return 1, true
	case "3", "c":
		return 2, true
	case "4", "d":
		return 3, true
	}
	return 0, false
}

func (m *Model) answer(idx int) {
	q := m.questions[m.index]
	if idx >= len(q.Options) {
		return
	}
	m.chosen = idx
	m.answered = true
	ok := q.Options[idx] == q.Answer
	if ok {
		m.correct++
	} else {
		m.incorrect++
	}
	at := m.now()
	m.lastSec = int(math.Round(at.Sub(m.startedAt).Seconds()))
	if m.lastSec < 0 {
		m.lastSec = 0
	}
	if m.recorder == nil {
		return
	}
	attempt := model.Attempt{
		Subject:      m.cfg.Subject,
		Topic:        m.cfg.Topic,
		Correct:      ok,
		Difficulty:   m.cfg.Difficulty,
		TimeSpentSec: m.lastSec,
		Timestamp:    at.UnixMilli(),
	}
	if err := m.recorder.Append(context.Background(), attempt); err != nil {
		m.log.Error("failed to record attempt", "error", err)
		m.errMsg = fmt.Sprintf("failed to save answer: %v", err)
	}
}

func (m *Model) next() {
	m.index++
	m.chosen = -1
	m.answered = false
	if m.index >= len(m.questions) {
		m.finished = true
		return
	}
	m.startedAt = m.now()
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderBody()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + m.renderFooter()
	}
	contentWidth := m.contentWidth()
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	footer := m.renderFooter()
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderBody() string {
	if len(m.questions) == 0 {
		return "Chưa có câu hỏi. Hãy thử lại sau."
	}
	if m.finished {
		return m.renderSummary()
	}
	width := m.contentWidth()
	q := m.questions[m.index]
	var lines []string
	title := fmt.Sprintf("Câu %d/%d", m.index+1, len(m.questions))
	if m.cfg.Topic != "" {
		title += " · " + m.cfg.Topic
	}
	lines = append(lines, footerStyle.Render(title), "")
	for _, l := range wrapText(q.Question, width) {
		lines = append(lines, questionStyle.Render(l))
	}
	lines = append(lines, "")
	for i, opt := range q.Options {
		lines = append(lines, m.optionStyle(i, opt, q.Answer).Render(fmt.Sprintf("%s. %s", optionKeys[i], opt)))
	}
	if m.answered {
		lines = append(lines, "")
		if q.Options[m.chosen] == q.Answer {
			lines = append(lines, correctStyle.Render("Chính xác!"))
		} else {
			lines = append(lines, incorrectStyle.Render("Chưa đúng. Đáp án: "+q.Answer))
		}
		if q.Explanation != "" {
			for _, l := range wrapText(q.Explanation, width) {
				lines = append(lines, noteStyle.Render(l))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m *Model) optionStyle(i int, opt, answer string) lipgloss.Style {
	if !m.answered {
		return currentStyle
	}
	switch {
	case opt == answer:
		return correctStyle
	case i == m.chosen:
		return incorrectStyle
	default:
		return pendingStyle
	}
}

func (m *Model) renderSummary() string {
	total := m.correct + m.incorrect
	pct := 0.0
	if total > 0 {
		pct = float64(m.correct) / float64(total) * 100
	}
	return strings.Join([]string{
		questionStyle.Render("Hoàn thành!"),
		fmt.Sprintf("Đúng %d/%d câu (%.1f%%).", m.correct, total, pct),
		footerStyle.Render("Nhấn enter để thoát."),
	}, "\n")
}

func (m *Model) renderFooter() string {
	if m.errMsg != "" {
		return incorrectStyle.Render(m.errMsg)
	}
	total := len(m.questions)
	done := m.correct + m.incorrect
	progress := 0
	if total > 0 {
		progress = done * 100 / total
	}
	segments := []string{fmt.Sprintf("Progress %d%%", progress)}
	if done > 0 {
		segments = append(segments, fmt.Sprintf("Score %d/%d · %.1f%%", m.correct, done, float64(m.correct)/float64(done)*100))
		segments = append(segments, fmt.Sprintf("Last %ds", m.lastSec))
	}
	if m.answered {
		segments = append(segments, "enter: next")
	} else if !m.finished {
		segments = append(segments, "1-4/a-d: answer")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
