// Package dashboard provides the Bubble Tea analytics dashboard.
package dashboard

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/stats"
)

const (
	tabOverview = iota
	tabTopics
	tabDigest
)

const (
	defaultDays   = 14
	defaultWindow = 3
	maxWindow     = 7
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	redCardStyle    = cardValueStyle.Foreground(lipgloss.Color("#FF4D4F"))
	tableMutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#B8B8B8"))
)

// Config selects what the dashboard shows.
type Config struct {
	Days    int
	Window  int
	Subject model.Subject
}

// PlanLoader returns the learner's current plan, or nil.
type PlanLoader func(ctx context.Context) *model.StudyPlan

// Model implements the Bubble Tea dashboard.
type Model struct {
	src    stats.Source
	engine stats.Engine
	plan   PlanLoader
	cfg    Config

	report stats.Report
	errMsg string

	tabs       []string
	activeTab  int
	viewports  []viewport.Model
	topicTable table.Model

	width  int
	height int

	filterMode   bool
	filterInputs []textinput.Model
	filterIndex  int
	filterError  string
}

// NewModel constructs a dashboard over src. plan may be nil.
func NewModel(src stats.Source, engine stats.Engine, plan PlanLoader, cfg Config) *Model {
	if cfg.Days <= 0 {
		cfg.Days = defaultDays
	}
	if cfg.Window <= 0 {
		cfg.Window = defaultWindow
	}
	m := &Model{
		src:    src,
		engine: engine,
		plan:   plan,
		cfg:    cfg,
		tabs:   []string{"Overview", "Topics", "Digest"},
	}
	m.initInputs()
	m.topicTable = buildTopicTable(nil, 0, 1)
	m.initViewports()
	m.refreshReport()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		cursor := m.topicTable.Cursor()
		m.updateLayout()
		m.applyTopicTable()
		m.topicTable.SetCursor(cursor)
		m.renderTabContents()
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (!m.filterMode && msg.String() == "q") {
			return m, tea.Quit
		}
		if m.activeTab == tabTopics {
			m.topicTable.Focus()
		} else {
			m.topicTable.Blur()
		}
		if m.filterMode {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "r":
			m.refreshReport()
			return m, nil
		case "=":
			m.cfg.Window = min(maxWindow, m.cfg.Window+1)
			m.renderTabContents()
			return m, nil
		case "-":
			m.cfg.Window = max(1, m.cfg.Window-1)
			m.renderTabContents()
			return m, nil
		case "/":
			return m.startFilter()
		case "g", "home":
			if m.activeTab == tabTopics {
				m.topicTable.GotoTop()
			} else {
				m.viewports[m.activeTab].GotoTop()
			}
			return m, nil
		case "G", "end":
			if m.activeTab == tabTopics {
				m.topicTable.GotoBottom()
			} else {
				m.viewports[m.activeTab].GotoBottom()
			}
			return m, nil
		default:
			if m.activeTab == tabTopics {
				var cmd tea.Cmd
				m.topicTable, cmd = m.topicTable.Update(msg)
				return m, cmd
			}
			vp := m.viewports[m.activeTab]
			var cmd tea.Cmd
			vp, cmd = vp.Update(msg)
			m.viewports[m.activeTab] = vp
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	headerHeight, bodyHeight, footerHeight := m.layoutHeights()
	header := fitLines(m.renderHeader(), m.width, headerHeight)
	body := fitLines(m.renderBody(bodyHeight), m.width, bodyHeight)
	footer := fitLines(m.renderFooter(), m.width, footerHeight)
	return strings.Join([]string{header, body, footer}, "\n")
}

func (m *Model) initViewports() {
	m.viewports = make([]viewport.Model, len(m.tabs))
	for i := range m.viewports {
		m.viewports[i] = viewport.New(0, 0)
	}
}

func (m *Model) initInputs() {
	m.filterInputs = []textinput.Model{
		newFilterInput("Subject: "),
		newFilterInput("Days: "),
		newFilterInput("Window: "),
	}
	m.setInputsFromConfig()
}

func newFilterInput(prompt string) textinput.Model {
	input := textinput.New()
	input.Prompt = prompt
	input.CharLimit = 0
	input.Cursor.SetMode(cursor.CursorBlink)
	return input
}

func (m *Model) setInputsFromConfig() {
	m.filterInputs[0].SetValue(string(m.cfg.Subject))
	m.filterInputs[1].SetValue(strconv.Itoa(m.cfg.Days))
	m.filterInputs[2].SetValue(strconv.Itoa(m.cfg.Window))
}

func (m *Model) layoutHeights() (headerHeight, bodyHeight, footerHeight int) {
	tabsHeight := max(1, lipgloss.Height(activeNavStyle.Render("X")))
	headerHeight = tabsHeight + 1
	footerHeight = 1
	if !m.filterMode && m.errMsg != "" {
		footerHeight++
	}
	bodyHeight = max(1, m.height-headerHeight-footerHeight)
	return headerHeight, bodyHeight, footerHeight
}

func (m *Model) updateLayout() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	_, vpHeight, _ := m.layoutHeights()
	for i := range m.viewports {
		m.viewports[i].Width = m.width
		m.viewports[i].Height = vpHeight
	}
	m.topicTable.SetWidth(m.width)
	m.topicTable.SetHeight(max(1, vpHeight-1))
	for i := range m.filterInputs {
		promptWidth := lipgloss.Width(m.filterInputs[i].Prompt)
		m.filterInputs[i].Width = max(10, m.width-promptWidth-2)
	}
}

func (m *Model) moveTab(delta int) {
	count := len(m.tabs)
	m.activeTab = (m.activeTab + delta + count) % count
	if m.activeTab == tabTopics {
		m.topicTable.Focus()
	} else {
		m.topicTable.Blur()
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		if i == m.activeTab {
			parts = append(parts, activeNavStyle.Render(tab))
		} else {
			parts = append(parts, inactiveNavStyle.Render(tab))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (m *Model) renderHeader() string {
	tabs := padLines(m.renderTabs(), m.width)
	return tabs + "\n" + padLines(m.renderFilterSummary(), m.width)
}

func (m *Model) renderFilterSummary() string {
	subject := "all"
	if m.cfg.Subject != "" {
		subject = string(m.cfg.Subject)
	}
	learner := m.report.Learner
	if learner == "" {
		learner = "local"
	}
	summary := fmt.Sprintf("Learner: %s  subject=%s  days=%d  window=%d", learner, subject, m.cfg.Days, m.cfg.Window)
	return headerStyle.Render(truncateLine(summary, m.width))
}

func (m *Model) renderHelp() string {
	return headerStyle.Render("Nav: left/right  Scroll: up/down/pgup/pgdn  Reload: r  Window: -/=  Settings: /  Quit: q")
}

func (m *Model) renderFooter() string {
	if m.filterMode {
		return headerStyle.Render("tab/shift+tab: next field  enter: apply  esc: cancel")
	}
	if m.errMsg != "" {
		return m.renderHelp() + "\n" + errorStyle.Render(m.errMsg)
	}
	return m.renderHelp()
}

func (m *Model) renderFilterForm() string {
	lines := []string{"Settings (enter to apply, esc to cancel)"}
	for _, input := range m.filterInputs {
		lines = append(lines, input.View())
	}
	if m.filterError != "" {
		lines = append(lines, errorStyle.Render(m.filterError))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderBody(height int) string {
	if m.filterMode {
		return fitLines(m.renderFilterForm(), m.width, height)
	}
	if m.activeTab == tabTopics {
		if len(m.visibleTopics()) == 0 {
			return fitLines("No topic stats yet.", m.width, height)
		}
		return fitLines(tableMutedStyle.Render(m.topicTable.View()), m.width, height)
	}
	return fitLines(m.viewports[m.activeTab].View(), m.width, height)
}

func (m *Model) refreshReport() {
	ctx := context.Background()
	var current *model.StudyPlan
	if m.plan != nil {
		current = m.plan(ctx)
	}
	m.report = stats.BuildReport(ctx, m.src, m.engine, current, m.cfg.Days)
	m.errMsg = ""
	m.applyTopicTable()
	m.renderTabContents()
}

func (m *Model) visibleTopics() []model.TopicStat {
	if m.cfg.Subject == "" {
		return m.report.Topics
	}
	out := make([]model.TopicStat, 0, len(m.report.Topics))
	for _, t := range m.report.Topics {
		if t.Subject == m.cfg.Subject {
			out = append(out, t)
		}
	}
	return out
}

func (m *Model) applyTopicTable() {
	_, bodyHeight, _ := m.layoutHeights()
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.topicTable = buildTopicTable(m.visibleTopics(), width, bodyHeight)
	if m.activeTab == tabTopics {
		m.topicTable.Focus()
	}
}

func (m *Model) renderTabContents() {
	if len(m.viewports) == 0 {
		return
	}
	width := m.width
	if width <= 0 {
		width = 80
	}
	m.viewports[tabOverview].SetContent(renderOverview(m.report, m.cfg.Window, width))
	m.viewports[tabDigest].SetContent(renderDigest(m.report))
}

func renderOverview(r stats.Report, window, width int) string {
	if r.Attempts == 0 {
		return "No attempts yet. Record some with `ontap record` or `ontap demo`."
	}
	var buf bytes.Buffer
	buf.WriteString(renderSummaryCards(r, width))
	buf.WriteString("\n\n")
	if err := stats.RenderMastery(&buf, r.Mastery); err != nil {
		return fmt.Sprintf("Failed to render mastery: %v", err)
	}
	buf.WriteString("\n")
	if err := stats.RenderDaily(&buf, r.Daily, window); err != nil {
		return fmt.Sprintf("Failed to render daily series: %v", err)
	}
	if r.ExcludedCount > 0 {
		fmt.Fprintf(&buf, "\n%d attempt(s) outside the syllabus were ignored.\n", r.ExcludedCount)
	}
	return strings.TrimRight(buf.String(), "\n")
}

func renderSummaryCards(r stats.Report, width int) string {
	d := r.Digest
	acc := "—"
	if d.HasActivity {
		acc = fmt.Sprintf("%d%% (%+d)", d.Accuracy7d, d.AccuracyChange)
	}
	minutesStyle := cardValueStyle
	if d.HasRedAlert() {
		minutesStyle = redCardStyle
	}
	cards := []string{
		metricCard("Attempts", strconv.Itoa(r.Attempts), cardValueStyle),
		metricCard("Accuracy 7d", acc, cardValueStyle),
		metricCard("Minutes 7d", fmt.Sprintf("%d’ / %d’", d.MinutesThisWeek, d.MinutesTarget), minutesStyle),
		metricCard("Streak", fmt.Sprintf("%d days", r.Profile.StreakDays), cardValueStyle),
		metricCard("Weekly goal", fmt.Sprintf("%d’", r.Profile.WeeklyGoalMin), cardValueStyle),
	}
	if width < 80 {
		return strings.Join(cards, "\n")
	}
	row1 := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], cards[1], cards[2])
	row2 := lipgloss.JoinHorizontal(lipgloss.Top, cards[3], cards[4])
	return lipgloss.JoinVertical(lipgloss.Left, row1, row2)
}

func metricCard(label, value string, style lipgloss.Style) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), style.Render(value))
	return cardStyle.Render(content)
}

func renderDigest(r stats.Report) string {
	var buf bytes.Buffer
	if err := stats.RenderDigest(&buf, r.Digest); err != nil {
		return fmt.Sprintf("Failed to render digest: %v", err)
	}
	buf.WriteString("\n")
	if err := stats.RenderProfile(&buf, r.Profile); err != nil {
		return fmt.Sprintf("Failed to render profile: %v", err)
	}
	return strings.TrimRight(buf.String(), "\n")
}

var topicColumnWidths = []int{10, 0, 8, 8, 7, 7, 5, 8}

func buildTopicTable(topics []model.TopicStat, width, height int) table.Model {
	fixed := 0
	for _, w := range topicColumnWidths {
		fixed += w + 1
	}
	columns := make([]table.Column, len(stats.TopicHeaders))
	for i, title := range stats.TopicHeaders {
		w := topicColumnWidths[i]
		if w == 0 {
			w = max(16, width-fixed-1)
		}
		columns[i] = table.Column{Title: title, Width: w}
	}
	rows := make([]table.Row, 0, len(topics))
	for _, r := range stats.TopicRows(topics) {
		rows = append(rows, table.Row(r))
	}
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(max(1, height-1)),
	)
	t.SetWidth(width)
	t.SetStyles(topicTableStyles())
	return t
}

func topicTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}

func (m *Model) startFilter() (tea.Model, tea.Cmd) {
	m.filterMode = true
	m.filterError = ""
	m.setInputsFromConfig()
	return m, m.setFilterIndex(0)
}

func (m *Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.filterMode = false
		m.filterError = ""
		return m, nil
	case "tab", "down":
		return m, m.setFilterIndex((m.filterIndex + 1) % len(m.filterInputs))
	case "shift+tab", "up":
		return m, m.setFilterIndex((m.filterIndex - 1 + len(m.filterInputs)) % len(m.filterInputs))
	case "enter":
		if err := m.applyFilter(); err != nil {
			m.filterError = err.Error()
			return m, nil
		}
		m.filterMode = false
		m.refreshReport()
		m.updateLayout()
		return m, nil
	}
	var cmd tea.Cmd
	m.filterInputs[m.filterIndex], cmd = m.filterInputs[m.filterIndex].Update(msg)
	return m, cmd
}

func (m *Model) setFilterIndex(idx int) tea.Cmd {
	m.filterIndex = idx
	var cmd tea.Cmd
	for i := range m.filterInputs {
		if i == idx {
			cmd = m.filterInputs[i].Focus()
		} else {
			m.filterInputs[i].Blur()
		}
	}
	return cmd
}

func (m *Model) applyFilter() error {
	var subject model.Subject
	if raw := strings.TrimSpace(m.filterInputs[0].Value()); raw != "" {
		s, err := model.ParseSubject(raw)
		if err != nil {
			return err
		}
		subject = s
	}
	days, err := strconv.Atoi(strings.TrimSpace(m.filterInputs[1].Value()))
	if err != nil || days < 1 || days > 90 {
		return fmt.Errorf("days must be within [1,90]")
	}
	window, err := strconv.Atoi(strings.TrimSpace(m.filterInputs[2].Value()))
	if err != nil || window < 1 || window > maxWindow {
		return fmt.Errorf("window must be within [1,%d]", maxWindow)
	}
	m.cfg = Config{Days: days, Window: window, Subject: subject}
	return nil
}

func padLines(s string, width int) string {
	if width <= 0 || s == "" {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	return strings.Join(lines, "\n")
}

func padLine(line string, width int) string {
	lineWidth := lipgloss.Width(line)
	if lineWidth < width {
		return line + strings.Repeat(" ", width-lineWidth)
	}
	return line
}

func fitLines(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return s
	}
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = padLine(line, width)
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

func truncateLine(s string, width int) string {
	if width <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width <= 3 {
		return string(runes[:width])
	}
	return string(runes[:width-3]) + "..."
}
