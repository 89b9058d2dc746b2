package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

// FormatTrend renders an optional trend as "+5", "-3" or "—".
func FormatTrend(trend *int) string {
	if trend == nil {
		return "—"
	}
	return signed(*trend)
}

// FormatPercent renders a ratio in [0,1] as a whole percentage.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%d%%", percent(v))
}

// MasteryRows returns table rows for subject mastery.
func MasteryRows(mastery []model.SubjectMastery) [][]string {
	rows := make([][]string, 0, len(mastery))
	for _, m := range mastery {
		rows = append(rows, []string{
			m.Label,
			fmt.Sprintf("%d", m.Attempts),
			FormatPercent(m.Accuracy),
			FormatTrend(m.Trend),
		})
	}
	return rows
}

// MasteryHeaders labels MasteryRows columns.
var MasteryHeaders = []string{"Subject", "Attempts", "Accuracy", "Trend"}

// TopicRows returns table rows for topic stats.
func TopicRows(topics []model.TopicStat) [][]string {
	rows := make([][]string, 0, len(topics))
	for _, t := range topics {
		last7 := "—"
		if t.Last7Acc != nil {
			last7 = FormatPercent(*t.Last7Acc)
		}
		rows = append(rows, []string{
			syllabus.Label(t.Subject),
			t.Topic,
			fmt.Sprintf("%d", t.Attempts),
			FormatPercent(t.Accuracy),
			last7,
			fmt.Sprintf("%d/%d", t.Last7Count, t.Prev7Count),
			FormatTrend(t.Trend),
			fmt.Sprintf("%ds", t.AvgTimeSec),
		})
	}
	return rows
}

// TopicHeaders labels TopicRows columns.
var TopicHeaders = []string{"Subject", "Topic", "Attempts", "Accuracy", "Last 7d", "7d/prev", "Trend", "Avg time"}

// RenderMastery prints the subject mastery table.
func RenderMastery(w io.Writer, mastery []model.SubjectMastery) error {
	if len(mastery) == 0 {
		_, err := fmt.Fprintln(w, "No attempts in syllabus yet.")
		return err
	}
	if _, err := fmt.Fprintln(w, "Subject Mastery"); err != nil {
		return err
	}
	return writeLines(w, formatTable(MasteryHeaders, MasteryRows(mastery), map[int]bool{1: true, 2: true, 3: true}))
}

// RenderTopics prints up to limit topic rows, weakest first. The topic column
// is shortened to fit the terminal.
func RenderTopics(w io.Writer, topics []model.TopicStat, limit int) error {
	if len(topics) == 0 {
		_, err := fmt.Fprintln(w, "No topic stats yet.")
		return err
	}
	topics = topN(topics, limit)
	rows := TopicRows(topics)
	topicWidth := max(16, terminalWidth(w)-64)
	for _, row := range rows {
		row[1] = truncateCell(row[1], topicWidth)
	}
	if _, err := fmt.Fprintln(w, "Topics (weakest first)"); err != nil {
		return err
	}
	return writeLines(w, formatTable(TopicHeaders, rows, map[int]bool{2: true, 3: true, 4: true, 5: true, 6: true, 7: true}))
}

// RenderMostPracticed lists the n topics with the most attempts.
func RenderMostPracticed(w io.Writer, topics []model.TopicStat, n int) error {
	top := MostPracticed(topics, n)
	if len(top) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintln(&b, "Most practiced:")
	for _, t := range top {
		fmt.Fprintf(&b, "  - %s (%d)\n", topicLabel(t.Subject, t.Topic), t.Attempts)
	}
	fmt.Fprintln(&b)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderProfile prints the learning-profile summary.
func RenderProfile(w io.Writer, s model.ProfileSummary) error {
	var b strings.Builder
	fmt.Fprintln(&b, s.Message)
	fmt.Fprintf(&b, "Streak: %d day(s)  Weekly goal: %d’\n", s.StreakDays, s.WeeklyGoalMin)
	if s.IgnoredOutOfScope > 0 {
		fmt.Fprintf(&b, "Ignored %d attempt(s) outside the syllabus.\n", s.IgnoredOutOfScope)
	}
	writeInsights(&b, "Strengths", s.Strengths)
	writeInsights(&b, "Weaknesses", s.Weaknesses)
	writeBullets(&b, "Watchlist", s.Watchlist)
	writeBullets(&b, "Alerts", s.Alerts)
	if len(s.Plan) > 0 {
		fmt.Fprintln(&b, "Suggested plan:")
		for _, p := range s.Plan {
			fmt.Fprintf(&b, "  - [%d’] %s (%s)\n", p.Minutes, p.Task, p.Why)
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderDigest prints a weekly digest. Alerts are coloured on terminals.
func RenderDigest(w io.Writer, d model.WeeklyDigest) error {
	useColor := shouldUseColor(w)
	var b strings.Builder
	fmt.Fprintf(&b, "Weekly digest for %s (%s)\n", d.ChildEmail, d.RangeLabel)
	fmt.Fprintf(&b, "Minutes: %d’ / %d’\n", d.MinutesThisWeek, d.MinutesTarget)
	if d.HasActivity {
		fmt.Fprintf(&b, "Accuracy: %d%% (%s vs previous week)\n", d.Accuracy7d, signed(d.AccuracyChange))
	} else {
		fmt.Fprintln(&b, "Accuracy: — (no activity this week)")
	}
	if len(d.Mastery) > 0 {
		rows := make([][]string, 0, len(d.Mastery))
		for _, m := range d.Mastery {
			rows = append(rows, []string{m.Label, fmt.Sprintf("%d%%", m.Accuracy)})
		}
		for _, line := range formatTable([]string{"Subject", "Accuracy"}, rows, map[int]bool{1: true}) {
			fmt.Fprintln(&b, "  "+line)
		}
	}
	writeDigestTopics(&b, "Strengths", d.Strengths)
	writeDigestTopics(&b, "Needs work", d.Weaknesses)
	if len(d.Alerts) > 0 {
		fmt.Fprintln(&b, "Alerts:")
		for _, a := range d.Alerts {
			color := colorYellow
			if a.Level == model.AlertRed {
				color = colorRed
			}
			fmt.Fprintf(&b, "  %s %s\n", colorize("["+string(a.Level)+"]", color, useColor), a.Text)
		}
	}
	writeBullets(&b, "Actions", d.Actions)
	_, err := io.WriteString(w, b.String())
	return err
}

// RenderDaily prints accuracy and minutes sparklines over the daily series.
func RenderDaily(w io.Writer, points []DailyPoint, window int) error {
	if len(points) == 0 {
		return nil
	}
	acc := MovingAverage(AccuracySeries(points), window)
	mins := MinutesSeries(points)
	var b strings.Builder
	fmt.Fprintf(&b, "Last %d days\n", len(points))
	if len(acc) > 0 {
		fmt.Fprintf(&b, "  Accuracy %s  (%.0f%% → %.0f%%)\n", Sparkline(acc), acc[0], acc[len(acc)-1])
	} else {
		fmt.Fprintln(&b, "  Accuracy (no attempts)")
	}
	total := 0
	for _, p := range points {
		total += p.Minutes()
	}
	fmt.Fprintf(&b, "  Minutes  %s  (%d’ total)\n", Sparkline(mins), total)
	_, err := io.WriteString(w, b.String())
	return err
}

func writeInsights(b *strings.Builder, title string, list []model.Insight) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, in := range list {
		fmt.Fprintf(b, "  - %s: %s\n", in.Label, in.Reason)
	}
}

func writeDigestTopics(b *strings.Builder, title string, list []model.DigestTopic) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, t := range list {
		fmt.Fprintf(b, "  - %s – %s: %d%% (%d câu, xu hướng %s)\n", t.Label, t.Topic, t.Accuracy, t.Attempts, FormatTrend(t.Trend))
	}
}

func writeBullets(b *strings.Builder, title string, list []string) {
	if len(list) == 0 {
		return
	}
	fmt.Fprintf(b, "%s:\n", title)
	for _, s := range list {
		fmt.Fprintf(b, "  - %s\n", s)
	}
}

func writeLines(w io.Writer, lines []string) error {
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}
