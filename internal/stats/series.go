package stats

import (
	"math"
	"strings"
	"time"

	"github.com/verte-zerg/ontap/internal/model"
)

const sparkChars = " .:-=+*#%@"

const dayLayout = "2006-01-02"

// DailyPoint aggregates one local calendar day.
type DailyPoint struct {
	Day      time.Time `json:"day"`
	Attempts int       `json:"attempts"`
	Correct  int       `json:"correct"`
	Seconds  int       `json:"seconds"`
}

// Accuracy returns the day's accuracy in [0,1].
func (d DailyPoint) Accuracy() float64 {
	return ratio(d.Correct, d.Attempts)
}

// Minutes returns the day's study time rounded to minutes.
func (d DailyPoint) Minutes() int {
	return roundHalfUp(float64(d.Seconds) / 60)
}

// Daily buckets list into the last days calendar days ending today, oldest
// first. Days without attempts are kept with zero counts.
func (e Engine) Daily(list []model.Attempt, days int) []DailyPoint {
	if days <= 0 {
		return nil
	}
	now := e.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	points := make([]DailyPoint, days)
	index := make(map[string]int, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, i-days+1)
		points[i].Day = day
		index[day.Format(dayLayout)] = i
	}
	for _, a := range list {
		i, ok := index[a.Time().In(now.Location()).Format(dayLayout)]
		if !ok {
			continue
		}
		points[i].Attempts++
		if a.Correct {
			points[i].Correct++
		}
		points[i].Seconds += max(0, a.TimeSpentSec)
	}
	return points
}

// AccuracySeries returns per-day accuracy in percent for days with attempts.
func AccuracySeries(points []DailyPoint) []float64 {
	out := make([]float64, 0, len(points))
	for _, p := range points {
		if p.Attempts == 0 {
			continue
		}
		out = append(out, p.Accuracy()*100)
	}
	return out
}

// MinutesSeries returns per-day study minutes, including idle days.
func MinutesSeries(points []DailyPoint) []float64 {
	out := make([]float64, len(points))
	for i, p := range points {
		out[i] = float64(p.Seconds) / 60
	}
	return out
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal := values[0]
	maxVal := values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = min(max(idx, 0), len(sparkChars)-1)
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}
