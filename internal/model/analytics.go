package model

// SubjectMastery aggregates accuracy and short-term trend for a subject.
// Trend is nil when a 7-day window has no attempts.
type SubjectMastery struct {
	Subject  Subject `json:"subject"`
	Label    string  `json:"label"`
	Attempts int     `json:"attempts"`
	Accuracy float64 `json:"accuracy"`
	Trend    *int    `json:"trend"`
}

// TopicStat aggregates attempts for a (subject, topic) pair.
// Trend is nil when either window has too few samples.
type TopicStat struct {
	Subject    Subject  `json:"subject"`
	Topic      string   `json:"topic"`
	Attempts   int      `json:"attempts"`
	Correct    int      `json:"correct"`
	Accuracy   float64  `json:"accuracy"`
	Last7Acc   *float64 `json:"last7Acc"`
	Last7Count int      `json:"last7Count"`
	Prev7Count int      `json:"prev7Count"`
	Trend      *int     `json:"trend"`
	AvgTimeSec int      `json:"avgTimeSec"`
}

// Insight is a labelled strength or weakness.
type Insight struct {
	Subject Subject `json:"subject"`
	Topic   string  `json:"topic"`
	Label   string  `json:"label"`
	Reason  string  `json:"reason"`
}

// PlanSuggestion is a short study task suggested by the profile summary.
type PlanSuggestion struct {
	Task    string `json:"task"`
	Why     string `json:"why"`
	Minutes int    `json:"minutes"`
}

// ProfileSummary is the learning-profile overview.
type ProfileSummary struct {
	Message           string           `json:"message"`
	Strengths         []Insight        `json:"strengths"`
	Weaknesses        []Insight        `json:"weaknesses"`
	Watchlist         []string         `json:"watchlist"`
	Alerts            []string         `json:"alerts"`
	Plan              []PlanSuggestion `json:"plan"`
	StreakDays        int              `json:"streakDays"`
	WeeklyGoalMin     int              `json:"weeklyGoalMin"`
	IgnoredOutOfScope int              `json:"ignoredOutOfScope"`
}

// AlertLevel grades a digest alert.
type AlertLevel string

// Alert levels.
const (
	AlertRed    AlertLevel = "red"
	AlertYellow AlertLevel = "yellow"
)

// DigestAlert is a single digest warning.
type DigestAlert struct {
	Level AlertLevel `json:"level"`
	Text  string     `json:"text"`
}

// DigestMastery is a subject line of the weekly digest, accuracy in percent.
type DigestMastery struct {
	Subject  Subject `json:"subject"`
	Label    string  `json:"label"`
	Accuracy int     `json:"accuracy"`
}

// DigestTopic is a strength or weakness line of the weekly digest.
type DigestTopic struct {
	Subject  Subject `json:"subject"`
	Label    string  `json:"label"`
	Topic    string  `json:"topic"`
	Accuracy int     `json:"accuracy"`
	Trend    *int    `json:"trend,omitempty"`
	Attempts int     `json:"attempts"`
}

// WeeklyDigest is a derived single-learner report over the trailing 7 days.
type WeeklyDigest struct {
	ChildEmail      string          `json:"childEmail"`
	RangeLabel      string          `json:"rangeLabel"`
	MinutesThisWeek int             `json:"minutesThisWeek"`
	MinutesTarget   int             `json:"minutesTarget"`
	Accuracy7d      int             `json:"accuracy7d"`
	AccuracyChange  int             `json:"accuracyChange"`
	HasActivity     bool            `json:"hasActivity"`
	Mastery         []DigestMastery `json:"mastery"`
	Strengths       []DigestTopic   `json:"strengths"`
	Weaknesses      []DigestTopic   `json:"weaknesses"`
	Alerts          []DigestAlert   `json:"alerts"`
	Actions         []string        `json:"actions"`
}

// HasRedAlert reports whether the digest carries a red alert.
func (d WeeklyDigest) HasRedAlert() bool {
	for _, a := range d.Alerts {
		if a.Level == AlertRed {
			return true
		}
	}
	return false
}
