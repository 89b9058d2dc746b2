package stats

import (
	"reflect"
	"testing"
	"time"

	"github.com/verte-zerg/ontap/internal/model"
)

const (
	topicLinear = "Hàm số y=ax+b – đồ thị"
	topicOhm    = "Định luật Ôm"
	topicAtlas  = "Thực hành Atlat Địa lí Việt Nam"
	topicOxide  = "Oxit – Axit – Bazơ – Muối"
)

var testNow = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func testEngine() Engine {
	return NewEngine(DefaultPolicy(), func() time.Time { return testNow })
}

func daysAgo(d float64) int64 {
	return testNow.Add(-time.Duration(d * float64(24*time.Hour))).UnixMilli()
}

// batch returns n attempts of which the first correct ones are right.
func batch(subject model.Subject, topic string, n, correct int, ago float64, sec int) []model.Attempt {
	out := make([]model.Attempt, n)
	for i := range out {
		out[i] = model.Attempt{
			ID:           topic + string(rune('a'+i)),
			Subject:      subject,
			Topic:        topic,
			Correct:      i < correct,
			TimeSpentSec: sec,
			Timestamp:    daysAgo(ago),
		}
	}
	return out
}

func join(parts ...[]model.Attempt) []model.Attempt {
	var out []model.Attempt
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestSubjectMasteryEmpty(t *testing.T) {
	got := testEngine().SubjectMastery(nil)
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil mastery, got %#v", got)
	}
}

func TestSubjectMasteryTrendNeedsBothWindows(t *testing.T) {
	e := testEngine()
	list := batch(model.SubjectMath, topicLinear, 4, 3, 1, 30)
	m := e.SubjectMastery(list)
	if len(m) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(m))
	}
	if m[0].Accuracy != 0.75 {
		t.Fatalf("expected accuracy 0.75, got %v", m[0].Accuracy)
	}
	if m[0].Trend != nil {
		t.Fatalf("expected nil trend with empty previous window, got %d", *m[0].Trend)
	}

	e.Policy.ZeroFillEmptyWindows = true
	m = e.SubjectMastery(list)
	if m[0].Trend == nil || *m[0].Trend != 75 {
		t.Fatalf("expected zero-filled trend 75, got %v", m[0].Trend)
	}
}

func TestSubjectMasteryTrend(t *testing.T) {
	list := join(
		batch(model.SubjectMath, topicLinear, 4, 1, 2, 30),
		batch(model.SubjectMath, topicLinear, 4, 3, 9, 30),
	)
	m := testEngine().SubjectMastery(list)
	if m[0].Trend == nil || *m[0].Trend != -50 {
		t.Fatalf("expected trend -50, got %v", m[0].Trend)
	}
}

func TestSubjectMasterySortedByVietnameseLabel(t *testing.T) {
	list := join(
		batch(model.SubjectMath, topicLinear, 1, 1, 1, 10),
		batch(model.SubjectGeography, topicAtlas, 1, 1, 1, 10),
		batch(model.SubjectChemistry, topicOxide, 1, 1, 1, 10),
	)
	m := testEngine().SubjectMastery(list)
	var labels []string
	for _, x := range m {
		labels = append(labels, x.Label)
	}
	want := []string{"Địa lí", "Hoá học", "Toán"}
	if !reflect.DeepEqual(labels, want) {
		t.Fatalf("expected %v, got %v", want, labels)
	}
}

func TestTopicStatsTrendRequiresMinSamples(t *testing.T) {
	cases := []struct {
		name      string
		last      int
		prev      int
		wantTrend bool
	}{
		{name: "two recent none before", last: 2, prev: 0, wantTrend: false},
		{name: "three and two", last: 3, prev: 2, wantTrend: false},
		{name: "two and three", last: 2, prev: 3, wantTrend: false},
		{name: "three and three", last: 3, prev: 3, wantTrend: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			list := join(
				batch(model.SubjectMath, topicLinear, tc.last, tc.last, 1, 20),
				batch(model.SubjectMath, topicLinear, tc.prev, 0, 10, 20),
			)
			stats := testEngine().TopicStats(list)
			if len(stats) != 1 {
				t.Fatalf("expected 1 topic, got %d", len(stats))
			}
			ts := stats[0]
			if ts.Last7Count != tc.last || ts.Prev7Count != tc.prev {
				t.Fatalf("expected counts %d/%d, got %d/%d", tc.last, tc.prev, ts.Last7Count, ts.Prev7Count)
			}
			if (ts.Trend != nil) != tc.wantTrend {
				t.Fatalf("expected trend present=%v, got %v", tc.wantTrend, ts.Trend)
			}
			if tc.wantTrend && *ts.Trend != 100 {
				t.Fatalf("expected trend 100, got %d", *ts.Trend)
			}
		})
	}
}

func TestTopicStatsFields(t *testing.T) {
	list := []model.Attempt{
		{Subject: model.SubjectPhysics, Topic: topicOhm, Correct: true, TimeSpentSec: 10, Timestamp: daysAgo(1)},
		{Subject: model.SubjectPhysics, Topic: topicOhm, Correct: false, TimeSpentSec: 25, Timestamp: daysAgo(1)},
		{Subject: model.SubjectPhysics, Topic: topicOhm, Correct: true, Timestamp: daysAgo(20)},
	}
	ts := testEngine().TopicStats(list)[0]
	if ts.Attempts != 3 || ts.Correct != 2 {
		t.Fatalf("unexpected counts %+v", ts)
	}
	if ts.AvgTimeSec != 12 {
		t.Fatalf("expected avg time 12, got %d", ts.AvgTimeSec)
	}
	if ts.Last7Acc == nil || *ts.Last7Acc != 0.5 {
		t.Fatalf("expected last7 accuracy 0.5, got %v", ts.Last7Acc)
	}
	if ts.Prev7Count != 0 {
		t.Fatalf("expected attempt older than 14 days outside both windows")
	}
}

func TestTopicStatsOrderingAndIdempotence(t *testing.T) {
	list := join(
		batch(model.SubjectMath, topicLinear, 10, 9, 1, 20),
		batch(model.SubjectPhysics, topicOhm, 4, 1, 1, 20),
		batch(model.SubjectChemistry, topicOxide, 8, 2, 1, 20),
	)
	e := testEngine()
	first := e.TopicStats(list)
	second := e.TopicStats(list)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical output on repeated calls")
	}
	if first[0].Topic != topicOxide || first[1].Topic != topicOhm || first[2].Topic != topicLinear {
		t.Fatalf("expected accuracy asc then attempts desc, got %s, %s, %s", first[0].Topic, first[1].Topic, first[2].Topic)
	}
	for _, ts := range first {
		if ts.Accuracy < 0 || ts.Accuracy > 1 {
			t.Fatalf("accuracy out of range: %v", ts.Accuracy)
		}
	}
}

func TestOutOfSyllabusContributesNothing(t *testing.T) {
	e := testEngine()
	list := batch(model.SubjectMath, "Không tồn tại", 5, 5, 1, 30)
	if got := e.TopicStats(list); len(got) != 0 {
		t.Fatalf("expected no topic stats, got %d", len(got))
	}
	if got := e.SubjectMastery(list); len(got) != 0 {
		t.Fatalf("expected no mastery, got %d", len(got))
	}
	s := e.SummarizeProfile(list, 1, 90)
	if s.IgnoredOutOfScope != 5 {
		t.Fatalf("expected 5 ignored, got %d", s.IgnoredOutOfScope)
	}
}

func TestClassifyStrengthFromRecentPractice(t *testing.T) {
	e := testEngine()
	list := batch(model.SubjectMath, topicLinear, 10, 8, 1.5, 30)
	c := e.Classify(e.TopicStats(list), e.SubjectMastery(list))
	if len(c.Strengths) != 1 || c.Strengths[0].Topic != topicLinear {
		t.Fatalf("expected topic in strengths, got %+v", c.Strengths)
	}
	if c.Strengths[0].Accuracy != 0.8 {
		t.Fatalf("expected accuracy 0.8, got %v", c.Strengths[0].Accuracy)
	}
	if len(c.Weaknesses) != 0 {
		t.Fatalf("expected no weaknesses, got %+v", c.Weaknesses)
	}
}

func TestClassifyGroups(t *testing.T) {
	e := testEngine()
	list := join(
		// declining but high: watchlist
		batch(model.SubjectMath, topicLinear, 4, 3, 1, 20),
		batch(model.SubjectMath, topicLinear, 4, 4, 10, 20),
		// declining and mid: weakness
		batch(model.SubjectPhysics, topicOhm, 3, 1, 1, 20),
		batch(model.SubjectPhysics, topicOhm, 3, 3, 10, 20),
		// low: weakness
		batch(model.SubjectChemistry, topicOxide, 5, 1, 1, 20),
	)
	c := e.Classify(e.TopicStats(list), e.SubjectMastery(list))
	if len(c.Watchlist) != 1 || c.Watchlist[0].Topic != topicLinear {
		t.Fatalf("expected linear functions on watchlist, got %+v", c.Watchlist)
	}
	if len(c.Weaknesses) != 2 || c.Weaknesses[0].Topic != topicOxide || c.Weaknesses[1].Topic != topicOhm {
		t.Fatalf("unexpected weaknesses %+v", c.Weaknesses)
	}
	for _, s := range c.Strengths {
		for _, w := range c.Weaknesses {
			if s.Subject == w.Subject && s.Topic == w.Topic {
				t.Fatalf("topic %s is both strength and weakness", s.Topic)
			}
		}
	}
	if len(c.SubjectAlerts) != 2 || c.SubjectAlerts[0].Subject != model.SubjectMath || c.SubjectAlerts[1].Subject != model.SubjectPhysics {
		t.Fatalf("expected math and physics subject alerts, got %+v", c.SubjectAlerts)
	}
}

func TestClassifyTopN(t *testing.T) {
	e := testEngine()
	var list []model.Attempt
	for _, topic := range []string{topicOhm, "Mạch nối tiếp – song song", "Gương phẳng – gương cầu", "Khúc xạ – phản xạ ánh sáng", "Màu sắc – ứng dụng"} {
		list = append(list, batch(model.SubjectPhysics, topic, 2, 0, 1, 20)...)
	}
	c := e.Classify(e.TopicStats(list), nil)
	if len(c.Weaknesses) != 3 {
		t.Fatalf("expected top 3 weaknesses, got %d", len(c.Weaknesses))
	}
}

func TestSummarizeProfileEmpty(t *testing.T) {
	s := testEngine().SummarizeProfile(nil, 2, 90)
	if s.Message != MessageStarting {
		t.Fatalf("expected lowest tier message, got %q", s.Message)
	}
	if len(s.Plan) != 1 || s.Plan[0].Task != "Ôn Toán – Ôn cơ bản bằng 10 câu mục tiêu + xem lời giải chậm" || s.Plan[0].Why != "Giữ nhịp học" {
		t.Fatalf("unexpected fallback plan %+v", s.Plan)
	}
	if s.StreakDays != 2 || s.WeeklyGoalMin != 90 {
		t.Fatalf("expected settings passed through, got %d/%d", s.StreakDays, s.WeeklyGoalMin)
	}
}

func TestSummarizeProfileTexts(t *testing.T) {
	e := testEngine()
	list := join(
		batch(model.SubjectMath, topicLinear, 10, 8, 1, 30),
		batch(model.SubjectChemistry, topicOxide, 5, 2, 1, 20),
	)
	s := e.SummarizeProfile(list, 1, 90)
	if s.Message != MessageSteady {
		t.Fatalf("expected steady message for mean 0.6, got %q", s.Message)
	}
	if len(s.Strengths) != 1 || s.Strengths[0].Label != "Toán – "+topicLinear || s.Strengths[0].Reason != "Độ chính xác 80% (10 câu), TB 30s" {
		t.Fatalf("unexpected strengths %+v", s.Strengths)
	}
	if len(s.Weaknesses) != 1 || s.Weaknesses[0].Reason != "Độ chính xác 40%, xu hướng không đủ dữ liệu" {
		t.Fatalf("unexpected weaknesses %+v", s.Weaknesses)
	}
	if len(s.Plan) != 1 || s.Plan[0].Task != "Ôn Hoá học – "+topicOxide+" bằng 10 câu mục tiêu + xem lời giải chậm" || s.Plan[0].Minutes != 15 {
		t.Fatalf("unexpected plan %+v", s.Plan)
	}
}

func TestSummarizeProfileAlertsAndWatchlist(t *testing.T) {
	e := testEngine()
	list := join(
		batch(model.SubjectMath, topicLinear, 4, 3, 1, 20),
		batch(model.SubjectMath, topicLinear, 4, 4, 10, 20),
		batch(model.SubjectPhysics, topicOhm, 3, 1, 1, 20),
		batch(model.SubjectPhysics, topicOhm, 3, 3, 10, 20),
	)
	s := e.SummarizeProfile(list, 1, 90)
	if len(s.Watchlist) != 1 || s.Watchlist[0] != topicLinear+" (88%, -25đ)" {
		t.Fatalf("unexpected watchlist %v", s.Watchlist)
	}
	if len(s.Alerts) != 2 || s.Alerts[0] != "Phong độ Toán đang giảm -25 điểm trong 7 ngày qua." || s.Alerts[1] != "Phong độ Vật lí đang giảm -67 điểm trong 7 ngày qua." {
		t.Fatalf("unexpected alerts %v", s.Alerts)
	}
}

func TestWeakTopics(t *testing.T) {
	e := testEngine()
	list := join(
		batch(model.SubjectPhysics, topicOhm, 4, 1, 1, 20),
		batch(model.SubjectPhysics, "Mạch nối tiếp – song song", 4, 0, 1, 20),
		batch(model.SubjectPhysics, "Màu sắc – ứng dụng", 4, 4, 1, 20),
		batch(model.SubjectMath, topicLinear, 4, 0, 1, 20),
	)
	got := e.WeakTopics(model.SubjectPhysics, list)
	want := []string{"Mạch nối tiếp – song song", topicOhm}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPolicyValidate(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Fatalf("default policy invalid: %v", err)
	}
	p := DefaultPolicy()
	p.StrengthMinAccuracy = 0.5
	if err := p.Validate(); err == nil {
		t.Fatalf("expected overlapping thresholds to be rejected")
	}
	p = DefaultPolicy()
	p.TopN = 0
	if err := p.Validate(); err == nil {
		t.Fatalf("expected top-n 0 to be rejected")
	}
}
