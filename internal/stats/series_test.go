package stats

import (
	"testing"

	"github.com/verte-zerg/ontap/internal/model"
)

func TestDailyBuckets(t *testing.T) {
	list := join(
		batch(model.SubjectMath, topicLinear, 2, 1, 0.1, 90),
		batch(model.SubjectMath, topicLinear, 1, 1, 2, 30),
		batch(model.SubjectMath, topicLinear, 3, 3, 5, 30),
	)
	points := testEngine().Daily(list, 3)
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}
	if points[2].Day.Day() != testNow.Day() {
		t.Fatalf("expected last point to be today, got %v", points[2].Day)
	}
	if points[2].Attempts != 2 || points[2].Correct != 1 || points[2].Minutes() != 3 {
		t.Fatalf("unexpected today bucket %+v", points[2])
	}
	if points[1].Attempts != 0 {
		t.Fatalf("expected idle day, got %+v", points[1])
	}
	if points[0].Attempts != 1 {
		t.Fatalf("expected one attempt two days ago, got %+v", points[0])
	}
	acc := AccuracySeries(points)
	if len(acc) != 2 || acc[0] != 100 || acc[1] != 50 {
		t.Fatalf("unexpected accuracy series %v", acc)
	}
	if mins := MinutesSeries(points); len(mins) != 3 || mins[1] != 0 {
		t.Fatalf("unexpected minutes series %v", mins)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{2, 4, 6, 8}, 2)
	want := []float64{2, 3, 5, 7}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 50, 100}); got != " +@" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3}); got != "++" {
		t.Fatalf("unexpected flat sparkline %q", got)
	}
	if Sparkline(nil) != "" {
		t.Fatalf("expected empty sparkline")
	}
}
