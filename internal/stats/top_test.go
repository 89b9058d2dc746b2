package stats

import (
	"testing"

	"github.com/verte-zerg/ontap/internal/model"
)

func TestMostPracticed(t *testing.T) {
	topics := []model.TopicStat{
		{Subject: model.SubjectMath, Topic: "a", Attempts: 3},
		{Subject: model.SubjectMath, Topic: "b", Attempts: 9},
		{Subject: model.SubjectMath, Topic: "c", Attempts: 5},
	}
	got := MostPracticed(topics, 2)
	if len(got) != 2 || got[0].Topic != "b" || got[1].Topic != "c" {
		t.Fatalf("unexpected order %+v", got)
	}
	if MostPracticed(topics, 0) != nil {
		t.Fatalf("expected nil for n=0")
	}
}
