package syllabus

import (
	"testing"

	"github.com/verte-zerg/ontap/internal/model"
)

func TestFilterExcludesOutOfScopeTopics(t *testing.T) {
	list := []model.Attempt{
		{ID: "1", Subject: model.SubjectMath, Topic: "Hàm số y=ax+b – đồ thị"},
		{ID: "2", Subject: model.SubjectMath, Topic: "Không tồn tại"},
		{ID: "3", Subject: model.SubjectMath, Topic: "Không tồn tại"},
		{ID: "4", Subject: "am-nhac", Topic: "Nhạc lí"},
		{ID: "5", Subject: model.SubjectEnglish, Topic: "Passive Voice"},
	}
	res := Filter(list)
	if len(res.Included) != 2 {
		t.Fatalf("expected 2 included, got %d", len(res.Included))
	}
	if res.ExcludedCount != 3 {
		t.Fatalf("expected 3 excluded, got %d", res.ExcludedCount)
	}
	if res.Included[0].ID != "1" || res.Included[1].ID != "5" {
		t.Fatalf("expected input order preserved, got %+v", res.Included)
	}
	if len(res.Included)+res.ExcludedCount != len(list) {
		t.Fatalf("expected partition of %d attempts", len(list))
	}
}

func TestFilterRequiresExactMatch(t *testing.T) {
	cases := []string{
		"hàm số y=ax+b – đồ thị",
		" Hàm số y=ax+b – đồ thị",
		"Hàm số y=ax+b - đồ thị",
	}
	for _, topic := range cases {
		if IsSyllabusTopic(model.SubjectMath, topic) {
			t.Fatalf("expected %q to be rejected", topic)
		}
	}
}

func TestFilterEmpty(t *testing.T) {
	res := Filter(nil)
	if len(res.Included) != 0 || res.ExcludedCount != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestEveryKnownSubjectHasTopicsAndLabel(t *testing.T) {
	for _, s := range Subjects() {
		if got := len(Topics(s)); got != 10 {
			t.Fatalf("expected 10 topics for %s, got %d", s, got)
		}
		if Label(s) == string(s) {
			t.Fatalf("expected a display label for %s", s)
		}
	}
	if Label("am-nhac") != "am-nhac" {
		t.Fatalf("expected raw code fallback for unknown subject")
	}
	if len(Topics("am-nhac")) != 0 {
		t.Fatalf("expected no topics for unknown subject")
	}
}

func TestTopicsReturnsCopy(t *testing.T) {
	list := Topics(model.SubjectMath)
	list[0] = "changed"
	if Topics(model.SubjectMath)[0] == "changed" {
		t.Fatalf("expected Topics to return a copy")
	}
}
