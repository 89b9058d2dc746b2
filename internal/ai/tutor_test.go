package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/verte-zerg/ontap/internal/model"
)

type fakeService struct {
	err       error
	questions []model.MockQuestion
	profile   model.LearningProfile
}

func (f fakeService) Chat(context.Context, []Message, string) (string, error) {
	return "ok", f.err
}

func (f fakeService) MockTest(context.Context, model.Subject, int, string) ([]model.MockQuestion, error) {
	return f.questions, f.err
}

func (f fakeService) LearningProfile(context.Context, []model.SubjectMastery) (model.LearningProfile, error) {
	return f.profile, f.err
}

func testSummary() model.ProfileSummary {
	return model.ProfileSummary{
		Message:    "Giữ vững phong độ!",
		Strengths:  []model.Insight{{Subject: model.SubjectMath, Label: "Toán", Topic: "Hàm số"}},
		Weaknesses: []model.Insight{{Subject: model.SubjectPhysics, Label: "Vật lí", Topic: "Định luật Ôm"}},
		Plan:       []model.PlanSuggestion{{Task: "Ôn Định luật Ôm", Why: "độ chính xác thấp", Minutes: 15}},
	}
}

func TestTutorFallbacks(t *testing.T) {
	ctx := context.Background()
	tutor := NewTutor(fakeService{err: errors.New("boom")}, nil)
	if got := tutor.Chat(ctx, nil, "hi"); got != ChatFallback {
		t.Fatalf("expected fallback chat, got %q", got)
	}
	if got := tutor.MockTest(ctx, model.SubjectMath, 5, ""); got == nil || len(got) != 0 {
		t.Fatalf("expected empty mock test, got %#v", got)
	}
	profile := tutor.LearningProfile(ctx, nil, testSummary())
	if profile.MotivationalQuote != "Giữ vững phong độ!" {
		t.Fatalf("unexpected quote %q", profile.MotivationalQuote)
	}
	if len(profile.Strengths) != 1 || profile.Strengths[0].Subject != "Toán" || profile.Weaknesses[0].Topic != "Định luật Ôm" {
		t.Fatalf("unexpected profile %+v", profile)
	}
	if len(profile.Recommendations) != 1 || profile.Recommendations[0] != "Ôn Định luật Ôm (15’): độ chính xác thấp" {
		t.Fatalf("unexpected recommendations %v", profile.Recommendations)
	}
}

func TestTutorWithoutBackend(t *testing.T) {
	tutor := NewTutor(nil, nil)
	if tutor.Configured() {
		t.Fatalf("expected unconfigured tutor")
	}
	if got := tutor.Chat(context.Background(), nil, "hi"); got != NotConfiguredChat {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestTutorPassesThrough(t *testing.T) {
	ctx := context.Background()
	want := model.LearningProfile{MotivationalQuote: "AI"}
	tutor := NewTutor(fakeService{questions: []model.MockQuestion{{ID: 1}}, profile: want}, nil)
	if got := tutor.Chat(ctx, nil, "hi"); got != "ok" {
		t.Fatalf("unexpected reply %q", got)
	}
	if got := tutor.MockTest(ctx, model.SubjectMath, 1, ""); len(got) != 1 {
		t.Fatalf("expected 1 question")
	}
	if got := tutor.LearningProfile(ctx, nil, testSummary()); got.MotivationalQuote != "AI" {
		t.Fatalf("expected AI profile, got %+v", got)
	}
}
