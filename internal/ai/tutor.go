package ai

import (
	"context"
	"fmt"

	"github.com/verte-zerg/ontap/internal/logger"
	"github.com/verte-zerg/ontap/internal/model"
)

// Replies used when the endpoint cannot answer.
const (
	ChatFallback      = "Rất tiếc, đã có lỗi xảy ra khi kết nối với AI. Vui lòng thử lại sau."
	NotConfiguredChat = "Lỗi: AI chưa được khởi tạo. Vui lòng cài đặt API Key."
)

// Service is the generative backend the tutor calls.
type Service interface {
	Chat(ctx context.Context, history []Message, prompt string) (string, error)
	MockTest(ctx context.Context, subject model.Subject, n int, topic string) ([]model.MockQuestion, error)
	LearningProfile(ctx context.Context, mastery []model.SubjectMastery) (model.LearningProfile, error)
}

var _ Service = (*Client)(nil)

// Tutor wraps a Service and never fails: errors are logged and replaced by
// local fallbacks. A nil service means no API key is configured.
type Tutor struct {
	svc Service
	log *logger.Logger
}

// NewTutor returns a tutor over svc.
func NewTutor(svc Service, log *logger.Logger) *Tutor {
	return &Tutor{svc: svc, log: logger.OrNop(log)}
}

// Configured reports whether a backend is available.
func (t *Tutor) Configured() bool {
	return t.svc != nil
}

// Chat returns the tutor's reply or a fixed apology.
func (t *Tutor) Chat(ctx context.Context, history []Message, prompt string) string {
	if t.svc == nil {
		return NotConfiguredChat
	}
	reply, err := t.svc.Chat(ctx, history, prompt)
	if err != nil {
		t.log.Warn("chat failed", "error", err)
		return ChatFallback
	}
	return reply
}

// MockTest returns generated questions, or none when generation fails.
func (t *Tutor) MockTest(ctx context.Context, subject model.Subject, n int, topic string) []model.MockQuestion {
	if t.svc == nil {
		t.log.Warn("mock test requested without AI backend")
		return []model.MockQuestion{}
	}
	questions, err := t.svc.MockTest(ctx, subject, n, topic)
	if err != nil {
		t.log.Warn("mock test failed", "subject", subject, "error", err)
		return []model.MockQuestion{}
	}
	return questions
}

// LearningProfile returns the AI suggestion, or one derived from summary.
func (t *Tutor) LearningProfile(ctx context.Context, mastery []model.SubjectMastery, summary model.ProfileSummary) model.LearningProfile {
	if t.svc != nil {
		profile, err := t.svc.LearningProfile(ctx, mastery)
		if err == nil {
			return profile
		}
		t.log.Warn("learning profile failed, using local summary", "error", err)
	}
	return ProfileFromSummary(summary)
}

// ProfileFromSummary maps the local profile summary onto the AI profile shape.
func ProfileFromSummary(s model.ProfileSummary) model.LearningProfile {
	p := model.LearningProfile{
		Strengths:         insightsToTopics(s.Strengths),
		Weaknesses:        insightsToTopics(s.Weaknesses),
		Recommendations:   make([]string, 0, len(s.Plan)),
		MotivationalQuote: s.Message,
	}
	for _, step := range s.Plan {
		p.Recommendations = append(p.Recommendations, fmt.Sprintf("%s (%d’): %s", step.Task, step.Minutes, step.Why))
	}
	return p
}

func insightsToTopics(list []model.Insight) []model.SubjectTopic {
	out := make([]model.SubjectTopic, 0, len(list))
	for _, in := range list {
		out = append(out, model.SubjectTopic{Subject: in.Label, Topic: in.Topic})
	}
	return out
}
