package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/verte-zerg/ontap/internal/model"
	"github.com/verte-zerg/ontap/internal/syllabus"
)

const tutorPersona = `Bạn là Trí Tuệ Việt, trợ lý AI thân thiện hỗ trợ học sinh lớp 9 ôn thi vào lớp 10.
Trả lời rõ ràng, ngắn gọn, chính xác và bằng tiếng Việt.`

const maxMockQuestions = 50

var lowTemperature = 0.2

// Chat answers prompt given the previous turns.
func (c *Client) Chat(ctx context.Context, history []Message, prompt string) (string, error) {
	messages := make([]Message, 0, len(history)+2)
	messages = append(messages, Message{Role: "system", Content: tutorPersona})
	messages = append(messages, history...)
	messages = append(messages, Message{Role: "user", Content: prompt})
	return c.complete(ctx, "chat", messages, callOptions{})
}

// replyQuestion accepts any JSON id; questions are renumbered after parsing.
type replyQuestion struct {
	model.MockQuestion
	ID json.RawMessage `json:"id"`
}

type mockTestReply struct {
	Questions []replyQuestion `json:"questions"`
}

// MockTest generates n multiple-choice questions for subject, optionally
// focused on topic. Questions without exactly four options or whose answer is
// not one of the options are dropped.
func (c *Client) MockTest(ctx context.Context, subject model.Subject, n int, topic string) ([]model.MockQuestion, error) {
	if n < 1 || n > maxMockQuestions {
		return nil, &Error{Op: "mock-test", Reason: fmt.Sprintf("question count must be within [1,%d], got %d", maxMockQuestions, n)}
	}
	focus := ""
	if topic != "" {
		focus = fmt.Sprintf(", tập trung sâu vào chủ đề %q", topic)
	}
	prompt := fmt.Sprintf(`Tạo một bài kiểm tra trắc nghiệm gồm %d câu hỏi cho môn học %q%s dành cho học sinh lớp 9 tại Việt Nam ôn thi vào lớp 10.
Mỗi câu hỏi phải có chính xác 4 lựa chọn trả lời và chỉ một đáp án đúng; "answer" phải trùng khớp với một lựa chọn.
Cung cấp một giải thích ngắn gọn cho đáp án đúng. Độ khó ở mức trung bình - khá.
Chỉ trả về JSON dạng: {"questions":[{"id":1,"question":"...","options":["...","...","...","..."],"answer":"...","explanation":"..."}]}`,
		n, syllabus.Label(subject), focus)

	reply, err := c.complete(ctx, "mock-test", []Message{{Role: "user", Content: prompt}}, callOptions{jsonOutput: true})
	if err != nil {
		return nil, err
	}
	questions, err := parseMockTest(reply)
	if err != nil {
		return nil, err
	}
	if len(questions) > n {
		questions = questions[:n]
	}
	return questions, nil
}

func parseMockTest(reply string) ([]model.MockQuestion, error) {
	var raw []replyQuestion
	if obj := extractObject(reply); obj != "" {
		var wrapped mockTestReply
		if err := json.Unmarshal([]byte(obj), &wrapped); err == nil && len(wrapped.Questions) > 0 {
			raw = wrapped.Questions
		}
	}
	if raw == nil {
		arr := extractArray(reply)
		if arr == "" {
			return nil, &Error{Op: "mock-test", Reason: "no JSON found in reply"}
		}
		if err := json.Unmarshal([]byte(arr), &raw); err != nil {
			return nil, &Error{Op: "mock-test", Reason: "invalid JSON", Wrapped: err}
		}
	}
	out := make([]model.MockQuestion, 0, len(raw))
	for _, r := range raw {
		q := r.MockQuestion
		if !validQuestion(q) {
			continue
		}
		q.ID = len(out) + 1
		out = append(out, q)
	}
	if len(out) == 0 {
		return nil, &Error{Op: "mock-test", Reason: "no valid questions"}
	}
	return out, nil
}

func validQuestion(q model.MockQuestion) bool {
	if strings.TrimSpace(q.Question) == "" || len(q.Options) != 4 {
		return false
	}
	return slices.Contains(q.Options, q.Answer)
}

// LearningProfile asks for two strengths, two weaknesses, three
// recommendations and a short motivational line based on mastery.
func (c *Client) LearningProfile(ctx context.Context, mastery []model.SubjectMastery) (model.LearningProfile, error) {
	if len(mastery) == 0 {
		return model.LearningProfile{}, &Error{Op: "profile", Reason: "no progress data"}
	}
	parts := make([]string, 0, len(mastery))
	for _, m := range mastery {
		trend := "chưa có xu hướng"
		if m.Trend != nil {
			trend = fmt.Sprintf("xu hướng %+d điểm", *m.Trend)
		}
		parts = append(parts, fmt.Sprintf("%s: %d%% đúng qua %d câu (%s)", m.Label, int(m.Accuracy*100+0.5), m.Attempts, trend))
	}
	prompt := fmt.Sprintf(`Dựa trên dữ liệu tiến bộ học tập sau của một học sinh lớp 9 tại Việt Nam: %q.
Hãy phân tích và trả về:
1. Hai (2) điểm mạnh.
2. Hai (2) điểm yếu.
3. Ba (3) đề xuất cụ thể cho tuần tới.
4. Một (1) câu động viên ngắn gọn, tích cực.
Chỉ trả về JSON dạng: {"strengths":[{"subject":"...","topic":"..."}],"weaknesses":[{"subject":"...","topic":"..."}],"recommendations":["..."],"motivationalQuote":"..."}`,
		strings.Join(parts, ", "))

	reply, err := c.complete(ctx, "profile", []Message{{Role: "user", Content: prompt}}, callOptions{temperature: &lowTemperature, jsonOutput: true})
	if err != nil {
		return model.LearningProfile{}, err
	}
	obj := extractObject(reply)
	if obj == "" {
		return model.LearningProfile{}, &Error{Op: "profile", Reason: "no JSON object found in reply"}
	}
	var profile model.LearningProfile
	if err := json.Unmarshal([]byte(obj), &profile); err != nil {
		return model.LearningProfile{}, &Error{Op: "profile", Reason: "invalid JSON", Wrapped: err}
	}
	if len(profile.Strengths) == 0 && len(profile.Weaknesses) == 0 && len(profile.Recommendations) == 0 {
		return model.LearningProfile{}, &Error{Op: "profile", Reason: "empty profile"}
	}
	return profile, nil
}
