package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/verte-zerg/ontap/internal/model"
)

type capturedRequest struct {
	auth string
	body completionRequest
}

func newServer(t *testing.T, status int, content string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		captured.auth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured.body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":"quota"}`))
			return
		}
		resp := map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func TestChatSendsHistoryAndKey(t *testing.T) {
	srv, captured := newServer(t, http.StatusOK, "Xin chào!")
	c := NewClient(Config{BaseURL: srv.URL + "/", APIKey: "secret"})
	reply, err := c.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}, "2+2?")
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "Xin chào!" {
		t.Fatalf("unexpected reply %q", reply)
	}
	if captured.auth != "Bearer secret" {
		t.Fatalf("expected bearer key, got %q", captured.auth)
	}
	msgs := captured.body.Messages
	if len(msgs) != 4 || msgs[0].Role != "system" || msgs[3].Content != "2+2?" {
		t.Fatalf("unexpected messages %+v", msgs)
	}
	if captured.body.Model != DefaultModel || captured.body.ResponseFormat != nil {
		t.Fatalf("unexpected request %+v", captured.body)
	}
}

func TestChatStatusError(t *testing.T) {
	srv, _ := newServer(t, http.StatusTooManyRequests, "")
	_, err := NewClient(Config{BaseURL: srv.URL}).Chat(context.Background(), nil, "hi")
	var aiErr *Error
	if !errors.As(err, &aiErr) || aiErr.Op != "chat" || !strings.Contains(aiErr.Reason, "429") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestMockTestValidatesQuestions(t *testing.T) {
	content := "Đây là đề:\n```json\n" + `{"questions":[
		{"id":7,"question":"1+1?","options":["1","2","3","4"],"answer":"2","explanation":"cộng"},
		{"id":8,"question":"thiếu lựa chọn","options":["a","b"],"answer":"a","explanation":""},
		{"id":9,"question":"sai đáp án","options":["a","b","c","d"],"answer":"e","explanation":""},
		{"id":10,"question":"{ngoặc} \"trích\"","options":["a","b","c","d"],"answer":"d","explanation":"x"}
	]}` + "\n```"
	srv, captured := newServer(t, http.StatusOK, content)
	got, err := NewClient(Config{BaseURL: srv.URL}).MockTest(context.Background(), model.SubjectMath, 5, "Định lí Pi-ta-go")
	if err != nil {
		t.Fatalf("mock test: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 2 || got[1].Answer != "d" {
		t.Fatalf("unexpected questions %+v", got)
	}
	if captured.body.ResponseFormat == nil || captured.body.ResponseFormat.Type != "json_object" {
		t.Fatalf("expected json response format")
	}
	if !strings.Contains(captured.body.Messages[0].Content, "Toán") {
		t.Fatalf("expected subject label in prompt")
	}
}

func TestMockTestAcceptsBareArray(t *testing.T) {
	content := `[{"id":1,"question":"q","options":["a","b","c","d"],"answer":"a","explanation":"e"}]`
	srv, _ := newServer(t, http.StatusOK, content)
	got, err := NewClient(Config{BaseURL: srv.URL}).MockTest(context.Background(), model.SubjectEnglish, 1, "")
	if err != nil || len(got) != 1 {
		t.Fatalf("expected 1 question, got %v err=%v", got, err)
	}
}

func TestMockTestAcceptsLooseIDs(t *testing.T) {
	content := `{"questions":[
		{"id":"1","question":"q1","options":["a","b","c","d"],"answer":"a","explanation":""},
		{"id":null,"question":"q2","options":["a","b","c","d"],"answer":"b","explanation":""},
		{"question":"q3","options":["a","b","c","d"],"answer":"c","explanation":""}
	]}`
	got, err := parseMockTest(content)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 questions, got %+v", got)
	}
	for i, q := range got {
		if q.ID != i+1 {
			t.Fatalf("expected question %d renumbered, got id %d", i+1, q.ID)
		}
	}
	if got[1].Answer != "b" {
		t.Fatalf("unexpected second question %+v", got[1])
	}
	arr, err := parseMockTest(`[{"id":"x","question":"q","options":["a","b","c","d"],"answer":"d","explanation":""}]`)
	if err != nil || len(arr) != 1 || arr[0].ID != 1 {
		t.Fatalf("expected bare array with string id, got %+v err=%v", arr, err)
	}
}

func TestMockTestRejectsBadCount(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"})
	if _, err := c.MockTest(context.Background(), model.SubjectMath, 0, ""); err == nil {
		t.Fatalf("expected error for zero questions")
	}
}

func TestMockTestNoValidQuestions(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, `{"questions":[]}`)
	if _, err := NewClient(Config{BaseURL: srv.URL}).MockTest(context.Background(), model.SubjectMath, 3, ""); err == nil {
		t.Fatalf("expected error")
	}
}

func TestLearningProfile(t *testing.T) {
	content := `{"strengths":[{"subject":"Toán","topic":"Hàm số"}],"weaknesses":[{"subject":"Ngữ văn","topic":"NLXH"}],"recommendations":["Ôn lại"],"motivationalQuote":"Cố lên!"}`
	srv, captured := newServer(t, http.StatusOK, content)
	trend := -3
	mastery := []model.SubjectMastery{{Subject: model.SubjectMath, Label: "Toán", Attempts: 20, Accuracy: 0.75, Trend: &trend}}
	got, err := NewClient(Config{BaseURL: srv.URL}).LearningProfile(context.Background(), mastery)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if got.MotivationalQuote != "Cố lên!" || len(got.Strengths) != 1 {
		t.Fatalf("unexpected profile %+v", got)
	}
	if !strings.Contains(captured.body.Messages[0].Content, "Toán: 75% đúng qua 20 câu (xu hướng -3 điểm)") {
		t.Fatalf("unexpected prompt %q", captured.body.Messages[0].Content)
	}
	if captured.body.Temperature == nil || *captured.body.Temperature != 0.2 {
		t.Fatalf("expected low temperature")
	}
}

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "prose", in: `sure: {"a":{"b":2}} done`, want: `{"a":{"b":2}}`},
		{name: "brace in string", in: `{"a":"}{"}`, want: `{"a":"}{"}`},
		{name: "escaped quote", in: `{"a":"\"}"}`, want: `{"a":"\"}"}`},
		{name: "stray close", in: `} {"a":1}`, want: `{"a":1}`},
		{name: "none", in: `no json`, want: ""},
		{name: "unbalanced", in: `{"a":1`, want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := extractObject(tc.in); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
