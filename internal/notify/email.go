// Package notify delivers weekly digests to parents.
package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/verte-zerg/ontap/internal/model"
)

// Email is a rendered message.
type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

const (
	emptyTopics = "—"
	noAlerts    = "Không có"
	footer      = "(Email tạo tự động từ Ứng dụng AI hỗ trợ ôn thi vào lớp 10.)"
)

// DigestSubject is the subject line of a digest e-mail.
func DigestSubject(d model.WeeklyDigest) string {
	return "[Báo cáo tuần] Tiến bộ học tập của " + d.ChildEmail
}

// DigestText renders the plain-text body shared by e-mail and mailto links.
func DigestText(d model.WeeklyDigest) string {
	var b strings.Builder
	b.WriteString("Chào phụ huynh,\n\n")
	fmt.Fprintf(&b, "Báo cáo %s của %s:\n", d.RangeLabel, d.ChildEmail)
	fmt.Fprintf(&b, "- Thời lượng: %d’ / mục tiêu %d’\n", d.MinutesThisWeek, d.MinutesTarget)
	fmt.Fprintf(&b, "- Độ chính xác: %d%% (%s điểm so với tuần trước)\n", d.Accuracy7d, signed(d.AccuracyChange))
	fmt.Fprintf(&b, "- Điểm mạnh: %s\n", joinTopics(d.Strengths))
	fmt.Fprintf(&b, "- Cần cải thiện: %s\n\n", joinTopics(d.Weaknesses))
	fmt.Fprintf(&b, "Cảnh báo: %s\n\n", joinAlerts(d.Alerts))
	b.WriteString("Đề nghị phụ huynh:\n")
	for _, a := range d.Actions {
		b.WriteString("- " + a + "\n")
	}
	b.WriteString("\n" + footer + "\n")
	return b.String()
}

func signed(v int) string {
	if v >= 0 {
		return fmt.Sprintf("+%d", v)
	}
	return fmt.Sprintf("%d", v)
}

func joinTopics(list []model.DigestTopic) string {
	if len(list) == 0 {
		return emptyTopics
	}
	names := make([]string, len(list))
	for i, t := range list {
		names[i] = t.Topic
	}
	return strings.Join(names, ", ")
}

func joinAlerts(list []model.DigestAlert) string {
	if len(list) == 0 {
		return noAlerts
	}
	texts := make([]string, len(list))
	for i, a := range list {
		texts[i] = a.Text
	}
	return strings.Join(texts, " | ")
}

// encodeComponent escapes s for a URI query component, spaces as %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// MailtoLink opens the user's mail client with the digest prefilled.
func MailtoLink(parentEmail string, d model.WeeklyDigest) string {
	return "mailto:" + parentEmail + "?subject=" + encodeComponent(DigestSubject(d)) + "&body=" + encodeComponent(DigestText(d))
}

// ShareLink is the read-only progress page for a subscription token.
func ShareLink(baseURL, token string) string {
	return strings.TrimRight(baseURL, "/") + "/progress/" + token
}

var digestHTML = template.Must(template.New("digest").Parse(`<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
		.container { max-width: 600px; margin: 0 auto; padding: 20px; }
		.header { background-color: #4a90e2; color: white; padding: 20px; text-align: center; border-radius: 5px 5px 0 0; }
		.content { background-color: #f9f9f9; padding: 30px; border-radius: 0 0 5px 5px; }
		.red { color: #c0392b; }
		.yellow { color: #b7950b; }
		.footer { text-align: center; margin-top: 20px; font-size: 12px; color: #666; }
	</style>
</head>
<body>
	<div class="container">
		<div class="header">
			<h1>Báo cáo {{.D.RangeLabel}}</h1>
			<p>{{.D.ChildEmail}}</p>
		</div>
		<div class="content">
			<p>Thời lượng: <strong>{{.D.MinutesThisWeek}}’</strong> / mục tiêu {{.D.MinutesTarget}}’</p>
			<p>Độ chính xác: <strong>{{.D.Accuracy7d}}%</strong> ({{.Change}} điểm so với tuần trước)</p>
			<p>Điểm mạnh: {{.Strengths}}</p>
			<p>Cần cải thiện: {{.Weaknesses}}</p>
			{{if .D.Alerts}}<ul>{{range .D.Alerts}}<li class="{{.Level}}">{{.Text}}</li>{{end}}</ul>{{else}}<p>Cảnh báo: Không có</p>{{end}}
			<p>Đề nghị phụ huynh:</p>
			<ul>{{range .D.Actions}}<li>{{.}}</li>{{end}}</ul>
			{{if .ShareLink}}<p><a href="{{.ShareLink}}">Xem tiến bộ chi tiết</a></p>{{end}}
		</div>
		<div class="footer">
			<p>{{.Footer}}</p>
		</div>
	</div>
</body>
</html>
`))

// DigestEmail renders the digest for parentEmail. shareLink may be empty.
func DigestEmail(parentEmail string, d model.WeeklyDigest, shareLink string) (Email, error) {
	var html bytes.Buffer
	err := digestHTML.Execute(&html, struct {
		D          model.WeeklyDigest
		Change     string
		Strengths  string
		Weaknesses string
		ShareLink  string
		Footer     string
	}{
		D:          d,
		Change:     signed(d.AccuracyChange),
		Strengths:  joinTopics(d.Strengths),
		Weaknesses: joinTopics(d.Weaknesses),
		ShareLink:  shareLink,
		Footer:     footer,
	})
	if err != nil {
		return Email{}, fmt.Errorf("failed to render digest: %w", err)
	}
	text := DigestText(d)
	if shareLink != "" {
		text += "\nXem tiến bộ chi tiết: " + shareLink + "\n"
	}
	return Email{To: parentEmail, Subject: DigestSubject(d), Text: text, HTML: html.String()}, nil
}
