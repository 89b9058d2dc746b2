package plan

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/verte-zerg/ontap/internal/model"
)

// DefaultPracticePath is the practice page links point to.
const DefaultPracticePath = "/practice"

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// Slug folds s to a lowercase ASCII dash-separated token.
func Slug(s string) string {
	s = strings.ToLower(s)
	// đ has no decomposition.
	s = strings.ReplaceAll(s, "đ", "d")
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.Trim(nonSlug.ReplaceAllString(folded, "-"), "-")
}

// PracticeLink opens practice for a subject topic.
func PracticeLink(base string, subject model.Subject, topic string) string {
	if base == "" {
		base = DefaultPracticePath
	}
	return base + "?subject=" + Slug(string(subject)) + "&topic=" + Slug(topic)
}

// PracticeLinkForPack opens the pack's quiz when it has start parameters and
// falls back to PracticeLink otherwise.
func PracticeLinkForPack(base string, subject model.Subject, topic string, pack *model.ExercisePack) string {
	link := PracticeLink(base, subject, topic)
	if pack == nil || pack.StartParams == nil {
		return link
	}
	p := pack.StartParams
	return fmt.Sprintf("%s&mode=%s&num=%d&diff=%s", link, p.Mode, p.Num, p.Diff)
}
