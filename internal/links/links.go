// Package links pulls web links out of task text so they can be offered
// for opening alongside previews and reports.
package links

import (
	"net/url"
	"regexp"
	"strings"

	"taskfocus-cli/internal/model"
)

var urlRegexp = regexp.MustCompile(`https?://[^\s<>"']+`)

// Characters that typically ride along when a link is pasted into prose:
// closing brackets and sentence punctuation.
const trailingURLChars = ")]},.;'\":>"

// Normalize cleans one link candidate: trailing punctuation is stripped,
// bare www. forms get a scheme, and anything without a scheme and host is
// rejected. An empty result means the candidate is not a usable link.
func Normalize(raw string) string {
	u := strings.TrimSpace(raw)
	for u != "" && strings.ContainsRune(trailingURLChars, rune(u[len(u)-1])) {
		u = u[:len(u)-1]
	}
	if u == "" {
		return ""
	}
	if strings.HasPrefix(u, "www.") {
		u = "https://" + u
	}
	lower := strings.ToLower(u)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return ""
	}
	parsed, err := url.Parse(u)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return ""
	}
	return u
}

// FromTask collects every link in the task's description, plan item texts,
// and session notes, in that order.
func FromTask(t *model.Task) []string {
	texts := make([]string, 0, 1+len(t.Plan)+len(t.Sessions))
	texts = append(texts, t.Description)
	for _, item := range t.Plan {
		texts = append(texts, item.Text)
	}
	for _, ses := range t.Sessions {
		texts = append(texts, ses.Note)
	}
	return FromTexts(texts...)
}

// FromTexts extracts links from free text, deduplicated case-insensitively
// while keeping the first spelling seen.
func FromTexts(texts ...string) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, text := range texts {
		if text == "" {
			continue
		}
		for _, match := range urlRegexp.FindAllString(text, -1) {
			u := Normalize(match)
			if u == "" {
				continue
			}
			key := strings.ToLower(u)
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, u)
		}
	}
	return out
}
