package builder

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

const maxSanitizePasses = 8

// sanitizeText strips every tag from author-supplied text (labels, option
// names, form names) and trims the result. Entities are decoded before each
// pass so escaped markup is stripped too, and the output stays plain text.
func sanitizeText(raw string) string {
	text := strings.TrimSpace(raw)
	for i := 0; i < maxSanitizePasses; i++ {
		if text == "" {
			return ""
		}
		next := strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(html.UnescapeString(text))))
		if next == text {
			return text
		}
		text = next
	}
	// Not stable yet: return the escaped form.
	return textSanitizer().Sanitize(text)
}

func sanitizeOptions(options []string) []string {
	if options == nil {
		return nil
	}
	out := make([]string, 0, len(options))
	for _, option := range options {
		if cleaned := sanitizeText(option); cleaned != "" {
			out = append(out, cleaned)
		}
	}
	return out
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
