package formula

import (
	"sort"
	"strings"
)

// Substitute replaces every occurrence of each parent id in text with the
// string returned by lookup. When several ids match at the same position the
// longest one wins.
func Substitute(text string, parentIDs []string, lookup func(id string) string) string {
	ids := make([]string, 0, len(parentIDs))
	for _, id := range parentIDs {
		if id != "" {
			ids = append(ids, id)
		}
	}
	sort.SliceStable(ids, func(i, j int) bool { return len(ids[i]) > len(ids[j]) })

	if len(ids) == 0 {
		return text
	}

	// Substituted text is never rescanned.
	var b strings.Builder
	for i := 0; i < len(text); {
		matched := false
		for _, id := range ids {
			if strings.HasPrefix(text[i:], id) {
				b.WriteString(lookup(id))
				i += len(id)
				matched = true
				break
			}
		}
		if !matched {
			b.WriteByte(text[i])
			i++
		}
	}
	return b.String()
}
