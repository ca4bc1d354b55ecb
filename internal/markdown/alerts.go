package markdown

import "strings"

var alertKinds = map[string]string{
	"[!note]":      "note",
	"[!tip]":       "tip",
	"[!important]": "important",
	"[!warning]":   "warning",
	"[!caution]":   "caution",
}

// ReplaceAlerts rewrites GitHub-style alert blockquotes into admonition
// divs. The quoted lines after the marker stay markdown: blank lines
// around them end the surrounding HTML blocks.
func ReplaceAlerts(src []byte) []byte {
	lines := strings.Split(string(src), "\n")
	out := make([]string, 0, len(lines))
	inFence := false

	for i := 0; i < len(lines); i++ {
		line := lines[i]
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
		}
		if inFence {
			out = append(out, line)
			continue
		}

		kind, ok := alertKind(trimmed)
		if !ok {
			out = append(out, line)
			continue
		}

		var body []string
		for i+1 < len(lines) {
			next := strings.TrimLeft(lines[i+1], " \t")
			if !strings.HasPrefix(next, ">") {
				break
			}
			next = strings.TrimPrefix(next, ">")
			next = strings.TrimPrefix(next, " ")
			body = append(body, next)
			i++
		}

		out = append(out,
			"",
			`<div class="admonition `+kind+`">`,
			`<p class="admonition-title">`+strings.ToUpper(kind[:1])+kind[1:]+`</p>`,
			"",
		)
		out = append(out, body...)
		out = append(out, "", "</div>", "")
	}

	return []byte(strings.Join(out, "\n"))
}

// alertKind matches "> [!note]" and friends, case-insensitively.
func alertKind(trimmed string) (string, bool) {
	if !strings.HasPrefix(trimmed, ">") {
		return "", false
	}
	marker := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(trimmed, ">")))
	kind, ok := alertKinds[marker]
	return kind, ok
}
