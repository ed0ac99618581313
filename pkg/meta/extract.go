package meta

import (
	"regexp"
	"strings"
)

var (
	keyLinePattern  = regexp.MustCompile(`^[ ]{0,3}([A-Za-z0-9_-]+):\s*(.*)`)
	keyPattern      = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)
	moreLinePattern = regexp.MustCompile(`^[ ]{4,}(.*)`)
	beginPattern    = regexp.MustCompile(`^-{3}(\s.*)?`)
	endPattern      = regexp.MustCompile(`^(-{3}|\.{3})(\s.*)?`)
)

const tabWidth = 4

// Extract splits text into its MultiMarkdown front matter and the remaining
// body. Text without front matter yields an empty Raw and the normalised text.
func Extract(text string) (Raw, string) {
	var raw Raw
	if strings.TrimSpace(text) == "" {
		return raw, ""
	}

	lines := splitLines(text)
	if len(lines) > 0 && beginPattern.MatchString(lines[0]) {
		lines = lines[1:]
	}

	key := ""
	for len(lines) > 0 {
		line := lines[0]
		if strings.TrimSpace(line) == "" || endPattern.MatchString(line) {
			lines = lines[1:]
			break
		}
		if groups := keyLinePattern.FindStringSubmatch(line); groups != nil {
			key = normalizeKey(groups[1])
			raw.Add(key, strings.TrimSpace(groups[2]))
			lines = lines[1:]
			continue
		}
		if groups := moreLinePattern.FindStringSubmatch(line); groups != nil && key != "" {
			raw.Add(key, strings.TrimSpace(groups[1]))
			lines = lines[1:]
			continue
		}
		break
	}

	return raw, strings.Join(lines, "\n")
}

// splitLines normalises line endings and expands tabs before splitting.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if strings.Contains(line, "\t") {
			lines[i] = expandTabs(line)
		}
	}
	return lines
}

func expandTabs(line string) string {
	var builder strings.Builder
	builder.Grow(len(line) + tabWidth)
	column := 0
	for _, r := range line {
		if r == '\t' {
			pad := tabWidth - column%tabWidth
			builder.WriteString(strings.Repeat(" ", pad))
			column += pad
			continue
		}
		builder.WriteRune(r)
		column++
	}
	return builder.String()
}

func normalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
