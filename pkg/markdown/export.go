package markdown

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
)

// ToMarkdown converts an HTML fragment produced by a Converter back into
// Markdown so stored values can be re-exported as editable documents.
func ToMarkdown(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", nil
	}
	out, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("markdown: convert html: %w", err)
	}
	return strings.TrimSpace(out) + "\n", nil
}
