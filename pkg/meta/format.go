package meta

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// Format renders metadata as a MultiMarkdown front matter block followed by
// body. Lists are written comma separated so the output parses back into the
// same Meta when the same keys are declared list-typed. Line breaks inside a
// value are folded into spaces; other whitespace is kept.
func Format(m Meta, body string) string {
	body = strings.TrimLeft(body, "\n")
	if len(m) == 0 {
		return body
	}

	var builder strings.Builder
	for _, key := range m.Keys() {
		value := strings.TrimSpace(lineBreaks.Replace(m[key].String()))
		builder.WriteString(key)
		builder.WriteString(": ")
		builder.WriteString(value)
		builder.WriteByte('\n')
	}
	builder.WriteByte('\n')
	builder.WriteString(body)
	return builder.String()
}

// FormatYAML renders metadata as a `---` delimited YAML block followed by
// body.
func FormatYAML(m Meta, body string) (string, error) {
	body = strings.TrimLeft(body, "\n")
	if len(m) == 0 {
		return body, nil
	}

	payload, err := yaml.Marshal(m.Map())
	if err != nil {
		return "", fmt.Errorf("meta: marshal yaml: %w", err)
	}

	var builder strings.Builder
	builder.WriteString("---\n")
	builder.Write(payload)
	builder.WriteString("---\n\n")
	builder.WriteString(body)
	return builder.String(), nil
}
