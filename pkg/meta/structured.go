package meta

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
)

// Syntax selects the front matter dialect understood by a field.
type Syntax string

const (
	// SyntaxMultiMarkdown parses `Key: value` lines with indented
	// continuations.
	SyntaxMultiMarkdown Syntax = "multimarkdown"
	// SyntaxStructured parses YAML (---), TOML (+++), or JSON (;;;) blocks.
	SyntaxStructured Syntax = "structured"
	// SyntaxAuto picks SyntaxStructured for TOML/JSON delimiters and for
	// `---` blocks that decode as structured data, SyntaxMultiMarkdown
	// otherwise.
	SyntaxAuto Syntax = "auto"
)

// ParseSyntax maps a configuration string onto a Syntax. Empty input selects
// SyntaxMultiMarkdown.
func ParseSyntax(raw string) (Syntax, error) {
	switch Syntax(strings.ToLower(strings.TrimSpace(raw))) {
	case "", SyntaxMultiMarkdown, "mmd":
		return SyntaxMultiMarkdown, nil
	case SyntaxStructured, "yaml", "toml", "json":
		return SyntaxStructured, nil
	case SyntaxAuto:
		return SyntaxAuto, nil
	default:
		return "", fmt.Errorf("meta: unknown syntax %q", raw)
	}
}

// ExtractWith runs the extractor matching syntax.
func ExtractWith(syntax Syntax, text string) (Raw, string, error) {
	switch syntax {
	case "", SyntaxMultiMarkdown:
		raw, body := Extract(text)
		return raw, body, nil
	case SyntaxStructured:
		return ExtractStructured(text)
	case SyntaxAuto:
		trimmed := strings.TrimPrefix(text, "\ufeff")
		if strings.HasPrefix(trimmed, "+++") || strings.HasPrefix(trimmed, ";;;") {
			return ExtractStructured(text)
		}
		if strings.HasPrefix(trimmed, "---") {
			if raw, body, err := ExtractStructured(text); err == nil && raw.Len() > 0 {
				return raw, body, nil
			}
		}
		raw, body := Extract(text)
		return raw, body, nil
	default:
		return Raw{}, "", fmt.Errorf("meta: unknown syntax %q", syntax)
	}
}

// ExtractStructured decodes a YAML, TOML, or JSON front matter block. Scalars
// become single lines and sequences become one line per item, so the result
// goes through the same coercion rules as MultiMarkdown tags.
func ExtractStructured(text string) (Raw, string, error) {
	var raw Raw
	if strings.TrimSpace(text) == "" {
		return raw, "", nil
	}

	var decoded map[string]any
	body, err := frontmatter.Parse(strings.NewReader(text), &decoded)
	if err != nil {
		return raw, "", &SyntaxError{Err: err}
	}

	keys := make([]string, 0, len(decoded))
	for key := range decoded {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		lines, err := structuredLines(decoded[key])
		if err != nil {
			return Raw{}, "", &SyntaxError{Key: normalizeKey(key), Err: err}
		}
		for _, line := range lines {
			raw.Add(key, line)
		}
	}

	return raw, strings.TrimLeft(string(body), "\n"), nil
}

func structuredLines(value any) ([]string, error) {
	switch v := value.(type) {
	case []any:
		if len(v) == 0 {
			return []string{""}, nil
		}
		out := make([]string, 0, len(v))
		for _, item := range v {
			line, err := scalarLine(item)
			if err != nil {
				return nil, err
			}
			out = append(out, line)
		}
		return out, nil
	case []string:
		if len(v) == 0 {
			return []string{""}, nil
		}
		return append([]string(nil), v...), nil
	default:
		line, err := scalarLine(v)
		if err != nil {
			return nil, err
		}
		return []string{line}, nil
	}
}

func scalarLine(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	case time.Time:
		return v.Format(time.RFC3339), nil
	case bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return fmt.Sprint(v), nil
	default:
		return "", fmt.Errorf("unsupported value of type %T", value)
	}
}
