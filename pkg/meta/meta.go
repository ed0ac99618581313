package meta

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Value is a coerced tag: either a single string or a list of strings.
type Value struct {
	list  bool
	items []string
}

// String returns a scalar Value.
func String(value string) Value {
	return Value{items: []string{value}}
}

// List returns a list Value.
func List(items ...string) Value {
	return Value{list: true, items: append([]string{}, items...)}
}

// IsList reports whether the tag was declared list-typed.
func (v Value) IsList() bool {
	return v.list
}

// String returns the scalar value. Lists are joined with ", ".
func (v Value) String() string {
	if v.list {
		return strings.Join(v.items, ", ")
	}
	if len(v.items) == 0 {
		return ""
	}
	return v.items[0]
}

// Strings returns the value as a slice; scalars yield a single item.
func (v Value) Strings() []string {
	return append([]string(nil), v.items...)
}

// Interface returns a string or []string, the shape used by JSON payloads.
func (v Value) Interface() any {
	if v.list {
		return v.Strings()
	}
	return v.String()
}

// Meta maps lowercased tag names to their coerced values.
type Meta map[string]Value

// Keys returns the tag names in sorted order.
func (m Meta) Keys() []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Get looks up a tag case-insensitively.
func (m Meta) Get(key string) (Value, bool) {
	value, ok := m[normalizeKey(key)]
	return value, ok
}

// Has reports whether key is present.
func (m Meta) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Values converts the metadata into form values; lists expand into repeated
// entries.
func (m Meta) Values() url.Values {
	out := make(url.Values, len(m))
	for key, value := range m {
		out[key] = value.Strings()
	}
	return out
}

// Map returns the metadata as plain Go values (string or []string).
func (m Meta) Map() map[string]any {
	out := make(map[string]any, len(m))
	for key, value := range m {
		out[key] = value.Interface()
	}
	return out
}

// Normalize coerces raw tag lines. Keys named in listKeys are split on commas
// across every line; any other key must hold exactly one line. The first
// offending key in document order is reported.
func Normalize(raw Raw, listKeys ...string) (Meta, error) {
	lists := make(map[string]struct{}, len(listKeys))
	for _, key := range listKeys {
		if key = normalizeKey(key); key != "" {
			lists[key] = struct{}{}
		}
	}

	out := make(Meta, raw.Len())
	for _, key := range raw.Keys() {
		lines := raw.Lines(key)
		if _, isList := lists[key]; isList {
			out[key] = List(splitList(lines)...)
			continue
		}
		if len(lines) > 1 {
			return nil, &TagError{Key: key}
		}
		out[key] = String(lines[0])
	}
	return out, nil
}

func splitList(lines []string) []string {
	items := make([]string, 0, len(lines))
	for _, line := range lines {
		for _, part := range strings.Split(line, ",") {
			items = append(items, strings.TrimSpace(part))
		}
	}
	return items
}

// Parse extracts MultiMarkdown front matter and coerces it in one step. The
// returned body has the front matter removed.
func Parse(text string, listKeys ...string) (Meta, string, error) {
	raw, body := Extract(text)
	meta, err := Normalize(raw, listKeys...)
	if err != nil {
		return nil, "", err
	}
	return meta, body, nil
}

// FromMap builds Meta from plain values such as a decoded JSON object.
// Strings become scalars, arrays become lists, and other scalars are
// formatted with fmt. Nested objects and tag names that a key line cannot
// hold are rejected.
func FromMap(values map[string]any) (Meta, error) {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(Meta, len(values))
	for _, key := range keys {
		raw := values[key]
		name := normalizeKey(key)
		if name == "" {
			continue
		}
		if !keyPattern.MatchString(name) {
			return nil, &SyntaxError{Key: name, Err: errors.New("tag names may only contain letters, digits, '-' and '_'")}
		}
		switch v := raw.(type) {
		case nil:
			out[name] = String("")
		case string:
			out[name] = String(v)
		case []string:
			out[name] = List(v...)
		case []any:
			items := make([]string, 0, len(v))
			for _, item := range v {
				switch item.(type) {
				case map[string]any, []any:
					return nil, &SyntaxError{Key: name, Err: errors.New("nested values are not supported")}
				}
				items = append(items, fmt.Sprint(item))
			}
			out[name] = List(items...)
		case map[string]any:
			return nil, &SyntaxError{Key: name, Err: errors.New("nested values are not supported")}
		default:
			out[name] = String(fmt.Sprint(v))
		}
	}
	return out, nil
}
