package serializer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/meta"
)

// MarkdownSerializer injects the front matter of its Markdown upload into
// the payload before the other fields are restored. Every tag missing from
// the payload is injected, declared or not; values sent by the client win.
// Declared fields match tags case-insensitively.
type MarkdownSerializer struct {
	*Serializer

	name   string
	field  *Markdown
	result field.Result
}

// WithMarkdown wraps s around the Markdown field called name.
func WithMarkdown(s *Serializer, name string) (*MarkdownSerializer, error) {
	if s == nil {
		return nil, errors.New("serializer: serializer is nil")
	}
	fld, ok := s.Field(name)
	if !ok {
		return nil, fmt.Errorf("serializer: unknown field %q", name)
	}
	md, ok := fld.(*Markdown)
	if !ok {
		return nil, fmt.Errorf("serializer: field %q is %T, not a Markdown field", name, fld)
	}
	return attach(s.clone(), name, md), nil
}

// MustMarkdown panics when WithMarkdown fails.
func MustMarkdown(s *Serializer, name string) *MarkdownSerializer {
	m, err := WithMarkdown(s, name)
	if err != nil {
		panic(err)
	}
	return m
}

func attach(s *Serializer, name string, md *Markdown) *MarkdownSerializer {
	m := &MarkdownSerializer{Serializer: s, name: name, field: md}
	s.restorer = m.restoreMarkdown
	return m
}

// Bind returns a bound copy of the Markdown serializer.
func (m *MarkdownSerializer) Bind(data map[string]any, files map[string]*field.Upload) *MarkdownSerializer {
	return attach(m.Serializer.Bind(data, files), m.name, m.field)
}

// MarkdownName is the name of the Markdown field.
func (m *MarkdownSerializer) MarkdownName() string {
	return m.name
}

// Meta returns the front matter of the restored upload.
func (m *MarkdownSerializer) Meta() meta.Meta {
	m.Serializer.restore()
	return m.result.Meta
}

// Result returns the full outcome of cleaning the upload.
func (m *MarkdownSerializer) Result() field.Result {
	m.Serializer.restore()
	return m.result
}

func (m *MarkdownSerializer) restoreMarkdown() {
	s := m.Serializer

	result, ok, err := m.field.RestoreResult(s.files)
	switch {
	case err != nil:
		s.errors[m.name] = field.Messages(err)
	case ok:
		m.result = result
		s.validated[m.name] = result.HTML
	}

	declared := make(map[string]struct{}, len(s.fields))
	for _, fld := range s.fields {
		name := fld.Name()
		declared[strings.ToLower(name)] = struct{}{}
		if name == m.name || !absent(s.data, name) {
			continue
		}
		value, ok := m.result.Meta.Get(name)
		if !ok {
			continue
		}
		if mv, ok := fld.(multiValued); ok && mv.multiValued() {
			s.data[name] = value.Interface()
		} else {
			s.data[name] = value.String()
		}
	}

	for _, key := range m.result.Meta.Keys() {
		if _, ok := declared[key]; ok || !absent(s.data, key) {
			continue
		}
		s.data[key] = m.result.Meta[key].Interface()
	}

	s.restoreFields(m.name)
}

func absent(data map[string]any, key string) bool {
	value, ok := data[key]
	if !ok || value == nil {
		return true
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		for _, item := range v {
			if strings.TrimSpace(item) != "" {
				return false
			}
		}
		return true
	case []any:
		for _, item := range v {
			if item == nil {
				continue
			}
			if str, ok := item.(string); !ok || strings.TrimSpace(str) != "" {
				return false
			}
		}
		return true
	}
	return false
}
