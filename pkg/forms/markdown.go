package forms

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/meta"
)

// MarkdownForm is a Form whose Markdown upload populates the other fields
// from its front matter. Values submitted by the user always win; metadata
// only fills fields that were left empty.
type MarkdownForm struct {
	*Form

	name   string
	field  *Markdown
	result field.Result
}

// WithMarkdown wraps form around the Markdown field called name.
func WithMarkdown(form *Form, name string) (*MarkdownForm, error) {
	if form == nil {
		return nil, errors.New("forms: form is nil")
	}
	fld, ok := form.Field(name)
	if !ok {
		return nil, fmt.Errorf("forms: unknown field %q", name)
	}
	md, ok := fld.(*Markdown)
	if !ok {
		return nil, fmt.Errorf("forms: field %q is %T, not a Markdown field", name, fld)
	}
	return attach(form.clone(), name, md), nil
}

// MustMarkdown panics when WithMarkdown fails.
func MustMarkdown(form *Form, name string) *MarkdownForm {
	m, err := WithMarkdown(form, name)
	if err != nil {
		panic(err)
	}
	return m
}

func attach(form *Form, name string, md *Markdown) *MarkdownForm {
	m := &MarkdownForm{Form: form, name: name, field: md}
	form.cleaner = m.clean
	return m
}

// Bind returns a bound copy of the Markdown form.
func (m *MarkdownForm) Bind(data url.Values, files map[string][]*field.Upload) *MarkdownForm {
	return attach(m.Form.Bind(data, files), m.name, m.field)
}

// WithInitial returns a copy using initial as the unbound values.
func (m *MarkdownForm) WithInitial(initial map[string]any) *MarkdownForm {
	return attach(m.Form.WithInitial(initial), m.name, m.field)
}

// MarkdownName is the name of the Markdown field.
func (m *MarkdownForm) MarkdownName() string {
	return m.name
}

// Meta returns the front matter of the cleaned upload.
func (m *MarkdownForm) Meta() meta.Meta {
	m.FullClean()
	return m.result.Meta
}

// Result returns the full outcome of cleaning the upload.
func (m *MarkdownForm) Result() field.Result {
	m.FullClean()
	return m.result
}

func (m *MarkdownForm) clean() {
	f := m.Form

	result, err := m.field.CleanResult(f.input(m.name))
	if err != nil {
		f.errors[m.name] = field.Messages(err)
		delete(f.cleaned, m.name)
	} else {
		m.result = result
		f.cleaned[m.name] = result.HTML
		f.preview = result.HTML
	}

	for _, fld := range f.fields {
		name := fld.Name()
		if name == m.name || !isBlank(f.data[name]) {
			continue
		}
		value, ok := m.result.Meta.Get(name)
		if !ok {
			continue
		}
		if mv, ok := fld.(multiValued); ok && mv.multiValued() {
			f.data[name] = value.Strings()
		} else {
			f.data[name] = []string{value.String()}
		}
	}

	f.cleanFields(m.name)
}

func isBlank(values []string) bool {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return false
		}
	}
	return true
}
