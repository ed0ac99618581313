package forms

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/render"
)

const (
	msgRequired  = "This field is required."
	msgMaxLength = "Ensure this value has at most %d characters (it has %d)."
)

// Input is the raw submission for one field.
type Input struct {
	Values  []string
	Files   []*field.Upload
	Initial any
}

// Field is a named form field. Clean converts the raw input into a Go value
// or returns a *field.ValidationError.
type Field interface {
	Name() string
	Clean(in Input) (any, error)
	View(values []string) render.FieldView
}

// multiValued is implemented by fields that accept repeated values, so
// list tags are expanded rather than joined.
type multiValued interface {
	multiValued() bool
}

// FieldOption configures the common attributes of a field.
type FieldOption func(*base)

type base struct {
	name      string
	label     string
	help      string
	required  bool
	maxLength int
}

// Required toggles whether a value must be supplied.
func Required(required bool) FieldOption {
	return func(b *base) {
		b.required = required
	}
}

// Label overrides the label derived from the field name.
func Label(label string) FieldOption {
	return func(b *base) {
		b.label = strings.TrimSpace(label)
	}
}

// HelpText sets the hint rendered below the input.
func HelpText(text string) FieldOption {
	return func(b *base) {
		b.help = strings.TrimSpace(text)
	}
}

// MaxLength limits the number of characters of a text value.
func MaxLength(n int) FieldOption {
	return func(b *base) {
		b.maxLength = n
	}
}

func newBase(name string, required bool, options []FieldOption) base {
	b := base{name: strings.TrimSpace(name), required: required}
	for _, opt := range options {
		if opt != nil {
			opt(&b)
		}
	}
	if b.label == "" {
		b.label = prettyName(b.name)
	}
	return b
}

func (b base) Name() string { return b.name }

func (b base) view(kind string) render.FieldView {
	return render.FieldView{
		Name:      b.name,
		ID:        "id_" + b.name,
		Label:     b.label,
		Type:      kind,
		Required:  b.required,
		MaxLength: b.maxLength,
		HelpText:  b.help,
	}
}

// prettyName turns "pub_date" into "Pub date".
func prettyName(name string) string {
	name = strings.TrimSpace(strings.ReplaceAll(name, "_", " "))
	if name == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r)) + name[size:]
}

// Char is a single line text field.
type Char struct {
	base
}

// CharField declares a required text field.
func CharField(name string, options ...FieldOption) *Char {
	return &Char{base: newBase(name, true, options)}
}

// Clean keeps the last submitted value, trimmed.
func (f *Char) Clean(in Input) (any, error) {
	value := ""
	if n := len(in.Values); n > 0 {
		value = strings.TrimSpace(in.Values[n-1])
	}
	if value == "" {
		if f.required {
			return nil, field.NewValidationError(field.CodeRequired, msgRequired)
		}
		return "", nil
	}
	if f.maxLength > 0 {
		if count := utf8.RuneCountInString(value); count > f.maxLength {
			return nil, field.NewValidationError(field.CodeMaxLength, fmt.Sprintf(msgMaxLength, f.maxLength, count))
		}
	}
	return value, nil
}

func (f *Char) View(values []string) render.FieldView {
	view := f.view("text")
	if n := len(values); n > 0 {
		view.Value = values[n-1]
	}
	return view
}

// List is a text field holding comma separated items. Repeated values are
// concatenated.
type List struct {
	base
}

// ListField declares a required list field.
func ListField(name string, options ...FieldOption) *List {
	return &List{base: newBase(name, true, options)}
}

// Clean splits every value on commas and drops empty items.
func (f *List) Clean(in Input) (any, error) {
	items := splitItems(in.Values)
	if len(items) == 0 {
		if f.required {
			return nil, field.NewValidationError(field.CodeRequired, msgRequired)
		}
		return []string{}, nil
	}
	return items, nil
}

func (f *List) View(values []string) render.FieldView {
	view := f.view("text")
	view.Value = strings.Join(splitItems(values), ", ")
	return view
}

func (f *List) multiValued() bool { return true }

func splitItems(values []string) []string {
	var items []string
	for _, value := range values {
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				items = append(items, part)
			}
		}
	}
	return items
}

// Bool is a checkbox. When Required is set the box must be checked.
type Bool struct {
	base
}

// BoolField declares an optional checkbox.
func BoolField(name string, options ...FieldOption) *Bool {
	return &Bool{base: newBase(name, false, options)}
}

func (f *Bool) Clean(in Input) (any, error) {
	value := false
	if n := len(in.Values); n > 0 {
		value = parseBool(in.Values[n-1])
	}
	if !value && f.required {
		return nil, field.NewValidationError(field.CodeRequired, msgRequired)
	}
	return value, nil
}

func (f *Bool) View(values []string) render.FieldView {
	view := f.view("checkbox")
	if n := len(values); n > 0 {
		view.Checked = parseBool(values[n-1])
	}
	return view
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "false", "0", "off", "no":
		return false
	default:
		return true
	}
}

// Markdown is a file field backed by a field.Markdown. Its cleaned value is
// the rendered HTML.
type Markdown struct {
	base
	field *field.Markdown
}

// MarkdownField declares an upload field. Whether it is required follows
// the underlying field.Markdown.
func MarkdownField(name string, md *field.Markdown, options ...FieldOption) *Markdown {
	if md == nil {
		md = field.MustNew()
	}
	return &Markdown{
		base:  newBase(name, md.Required(), options),
		field: md,
	}
}

// Field returns the underlying Markdown field.
func (f *Markdown) Field() *field.Markdown {
	return f.field
}

func (f *Markdown) Clean(in Input) (any, error) {
	result, err := f.CleanResult(in)
	if err != nil {
		return nil, err
	}
	return result.HTML, nil
}

// CleanResult cleans the last uploaded file, falling back to the initial
// HTML when nothing was uploaded.
func (f *Markdown) CleanResult(in Input) (field.Result, error) {
	var upload *field.Upload
	if n := len(in.Files); n > 0 {
		upload = in.Files[n-1]
	}
	initial, _ := in.Initial.(string)
	return f.field.CleanInitial(upload, initial)
}

func (f *Markdown) View(_ []string) render.FieldView {
	view := f.view("file")
	view.Accept = strings.Join(f.field.AllowedExtensions(), ",")
	return view
}
