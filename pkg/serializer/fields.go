package serializer

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-mdform/pkg/field"
)

const (
	msgRequired  = "This field is required."
	msgMaxLength = "Ensure this field has no more than %d characters."
	msgInvalid   = "Invalid value."
)

// Field converts between native payload values and validated data.
//
// Restore reads the field from data or files. ok is false when the field is
// absent and optional, in which case it is left out of the validated data.
type Field interface {
	Name() string
	Restore(data map[string]any, files map[string]*field.Upload) (value any, ok bool, err error)
	ToNative(value any) any
}

// multiValued is implemented by fields whose metadata should stay a list.
type multiValued interface {
	multiValued() bool
}

// FieldOption configures the shared attributes of a field.
type FieldOption func(*base)

type base struct {
	name      string
	required  bool
	maxLength int
}

// Required toggles whether the field must be present.
func Required(required bool) FieldOption {
	return func(b *base) {
		b.required = required
	}
}

// MaxLength limits the length of a string value.
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
	return b
}

func (b base) Name() string { return b.name }

// Required reports whether the field must be present.
func (b base) Required() bool { return b.required }

func (b base) missing() (any, bool, error) {
	if b.required {
		return nil, false, field.NewValidationError(field.CodeRequired, msgRequired)
	}
	return nil, false, nil
}

// Char restores a string.
type Char struct {
	base
}

// CharField declares a required string field.
func CharField(name string, options ...FieldOption) *Char {
	return &Char{base: newBase(name, true, options)}
}

func (f *Char) Restore(data map[string]any, _ map[string]*field.Upload) (any, bool, error) {
	raw, ok := data[f.name]
	if !ok || raw == nil {
		return f.missing()
	}
	value, err := toString(raw)
	if err != nil {
		return nil, false, err
	}
	if value == "" {
		return f.missing()
	}
	if f.maxLength > 0 && utf8.RuneCountInString(value) > f.maxLength {
		return nil, false, field.NewValidationError(field.CodeMaxLength, fmt.Sprintf(msgMaxLength, f.maxLength))
	}
	return value, true, nil
}

func (f *Char) ToNative(value any) any {
	return value
}

// List restores a list of strings from an array or a comma separated string.
type List struct {
	base
}

// ListField declares a required list field.
func ListField(name string, options ...FieldOption) *List {
	return &List{base: newBase(name, true, options)}
}

func (f *List) Restore(data map[string]any, _ map[string]*field.Upload) (any, bool, error) {
	raw, ok := data[f.name]
	if !ok || raw == nil {
		return f.missing()
	}
	var items []string
	switch v := raw.(type) {
	case []string:
		items = splitItems(v)
	case []any:
		values := make([]string, 0, len(v))
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return nil, false, err
			}
			values = append(values, s)
		}
		items = splitItems(values)
	default:
		s, err := toString(v)
		if err != nil {
			return nil, false, err
		}
		items = splitItems([]string{s})
	}
	if len(items) == 0 {
		if f.required {
			return nil, false, field.NewValidationError(field.CodeRequired, msgRequired)
		}
		return []string{}, true, nil
	}
	return items, true, nil
}

func (f *List) ToNative(value any) any {
	return value
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

// Bool restores a boolean from JSON booleans, numbers, or form strings.
type Bool struct {
	base
}

// BoolField declares an optional boolean field.
func BoolField(name string, options ...FieldOption) *Bool {
	return &Bool{base: newBase(name, false, options)}
}

func (f *Bool) Restore(data map[string]any, _ map[string]*field.Upload) (any, bool, error) {
	raw, ok := data[f.name]
	if !ok || raw == nil {
		return f.missing()
	}
	switch v := raw.(type) {
	case bool:
		return v, true, nil
	case float64:
		return v != 0, true, nil
	case int:
		return v != 0, true, nil
	case []string:
		if len(v) == 0 {
			return f.missing()
		}
		raw = v[len(v)-1]
	}
	s, err := toString(raw)
	if err != nil {
		return nil, false, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "on", "yes", "y":
		return true, true, nil
	case "", "false", "0", "off", "no", "n":
		return false, true, nil
	default:
		return nil, false, field.NewValidationError(field.CodeInvalid, msgInvalid)
	}
}

func (f *Bool) ToNative(value any) any {
	return value
}

// Markdown restores an uploaded document into its rendered HTML. ToNative
// returns the HTML unchanged.
type Markdown struct {
	base
	field *field.Markdown
}

// MarkdownField declares an upload field backed by md.
func MarkdownField(name string, md *field.Markdown, options ...FieldOption) *Markdown {
	if md == nil {
		md = field.MustNew()
	}
	return &Markdown{base: newBase(name, md.Required(), options), field: md}
}

// Field returns the underlying Markdown field.
func (f *Markdown) Field() *field.Markdown {
	return f.field
}

func (f *Markdown) Restore(_ map[string]any, files map[string]*field.Upload) (any, bool, error) {
	result, ok, err := f.RestoreResult(files)
	if err != nil || !ok {
		return nil, ok, err
	}
	return result.HTML, true, nil
}

// RestoreResult cleans the uploaded file and returns the whole result.
func (f *Markdown) RestoreResult(files map[string]*field.Upload) (field.Result, bool, error) {
	upload := files[f.name]
	if upload == nil && !f.required {
		return field.Result{}, false, nil
	}
	result, err := f.field.Clean(upload)
	if err != nil {
		return field.Result{}, false, err
	}
	return result, true, nil
}

func (f *Markdown) ToNative(value any) any {
	return value
}

func toString(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case []string:
		return strings.Join(v, ", "), nil
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			s, err := toString(item)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		return strings.Join(parts, ", "), nil
	case bool:
		return strconv.FormatBool(v), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(v), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", field.NewValidationError(field.CodeInvalid, msgInvalid)
	}
}
