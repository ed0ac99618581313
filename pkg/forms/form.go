package forms

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/render"
)

// NonFieldErrors is the Errors key for messages not tied to a field.
const NonFieldErrors = render.FormErrorKey

// ErrInvalid is returned by Decode when the form did not validate.
var ErrInvalid = errors.New("forms: form is not valid")

// Validator runs after every field cleaned successfully and reports form
// level problems.
type Validator func(cleaned map[string]any) error

// Form is an ordered set of fields. An unbound Form is a reusable
// definition; Bind returns a bound copy holding one submission, so a
// definition may be shared across goroutines while bound forms may not.
type Form struct {
	fields     []Field
	index      map[string]int
	validators []Validator
	initial    map[string]any

	bound   bool
	data    url.Values
	files   map[string][]*field.Upload
	cleaned map[string]any
	errors  map[string][]string
	done    bool
	preview string

	cleaner func()
}

// New declares a form. Field names must be unique and non empty.
func New(fields ...Field) (*Form, error) {
	f := &Form{index: make(map[string]int, len(fields))}
	for _, fld := range fields {
		if fld == nil {
			return nil, errors.New("forms: field is nil")
		}
		name := fld.Name()
		if name == "" {
			return nil, errors.New("forms: field name is empty")
		}
		if _, exists := f.index[name]; exists {
			return nil, fmt.Errorf("forms: duplicate field %q", name)
		}
		f.index[name] = len(f.fields)
		f.fields = append(f.fields, fld)
	}
	return f, nil
}

// MustNew panics when New fails.
func MustNew(fields ...Field) *Form {
	f, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return f
}

// AddValidator registers a form level check. Call it on the definition
// before binding.
func (f *Form) AddValidator(v Validator) *Form {
	if v != nil {
		f.validators = append(f.validators, v)
	}
	return f
}

// Fields returns the declared fields in order.
func (f *Form) Fields() []Field {
	return append([]Field(nil), f.fields...)
}

// Field looks up a declared field by name.
func (f *Form) Field(name string) (Field, bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.fields[idx], true
}

// Bind returns a copy of the form holding data and files. The inputs are
// copied; the caller's maps are never modified.
func (f *Form) Bind(data url.Values, files map[string][]*field.Upload) *Form {
	out := f.clone()
	out.bound = true
	out.data = cloneValues(data)
	out.files = make(map[string][]*field.Upload, len(files))
	for name, uploads := range files {
		out.files[name] = append([]*field.Upload(nil), uploads...)
	}
	return out
}

// WithInitial returns a copy of the form using initial as the unbound
// values and as the fallback of file fields.
func (f *Form) WithInitial(initial map[string]any) *Form {
	out := f.clone()
	out.initial = make(map[string]any, len(initial))
	for key, value := range initial {
		out.initial[key] = value
	}
	return out
}

func (f *Form) clone() *Form {
	return &Form{
		fields:     f.fields,
		index:      f.index,
		validators: f.validators,
		initial:    f.initial,
		bound:      f.bound,
		data:       cloneValues(f.data),
		files:      f.files,
	}
}

// Initial returns a copy of the initial values.
func (f *Form) Initial() map[string]any {
	out := make(map[string]any, len(f.initial))
	for key, value := range f.initial {
		out[key] = value
	}
	return out
}

// IsBound reports whether the form holds a submission.
func (f *Form) IsBound() bool {
	return f.bound
}

// Data returns the submitted values, including any value filled in during
// cleaning.
func (f *Form) Data() url.Values {
	return cloneValues(f.data)
}

// FullClean validates every field and populates the cleaned data and error
// maps. It runs at most once per bound form.
func (f *Form) FullClean() {
	if f.done {
		return
	}
	f.done = true
	f.cleaned = make(map[string]any, len(f.fields))
	f.errors = make(map[string][]string)
	if !f.bound {
		return
	}

	if f.cleaner != nil {
		f.cleaner()
	} else {
		f.cleanFields("")
	}
	f.cleanForm()
}

func (f *Form) cleanFields(skip string) {
	for _, fld := range f.fields {
		name := fld.Name()
		if name == skip {
			continue
		}
		value, err := fld.Clean(f.input(name))
		if err != nil {
			f.errors[name] = field.Messages(err)
			continue
		}
		f.cleaned[name] = value
	}
}

func (f *Form) cleanForm() {
	if len(f.errors) > 0 {
		return
	}
	for _, validate := range f.validators {
		if err := validate(f.cleaned); err != nil {
			f.AddError("", err.Error())
		}
	}
}

func (f *Form) input(name string) Input {
	return Input{
		Values:  f.data[name],
		Files:   f.files[name],
		Initial: f.initial[name],
	}
}

// AddError records message under name, or under NonFieldErrors when name is
// empty, and drops the field's cleaned value.
func (f *Form) AddError(name, message string) {
	if f.errors == nil {
		f.errors = make(map[string][]string)
	}
	if name == "" {
		name = NonFieldErrors
	}
	f.errors[name] = append(f.errors[name], message)
	delete(f.cleaned, name)
}

// IsValid cleans the form when needed and reports whether it is bound and
// free of errors.
func (f *Form) IsValid() bool {
	f.FullClean()
	return f.bound && len(f.errors) == 0
}

// Errors returns the error messages keyed by field name.
func (f *Form) Errors() map[string][]string {
	f.FullClean()
	out := make(map[string][]string, len(f.errors))
	for name, messages := range f.errors {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

// CleanedData returns the values of every field that cleaned successfully.
func (f *Form) CleanedData() map[string]any {
	f.FullClean()
	out := make(map[string]any, len(f.cleaned))
	for name, value := range f.cleaned {
		out[name] = value
	}
	return out
}

func cloneValues(in url.Values) url.Values {
	out := make(url.Values, len(in))
	for key, values := range in {
		out[key] = append([]string(nil), values...)
	}
	return out
}

// formatInitial renders an initial value as submitted strings.
func formatInitial(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return append([]string(nil), v...)
	case bool:
		return []string{strconv.FormatBool(v)}
	case fmt.Stringer:
		return []string{v.String()}
	default:
		return []string{strings.TrimSpace(fmt.Sprint(v))}
	}
}
