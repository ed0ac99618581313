package serializer

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/goliatone/go-mdform/pkg/field"
)

// NonFieldErrors is the Errors key for messages not tied to a field.
const NonFieldErrors = "non_field_errors"

// ErrInvalid is returned by Decode when validation failed.
var ErrInvalid = errors.New("serializer: data is not valid")

// Validator runs once every field restored without errors.
type Validator func(validated map[string]any) error

// Serializer restores a payload through an ordered set of fields. Like
// forms.Form, an unbound Serializer is a reusable definition and Bind
// returns a per request copy.
type Serializer struct {
	fields     []Field
	index      map[string]int
	validators []Validator

	bound     bool
	data      map[string]any
	files     map[string]*field.Upload
	validated map[string]any
	errors    map[string][]string
	done      bool

	restorer func()
}

// New declares a serializer. Field names must be unique and non empty.
func New(fields ...Field) (*Serializer, error) {
	s := &Serializer{index: make(map[string]int, len(fields))}
	for _, fld := range fields {
		if fld == nil {
			return nil, errors.New("serializer: field is nil")
		}
		name := fld.Name()
		if name == "" {
			return nil, errors.New("serializer: field name is empty")
		}
		if _, exists := s.index[name]; exists {
			return nil, fmt.Errorf("serializer: duplicate field %q", name)
		}
		s.index[name] = len(s.fields)
		s.fields = append(s.fields, fld)
	}
	return s, nil
}

// MustNew panics when New fails.
func MustNew(fields ...Field) *Serializer {
	s, err := New(fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// AddValidator registers an object level check on the definition.
func (s *Serializer) AddValidator(v Validator) *Serializer {
	if v != nil {
		s.validators = append(s.validators, v)
	}
	return s
}

// Fields returns the declared fields in order.
func (s *Serializer) Fields() []Field {
	return append([]Field(nil), s.fields...)
}

// Field looks up a declared field.
func (s *Serializer) Field(name string) (Field, bool) {
	idx, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.fields[idx], true
}

// Bind returns a copy of the serializer holding data and files. Both maps
// are copied.
func (s *Serializer) Bind(data map[string]any, files map[string]*field.Upload) *Serializer {
	out := s.clone()
	out.bound = true
	out.data = make(map[string]any, len(data))
	out.files = make(map[string]*field.Upload, len(files))
	for key, value := range data {
		out.data[key] = value
	}
	for key, upload := range files {
		out.files[key] = upload
	}
	return out
}

func (s *Serializer) clone() *Serializer {
	out := &Serializer{
		fields:     s.fields,
		index:      s.index,
		validators: s.validators,
		bound:      s.bound,
		files:      s.files,
	}
	if s.data != nil {
		out.data = make(map[string]any, len(s.data))
		for key, value := range s.data {
			out.data[key] = value
		}
	}
	return out
}

// IsValid restores the payload when needed and reports whether it is bound
// and error free.
func (s *Serializer) IsValid() bool {
	s.restore()
	return s.bound && len(s.errors) == 0
}

func (s *Serializer) restore() {
	if s.done {
		return
	}
	s.done = true
	s.validated = make(map[string]any, len(s.fields))
	s.errors = make(map[string][]string)
	if !s.bound {
		return
	}

	if s.restorer != nil {
		s.restorer()
	} else {
		s.restoreFields("")
	}

	if len(s.errors) > 0 {
		return
	}
	for _, validate := range s.validators {
		if err := validate(s.validated); err != nil {
			s.errors[NonFieldErrors] = append(s.errors[NonFieldErrors], err.Error())
		}
	}
}

func (s *Serializer) restoreFields(skip string) {
	for _, fld := range s.fields {
		name := fld.Name()
		if name == skip {
			continue
		}
		value, ok, err := fld.Restore(s.data, s.files)
		if err != nil {
			s.errors[name] = field.Messages(err)
			continue
		}
		if ok {
			s.validated[name] = value
		}
	}
}

// Errors returns the error messages keyed by field name.
func (s *Serializer) Errors() map[string][]string {
	s.restore()
	out := make(map[string][]string, len(s.errors))
	for name, messages := range s.errors {
		out[name] = append([]string(nil), messages...)
	}
	return out
}

// ValidatedData returns the restored values.
func (s *Serializer) ValidatedData() map[string]any {
	s.restore()
	out := make(map[string]any, len(s.validated))
	for name, value := range s.validated {
		out[name] = value
	}
	return out
}

// Data returns the native representation of the validated values, suitable
// for a JSON response.
func (s *Serializer) Data() map[string]any {
	s.restore()
	out := make(map[string]any, len(s.validated))
	for _, fld := range s.fields {
		if value, ok := s.validated[fld.Name()]; ok {
			out[fld.Name()] = fld.ToNative(value)
		}
	}
	return out
}

// Decode copies the validated data into dst, matching `json` tags.
func (s *Serializer) Decode(dst any) error {
	if !s.IsValid() {
		return ErrInvalid
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("serializer: decode: %w", err)
	}
	if err := decoder.Decode(s.validated); err != nil {
		return fmt.Errorf("serializer: decode: %w", err)
	}
	return nil
}
