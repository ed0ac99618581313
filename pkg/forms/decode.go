package forms

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode copies the cleaned data into dst, a pointer to a struct or map.
// Struct fields are matched by their `form` tag, then by name.
func (f *Form) Decode(dst any) error {
	if !f.IsValid() {
		return ErrInvalid
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		Result:           dst,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("forms: decode: %w", err)
	}
	if err := decoder.Decode(f.cleaned); err != nil {
		return fmt.Errorf("forms: decode: %w", err)
	}
	return nil
}
