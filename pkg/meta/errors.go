package meta

import "fmt"

// TagError reports a tag that holds several values while the field expects a
// single string.
type TagError struct {
	Key string
}

func (e *TagError) Error() string {
	return fmt.Sprintf("%s can't be a list", e.Key)
}

// SyntaxError reports front matter that could not be decoded, or a tag that
// cannot be written as a key line.
type SyntaxError struct {
	Key string
	Err error
}

func (e *SyntaxError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("meta: front matter key %q: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("meta: front matter: %v", e.Err)
}

func (e *SyntaxError) Unwrap() error {
	return e.Err
}
