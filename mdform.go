// Package mdform bundles the common entry points for converting Markdown
// documents with front matter. The subpackages hold the full API: pkg/field
// for the upload field, pkg/forms and pkg/serializer for the two integration
// styles, pkg/meta and pkg/markdown for the building blocks.
package mdform

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goliatone/go-mdform/pkg/field"
)

// Result aliases field.Result for callers that only need the root package.
type Result = field.Result

// Convert renders text and extracts its front matter using a Markdown field
// built from options. It is the simplest entry point for callers that just
// want HTML and metadata.
func Convert(text string, options ...field.Option) (Result, error) {
	f, err := field.New(options...)
	if err != nil {
		return Result{}, err
	}
	return f.Process(text)
}

// ConvertFile reads path and cleans it as an upload, so the allowed
// extensions and size limits configured by options apply.
func ConvertFile(path string, options ...field.Option) (Result, error) {
	f, err := field.New(options...)
	if err != nil {
		return Result{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, fmt.Errorf("mdform: read %s: %w", path, err)
	}
	return f.Clean(field.FromBytes(filepath.Base(path), data))
}
