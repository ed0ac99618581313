package field

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/goliatone/go-mdform/pkg/markdown"
	"github.com/goliatone/go-mdform/pkg/meta"
)

// Result is the outcome of cleaning a Markdown upload.
type Result struct {
	// HTML is the rendered body with the front matter removed.
	HTML string
	// Meta holds the coerced front matter.
	Meta meta.Meta
	// Text is the decoded upload content.
	Text string
	// Body is Text without the front matter block.
	Body string
	// Filename is the uploaded file name, empty for initial values.
	Filename string
}

// Empty reports whether nothing was uploaded or carried over.
func (r Result) Empty() bool {
	return r.HTML == "" && r.Text == "" && len(r.Meta) == 0
}

// Markdown is an upload field that renders Markdown documents to HTML and
// extracts their front matter. A Markdown value is immutable once built and
// may be shared between requests.
type Markdown struct {
	required    bool
	listKeys    []string
	syntax      meta.Syntax
	converter   markdown.Converter
	engine      string
	extensions  []string
	policy      markdown.Policy
	maxSize     int64
	allowedExts []string
}

// Option configures a Markdown field.
type Option func(*Markdown)

// WithRequired toggles whether an upload must be supplied.
func WithRequired(required bool) Option {
	return func(f *Markdown) {
		f.required = required
	}
}

// WithListKeys declares tags that are parsed as comma separated lists.
func WithListKeys(keys ...string) Option {
	return func(f *Markdown) {
		for _, key := range keys {
			if key = strings.ToLower(strings.TrimSpace(key)); key != "" {
				f.listKeys = append(f.listKeys, key)
			}
		}
	}
}

// WithSyntax selects the front matter syntax.
func WithSyntax(syntax meta.Syntax) Option {
	return func(f *Markdown) {
		f.syntax = syntax
	}
}

// WithConverter injects a ready made converter. It takes precedence over
// WithEngine and WithSanitizer.
func WithConverter(converter markdown.Converter) Option {
	return func(f *Markdown) {
		f.converter = converter
	}
}

// WithEngine selects a registered Markdown engine and its extensions.
func WithEngine(name string, extensions ...string) Option {
	return func(f *Markdown) {
		f.engine = name
		f.extensions = append([]string(nil), extensions...)
	}
}

// WithSanitizer applies a bluemonday policy to the rendered HTML.
func WithSanitizer(policy markdown.Policy) Option {
	return func(f *Markdown) {
		f.policy = policy
	}
}

// WithMaxSize limits the upload size in bytes. Zero disables the check.
func WithMaxSize(size int64) Option {
	return func(f *Markdown) {
		f.maxSize = size
	}
}

// WithAllowedExtensions restricts uploads by filename extension, for example
// ".md" or "markdown". An empty list accepts any name.
func WithAllowedExtensions(exts ...string) Option {
	return func(f *Markdown) {
		for _, ext := range exts {
			ext = strings.ToLower(strings.TrimSpace(ext))
			if ext == "" {
				continue
			}
			if !strings.HasPrefix(ext, ".") {
				ext = "." + ext
			}
			f.allowedExts = append(f.allowedExts, ext)
		}
	}
}

// New builds a Markdown field. Required defaults to true.
func New(options ...Option) (*Markdown, error) {
	f := &Markdown{
		required: true,
		syntax:   meta.SyntaxMultiMarkdown,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}

	if f.converter == nil {
		converter, err := markdown.New(
			markdown.WithEngine(f.engine),
			markdown.WithExtensions(f.extensions...),
			markdown.WithSanitizer(f.policy),
		)
		if err != nil {
			return nil, fmt.Errorf("field: %w", err)
		}
		f.converter = converter
	}
	return f, nil
}

// MustNew panics when New fails.
func MustNew(options ...Option) *Markdown {
	f, err := New(options...)
	if err != nil {
		panic(err)
	}
	return f
}

// Required reports whether an upload is mandatory.
func (f *Markdown) Required() bool {
	return f.required
}

// ListKeys returns the list-typed tag names.
func (f *Markdown) ListKeys() []string {
	return append([]string(nil), f.listKeys...)
}

// AllowedExtensions returns the accepted filename extensions, dot included.
func (f *Markdown) AllowedExtensions() []string {
	return append([]string(nil), f.allowedExts...)
}

// Converter exposes the configured converter.
func (f *Markdown) Converter() markdown.Converter {
	return f.converter
}

// Clean validates upload and renders it. A nil upload is accepted when the
// field is optional and yields an empty Result.
func (f *Markdown) Clean(upload *Upload) (Result, error) {
	return f.CleanInitial(upload, "")
}

// CleanInitial behaves like Clean but falls back to initial, an already
// rendered HTML value, when nothing was uploaded.
func (f *Markdown) CleanInitial(upload *Upload, initial string) (Result, error) {
	if upload == nil {
		if initial != "" {
			return Result{HTML: initial}, nil
		}
		if f.required {
			return Result{}, NewValidationError(CodeRequired, msgRequired)
		}
		return Result{}, nil
	}

	if err := f.checkExtension(upload); err != nil {
		return Result{}, err
	}
	if f.maxSize > 0 && upload.Size > f.maxSize {
		return Result{}, f.sizeError(upload.Size)
	}

	data, err := upload.read(f.maxSize)
	if err != nil {
		return Result{}, &ValidationError{Code: CodeInvalid, Messages: []string{"The submitted file could not be read."}, Err: err}
	}
	if f.maxSize > 0 && int64(len(data)) > f.maxSize {
		return Result{}, f.sizeError(int64(len(data)))
	}
	if len(data) == 0 {
		return Result{}, NewValidationError(CodeEmpty, msgEmpty)
	}
	if !utf8.Valid(data) {
		return Result{}, NewValidationError(CodeInvalidEncoding, msgInvalidEncoding)
	}

	result, err := f.Process(string(bytes.TrimPrefix(data, []byte("\ufeff"))))
	if err != nil {
		return Result{}, err
	}
	result.Filename = upload.Filename
	return result, nil
}

// Process runs front matter extraction, tag coercion, and conversion on text
// that has already been decoded.
func (f *Markdown) Process(text string) (Result, error) {
	raw, body, err := meta.ExtractWith(f.syntax, text)
	if err != nil {
		return Result{}, &ValidationError{Code: CodeInvalidMeta, Messages: []string{err.Error()}, Err: err}
	}

	values, err := meta.Normalize(raw, f.listKeys...)
	if err != nil {
		var tagErr *meta.TagError
		if errors.As(err, &tagErr) {
			return Result{}, &ValidationError{Code: CodeListNotAllowed, Messages: []string{tagErr.Error()}, Err: err}
		}
		return Result{}, &ValidationError{Code: CodeInvalidMeta, Messages: []string{err.Error()}, Err: err}
	}

	html, err := f.converter.Convert([]byte(body))
	if err != nil {
		return Result{}, &ValidationError{Code: CodeInvalid, Messages: []string{"The document could not be converted."}, Err: err}
	}

	return Result{
		HTML: html,
		Meta: values,
		Text: text,
		Body: body,
	}, nil
}

func (f *Markdown) checkExtension(upload *Upload) error {
	if len(f.allowedExts) == 0 {
		return nil
	}
	ext := upload.Extension()
	for _, allowed := range f.allowedExts {
		if ext == allowed {
			return nil
		}
	}
	return NewValidationError(CodeInvalidExtension, fmt.Sprintf(
		"File extension %q is not allowed. Allowed extensions are: %s.",
		strings.TrimPrefix(ext, "."), strings.Join(f.allowedExts, ", "),
	))
}

func (f *Markdown) sizeError(size int64) error {
	return NewValidationError(CodeMaxSize, fmt.Sprintf(
		"Ensure this file has at most %d bytes (it has %d).", f.maxSize, size,
	))
}
