package field

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"
)

// Upload describes an uploaded document. The content can be opened more than
// once, so a single upload may be cleaned by several forms.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64

	open func() (io.ReadCloser, error)
}

// FromBytes wraps in-memory content, mirroring a simple uploaded file.
func FromBytes(filename string, data []byte) *Upload {
	clone := append([]byte(nil), data...)
	return &Upload{
		Filename: filename,
		Size:     int64(len(clone)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(clone)), nil
		},
	}
}

// FromString is FromBytes for string content.
func FromString(filename, text string) *Upload {
	return FromBytes(filename, []byte(text))
}

// FromReader buffers r so the upload can be reopened.
func FromReader(filename string, r io.Reader) (*Upload, error) {
	if r == nil {
		return nil, errors.New("field: reader is nil")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("field: read upload %q: %w", filename, err)
	}
	return FromBytes(filename, data), nil
}

// FromFileHeader adapts a multipart file header from an HTTP request.
func FromFileHeader(header *multipart.FileHeader) *Upload {
	if header == nil {
		return nil
	}
	return &Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		open: func() (io.ReadCloser, error) {
			return header.Open()
		},
	}
}

// FromMultipart adapts every file header in a multipart form, keyed by field
// name.
func FromMultipart(form *multipart.Form) map[string][]*Upload {
	if form == nil || len(form.File) == 0 {
		return nil
	}
	out := make(map[string][]*Upload, len(form.File))
	for name, headers := range form.File {
		for _, header := range headers {
			if upload := FromFileHeader(header); upload != nil {
				out[name] = append(out[name], upload)
			}
		}
	}
	return out
}

// Open returns a fresh reader over the upload content.
func (u *Upload) Open() (io.ReadCloser, error) {
	if u == nil || u.open == nil {
		return nil, errors.New("field: upload has no content")
	}
	return u.open()
}

// Extension returns the lowercased filename extension including the dot.
func (u *Upload) Extension() string {
	if u == nil {
		return ""
	}
	name := u.Filename
	if idx := strings.LastIndexAny(name, `/\`); idx >= 0 {
		name = name[idx+1:]
	}
	idx := strings.LastIndex(name, ".")
	if idx <= 0 {
		return ""
	}
	return strings.ToLower(name[idx:])
}

// read loads at most limit+1 bytes when limit is positive so oversized
// uploads are detected without buffering them completely.
func (u *Upload) read(limit int64) ([]byte, error) {
	rc, err := u.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	var r io.Reader = rc
	if limit > 0 {
		r = io.LimitReader(rc, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("field: read upload %q: %w", u.Filename, err)
	}
	return data, nil
}
