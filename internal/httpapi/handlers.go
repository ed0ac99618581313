package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/markdown"
	"github.com/goliatone/go-mdform/pkg/meta"
	"github.com/goliatone/go-mdform/pkg/render"
)

const (
	formPath        = "/documents/new"
	defaultFilename = "document.md"
)

func (s *Server) renderOptions() render.Options {
	return render.Options{
		Title:  s.title,
		Action: formPath,
		Submit: "Upload",
		Engine: s.engine,
	}
}

func (s *Server) handleNewDocument(w http.ResponseWriter, _ *http.Request) {
	var buf bytes.Buffer
	if err := s.form.RenderWith(&buf, s.renderOptions()); err != nil {
		s.internalError(w, "render form", err)
		return
	}
	s.writeHTML(w, http.StatusOK, buf.Bytes())
}

func (s *Server) handleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.bodyError(w, err)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	bound := s.form.Bind(r.PostForm, field.FromMultipart(r.MultipartForm))
	if !bound.IsValid() {
		var buf bytes.Buffer
		if err := bound.RenderWith(&buf, s.renderOptions()); err != nil {
			s.internalError(w, "render form", err)
			return
		}
		s.writeHTML(w, http.StatusUnprocessableEntity, buf.Bytes())
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"data": bound.CleanedData(),
		"meta": bound.Meta().Map(),
	})
}

func (s *Server) handleCreateDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	data, files, err := s.parsePayload(r)
	if err != nil {
		s.bodyError(w, err)
		return
	}

	bound := s.serializer.Bind(data, files)
	if !bound.IsValid() {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": bound.Errors()})
		return
	}
	s.writeJSON(w, http.StatusCreated, bound.Data())
}

// parsePayload accepts JSON objects, multipart forms, and urlencoded forms.
// A JSON string under the Markdown field name is treated as the document
// text.
func (s *Server) parsePayload(r *http.Request) (map[string]any, map[string]*field.Upload, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	files := make(map[string]*field.Upload)

	if mediaType == "application/json" {
		var data map[string]any
		if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
			return nil, nil, fmt.Errorf("decode json: %w", err)
		}
		name := s.serializer.MarkdownName()
		if text, ok := data[name].(string); ok {
			files[name] = field.FromString(defaultFilename, text)
			delete(data, name)
		}
		return data, files, nil
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, nil, err
	}
	data := make(map[string]any, len(r.PostForm))
	for key, values := range r.PostForm {
		switch len(values) {
		case 0:
		case 1:
			data[key] = values[0]
		default:
			data[key] = values
		}
	}
	for name, uploads := range field.FromMultipart(r.MultipartForm) {
		if n := len(uploads); n > 0 {
			files[name] = uploads[n-1]
		}
	}
	return data, files, nil
}

func (s *Server) handleConvert(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.bodyError(w, err)
		return
	}

	filename := strings.TrimSpace(r.URL.Query().Get("filename"))
	if filename == "" {
		filename = defaultFilename
	}
	result, err := s.converter.Clean(field.FromBytes(filename, body))
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string][]string{"markdown": field.Messages(err)},
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"meta": result.Meta.Map(),
		"html": result.HTML,
	})
}

type exportRequest struct {
	Meta   map[string]any `json:"meta"`
	HTML   string         `json:"html"`
	Format string         `json:"format"`
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.bodyError(w, fmt.Errorf("decode json: %w", err))
		return
	}

	values, err := meta.FromMap(req.Meta)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string][]string{"meta": {err.Error()}}})
		return
	}
	body, err := markdown.ToMarkdown(req.HTML)
	if err != nil {
		s.writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string][]string{"html": {err.Error()}}})
		return
	}

	var document string
	switch strings.ToLower(strings.TrimSpace(req.Format)) {
	case "", "multimarkdown":
		document = meta.Format(values, body)
	case "yaml":
		document, err = meta.FormatYAML(values, body)
		if err != nil {
			s.internalError(w, "format yaml", err)
			return
		}
	default:
		s.writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": map[string][]string{"format": {fmt.Sprintf("unknown format %q", req.Format)}},
		})
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, document); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) bodyError(w http.ResponseWriter, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		http.Error(w, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit), http.StatusRequestEntityTooLarge)
		return
	}
	http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
}

func (s *Server) internalError(w http.ResponseWriter, what string, err error) {
	s.logger.Error(what, zap.Error(err))
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func (s *Server) writeHTML(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Warn("write response", zap.Error(err))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Warn("write json response", zap.Error(err))
	}
}
