package httpapi

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/forms"
	"github.com/goliatone/go-mdform/pkg/render"
	"github.com/goliatone/go-mdform/pkg/serializer"
)

const defaultMaxUploadBytes = 10 << 20

// Server exposes the Markdown form and serializer over HTTP.
type Server struct {
	form       *forms.MarkdownForm
	serializer *serializer.MarkdownSerializer
	converter  *field.Markdown

	logger         *zap.Logger
	engine         *render.Engine
	maxUploadBytes int64
	title          string
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxUploadBytes caps request bodies.
func WithMaxUploadBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxUploadBytes = n
		}
	}
}

// WithTemplateEngine overrides the engine used to render the HTML form.
func WithTemplateEngine(engine *render.Engine) Option {
	return func(s *Server) {
		s.engine = engine
	}
}

// WithTitle sets the heading of the HTML form.
func WithTitle(title string) Option {
	return func(s *Server) {
		s.title = title
	}
}

// New builds a Server. The converter used by /api/convert is the Markdown
// field of form.
func New(form *forms.MarkdownForm, s *serializer.MarkdownSerializer, options ...Option) (*Server, error) {
	if form == nil {
		return nil, errors.New("httpapi: form is nil")
	}
	if s == nil {
		return nil, errors.New("httpapi: serializer is nil")
	}
	fld, _ := form.Field(form.MarkdownName())
	md, ok := fld.(*forms.Markdown)
	if !ok {
		return nil, errors.New("httpapi: form has no markdown field")
	}

	srv := &Server{
		form:           form,
		serializer:     s,
		converter:      md.Field(),
		logger:         zap.NewNop(),
		maxUploadBytes: defaultMaxUploadBytes,
		title:          "Upload a document",
	}
	for _, opt := range options {
		if opt != nil {
			opt(srv)
		}
	}
	return srv, nil
}

// Handler returns the routed handler wrapped with request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /documents/new", s.handleNewDocument)
	mux.HandleFunc("POST /documents/new", s.handleSubmitDocument)
	mux.HandleFunc("POST /api/documents", s.handleCreateDocument)
	mux.HandleFunc("POST /api/convert", s.handleConvert)
	mux.HandleFunc("POST /api/export", s.handleExport)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return s.logRequests(mux)
}
