package httpapi

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/goliatone/go-mdform/internal/config"
	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/forms"
	"github.com/goliatone/go-mdform/pkg/serializer"
)

// FromConfig assembles the form, serializer, and Server described by cfg.
func FromConfig(ctx context.Context, cfg *config.Config, logger *zap.Logger, options ...Option) (*Server, error) {
	if err := cfg.Check(); err != nil {
		return nil, err
	}
	mdOptions, err := cfg.Markdown.FieldOptions()
	if err != nil {
		return nil, err
	}
	md, err := field.New(mdOptions...)
	if err != nil {
		return nil, fmt.Errorf("httpapi: markdown field: %w", err)
	}

	form, err := buildForm(cfg.Document, md)
	if err != nil {
		return nil, err
	}

	var s *serializer.MarkdownSerializer
	if cfg.Document.OpenAPI != "" {
		raw, err := os.ReadFile(cfg.Document.OpenAPI)
		if err != nil {
			return nil, fmt.Errorf("httpapi: read openapi document: %w", err)
		}
		s, err = serializer.FromOpenAPI(ctx, raw, cfg.Document.OperationID, mdOptions...)
		if err != nil {
			return nil, err
		}
	} else {
		s, err = buildSerializer(cfg.Document, md)
		if err != nil {
			return nil, err
		}
	}

	opts := []Option{
		WithLogger(logger),
		WithMaxUploadBytes(cfg.Server.MaxUploadBytes),
	}
	return New(form, s, append(opts, options...)...)
}

func buildForm(doc config.DocumentConfig, md *field.Markdown) (*forms.MarkdownForm, error) {
	fields := make([]forms.Field, 0, len(doc.Fields)+1)
	for _, fc := range doc.Fields {
		opts := []forms.FieldOption{
			forms.Required(fc.IsRequired()),
			forms.HelpText(fc.HelpText),
		}
		if fc.Label != "" {
			opts = append(opts, forms.Label(fc.Label))
		}
		switch fc.Type {
		case config.FieldList:
			fields = append(fields, forms.ListField(fc.Name, opts...))
		case config.FieldBool:
			fields = append(fields, forms.BoolField(fc.Name, opts...))
		default:
			fields = append(fields, forms.CharField(fc.Name, append(opts, forms.MaxLength(fc.MaxLength))...))
		}
	}
	fields = append(fields, forms.MarkdownField(doc.MarkdownField, md))

	form, err := forms.New(fields...)
	if err != nil {
		return nil, fmt.Errorf("httpapi: %w", err)
	}
	return forms.WithMarkdown(form, doc.MarkdownField)
}

func buildSerializer(doc config.DocumentConfig, md *field.Markdown) (*serializer.MarkdownSerializer, error) {
	fields := make([]serializer.Field, 0, len(doc.Fields)+1)
	for _, fc := range doc.Fields {
		required := serializer.Required(fc.IsRequired())
		switch fc.Type {
		case config.FieldList:
			fields = append(fields, serializer.ListField(fc.Name, required))
		case config.FieldBool:
			fields = append(fields, serializer.BoolField(fc.Name, required))
		default:
			fields = append(fields, serializer.CharField(fc.Name, required, serializer.MaxLength(fc.MaxLength)))
		}
	}
	fields = append(fields, serializer.MarkdownField(doc.MarkdownField, md))

	s, err := serializer.New(fields...)
	if err != nil {
		return nil, fmt.Errorf("httpapi: %w", err)
	}
	return serializer.WithMarkdown(s, doc.MarkdownField)
}
