package config

import (
	"fmt"

	"go.uber.org/zap/zapcore"

	"github.com/goliatone/go-mdform/pkg/markdown"
	"github.com/goliatone/go-mdform/pkg/meta"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Server
	if c.Server.Addr == "" {
		errors = append(errors, ValidationError{Field: "server.addr", Message: "listen address is required"})
	}
	if c.Server.MaxUploadBytes < 1 {
		errors = append(errors, ValidationError{Field: "server.max_upload_bytes", Message: "max_upload_bytes must be positive"})
	}
	if c.Server.ShutdownTimeout < 0 {
		errors = append(errors, ValidationError{Field: "server.shutdown_timeout", Message: "shutdown_timeout must not be negative"})
	}

	// Logging
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errors = append(errors, ValidationError{Field: "log.level", Message: fmt.Sprintf("unknown level %q", c.Log.Level)})
	}

	// Markdown
	if !markdown.DefaultRegistry().Has(c.Markdown.Engine) {
		errors = append(errors, ValidationError{
			Field:   "markdown.engine",
			Message: fmt.Sprintf("unknown engine %q (available: %v)", c.Markdown.Engine, markdown.DefaultRegistry().List()),
		})
	} else if _, err := markdown.New(markdown.WithEngine(c.Markdown.Engine), markdown.WithExtensions(c.Markdown.Extensions...)); err != nil {
		errors = append(errors, ValidationError{Field: "markdown.extensions", Message: err.Error()})
	}
	if _, err := markdown.ParsePolicy(c.Markdown.Sanitize); err != nil {
		errors = append(errors, ValidationError{Field: "markdown.sanitize", Message: err.Error()})
	}
	if _, err := meta.ParseSyntax(c.Markdown.Syntax); err != nil {
		errors = append(errors, ValidationError{Field: "markdown.syntax", Message: err.Error()})
	}
	if c.Markdown.MaxSize < 0 {
		errors = append(errors, ValidationError{Field: "markdown.max_size", Message: "max_size must not be negative"})
	}

	// Document
	seen := map[string]bool{c.Document.MarkdownField: true}
	for i, field := range c.Document.Fields {
		path := fmt.Sprintf("document.fields[%d]", i)
		if field.Name == "" {
			errors = append(errors, ValidationError{Field: path + ".name", Message: "name is required"})
			continue
		}
		if seen[field.Name] {
			errors = append(errors, ValidationError{Field: path + ".name", Message: fmt.Sprintf("duplicate field %q", field.Name)})
		}
		seen[field.Name] = true
		switch field.Type {
		case FieldChar, FieldList, FieldBool:
		default:
			errors = append(errors, ValidationError{Field: path + ".type", Message: fmt.Sprintf("unknown type %q", field.Type)})
		}
		if field.MaxLength < 0 {
			errors = append(errors, ValidationError{Field: path + ".max_length", Message: "max_length must not be negative"})
		}
	}
	if c.Document.OpenAPI != "" && c.Document.OperationID == "" {
		errors = append(errors, ValidationError{Field: "document.operation_id", Message: "operation_id is required with openapi"})
	}

	return errors
}
