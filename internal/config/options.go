package config

import (
	"fmt"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/markdown"
	"github.com/goliatone/go-mdform/pkg/meta"
)

// FieldOptions translates the markdown section into field.Markdown options.
func (c MarkdownConfig) FieldOptions() ([]field.Option, error) {
	policy, err := markdown.ParsePolicy(c.Sanitize)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	syntax, err := meta.ParseSyntax(c.Syntax)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return []field.Option{
		field.WithEngine(c.Engine, c.Extensions...),
		field.WithSanitizer(policy),
		field.WithSyntax(syntax),
		field.WithListKeys(c.ListKeys...),
		field.WithAllowedExtensions(c.AllowedExtensions...),
		field.WithMaxSize(c.MaxSize),
	}, nil
}
