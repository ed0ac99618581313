package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

var goldmarkExtensions = map[string]goldmark.Extender{
	"tables":         extension.Table,
	"table":          extension.Table,
	"strikethrough":  extension.Strikethrough,
	"linkify":        extension.Linkify,
	"autolink":       extension.Linkify,
	"tasklist":       extension.TaskList,
	"gfm":            extension.GFM,
	"definitionlist": extension.DefinitionList,
	"footnote":       extension.Footnote,
	"footnotes":      extension.Footnote,
	"typographer":    extension.Typographer,
	"cjk":            extension.CJK,
}

type goldmarkConverter struct {
	md goldmark.Markdown
}

// NewGoldmark builds a goldmark-backed converter. Besides the extension names
// in goldmarkExtensions it accepts the renderer flags "hardwraps", "xhtml",
// and "unsafe" plus the parser flags "autoheadingid" and "attribute".
func NewGoldmark(extensions ...string) (Converter, error) {
	var (
		exts         []goldmark.Extender
		parserOpts   []parser.Option
		rendererOpts []renderer.Option
	)
	seen := make(map[string]struct{}, len(extensions))

	for _, raw := range extensions {
		name := normalizeExtension(raw)
		if _, dup := seen[name]; dup || name == "" {
			continue
		}
		seen[name] = struct{}{}

		if _, ok := alwaysOn[name]; ok {
			continue
		}
		if ext, ok := goldmarkExtensions[name]; ok {
			exts = append(exts, ext)
			continue
		}
		switch name {
		case "hardwraps", "nl2br":
			rendererOpts = append(rendererOpts, html.WithHardWraps())
		case "xhtml":
			rendererOpts = append(rendererOpts, html.WithXHTML())
		case "unsafe", "rawhtml":
			rendererOpts = append(rendererOpts, html.WithUnsafe())
		case "autoheadingid", "toc":
			parserOpts = append(parserOpts, parser.WithAutoHeadingID())
		case "attribute", "attrlist":
			parserOpts = append(parserOpts, parser.WithAttribute())
		default:
			return nil, unknownExtension("goldmark", raw)
		}
	}

	md := goldmark.New(
		goldmark.WithExtensions(exts...),
		goldmark.WithParserOptions(parserOpts...),
		goldmark.WithRendererOptions(rendererOpts...),
	)
	return &goldmarkConverter{md: md}, nil
}

func (c *goldmarkConverter) Name() string {
	return "goldmark"
}

func (c *goldmarkConverter) Convert(src []byte) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert(src, &buf); err != nil {
		return "", fmt.Errorf("markdown: goldmark convert: %w", err)
	}
	return trimOutput(buf.Bytes()), nil
}
