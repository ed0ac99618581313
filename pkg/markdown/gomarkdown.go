package markdown

import (
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	mdparser "github.com/gomarkdown/markdown/parser"
)

const gomarkdownBaseExtensions = mdparser.NoIntraEmphasis | mdparser.FencedCode | mdparser.SpaceHeadings

var gomarkdownExtensions = map[string]mdparser.Extensions{
	"tables":         mdparser.Tables,
	"table":          mdparser.Tables,
	"strikethrough":  mdparser.Strikethrough,
	"linkify":        mdparser.Autolink,
	"autolink":       mdparser.Autolink,
	"footnote":       mdparser.Footnotes,
	"footnotes":      mdparser.Footnotes,
	"definitionlist": mdparser.DefinitionLists,
	"hardwraps":      mdparser.HardLineBreak,
	"nl2br":          mdparser.HardLineBreak,
	"autoheadingid":  mdparser.AutoHeadingIDs,
	"toc":            mdparser.AutoHeadingIDs,
	"mathjax":        mdparser.MathJax,
	"attribute":      mdparser.Attributes,
	"gfm":            mdparser.CommonExtensions,
	"common":         mdparser.CommonExtensions,
}

type gomarkdownConverter struct {
	extensions mdparser.Extensions
	flags      mdhtml.Flags
}

// NewGomarkdown builds a converter backed by github.com/gomarkdown/markdown.
// The renderer flags "xhtml", "targetblank", and "skiphtml" are accepted next
// to the parser extensions.
func NewGomarkdown(extensions ...string) (Converter, error) {
	converter := &gomarkdownConverter{
		extensions: gomarkdownBaseExtensions,
		flags:      mdhtml.CommonFlags,
	}
	for _, raw := range extensions {
		name := normalizeExtension(raw)
		if name == "" {
			continue
		}
		if _, ok := alwaysOn[name]; ok {
			continue
		}
		if ext, ok := gomarkdownExtensions[name]; ok {
			converter.extensions |= ext
			continue
		}
		switch name {
		case "xhtml":
			converter.flags |= mdhtml.UseXHTML
		case "targetblank":
			converter.flags |= mdhtml.HrefTargetBlank
		case "skiphtml":
			converter.flags |= mdhtml.SkipHTML
		default:
			return nil, unknownExtension("gomarkdown", raw)
		}
	}
	return converter, nil
}

func (c *gomarkdownConverter) Name() string {
	return "gomarkdown"
}

// Convert builds a fresh parser and renderer per call; both keep per-document
// state.
func (c *gomarkdownConverter) Convert(src []byte) (string, error) {
	p := mdparser.NewWithExtensions(c.extensions)
	r := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: c.flags})
	return trimOutput(markdown.ToHTML(src, p, r)), nil
}
