package markdown

import (
	"github.com/russross/blackfriday/v2"
)

const blackfridayBaseExtensions = blackfriday.NoIntraEmphasis | blackfriday.FencedCode | blackfriday.SpaceHeadings

var blackfridayExtensions = map[string]blackfriday.Extensions{
	"tables":         blackfriday.Tables,
	"table":          blackfriday.Tables,
	"strikethrough":  blackfriday.Strikethrough,
	"linkify":        blackfriday.Autolink,
	"autolink":       blackfriday.Autolink,
	"footnote":       blackfriday.Footnotes,
	"footnotes":      blackfriday.Footnotes,
	"definitionlist": blackfriday.DefinitionLists,
	"hardwraps":      blackfriday.HardLineBreak,
	"nl2br":          blackfriday.HardLineBreak,
	"autoheadingid":  blackfriday.AutoHeadingIDs,
	"toc":            blackfriday.AutoHeadingIDs,
	"gfm":            blackfriday.CommonExtensions,
	"common":         blackfriday.CommonExtensions,
}

type blackfridayConverter struct {
	extensions blackfriday.Extensions
}

// NewBlackfriday builds a converter backed by blackfriday v2.
func NewBlackfriday(extensions ...string) (Converter, error) {
	converter := &blackfridayConverter{extensions: blackfridayBaseExtensions}
	for _, raw := range extensions {
		name := normalizeExtension(raw)
		if name == "" {
			continue
		}
		if _, ok := alwaysOn[name]; ok {
			continue
		}
		ext, ok := blackfridayExtensions[name]
		if !ok {
			return nil, unknownExtension("blackfriday", raw)
		}
		converter.extensions |= ext
	}
	return converter, nil
}

func (c *blackfridayConverter) Name() string {
	return "blackfriday"
}

func (c *blackfridayConverter) Convert(src []byte) (string, error) {
	return trimOutput(blackfriday.Run(src, blackfriday.WithExtensions(c.extensions))), nil
}
