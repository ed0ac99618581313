// Package markdown converts Markdown bodies into HTML. Conversion is always
// delegated to an external engine (goldmark by default, gomarkdown and
// blackfriday are also registered); this package only selects the engine,
// maps named extensions onto engine flags, and optionally sanitises the
// output with bluemonday.
package markdown
