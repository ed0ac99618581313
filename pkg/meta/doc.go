// Package meta extracts front matter from uploaded Markdown documents and
// coerces the raw tag lines into typed values.
//
// The default syntax is the MultiMarkdown style understood by most Markdown
// toolchains:
//
//	Title: ham title
//	Tags: ham, spam
//	      foo
//	      bar, baz
//
//	text text text
//
// Keys are case-insensitive and stored lowercased. Indented lines continue the
// previous key. A blank line (or a `---` / `...` terminator) closes the block.
// Structured YAML, TOML, and JSON blocks are supported through
// ExtractStructured.
//
// Every tag is a string unless the caller declares it list-typed, in which
// case each line is split on commas. A non-list tag that spans several lines
// fails with a *TagError.
package meta
