// Package field implements the Markdown upload field shared by the forms and
// serializer integrations. A field cleans an uploaded document into a Result
// holding the rendered HTML and the coerced front matter.
package field
