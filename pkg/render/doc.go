// Package render turns form view models into HTML through pongo2 templates.
// It also normalises server side error payloads into field and form level
// messages and carries the hidden inputs (CSRF tokens, versions) emitted next
// to the visible fields.
package render
