package render

import (
	"embed"
	"io/fs"
)

// FormTemplate is the template used to render upload forms.
const FormTemplate = "form.html"

//go:embed templates/*.html
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in templates rooted at the templates
// directory.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
