package mdform

import (
	"io/fs"

	"github.com/goliatone/go-mdform/pkg/render"
)

// EmbeddedTemplates exposes the built-in form templates so callers can reuse or
// extend them without importing the render package directly.
func EmbeddedTemplates() fs.FS {
	return render.TemplatesFS()
}
