package forms

import (
	"io"

	"github.com/goliatone/go-mdform/pkg/render"
)

// View describes the form for a template. Bound forms are cleaned first and
// show the submitted values, including values filled from metadata, next to
// their errors; unbound forms show the initial values.
func (f *Form) View() render.FormView {
	view := render.FormView{Fields: make([]render.FieldView, 0, len(f.fields))}
	if f.bound {
		f.FullClean()
	}

	for _, fld := range f.fields {
		name := fld.Name()
		var values []string
		if f.bound {
			values = f.data[name]
		} else {
			values = formatInitial(f.initial[name])
		}
		fv := fld.View(values)
		fv.Errors = append([]string(nil), f.errors[name]...)
		view.Fields = append(view.Fields, fv)
	}
	view.Errors = append([]string(nil), f.errors[NonFieldErrors]...)
	view.Preview = f.preview
	return view
}

// Render writes the HTML form to w using the default template.
func (f *Form) Render(w io.Writer) error {
	return f.RenderWith(w, render.Options{})
}

// RenderWith writes the HTML form to w with request scoped options such as
// the action URL, hidden inputs, or extra server side errors.
func (f *Form) RenderWith(w io.Writer, opts render.Options) error {
	return render.RenderForm(w, f.View(), opts)
}
