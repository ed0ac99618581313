// Package forms implements HTML form handling for Markdown uploads.
//
// A Form is declared once from an ordered list of fields and bound per
// request. WithMarkdown wraps a form so that tags found in the uploaded
// document's front matter populate sibling fields the user left empty:
//
//	form := forms.MustNew(
//		forms.CharField("title"),
//		forms.ListField("tags"),
//		forms.MarkdownField("markdown", field.MustNew(field.WithListKeys("tags"))),
//	)
//	mdForm := forms.MustMarkdown(form, "markdown")
//
//	bound := mdForm.Bind(r.PostForm, field.FromMultipart(r.MultipartForm))
//	if bound.IsValid() {
//		var doc Document
//		_ = bound.Decode(&doc)
//	}
package forms
