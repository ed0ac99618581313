package render

import (
	"errors"
	"io"
	"strings"
)

const (
	defaultMethod  = "POST"
	defaultSubmit  = "Submit"
	multipartType  = "multipart/form-data"
	urlencodedType = "application/x-www-form-urlencoded"
)

// Apply merges request scoped options into a copy of the view. Error
// payloads are mapped onto the view's fields; anything that does not match a
// field becomes a form level error.
func (v FormView) Apply(opts Options) FormView {
	out := v
	out.Fields = make([]FieldView, len(v.Fields))
	copy(out.Fields, v.Fields)

	if title := strings.TrimSpace(opts.Title); title != "" {
		out.Title = title
	}
	if action := strings.TrimSpace(opts.Action); action != "" {
		out.Action = action
	}
	if method := strings.TrimSpace(opts.Method); method != "" {
		out.Method = method
	}
	out.Method = strings.ToUpper(out.Method)
	if out.Method == "" {
		out.Method = defaultMethod
	}
	if submit := strings.TrimSpace(opts.Submit); submit != "" {
		out.Submit = submit
	}
	if out.Submit == "" {
		out.Submit = defaultSubmit
	}
	if out.Enctype == "" {
		out.Enctype = urlencodedType
		for _, field := range out.Fields {
			if field.Type == "file" {
				out.Enctype = multipartType
				break
			}
		}
	}

	out.Hidden = SortedHiddenFields(append(append([]HiddenField(nil), v.Hidden...), opts.Hidden...)...)

	if len(opts.Errors) > 0 {
		names := make([]string, 0, len(out.Fields))
		for _, field := range out.Fields {
			names = append(names, field.Name)
		}
		mapping := MapErrorPayload(names, opts.Errors)
		for i := range out.Fields {
			if extra := mapping.Fields[out.Fields[i].Name]; len(extra) > 0 {
				out.Fields[i].Errors = normalizeMessages(append(append([]string(nil), out.Fields[i].Errors...), extra...))
			}
		}
		out.Errors = MergeFormErrors(v.Errors, mapping.Form...)
	}
	return out
}

// RenderForm applies opts to view and renders it to w.
func RenderForm(w io.Writer, view FormView, opts Options) error {
	if w == nil {
		return errors.New("render: writer is nil")
	}
	engine := opts.Engine
	if engine == nil {
		var err error
		engine, err = DefaultEngine()
		if err != nil {
			return err
		}
	}
	name := strings.TrimSpace(opts.Template)
	if name == "" {
		name = FormTemplate
	}
	return engine.Render(name, map[string]any{"form": view.Apply(opts)}, w)
}
