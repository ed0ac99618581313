package render

// Options describe per-request data used when rendering a form without
// mutating the form itself.
type Options struct {
	// Title is rendered as the form heading when set.
	Title string
	// Action is the submission URL; empty posts back to the current page.
	Action string
	// Method defaults to POST.
	Method string
	// Submit overrides the submit button label.
	Submit string
	// Hidden lists extra hidden inputs such as CSRF tokens.
	Hidden []HiddenField
	// Errors carries server side messages keyed by field name or path. They
	// are merged with the form's own validation errors.
	Errors map[string][]string
	// Template overrides the template name.
	Template string
	// Engine overrides the template engine.
	Engine *Engine
}

// FieldView is the template-facing description of a single field.
type FieldView struct {
	Name      string
	ID        string
	Label     string
	Type      string
	Value     string
	Checked   bool
	Required  bool
	MaxLength int
	Accept    string
	HelpText  string
	Errors    []string
}

// FormView is the template-facing description of a whole form.
type FormView struct {
	Title   string
	Action  string
	Method  string
	Enctype string
	Submit  string
	Hidden  []HiddenField
	Fields  []FieldView
	Errors  []string
	Preview string
}
