package render_test

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdform/pkg/render"
)

func sampleView() render.FormView {
	return render.FormView{
		Fields: []render.FieldView{
			{Name: "title", ID: "id_title", Label: "Title", Type: "text", Value: "<ham>", MaxLength: 40},
			{Name: "tags", ID: "id_tags", Label: "Tags", Type: "text", Value: "ham, spam", HelpText: "Comma separated."},
			{Name: "draft", ID: "id_draft", Label: "Draft", Type: "checkbox", Checked: true},
			{Name: "text", ID: "id_text", Label: "Text", Type: "file", Accept: ".md", Required: true},
		},
		Preview: "<p>text text</p>",
	}
}

func renderDoc(t *testing.T, view render.FormView, opts render.Options) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	if err := render.RenderForm(&buf, view, opts); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse html: %v", err)
	}
	return doc
}

func TestRenderForm_Defaults(t *testing.T) {
	doc := renderDoc(t, sampleView(), render.Options{})

	form := doc.Find("form.mdform")
	if got, _ := form.Attr("method"); got != "POST" {
		t.Fatalf("method = %q", got)
	}
	if got, _ := form.Attr("enctype"); got != "multipart/form-data" {
		t.Fatalf("enctype = %q", got)
	}
	if got, _ := doc.Find("#id_title").Attr("value"); got != "<ham>" {
		t.Fatalf("title value = %q", got)
	}
	if got, _ := doc.Find("#id_title").Attr("maxlength"); got != "40" {
		t.Fatalf("maxlength = %q", got)
	}
	if _, ok := doc.Find("#id_draft").Attr("checked"); !ok {
		t.Fatalf("expected draft to be checked")
	}
	if got, _ := doc.Find("#id_text").Attr("type"); got != "file" {
		t.Fatalf("text input type = %q", got)
	}
	if got := strings.TrimSpace(doc.Find(".helptext").Text()); got != "Comma separated." {
		t.Fatalf("help text = %q", got)
	}
	if got := doc.Find(".mdform__preview p").Text(); got != "text text" {
		t.Fatalf("preview = %q", got)
	}
	if got := strings.TrimSpace(doc.Find("button[type=submit]").Text()); got != "Submit" {
		t.Fatalf("submit label = %q", got)
	}
}

func TestRenderForm_EscapesValues(t *testing.T) {
	var buf bytes.Buffer
	if err := render.RenderForm(&buf, sampleView(), render.Options{}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), `value="<ham>"`) {
		t.Fatalf("expected value to be escaped:\n%s", buf.String())
	}
}

func TestRenderForm_OptionsAndErrors(t *testing.T) {
	view := sampleView()
	view.Fields[0].Errors = []string{"This field is required."}

	doc := renderDoc(t, view, render.Options{
		Title:  "Upload",
		Action: "/documents/new",
		Method: "put",
		Submit: "Save",
		Hidden: []render.HiddenField{
			render.CSRFToken("_csrf", "token"),
			render.VersionField("version", 3),
		},
		Errors: map[string][]string{
			"/body/tags":       {"tags can't be a list"},
			"title":            {"This field is required."},
			"__all__":          {"Upload failed."},
			"/unknown/pointer": {"Something else."},
		},
	})

	form := doc.Find("form")
	if got, _ := form.Attr("action"); got != "/documents/new" {
		t.Fatalf("action = %q", got)
	}
	if got, _ := form.Attr("method"); got != "PUT" {
		t.Fatalf("method = %q", got)
	}
	if got := strings.TrimSpace(doc.Find("h2").Text()); got != "Upload" {
		t.Fatalf("title = %q", got)
	}

	var hidden []string
	doc.Find("input[type=hidden]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		value, _ := s.Attr("value")
		hidden = append(hidden, name+"="+value)
	})
	if diff := cmp.Diff([]string{"_csrf=token", "version=3"}, hidden); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}

	fieldErrors := func(name string) []string {
		var out []string
		doc.Find(`[data-field="` + name + `"] .errorlist li`).Each(func(_ int, s *goquery.Selection) {
			out = append(out, s.Text())
		})
		return out
	}
	if diff := cmp.Diff([]string{"This field is required."}, fieldErrors("title")); diff != "" {
		t.Fatalf("title errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"tags can't be a list"}, fieldErrors("tags")); diff != "" {
		t.Fatalf("tags errors mismatch (-want +got):\n%s", diff)
	}

	var formErrors []string
	doc.Find(".errorlist.nonfield li").Each(func(_ int, s *goquery.Selection) {
		formErrors = append(formErrors, s.Text())
	})
	if diff := cmp.Diff([]string{"Something else.", "Upload failed."}, formErrors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderForm_TemplateOverride(t *testing.T) {
	engine, err := render.NewEngine(render.WithTemplatesFS(fstest.MapFS{
		"form.html": &fstest.MapFile{Data: []byte(`{{ brand }}:{% for field in form.Fields %}[{{ field.Name }}]{% endfor %}`)},
	}), render.WithGlobals(map[string]any{"brand": "mdform"}))
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}

	var buf bytes.Buffer
	if err := render.RenderForm(&buf, sampleView(), render.Options{Engine: engine}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := buf.String(); got != "mdform:[title][tags][draft][text]" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestMapErrorPayload(t *testing.T) {
	mapping := render.MapErrorPayload([]string{"title", "tags"}, map[string][]string{
		"data.tags[0]":     {" bad tag ", "bad tag"},
		"non_field_errors": {"Nope."},
		"":                 {"  "},
	})

	want := render.ErrorMapping{
		Fields: map[string][]string{"tags": {"bad tag"}},
		Form:   []string{"Nope."},
	}
	if diff := cmp.Diff(want, mapping); diff != "" {
		t.Fatalf("mapping mismatch (-want +got):\n%s", diff)
	}
}

func TestSortedHiddenFields(t *testing.T) {
	got := render.SortedHiddenFields(
		render.Hidden("b", 1),
		render.Hidden(" ", "skip"),
		render.Hidden("a", true),
		render.Hidden("b", 2),
	)
	want := []render.HiddenField{{Name: "a", Value: "true"}, {Name: "b", Value: "2"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFormErrors(t *testing.T) {
	got := render.MergeFormErrors([]string{"a", " b "}, "b", "", "c")
	if diff := cmp.Diff([]string{"a", "b", "c"}, got); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}
