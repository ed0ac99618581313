package forms_test

import (
	"bytes"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/forms"
	"github.com/goliatone/go-mdform/pkg/render"
)

const sampleDocument = "Title: foobar\n\ntext text"

func sampleForm(t *testing.T) *forms.MarkdownForm {
	t.Helper()
	form := forms.MustNew(
		forms.CharField("title"),
		forms.MarkdownField("markdown", field.MustNew()),
	)
	return forms.MustMarkdown(form, "markdown")
}

func upload(name, text string) map[string][]*field.Upload {
	return map[string][]*field.Upload{name: {field.FromString("test.md", text)}}
}

func TestMarkdownForm_CleansMarkdown(t *testing.T) {
	form := sampleForm(t).Bind(url.Values{}, upload("markdown", sampleDocument))

	if !form.IsValid() {
		t.Fatalf("expected valid form, got errors %v", form.Errors())
	}
	if got := form.CleanedData()["markdown"]; got != "<p>text text</p>" {
		t.Fatalf("unexpected markdown %q", got)
	}
}

func TestMarkdownForm_DataDispatch(t *testing.T) {
	definition := sampleForm(t)

	form := definition.Bind(url.Values{}, upload("markdown", sampleDocument))
	if got := form.CleanedData()["title"]; got != "foobar" {
		t.Fatalf("expected title from metadata, got %v", got)
	}

	override := definition.Bind(url.Values{"title": {"ham spam"}}, upload("markdown", sampleDocument))
	if got := override.CleanedData()["title"]; got != "ham spam" {
		t.Fatalf("expected submitted title to win, got %v", got)
	}

	blank := definition.Bind(url.Values{"title": {"  "}}, upload("markdown", sampleDocument))
	if got := blank.CleanedData()["title"]; got != "foobar" {
		t.Fatalf("expected blank title to be filled, got %v", got)
	}
}

func TestMarkdownForm_DoesNotMutateInputs(t *testing.T) {
	data := url.Values{}
	form := sampleForm(t).Bind(data, upload("markdown", sampleDocument))
	form.FullClean()

	if len(data) != 0 {
		t.Fatalf("caller data modified: %v", data)
	}
	if diff := cmp.Diff([]string{"foobar"}, form.Data()["title"]); diff != "" {
		t.Fatalf("bound data mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownForm_ListTags(t *testing.T) {
	form := forms.MustNew(
		forms.CharField("title"),
		forms.ListField("tags"),
		forms.CharField("authors", forms.Required(false)),
		forms.BoolField("draft"),
		forms.MarkdownField("markdown", field.MustNew(field.WithListKeys("tags", "authors"))),
	)
	doc := "Title: ham title\nTags: ham, spam\n      foo\nAuthors: ana, bo\nDraft: yes\nExtra: ignored\n\nbody"
	bound := forms.MustMarkdown(form, "markdown").Bind(nil, upload("markdown", doc))

	want := map[string]any{
		"title":    "ham title",
		"tags":     []string{"ham", "spam", "foo"},
		"authors":  "ana, bo",
		"draft":    true,
		"markdown": "<p>body</p>",
	}
	if diff := cmp.Diff(want, bound.CleanedData()); diff != "" {
		t.Fatalf("cleaned data mismatch (-want +got):\n%s", diff)
	}
	if _, ok := bound.Data()["extra"]; ok {
		t.Fatalf("undeclared metadata key must not be bound")
	}
	if got := bound.Meta().Keys(); !cmp.Equal(got, []string{"authors", "draft", "extra", "tags", "title"}) {
		t.Fatalf("unexpected meta keys %v", got)
	}
}

func TestMarkdownForm_TagError(t *testing.T) {
	doc := "Title: ham title\nTags: ham, spam\n      foo\n\ntext"
	form := sampleForm(t).Bind(url.Values{"title": {"kept"}}, upload("markdown", doc))

	if form.IsValid() {
		t.Fatalf("expected invalid form")
	}
	want := map[string][]string{"markdown": {"tags can't be a list"}}
	if diff := cmp.Diff(want, form.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	cleaned := form.CleanedData()
	if _, ok := cleaned["markdown"]; ok {
		t.Fatalf("markdown must not be cleaned on error")
	}
	if cleaned["title"] != "kept" {
		t.Fatalf("expected other fields to be cleaned, got %v", cleaned)
	}
}

func TestMarkdownForm_MissingUpload(t *testing.T) {
	form := sampleForm(t).Bind(url.Values{}, nil)

	want := map[string][]string{
		"title":    {"This field is required."},
		"markdown": {"This field is required."},
	}
	if diff := cmp.Diff(want, form.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestMarkdownForm_InitialFallback(t *testing.T) {
	form := sampleForm(t).
		WithInitial(map[string]any{"markdown": "<p>stored</p>"}).
		Bind(url.Values{"title": {"t"}}, nil)

	if !form.IsValid() {
		t.Fatalf("expected valid form, got %v", form.Errors())
	}
	if got := form.CleanedData()["markdown"]; got != "<p>stored</p>" {
		t.Fatalf("unexpected markdown %q", got)
	}
}

func TestForm_Validators(t *testing.T) {
	form := forms.MustNew(forms.CharField("title", forms.MaxLength(5))).
		AddValidator(func(cleaned map[string]any) error {
			if cleaned["title"] == "admin" {
				return errors.New("Reserved title.")
			}
			return nil
		})

	tooLong := form.Bind(url.Values{"title": {"abcdefg"}}, nil)
	want := map[string][]string{"title": {"Ensure this value has at most 5 characters (it has 7)."}}
	if diff := cmp.Diff(want, tooLong.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}

	reserved := form.Bind(url.Values{"title": {"admin"}}, nil)
	want = map[string][]string{forms.NonFieldErrors: {"Reserved title."}}
	if diff := cmp.Diff(want, reserved.Errors()); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestForm_UnboundIsInvalid(t *testing.T) {
	form := forms.MustNew(forms.CharField("title"))
	if form.IsValid() {
		t.Fatalf("unbound form must not be valid")
	}
	if len(form.Errors()) != 0 {
		t.Fatalf("unbound form must not report errors")
	}
}

func TestNew_DuplicateField(t *testing.T) {
	if _, err := forms.New(forms.CharField("a"), forms.ListField("a")); err == nil {
		t.Fatalf("expected duplicate field error")
	}
}

func TestWithMarkdown_Errors(t *testing.T) {
	form := forms.MustNew(forms.CharField("title"))
	if _, err := forms.WithMarkdown(form, "markdown"); err == nil {
		t.Fatalf("expected unknown field error")
	}
	if _, err := forms.WithMarkdown(form, "title"); err == nil {
		t.Fatalf("expected wrong field type error")
	}
}

type document struct {
	Title    string   `form:"title"`
	Tags     []string `form:"tags"`
	Body     string   `form:"markdown"`
	Untagged bool
}

func TestForm_Decode(t *testing.T) {
	form := forms.MustNew(
		forms.CharField("title"),
		forms.ListField("tags", forms.Required(false)),
		forms.BoolField("untagged"),
		forms.MarkdownField("markdown", field.MustNew(field.WithListKeys("tags"))),
	)
	bound := forms.MustMarkdown(form, "markdown").
		Bind(url.Values{"untagged": {"on"}}, upload("markdown", "title: foobar\ntags: a, b\n\ntext text"))

	var got document
	if err := bound.Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := document{Title: "foobar", Tags: []string{"a", "b"}, Body: "<p>text text</p>", Untagged: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("decoded mismatch (-want +got):\n%s", diff)
	}

	invalid := forms.MustMarkdown(form, "markdown").Bind(nil, nil)
	if err := invalid.Decode(&got); !errors.Is(err, forms.ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
}

func TestForm_Render(t *testing.T) {
	form := sampleForm(t).Bind(url.Values{}, upload("markdown", sampleDocument))

	var buf bytes.Buffer
	if err := form.RenderWith(&buf, render.Options{Action: "/documents/new"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if got, _ := doc.Find("form").Attr("enctype"); got != "multipart/form-data" {
		t.Fatalf("enctype = %q", got)
	}
	if got, _ := doc.Find("#id_title").Attr("value"); got != "foobar" {
		t.Fatalf("title value = %q", got)
	}
	if got := strings.TrimSpace(doc.Find("label[for=id_title]").Text()); got != "Title" {
		t.Fatalf("label = %q", got)
	}
	if got := doc.Find(".mdform__preview p").Text(); got != "text text" {
		t.Fatalf("preview = %q", got)
	}
}

func TestForm_RenderUnboundWithErrors(t *testing.T) {
	form := sampleForm(t).WithInitial(map[string]any{"title": "draft"}).Bind(url.Values{}, nil)

	var buf bytes.Buffer
	if err := form.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err := goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got := doc.Find(`[data-field="markdown"] .errorlist li`).Text(); got != "This field is required." {
		t.Fatalf("markdown error = %q", got)
	}

	unbound := sampleForm(t).WithInitial(map[string]any{"title": "draft"})
	buf.Reset()
	if err := unbound.Render(&buf); err != nil {
		t.Fatalf("render: %v", err)
	}
	doc, err = goquery.NewDocumentFromReader(&buf)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got, _ := doc.Find("#id_title").Attr("value"); got != "draft" {
		t.Fatalf("initial title = %q", got)
	}
	if doc.Find(".errorlist").Length() != 0 {
		t.Fatalf("unbound form must not render errors")
	}
}
