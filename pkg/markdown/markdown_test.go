package markdown_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-mdform/pkg/markdown"
)

func TestNew_DefaultEngine(t *testing.T) {
	converter, err := markdown.New()
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if converter.Name() != markdown.DefaultEngine {
		t.Fatalf("expected default engine %q, got %q", markdown.DefaultEngine, converter.Name())
	}

	html, err := converter.Convert([]byte("text text"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if html != "<p>text text</p>" {
		t.Fatalf("unexpected html %q", html)
	}
}

func TestEngines_BasicInline(t *testing.T) {
	for _, engine := range markdown.DefaultRegistry().List() {
		t.Run(engine, func(t *testing.T) {
			converter, err := markdown.New(markdown.WithEngine(engine), markdown.WithExtensions("meta"))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			html, err := converter.Convert([]byte("**bold** text"))
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if html != "<p><strong>bold</strong> text</p>" {
				t.Fatalf("unexpected html %q", html)
			}
		})
	}
}

func TestEngines_TablesExtension(t *testing.T) {
	src := []byte("| a | b |\n|---|---|\n| 1 | 2 |\n")
	for _, engine := range []string{"goldmark", "gomarkdown", "blackfriday"} {
		t.Run(engine, func(t *testing.T) {
			converter, err := markdown.New(markdown.WithEngine(engine), markdown.WithExtensions("Tables"))
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			html, err := converter.Convert(src)
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			if !strings.Contains(html, "<table>") {
				t.Fatalf("expected a table, got %q", html)
			}
		})
	}
}

func TestGoldmark_RendererOptions(t *testing.T) {
	cases := []struct {
		name       string
		extensions []string
		src        string
		want       string
	}{
		{name: "default", src: "a\nb", want: "<p>a\nb</p>"},
		{name: "hardwraps", extensions: []string{"hardwraps"}, src: "a\nb", want: "<p>a<br>\nb</p>"},
		{name: "hardwraps xhtml", extensions: []string{"hardwraps", "xhtml"}, src: "a\nb", want: "<p>a<br />\nb</p>"},
		{name: "raw html omitted", src: "<div>x</div>", want: "<!-- raw HTML omitted -->"},
		{name: "unsafe", extensions: []string{"unsafe"}, src: "<div>x</div>", want: "<div>x</div>"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			converter, err := markdown.NewGoldmark(tc.extensions...)
			if err != nil {
				t.Fatalf("new: %v", err)
			}
			got, err := converter.Convert([]byte(tc.src))
			if err != nil {
				t.Fatalf("convert: %v", err)
			}
			got = strings.TrimSpace(got)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("html mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNew_Errors(t *testing.T) {
	if _, err := markdown.New(markdown.WithEngine("pandoc")); err == nil {
		t.Fatal("expected error for unknown engine")
	}
	if _, err := markdown.New(markdown.WithExtensions("smarty-pants-deluxe")); err == nil {
		t.Fatal("expected error for unknown extension")
	}
	if _, err := markdown.New(markdown.WithSanitizer("paranoid")); err == nil {
		t.Fatal("expected error for unknown policy")
	}
}

func TestSanitize(t *testing.T) {
	src := []byte("<script>alert(1)</script>\n\n**bold** <a href=\"javascript:alert(1)\">x</a>")

	ugc, err := markdown.New(markdown.WithExtensions("unsafe"), markdown.WithSanitizer(markdown.PolicyUGC))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html, err := ugc.Convert(src)
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if strings.Contains(html, "<script") || strings.Contains(html, "javascript:") {
		t.Fatalf("ugc output not sanitised: %q", html)
	}
	if !strings.Contains(html, "<strong>bold</strong>") {
		t.Fatalf("ugc output dropped formatting: %q", html)
	}

	strict, err := markdown.New(markdown.WithSanitizer(markdown.PolicyStrict))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	html, err = strict.Convert([]byte("**bold**"))
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	if html != "bold" {
		t.Fatalf("unexpected strict output %q", html)
	}
}

func TestParsePolicy(t *testing.T) {
	for input, want := range map[string]markdown.Policy{
		"":       markdown.PolicyNone,
		"UGC":    markdown.PolicyUGC,
		"strict": markdown.PolicyStrict,
	} {
		got, err := markdown.ParsePolicy(input)
		if err != nil {
			t.Fatalf("parse %q: %v", input, err)
		}
		if got != want {
			t.Fatalf("parse %q: want %q, got %q", input, want, got)
		}
	}
}

func TestRegistry(t *testing.T) {
	registry := markdown.NewRegistry()
	if err := registry.Register("goldmark", markdown.NewGoldmark); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := registry.Register(" GOLDMARK ", markdown.NewGoldmark); err == nil {
		t.Fatal("expected duplicate registration error")
	}
	if err := registry.Register("", markdown.NewGoldmark); err == nil {
		t.Fatal("expected empty name error")
	}
	if !registry.Has("goldmark") || registry.Has("blackfriday") {
		t.Fatalf("unexpected registry contents %v", registry.List())
	}

	converter, err := markdown.New(markdown.WithRegistry(registry))
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if converter.Name() != "goldmark" {
		t.Fatalf("unexpected engine %q", converter.Name())
	}

	if diff := cmp.Diff([]string{"blackfriday", "goldmark", "gomarkdown"}, markdown.DefaultRegistry().List()); diff != "" {
		t.Fatalf("default registry mismatch (-want +got):\n%s", diff)
	}
}

func TestToMarkdown(t *testing.T) {
	got, err := markdown.ToMarkdown("<p><strong>bold</strong> text</p>")
	if err != nil {
		t.Fatalf("to markdown: %v", err)
	}
	if got != "**bold** text\n" {
		t.Fatalf("unexpected markdown %q", got)
	}

	empty, err := markdown.ToMarkdown("  ")
	if err != nil || empty != "" {
		t.Fatalf("expected empty output, got %q (%v)", empty, err)
	}
}
