package field_test

import (
	"path/filepath"
	"testing"

	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/testsupport"
)

func TestMarkdown_Golden(t *testing.T) {
	f := field.MustNew(field.WithListKeys("tags"))
	upload := testsupport.LoadUpload(t, filepath.Join("testdata", "document.md"))

	result, err := f.Clean(upload)
	if err != nil {
		t.Fatalf("clean: %v", err)
	}
	if result.Filename != "document.md" {
		t.Fatalf("unexpected filename %q", result.Filename)
	}

	htmlPath := filepath.Join("testdata", "document.html.golden")
	metaPath := filepath.Join("testdata", "document.meta.golden.json")
	if testsupport.WriteMaybeGolden(t, htmlPath, []byte(result.HTML+"\n")) {
		testsupport.WriteGolden(t, metaPath, result.Meta.Map())
		return
	}

	if diff := testsupport.CompareGolden(testsupport.MustReadGoldenString(t, htmlPath), result.HTML); diff != "" {
		t.Fatalf("html mismatch (-want +got):\n%s", diff)
	}
	want := testsupport.MustLoadJSON(t, metaPath)
	if diff := testsupport.CompareGolden(want, testsupport.Normalize(t, result.Meta.Map())); diff != "" {
		t.Fatalf("meta mismatch (-want +got):\n%s", diff)
	}
}
