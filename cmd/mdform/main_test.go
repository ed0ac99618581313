package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdform/internal/prompt"
)

func init() {
	color.NoColor = true
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRun_SingleFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", "Title: ham title\nTags: ham, spam\n\ntext text")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-list", "tags", path}, &stdout, &stderr, nil)
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, "---\ntags:\n    - ham\n    - spam\ntitle: ham title\n---\n\n<p>text text</p>\n", stdout.String())
}

func TestRun_MultipleFilesKeepOrder(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"a.md", "b.md", "c.md"} {
		paths = append(paths, writeFile(t, dir, name, "# "+strings.TrimSuffix(name, ".md")))
	}

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), paths, &stdout, &stderr, nil)
	require.Equal(t, 0, code, stderr.String())

	want := "==> " + paths[0] + " <==\n<h1>a</h1>\n" +
		"==> " + paths[1] + " <==\n<h1>b</h1>\n" +
		"==> " + paths[2] + " <==\n<h1>c</h1>\n"
	assert.Equal(t, want, stdout.String())
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.md", "Title: ok\n\nbody")
	bad := writeFile(t, dir, "bad.md", "Tags: a\n      b\n\nbody")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{good, bad, filepath.Join(dir, "missing.md")}, &stdout, &stderr, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, stdout.String(), "title: ok")
	assert.Contains(t, stderr.String(), bad+": tags can't be a list")
	assert.Contains(t, stderr.String(), "missing.md")
}

func TestRun_Require(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", "Title: ok\n\nbody")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-require", "title,summary", path}, &stdout, &stderr, nil)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr.String(), "missing required tags: summary")
}

type answers map[string]string

func (a answers) Input(_ context.Context, cfg prompt.InputConfig) (string, error) {
	return a[cfg.Message], nil
}

func TestRun_InteractiveExport(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "post.md", "Title: ok\n\ntext **bold**")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(),
		[]string{"-require", "title,authors", "-list", "authors", "-interactive", "-export", path},
		&stdout, &stderr, answers{"authors:": "ana, bo"})
	require.Equal(t, 0, code, stderr.String())

	assert.Equal(t, "authors: ana, bo\ntitle: ok\n\ntext **bold**\n", stdout.String())
}

func TestRun_Usage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(context.Background(), nil, &stdout, &stderr, nil))
	assert.Contains(t, stderr.String(), "usage: mdform")

	stderr.Reset()
	assert.Equal(t, 1, run(context.Background(), []string{"-engine", "pandoc", "x.md"}, &stdout, &stderr, nil))
	assert.Contains(t, stderr.String(), "markdown.engine")
}
