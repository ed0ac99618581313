package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-mdform/pkg/field"
)

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "mdform.yaml")

	configData := `
server:
  addr: ":9090"
  max_upload_bytes: 2048
  read_timeout: 5s

log:
  level: debug

markdown:
  engine: gomarkdown
  extensions: [tables]
  sanitize: ugc
  list_keys: [tags]

document:
  fields:
    - name: title
      max_length: 80
    - name: tags
      type: list
      required: false
    - name: draft
      type: bool
  openapi: api.yaml
`
	require.NoError(t, os.WriteFile(configPath, []byte(configData), 0o644))

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, int64(2048), cfg.Server.MaxUploadBytes)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 15*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "gomarkdown", cfg.Markdown.Engine)
	assert.Equal(t, []string{"tags"}, cfg.Markdown.ListKeys)
	assert.Equal(t, "multimarkdown", cfg.Markdown.Syntax)
	assert.Equal(t, "markdown", cfg.Document.MarkdownField)
	assert.Equal(t, filepath.Join(tmpDir, "api.yaml"), cfg.Document.OpenAPI)
	assert.Equal(t, "createDocument", cfg.Document.OperationID)

	require.Len(t, cfg.Document.Fields, 3)
	assert.Equal(t, FieldChar, cfg.Document.Fields[0].Type)
	assert.True(t, cfg.Document.Fields[0].IsRequired())
	assert.False(t, cfg.Document.Fields[1].IsRequired())
	assert.False(t, cfg.Document.Fields[2].IsRequired())

	assert.Empty(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, int64(10<<20), cfg.Server.MaxUploadBytes)
	assert.Equal(t, "goldmark", cfg.Markdown.Engine)
	assert.Equal(t, "ugc", cfg.Markdown.Sanitize)
	assert.Equal(t, []FieldConfig{{Name: "title", Type: FieldChar, MaxLength: 255}}, cfg.Document.Fields)
	assert.NoError(t, cfg.Check())
}

func TestMergeWithEnv(t *testing.T) {
	env := map[string]string{
		"MDFORM_ADDR":             ":7000",
		"MDFORM_LOG_LEVEL":        "warn",
		"MDFORM_ENGINE":           "blackfriday",
		"MDFORM_MAX_UPLOAD_BYTES": "100",
	}
	lookup := func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}

	cfg := &Config{}
	require.NoError(t, mergeWithEnv(cfg, lookup))
	assert.Equal(t, ":7000", cfg.Server.Addr)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "blackfriday", cfg.Markdown.Engine)
	assert.Equal(t, int64(100), cfg.Server.MaxUploadBytes)

	env["MDFORM_MAX_UPLOAD_BYTES"] = "lots"
	require.Error(t, mergeWithEnv(&Config{}, lookup))
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Log.Level = "loud"
	cfg.Markdown.Engine = "pandoc"
	cfg.Markdown.Sanitize = "paranoid"
	cfg.Document.Fields = append(cfg.Document.Fields,
		FieldConfig{Name: "title", Type: FieldChar},
		FieldConfig{Name: "when", Type: "date"},
	)

	var fields []string
	for _, err := range cfg.Validate() {
		fields = append(fields, err.Field)
	}
	assert.Equal(t, []string{
		"log.level",
		"markdown.engine",
		"markdown.sanitize",
		"document.fields[1].name",
		"document.fields[2].type",
	}, fields)

	err := cfg.Check()
	require.ErrorIs(t, err, ErrInvalid)
}

func TestFieldOptions(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Markdown.ListKeys = []string{"tags"}

	opts, err := cfg.Markdown.FieldOptions()
	require.NoError(t, err)

	md, err := field.New(opts...)
	require.NoError(t, err)
	assert.Equal(t, []string{"tags"}, md.ListKeys())
	assert.Equal(t, []string{".md", ".markdown", ".txt"}, md.AllowedExtensions())

	cfg.Markdown.Syntax = "rst"
	_, err = cfg.Markdown.FieldOptions()
	require.Error(t, err)
}
