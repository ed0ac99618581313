package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Markdown MarkdownConfig `yaml:"markdown"`
	Document DocumentConfig `yaml:"document"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	MaxUploadBytes  int64         `yaml:"max_upload_bytes"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

type MarkdownConfig struct {
	Engine            string   `yaml:"engine"`
	Extensions        []string `yaml:"extensions"`
	Sanitize          string   `yaml:"sanitize"`
	Syntax            string   `yaml:"syntax"`
	ListKeys          []string `yaml:"list_keys"`
	AllowedExtensions []string `yaml:"allowed_extensions"`
	MaxSize           int64    `yaml:"max_size"`
}

// DocumentConfig declares the fields accepted next to the Markdown upload.
// When OpenAPI is set the REST serializer is derived from that document
// instead.
type DocumentConfig struct {
	MarkdownField string        `yaml:"markdown_field"`
	Fields        []FieldConfig `yaml:"fields"`
	OpenAPI       string        `yaml:"openapi"`
	OperationID   string        `yaml:"operation_id"`
}

// Field kinds understood by FieldConfig.Type.
const (
	FieldChar = "char"
	FieldList = "list"
	FieldBool = "bool"
)

type FieldConfig struct {
	Name      string `yaml:"name"`
	Type      string `yaml:"type"`
	Label     string `yaml:"label"`
	HelpText  string `yaml:"help_text"`
	Required  *bool  `yaml:"required"`
	MaxLength int    `yaml:"max_length"`
}

// IsRequired applies the per kind default: char and list fields are
// required, bool fields are not.
func (f FieldConfig) IsRequired() bool {
	if f.Required != nil {
		return *f.Required
	}
	return f.Type != FieldBool
}

const envPrefix = "MDFORM_"

// Load reads path, falling back to the default locations when path is
// empty, then applies environment overrides and defaults. A missing
// default file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = findDefault()
	}

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
		if cfg.Document.OpenAPI != "" && !filepath.IsAbs(cfg.Document.OpenAPI) {
			cfg.Document.OpenAPI = filepath.Join(filepath.Dir(path), cfg.Document.OpenAPI)
		}
	}

	if err := mergeWithEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// Default returns the built-in configuration with environment overrides.
func Default() (*Config, error) {
	cfg := &Config{}
	if err := mergeWithEnv(cfg, os.LookupEnv); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

func findDefault() string {
	locations := []string{"mdform.yaml", "mdform.yml"}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "mdform", "config.yaml"))
	}
	locations = append(locations, "/etc/mdform/config.yaml")

	for _, loc := range locations {
		if _, err := os.Stat(loc); err == nil {
			return loc
		}
	}
	return ""
}

func mergeWithEnv(cfg *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(envPrefix + "ADDR"); ok && v != "" {
		cfg.Server.Addr = v
	}
	if v, ok := lookup(envPrefix + "LOG_LEVEL"); ok && v != "" {
		cfg.Log.Level = v
	}
	if v, ok := lookup(envPrefix + "ENGINE"); ok && v != "" {
		cfg.Markdown.Engine = v
	}
	if v, ok := lookup(envPrefix + "MAX_UPLOAD_BYTES"); ok && v != "" {
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return fmt.Errorf("config: %sMAX_UPLOAD_BYTES: %w", envPrefix, err)
		}
		cfg.Server.MaxUploadBytes = n
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 10 << 20
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 15 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Markdown.Engine == "" {
		cfg.Markdown.Engine = "goldmark"
	}
	if cfg.Markdown.Sanitize == "" {
		cfg.Markdown.Sanitize = "ugc"
	}
	if cfg.Markdown.Syntax == "" {
		cfg.Markdown.Syntax = "multimarkdown"
	}
	if len(cfg.Markdown.AllowedExtensions) == 0 {
		cfg.Markdown.AllowedExtensions = []string{".md", ".markdown", ".txt"}
	}

	if cfg.Document.MarkdownField == "" {
		cfg.Document.MarkdownField = "markdown"
	}
	if len(cfg.Document.Fields) == 0 && cfg.Document.OpenAPI == "" {
		cfg.Document.Fields = []FieldConfig{
			{Name: "title", Type: FieldChar, MaxLength: 255},
		}
	}
	for i := range cfg.Document.Fields {
		if cfg.Document.Fields[i].Type == "" {
			cfg.Document.Fields[i].Type = FieldChar
		}
	}
	if cfg.Document.OpenAPI != "" && cfg.Document.OperationID == "" {
		cfg.Document.OperationID = "createDocument"
	}
}

// ErrInvalid wraps the validation errors returned by Check.
var ErrInvalid = errors.New("config: invalid configuration")

// Check runs Validate and folds the result into a single error.
func (c *Config) Check() error {
	errs := c.Validate()
	if len(errs) == 0 {
		return nil
	}
	joined := make([]error, 0, len(errs)+1)
	joined = append(joined, ErrInvalid)
	for _, err := range errs {
		joined = append(joined, err)
	}
	return errors.Join(joined...)
}
