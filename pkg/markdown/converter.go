package markdown

import (
	"fmt"
	"strings"
)

// DefaultEngine names the engine used when none is configured.
const DefaultEngine = "goldmark"

// Converter turns a Markdown body into an HTML fragment. Implementations must
// be safe for concurrent use once constructed.
type Converter interface {
	Name() string
	Convert(src []byte) (string, error)
}

// Option customises converter construction.
type Option func(*config)

type config struct {
	engine     string
	extensions []string
	policy     Policy
	registry   *Registry
}

// WithEngine selects a registered engine by name.
func WithEngine(name string) Option {
	return func(cfg *config) {
		cfg.engine = strings.TrimSpace(name)
	}
}

// WithExtensions enables named engine extensions. Names are engine specific;
// unknown names make New fail.
func WithExtensions(names ...string) Option {
	return func(cfg *config) {
		for _, name := range names {
			if trimmed := normalizeExtension(name); trimmed != "" {
				cfg.extensions = append(cfg.extensions, trimmed)
			}
		}
	}
}

// WithSanitizer wraps the converter with a bluemonday policy.
func WithSanitizer(policy Policy) Option {
	return func(cfg *config) {
		cfg.policy = policy
	}
}

// WithRegistry resolves engines against a custom registry.
func WithRegistry(registry *Registry) Option {
	return func(cfg *config) {
		cfg.registry = registry
	}
}

// New builds a converter from the supplied options.
func New(options ...Option) (Converter, error) {
	cfg := config{engine: DefaultEngine, policy: PolicyNone}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.engine == "" {
		cfg.engine = DefaultEngine
	}
	registry := cfg.registry
	if registry == nil {
		registry = DefaultRegistry()
	}

	converter, err := registry.New(cfg.engine, cfg.extensions...)
	if err != nil {
		return nil, err
	}
	return Sanitize(converter, cfg.policy)
}

// MustNew panics when New fails. Useful for package-level defaults.
func MustNew(options ...Option) Converter {
	converter, err := New(options...)
	if err != nil {
		panic(err)
	}
	return converter
}

func normalizeExtension(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	return strings.NewReplacer("-", "", "_", "", " ", "").Replace(name)
}

// alwaysOn lists extension names accepted by every engine for compatibility
// with configurations that request front matter handling explicitly; metadata
// is always stripped before conversion.
var alwaysOn = map[string]struct{}{
	"meta": {},
}

func unknownExtension(engine, name string) error {
	return fmt.Errorf("markdown: engine %q does not support extension %q", engine, name)
}

func trimOutput(out []byte) string {
	return strings.TrimRight(string(out), " \t\r\n")
}
