package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-mdform/internal/config"
	"github.com/goliatone/go-mdform/internal/prompt"
	"github.com/goliatone/go-mdform/pkg/field"
	"github.com/goliatone/go-mdform/pkg/markdown"
	"github.com/goliatone/go-mdform/pkg/meta"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr, prompt.NewSurvey()))
}

type options struct {
	configPath  string
	listKeys    string
	engine      string
	extensions  string
	syntax      string
	sanitize    string
	require     string
	interactive bool
	export      bool
	verbose     bool
	files       []string
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{}
	fs := flag.NewFlagSet("mdform", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "configuration file (defaults to mdform.yaml when present)")
	fs.StringVar(&opts.listKeys, "list", "", "comma separated list-typed tags, e.g. tags,authors")
	fs.StringVar(&opts.engine, "engine", "", "markdown engine ("+strings.Join(markdown.DefaultRegistry().List(), ", ")+")")
	fs.StringVar(&opts.extensions, "ext", "", "comma separated markdown extensions")
	fs.StringVar(&opts.syntax, "syntax", "", "front matter syntax: multimarkdown, structured, auto")
	fs.StringVar(&opts.sanitize, "sanitize", "", "HTML sanitizer policy: none, ugc, strict")
	fs.StringVar(&opts.require, "require", "", "comma separated tags that must be present")
	fs.BoolVar(&opts.interactive, "interactive", false, "prompt for missing required tags")
	fs.BoolVar(&opts.export, "export", false, "print the document re-assembled from metadata and HTML")
	fs.BoolVar(&opts.verbose, "v", false, "verbose logging")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "usage: mdform [flags] FILE...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	opts.files = fs.Args()
	if len(opts.files) == 0 {
		fs.Usage()
		return nil, errors.New("no input files")
	}
	return opts, nil
}

// apply overlays the command line flags on the loaded configuration.
func (o *options) apply(cfg *config.Config) {
	if o.engine != "" {
		cfg.Markdown.Engine = o.engine
	}
	if o.extensions != "" {
		cfg.Markdown.Extensions = splitCSV(o.extensions)
	}
	if o.syntax != "" {
		cfg.Markdown.Syntax = o.syntax
	}
	if o.sanitize != "" {
		cfg.Markdown.Sanitize = o.sanitize
	}
	if o.listKeys != "" {
		cfg.Markdown.ListKeys = append(cfg.Markdown.ListKeys, splitCSV(o.listKeys)...)
	}
	// Local files are accepted whatever their extension.
	cfg.Markdown.AllowedExtensions = nil
}

type document struct {
	path   string
	result field.Result
	err    error
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer, driver prompt.Driver) int {
	errorf := color.New(color.FgRed).FprintfFunc()
	headerf := color.New(color.FgCyan, color.Bold).FprintfFunc()

	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		errorf(stderr, "mdform: %v\n", err)
		return 2
	}

	logger := zap.NewNop()
	if opts.verbose {
		if logger, err = zap.NewDevelopment(); err != nil {
			errorf(stderr, "mdform: logger: %v\n", err)
			return 1
		}
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		errorf(stderr, "mdform: %v\n", err)
		return 1
	}
	opts.apply(cfg)
	if errs := cfg.Validate(); len(errs) > 0 {
		for _, verr := range errs {
			errorf(stderr, "mdform: config %v\n", verr)
		}
		return 1
	}

	fieldOptions, err := cfg.Markdown.FieldOptions()
	if err != nil {
		errorf(stderr, "mdform: %v\n", err)
		return 1
	}
	md, err := field.New(fieldOptions...)
	if err != nil {
		errorf(stderr, "mdform: %v\n", err)
		return 1
	}

	docs := convertAll(ctx, logger, md, opts.files)

	required := splitCSV(opts.require)
	failed := false
	for i := range docs {
		doc := &docs[i]
		if doc.err == nil && len(required) > 0 {
			doc.err = requireKeys(ctx, doc, required, md.ListKeys(), opts.interactive, driver)
		}
		if doc.err != nil {
			failed = true
			errorf(stderr, "%s: %s\n", doc.path, strings.Join(field.Messages(doc.err), "; "))
			continue
		}

		if len(docs) > 1 {
			headerf(stdout, "==> %s <==\n", doc.path)
		}
		out, err := format(doc.result, opts.export)
		if err != nil {
			failed = true
			errorf(stderr, "%s: %v\n", doc.path, err)
			continue
		}
		fmt.Fprint(stdout, out)
	}

	if failed {
		return 1
	}
	return 0
}

// convertAll cleans every file concurrently. Results keep the input order.
func convertAll(ctx context.Context, logger *zap.Logger, md *field.Markdown, paths []string) []document {
	docs := make([]document, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, path := range paths {
		g.Go(func() error {
			docs[i] = convertFile(gctx, md, path)
			if docs[i].err != nil {
				logger.Debug("convert failed", zap.String("path", path), zap.Error(docs[i].err))
			} else {
				logger.Debug("converted", zap.String("path", path), zap.Int("tags", len(docs[i].result.Meta)))
			}
			// Per file failures are reported, not propagated.
			return nil
		})
	}
	_ = g.Wait()
	return docs
}

func convertFile(ctx context.Context, md *field.Markdown, path string) document {
	doc := document{path: path}
	if err := ctx.Err(); err != nil {
		doc.err = err
		return doc
	}
	f, err := os.Open(path)
	if err != nil {
		doc.err = err
		return doc
	}
	defer f.Close()

	upload, err := field.FromReader(path, f)
	if err != nil {
		doc.err = err
		return doc
	}
	doc.result, doc.err = md.Clean(upload)
	return doc
}

func requireKeys(ctx context.Context, doc *document, required, listKeys []string, interactive bool, driver prompt.Driver) error {
	missing := prompt.Missing(doc.result.Meta, required)
	if len(missing) == 0 {
		return nil
	}
	if !interactive || driver == nil {
		return fmt.Errorf("missing required tags: %s", strings.Join(missing, ", "))
	}
	filled, err := prompt.Fill(ctx, driver, doc.result.Meta, required, listKeys)
	if err != nil {
		return err
	}
	doc.result.Meta = filled
	return nil
}

func format(result field.Result, export bool) (string, error) {
	if export {
		body, err := markdown.ToMarkdown(result.HTML)
		if err != nil {
			return "", err
		}
		return meta.Format(result.Meta, body), nil
	}
	out, err := meta.FormatYAML(result.Meta, result.HTML)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

func splitCSV(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
