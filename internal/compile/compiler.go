// Package compile orchestrates the parse and render steps for one taildown
// source: markdown front end, component-block recovery, HTML output.
package compile

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"

	taildown "github.com/vincitamore/taildown-sub000"
	"github.com/vincitamore/taildown-sub000/internal/registry"
	"github.com/vincitamore/taildown-sub000/internal/render"
)

type Options struct {
	// If true, wrap the rendered body in a standalone HTML page
	Standalone bool
	// Page title for standalone output; defaults to the source file name
	Title string
	// If true, no backup will be created when overwriting existing output
	NoBackup bool
}

func (o *Options) Pretty() string {
	return fmt.Sprintf("standalone=%s backup=%s",
		boolToText(o.Standalone), boolToText(!o.NoBackup))
}

func boolToText(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

type Compiler struct {
	parser   *taildown.Parser
	registry *registry.Registry
	renderer renderer.Renderer

	opts Options
}

// New creates a Compiler with the specified options [Options]
func New(opts Options) *Compiler {
	reg := registry.Default()
	return &Compiler{
		parser:   taildown.NewParser(),
		registry: reg,
		renderer: render.NewDocumentRenderer(reg),
		opts:     opts,
	}
}

type Source struct {
	Content  io.Reader
	Metadata taildown.MetaData
}

// Compile parses and renders input, writing HTML next to the source file
// (foo.td becomes foo.html). It returns the output path.
func (c *Compiler) Compile(input Source) (string, error) {
	if input.Metadata.Source == "" {
		return "", fmt.Errorf("source metadata is required for compilation")
	}
	return c.CompileToPath(input, taildown.ResolveOutputPath(input.Metadata.Source))
}

// CompileToPath parses and renders input to a specific output path.
func (c *Compiler) CompileToPath(input Source, outPath string) (string, error) {
	slog.Debug("compiling document",
		"path", input.Metadata.Source,
		"options", c.opts.Pretty())

	doc, body, err := c.RenderHTML(input)
	if err != nil {
		return "", err
	}

	for _, d := range doc.Diagnostics {
		slog.Warn("component syntax problem",
			"kind", d.Kind.String(),
			"line", d.Line,
			"message", d.Message,
			"source", input.Metadata.Source)
	}

	for _, name := range unknownComponents(doc.Root, c.registry) {
		slog.Warn("unknown component, class tokens pass through unresolved",
			"component", name,
			"source", input.Metadata.Source)
	}

	if !c.opts.NoBackup {
		if _, err := taildown.NewBackupManager(outPath).CreateBackup(); err != nil {
			return "", fmt.Errorf("backup error: %w", err)
		}
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if c.opts.Standalone {
		title := c.opts.Title
		if title == "" {
			title = filepath.Base(input.Metadata.Source)
		}
		if err := render.WritePage(f, title, body); err != nil {
			return "", fmt.Errorf("writing page: %w", err)
		}
		return outPath, nil
	}
	if _, err := f.WriteString(body); err != nil {
		return "", fmt.Errorf("writing output: %w", err)
	}
	return outPath, nil
}

// RenderHTML parses input and renders the document body to an HTML string,
// without touching the filesystem.
func (c *Compiler) RenderHTML(input Source) (*taildown.Document, string, error) {
	doc, err := c.parser.ParseDocument(input.Content, input.Metadata)
	if err != nil {
		return nil, "", fmt.Errorf("parse error: %w", err)
	}

	var buf bytes.Buffer
	if err := c.renderer.Render(&buf, doc.Source, doc.Root); err != nil {
		return nil, "", fmt.Errorf("render error: %w", err)
	}
	return doc, buf.String(), nil
}

// unknownComponents lists the component names used in the tree under root
// that reg has no style tables for, in document order without duplicates.
func unknownComponents(root gast.Node, reg *registry.Registry) []string {
	var names []string
	seen := map[string]bool{}
	_ = gast.Walk(root, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if cn, ok := n.(*taildown.ContainerNode); ok &&
			!reg.Known(cn.ComponentName) && !seen[cn.ComponentName] {
			seen[cn.ComponentName] = true
			names = append(names, cn.ComponentName)
		}
		return gast.WalkContinue, nil
	})
	return names
}
