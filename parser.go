package taildown

import (
	"io"
	"log/slog"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

type Parser struct {
	gm goldmark.Markdown
}

func NewParser() *Parser {
	return &Parser{
		gm: goldmark.New(),
	}
}

// ParseDocument parses a taildown document: the source is tokenized by the
// generic markdown front end, then the component-block pass recovers
// `:::name {attrs} ... :::` spans into [ContainerNode] blocks.
//
// Malformed component syntax never fails the parse; it is reported through
// [Document.Diagnostics] and the tree is repaired (markers dropped,
// components auto-closed).
func (p *Parser) ParseDocument(r io.Reader, md MetaData) (*Document, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	doc := &Document{
		Metadata: md,
		Source:   content,
	}

	root := p.gm.Parser().Parse(text.NewReader(content))
	ProcessBlocks(content, root, func(d Diagnostic) {
		doc.Diagnostics = append(doc.Diagnostics, d)
	})
	doc.Root = root

	slog.Debug("parsed document",
		"source", md.Source,
		"diagnostics", len(doc.Diagnostics))

	return doc, nil
}

// ProcessBlocks runs one scan+build pass over the block-level children of
// parent, replacing them with the recovered component tree. parent is
// typically the document node of a goldmark parse over source; embedders
// running their own goldmark pipeline can call this directly.
//
// A nil sink discards diagnostics.
func ProcessBlocks(source []byte, parent gast.Node, sink DiagnosticSink) {
	if sink == nil {
		sink = func(Diagnostic) {}
	}
	items := scanBlocks(source, parent, sink)
	replacement := buildTree(items, sink)
	parent.RemoveChildren(parent)
	for _, n := range replacement {
		parent.AppendChild(parent, n)
	}
}
