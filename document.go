package taildown

import gast "github.com/yuin/goldmark/ast"

// Document represents a parsed taildown document: the recovered component
// tree, the diagnostics produced while recovering it, and any other required
// metadata about the source file
type Document struct {
	// Metadata about the source file
	Metadata MetaData
	// The raw source bytes the tree's segments point into
	Source []byte
	// The goldmark document node after component-block recovery.
	// Recognized `:::name ... :::` spans appear as [ContainerNode] blocks.
	Root gast.Node
	// Non-fatal problems found while recovering component blocks
	Diagnostics []Diagnostic
}

type MetaData struct {
	// The source file path
	Source string
}
