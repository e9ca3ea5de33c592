package taildown

import (
	"strings"

	gast "github.com/yuin/goldmark/ast"
)

// KindContainer is the node kind of [ContainerNode].
var KindContainer = gast.NewNodeKind("TaildownContainer")

var _ gast.Node = (*ContainerNode)(nil)

// ContainerNode is a block node for a recovered `:::name {attrs} ... :::`
// component span. Its children are ordinary block content, including nested
// containers.
//
// Classes holds literal classes (dot stripped) and opaque tokens exactly as
// written; ComponentAttrs holds the key/value pairs. (The name avoids the
// Attributes method promoted from the embedded base node.) Neither is
// interpreted here: their semantic roles are resolved by a downstream pass at
// render time.
type ContainerNode struct {
	gast.BaseBlock
	ComponentName  string
	Classes        []string
	ComponentAttrs map[string]string
	// Line and Column of the opening fence, 1-based
	Line   int
	Column int
}

func NewContainerNode(name string, classes []string, attributes map[string]string) *ContainerNode {
	if attributes == nil {
		attributes = map[string]string{}
	}
	return &ContainerNode{
		ComponentName:  name,
		Classes:        classes,
		ComponentAttrs: attributes,
	}
}

func (n *ContainerNode) Kind() gast.NodeKind {
	return KindContainer
}

func (n *ContainerNode) Dump(source []byte, level int) {
	gast.DumpHelper(n, source, level, map[string]string{
		"Name":    n.ComponentName,
		"Classes": strings.Join(n.Classes, " "),
	}, nil)
}
