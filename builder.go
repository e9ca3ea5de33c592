package taildown

import (
	"fmt"
	"regexp"
	"strings"

	gast "github.com/yuin/goldmark/ast"
)

var componentNameRegex = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

// validComponentName applies the naming rules for opening markers: the fence
// grammar, no trailing hyphen and no consecutive hyphens.
func validComponentName(name string) bool {
	if !componentNameRegex.MatchString(name) {
		return false
	}
	return !strings.HasSuffix(name, "-") && !strings.Contains(name, "--")
}

// componentFrame is an in-progress container on the builder stack: the node
// shell for a component whose closing fence has not been seen yet, and its
// accumulating children.
type componentFrame struct {
	node     *ContainerNode
	children []gast.Node
}

func (f *componentFrame) finalize() *ContainerNode {
	for _, c := range f.children {
		f.node.AppendChild(f.node, c)
	}
	return f.node
}

// buildTree consumes the scanner's item sequence with a LIFO stack and
// returns the replacement sibling list for that tree level. It always
// terminates with a valid tree:
//
//   - an opening marker with an invalid name is dropped (InvalidName)
//   - a closing marker with no open component is dropped (ExtraClose)
//   - components still open at end of input are auto-closed in stack order
//     (UnclosedComponent), each diagnostic pointing at the opening fence
func buildTree(items []scanItem, sink DiagnosticSink) []gast.Node {
	var root []gast.Node
	var stack []*componentFrame

	appendNode := func(n gast.Node) {
		if len(stack) > 0 {
			top := stack[len(stack)-1]
			top.children = append(top.children, n)
			return
		}
		root = append(root, n)
	}

	for _, it := range items {
		switch v := it.(type) {
		case contentItem:
			appendNode(v.node)
		case markerItem:
			m := v.marker
			switch m.Kind {
			case MarkerOpen:
				if !validComponentName(m.Name) {
					sink(Diagnostic{
						Kind:       DiagnosticInvalidName,
						Message:    fmt.Sprintf("invalid component name %q", m.Name),
						Line:       m.Line,
						Column:     m.Column,
						Suggestion: "component names start with a letter and use lowercase letters, digits and single hyphens",
					})
					continue
				}
				node := NewContainerNode(m.Name, m.Classes, m.Attributes)
				node.Line = m.Line
				node.Column = m.Column
				stack = append(stack, &componentFrame{node: node})
			case MarkerClose:
				if len(stack) == 0 {
					sink(Diagnostic{
						Kind:    DiagnosticExtraClose,
						Message: "closing fence without a matching open component",
						Line:    m.Line,
						Column:  m.Column,
					})
					continue
				}
				frame := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				appendNode(frame.finalize())
			}
		}
	}

	// drain still-open frames from the most recently opened downward
	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		sink(Diagnostic{
			Kind: DiagnosticUnclosedComponent,
			Message: fmt.Sprintf("unclosed component %q opened at line %d",
				frame.node.ComponentName, frame.node.Line),
			Line:       frame.node.Line,
			Column:     frame.node.Column,
			Suggestion: `add a closing ":::" fence`,
		})
		appendNode(frame.finalize())
	}
	return root
}
