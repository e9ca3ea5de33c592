// Package render turns a recovered component tree into HTML. Container nodes
// render as divs whose classes are resolved by an injected [ClassResolver];
// everything else is handled by the stock goldmark HTML renderer.
package render

import (
	"regexp"
	"sort"
	"strings"

	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/renderer"
	ghtml "github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"

	taildown "github.com/vincitamore/taildown-sub000"
)

// ClassResolver resolves the raw class tokens of a container into final
// style classes. The parser keeps tokens opaque; this is the downstream
// semantic pass.
type ClassResolver interface {
	Resolve(name string, tokens []string, attributes map[string]string) []string
}

var attrNameRegex = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// ContainerHTMLRenderer renders [taildown.ContainerNode] blocks.
type ContainerHTMLRenderer struct {
	resolver ClassResolver
}

// NewContainerHTMLRenderer returns a goldmark node renderer for container
// nodes. resolver may be nil, in which case raw tokens are emitted as-is.
func NewContainerHTMLRenderer(resolver ClassResolver) renderer.NodeRenderer {
	return &ContainerHTMLRenderer{resolver: resolver}
}

func (r *ContainerHTMLRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(taildown.KindContainer, r.renderContainer)
}

func (r *ContainerHTMLRenderer) renderContainer(w util.BufWriter, source []byte, node gast.Node, entering bool) (gast.WalkStatus, error) {
	n := node.(*taildown.ContainerNode)
	if !entering {
		_, _ = w.WriteString("</div>\n")
		return gast.WalkContinue, nil
	}

	classes := n.Classes
	if r.resolver != nil {
		classes = r.resolver.Resolve(n.ComponentName, n.Classes, n.ComponentAttrs)
	}

	_, _ = w.WriteString(`<div data-component="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.ComponentName)))
	_, _ = w.WriteString(`"`)
	if len(classes) > 0 {
		_, _ = w.WriteString(` class="`)
		_, _ = w.Write(util.EscapeHTML([]byte(strings.Join(classes, " "))))
		_, _ = w.WriteString(`"`)
	}
	for _, key := range sortedAttrKeys(n.ComponentAttrs) {
		if key == "class" || !attrNameRegex.MatchString(key) {
			continue
		}
		_, _ = w.WriteString(" ")
		_, _ = w.WriteString(key)
		_, _ = w.WriteString(`="`)
		_, _ = w.Write(util.EscapeHTML([]byte(n.ComponentAttrs[key])))
		_, _ = w.WriteString(`"`)
	}
	_, _ = w.WriteString(">\n")
	return gast.WalkContinue, nil
}

func sortedAttrKeys(attributes map[string]string) []string {
	keys := make([]string, 0, len(attributes))
	for k := range attributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// NewDocumentRenderer returns an HTML renderer for full documents: the stock
// goldmark HTML renderer plus container node support.
func NewDocumentRenderer(resolver ClassResolver) renderer.Renderer {
	return renderer.NewRenderer(renderer.WithNodeRenderers(
		util.Prioritized(ghtml.NewRenderer(ghtml.WithUnsafe()), 1000),
		util.Prioritized(NewContainerHTMLRenderer(resolver), 500),
	))
}
