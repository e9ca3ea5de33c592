package taildown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	gast "github.com/yuin/goldmark/ast"
)

func parse(t *testing.T, source string) *Document {
	t.Helper()
	doc, err := NewParser().ParseDocument(strings.NewReader(source), MetaData{Source: "test.td"})
	require.NoError(t, err)
	return doc
}

// rootContainers returns the top-level container nodes in document order.
func rootContainers(doc *Document) []*ContainerNode {
	var out []*ContainerNode
	for c := doc.Root.FirstChild(); c != nil; c = c.NextSibling() {
		if cn, ok := c.(*ContainerNode); ok {
			out = append(out, cn)
		}
	}
	return out
}

// leafText collects every plain text leaf under n in document order.
func leafText(t *testing.T, doc *Document, n gast.Node) []string {
	t.Helper()
	var out []string
	err := gast.Walk(n, func(node gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		if txt, ok := node.(*gast.Text); ok {
			if v := string(txt.Segment.Value(doc.Source)); v != "" {
				out = append(out, v)
			}
		}
		return gast.WalkContinue, nil
	})
	require.NoError(t, err)
	return out
}

func joinedText(t *testing.T, doc *Document, n gast.Node) string {
	return strings.Join(leafText(t, doc, n), "")
}

func TestNestedComponents(t *testing.T) {
	doc := parse(t, ":::a\n:::b\ntext\n:::\n:::\n")

	require.Empty(t, doc.Diagnostics)
	require.Equal(t, 1, doc.Root.ChildCount())

	a := doc.Root.FirstChild().(*ContainerNode)
	require.Equal(t, "a", a.ComponentName)
	require.Equal(t, 1, a.ChildCount())

	b := a.FirstChild().(*ContainerNode)
	require.Equal(t, "b", b.ComponentName)
	require.Equal(t, 1, b.ChildCount())
	require.Equal(t, "text", joinedText(t, doc, b.FirstChild()))
}

func TestUnclosedComponentRecovery(t *testing.T) {
	doc := parse(t, ":::a\ntext\n")

	require.Len(t, doc.Diagnostics, 1)
	d := doc.Diagnostics[0]
	require.Equal(t, DiagnosticUnclosedComponent, d.Kind)
	require.Equal(t, 1, d.Line, "diagnostic points at the opening fence")

	require.Equal(t, 1, doc.Root.ChildCount())
	a := doc.Root.FirstChild().(*ContainerNode)
	require.Equal(t, "a", a.ComponentName)
	require.Equal(t, "text", joinedText(t, doc, a))
}

func TestExtraCloseIsDropped(t *testing.T) {
	doc := parse(t, "text\n:::\n")

	require.Len(t, doc.Diagnostics, 1)
	require.Equal(t, DiagnosticExtraClose, doc.Diagnostics[0].Kind)
	require.Equal(t, 2, doc.Diagnostics[0].Line)

	require.Equal(t, 1, doc.Root.ChildCount())
	require.Empty(t, rootContainers(doc), "a close never creates a node")
	require.Equal(t, "text", joinedText(t, doc, doc.Root))
}

// Sibling components separated by blank lines are the primary regression
// scenario motivating this parser: generic directive parsers lose the second
// component because the fences land in separate paragraphs.
func TestBlankLineSiblings(t *testing.T) {
	doc := parse(t, ":::a\nx\n:::\n\n:::b\ny\n:::\n")

	require.Empty(t, doc.Diagnostics)
	containers := rootContainers(doc)
	require.Len(t, containers, 2)
	require.Equal(t, "a", containers[0].ComponentName)
	require.Equal(t, "x", joinedText(t, doc, containers[0]))
	require.Equal(t, "b", containers[1].ComponentName)
	require.Equal(t, "y", joinedText(t, doc, containers[1]))
}

func TestAdjacentMarkersYieldEmptySiblings(t *testing.T) {
	doc := parse(t, ":::a\n:::\n:::b\n:::\n")

	require.Empty(t, doc.Diagnostics)
	containers := rootContainers(doc)
	require.Len(t, containers, 2)
	require.Equal(t, 0, containers[0].ChildCount())
	require.Equal(t, 0, containers[1].ChildCount())
}

func TestAttributeRecovery(t *testing.T) {
	doc := parse(t, ":::card {.shadow-lg primary size=\"lg\"}\nbody\n:::\n")

	require.Empty(t, doc.Diagnostics)
	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	card := containers[0]
	require.Equal(t, "card", card.ComponentName)
	require.Equal(t, []string{"shadow-lg", "primary"}, card.Classes)
	require.Equal(t, map[string]string{"size": "lg"}, card.ComponentAttrs)
}

func TestCodeBlockExclusion(t *testing.T) {
	doc := parse(t, "```\n:::fake\n:::\n```\n")

	require.Empty(t, doc.Diagnostics)
	require.Empty(t, rootContainers(doc))
	require.Equal(t, 1, doc.Root.ChildCount())

	cb, ok := doc.Root.FirstChild().(*gast.FencedCodeBlock)
	require.True(t, ok)

	var code strings.Builder
	for i := 0; i < cb.Lines().Len(); i++ {
		seg := cb.Lines().At(i)
		code.Write(seg.Value(doc.Source))
	}
	require.Equal(t, ":::fake\n:::\n", code.String())
}

func TestInlineCodeExclusion(t *testing.T) {
	doc := parse(t, "prose with `:::` inside\n")

	require.Empty(t, doc.Diagnostics)
	require.Empty(t, rootContainers(doc))
}

// Shape 2: opening fence on the first line, closing fence on the last line,
// rich inline content sandwiched between.
func TestRichContentSandwich(t *testing.T) {
	doc := parse(t, ":::card\nA **useful** card.\n:::\n")

	require.Empty(t, doc.Diagnostics)
	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	card := containers[0]
	require.Equal(t, 1, card.ChildCount())

	para := card.FirstChild()
	require.Equal(t, "A useful card.", joinedText(t, doc, para))

	hasStrong := false
	for c := para.FirstChild(); c != nil; c = c.NextSibling() {
		if _, ok := c.(*gast.Emphasis); ok {
			hasStrong = true
		}
	}
	require.True(t, hasStrong, "formatted content survives recovery")
}

// Shape 3: opening fence at the start, no closing fence in the paragraph;
// the component body continues in later sibling blocks.
func TestLeadingFenceWithRichBody(t *testing.T) {
	doc := parse(t, ":::note\nsee [docs](https://example.com) for more\n")

	require.Len(t, doc.Diagnostics, 1)
	require.Equal(t, DiagnosticUnclosedComponent, doc.Diagnostics[0].Kind)

	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	note := containers[0]
	require.Equal(t, "note", note.ComponentName)
	require.Equal(t, "see docs for more", joinedText(t, doc, note))

	hasLink := false
	_ = gast.Walk(note, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if entering {
			if _, ok := n.(*gast.Link); ok {
				hasLink = true
			}
		}
		return gast.WalkContinue, nil
	})
	require.True(t, hasLink)
}

// Shape 4: fences only at the end of a paragraph, prose before them.
func TestTrailingFenceAfterRichContent(t *testing.T) {
	doc := parse(t, ":::card\n\nbody with [a link](https://example.com)\n:::\n")

	require.Empty(t, doc.Diagnostics)
	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	card := containers[0]
	require.Equal(t, "body with a link", joinedText(t, doc, card))
}

func TestComponentBodySpansMultipleBlocks(t *testing.T) {
	doc := parse(t, ":::card\n\nFirst paragraph.\n\nSecond paragraph.\n\n:::\n")

	require.Empty(t, doc.Diagnostics)
	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	require.Equal(t, 2, containers[0].ChildCount())
}

// Markers recovered inside list items hoist after the list, so a component
// can immediately follow a list at the same depth instead of nesting inside
// its last item.
func TestListMarkerHoisting(t *testing.T) {
	doc := parse(t, "- alpha\n- beta\n:::note\n\nBody paragraph.\n\n:::\n")

	require.Empty(t, doc.Diagnostics)
	require.Equal(t, 2, doc.Root.ChildCount())

	list, ok := doc.Root.FirstChild().(*gast.List)
	require.True(t, ok)
	require.Equal(t, 2, list.ChildCount())
	require.Equal(t, "beta", joinedText(t, doc, list.LastChild()), "fence text stripped from the item")

	note, ok := doc.Root.LastChild().(*ContainerNode)
	require.True(t, ok)
	require.Equal(t, "note", note.ComponentName)
	require.Equal(t, "Body paragraph.", joinedText(t, doc, note))
}

func TestInvalidNameDropsOpenMarker(t *testing.T) {
	doc := parse(t, ":::my-card-\ntext\n:::\n")

	require.Len(t, doc.Diagnostics, 2)
	require.Equal(t, DiagnosticInvalidName, doc.Diagnostics[0].Kind)
	require.Equal(t, DiagnosticExtraClose, doc.Diagnostics[1].Kind, "orphaned close after the dropped open")

	require.Empty(t, rootContainers(doc))
	require.Equal(t, "text", joinedText(t, doc, doc.Root))
}

func TestMalformedAttributesDemoteFenceLine(t *testing.T) {
	doc := parse(t, ":::card {size=\"lg}\ntext\n:::\n")

	require.Len(t, doc.Diagnostics, 2)
	require.Equal(t, DiagnosticMalformedAttributes, doc.Diagnostics[0].Kind)
	require.Equal(t, 1, doc.Diagnostics[0].Line)
	require.Equal(t, DiagnosticExtraClose, doc.Diagnostics[1].Kind)

	require.Empty(t, rootContainers(doc))
	require.Contains(t, joinedText(t, doc, doc.Root), ":::card {size=\"lg}")
}

func TestFenceLineGrammar(t *testing.T) {
	tests := []struct {
		name           string
		source         string
		wantContainers int
		wantDiags      int
	}{
		{"trailing garbage is content", ":::card extra\ntext\n", 0, 0},
		{"space before name is content", "::: card\ntext\n", 0, 0},
		{"missing space before attrs is content", ":::card{.x}\ntext\n", 0, 0},
		{"empty attr block is content", ":::card {}\ntext\n", 0, 0},
		{"uppercase name is content", ":::Card\ntext\n", 0, 0},
		{"plain open is a marker", ":::card\ntext\n", 1, 1}, // unclosed
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			doc := parse(t, tc.source)
			require.Len(t, rootContainers(doc), tc.wantContainers)
			require.Len(t, doc.Diagnostics, tc.wantDiags)
		})
	}
}

func TestZeroDiagnosticsForWellFormedInput(t *testing.T) {
	source := strings.Join([]string{
		"# Title",
		"",
		":::grid {.gap-8 3}",
		"",
		":::card",
		"one",
		":::",
		"",
		":::card",
		"two",
		":::",
		"",
		":::",
		"",
		"Closing prose.",
		"",
	}, "\n")

	doc := parse(t, source)
	require.Empty(t, doc.Diagnostics)

	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	grid := containers[0]
	require.Equal(t, "grid", grid.ComponentName)
	require.Equal(t, []string{"gap-8", "3"}, grid.Classes)

	var cards []*ContainerNode
	for c := grid.FirstChild(); c != nil; c = c.NextSibling() {
		if cn, ok := c.(*ContainerNode); ok {
			cards = append(cards, cn)
		}
	}
	require.Len(t, cards, 2)
}

func TestContentPreservation(t *testing.T) {
	source := strings.Join([]string{
		"Intro paragraph.",
		"",
		":::card",
		"First line.",
		"Second line.",
		":::",
		"",
		"- alpha",
		"- beta",
		"",
	}, "\n")

	doc := parse(t, source)
	require.Empty(t, doc.Diagnostics)
	require.Equal(t, []string{
		"Intro paragraph.",
		"First line.",
		"Second line.",
		"alpha",
		"beta",
	}, leafText(t, doc, doc.Root), "leaf content survives in original order")
}

func TestSiblingOrderPreserved(t *testing.T) {
	doc := parse(t, "before\n\n:::a\nx\n:::\n\nafter\n")

	require.Empty(t, doc.Diagnostics)
	require.Equal(t, 3, doc.Root.ChildCount())
	require.Equal(t, "before", joinedText(t, doc, doc.Root.FirstChild()))
	_, ok := doc.Root.FirstChild().NextSibling().(*ContainerNode)
	require.True(t, ok)
	require.Equal(t, "after", joinedText(t, doc, doc.Root.LastChild()))
}

func TestMarkerPositionsRecorded(t *testing.T) {
	doc := parse(t, "intro\n\n:::card\nbody\n")

	require.Len(t, doc.Diagnostics, 1)
	containers := rootContainers(doc)
	require.Len(t, containers, 1)
	require.Equal(t, 3, containers[0].Line)
	require.Equal(t, 1, containers[0].Column)
	require.Equal(t, 3, doc.Diagnostics[0].Line)
}
