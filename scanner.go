package taildown

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	gast "github.com/yuin/goldmark/ast"
)

// closeFence is a closing fence line. There are no named closers: a close
// always matches the most recently opened component.
const closeFence = ":::"

// openFenceRegex matches a trimmed opening fence line: `:::name` optionally
// followed by exactly one space and a `{...}` attribute block. Any trailing
// garbage invalidates the match and the line stays ordinary content.
var openFenceRegex = regexp.MustCompile(`^:::([a-z][a-z0-9-]*)( \{([^}]+)\})?$`)

// MarkerKind distinguishes opening from closing fence markers.
type MarkerKind int

const (
	MarkerOpen MarkerKind = iota
	MarkerClose
)

// ComponentMarker is a fence marker recovered from the block tree.
type ComponentMarker struct {
	Kind MarkerKind
	// Name, Classes and Attributes are set for opening markers only
	Name       string
	Classes    []string
	Attributes map[string]string
	// Line and Column of the fence, 1-based
	Line   int
	Column int
	// OriginalText is the trimmed fence line, kept for diagnostics
	OriginalText string
}

// scanItem is the unit the scanner hands to the builder: either a content
// block that passes through, or a recovered fence marker. The two cases are a
// closed sum; the builder switches exhaustively over them.
type scanItem interface {
	isScanItem()
}

type contentItem struct {
	node gast.Node
}

func (contentItem) isScanItem() {}

type markerItem struct {
	marker ComponentMarker
}

func (markerItem) isScanItem() {}

// scanBlocks walks the block-level children of parent and emits the ordered
// content/marker item sequence for that level.
//
// Code blocks and raw HTML are never scanned for fence markers. Lists recurse
// into their items, hoisting recovered markers after the list itself.
// Paragraphs (and the text blocks of tight list items) go through paragraph
// recovery, since the upstream tokenizer merges contiguous non-blank lines
// into a single node. Everything else passes through unchanged.
func scanBlocks(source []byte, parent gast.Node, sink DiagnosticSink) []scanItem {
	var items []scanItem
	for child := parent.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *gast.FencedCodeBlock, *gast.CodeBlock, *gast.HTMLBlock:
			items = append(items, contentItem{node: child})
		case *gast.List:
			items = append(items, scanList(source, node, sink)...)
		case *gast.Paragraph:
			items = append(items, recoverBlock(source, node, false, sink)...)
		case *gast.TextBlock:
			items = append(items, recoverBlock(source, node, true, sink)...)
		default:
			items = append(items, contentItem{node: child})
		}
	}
	return items
}

// scanList recurses into each list item. Items whose text contains fence
// markers are rewritten to their marker-free content, and the markers are
// emitted after the list. A component can therefore immediately follow a
// list at the same depth instead of nesting inside its last item.
func scanList(source []byte, list *gast.List, sink DiagnosticSink) []scanItem {
	var hoisted []scanItem
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		// the scan may have rebuilt blocks even when no marker is found, so
		// the item's children are always rewritten from its result
		sub := scanBlocks(source, item, sink)
		item.RemoveChildren(item)
		for _, it := range sub {
			switch v := it.(type) {
			case contentItem:
				item.AppendChild(item, v.node)
			case markerItem:
				hoisted = append(hoisted, v)
			}
		}
	}
	return append([]scanItem{contentItem{node: list}}, hoisted...)
}

// recoveredLine is one source line reconstructed from a paragraph's plain
// text nodes.
type recoveredLine struct {
	text  string
	nodes []gast.Node
	// start is the source offset of the first node on the line
	start  int
	end    int
	lineNo int
	// completeStart/completeEnd report whether the plain text covers the
	// whole source line. A line shared with a formatted construct (a link
	// on the same line as trailing `:::` text, say) is never a fence.
	completeStart bool
	completeEnd   bool
}

// inlineRun is a maximal run of plain text nodes, or a single formatted
// construct (link, emphasis, code span, ...). The upstream tokenizer
// guarantees this shape: identically-formatted text is one node, distinct
// inline constructs are separate siblings.
type inlineRun struct {
	isText bool
	node   gast.Node // formatted runs only
	lines  []recoveredLine
}

// recoverBlock re-derives line-level fence structure from a paragraph that
// merged fence lines with ordinary prose. textBlock selects the synthesized
// node kind, so tight list item content stays tight.
//
// Four shapes are recognized, inspecting the first and last text runs:
//
//  1. pure text: fences may appear on any line
//  2. opening fence on the first line, closing fence on the last, rich
//     content sandwiched between
//  3. opening fence first, no closing fence: the component body continues in
//     later sibling blocks
//  4. fences only at the end, prose or formatted content before them
//
// Anything else passes through unchanged as content.
func recoverBlock(source []byte, block gast.Node, textBlock bool, sink DiagnosticSink) []scanItem {
	if !mentionsFence(source, block) {
		return []scanItem{contentItem{node: block}}
	}
	runs := splitInlineRuns(source, block)
	if len(runs) == 0 {
		return []scanItem{contentItem{node: block}}
	}

	allText := true
	for _, r := range runs {
		if !r.isText {
			allText = false
			break
		}
	}
	if allText {
		// runs only split at formatted constructs, so this is one run
		return recoverTextRun(source, runs[0], textBlock, sink)
	}

	first, last := runs[0], runs[len(runs)-1]
	firstOpens := first.isText && len(first.lines) > 0 && isOpenFenceLine(first.lines[0])
	lastCloses := last.isText && len(last.lines) > 0 &&
		isCloseFenceLine(last.lines[len(last.lines)-1])

	if firstOpens && lastCloses && !fenceBetween(runs[1:len(runs)-1]) {
		return recoverSandwich(source, runs, textBlock, sink)
	}
	if firstOpens && !anyCloseFence(runs) {
		return recoverLeading(source, runs, textBlock, sink)
	}
	if last.isText && len(last.lines) > 0 && isFenceLine(last.lines[len(last.lines)-1]) &&
		!fenceOutsideTail(runs) {
		return recoverTrailing(source, runs, textBlock, sink)
	}
	return []scanItem{contentItem{node: block}}
}

// recoverTextRun handles shape 1: classify every line, flushing accumulated
// content lines into a synthesized block whenever a marker line is hit.
// Adjacent marker lines yield back-to-back markers with no content between.
func recoverTextRun(source []byte, run inlineRun, textBlock bool, sink DiagnosticSink) []scanItem {
	var items []scanItem
	var pending []gast.Node
	flush := func() {
		if len(pending) == 0 {
			return
		}
		items = append(items, contentItem{node: blockFromNodes(pending, textBlock)})
		pending = nil
	}
	for _, ln := range run.lines {
		if mk, ok := classifyFenceLine(source, ln, sink); ok {
			flush()
			items = append(items, markerItem{marker: mk})
			continue
		}
		pending = append(pending, ln.nodes...)
	}
	flush()
	return items
}

// recoverSandwich handles shape 2: markers recovered from the first text run,
// one synthesized block holding everything in between, then markers recovered
// from the last text run. Both edge runs may carry more than one fence line.
func recoverSandwich(source []byte, runs []inlineRun, textBlock bool, sink DiagnosticSink) []scanItem {
	openMarkers, openLeftover := markersAndLeftovers(source, runs[0], sink)
	closeMarkers, closeLeftover := markersAndLeftovers(source, runs[len(runs)-1], sink)

	var middle []gast.Node
	middle = append(middle, openLeftover...)
	for _, r := range runs[1 : len(runs)-1] {
		middle = append(middle, runNodes(r)...)
	}
	middle = append(middle, closeLeftover...)

	items := openMarkers
	if len(middle) > 0 {
		items = append(items, contentItem{node: blockFromNodes(middle, textBlock)})
	}
	return append(items, closeMarkers...)
}

// recoverLeading handles shape 3: the opening marker lines at the very start,
// then one synthesized block from everything that remains. The component body
// continues in later sibling blocks.
func recoverLeading(source []byte, runs []inlineRun, textBlock bool, sink DiagnosticSink) []scanItem {
	var items []scanItem
	first := runs[0]
	i := 0
	for i < len(first.lines) && isFenceLine(first.lines[i]) {
		mk, ok := classifyFenceLine(source, first.lines[i], sink)
		if !ok {
			// demoted to content; the rest of the run follows it
			break
		}
		items = append(items, markerItem{marker: mk})
		i++
	}

	var rest []gast.Node
	for _, ln := range first.lines[i:] {
		rest = append(rest, ln.nodes...)
	}
	for _, r := range runs[1:] {
		rest = append(rest, runNodes(r)...)
	}
	if len(rest) > 0 {
		items = append(items, contentItem{node: blockFromNodes(rest, textBlock)})
	}
	return items
}

// recoverTrailing handles shape 4: one synthesized block from the leading
// material with the fence text stripped out, then the trailing markers.
func recoverTrailing(source []byte, runs []inlineRun, textBlock bool, sink DiagnosticSink) []scanItem {
	last := runs[len(runs)-1]
	k := len(last.lines)
	for k > 0 && isFenceLine(last.lines[k-1]) {
		k--
	}

	var leading []gast.Node
	for _, r := range runs[:len(runs)-1] {
		leading = append(leading, runNodes(r)...)
	}
	for _, ln := range last.lines[:k] {
		leading = append(leading, ln.nodes...)
	}

	var items []scanItem
	if len(leading) > 0 {
		items = append(items, contentItem{node: blockFromNodes(leading, textBlock)})
	}
	for _, ln := range last.lines[k:] {
		mk, ok := classifyFenceLine(source, ln, sink)
		if !ok {
			items = append(items, contentItem{node: blockFromNodes(ln.nodes, textBlock)})
			continue
		}
		items = append(items, markerItem{marker: mk})
	}
	return items
}

// markersAndLeftovers classifies every line of a text run, splitting it into
// recovered markers (in order) and the nodes of the lines that stay content.
func markersAndLeftovers(source []byte, run inlineRun, sink DiagnosticSink) (markers []scanItem, leftovers []gast.Node) {
	for _, ln := range run.lines {
		if mk, ok := classifyFenceLine(source, ln, sink); ok {
			markers = append(markers, markerItem{marker: mk})
			continue
		}
		leftovers = append(leftovers, ln.nodes...)
	}
	return markers, leftovers
}

func runNodes(r inlineRun) []gast.Node {
	if !r.isText {
		return []gast.Node{r.node}
	}
	var nodes []gast.Node
	for _, ln := range r.lines {
		nodes = append(nodes, ln.nodes...)
	}
	return nodes
}

// blockFromNodes synthesizes a replacement paragraph (or text block) from
// surviving inline nodes, preserving their original order. The trailing line
// break flag is cleared so the stripped fence line leaves no stray newline.
func blockFromNodes(nodes []gast.Node, textBlock bool) gast.Node {
	var block gast.Node
	if textBlock {
		block = gast.NewTextBlock()
	} else {
		block = gast.NewParagraph()
	}
	for _, n := range nodes {
		block.AppendChild(block, n)
	}
	if t, ok := block.LastChild().(*gast.Text); ok {
		t.SetSoftLineBreak(false)
		t.SetHardLineBreak(false)
	}
	return block
}

// splitInlineRuns reconstructs the inline segment view of a paragraph:
// maximal runs of plain text (grouped into source lines via their segment
// offsets) separated by formatted constructs.
func splitInlineRuns(source []byte, block gast.Node) []inlineRun {
	var runs []inlineRun
	var cur *inlineRun
	flush := func() {
		if cur != nil {
			runs = append(runs, *cur)
			cur = nil
		}
	}
	for c := block.FirstChild(); c != nil; c = c.NextSibling() {
		t, ok := c.(*gast.Text)
		if !ok {
			flush()
			runs = append(runs, inlineRun{node: c})
			continue
		}
		if cur == nil {
			cur = &inlineRun{isText: true}
		}
		lineNo := lineNumber(source, t.Segment.Start)
		if len(cur.lines) == 0 || cur.lines[len(cur.lines)-1].lineNo != lineNo {
			cur.lines = append(cur.lines, recoveredLine{
				start:         t.Segment.Start,
				lineNo:        lineNo,
				completeStart: startsSourceLine(source, t.Segment.Start),
			})
		}
		ln := &cur.lines[len(cur.lines)-1]
		ln.text += string(t.Segment.Value(source))
		ln.nodes = append(ln.nodes, c)
		ln.end = t.Segment.Stop
	}
	flush()
	for i := range runs {
		for j := range runs[i].lines {
			ln := &runs[i].lines[j]
			ln.completeEnd = endsSourceLine(source, ln.end)
		}
	}
	return runs
}

// classifyFenceLine turns a complete fence-shaped line into a marker. A
// malformed attribute block demotes the line to ordinary content with a
// diagnostic; it never fails the parse.
func classifyFenceLine(source []byte, ln recoveredLine, sink DiagnosticSink) (ComponentMarker, bool) {
	if !ln.completeStart || !ln.completeEnd {
		return ComponentMarker{}, false
	}
	trimmed := strings.TrimSpace(ln.text)
	if trimmed == closeFence {
		return ComponentMarker{
			Kind:         MarkerClose,
			Line:         ln.lineNo,
			Column:       columnNumber(source, ln.start),
			OriginalText: trimmed,
		}, true
	}
	m := openFenceRegex.FindStringSubmatch(trimmed)
	if m == nil {
		return ComponentMarker{}, false
	}
	var classes []string
	var attributes map[string]string
	if m[3] != "" {
		var ok bool
		classes, attributes, ok = parseAttributes(m[3])
		if !ok {
			sink(Diagnostic{
				Kind:       DiagnosticMalformedAttributes,
				Message:    fmt.Sprintf("cannot parse attributes in %q, treating line as content", trimmed),
				Line:       ln.lineNo,
				Column:     columnNumber(source, ln.start),
				Suggestion: `attribute values must be quoted, e.g. key="value"`,
			})
			return ComponentMarker{}, false
		}
	}
	return ComponentMarker{
		Kind:         MarkerOpen,
		Name:         m[1],
		Classes:      classes,
		Attributes:   attributes,
		Line:         ln.lineNo,
		Column:       columnNumber(source, ln.start),
		OriginalText: trimmed,
	}, true
}

// isFenceLine reports whether a line is fence-shaped, without emitting
// diagnostics. Used for shape detection only.
func isFenceLine(ln recoveredLine) bool {
	if !ln.completeStart || !ln.completeEnd {
		return false
	}
	trimmed := strings.TrimSpace(ln.text)
	return trimmed == closeFence || openFenceRegex.MatchString(trimmed)
}

func isOpenFenceLine(ln recoveredLine) bool {
	if !ln.completeStart || !ln.completeEnd {
		return false
	}
	trimmed := strings.TrimSpace(ln.text)
	return trimmed != closeFence && openFenceRegex.MatchString(trimmed)
}

func isCloseFenceLine(ln recoveredLine) bool {
	return ln.completeStart && ln.completeEnd && strings.TrimSpace(ln.text) == closeFence
}

func fenceBetween(runs []inlineRun) bool {
	for _, r := range runs {
		if !r.isText {
			continue
		}
		for _, ln := range r.lines {
			if isFenceLine(ln) {
				return true
			}
		}
	}
	return false
}

func anyCloseFence(runs []inlineRun) bool {
	for _, r := range runs {
		if !r.isText {
			continue
		}
		for _, ln := range r.lines {
			if isCloseFenceLine(ln) {
				return true
			}
		}
	}
	return false
}

// fenceOutsideTail reports whether any fence line exists before the trailing
// fence lines of the last run.
func fenceOutsideTail(runs []inlineRun) bool {
	if fenceBetween(runs[:len(runs)-1]) {
		return true
	}
	last := runs[len(runs)-1]
	k := len(last.lines)
	for k > 0 && isFenceLine(last.lines[k-1]) {
		k--
	}
	for _, ln := range last.lines[:k] {
		if isFenceLine(ln) {
			return true
		}
	}
	return false
}

func mentionsFence(source []byte, block gast.Node) bool {
	for c := block.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*gast.Text); ok &&
			bytes.Contains(t.Segment.Value(source), []byte(closeFence)) {
			return true
		}
	}
	return false
}

func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte("\n")) + 1
}

func columnNumber(source []byte, offset int) int {
	return offset - bytes.LastIndexByte(source[:offset], '\n')
}

// startsSourceLine reports whether only whitespace sits between the previous
// newline and offset.
func startsSourceLine(source []byte, offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch source[i] {
		case ' ', '\t':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}

// endsSourceLine reports whether only whitespace sits between offset and the
// next newline (or end of input).
func endsSourceLine(source []byte, offset int) bool {
	for i := offset; i < len(source); i++ {
		switch source[i] {
		case ' ', '\t', '\r':
			continue
		case '\n':
			return true
		default:
			return false
		}
	}
	return true
}
