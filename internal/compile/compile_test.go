package compile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gotest.tools/v3/golden"

	taildown "github.com/vincitamore/taildown-sub000"
)

func TestRenderHTMLGolden(t *testing.T) {
	tests := []struct {
		name      string
		inFile    string
		wantDiags int
	}{
		{
			name:   "components with classes and attributes",
			inFile: "basic",
		},
		{
			name:      "unclosed component is auto-closed",
			inFile:    "unclosed",
			wantDiags: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input, err := os.ReadFile(fmt.Sprintf("testdata/%s.td", tt.inFile))
			require.NoError(t, err)

			c := New(Options{NoBackup: true})
			doc, body, err := c.RenderHTML(Source{
				Content:  bytes.NewReader(input),
				Metadata: taildown.MetaData{Source: fmt.Sprintf("testdata/%s.td", tt.inFile)},
			})
			require.NoError(t, err)
			require.Len(t, doc.Diagnostics, tt.wantDiags)

			golden.Assert(t, body, fmt.Sprintf("%s.golden.html", tt.inFile))
		})
	}
}

func TestCompileWritesNextToSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "page.td")
	require.NoError(t, os.WriteFile(src, []byte(":::card\nhello\n:::\n"), 0644))

	c := New(Options{NoBackup: true})
	f, err := os.Open(src)
	require.NoError(t, err)
	defer f.Close()

	out, err := c.Compile(Source{Content: f, Metadata: taildown.MetaData{Source: src}})
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "page.html"), out)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(html), `data-component="card"`)
	require.Contains(t, string(html), "<p>hello</p>")
}

func TestCompileRequiresSourceMetadata(t *testing.T) {
	c := New(Options{})
	_, err := c.Compile(Source{Content: strings.NewReader("x\n")})
	require.Error(t, err)
}

func TestCompileToPathStandalone(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "page.html")

	c := New(Options{Standalone: true, Title: "Demo Page", NoBackup: true})
	_, err := c.CompileToPath(Source{
		Content:  strings.NewReader("# Hi\n"),
		Metadata: taildown.MetaData{Source: "page.td"},
	}, out)
	require.NoError(t, err)

	html, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Contains(t, string(html), "<!doctype html>")
	require.Contains(t, string(html), "<title>Demo Page</title>")
	require.Contains(t, string(html), "<h1>Hi</h1>")
}

func TestOptionsPretty(t *testing.T) {
	require.Equal(t, "standalone=no backup=yes", (&Options{}).Pretty())
	require.Equal(t, "standalone=yes backup=no", (&Options{Standalone: true, NoBackup: true}).Pretty())
}

func TestUnknownComponentsAreReported(t *testing.T) {
	src := strings.Join([]string{
		":::card",
		"known",
		":::",
		":::mystery",
		":::wat",
		"nested",
		":::",
		":::",
		":::mystery",
		"again",
		":::",
		"",
	}, "\n")

	c := New(Options{NoBackup: true})
	doc, _, err := c.RenderHTML(Source{
		Content:  strings.NewReader(src),
		Metadata: taildown.MetaData{Source: "unknown.td"},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"mystery", "wat"}, unknownComponents(doc.Root, c.registry))
}

func TestCompileToPathBacksUpExistingOutput(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(out, []byte("old output"), 0644))

	c := New(Options{})
	_, err := c.CompileToPath(Source{
		Content:  strings.NewReader("new\n"),
		Metadata: taildown.MetaData{Source: "page.td"},
	}, out)
	require.NoError(t, err)

	matches, err := filepath.Glob(out + ".*.bak")
	require.NoError(t, err)
	require.Len(t, matches, 1)

	backup, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	require.Equal(t, "old output", string(backup))
}
