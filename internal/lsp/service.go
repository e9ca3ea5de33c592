// Package lsp adapts the component parser's diagnostics to the language
// server protocol.
package lsp

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/sourcegraph/go-lsp"

	taildown "github.com/vincitamore/taildown-sub000"
)

// DocumentService parses taildown documents on behalf of the language server
// and converts parse diagnostics into LSP diagnostics.
type DocumentService struct {
	parser *taildown.Parser
}

func NewDocumentService() *DocumentService {
	return &DocumentService{
		parser: taildown.NewParser(),
	}
}

// Diagnostics parses content and returns the component-syntax problems as LSP
// diagnostics. The parse itself never fails on malformed component syntax, so
// an empty slice means the document is well-formed.
func (s *DocumentService) Diagnostics(content string, uri lsp.DocumentURI) ([]lsp.Diagnostic, error) {
	doc, err := s.parser.ParseDocument(strings.NewReader(content), taildown.MetaData{
		Source: string(uri),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}

	slog.Debug("computed diagnostics", "uri", uri, "count", len(doc.Diagnostics))

	diagnostics := make([]lsp.Diagnostic, 0, len(doc.Diagnostics))
	for _, d := range doc.Diagnostics {
		diagnostics = append(diagnostics, toLSPDiagnostic(d))
	}
	return diagnostics, nil
}

func toLSPDiagnostic(d taildown.Diagnostic) lsp.Diagnostic {
	line := d.Line - 1
	if line < 0 {
		line = 0
	}
	character := d.Column - 1
	if character < 0 {
		character = 0
	}

	message := d.Message
	if d.Suggestion != "" {
		message = fmt.Sprintf("%s (%s)", d.Message, d.Suggestion)
	}

	return lsp.Diagnostic{
		Range: lsp.Range{
			Start: lsp.Position{Line: line, Character: character},
			End:   lsp.Position{Line: line, Character: character},
		},
		Severity: severityFor(d.Kind),
		Source:   "taildown",
		Message:  message,
	}
}

func severityFor(kind taildown.DiagnosticKind) lsp.DiagnosticSeverity {
	switch kind {
	case taildown.DiagnosticInvalidName, taildown.DiagnosticMalformedAttributes:
		return lsp.Error
	default:
		return lsp.Warning
	}
}

// URIToPath converts an LSP URI to a filesystem path
func URIToPath(uri lsp.DocumentURI) (string, error) {
	u, err := url.Parse(string(uri))
	if err != nil {
		return "", err
	}
	return u.Path, nil
}

// PathToURI converts a filesystem path to an LSP URI
func PathToURI(path string) lsp.DocumentURI {
	return lsp.DocumentURI("file://" + path)
}
