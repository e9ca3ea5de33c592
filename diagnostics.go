package taildown

// DiagnosticKind classifies the non-fatal problems the component parser can
// report. Parsing always produces a tree; none of these abort a parse.
type DiagnosticKind int

const (
	// DiagnosticInvalidName reports an opening fence whose component name
	// fails the naming rules. The marker is dropped.
	DiagnosticInvalidName DiagnosticKind = iota
	// DiagnosticExtraClose reports a closing fence with no open component.
	// The marker is dropped.
	DiagnosticExtraClose
	// DiagnosticUnclosedComponent reports a component still open at end of
	// input. The component is auto-closed.
	DiagnosticUnclosedComponent
	// DiagnosticMalformedAttributes reports an attribute block that could
	// not be tokenized. The fence line is demoted to ordinary content.
	DiagnosticMalformedAttributes
)

func (k DiagnosticKind) String() string {
	switch k {
	case DiagnosticInvalidName:
		return "invalid-name"
	case DiagnosticExtraClose:
		return "extra-close"
	case DiagnosticUnclosedComponent:
		return "unclosed-component"
	case DiagnosticMalformedAttributes:
		return "malformed-attributes"
	default:
		return "unknown"
	}
}

// Diagnostic is a non-fatal warning with a source position.
type Diagnostic struct {
	Kind    DiagnosticKind
	Message string
	// Line and Column are 1-based. Line 0 means the position is unknown.
	Line   int
	Column int
	// Suggestion optionally describes how to fix the problem
	Suggestion string
}

// DiagnosticSink receives diagnostics as they are produced. It is supplied by
// the caller and local to one parse call; the caller decides whether to log,
// fail the build, or ignore.
type DiagnosticSink func(Diagnostic)
