package parser

import "fmt"

type DiagnosticKind uint8

const (
	DiagUnexpected DiagnosticKind = iota
	DiagUnexpectedIdent
	DiagUnexpectedEnd
	DiagExpected
	DiagExpectedIdent
	DiagUnknownAtRule
	DiagBadRule
	DiagBadDeclaration
	DiagUnclosedBlock
	DiagMixedConnectives
	DiagBadToken
)

var diagnosticNames = map[DiagnosticKind]string{
	DiagUnexpected:       "Unexpected",
	DiagUnexpectedIdent:  "UnexpectedIdent",
	DiagUnexpectedEnd:    "UnexpectedEnd",
	DiagExpected:         "Expected",
	DiagExpectedIdent:    "ExpectedIdent",
	DiagUnknownAtRule:    "UnknownAtRule",
	DiagBadRule:          "BadRule",
	DiagBadDeclaration:   "BadDeclaration",
	DiagUnclosedBlock:    "UnclosedBlock",
	DiagMixedConnectives: "MixedConnectives",
	DiagBadToken:         "BadToken",
}

func (k DiagnosticKind) String() string {
	if name, ok := diagnosticNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Diagnostic is a recoverable parse error tied to a span of source. It is
// both an entry in the parser's log and the error value returned by Parse.
type Diagnostic struct {
	Kind     DiagnosticKind
	Span     Span
	Expected Kind
	// Detail carries the name an Expected* diagnostic wanted, or the text
	// of an unexpected identifier or at-rule.
	Detail string
}

func (d *Diagnostic) Message() string {
	switch d.Kind {
	case DiagUnexpected:
		return "Unexpected token"
	case DiagUnexpectedIdent:
		return fmt.Sprintf("Unexpected identifier %q", d.Detail)
	case DiagUnexpectedEnd:
		return "Unexpected end of input"
	case DiagExpected:
		if d.Detail != "" {
			return fmt.Sprintf("Expected %s %q", d.Expected, d.Detail)
		}
		return fmt.Sprintf("Expected %s", d.Expected)
	case DiagExpectedIdent:
		return fmt.Sprintf("Expected identifier %q", d.Detail)
	case DiagUnknownAtRule:
		return fmt.Sprintf("Unknown at-rule %q", d.Detail)
	case DiagBadRule:
		return "Invalid rule was skipped"
	case DiagBadDeclaration:
		return "Invalid declaration was skipped"
	case DiagUnclosedBlock:
		return "Block is not closed"
	case DiagMixedConnectives:
		return "Cannot mix \"and\" and \"or\" without parentheses"
	case DiagBadToken:
		return fmt.Sprintf("Malformed %s", d.Expected)
	}
	return d.Kind.String()
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s", d.Span, d.Message())
}
