package lint

import (
	"github.com/yaklabco/phpsniff/pkg/config"
	"github.com/yaklabco/phpsniff/pkg/fix"
	"github.com/yaklabco/phpsniff/pkg/token"
)

// DiagnosticBuilder helps construct Diagnostic values.
type DiagnosticBuilder struct {
	diag Diagnostic
}

// NewDiagnostic starts building a diagnostic for the given rule at token i.
// The position spans the token's text.
func NewDiagnostic(ruleID string, s *token.Stream, i int, message string) *DiagnosticBuilder {
	b := &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:     ruleID,
			Message:    message,
			TokenIndex: i,
		},
	}
	if s == nil {
		return b
	}

	b.diag.FilePath = s.Path
	if tok, ok := s.At(i); ok {
		b.diag.StartLine, b.diag.StartColumn = tok.Line, tok.Column
		b.diag.EndLine, b.diag.EndColumn = endPosition(s, tok)
	}
	return b
}

// endPosition returns the line and exclusive column where tok ends.
func endPosition(s *token.Stream, tok token.Token) (int, int) {
	if tok.Text == "" {
		return tok.Line, tok.Column
	}
	line, col := s.LineAt(tok.End() - 1)
	return line, col + 1
}

// NewDiagnosticAt starts building a diagnostic at a specific line and column.
func NewDiagnosticAt(ruleID, filePath string, line, column int, message string) *DiagnosticBuilder {
	return &DiagnosticBuilder{
		diag: Diagnostic{
			RuleID:      ruleID,
			Message:     message,
			FilePath:    filePath,
			TokenIndex:  -1,
			StartLine:   line,
			StartColumn: column,
			EndLine:     line,
			EndColumn:   column,
		},
	}
}

// WithRuleName sets the human-readable rule name.
func (b *DiagnosticBuilder) WithRuleName(name string) *DiagnosticBuilder {
	b.diag.RuleName = name
	return b
}

// WithSeverity sets the severity.
func (b *DiagnosticBuilder) WithSeverity(s config.Severity) *DiagnosticBuilder {
	b.diag.Severity = s
	return b
}

// WithSuggestion sets a human-readable fix suggestion.
func (b *DiagnosticBuilder) WithSuggestion(s string) *DiagnosticBuilder {
	b.diag.Suggestion = s
	return b
}

// WithFixable marks whether the violation can be repaired.
func (b *DiagnosticBuilder) WithFixable(fixable bool) *DiagnosticBuilder {
	b.diag.Fixable = fixable
	return b
}

// WithEnd extends the reported range to the end of token i.
func (b *DiagnosticBuilder) WithEnd(s *token.Stream, i int) *DiagnosticBuilder {
	if tok, ok := s.At(i); ok {
		b.diag.EndLine, b.diag.EndColumn = endPosition(s, tok)
	}
	return b
}

// WithEdit adds a single fix edit.
func (b *DiagnosticBuilder) WithEdit(edit fix.TextEdit) *DiagnosticBuilder {
	b.diag.FixEdits = append(b.diag.FixEdits, edit)
	return b
}

// Build returns the constructed Diagnostic.
func (b *DiagnosticBuilder) Build() Diagnostic {
	return b.diag
}

// Report returns the constructed Diagnostic along with true, matching the
// shape of Rule.Check.
func (b *DiagnosticBuilder) Report() (Diagnostic, bool) {
	return b.diag, true
}
