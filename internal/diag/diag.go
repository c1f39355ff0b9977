// Package diag provides diagnostic types accumulated by the lexer,
// parser, and resolver. Each pipeline phase returns its diagnostics
// explicitly; there is no ambient error flag.
package diag

import (
	"fmt"
	"io"

	"lume-lang/internal/token"
)

// Diagnostic represents a single error with source context.
type Diagnostic struct {
	Line    int    `json:"line"`
	Where   string `json:"where"` // " at 'lexeme'", " at end", or "" for bare line errors
	Message string `json:"message"`
}

// String renders the diagnostic in the canonical report form.
func (d Diagnostic) String() string {
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

// Errorf creates a diagnostic at a bare line number (lexer errors,
// where no token exists yet).
func Errorf(line int, format string, args ...interface{}) Diagnostic {
	return Diagnostic{
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	}
}

// ErrorAt creates a diagnostic pointing at a token. End-of-input is
// reported as "at end"; every other token by its source text.
func ErrorAt(tok token.Token, format string, args ...interface{}) Diagnostic {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.EOF {
		where = " at end"
	}
	return Diagnostic{
		Line:    tok.Line(),
		Where:   where,
		Message: fmt.Sprintf(format, args...),
	}
}

// Print writes each diagnostic on its own line.
func Print(w io.Writer, diags []Diagnostic) {
	for _, d := range diags {
		fmt.Fprintln(w, d.String())
	}
}
