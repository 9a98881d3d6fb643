// Package errors renders a positioned diagnostic with source context:
// a file:line:col header, the offending source line, and a caret.
// Grounded directly on the teacher's package of the same name
// (CompilerError.Format), generalized from compiler errors specifically
// to any diagnostic carrying a Position, message, and source text — the
// shape internal/diagnostic's three lint codes need. The teacher's
// multi-line-context and legacy string-error-parsing helpers
// (FormatWithContext, FromStringErrors) have no use here: this core
// never parses source itself and only ever emits single-line-pointing
// diagnostics, so they are trimmed rather than carried as dead code
// (see DESIGN.md).
package errors

import (
	"fmt"
	"strings"

	"github.com/cwbudde/effectcheck/internal/ast"
)

// CompilerError represents a single diagnostic with position and context.
type CompilerError struct {
	Message string
	Source  string
	File    string
	Pos     ast.Position
}

// NewCompilerError creates a new compiler error.
func NewCompilerError(pos ast.Position, message, source, file string) *CompilerError {
	return &CompilerError{
		Pos:     pos,
		Message: message,
		Source:  source,
		File:    file,
	}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format(false)
}

// Format formats the error message with source context. If color is
// true, ANSI color codes are used for terminal output.
func (e *CompilerError) Format(color bool) string {
	var sb strings.Builder

	if e.File != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: ", e.File, e.Pos.Line, e.Pos.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%d:%d: ", e.Pos.Line, e.Pos.Column))
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(e.Message)
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")

	sourceLine := e.getSourceLine(e.Pos.Line)
	if sourceLine != "" {
		lineNumStr := fmt.Sprintf("%4d | ", e.Pos.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(sourceLine)
		sb.WriteString("\n")

		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+e.Pos.Column-1))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// getSourceLine extracts a specific line from the source code.
// Lines are 1-indexed.
func (e *CompilerError) getSourceLine(lineNum int) string {
	if e.Source == "" || lineNum < 1 {
		return ""
	}

	lines := strings.Split(e.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}

	return lines[lineNum-1]
}

// FormatErrors formats multiple compiler errors, each with its own
// source context.
func FormatErrors(errs []*CompilerError, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d diagnostic(s):\n\n", len(errs)))
	for i, err := range errs {
		sb.WriteString(err.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
