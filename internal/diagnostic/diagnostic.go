// Package diagnostic renders lint findings by delegating to the
// teacher's internal/errors package, which already renders a
// file:line:col header, the offending source line, and a caret for a
// positioned compiler error; this package adds only the three fixed
// lint codes from §6 and the natural-order sort lint.Run needs for
// deterministic output.
package diagnostic

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"

	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/errors"
)

// Code is one of the three fixed diagnostic codes from §6.
type Code string

const (
	UncaughtThrow   Code = "uncaught_throw"
	UnsafeAssignment Code = "unsafe_assignment"
	UnsafeOverride  Code = "unsafe_override"
)

// Severity mirrors §6: all three codes are errors, but the type is kept
// open for a host that wants to downgrade a rule to a warning.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is one reported finding.
type Diagnostic struct {
	Code     Code
	Severity Severity
	Message  string
	File     string
	Pos      ast.Position
	Source   string // the full source text of File, for caret rendering; optional
}

// Format renders the diagnostic via errors.CompilerError.Format, with
// the lint code appended to the message so CI logs can grep on it —
// color is enabled for terminals, disabled for CI logs, matching
// CompilerError.Format's two modes.
func (d Diagnostic) Format(color bool) string {
	ce := errors.NewCompilerError(d.Pos, fmt.Sprintf("%s [%s]", d.Message, d.Code), d.Source, d.File)
	return ce.Format(color)
}

// SortStable orders diagnostics deterministically: by file using natural
// ordering (so "file2.dws" sorts before "file10.dws"), then by line,
// then column, then code.
func SortStable(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.File != b.File {
			return natural.Less(a.File, b.File)
		}
		if a.Pos.Line != b.Pos.Line {
			return a.Pos.Line < b.Pos.Line
		}
		if a.Pos.Column != b.Pos.Column {
			return a.Pos.Column < b.Pos.Column
		}
		return a.Code < b.Code
	})
}

// MessageFor renders the fixed §6 message text for a code.
func MessageFor(code Code, thrownTypeName string) string {
	switch code {
	case UncaughtThrow:
		return fmt.Sprintf("%s can't be thrown here", thrownTypeName)
	case UnsafeAssignment:
		return "This assignment is potentially unsafe"
	case UnsafeOverride:
		return "This override's configuration isn't compatible with the overridden configuration"
	default:
		return string(code)
	}
}
