package ast

import "github.com/cwbudde/effectcheck/internal/types"

// BlockStatement is a `{ ... }` sequence, grounded on the teacher's
// BlockStatement in statements.go.
type BlockStatement struct {
	base
	Statements []Statement
}

func (b *BlockStatement) statementNode() {}
func (b *BlockStatement) String() string { return "{...}" }

// ExpressionStatement wraps a bare expression used as a statement.
type ExpressionStatement struct {
	base
	Expr Expression
}

func (e *ExpressionStatement) statementNode() {}
func (e *ExpressionStatement) String() string { return e.Expr.String() }

// IfStatement is a conditional statement; the throw finder visits both
// branches without merging (unlike the expression-visitor's conditional
// union rule, since each branch's throws are immediate contributions,
// not alternatives needing a union for a single value).
type IfStatement struct {
	base
	Condition   Expression
	Then        Statement
	Else        Statement // nil when absent
}

func (s *IfStatement) statementNode() {}
func (s *IfStatement) String() string { return "if" }

// ReturnStatement is `return e;` (e nil for a bare `return;`).
type ReturnStatement struct {
	base
	Value Expression
}

func (s *ReturnStatement) statementNode() {}
func (s *ReturnStatement) String() string { return "return" }

// VarDeclStatement wraps one or more VariableDecl locals introduced by a
// single `var`/`late var` statement.
type VarDeclStatement struct {
	base
	Decls []*VariableDecl
}

func (s *VarDeclStatement) statementNode() {}
func (s *VarDeclStatement) String() string { return "var" }

// RaiseStatement is a statement-position `throw e;` — kept distinct from
// ThrowExpr since some hosts distinguish throw-as-statement from
// throw-as-expression; the throw finder treats both identically.
type RaiseStatement struct {
	base
	Operand    Expression
	StaticType types.Type
}

func (s *RaiseStatement) statementNode() {}
func (s *RaiseStatement) String() string { return "throw" }

// TryStatement is `try { Try } catch (...) { ... } finally { ... }`,
// grounded on the teacher's exceptions.go TryStatement (same three-form
// shape: except-only, finally-only, or both).
type TryStatement struct {
	base
	TryBlock      *BlockStatement
	Catches       []*CatchClause
	FinallyBlock  *BlockStatement // nil when absent
}

func (s *TryStatement) statementNode() {}
func (s *TryStatement) String() string { return "try" }

// CatchClause is one `catch (e: Type) { ... }` handler. CaughtType is
// nil for an untyped catch-all clause, which per §4.4 clears every
// thrown type from the try body rather than subtracting a single type.
type CatchClause struct {
	base
	CaughtType types.Type
	Param      *VariableDecl // nil when the clause binds no variable
	Body       *BlockStatement
}

func (c *CatchClause) statementNode() {}
func (c *CatchClause) String() string { return "catch" }
