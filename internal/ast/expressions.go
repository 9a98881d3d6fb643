package ast

import "github.com/cwbudde/effectcheck/internal/types"

// Literal covers integer/float/string/bool/null literals, `this`,
// `super`, and type-literal expressions — every node the §4.5 table
// groups under "throws: empty, value: empty" with no interesting
// children. Grounded on the teacher's IntegerLiteral/StringLiteral/
// ThisExpression family, collapsed to one node since the resolver never
// distinguishes between them.
type Literal struct {
	base
	Text string
}

func (l *Literal) expressionNode() {}
func (l *Literal) String() string  { return l.Text }

// Identifier is a reference to a resolvable element — a variable,
// parameter, function, or type name.
type Identifier struct {
	base
	Ident   string
	Element Element // resolved by the host; nil if unresolved
}

func (i *Identifier) expressionNode() {}
func (i *Identifier) String() string  { return i.Ident }

// PropertyAccess is `target.name`, resolving to a field, getter, method
// tear-off, or constructor reference depending on what Element resolves
// to.
type PropertyAccess struct {
	base
	Target     Expression
	PropName   string
	Element    Element
	IsNullAware bool // `target?.name`
}

func (p *PropertyAccess) expressionNode() {}
func (p *PropertyAccess) String() string  { return p.PropName }

// Call is a method/function call (index access is IndexExpr) — both produce
// their Configuration from the callee's invoke slot (§4.5: "method/
// function call, index, instance-creation, binary (operator)").
type Call struct {
	base
	Callee    Expression
	Arguments []Expression
	// StaticTarget, when set, is the resolved function/constructor being
	// invoked — used to look up its invoke slot directly rather than
	// through Callee's Configuration, mirroring how a typed host resolves
	// overload sets before the checker ever sees the call.
	StaticTarget Element
}

func (c *Call) expressionNode() {}
func (c *Call) String() string  { return "call" }

// IndexExpr is `target[index]`.
type IndexExpr struct {
	base
	Target Expression
	Index  Expression
	// Element is the resolved indexing operator/element, if the host
	// models one; index access otherwise behaves like Call with no
	// StaticTarget.
	Element Element
}

func (x *IndexExpr) expressionNode() {}
func (x *IndexExpr) String() string  { return "index" }

// InstanceCreation is `new T(...)` / `T(...)`.
type InstanceCreation struct {
	base
	ClassType    *types.ClassType
	Constructor  Element
	Arguments    []Expression
}

func (n *InstanceCreation) expressionNode() {}
func (n *InstanceCreation) String() string  { return "new" }

// BinaryExpr is an operator application; per §4.5 it is treated like a
// call into the resolved operator method's invoke slot when one exists,
// falling back to empty when the operator is a built-in with no
// resolvable element.
type BinaryExpr struct {
	base
	Left, Right Expression
	Operator    string
	Element     Element
}

func (b *BinaryExpr) expressionNode() {}
func (b *BinaryExpr) String() string  { return b.Operator }

// AwaitExpr is `await e`.
type AwaitExpr struct {
	base
	Operand Expression
}

func (a *AwaitExpr) expressionNode() {}
func (a *AwaitExpr) String() string  { return "await" }

// AssignExpr is `target = value` (and compound assignment, treated
// identically by the resolver since only the setter's own throws and the
// value's configuration matter).
type AssignExpr struct {
	base
	Target Expression
	Value  Expression
	// Setter is the resolved setter element, when Target is a property
	// access or identifier backed by one.
	Setter Element
}

func (a *AssignExpr) expressionNode() {}
func (a *AssignExpr) String() string  { return "=" }

// ConditionalExpr is `cond ? then : otherwise`.
type ConditionalExpr struct {
	base
	Condition      Expression
	Then, Otherwise Expression
}

func (c *ConditionalExpr) expressionNode() {}
func (c *ConditionalExpr) String() string  { return "?:" }

// SwitchExpr is a switch-expression with one or more case arms, each
// producing a value; its Configuration unions all arms.
type SwitchExpr struct {
	base
	Scrutinee Expression
	Arms      []Expression
}

func (s *SwitchExpr) expressionNode() {}
func (s *SwitchExpr) String() string  { return "switch" }

// CastExpr is `e as T`.
type CastExpr struct {
	base
	Operand Expression
	Target  types.Type
}

func (c *CastExpr) expressionNode() {}
func (c *CastExpr) String() string  { return "as" }

// NonNullAssert is the postfix `e!` operator.
type NonNullAssert struct {
	base
	Operand Expression
}

func (n *NonNullAssert) expressionNode() {}
func (n *NonNullAssert) String() string  { return "!" }

// IfNullExpr is `a ?? b`.
type IfNullExpr struct {
	base
	Left, Right Expression
}

func (i *IfNullExpr) expressionNode() {}
func (i *IfNullExpr) String() string  { return "??" }

// ThrowExpr is `throw e`.
type ThrowExpr struct {
	base
	Operand    Expression
	StaticType types.Type
}

func (t *ThrowExpr) expressionNode() {}
func (t *ThrowExpr) String() string  { return "throw" }

// RethrowExpr is a bare `rethrow` inside a catch clause.
type RethrowExpr struct {
	base
}

func (r *RethrowExpr) expressionNode() {}
func (r *RethrowExpr) String() string  { return "rethrow" }

// ParenExpr and NamedArg are transparent value-copy wrappers per the §4.5
// table's first row; IsExpr yields an empty Configuration.
type ParenExpr struct {
	base
	Inner Expression
}

func (p *ParenExpr) expressionNode() {}
func (p *ParenExpr) String() string  { return "(" + p.Inner.String() + ")" }

type NamedArg struct {
	base
	ArgName string
	Value   Expression
}

func (n *NamedArg) expressionNode() {}
func (n *NamedArg) String() string  { return n.ArgName + ": " + n.Value.String() }

type IsExpr struct {
	base
	Operand Expression
	Target  types.Type
}

func (x *IsExpr) expressionNode() {}
func (x *IsExpr) String() string  { return "is" }
