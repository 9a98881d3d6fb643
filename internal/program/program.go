// Package program loads the serialized element/AST graph the CLI
// consumes (§2 Ambient Stack: "effectcheck check <program.json>"). The
// real source-language parser and semantic resolver that would normally
// produce this graph are external collaborators per §1's Non-goals; this
// package is this core's own fixture format, used by the CLI and by
// tests, built on the standard library's encoding/json rather than a
// third-party parser since there is no third-party schema in the pack
// for an ad hoc fixture format invented for this core (see DESIGN.md).
package program

import (
	"encoding/json"
	"fmt"

	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

// Program is a loaded unit: its elements (in declaration order, for
// deterministic lint output) and its raw source (for caret rendering).
type Program struct {
	Library  string
	File     string
	Source   string
	Elements []ast.Element
	Classes  map[string]*ast.ClassDecl
}

// ResolveType implements overrides.TypeResolver against this program's
// own class registry: a handful of built-in names the override schema's
// `throws:` expressions commonly use, falling back to a class declared
// in this unit. Imports are accepted but unused since this fixture
// format has no cross-unit import resolution of its own (§6: "Type
// expressions inside throws are parsed and resolved against imports ∪
// library" — the full import-scoped parser is the host's, not this
// core's, concern).
func (p *Program) ResolveType(typeExpr string, _ []string, _ string) (types.Type, bool) {
	switch typeExpr {
	case "", "void":
		return nil, false
	case "dynamic":
		return types.Dynamic, true
	case "Object":
		return types.Object, true
	case "Object?":
		return types.NullableObject, true
	}
	if c, ok := p.Classes[typeExpr]; ok {
		return c.ClassType, true
	}
	return nil, false
}

// doc mirrors the on-disk JSON shape.
type doc struct {
	Library   string         `json:"library"`
	File      string         `json:"file"`
	Source    string         `json:"source"`
	Classes   []classJSON    `json:"classes"`
	Functions []functionJSON `json:"functions"`
}

type typeJSON struct {
	Kind   string     `json:"kind"` // "class", "function", "future", "dynamic", "object"
	Name   string     `json:"name"`
	Elem   *typeJSON  `json:"elem"` // future element type
	Ret    *typeJSON  `json:"ret"`  // function return type
	Params []typeJSON `json:"params"`
}

type metadataJSON struct {
	Kind string `json:"kind"` // "safe", "neverThrows", "Throws", "ThrowsError"
	Type string `json:"type"`
}

type paramJSON struct {
	Name     string         `json:"name"`
	Type     typeJSON       `json:"type"`
	Metadata []metadataJSON `json:"metadata"`
}

type functionJSON struct {
	Name     string         `json:"name"`
	Metadata []metadataJSON `json:"metadata"`
	Params   []paramJSON    `json:"params"`
	Return   typeJSON       `json:"return"`
	Body     []stmtJSON     `json:"body"` // nil for an abstract/external declaration
	IsAsync  bool           `json:"async"`
	IsGetter bool           `json:"getter"`
	IsSetter bool           `json:"setter"`
	Owner    string         `json:"owner"`
	Line     int            `json:"line"`
	Column   int            `json:"column"`
}

type fieldJSON struct {
	Name     string         `json:"name"`
	Type     typeJSON       `json:"type"`
	Metadata []metadataJSON `json:"metadata"`
	IsLate   bool           `json:"late"`
}

type classJSON struct {
	Name       string      `json:"name"`
	Superclass string      `json:"superclass"`
	Interfaces []string    `json:"interfaces"`
	Mixins     []string    `json:"mixins"`
	Fields     []fieldJSON `json:"fields"`
	// Exception marks a root of the Exception subtree; subclasses
	// inherit the marker through their superclass chain. A class named
	// "Exception" is marked implicitly.
	Exception bool `json:"exception"`
}

// stmtJSON is one statement in a serialized body.
type stmtJSON struct {
	Kind    string      `json:"kind"` // "expr", "if", "return", "var", "throw", "try", "block"
	Expr    *exprJSON   `json:"expr"` // expr/throw/return payload
	Cond    *exprJSON   `json:"cond"`
	Then    []stmtJSON  `json:"then"`
	Else    []stmtJSON  `json:"else"`
	Stmts   []stmtJSON  `json:"stmts"`
	Decls   []localJSON `json:"decls"`
	Try     []stmtJSON  `json:"try"`
	Catches []catchJSON `json:"catches"`
	Finally []stmtJSON  `json:"finally"`
	Line    int         `json:"line"`
	Column  int         `json:"column"`
}

type catchJSON struct {
	Type string     `json:"type"` // "" for an untyped catch-all clause
	Body []stmtJSON `json:"body"`
}

type localJSON struct {
	Name string    `json:"name"`
	Type *typeJSON `json:"type"`
	Late bool      `json:"late"`
	Init *exprJSON `json:"init"`
}

// exprJSON is one expression in a serialized body. Ref names a resolved
// element the way the host's semantic resolver would have: a top-level
// function ("f"), a member ("C.m"), or a parameter of the enclosing
// function by its declared name.
type exprJSON struct {
	Kind   string     `json:"kind"` // "literal", "ref", "call", "new", "await", "assign", "cond", "cast", "nonnull", "ifnull", "throw", "rethrow", "lambda", "paren", "is"
	Text   string     `json:"text"`
	Ref    string     `json:"ref"`
	Target *exprJSON  `json:"target"` // callee / operand / assignment target
	Args   []exprJSON `json:"args"`
	Type   string     `json:"type"` // thrown / cast / constructed class name
	Then   *exprJSON  `json:"then"`
	Else   *exprJSON  `json:"else"`
	Value  *exprJSON  `json:"value"` // assignment right-hand side
	Body   []stmtJSON `json:"body"`  // lambda body
	Async  bool       `json:"async"` // lambda asynchrony
	Line   int        `json:"line"`
	Column int        `json:"column"`
}

// loader carries the state of one Load call: the class registry, the
// element index body references resolve against, and a running offset
// that stamps every body node with a distinct memoization key.
type loader struct {
	library  string
	unit     ast.Unit
	classes  map[string]*ast.ClassDecl
	elements map[string]ast.Element
	offset   int
}

// Load parses raw JSON bytes into a resolvable Program. Declarations are
// built first so body references ("ref", call targets, setters) can be
// resolved against the full unit regardless of declaration order.
func Load(raw []byte) (*Program, error) {
	var d doc
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("program: invalid JSON: %w", err)
	}

	l := &loader{
		library:  d.Library,
		unit:     ast.Unit{Library: d.Library, Path: d.File},
		classes:  make(map[string]*ast.ClassDecl, len(d.Classes)),
		elements: make(map[string]ast.Element),
	}

	for _, c := range d.Classes {
		classType := types.NewClassType(c.Name, nil)
		if c.Exception || c.Name == "Exception" {
			classType = types.NewExceptionClassType(c.Name, nil)
		}
		l.classes[c.Name] = &ast.ClassDecl{
			Loc:       config.NewElementLocation(d.Library, c.Name),
			Ident:     c.Name,
			ClassType: classType,
		}
	}
	for _, c := range d.Classes {
		decl := l.classes[c.Name]
		decl.Superclass = l.classes[c.Superclass]
		if decl.Superclass != nil {
			// Wire the parent in place so references captured by earlier
			// iterations stay valid regardless of declaration order.
			decl.ClassType.Parent = decl.Superclass.ClassType
		}
		for _, iface := range c.Interfaces {
			if ifaceDecl, ok := l.classes[iface]; ok {
				decl.Interfaces = append(decl.Interfaces, ifaceDecl)
			}
		}
		for _, mixin := range c.Mixins {
			if mixinDecl, ok := l.classes[mixin]; ok {
				decl.Mixins = append(decl.Mixins, mixinDecl)
			}
		}
	}

	var elements []ast.Element
	for _, c := range d.Classes {
		decl := l.classes[c.Name]
		for _, f := range c.Fields {
			v := &ast.VariableDecl{
				Loc:      config.NewElementLocation(d.Library, c.Name+"."+f.Name),
				Ident:    f.Name,
				Metadata: l.annotations(f.Metadata),
				Type:     l.resolveTypeRef(&f.Type),
				Owner:    decl,
				IsField:  true,
				IsLate:   f.IsLate,
			}
			decl.Members = append(decl.Members, v)
			l.elements[c.Name+"."+f.Name] = v
			elements = append(elements, v)
		}
		elements = append(elements, decl)
	}

	// Declarations first, bodies second: a body may call a function
	// declared after it.
	decls := make([]*ast.FunctionDecl, len(d.Functions))
	for i, fn := range d.Functions {
		loc := config.NewElementLocation(d.Library, qualifiedName(fn.Owner, fn.Name))
		params := make([]*ast.VariableDecl, len(fn.Params))
		for j, p := range fn.Params {
			params[j] = &ast.VariableDecl{
				Loc:         loc.Parameter(j),
				Ident:       p.Name,
				Metadata:    l.annotations(p.Metadata),
				Type:        l.resolveTypeRef(&p.Type),
				IsParameter: true,
				Index:       j,
			}
		}
		decl := &ast.FunctionDecl{
			Loc:        loc,
			Ident:      fn.Name,
			Metadata:   l.annotations(fn.Metadata),
			Parameters: params,
			ReturnType: l.resolveTypeRef(&fn.Return),
			IsAsync:    fn.IsAsync,
			IsGetter:   fn.IsGetter,
			IsSetter:   fn.IsSetter,
		}
		decl.Stamp(l.unit, ast.Position{Line: fn.Line, Column: fn.Column}, 0, 0, "")
		if owner, ok := l.classes[fn.Owner]; ok {
			decl.Owner = owner
			owner.Members = append(owner.Members, decl)
		}
		l.elements[loc.Path] = decl
		if fn.Owner != "" {
			l.elements[fn.Name] = decl
		}
		decls[i] = decl
		elements = append(elements, decl)
	}

	// Every class gets a synthetic default constructor unless one was
	// declared, so `new C()` resolves to an element with an empty invoke
	// slot rather than falling back to NoSuchMethodError.
	for _, c := range d.Classes {
		decl := l.classes[c.Name]
		key := c.Name + ".new"
		if _, declared := l.elements[key]; declared {
			continue
		}
		ctor := &ast.FunctionDecl{
			Loc:           config.NewElementLocation(d.Library, key),
			Ident:         "new",
			Owner:         decl,
			IsConstructor: true,
		}
		l.elements[key] = ctor
		elements = append(elements, ctor)
	}

	for i, fn := range d.Functions {
		if fn.Body == nil {
			continue
		}
		decls[i].Body = l.block(fn.Body, decls[i])
	}

	return &Program{Library: d.Library, File: d.File, Source: d.Source, Elements: elements, Classes: l.classes}, nil
}

func qualifiedName(owner, name string) string {
	if owner == "" {
		return name
	}
	return owner + "." + name
}

// stamp assigns the next distinct memoization key to a body node.
func (l *loader) stamp(n interface {
	Stamp(ast.Unit, ast.Position, int, int, string)
}, line, column int, kind string) {
	l.offset++
	n.Stamp(l.unit, ast.Position{Line: line, Column: column}, l.offset, 1, kind)
}

func (l *loader) block(stmts []stmtJSON, enclosing *ast.FunctionDecl) *ast.BlockStatement {
	b := &ast.BlockStatement{}
	l.stamp(b, 0, 0, "block")
	for i := range stmts {
		if s := l.statement(&stmts[i], enclosing); s != nil {
			b.Statements = append(b.Statements, s)
		}
	}
	return b
}

func (l *loader) statement(s *stmtJSON, enclosing *ast.FunctionDecl) ast.Statement {
	switch s.Kind {
	case "block":
		return l.block(s.Stmts, enclosing)
	case "expr":
		stmt := &ast.ExpressionStatement{Expr: l.expression(s.Expr, enclosing)}
		l.stamp(stmt, s.Line, s.Column, "expr-stmt")
		return stmt
	case "if":
		stmt := &ast.IfStatement{Condition: l.expression(s.Cond, enclosing)}
		if s.Then != nil {
			stmt.Then = l.block(s.Then, enclosing)
		}
		if s.Else != nil {
			stmt.Else = l.block(s.Else, enclosing)
		}
		l.stamp(stmt, s.Line, s.Column, "if")
		return stmt
	case "return":
		stmt := &ast.ReturnStatement{Value: l.expression(s.Expr, enclosing)}
		l.stamp(stmt, s.Line, s.Column, "return")
		return stmt
	case "var":
		stmt := &ast.VarDeclStatement{}
		for _, d := range s.Decls {
			v := &ast.VariableDecl{Ident: d.Name, IsLate: d.Late, Initializer: l.expression(d.Init, enclosing)}
			if d.Type != nil {
				v.Type = l.resolveTypeRef(d.Type)
			}
			l.stamp(v, s.Line, s.Column, "local")
			stmt.Decls = append(stmt.Decls, v)
		}
		l.stamp(stmt, s.Line, s.Column, "var")
		return stmt
	case "throw":
		stmt := &ast.RaiseStatement{Operand: l.expression(s.Expr, enclosing), StaticType: l.classType(s.Expr)}
		l.stamp(stmt, s.Line, s.Column, "throw-stmt")
		return stmt
	case "try":
		stmt := &ast.TryStatement{TryBlock: l.block(s.Try, enclosing)}
		for _, c := range s.Catches {
			clause := &ast.CatchClause{Body: l.block(c.Body, enclosing)}
			if c.Type != "" {
				if cls, ok := l.classes[c.Type]; ok {
					clause.CaughtType = cls.ClassType
				}
			}
			l.stamp(clause, s.Line, s.Column, "catch")
			stmt.Catches = append(stmt.Catches, clause)
		}
		if s.Finally != nil {
			stmt.FinallyBlock = l.block(s.Finally, enclosing)
		}
		l.stamp(stmt, s.Line, s.Column, "try")
		return stmt
	default:
		return nil
	}
}

func (l *loader) expression(e *exprJSON, enclosing *ast.FunctionDecl) ast.Expression {
	if e == nil {
		return nil
	}
	switch e.Kind {
	case "literal":
		n := &ast.Literal{Text: e.Text}
		l.stamp(n, e.Line, e.Column, "literal")
		return n
	case "ref":
		n := &ast.Identifier{Ident: e.Ref, Element: l.resolveRef(e.Ref, enclosing)}
		l.stamp(n, e.Line, e.Column, "ref")
		return n
	case "call":
		n := &ast.Call{}
		target := l.resolveRef(e.Ref, enclosing)
		if e.Target != nil {
			n.Callee = l.expression(e.Target, enclosing)
		} else {
			callee := &ast.Identifier{Ident: e.Ref, Element: target}
			l.stamp(callee, e.Line, e.Column, "callee")
			n.Callee = callee
		}
		n.StaticTarget = target
		n.Arguments = l.arguments(e.Args, target, enclosing)
		l.stamp(n, e.Line, e.Column, "call")
		return n
	case "new":
		n := &ast.InstanceCreation{}
		if cls, ok := l.classes[e.Type]; ok {
			n.ClassType = cls.ClassType
		}
		n.Constructor = l.resolveRef(e.Type+".new", enclosing)
		n.Arguments = l.arguments(e.Args, n.Constructor, enclosing)
		l.stamp(n, e.Line, e.Column, "new")
		return n
	case "await":
		n := &ast.AwaitExpr{Operand: l.expression(e.Target, enclosing)}
		l.stamp(n, e.Line, e.Column, "await")
		return n
	case "assign":
		n := &ast.AssignExpr{Value: l.expression(e.Value, enclosing)}
		if e.Target != nil {
			n.Target = l.expression(e.Target, enclosing)
		} else {
			tgt := &ast.Identifier{Ident: e.Ref, Element: l.resolveRef(e.Ref, enclosing)}
			l.stamp(tgt, e.Line, e.Column, "ref")
			n.Target = tgt
		}
		n.Setter = l.resolveRef(e.Ref, enclosing)
		l.stamp(n, e.Line, e.Column, "assign")
		return n
	case "cond":
		n := &ast.ConditionalExpr{
			Condition: l.expression(e.Target, enclosing),
			Then:      l.expression(e.Then, enclosing),
			Otherwise: l.expression(e.Else, enclosing),
		}
		l.stamp(n, e.Line, e.Column, "cond")
		return n
	case "cast":
		n := &ast.CastExpr{Operand: l.expression(e.Target, enclosing), Target: l.namedType(e.Type)}
		l.stamp(n, e.Line, e.Column, "cast")
		return n
	case "nonnull":
		n := &ast.NonNullAssert{Operand: l.expression(e.Target, enclosing)}
		l.stamp(n, e.Line, e.Column, "nonnull")
		return n
	case "ifnull":
		n := &ast.IfNullExpr{Left: l.expression(e.Target, enclosing), Right: l.expression(e.Value, enclosing)}
		l.stamp(n, e.Line, e.Column, "ifnull")
		return n
	case "throw":
		n := &ast.ThrowExpr{Operand: l.expression(e.Target, enclosing), StaticType: l.classType(e)}
		l.stamp(n, e.Line, e.Column, "throw")
		return n
	case "rethrow":
		n := &ast.RethrowExpr{}
		l.stamp(n, e.Line, e.Column, "rethrow")
		return n
	case "lambda":
		n := &ast.FunctionDecl{Ident: "<fn>", IsAsync: e.Async, IsExpression: true}
		n.Body = l.block(e.Body, n)
		l.stamp(n, e.Line, e.Column, "lambda")
		return n
	case "paren":
		n := &ast.ParenExpr{Inner: l.expression(e.Target, enclosing)}
		l.stamp(n, e.Line, e.Column, "paren")
		return n
	case "is":
		n := &ast.IsExpr{Operand: l.expression(e.Target, enclosing), Target: l.namedType(e.Type)}
		l.stamp(n, e.Line, e.Column, "is")
		return n
	default:
		return nil
	}
}

// arguments builds a call's argument expressions, wiring a lambda
// argument's StaticParam to the target's matching parameter so the
// resolver can apply §4.7's context-driven rule.
func (l *loader) arguments(args []exprJSON, target ast.Element, enclosing *ast.FunctionDecl) []ast.Expression {
	fn, _ := target.(*ast.FunctionDecl)
	out := make([]ast.Expression, 0, len(args))
	for i := range args {
		expr := l.expression(&args[i], enclosing)
		if lam, ok := expr.(*ast.FunctionDecl); ok && fn != nil && i < len(fn.Parameters) {
			lam.StaticParam = fn.Parameters[i]
		}
		out = append(out, expr)
	}
	return out
}

// resolveRef resolves a body reference: the enclosing function's
// parameters by declared name first, then the unit-wide element index.
// nil when nothing matches — the resolver treats an unresolved reference
// as contributing no information.
func (l *loader) resolveRef(ref string, enclosing *ast.FunctionDecl) ast.Element {
	if ref == "" {
		return nil
	}
	if enclosing != nil {
		for _, p := range enclosing.Parameters {
			if p.Ident == ref {
				return p
			}
		}
	}
	if e, ok := l.elements[ref]; ok {
		return e
	}
	return nil
}

// classType resolves a throw expression's static type from its `type`
// field, falling back to the class named by a bare `new` operand.
func (l *loader) classType(e *exprJSON) types.Type {
	if e == nil {
		return nil
	}
	if e.Type != "" {
		return l.namedType(e.Type)
	}
	if e.Target != nil && e.Target.Kind == "new" {
		return l.namedType(e.Target.Type)
	}
	return nil
}

func (l *loader) namedType(name string) types.Type {
	switch name {
	case "":
		return nil
	case "dynamic":
		return types.Dynamic
	case "Object":
		return types.Object
	case "Object?":
		return types.NullableObject
	}
	if cls, ok := l.classes[name]; ok {
		return cls.ClassType
	}
	return types.NewClassType(name, nil)
}

func (l *loader) annotations(meta []metadataJSON) []config.Annotation {
	out := make([]config.Annotation, 0, len(meta))
	for _, m := range meta {
		var kind config.AnnotationKind
		switch m.Kind {
		case "safe":
			kind = config.AnnotationSafe
		case "neverThrows":
			kind = config.AnnotationNeverThrows
		case "Throws":
			kind = config.AnnotationThrows
		case "ThrowsError":
			kind = config.AnnotationThrowsError
		default:
			continue
		}
		var thrown types.Type
		if m.Type != "" {
			thrown = l.namedType(m.Type)
		}
		out = append(out, config.Annotation{Kind: kind, ThrownType: thrown})
	}
	return out
}

func (l *loader) resolveTypeRef(t *typeJSON) types.Type {
	if t == nil {
		return nil
	}
	switch t.Kind {
	case "", "void":
		return nil
	case "dynamic":
		return types.Dynamic
	case "object":
		return types.Object
	case "class":
		return l.namedType(t.Name)
	case "future":
		var elem types.Type
		if t.Elem != nil {
			elem = l.resolveTypeRef(t.Elem)
		}
		return types.NewFutureType(elem)
	case "function":
		var ret types.Type
		if t.Ret != nil {
			ret = l.resolveTypeRef(t.Ret)
		}
		params := make([]types.Type, len(t.Params))
		for i := range t.Params {
			params[i] = l.resolveTypeRef(&t.Params[i])
		}
		return types.NewFunctionType(params, ret)
	default:
		return l.namedType(t.Name)
	}
}
