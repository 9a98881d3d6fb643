package ast

import (
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

// Element is a declared program element the resolver can compute a
// Configuration for: a function/method/getter/setter/constructor, a
// field/parameter/local variable, a class/interface, or a typedef.
// Grounded on the teacher's declarations.go decl nodes, generalized with
// an ElementLocation identity (absent from the teacher, which never
// needed cross-unit addressing) per §3.
type Element interface {
	Node
	Location() config.ElementLocation
	Annotations() []config.Annotation
	Name() string
}

// FunctionDecl covers every executable element from §4.6: function,
// method, getter, setter, and constructor, distinguished by the flag
// fields rather than separate node types — matching the teacher's single
// FunctionDeclaration node carrying an IsMethod/receiver shape.
type FunctionDecl struct {
	base
	Loc            config.ElementLocation
	Ident          string
	Metadata       []config.Annotation
	Parameters     []*VariableDecl
	ReturnType     types.Type
	Body           *BlockStatement // nil when external/abstract
	Owner          *ClassDecl      // enclosing class/interface, nil for top-level functions
	StaticParam    *VariableDecl   // non-nil when this function-expression flows into a parameter (§4.7 rule 1); nil for declared FunctionDecls
	BackingField   *VariableDecl   // non-nil for a synthetic accessor generated from a field declaration
	IsAsync        bool
	IsGetter       bool
	IsSetter       bool
	IsConstructor  bool
	IsStatic       bool
	IsAbstract     bool
	IsExpression   bool // true for a function-expression literal, not a named declaration
}

func (f *FunctionDecl) expressionNode()                  {}
func (f *FunctionDecl) statementNode()                   {}
func (f *FunctionDecl) String() string                   { return "function " + f.Ident }
func (f *FunctionDecl) Location() config.ElementLocation { return f.Loc }
func (f *FunctionDecl) Annotations() []config.Annotation { return f.Metadata }
func (f *FunctionDecl) Name() string                     { return f.Ident }

// FunctionType derives the structural type of this declaration (used by
// typeconf.Derive when a typedef or variable is typed by reference to a
// function declaration).
func (f *FunctionDecl) FunctionType() *types.FunctionType {
	params := make([]types.Type, len(f.Parameters))
	for i, p := range f.Parameters {
		params[i] = p.Type
	}
	return types.NewFunctionType(params, f.ReturnType)
}

// VariableDecl covers fields, parameters, and locals (§4.6 rule 3).
type VariableDecl struct {
	base
	Loc         config.ElementLocation
	Ident       string
	Metadata    []config.Annotation
	Type        types.Type
	Initializer Expression // nil when absent
	Owner       *ClassDecl // enclosing class, nil for parameters/locals/top-level variables
	Index       int        // positional index, for ElementLocation.Parameter
	IsLate      bool
	IsStatic    bool
	IsField     bool
	IsParameter bool
}

func (v *VariableDecl) expressionNode()                  {}
func (v *VariableDecl) statementNode()                   {}
func (v *VariableDecl) String() string                   { return "var " + v.Ident }
func (v *VariableDecl) Location() config.ElementLocation { return v.Loc }
func (v *VariableDecl) Annotations() []config.Annotation { return v.Metadata }
func (v *VariableDecl) Name() string                     { return v.Ident }

// ClassDecl models a class/interface/mixin declaration, carrying enough
// of the supertype graph to drive §4.8's breadth-first walk. Grounded on
// the teacher's classes.go ClassDeclaration plus interfaces.go
// InterfaceDeclaration, merged into one node since the inherited-
// configuration walk treats both identically.
type ClassDecl struct {
	base
	Loc        config.ElementLocation
	Ident      string
	Metadata   []config.Annotation
	Superclass *ClassDecl
	Interfaces []*ClassDecl
	Mixins     []*ClassDecl
	// Constraints are a mixin's required-superclass constraints (§4.8:
	// "mixin-superclass-constraints").
	Constraints []*ClassDecl
	Members     []Element
	ClassType   *types.ClassType
}

func (c *ClassDecl) statementNode()                   {}
func (c *ClassDecl) String() string                   { return "class " + c.Ident }
func (c *ClassDecl) Location() config.ElementLocation { return c.Loc }
func (c *ClassDecl) Annotations() []config.Annotation { return c.Metadata }
func (c *ClassDecl) Name() string                     { return c.Ident }

// DirectSupertypes returns the immediate superclass, interfaces, mixins,
// and constraint classes in enqueue order for §4.8's BFS — order does not
// affect the result since intersect is commutative, but a stable order
// keeps output deterministic for tests.
func (c *ClassDecl) DirectSupertypes() []*ClassDecl {
	var out []*ClassDecl
	if c.Superclass != nil {
		out = append(out, c.Superclass)
	}
	out = append(out, c.Interfaces...)
	out = append(out, c.Mixins...)
	out = append(out, c.Constraints...)
	return out
}

// MemberNamed returns the first non-static, non-constructor member named
// name, honoring library-private visibility: a name starting with "_" is
// only visible to a search originating in the same library.
func (c *ClassDecl) MemberNamed(name string, fromLibrary string) Element {
	for _, m := range c.Members {
		if m.Name() != name {
			continue
		}
		if fn, ok := m.(*FunctionDecl); ok {
			if fn.IsStatic || fn.IsConstructor {
				continue
			}
		}
		if v, ok := m.(*VariableDecl); ok && v.IsStatic {
			continue
		}
		if isPrivateName(name) && c.Loc.Library != fromLibrary {
			continue
		}
		return m
	}
	return nil
}

func isPrivateName(name string) bool {
	return len(name) > 0 && name[0] == '_'
}

// TypedefDecl is a type alias carrying its own annotation-derived throws
// (§4.3: "If the function type has a typedef alias, aliasThrows =
// annotation reader on the alias element").
type TypedefDecl struct {
	base
	Loc      config.ElementLocation
	Ident    string
	Metadata []config.Annotation
	Aliased  types.Type
}

func (t *TypedefDecl) statementNode()                   {}
func (t *TypedefDecl) String() string                   { return "typedef " + t.Ident }
func (t *TypedefDecl) Location() config.ElementLocation { return t.Loc }
func (t *TypedefDecl) Annotations() []config.Annotation { return t.Metadata }
func (t *TypedefDecl) Name() string                     { return t.Ident }
