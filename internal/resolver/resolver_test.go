package resolver

import (
	"context"
	"testing"

	"github.com/kr/pretty"

	"github.com/cwbudde/effectcheck/internal/ast"
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/overrides"
	"github.com/cwbudde/effectcheck/internal/types"
)

// stampable is satisfied by every AST node via the embedded base.
type stampable interface {
	Stamp(ast.Unit, ast.Position, int, int, string)
}

// offsetCounter hands every fixture node a distinct memoization key;
// nodes built with struct literals would otherwise collide in the
// expression memo table on the zero key.
var offsetCounter int

func stamp(n stampable, kind string) {
	offsetCounter++
	n.Stamp(ast.Unit{Library: "lib"}, ast.Position{Line: 1, Column: offsetCounter}, offsetCounter, 1, kind)
}

func literal() *ast.Literal {
	n := &ast.Literal{Text: "0"}
	stamp(n, "literal")
	return n
}

func throwExpr(t types.Type) *ast.ThrowExpr {
	n := &ast.ThrowExpr{Operand: literal(), StaticType: t}
	stamp(n, "throw")
	return n
}

func raiseStmt(t types.Type) *ast.RaiseStatement {
	n := &ast.RaiseStatement{StaticType: t}
	stamp(n, "throw-stmt")
	return n
}

func callOf(target ast.Element) *ast.Call {
	n := &ast.Call{Callee: literal(), StaticTarget: target}
	stamp(n, "call")
	return n
}

func exprStmt(e ast.Expression) *ast.ExpressionStatement {
	n := &ast.ExpressionStatement{Expr: e}
	stamp(n, "expr-stmt")
	return n
}

func objectAndException() (*types.ClassType, *types.ClassType) {
	object := types.NewClassType("Object", nil)
	exception := types.NewExceptionClassType("Exception", object)
	return object, exception
}

func TestComputeExecutableElementNoAnnotationsNoBodyIsEmpty(t *testing.T) {
	r := New(overrides.NewTable())
	fn := &ast.FunctionDecl{
		Loc:   config.NewElementLocation("lib", "f"),
		Ident: "f",
	}
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if !invoke.Throws.IsEmpty() {
		t.Errorf("an unannotated, bodyless function should throw nothing, got %v", invoke.Throws)
	}
}

func TestComputeExecutableElementDeclaredAnnotationWinsOverBody(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	body := &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError)}}
	fn := &ast.FunctionDecl{
		Loc:      config.NewElementLocation("lib", "f"),
		Ident:    "f",
		Body:     body,
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: exception}},
	}

	r := New(overrides.NewTable())
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], exception) {
		t.Fatalf("expected the declared annotation (Exception) to win over the body's IOError, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestComputeExecutableElementInfersFromBodyWhenUnannotated(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	body := &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError)}}
	fn := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "f"), Ident: "f", Body: body}

	r := New(overrides.NewTable())
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], ioError) {
		t.Fatalf("expected the inferred IOError from the body, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestComputeExecutableElementTryCatchSubtractsHandledType(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)
	parseError := types.NewExceptionClassType("ParseError", exception)

	tryStmt := &ast.TryStatement{
		TryBlock: &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError), raiseStmt(parseError)}},
		Catches: []*ast.CatchClause{
			{CaughtType: ioError, Body: &ast.BlockStatement{}},
		},
	}
	stamp(tryStmt, "try")
	body := &ast.BlockStatement{Statements: []ast.Statement{tryStmt}}
	fn := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "f"), Ident: "f", Body: body}

	r := New(overrides.NewTable())
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], parseError) {
		t.Fatalf("expected only ParseError to survive the catch(IOError), got %v", invoke.Throws.ThrownTypes)
	}
}

func TestComputeExecutableElementCatchAllClearsEverything(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	tryStmt := &ast.TryStatement{
		TryBlock: &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError)}},
		Catches: []*ast.CatchClause{
			{CaughtType: nil, Body: &ast.BlockStatement{}},
		},
	}
	stamp(tryStmt, "try")
	body := &ast.BlockStatement{Statements: []ast.Statement{tryStmt}}
	fn := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "f"), Ident: "f", Body: body}

	r := New(overrides.NewTable())
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if !invoke.Throws.IsEmpty() {
		t.Fatalf("a catch-all clause should clear every thrown type, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestComputeExecutableElementSkipsLateVariableInitializer(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	lateVar := &ast.VariableDecl{Ident: "x", IsLate: true, Initializer: throwExpr(ioError)}
	stamp(lateVar, "local")
	varStmt := &ast.VarDeclStatement{Decls: []*ast.VariableDecl{lateVar}}
	stamp(varStmt, "var")
	body := &ast.BlockStatement{Statements: []ast.Statement{varStmt}}
	fn := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "f"), Ident: "f", Body: body}

	r := New(overrides.NewTable())
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if !invoke.Throws.IsEmpty() {
		t.Fatalf("a late variable's initializer should not contribute to the enclosing function's inferred throws, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestComputeInvocationFallsBackToNoSuchMethodError(t *testing.T) {
	r := New(overrides.NewTable())

	fn := &ast.FunctionDecl{
		Loc:   config.NewElementLocation("lib", "f"),
		Ident: "f",
		Body:  &ast.BlockStatement{Statements: []ast.Statement{exprStmt(callOf(nil))}},
	}

	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || invoke.Throws.ThrownTypes[0].String() != "NoSuchMethodError" {
		t.Fatalf("an unresolved call target should infer NoSuchMethodError, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestCallExpressionCarriesCalleeInvokeThrows(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	callee := &ast.FunctionDecl{
		Loc:      config.NewElementLocation("lib", "risky"),
		Ident:    "risky",
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: ioError}},
	}
	call := callOf(callee)

	r := New(overrides.NewTable())
	cfg := r.ExpressionConfiguration(call, "lib")
	if len(cfg.Throws.ThrownTypes) != 1 || !types.SameType(cfg.Throws.ThrownTypes[0], ioError) {
		t.Fatalf("a call's own throws should be the callee's invoke-slot throws, got %s", pretty.Sprint(cfg))
	}
}

func TestConditionalExpressionUnionsBothBranches(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)
	parseError := types.NewExceptionClassType("ParseError", exception)

	cond := &ast.ConditionalExpr{Condition: literal(), Then: throwExpr(ioError), Otherwise: throwExpr(parseError)}
	stamp(cond, "cond")

	fn := &ast.FunctionDecl{
		Loc:   config.NewElementLocation("lib", "f"),
		Ident: "f",
		Body:  &ast.BlockStatement{Statements: []ast.Statement{exprStmt(cond)}},
	}

	r := New(overrides.NewTable())
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 2 {
		t.Fatalf("expected both conditional branches' throws unioned, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestUnionInferenceKeepsAntichainMinimal(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	// Throwing both a type and its supertype must infer just the
	// supertype.
	body := &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError), raiseStmt(exception)}}
	fn := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "f"), Ident: "f", Body: body}

	r := New(overrides.NewTable())
	invoke := r.ElementConfiguration(fn).ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], exception) {
		t.Fatalf("expected the antichain to collapse IOError into Exception, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestAwaitOfNonFutureIsNoOp(t *testing.T) {
	r := New(overrides.NewTable())
	await := &ast.AwaitExpr{Operand: literal()}
	stamp(await, "await")
	cfg := r.ExpressionConfiguration(await, "lib")
	if !cfg.IsEmpty() {
		t.Errorf("awaiting a plain literal (no Await slot) should pass through as empty, got %v", cfg)
	}
}

func TestAwaitSurfacesAsyncCalleeThrows(t *testing.T) {
	_, exception := objectAndException()
	e := types.NewExceptionClassType("E", exception)

	asyncFn := &ast.FunctionDecl{
		Loc:      config.NewElementLocation("lib", "f"),
		Ident:    "f",
		IsAsync:  true,
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: e}},
	}
	await := &ast.AwaitExpr{Operand: callOf(asyncFn)}
	stamp(await, "await")

	r := New(overrides.NewTable())
	cfg := r.ExpressionConfiguration(await, "lib")
	if len(cfg.Throws.ThrownTypes) != 1 || !types.SameType(cfg.Throws.ThrownTypes[0], e) {
		t.Fatalf("awaiting an async Throws<E> callee should surface E at the await, got %s", pretty.Sprint(cfg))
	}
}

func TestAdaptAnnotationRoundTrip(t *testing.T) {
	_, exception := objectAndException()
	thrown := config.Throws{ThrownTypes: []types.Type{exception}}

	cases := []struct {
		name             string
		isGetterOrSetter bool
		isAsync          bool
	}{
		{"sync function", false, false},
		{"async function", false, true},
		{"getter", true, false},
		{"async getter", true, true},
	}
	for _, tc := range cases {
		fn := &ast.FunctionDecl{IsGetter: tc.isGetterOrSetter, IsAsync: tc.isAsync}
		cfg := adapt(fn, thrown, config.Empty())
		got, ok := computeEquivalentAnnotationConfiguration(cfg, tc.isGetterOrSetter, tc.isAsync)
		if !ok {
			t.Errorf("%s: expected the adapt shells to unwrap", tc.name)
			continue
		}
		if !got.Equal(thrown) {
			t.Errorf("%s: round trip produced %v, expected %v", tc.name, got, thrown)
		}
	}
}

func TestFunctionExpressionAdoptsParameterConfiguration(t *testing.T) {
	_, exception := objectAndException()

	param := &ast.VariableDecl{
		Loc:         config.NewElementLocation("lib", "g.$0"),
		Ident:       "callback",
		Metadata:    []config.Annotation{{Kind: config.AnnotationSafe}},
		Type:        types.NewFunctionType(nil, nil),
		IsParameter: true,
	}
	lambda := &ast.FunctionDecl{
		Ident:        "<fn>",
		IsExpression: true,
		StaticParam:  param,
		Body:         &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(exception)}},
	}
	stamp(lambda, "lambda")

	r := New(overrides.NewTable())
	cfg := r.ExpressionConfiguration(lambda, "lib")
	invoke := cfg.ValueAt(config.Invoke)
	if !invoke.Throws.CanThrowUndeclared {
		t.Errorf("a literal flowing into a @safe parameter should adopt the parameter's configuration, got %s", pretty.Sprint(cfg))
	}

	inferred := r.FunctionExpressionInferredConfiguration(lambda)
	inv := inferred.ValueAt(config.Invoke)
	if len(inv.Throws.ThrownTypes) != 1 || !types.SameType(inv.Throws.ThrownTypes[0], exception) {
		t.Errorf("the body-derived configuration should still report the thrown Exception, got %s", pretty.Sprint(inferred))
	}
}

// TestSettleResolvesCrossElementDependency exercises the fixed-point
// loop (§4.9): function A calls function B via a resolved StaticTarget;
// after Settle, A's computed invoke-slot throws should include B's,
// picked up purely through the dependents graph rather than a second
// explicit wiring.
func TestSettleResolvesCrossElementDependency(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	funcB := &ast.FunctionDecl{
		Loc:      config.NewElementLocation("lib", "b"),
		Ident:    "b",
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: ioError}},
	}
	funcA := &ast.FunctionDecl{
		Loc:   config.NewElementLocation("lib", "a"),
		Ident: "a",
		Body:  &ast.BlockStatement{Statements: []ast.Statement{exprStmt(callOf(funcB))}},
	}

	r := New(overrides.NewTable())
	r.RegisterAll([]ast.Element{funcA, funcB})
	if err := r.Settle(context.Background()); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	cfgA := r.ElementConfiguration(funcA)
	invokeA := cfgA.ValueAt(config.Invoke)
	if len(invokeA.Throws.ThrownTypes) != 1 || !types.SameType(invokeA.Throws.ThrownTypes[0], ioError) {
		t.Fatalf("expected A's inferred throws to include B's declared IOError after settling, got %v", invokeA.Throws.ThrownTypes)
	}
}

// TestSettleMutualRecursionConverges is the S6 shape at the resolver
// level: two functions calling each other with nothing else thrown must
// settle with empty throws rather than spinning or inferring a spurious
// NoSuchMethodError from the provisional in-flight answer.
func TestSettleMutualRecursionConverges(t *testing.T) {
	funcA := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "a"), Ident: "a"}
	funcB := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "b"), Ident: "b"}
	funcA.Body = &ast.BlockStatement{Statements: []ast.Statement{exprStmt(callOf(funcB))}}
	funcB.Body = &ast.BlockStatement{Statements: []ast.Statement{exprStmt(callOf(funcA))}}

	r := New(overrides.NewTable())
	r.RegisterAll([]ast.Element{funcA, funcB})
	if err := r.Settle(context.Background()); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	for _, fn := range []*ast.FunctionDecl{funcA, funcB} {
		invoke := r.ElementConfiguration(fn).ValueAt(config.Invoke)
		if !invoke.Throws.IsEmpty() {
			t.Errorf("%s should settle with empty throws, got %s", fn.Ident, pretty.Sprint(invoke.Throws))
		}
	}
}

// TestSettlePropagatesThroughCycle anchors one side of a mutual
// recursion with an explicit annotation and checks the other side's
// inference eventually observes it across settle iterations.
func TestSettlePropagatesThroughCycle(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	funcA := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "a"), Ident: "a"}
	funcB := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "b"), Ident: "b"}
	// a calls b and also throws IOError itself; b just calls a.
	funcA.Body = &ast.BlockStatement{Statements: []ast.Statement{
		exprStmt(callOf(funcB)),
		raiseStmt(ioError),
	}}
	funcB.Body = &ast.BlockStatement{Statements: []ast.Statement{exprStmt(callOf(funcA))}}

	r := New(overrides.NewTable())
	r.RegisterAll([]ast.Element{funcA, funcB})
	if err := r.Settle(context.Background()); err != nil {
		t.Fatalf("Settle failed: %v", err)
	}

	invokeB := r.ElementConfiguration(funcB).ValueAt(config.Invoke)
	if len(invokeB.Throws.ThrownTypes) != 1 || !types.SameType(invokeB.Throws.ThrownTypes[0], ioError) {
		t.Fatalf("b's inference should pick up a's IOError through the cycle, got %s", pretty.Sprint(invokeB.Throws))
	}
}

func TestSettleCancellation(t *testing.T) {
	fn := &ast.FunctionDecl{Loc: config.NewElementLocation("lib", "f"), Ident: "f"}
	r := New(overrides.NewTable())
	r.Register(fn)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := r.Settle(ctx); err == nil {
		t.Fatalf("Settle should report the cancellation")
	}
}

func TestInheritedConfigurationIntersectsOverriddenMembers(t *testing.T) {
	object := types.NewClassType("Object", nil)
	exception := types.NewExceptionClassType("Exception", object)
	ioError := types.NewExceptionClassType("IOError", exception)

	baseClass := &ast.ClassDecl{Loc: config.NewElementLocation("lib", "Base"), Ident: "Base", ClassType: object}
	baseMethod := &ast.FunctionDecl{
		Loc:      config.NewElementLocation("lib", "Base.m"),
		Ident:    "m",
		Owner:    baseClass,
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: ioError}},
	}
	baseClass.Members = append(baseClass.Members, baseMethod)

	derivedClass := &ast.ClassDecl{
		Loc: config.NewElementLocation("lib", "Derived"), Ident: "Derived",
		Superclass: baseClass,
	}
	derivedMethod := &ast.FunctionDecl{
		Loc:   config.NewElementLocation("lib", "Derived.m"),
		Ident: "m",
		Owner: derivedClass,
		// No declared annotation and no body: purely inherited.
	}
	derivedClass.Members = append(derivedClass.Members, derivedMethod)

	r := New(overrides.NewTable())
	r.RegisterAll([]ast.Element{baseClass, baseMethod, derivedClass, derivedMethod})

	inherited, ok := r.InheritedConfiguration(derivedMethod)
	if !ok {
		t.Fatalf("expected an inherited configuration from Base.m")
	}
	inhInvoke := inherited.ValueAt(config.Invoke)
	if len(inhInvoke.Throws.ThrownTypes) != 1 || !types.SameType(inhInvoke.Throws.ThrownTypes[0], ioError) {
		t.Errorf("expected the inherited IOError, got %s", pretty.Sprint(inherited))
	}

	cfg := r.ElementConfiguration(derivedMethod)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], ioError) {
		t.Errorf("expected Derived.m's own configuration to pick up the inherited throws, got %v", invoke.Throws.ThrownTypes)
	}
}

func TestBodyInferenceOutranksInheritedConfiguration(t *testing.T) {
	object := types.NewClassType("Object", nil)
	exception := types.NewExceptionClassType("Exception", object)
	formatError := types.NewExceptionClassType("FormatException", exception)
	ioError := types.NewExceptionClassType("IOException", exception)

	baseClass := &ast.ClassDecl{Loc: config.NewElementLocation("lib", "Base"), Ident: "Base"}
	baseMethod := &ast.FunctionDecl{
		Loc:      config.NewElementLocation("lib", "Base.m"),
		Ident:    "m",
		Owner:    baseClass,
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: formatError}},
	}
	baseClass.Members = append(baseClass.Members, baseMethod)

	derivedClass := &ast.ClassDecl{Loc: config.NewElementLocation("lib", "Derived"), Ident: "Derived", Superclass: baseClass}
	derivedMethod := &ast.FunctionDecl{
		Loc:   config.NewElementLocation("lib", "Derived.m"),
		Ident: "m",
		Owner: derivedClass,
		Body:  &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError)}},
	}
	derivedClass.Members = append(derivedClass.Members, derivedMethod)

	r := New(overrides.NewTable())
	r.RegisterAll([]ast.Element{baseClass, baseMethod, derivedClass, derivedMethod})

	invoke := r.ElementConfiguration(derivedMethod).ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], ioError) {
		t.Fatalf("a body-bearing override should keep its inferred throws (so override widening is observable), got %s", pretty.Sprint(invoke.Throws))
	}
}

func TestSyntheticAccessorForwardsToBackingField(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)

	field := &ast.VariableDecl{
		Loc:      config.NewElementLocation("lib", "C.x"),
		Ident:    "x",
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: ioError}},
		Type:     types.NewFunctionType(nil, nil),
		IsField:  true,
	}
	getter := &ast.FunctionDecl{
		Loc:          config.NewElementLocation("lib", "C.x.get"),
		Ident:        "x",
		IsGetter:     true,
		BackingField: field,
	}

	r := New(overrides.NewTable())
	fieldCfg := r.ElementConfiguration(field)
	getterCfg := r.ElementConfiguration(getter)
	if !getterCfg.Equal(fieldCfg) {
		t.Errorf("a synthetic accessor should forward its field's configuration:\nfield  %s\ngetter %s",
			pretty.Sprint(fieldCfg), pretty.Sprint(getterCfg))
	}
}

func TestOverrideTableTakesPrecedenceOverAnnotationAndBody(t *testing.T) {
	_, exception := objectAndException()
	ioError := types.NewExceptionClassType("IOError", exception)
	parseError := types.NewExceptionClassType("ParseError", exception)

	loc := config.NewElementLocation("lib", "f")
	table := overrides.NewTable()
	table.Merge(overrides.Document{CheckedExceptions: []overrides.Entry{
		{Library: "lib", Element: "f", Invoke: &overrides.PromotionRec{Throws: []string{"ParseError"}}},
	}}, func(expr string, _ []string, _ string) (types.Type, bool) {
		if expr == "ParseError" {
			return parseError, true
		}
		return nil, false
	})

	fn := &ast.FunctionDecl{
		Loc:      loc,
		Ident:    "f",
		Body:     &ast.BlockStatement{Statements: []ast.Statement{raiseStmt(ioError)}},
		Metadata: []config.Annotation{{Kind: config.AnnotationThrows, ThrownType: ioError}},
	}

	r := New(table)
	cfg := r.ElementConfiguration(fn)
	invoke := cfg.ValueAt(config.Invoke)
	if len(invoke.Throws.ThrownTypes) != 1 || !types.SameType(invoke.Throws.ThrownTypes[0], parseError) {
		t.Fatalf("expected the override table's ParseError to win outright over both the annotation and the body, got %v", invoke.Throws.ThrownTypes)
	}
}
