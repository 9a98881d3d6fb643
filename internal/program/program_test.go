package program

import (
	"testing"

	"github.com/cwbudde/effectcheck/internal/ast"
)

const sampleJSON = `{
  "library": "app",
  "file": "app.json",
  "source": "class Base {}\nclass Derived extends Base {}\n",
  "classes": [
    {"name": "Base", "fields": [
      {"name": "count", "type": {"kind": "object"}}
    ]},
    {"name": "Derived", "superclass": "Base", "interfaces": [], "mixins": []}
  ],
  "functions": [
    {
      "name": "read",
      "owner": "Derived",
      "metadata": [{"kind": "Throws", "type": "IOError"}],
      "params": [{"name": "path", "type": {"kind": "object"}}],
      "return": {"kind": "object"},
      "line": 3,
      "column": 5
    },
    {
      "name": "topLevel",
      "metadata": [{"kind": "safe"}],
      "return": {"kind": "void"}
    }
  ]
}`

func TestLoadParsesClassesAndFunctions(t *testing.T) {
	prog, err := Load([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if prog.Library != "app" {
		t.Errorf("Library = %q, expected app", prog.Library)
	}
	if len(prog.Classes) != 2 {
		t.Fatalf("expected 2 classes, got %d", len(prog.Classes))
	}

	derived, ok := prog.Classes["Derived"]
	if !ok {
		t.Fatalf("expected a Derived class")
	}
	if derived.Superclass == nil || derived.Superclass.Ident != "Base" {
		t.Errorf("Derived.Superclass not wired to Base")
	}

	var read *ast.FunctionDecl
	for _, e := range prog.Elements {
		if fn, ok := e.(*ast.FunctionDecl); ok && fn.Name() == "read" {
			read = fn
		}
	}
	if read == nil {
		t.Fatalf("expected a read function element")
	}
	if read.Owner != derived {
		t.Errorf("read.Owner should be the Derived class")
	}
	if len(read.Annotations()) != 1 || read.Annotations()[0].Kind.String() != "Throws" {
		t.Errorf("expected read to carry a single Throws annotation, got %v", read.Annotations())
	}
	if read.Location().Path != "Derived.read" {
		t.Errorf("read.Location().Path = %q, expected Derived.read", read.Location().Path)
	}
}

func TestLoadWiresFieldsAsElements(t *testing.T) {
	prog, err := Load([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var count *ast.VariableDecl
	for _, e := range prog.Elements {
		if v, ok := e.(*ast.VariableDecl); ok && v.Name() == "count" {
			count = v
		}
	}
	if count == nil {
		t.Fatalf("expected a count field element")
	}
	if !count.IsField {
		t.Errorf("count should be marked IsField")
	}
}

func TestLoadInvalidJSON(t *testing.T) {
	if _, err := Load([]byte("not json")); err == nil {
		t.Errorf("expected an error loading invalid JSON")
	}
}

const bodyJSON = `{
  "library": "app",
  "file": "app.json",
  "source": "",
  "classes": [
    {"name": "Object"},
    {"name": "Exception", "superclass": "Object"},
    {"name": "IOError", "superclass": "Exception"}
  ],
  "functions": [
    {
      "name": "risky",
      "metadata": [{"kind": "Throws", "type": "IOError"}],
      "return": {"kind": "void"}
    },
    {
      "name": "caller",
      "return": {"kind": "void"},
      "body": [
        {"kind": "expr", "line": 2, "column": 3,
         "expr": {"kind": "call", "ref": "risky", "line": 2, "column": 3}},
        {"kind": "throw", "line": 3, "column": 3,
         "expr": {"kind": "new", "type": "IOError", "line": 3, "column": 9}}
      ]
    }
  ]
}`

func TestLoadBuildsBodiesWithResolvedTargets(t *testing.T) {
	prog, err := Load([]byte(bodyJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	var caller, risky *ast.FunctionDecl
	for _, e := range prog.Elements {
		if fn, ok := e.(*ast.FunctionDecl); ok {
			switch fn.Name() {
			case "caller":
				caller = fn
			case "risky":
				risky = fn
			}
		}
	}
	if caller == nil || caller.Body == nil {
		t.Fatalf("expected caller with a loaded body")
	}
	if len(caller.Body.Statements) != 2 {
		t.Fatalf("expected 2 body statements, got %d", len(caller.Body.Statements))
	}

	callStmt, ok := caller.Body.Statements[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("expected an expression statement, got %T", caller.Body.Statements[0])
	}
	call, ok := callStmt.Expr.(*ast.Call)
	if !ok {
		t.Fatalf("expected a call expression, got %T", callStmt.Expr)
	}
	if call.StaticTarget != risky {
		t.Errorf("the call's static target should resolve to risky")
	}

	raise, ok := caller.Body.Statements[1].(*ast.RaiseStatement)
	if !ok {
		t.Fatalf("expected a raise statement, got %T", caller.Body.Statements[1])
	}
	if raise.StaticType == nil || raise.StaticType.String() != "IOError" {
		t.Errorf("the raise's static type should resolve to IOError, got %v", raise.StaticType)
	}
	if !raise.StaticType.IsExceptionSubtype() {
		t.Errorf("IOError should inherit the Exception marker through its superclass chain")
	}

	if call.Key() == raise.Key() || call.Key() == callStmt.Key() {
		t.Errorf("loaded body nodes must carry distinct memoization keys")
	}
}

func TestLoadRegistersSyntheticDefaultConstructors(t *testing.T) {
	prog, err := Load([]byte(bodyJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	var ctor *ast.FunctionDecl
	for _, e := range prog.Elements {
		if fn, ok := e.(*ast.FunctionDecl); ok && fn.IsConstructor && fn.Location().Path == "IOError.new" {
			ctor = fn
		}
	}
	if ctor == nil {
		t.Fatalf("expected a synthetic IOError.new constructor element")
	}
	if ctor.Body != nil {
		t.Errorf("a synthetic constructor has no body")
	}
}

func TestResolveTypeBuiltinsAndClasses(t *testing.T) {
	prog, err := Load([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if _, ok := prog.ResolveType("void", nil, ""); ok {
		t.Errorf("void should resolve to not-ok")
	}
	if ty, ok := prog.ResolveType("dynamic", nil, ""); !ok || ty == nil {
		t.Errorf("dynamic should resolve")
	}
	if ty, ok := prog.ResolveType("Base", nil, ""); !ok || ty.String() != "Base" {
		t.Errorf("Base should resolve to the declared class, got %v, ok=%v", ty, ok)
	}
	if _, ok := prog.ResolveType("Unknown", nil, ""); ok {
		t.Errorf("an undeclared name should not resolve")
	}
}
