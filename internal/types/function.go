package types

import "strings"

// FunctionType models a structural function type: parameter types, a
// return type, and optionally the Throws contributed by a typedef alias
// wrapping it (§4.3). Grounded on the teacher's types.FunctionType, which
// is likewise a plain parameter/return pair with a String() renderer.
type FunctionType struct {
	Return              Type
	aliasThrown         []Type
	Params              []Type
	aliasCanThrowUndecl bool
	hasAlias            bool
}

func NewFunctionType(params []Type, ret Type) *FunctionType {
	return &FunctionType{Params: params, Return: ret}
}

// WithAlias records that this function type flows through a typedef
// annotated with the given Throws (as read by the annotation reader from
// the alias element's metadata, computed once at construction time so
// that this package never needs to depend on the annotation reader).
func (f *FunctionType) WithAlias(thrown []Type, canThrowUndeclared bool) *FunctionType {
	f.hasAlias = true
	f.aliasThrown = thrown
	f.aliasCanThrowUndecl = canThrowUndeclared
	return f
}

func (f *FunctionType) Parameters() []Type { return f.Params }
func (f *FunctionType) ReturnType() Type   { return f.Return }

func (f *FunctionType) AliasThrows() (thrown []Type, canThrowUndeclared bool, ok bool) {
	if !f.hasAlias {
		return nil, false, false
	}
	return f.aliasThrown, f.aliasCanThrowUndecl, true
}

func (f *FunctionType) String() string {
	var sb strings.Builder
	sb.WriteByte('(')
	for i, p := range f.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(p.String())
	}
	sb.WriteString(") -> ")
	if f.Return == nil {
		sb.WriteString("Void")
	} else {
		sb.WriteString(f.Return.String())
	}
	return sb.String()
}

func (f *FunctionType) Equals(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok || o == nil || len(o.Params) != len(f.Params) {
		return false
	}
	for i, p := range f.Params {
		if !SameType(p, o.Params[i]) {
			return false
		}
	}
	return SameType(f.Return, o.Return)
}

// IsAssignableTo treats function types as invariant in parameters and
// covariant in return type; exact enough for the resolver, which only
// ever asks "is this the same structural shape".
func (f *FunctionType) IsAssignableTo(other Type) bool {
	o, ok := other.(*FunctionType)
	if !ok {
		return false
	}
	if len(o.Params) != len(f.Params) {
		return false
	}
	for i, p := range f.Params {
		if !SameType(p, o.Params[i]) {
			return false
		}
	}
	if f.Return == nil || o.Return == nil {
		return f.Return == o.Return
	}
	return f.Return.IsAssignableTo(o.Return)
}

func (f *FunctionType) IsExceptionSubtype() bool { return false }

// FutureType models Future<U> / FutureOr<U>-shaped types (§4.3 second
// bullet).
type FutureType struct {
	Elem                Type
	aliasThrown         []Type
	aliasCanThrowUndecl bool
	hasAlias            bool
}

func NewFutureType(elem Type) *FutureType { return &FutureType{Elem: elem} }

func (f *FutureType) WithAlias(thrown []Type, canThrowUndeclared bool) *FutureType {
	f.hasAlias = true
	f.aliasThrown = thrown
	f.aliasCanThrowUndecl = canThrowUndeclared
	return f
}

func (f *FutureType) ElementType() Type { return f.Elem }

func (f *FutureType) AliasThrows() (thrown []Type, canThrowUndeclared bool, ok bool) {
	if !f.hasAlias {
		return nil, false, false
	}
	return f.aliasThrown, f.aliasCanThrowUndecl, true
}

func (f *FutureType) String() string {
	if f.Elem == nil {
		return "Future<void>"
	}
	return "Future<" + f.Elem.String() + ">"
}

func (f *FutureType) Equals(other Type) bool {
	o, ok := other.(*FutureType)
	return ok && o != nil && SameType(f.Elem, o.Elem)
}

func (f *FutureType) IsAssignableTo(other Type) bool {
	o, ok := other.(*FutureType)
	if !ok || o == nil {
		return false
	}
	if f.Elem == nil || o.Elem == nil {
		return f.Elem == o.Elem
	}
	return f.Elem.IsAssignableTo(o.Elem)
}

func (f *FutureType) IsExceptionSubtype() bool { return false }
