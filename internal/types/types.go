// Package types models the host language's type system as seen by the
// configuration resolver: an opaque, read-only oracle for thrown-type
// subtyping plus the handful of structural shapes (callable, future-like)
// the type-configuration deriver needs to recognize. None of these values
// are owned or mutated by this module; a host embedding the resolver is
// expected to supply its own Type implementations backed by its real type
// system.
package types

// Type is the opaque handle into the host type system described in the
// data model (the "thrown-type reference"). Every thrown type, parameter
// type, return type, and variable type the resolver touches arrives as a
// Type value.
type Type interface {
	// IsAssignableTo reports whether a value of this type can be assigned
	// to a location of type other — the host's covariant subtype check.
	IsAssignableTo(other Type) bool

	// IsExceptionSubtype reports whether this type is a subtype of the
	// host's root Exception marker. Types that are not Exception subtypes
	// but are still below Object are Errors.
	IsExceptionSubtype() bool

	// Equals reports exact type equality (not subtyping).
	Equals(other Type) bool

	// String renders the type for diagnostics.
	String() string
}

// LessOrEqual is the antichain ordering used throughout the lattice: t ≤ u
// iff t is assignable to u.
func LessOrEqual(t, u Type) bool {
	if t == nil || u == nil {
		return false
	}
	return t.IsAssignableTo(u)
}

// SameType reports structural/nominal equality, guarding against nil.
func SameType(t, u Type) bool {
	if t == nil || u == nil {
		return t == nil && u == nil
	}
	return t.Equals(u)
}

// FunctionShape is implemented by types that contribute an Invoke promotion
// slot purely by virtue of being a function type (§4.3, first bullet).
type FunctionShape interface {
	Type
	Parameters() []Type
	ReturnType() Type
	// AliasThrows reports the Throws contributed by a typedef alias over
	// this function type, if any. ok is false when the function type has
	// no alias (the deriver then uses an empty Throws).
	AliasThrows() (thrown []Type, canThrowUndeclared bool, ok bool)
}

// FutureShape is implemented by types that contribute an Await promotion
// slot (Future<U> and FutureOr<U>-style unions).
type FutureShape interface {
	Type
	ElementType() Type
	AliasThrows() (thrown []Type, canThrowUndeclared bool, ok bool)
}

// CallableShape is implemented by types that are not themselves function
// types but expose a non-static instance `call` member, making them
// structurally invocable (§4.3, third bullet).
type CallableShape interface {
	Type
	CallMember() FunctionShape
}
