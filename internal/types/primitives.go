package types

import "strings"

// simple is a leaf named type with no promotion shape — used for
// ordinary value types (String, int, a plain exception class without a
// call member, and so on) and for the handful of special markers the
// lattice and cast rule need to recognize by identity.
type simple struct {
	name      string
	exception bool
}

func NewSimpleType(name string) Type { return &simple{name: name} }

func (s *simple) String() string { return s.name }

func (s *simple) Equals(other Type) bool {
	o, ok := other.(*simple)
	return ok && o != nil && o.name == s.name
}
func (s *simple) IsAssignableTo(other Type) bool { return s.Equals(other) }
func (s *simple) IsExceptionSubtype() bool       { return s.exception }

// Dynamic, Object, and NullableObject are recognized by the cast rule
// (§4.5: "cast e as T: {TypeError} unless T is dynamic or nullable-Object").
var (
	Dynamic        Type = &simple{name: "dynamic"}
	Object         Type = &simple{name: "Object"}
	NullableObject Type = &simple{name: "Object?"}
)

// IsDynamicOrNullableObject reports whether t is one of the two types a
// cast expression never throws for.
func IsDynamicOrNullableObject(t Type) bool {
	return t == Dynamic || t == NullableObject ||
		(t != nil && (t.Equals(Dynamic) || t.Equals(NullableObject)))
}

// IsObjectRoot reports whether t is the root Object type (or its
// nullable form) — the top of the thrown-value hierarchy, covering
// every Exception and Error alike. Recognizes both the built-in marker
// and a parentless class named Object from a host hierarchy.
func IsObjectRoot(t Type) bool {
	if t == nil {
		return false
	}
	if t == Object || t == NullableObject || t.Equals(Object) || t.Equals(NullableObject) {
		return true
	}
	if c, ok := t.(*ClassType); ok {
		return c.Parent == nil && (strings.EqualFold(c.Name, "Object") || c.Name == "Object?")
	}
	return false
}

// DualShape is a fixture type implementing both FutureShape and
// CallableShape simultaneously, to exercise the deriver's "ambiguous
// dual-shape type" rule (§4.3: "If both future and callable apply
// ambiguously, drop alias throws").
type DualShape struct {
	Elem Type
	Call *FunctionType
}

func (d *DualShape) String() string                    { return "Future<callable>" }
func (d *DualShape) Equals(other Type) bool            { return d == other }
func (d *DualShape) IsAssignableTo(other Type) bool    { return d.Equals(other) }
func (d *DualShape) IsExceptionSubtype() bool          { return false }
func (d *DualShape) ElementType() Type                 { return d.Elem }
func (d *DualShape) CallMember() FunctionShape         { return d.Call }
func (d *DualShape) AliasThrows() ([]Type, bool, bool) { return nil, false, false }
