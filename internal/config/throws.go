package config

import (
	"sort"
	"strings"

	"github.com/cwbudde/effectcheck/internal/types"
)

// Throws is the triple from §3: the minimal antichain of thrown types,
// whether any non-Exception value (an Error) is also permitted, and
// whether this value was derived from body analysis (true) or anchored by
// an explicit annotation/override entry (false). Inferred controls
// precedence in every merge throughout the resolver.
type Throws struct {
	ThrownTypes        []types.Type
	CanThrowUndeclared bool
	Inferred           bool
}

// EmptyThrows is the distinguished Throws::empty value: throws nothing,
// does not permit undeclared Errors, and is marked inferred (so an
// explicit annotation anywhere always outranks it in a merge).
func EmptyThrows() Throws {
	return Throws{Inferred: true}
}

// Exactly builds a Throws for a single declared type, not inferred.
func Exactly(t types.Type) Throws {
	return Throws{ThrownTypes: []types.Type{t}}
}

// IsEmpty reports whether this throws nothing and permits no undeclared
// Errors — the identity element for Union.
func (t Throws) IsEmpty() bool {
	return len(t.ThrownTypes) == 0 && !t.CanThrowUndeclared
}

// InsertIntoAntichain inserts t into the accumulator, preserving the
// antichain invariant: t is dropped if some element of acc is already a
// supertype of it; otherwise any acc element that is a subtype of (i.e.
// covered by) t is removed before t is appended. This is the shared
// primitive behind Union's "insert each source type" rule (§4.1).
func InsertIntoAntichain(acc []types.Type, t types.Type) []types.Type {
	for _, existing := range acc {
		if types.LessOrEqual(t, existing) {
			return acc // t is already covered by a supertype in acc
		}
	}
	out := acc[:0:0]
	for _, existing := range acc {
		if !types.LessOrEqual(existing, t) {
			out = append(out, existing)
		}
	}
	return append(out, t)
}

// NormalizeAntichain reduces an arbitrary slice of types to the minimal
// antichain it implies (Testable Property 1).
func NormalizeAntichain(ts []types.Type) []types.Type {
	var acc []types.Type
	for _, t := range ts {
		acc = InsertIntoAntichain(acc, t)
	}
	return acc
}

// Covers reports whether this Throws permits a value of thrown type t to
// escape uncaught: either some declared thrown type is a supertype of t,
// or t is an Error and CanThrowUndeclared is set. This is the shared
// "covering" rule used by Intersect, IsCompatible, and uncaught-throw.
func (t Throws) Covers(thrown types.Type) bool {
	for _, u := range t.ThrownTypes {
		if types.LessOrEqual(thrown, u) {
			return true
		}
	}
	if t.CanThrowUndeclared && thrown != nil && !thrown.IsExceptionSubtype() {
		return true
	}
	return false
}

// String renders the throws set for diagnostics, e.g. "Throws<A, B>" or
// "safe" or "neverThrows".
func (t Throws) String() string {
	if len(t.ThrownTypes) == 0 {
		if t.CanThrowUndeclared {
			return "safe"
		}
		return "neverThrows"
	}
	names := make([]string, len(t.ThrownTypes))
	for i, ty := range t.ThrownTypes {
		names[i] = ty.String()
	}
	sort.Strings(names)
	suffix := ""
	if t.CanThrowUndeclared {
		suffix = ", ..."
	}
	return "Throws<" + strings.Join(names, ", ") + suffix + ">"
}

// Equal is the structural equality Testable Property 1/§4.9 requires:
// Configuration equality must be structural, not pointer-based. Order
// within ThrownTypes does not matter since it is an antichain.
func (t Throws) Equal(other Throws) bool {
	if t.CanThrowUndeclared != other.CanThrowUndeclared {
		return false
	}
	if len(t.ThrownTypes) != len(other.ThrownTypes) {
		return false
	}
	used := make([]bool, len(other.ThrownTypes))
	for _, a := range t.ThrownTypes {
		found := false
		for i, b := range other.ThrownTypes {
			if used[i] {
				continue
			}
			if types.SameType(a, b) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// Hash produces a fast, order-independent digest suitable for settle-loop
// change detection (§4.9: "Equality on Configuration must be structural
// and fast (hash both throws and value recursively)"). Thrown-type names
// are combined with XOR so that antichain order never affects the hash.
func (t Throws) Hash() uint64 {
	var h uint64 = 1469598103934665603 // FNV offset basis
	if t.CanThrowUndeclared {
		h ^= 0x9e3779b97f4a7c15
	}
	var namesHash uint64
	for _, ty := range t.ThrownTypes {
		namesHash ^= fnv64(ty.String())
	}
	h ^= namesHash
	return h
}

func fnv64(s string) uint64 {
	var h uint64 = 1469598103934665603
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= 1099511628211
	}
	return h
}
