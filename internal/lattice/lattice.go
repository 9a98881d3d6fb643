// Package lattice implements §4.1: the antichain-preserving Union and
// Intersect operations over Throws values, and the at-level IsCompatible
// predicate used by assignment/override checking. Grounded on the
// teacher's type-compatibility pass (internal/semantic checks like
// checkMethodOverriding use a structurally identical "walk both sides,
// recurse into contravariant slots" shape) but built fresh for the
// Throws/Configuration domain, since the teacher has no equivalent
// lattice of its own.
package lattice

import (
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

// Union computes the least upper bound of two Throws values: every
// thrown type from either side, reduced back to a minimal antichain, and
// CanThrowUndeclared/Inferred combined permissively (§4.1: "a value that
// could be either must be assumed capable of both").
func Union(a, b config.Throws) config.Throws {
	all := make([]types.Type, 0, len(a.ThrownTypes)+len(b.ThrownTypes))
	all = append(all, a.ThrownTypes...)
	all = append(all, b.ThrownTypes...)
	return config.Throws{
		ThrownTypes:        config.NormalizeAntichain(all),
		CanThrowUndeclared: a.CanThrowUndeclared || b.CanThrowUndeclared,
		Inferred:           a.Inferred && b.Inferred,
	}
}

// Intersect computes the greatest lower bound: a thrown type survives
// only if it is covered by the other side (§4.1: "intersection keeps
// only what every branch is guaranteed to throw"). CanThrowUndeclared
// survives only if both sides permit it.
func Intersect(a, b config.Throws) config.Throws {
	var kept []types.Type
	for _, t := range a.ThrownTypes {
		if b.Covers(t) {
			kept = append(kept, t)
		}
	}
	for _, t := range b.ThrownTypes {
		if a.Covers(t) {
			kept = append(kept, t)
		}
	}
	return config.Throws{
		ThrownTypes:        config.NormalizeAntichain(kept),
		CanThrowUndeclared: a.CanThrowUndeclared && b.CanThrowUndeclared,
		Inferred:           a.Inferred || b.Inferred,
	}
}

// UnionConfiguration lifts Union over full Configuration values: own
// Throws unioned directly, and every promotion slot present on either
// side unioned recursively (missing slots treated as Configuration::empty,
// matching ValueAt's convention).
func UnionConfiguration(a, b config.Configuration) config.Configuration {
	out := config.Configuration{Throws: Union(a.Throws, b.Throws)}
	for _, kind := range []config.PromotionKind{config.Invoke, config.Await} {
		av, bv := a.ValueAt(kind), b.ValueAt(kind)
		if av.IsEmpty() && bv.IsEmpty() {
			continue
		}
		out = out.WithValue(kind, UnionConfiguration(av, bv))
	}
	return out
}

// IntersectConfiguration lifts Intersect over full Configuration values,
// used by inherited-configuration resolution (§4.8: "intersect all
// discovered configurations").
func IntersectConfiguration(a, b config.Configuration) config.Configuration {
	out := config.Configuration{Throws: Intersect(a.Throws, b.Throws)}
	for _, kind := range []config.PromotionKind{config.Invoke, config.Await} {
		av, aok := a.Value[kind]
		bv, bok := b.Value[kind]
		if !aok || !bok {
			continue
		}
		out = out.WithValue(kind, IntersectConfiguration(av, bv))
	}
	return out
}

// IsCompatible implements the §4.1 assignment-compatibility predicate at
// at_level 0: "can a value with argument be assigned to a location with
// parameter?" Top-level throws are checked (step 1-2), and for every
// key k present in parameter.value, argument.value[k] must exist and be
// compatible at level -1; since any level <= 0 checks throws, each slot's
// own throws are checked too, recursing further as both sides keep
// nesting value slots (§4.1 step 3). Equivalent to calling IsCompatibleAtLevel(0).
func IsCompatible(argument, parameter config.Configuration) bool {
	return IsCompatibleAtLevel(argument, parameter, 0)
}

// IsCompatibleAtLevel is the full at_level-parameterized form: at level
// 0 the top-level throws are checked; at any level > 0 the check is
// skipped (used by unsafe-assignment, which calls this at level 1 since
// uncaught-throw already validates the source expression's own throws).
func IsCompatibleAtLevel(argument, parameter config.Configuration, atLevel int) bool {
	if atLevel <= 0 {
		if !isThrowsCompatible(argument.Throws, parameter.Throws) {
			return false
		}
	}
	for _, kind := range []config.PromotionKind{config.Invoke, config.Await} {
		paramSlot, paramHas := parameter.Value[kind]
		if !paramHas {
			continue
		}
		argSlot, argHas := argument.Value[kind]
		if !argHas {
			return false
		}
		if !IsCompatibleAtLevel(argSlot, paramSlot, atLevel-1) {
			return false
		}
	}
	return true
}

// isThrowsCompatible reports whether the accepting side permits
// everything the actual side can throw: accepted must cover every type
// actual declares, and if actual permits undeclared throws, accepted
// must too — unless accepted declares the root Object type, which
// covers every undeclared Error anyway (§4.1 step 1's escape).
func isThrowsCompatible(actual, accepted config.Throws) bool {
	for _, t := range actual.ThrownTypes {
		if !accepted.Covers(t) {
			return false
		}
	}
	if actual.CanThrowUndeclared && !accepted.CanThrowUndeclared && !admitsObject(accepted) {
		return false
	}
	return true
}

// admitsObject reports whether the accepting side declares the root
// Object type among its thrown types.
func admitsObject(accepted config.Throws) bool {
	for _, u := range accepted.ThrownTypes {
		if types.IsObjectRoot(u) {
			return true
		}
	}
	return false
}
