// Package typeconf implements §4.3: deriving a Configuration purely from
// a resolved types.Type's shape, independent of any declaration site.
// Grounded on the teacher's type-compatibility tests
// (internal/types/type_compatibility_test.go, function_type_test.go),
// which establish the FunctionType/ClassType shape this package switches
// on; the derivation logic itself has no teacher analogue since the
// teacher's type system carries no throws annotations.
package typeconf

import (
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

// Derive computes the Configuration implied by a type's shape alone:
//   - a function type contributes an Invoke slot whose Throws come from
//     the typedef alias wrapping the type, if any, and whose value is the
//     return type's own recursive shape;
//   - a future type contributes an Await slot built the same way from
//     its element type;
//   - a class with a structural `call` member contributes an Invoke slot
//     derived from that member's function type;
//   - a type that is ambiguously both future-shaped and callable-shaped
//     (types.DualShape and friends) keeps its slots but drops alias
//     throws entirely — the deriver cannot tell which promotion the
//     alias throws were meant for.
func Derive(t types.Type) config.Configuration {
	if t == nil {
		return config.Empty()
	}

	fn, isFunction := t.(types.FunctionShape)
	fut, isFuture := t.(types.FutureShape)
	var call types.FunctionShape
	if c, ok := t.(types.CallableShape); ok {
		call = c.CallMember()
	}
	ambiguous := isFuture && (isFunction || call != nil)

	alias := config.EmptyThrows()
	if !ambiguous {
		if aliased, ok := t.(interface {
			AliasThrows() ([]types.Type, bool, bool)
		}); ok {
			if thrown, canThrowUndeclared, hasAlias := aliased.AliasThrows(); hasAlias {
				alias = config.Throws{
					ThrownTypes:        config.NormalizeAntichain(thrown),
					CanThrowUndeclared: canThrowUndeclared,
				}
			}
		}
	}

	out := config.Empty()
	switch {
	case isFunction:
		out = out.WithValue(config.Invoke, slotConfiguration(alias, fn.ReturnType()))
	case call != nil:
		out = out.WithValue(config.Invoke, slotConfiguration(alias, call.ReturnType()))
	}
	if isFuture {
		out = out.WithValue(config.Await, slotConfiguration(alias, fut.ElementType()))
	}
	return out
}

// slotConfiguration builds one promotion slot: the alias-contributed
// Throws at the slot's own level, plus the promoted-to type's recursive
// shape as the slot's value.
func slotConfiguration(throws config.Throws, promotedTo types.Type) config.Configuration {
	return config.Configuration{Throws: throws, Value: Derive(promotedTo).Value}
}
