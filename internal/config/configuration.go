package config

import "sort"

// Configuration is the recursive value from §3: the Throws of the value
// itself, plus a Value map recording the Configuration of what this value
// does under each PromotionKind (invoking it, awaiting it). The map is
// coinductive in spirit — a function returning itself would recurse
// forever if built eagerly — so the resolver always constructs these
// lazily via memoized lookups rather than walking types to a fixed depth.
type Configuration struct {
	Value  map[PromotionKind]Configuration
	Throws Throws
}

// Empty is Configuration::empty: throws nothing, has no recorded value
// slots.
func Empty() Configuration {
	return Configuration{Throws: EmptyThrows()}
}

// ThrowsExactly builds a Configuration whose own Throws is exactly t, no
// value slots recorded yet.
func ThrowsExactly(t Throws) Configuration {
	return Configuration{Throws: t}
}

// WithValue returns a copy of c with the given promotion slot set to v —
// Configuration values are treated as immutable throughout the resolver,
// so every mutation goes through one of these "with" builders.
func (c Configuration) WithValue(kind PromotionKind, v Configuration) Configuration {
	next := make(map[PromotionKind]Configuration, len(c.Value)+1)
	for k, existing := range c.Value {
		next[k] = existing
	}
	next[kind] = v
	return Configuration{Throws: c.Throws, Value: next}
}

// ForValue builds a Configuration from a value-slot map directly, with an
// empty own-Throws — used by the type-configuration deriver when a type
// carries only promotion shape and no directly-attached throws (§4.3).
func ForValue(value map[PromotionKind]Configuration) Configuration {
	return Configuration{Throws: EmptyThrows(), Value: value}
}

// ValueAt looks up a promotion slot, returning Configuration::empty if
// unset — every caller in the resolver treats a missing slot as "this
// promotion is never performed, so nothing to merge here" rather than as
// an error.
func (c Configuration) ValueAt(kind PromotionKind) Configuration {
	if c.Value == nil {
		return Empty()
	}
	if v, ok := c.Value[kind]; ok {
		return v
	}
	return Empty()
}

// Equal is the structural equality § 4.9 requires for settle-loop
// termination: two Configurations are equal when their own Throws are
// equal and every promotion slot, compared recursively, is equal. Map
// iteration order never matters since comparison is by key lookup, not
// by traversal order.
func (c Configuration) Equal(other Configuration) bool {
	if !c.Throws.Equal(other.Throws) {
		return false
	}
	if len(c.Value) != len(other.Value) {
		return false
	}
	for k, v := range c.Value {
		ov, ok := other.Value[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Hash combines the own-Throws hash with each present promotion slot's
// hash, folded in an order that does not depend on map iteration order
// (sorted by PromotionKind first).
func (c Configuration) Hash() uint64 {
	h := c.Throws.Hash()
	kinds := make([]int, 0, len(c.Value))
	for k := range c.Value {
		kinds = append(kinds, int(k))
	}
	sort.Ints(kinds)
	for _, k := range kinds {
		kind := PromotionKind(k)
		h ^= (uint64(kind)+1)*0x100000001b3 ^ c.Value[kind].Hash()
	}
	return h
}

// IsEmpty reports whether this Configuration is indistinguishable from
// Configuration::empty: no declared throws, no undeclared-throw
// permission, and no non-empty value slots.
func (c Configuration) IsEmpty() bool {
	if !c.Throws.IsEmpty() {
		return false
	}
	for _, v := range c.Value {
		if !v.IsEmpty() {
			return false
		}
	}
	return true
}
