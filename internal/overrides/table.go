package overrides

import (
	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

// TypeResolver resolves a textual type expression (as it appears under
// `throws:` in an override file) against the scope given by imports and
// the owning library, per §6: "Type expressions inside throws are
// parsed and resolved against imports ∪ library." Supplied by the host;
// this package has no type-expression parser of its own.
type TypeResolver func(typeExpr string, imports []string, library string) (types.Type, bool)

// Table indexes resolved override Configurations by ElementLocation,
// merged from the three precedence tiers (§6: "packaged defaults →
// per-package file → project file", ascending — later tiers overwrite
// earlier ones entry-for-entry).
type Table struct {
	entries map[config.ElementLocation]config.Configuration
}

func NewTable() *Table {
	return &Table{entries: make(map[config.ElementLocation]config.Configuration)}
}

// Lookup implements §4.6 step 1: "if element.location is present,
// return the stored configuration verbatim."
func (t *Table) Lookup(loc config.ElementLocation) (config.Configuration, bool) {
	c, ok := t.entries[loc]
	return c, ok
}

// Merge layers a document's entries on top of the table at ascending
// precedence — a later call to Merge overwrites any entry already
// present at the same ElementLocation, matching the loader's precedence
// order (packaged defaults merged first, project file last).
func (t *Table) Merge(doc Document, resolve TypeResolver) {
	for _, e := range doc.CheckedExceptions {
		loc := config.NewElementLocation(e.Library, e.Element)
		t.entries[loc] = entryToConfiguration(e, resolve)
	}
}

func entryToConfiguration(e Entry, resolve TypeResolver) config.Configuration {
	throws := resolveThrows(e.Throws, e.AllowsUndeclared, e.Imports, e.Library, resolve)
	cfg := config.ThrowsExactly(throws)
	if e.Invoke != nil {
		cfg = cfg.WithValue(config.Invoke, promotionToConfiguration(*e.Invoke, e.Imports, e.Library, resolve))
	}
	if e.Await != nil {
		cfg = cfg.WithValue(config.Await, promotionToConfiguration(*e.Await, e.Imports, e.Library, resolve))
	}
	return cfg
}

func promotionToConfiguration(p PromotionRec, imports []string, library string, resolve TypeResolver) config.Configuration {
	throws := resolveThrows(p.Throws, p.AllowsUndeclared, imports, library, resolve)
	cfg := config.ThrowsExactly(throws)
	if p.Invoke != nil {
		cfg = cfg.WithValue(config.Invoke, promotionToConfiguration(*p.Invoke, imports, library, resolve))
	}
	if p.Await != nil {
		cfg = cfg.WithValue(config.Await, promotionToConfiguration(*p.Await, imports, library, resolve))
	}
	return cfg
}

func resolveThrows(exprs []string, allowsUndeclared *bool, imports []string, library string, resolve TypeResolver) config.Throws {
	var thrown []types.Type
	for _, expr := range exprs {
		if resolve == nil {
			continue
		}
		if t, ok := resolve(expr, imports, library); ok {
			thrown = config.InsertIntoAntichain(thrown, t)
		}
	}
	canThrowUndeclared := allowsUndeclared != nil && *allowsUndeclared
	return config.Throws{ThrownTypes: thrown, CanThrowUndeclared: canThrowUndeclared}
}
