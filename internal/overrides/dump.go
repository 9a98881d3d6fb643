package overrides

import (
	"sort"

	"github.com/maruel/natural"

	"github.com/cwbudde/effectcheck/internal/config"
)

// ToDocument is the inverse of Parse/Merge: it serializes a set of
// resolved Configurations back into the override schema (§6), keyed by
// ElementLocation, sorted library-then-path in natural order so the
// bootstrap tool's output is stable across runs (§2 Ambient Stack:
// "natural ordering keeps foo.go:9 before foo.go:10" — the same
// rationale applies to $2 sorting before $10 in a parameter path).
func ToDocument(cfgs map[config.ElementLocation]config.Configuration) Document {
	locs := make([]config.ElementLocation, 0, len(cfgs))
	for loc := range cfgs {
		locs = append(locs, loc)
	}
	sort.Slice(locs, func(i, j int) bool {
		if locs[i].Library != locs[j].Library {
			return locs[i].Library < locs[j].Library
		}
		return natural.Less(locs[i].Path, locs[j].Path)
	})

	entries := make([]Entry, 0, len(locs))
	for _, loc := range locs {
		cfg := cfgs[loc]
		if cfg.IsEmpty() {
			continue
		}
		entry := Entry{Library: loc.Library, Element: loc.Path}
		entry.Throws = throwNames(cfg.Throws)
		if cfg.Throws.CanThrowUndeclared {
			entry.AllowsUndeclared = boolPtr(true)
		}
		if inv, ok := cfg.Value[config.Invoke]; ok && !inv.IsEmpty() {
			entry.Invoke = configurationToPromotion(inv)
		}
		if aw, ok := cfg.Value[config.Await]; ok && !aw.IsEmpty() {
			entry.Await = configurationToPromotion(aw)
		}
		entries = append(entries, entry)
	}
	return Document{CheckedExceptions: entries}
}

func configurationToPromotion(cfg config.Configuration) *PromotionRec {
	rec := &PromotionRec{Throws: throwNames(cfg.Throws)}
	if cfg.Throws.CanThrowUndeclared {
		rec.AllowsUndeclared = boolPtr(true)
	}
	if inv, ok := cfg.Value[config.Invoke]; ok && !inv.IsEmpty() {
		rec.Invoke = configurationToPromotion(inv)
	}
	if aw, ok := cfg.Value[config.Await]; ok && !aw.IsEmpty() {
		rec.Await = configurationToPromotion(aw)
	}
	return rec
}

func throwNames(t config.Throws) []string {
	if len(t.ThrownTypes) == 0 {
		return nil
	}
	names := make([]string, len(t.ThrownTypes))
	for i, ty := range t.ThrownTypes {
		names[i] = ty.String()
	}
	sort.Strings(names)
	return names
}

func boolPtr(b bool) *bool { return &b }
