// Package overrides loads the YAML override table described in §6 and
// indexes it by ElementLocation. Grounded on the teacher's YAML usage
// pattern (go-snaps' own snapshot format and the teacher's go.mod
// dependency on github.com/goccy/go-yaml) — the teacher never parses
// YAML itself, so the decode/merge shape here is original, built in the
// teacher's general style of "small loader, typed records, explicit
// precedence" seen in internal/semantic/pass.go's PassManager.
package overrides

// Entry is one `checked_exceptions` list item from the override schema.
// Optional fields are omitted on re-serialization so the bootstrap
// tool's output stays minimal.
type Entry struct {
	Library          string        `yaml:"library"`
	Element          string        `yaml:"element"`
	Imports          []string      `yaml:"imports,omitempty"`
	Throws           []string      `yaml:"throws,omitempty"`
	AllowsUndeclared *bool         `yaml:"allows_undeclared,omitempty"`
	Invoke           *PromotionRec `yaml:"invoke,omitempty"`
	Await            *PromotionRec `yaml:"await,omitempty"`
}

// PromotionRec is the recursive `{throws, allows_undeclared, invoke,
// await}` shape nested under a promotion key.
type PromotionRec struct {
	Throws           []string      `yaml:"throws,omitempty"`
	AllowsUndeclared *bool         `yaml:"allows_undeclared,omitempty"`
	Invoke           *PromotionRec `yaml:"invoke,omitempty"`
	Await            *PromotionRec `yaml:"await,omitempty"`
}

// Document is the top-level override file shape.
type Document struct {
	CheckedExceptions []Entry `yaml:"checked_exceptions"`
}
