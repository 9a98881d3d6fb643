package overrides

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
)

// maxPromotionDepth bounds invoke/await nesting in a single override
// entry. A malformed file that nests indefinitely (or cyclically, via a
// hand-edited anchor) is rejected with a clear error rather than
// recursing the YAML decoder into a stack overflow.
const maxPromotionDepth = 16

// LoadFiles parses each path in order and merges it into a fresh Table
// at ascending precedence (§6: "packaged defaults; each package's
// checked_exceptions.yaml; the project's lib/checked_exceptions.yaml" —
// callers supply paths in exactly that order). Per §7 ("malformed
// override file — the whole file is skipped; other override files still
// load"), a file that fails to parse or fails the depth check is
// skipped with its error collected rather than aborting the whole load.
func LoadFiles(paths []string, resolve TypeResolver) (*Table, []error) {
	table := NewTable()
	var errs []error
	for _, path := range paths {
		doc, err := loadFile(path)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		table.Merge(doc, resolve)
	}
	return table, errs
}

func loadFile(path string) (Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Document{}, err
	}
	return Parse(raw)
}

// Parse decodes raw YAML bytes into a Document, first re-encoding to
// JSON and walking the result with gjson to reject entries whose
// invoke/await chain nests beyond maxPromotionDepth — a cheap
// depth-only validation pass the struct-tagged goccy/go-yaml decode
// below doesn't perform on its own, done before committing to the
// typed decode so a deeply malformed file fails fast with a useful
// message instead of an opaque decode error.
func Parse(raw []byte) (Document, error) {
	jsonBytes, err := yaml.YAMLToJSON(raw)
	if err != nil {
		return Document{}, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := checkPromotionDepth(jsonBytes); err != nil {
		return Document{}, err
	}

	var doc Document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("schema mismatch: %w", err)
	}
	return doc, nil
}

func checkPromotionDepth(jsonBytes []byte) error {
	result := gjson.ParseBytes(jsonBytes)
	entries := result.Get("checked_exceptions")
	var walkErr error
	entries.ForEach(func(_, entry gjson.Result) bool {
		if depth := promotionDepth(entry, 0); depth > maxPromotionDepth {
			walkErr = fmt.Errorf("element %q nests invoke/await %d levels deep (max %d)",
				entry.Get("element").String(), depth, maxPromotionDepth)
			return false
		}
		return true
	})
	return walkErr
}

func promotionDepth(node gjson.Result, depth int) int {
	if depth > maxPromotionDepth {
		return depth
	}
	best := depth
	if invoke := node.Get("invoke"); invoke.Exists() {
		if d := promotionDepth(invoke, depth+1); d > best {
			best = d
		}
	}
	if await := node.Get("await"); await.Exists() {
		if d := promotionDepth(await, depth+1); d > best {
			best = d
		}
	}
	return best
}
