package config

import "github.com/cwbudde/effectcheck/internal/types"

// AnnotationKind enumerates the four-marker vocabulary from §6. neverThrows
// is a subtype marker of safe; Throws is a subtype marker of ThrowsError —
// the annotation reader relies on that ordering, not on this enum's
// numeric values.
type AnnotationKind int

const (
	AnnotationSafe AnnotationKind = iota
	AnnotationNeverThrows
	AnnotationThrows
	AnnotationThrowsError
)

func (k AnnotationKind) String() string {
	switch k {
	case AnnotationSafe:
		return "safe"
	case AnnotationNeverThrows:
		return "neverThrows"
	case AnnotationThrows:
		return "Throws"
	case AnnotationThrowsError:
		return "ThrowsError"
	default:
		return "unknown"
	}
}

// Annotation is one `{safe, neverThrows, Throws<E>, ThrowsError<E>}` marker
// read off an element's metadata. ThrownType is nil for safe/neverThrows.
type Annotation struct {
	ThrownType types.Type
	Kind       AnnotationKind
}
