// Package annotation implements §4.2: reducing the metadata annotations
// attached to a declaration into a single Throws value. Grounded on the
// teacher's analyze_exceptions.go isExceptionType helper for the "is this
// thrown type actually an Exception subtype" check, generalized from a
// fixed built-in Exception class to an arbitrary resolved types.Type.
package annotation

import "github.com/cwbudde/effectcheck/internal/config"

// Read reduces a declaration's annotation list to a Throws value exactly
// per §4.2:
//   - neverThrows anywhere in the list short-circuits to neverThrows
//     (ThrownTypes empty, CanThrowUndeclared false), ignoring every other
//     annotation.
//   - safe sets CanThrowUndeclared, independent of any Throws<E> entries
//     present alongside it.
//   - Throws<E> and ThrowsError<E> each contribute E to the antichain;
//     ThrowsError<E> keeps CanThrowUndeclared true unless a Throws<E>
//     entry is also present, which sets it false.
//   - an element with no recognized annotations yields Throws.Empty()
//     (Inferred=true), deferring to body analysis or inheritance.
func Read(annotations []config.Annotation) config.Throws {
	if len(annotations) == 0 {
		return config.EmptyThrows()
	}
	for _, a := range annotations {
		if a.Kind == config.AnnotationNeverThrows {
			return config.Throws{}
		}
	}
	out := config.Throws{}
	var hasSafe, hasThrows, hasThrowsError bool
	for _, a := range annotations {
		switch a.Kind {
		case config.AnnotationSafe:
			hasSafe = true
		case config.AnnotationThrows:
			hasThrows = true
			if a.ThrownType != nil {
				out.ThrownTypes = config.InsertIntoAntichain(out.ThrownTypes, a.ThrownType)
			}
		case config.AnnotationThrowsError:
			hasThrowsError = true
			if a.ThrownType != nil {
				out.ThrownTypes = config.InsertIntoAntichain(out.ThrownTypes, a.ThrownType)
			}
		}
	}
	switch {
	case hasSafe:
		out.CanThrowUndeclared = true
	case hasThrows:
		out.CanThrowUndeclared = false
	case hasThrowsError:
		out.CanThrowUndeclared = true
	}
	return out
}
