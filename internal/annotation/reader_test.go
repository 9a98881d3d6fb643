package annotation

import (
	"testing"

	"github.com/cwbudde/effectcheck/internal/config"
	"github.com/cwbudde/effectcheck/internal/types"
)

func TestReadNoAnnotationsYieldsInferredEmpty(t *testing.T) {
	got := Read(nil)
	if !got.IsEmpty() {
		t.Errorf("expected an empty Throws for no annotations")
	}
	if !got.Inferred {
		t.Errorf("an absent annotation list should defer to inference (Inferred=true)")
	}
}

func TestReadNeverThrowsShortCircuits(t *testing.T) {
	object := types.NewClassType("Object", nil)
	ioError := types.NewExceptionClassType("IOError", object)
	anns := []config.Annotation{
		{Kind: config.AnnotationThrows, ThrownType: ioError},
		{Kind: config.AnnotationNeverThrows},
		{Kind: config.AnnotationSafe},
	}
	got := Read(anns)
	if !got.IsEmpty() {
		t.Errorf("neverThrows should ignore every other annotation and yield empty, got %v", got)
	}
	if got.Inferred {
		t.Errorf("an explicit neverThrows annotation should not be marked Inferred")
	}
}

func TestReadSafeSetsCanThrowUndeclared(t *testing.T) {
	got := Read([]config.Annotation{{Kind: config.AnnotationSafe}})
	if !got.CanThrowUndeclared {
		t.Errorf("safe should set CanThrowUndeclared")
	}
	if len(got.ThrownTypes) != 0 {
		t.Errorf("safe alone should not add any declared thrown types")
	}
}

func TestReadSafeAlongsideThrows(t *testing.T) {
	object := types.NewClassType("Object", nil)
	ioError := types.NewExceptionClassType("IOError", object)
	got := Read([]config.Annotation{
		{Kind: config.AnnotationSafe},
		{Kind: config.AnnotationThrows, ThrownType: ioError},
	})
	if !got.CanThrowUndeclared {
		t.Errorf("safe should still set CanThrowUndeclared alongside a Throws<E> entry")
	}
	if len(got.ThrownTypes) != 1 {
		t.Errorf("expected the Throws<E> entry to still contribute, got %v", got.ThrownTypes)
	}
}

func TestReadThrowsErrorAloneKeepsUndeclaredAllowed(t *testing.T) {
	object := types.NewClassType("Object", nil)
	stateError := types.NewClassType("StateError", object)

	got := Read([]config.Annotation{
		{Kind: config.AnnotationThrowsError, ThrownType: stateError},
	})
	if !got.CanThrowUndeclared {
		t.Errorf("ThrowsError<E> without Throws<E> should keep CanThrowUndeclared true")
	}
	if len(got.ThrownTypes) != 1 || !types.SameType(got.ThrownTypes[0], stateError) {
		t.Errorf("expected StateError in the thrown set, got %v", got.ThrownTypes)
	}
	if got.Inferred {
		t.Errorf("an explicit ThrowsError annotation should not be marked Inferred")
	}
}

func TestReadThrowsErrorWithThrowsDropsUndeclared(t *testing.T) {
	object := types.NewClassType("Object", nil)
	exception := types.NewExceptionClassType("Exception", object)
	ioError := types.NewExceptionClassType("IOError", exception)
	stateError := types.NewClassType("StateError", object)

	got := Read([]config.Annotation{
		{Kind: config.AnnotationThrowsError, ThrownType: stateError},
		{Kind: config.AnnotationThrows, ThrownType: ioError},
	})
	if got.CanThrowUndeclared {
		t.Errorf("a Throws<E> entry alongside ThrowsError<E> should set CanThrowUndeclared false")
	}
	if len(got.ThrownTypes) != 2 {
		t.Errorf("both markers should still contribute their types, got %v", got.ThrownTypes)
	}
}

func TestReadThrowsAndThrowsErrorContributeToAntichain(t *testing.T) {
	object := types.NewClassType("Object", nil)
	exception := types.NewExceptionClassType("Exception", object)
	ioError := types.NewExceptionClassType("IOError", exception)
	stateError := types.NewClassType("StateError", object)

	got := Read([]config.Annotation{
		{Kind: config.AnnotationThrowsError, ThrownType: stateError},
		{Kind: config.AnnotationThrows, ThrownType: ioError},
		{Kind: config.AnnotationThrows, ThrownType: exception},
	})
	// exception is a supertype of ioError, so the antichain should
	// collapse to just [exception, stateError].
	if len(got.ThrownTypes) != 2 {
		t.Fatalf("expected a 2-element antichain after collapsing IOError into Exception, got %v", got.ThrownTypes)
	}
}
