package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOf_Wrapped(t *testing.T) {
	base := Conflict("DUPLICATE_RATING", "already rated")
	wrapped := fmt.Errorf("create rating: %w", base)

	if got := KindOf(wrapped); got != KindConflict {
		t.Errorf("KindOf = %s, want conflict", got)
	}
	if !Is(wrapped, KindConflict) {
		t.Error("Is(conflict) should be true through wrapping")
	}
}

func TestKindOf_PlainError(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Errorf("KindOf = %s, want internal", got)
	}
	if Is(nil, KindInternal) {
		t.Error("nil error should not match any kind")
	}
}

func TestDependency_Unwraps(t *testing.T) {
	cause := errors.New("connection refused")
	err := Dependency("load ratings", cause)

	if !errors.Is(err, cause) {
		t.Error("Dependency error should unwrap to its cause")
	}
	if err.Kind != KindDependency {
		t.Errorf("kind = %s, want dependency", err.Kind)
	}
}
