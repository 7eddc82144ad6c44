package oncology

import (
	"errors"
	"fmt"
	"testing"
)

func TestIsCode_ThroughWrapping(t *testing.T) {
	err := fmt.Errorf("load dossier: %w", NotFound("dossier", "indication", "ind-x"))
	if !IsCode(err, CodeNotFound) {
		t.Fatalf("expected not_found code, got %q (%v)", CodeOf(err), err)
	}
	if IsCode(err, CodeStoreUnavailable) {
		t.Fatalf("unexpected store_unavailable code")
	}
}

func TestWrap_PassesThroughCodedErrors(t *testing.T) {
	in := NewError(CodeStoreUnavailable, "graph.read", "connection refused", errors.New("dial"))
	out := Wrap(CodeInternal, "other", in)
	if out != in {
		t.Fatalf("expected passthrough of coded error")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("expected nil for nil error")
	}
}

func TestError_Message(t *testing.T) {
	err := NewError(CodeValidation, "rank", "unknown sort key", nil)
	if got, want := err.Error(), "rank: unknown sort key (validation)"; got != want {
		t.Fatalf("unexpected message: got=%q want=%q", got, want)
	}
}
