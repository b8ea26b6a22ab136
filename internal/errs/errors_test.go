package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserErrorUnwrapsToKind(t *testing.T) {
	err := fmt.Errorf("multi balance: %w", Invalid(CodeInvalidParam, "This report requires at least 1 interval."))
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid in chain: %v", err)
	}
	ue, ok := AsUser(err)
	if !ok {
		t.Fatalf("expected a UserError")
	}
	if ue.Code != CodeInvalidParam || ue.Message != "This report requires at least 1 interval." {
		t.Fatalf("unexpected user error: %+v", ue)
	}
}

func TestReferencedIsConflict(t *testing.T) {
	if !errors.Is(ErrReferenced, ErrConflict) {
		t.Fatalf("ErrReferenced should be a conflict")
	}
	if !errors.Is(fmt.Errorf("delete account: %w", ErrReferenced), ErrReferenced) {
		t.Fatalf("wrapped ErrReferenced not detected")
	}
	if ue, _ := AsUser(Integrity("x")); ue.Code != CodeDataIntegrity {
		t.Fatalf("expected data-integrity code, got %q", ue.Code)
	}
}
