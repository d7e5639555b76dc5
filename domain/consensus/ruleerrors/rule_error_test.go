package ruleerrors

import (
	"errors"
	"strings"
	"testing"
)

func TestErrorfMatchesKind(t *testing.T) {
	outer := Errorf(ErrInvalidTemplateField, "height %d is negative", -1)
	expectedOuterErr := "ErrInvalidTemplateField: height -1 is negative"

	if !errors.Is(outer, ErrInvalidTemplateField) {
		t.Fatal("TestErrorfMatchesKind: Outer should match ErrInvalidTemplateField")
	}
	if errors.Is(outer, ErrProofOfWorkExhausted) {
		t.Fatal("TestErrorfMatchesKind: Outer shouldn't match ErrProofOfWorkExhausted")
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestErrorfMatchesKind: Outer should contain RuleError in it")
	}
	if rule.message != "ErrInvalidTemplateField" {
		t.Fatalf("TestErrorfMatchesKind: Expected message = 'ErrInvalidTemplateField', found: '%s'", rule.message)
	}
	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestErrorfMatchesKind: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
}

func TestWrapfKeepsInner(t *testing.T) {
	inner := errors.New("nonce space exhausted")
	outer := Wrapf(ErrProofOfWorkExhausted, inner, "block at height %d", 7)

	if !errors.Is(outer, ErrProofOfWorkExhausted) {
		t.Fatal("TestWrapfKeepsInner: Outer should match ErrProofOfWorkExhausted")
	}
	if !errors.Is(outer, inner) {
		t.Fatal("TestWrapfKeepsInner: Outer should contain the inner error")
	}
	if !strings.Contains(outer.Error(), "block at height 7: nonce space exhausted") {
		t.Fatalf("TestWrapfKeepsInner: unexpected message: %s", outer.Error())
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	kinds := []RuleError{
		ErrInvalidTemplateField,
		ErrProofOfWorkExhausted,
		ErrMutationPrecondition,
		ErrCommitmentComputation,
		ErrUnknownMutation,
	}
	for i, a := range kinds {
		for j, b := range kinds {
			if (i == j) != errors.Is(a, b) {
				t.Errorf("TestSentinelsAreDistinct: errors.Is(%s, %s) = %t", a, b, errors.Is(a, b))
			}
		}
	}
}
