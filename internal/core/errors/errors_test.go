package errors

import (
	"errors"
	"testing"
)

func TestDomainError(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		err := New(CodeNotFound, "method not found")
		if err.Error() != "[NOT_FOUND] method not found" {
			t.Errorf("expected [NOT_FOUND] method not found, got %s", err.Error())
		}
	})

	t.Run("Wrap", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		expected := "[INTERNAL_ERROR] internal failure: original error"
		if err.Error() != expected {
			t.Errorf("expected %s, got %s", expected, err.Error())
		}
	})

	t.Run("IsCode", func(t *testing.T) {
		err := New(CodeValidation, "invalid input")
		if !IsCode(err, CodeValidation) {
			t.Error("expected IsCode to return true for CodeValidation")
		}
		if IsCode(err, CodeNotFound) {
			t.Error("expected IsCode to return false for CodeNotFound")
		}
	})

	t.Run("IsCodeWithWrapped", func(t *testing.T) {
		original := errors.New("original error")
		err := Wrap(original, CodeInternal, "internal failure")
		if !IsCode(err, CodeInternal) {
			t.Error("expected IsCode to return true for wrapped CodeInternal")
		}
	})

	t.Run("AddContext", func(t *testing.T) {
		err := New(CodeParseError, "broken source")
		err = AddContext(err, CtxPath, "Foo.java")
		var de *DomainError
		if !errors.As(err, &de) {
			t.Fatal("expected a DomainError")
		}
		if de.Context[CtxPath] != "Foo.java" {
			t.Errorf("expected path context, got %v", de.Context)
		}
	})
}

func TestIsRecoverable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"not found", New(CodeNotFound, "x"), true},
		{"parse error", New(CodeParseError, "x"), true},
		{"configuration", New(CodeConfiguration, "x"), false},
		{"validation", New(CodeValidation, "x"), false},
		{"plain error", errors.New("x"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsRecoverable(tc.err); got != tc.want {
				t.Errorf("IsRecoverable(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}
