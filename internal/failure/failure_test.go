package failure

import (
	"errors"
	"fmt"
	"os"
	"testing"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		err  *Error
		want string
	}{
		{&Error{Kind: ErrMissingField}, "missing field"},
		{New(ErrMissingField, "issue 3: title"), "missing field: issue 3: title"},
		{&Error{Kind: ErrIOWrite, Path: "out.csv", Err: os.ErrPermission}, "out.csv: write failed: permission denied"},
		{Wrap(ErrMalformedInput, errors.New("eof"), "parsing JSON"), "malformed input: parsing JSON: eof"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrorsIsMatchesKindAndCause(t *testing.T) {
	err := Wrap(ErrInputNotFound, os.ErrNotExist, "opening %s", "a.json")

	if !errors.Is(err, ErrInputNotFound) {
		t.Error("expected errors.Is(err, ErrInputNotFound)")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Error("expected errors.Is(err, os.ErrNotExist)")
	}
	if errors.Is(err, ErrMalformedInput) {
		t.Error("did not expect ErrMalformedInput")
	}

	wrapped := fmt.Errorf("converting: %w", err)
	if !errors.Is(wrapped, ErrInputNotFound) {
		t.Error("expected kind to survive fmt.Errorf wrapping")
	}
}

func TestWithPath(t *testing.T) {
	err := WithPath(New(ErrMissingField, "title"), "repo/issues.json")
	if got, want := err.Error(), "repo/issues.json: missing field: title"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrMissingField) {
		t.Error("expected kind to be preserved")
	}

	// An existing path wins.
	again := WithPath(err, "other.json")
	if again.Error() != err.Error() {
		t.Errorf("path overwritten: %q", again.Error())
	}

	plain := WithPath(errors.New("boom"), "x.json")
	if plain.Error() != "x.json: boom" {
		t.Errorf("Error() = %q", plain.Error())
	}

	if WithPath(nil, "x.json") != nil {
		t.Error("WithPath(nil) should be nil")
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(fmt.Errorf("x: %w", New(ErrIOWrite, "disk full"))); got != ErrIOWrite {
		t.Errorf("KindOf = %v, want ErrIOWrite", got)
	}
	if got := KindOf(errors.New("other")); got != nil {
		t.Errorf("KindOf = %v, want nil", got)
	}
}
