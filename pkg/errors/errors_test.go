package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidModule, "block %q has no name", "bb0")

	if err.Code != ErrCodeInvalidModule {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidModule)
	}
	if !strings.Contains(err.Error(), "INVALID_MODULE") {
		t.Errorf("Error() should contain code, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), `"bb0"`) {
		t.Errorf("Error() should contain formatted message, got %q", err.Error())
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("disk full")
	err := Wrap(ErrCodeRenderFailed, cause, "render %s", "svg")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Error() should include cause, got %q", err.Error())
	}
}

func TestIs(t *testing.T) {
	err := New(ErrCodeUnboundValue, "value %q has no producer", "v3")

	if !Is(err, ErrCodeUnboundValue) {
		t.Error("Is should match the error's own code")
	}
	if Is(err, ErrCodeInternal) {
		t.Error("Is should not match a different code")
	}
	if Is(stderrors.New("plain"), ErrCodeInternal) {
		t.Error("Is should not match a non-structured error")
	}

	// Code should survive fmt.Errorf wrapping.
	wrapped := fmt.Errorf("export: %w", err)
	if !Is(wrapped, ErrCodeUnboundValue) {
		t.Error("Is should unwrap nested errors")
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeFileNotFound, "missing")); got != ErrCodeFileNotFound {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeFileNotFound)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode on plain error = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	err := New(ErrCodeInvalidInput, "bad flag")
	if got := UserMessage(err); got != "bad flag" {
		t.Errorf("UserMessage = %q, want %q", got, "bad flag")
	}
	if got := UserMessage(stderrors.New("plain")); got != "plain" {
		t.Errorf("UserMessage on plain error = %q", got)
	}
}
