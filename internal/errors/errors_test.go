package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"with field", NewValidationError("url", "URL cannot be empty"), "validation error in field 'url': URL cannot be empty"},
		{"without field", NewValidationError("", "bad input"), "validation error: bad input"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetValidationError_Wrapped(t *testing.T) {
	err := fmt.Errorf("create link: %w", NewValidationError("url", "nope"))

	if !IsValidationError(err) {
		t.Fatal("IsValidationError() = false, want true")
	}
	if v := GetValidationError(err); v == nil || v.Field != "url" {
		t.Fatalf("GetValidationError() = %+v, want field url", v)
	}
	if GetValidationError(errors.New("plain")) != nil {
		t.Fatal("GetValidationError() on plain error should be nil")
	}
}

func TestExhaustedRetriesError(t *testing.T) {
	err := fmt.Errorf("create link: %w", &ExhaustedRetriesError{Attempts: 5})

	if !errors.Is(err, ErrExhaustedRetries) {
		t.Error("expected errors.Is(err, ErrExhaustedRetries)")
	}
	if errors.Is(err, ErrCodeConflict) {
		t.Error("conflicts must not leak through exhaustion")
	}
	var exhausted *ExhaustedRetriesError
	if !errors.As(err, &exhausted) || exhausted.Attempts != 5 {
		t.Errorf("errors.As() = %+v, want 5 attempts", exhausted)
	}
}
