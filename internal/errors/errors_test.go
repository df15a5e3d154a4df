package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("loading department CSE: %w", ErrNotFound)
	if !stderrors.Is(wrapped, ErrNotFound) {
		t.Error("expected wrapped error to match ErrNotFound")
	}
	if stderrors.Is(wrapped, ErrInvalidInput) {
		t.Error("wrapped error should not match ErrInvalidInput")
	}
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("department", "must not be empty")
	if !strings.Contains(err.Error(), "department") {
		t.Errorf("error message missing field name: %q", err.Error())
	}
}

func TestScraperErrorUnwrap(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := NewScraperError("https://catalog.uta.edu/coursedescriptions/cse", 0, cause)
	if !stderrors.Is(err, cause) {
		t.Error("expected ScraperError to unwrap to cause")
	}
	if strings.Contains(err.Error(), "status=") {
		t.Errorf("status should be omitted when zero: %q", err.Error())
	}

	withStatus := NewScraperError("https://catalog.uta.edu/coursedescriptions/cse", 503, cause)
	if !strings.Contains(withStatus.Error(), "status=503") {
		t.Errorf("expected status in message: %q", withStatus.Error())
	}
}

func TestWrap(t *testing.T) {
	if Wrap("recommend", "fetch_offerings", nil, "unused") != nil {
		t.Error("Wrap(nil) should return nil")
	}

	cause := stderrors.New("db closed")
	err := Wrap("recommend", "fetch_offerings", cause, "could not load offerings")
	if !stderrors.Is(err, cause) {
		t.Error("expected wrapped error to unwrap to cause")
	}
	if GetUserMessage(err) != "could not load offerings" {
		t.Errorf("GetUserMessage = %q", GetUserMessage(err))
	}
	if GetUserMessage(cause) != "db closed" {
		t.Errorf("GetUserMessage fallback = %q", GetUserMessage(cause))
	}
}
