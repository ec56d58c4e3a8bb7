package util_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/spec-kit/appointment-service/pkg/util"
)

func TestToDomainErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantCode   string
		wantStatus int
	}{
		{"validation", apperrors.NewValidationError("bad input"), "VALIDATION_FAILED", http.StatusBadRequest},
		{"unauthorized", apperrors.NewUnauthorized("no token"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", apperrors.NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"not found", apperrors.NewNotFound("appointment"), "NOT_FOUND", http.StatusNotFound},
		{"conflict renders 400", apperrors.NewConflict("User already exists"), "CONFLICT", http.StatusBadRequest},
		{"too many requests", apperrors.NewTooManyRequests("slow down"), "TOO_MANY_REQUESTS", http.StatusTooManyRequests},
		{"no rows", pgx.ErrNoRows, "NOT_FOUND", http.StatusNotFound},
		{"wrapped no rows", fmt.Errorf("lookup: %w", pgx.ErrNoRows), "NOT_FOUND", http.StatusNotFound},
		{"generic", errors.New("boom"), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			de := apperrors.ToDomainError(tt.err)
			if de.Code != tt.wantCode {
				t.Errorf("code: got %q, want %q", de.Code, tt.wantCode)
			}
			if de.HTTPStatus != tt.wantStatus {
				t.Errorf("status: got %d, want %d", de.HTTPStatus, tt.wantStatus)
			}
		})
	}
}

func TestInternalErrorHidesCause(t *testing.T) {
	cause := errors.New("pool exhausted")
	de := apperrors.ToDomainError(apperrors.NewInternalError(cause))
	if de.Message != "Something went wrong" {
		t.Errorf("message: got %q", de.Message)
	}
	if !errors.Is(de, cause) {
		t.Error("cause not preserved for server-side logging")
	}
}

func TestToDomainErrorNil(t *testing.T) {
	if apperrors.ToDomainError(nil) != nil {
		t.Error("expected nil for nil input")
	}
}
