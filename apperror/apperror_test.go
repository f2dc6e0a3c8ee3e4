package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"auth", NewAuthError(nil), http.StatusUnauthorized},
		{"not found", NewNotFoundError(nil), http.StatusNotFound},
		{"conflict", NewConflictError(nil), http.StatusUnprocessableEntity},
		{"bad request", NewBadRequestError("bad body", nil), http.StatusBadRequest},
		{"database", NewDatabaseError("query failed", nil), http.StatusInternalServerError},
		{"internal", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"validation 400", NewValidationError(http.StatusBadRequest, nil), http.StatusBadRequest},
		{"validation 401", NewValidationError(http.StatusUnauthorized, nil), http.StatusUnauthorized},
		{"validation 422", NewValidationError(http.StatusUnprocessableEntity, nil), http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.want {
				t.Errorf("StatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestToResponse(t *testing.T) {
	plain := NewConflictError(nil).ToResponse()
	if plain.Errors != NotUniqueMessage {
		t.Errorf("ToResponse().Errors = %v, want %q", plain.Errors, NotUniqueMessage)
	}

	details := []FieldError{{Msg: "Invalid value", Param: "user.email", Location: "body"}}
	withDetails := NewValidationError(http.StatusBadRequest, details).ToResponse()
	list, ok := withDetails.Errors.([]FieldError)
	if !ok {
		t.Fatalf("ToResponse().Errors is %T, want []FieldError", withDetails.Errors)
	}
	if len(list) != 1 || list[0].Param != "user.email" {
		t.Errorf("ToResponse().Errors = %+v, want the field-error list", list)
	}
}

func TestUnwrapChain(t *testing.T) {
	underlying := errors.New("no rows")
	err := NewNotFoundError(underlying)

	if !errors.Is(err, underlying) {
		t.Error("errors.Is() did not find the wrapped error")
	}

	wrapped := fmt.Errorf("loading user: %w", err)
	if !IsNotFound(wrapped) {
		t.Error("IsNotFound() did not find the AppError through the chain")
	}
	if IsAuthError(wrapped) {
		t.Error("IsAuthError() matched a not-found error")
	}
}

func TestFromError(t *testing.T) {
	if _, ok := FromError(nil); ok {
		t.Error("FromError(nil) reported an AppError")
	}
	if _, ok := FromError(errors.New("plain")); ok {
		t.Error("FromError() reported a plain error as an AppError")
	}
	appErr, ok := FromError(fmt.Errorf("wrap: %w", NewAuthError(nil)))
	if !ok || appErr.Type != AuthError {
		t.Errorf("FromError() = (%+v, %v), want the wrapped auth error", appErr, ok)
	}
}
