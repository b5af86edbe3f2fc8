package services

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDomainError(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeNotFound, "resource not found", baseErr)

	assert.Equal(t, ErrorTypeNotFound, domainErr.Type)
	assert.Equal(t, "resource not found", domainErr.Message)
	assert.Equal(t, baseErr, domainErr.Err)
	assert.NotNil(t, domainErr.Details)
}

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name    string
		err     *DomainError
		wantMsg string
	}{
		{
			name: "error with wrapped error",
			err: &DomainError{
				Type:    ErrorTypeInternal,
				Message: "Database error",
				Err:     errors.New("connection reset"),
			},
			wantMsg: "internal: Database error (connection reset)",
		},
		{
			name: "error without wrapped error",
			err: &DomainError{
				Type:    ErrorTypeNotFound,
				Message: "No audit records found for customer: X",
			},
			wantMsg: "not_found: No audit records found for customer: X",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMsg, tt.err.Error())
		})
	}
}

func TestDomainError_UnwrapAndIs(t *testing.T) {
	baseErr := errors.New("base error")
	domainErr := NewDomainError(ErrorTypeConflict, "Audit record already exists", baseErr)

	assert.Equal(t, baseErr, errors.Unwrap(domainErr))
	assert.ErrorIs(t, domainErr, baseErr)
	assert.True(t, errors.Is(domainErr, &DomainError{Type: ErrorTypeConflict}))
	assert.False(t, errors.Is(domainErr, &DomainError{Type: ErrorTypeNotFound}))
}

func TestErrorTypeHelpers(t *testing.T) {
	wrapped := fmt.Errorf("handler: %w", NewDomainError(ErrorTypeConflict, "dup", nil))

	assert.True(t, IsConflictError(wrapped))
	assert.False(t, IsNotFoundError(wrapped))
	assert.True(t, IsNotFoundError(NewDomainError(ErrorTypeNotFound, "missing", nil)))
	assert.True(t, IsValidationError(NewDomainError(ErrorTypeValidation, "bad", nil)))
	assert.True(t, IsInternalError(WrapInternal("Database error", errors.New("boom"))))

	plain := errors.New("plain")
	assert.Equal(t, ErrorType(""), GetErrorType(plain))
	assert.Equal(t, "", GetErrorMessage(plain))
	assert.Nil(t, GetErrorDetails(plain))
	assert.Equal(t, "dup", GetErrorMessage(wrapped))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorTypeNotFound, "missing", nil).WithDetail("customer_id", "CUST1")

	assert.Equal(t, map[string]interface{}{"customer_id": "CUST1"}, GetErrorDetails(err))
	assert.Nil(t, GetErrorDetails(NewDomainError(ErrorTypeNotFound, "missing", nil)))
}
