package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken ErrorCode = "MISSING_TOKEN"
	ErrCodeInvalidRole  ErrorCode = "INVALID_ROLE"

	// User errors
	ErrCodeUserNotFound  ErrorCode = "USER_NOT_FOUND"
	ErrCodeInvalidUserID ErrorCode = "INVALID_USER_ID"

	// Unit errors
	ErrCodeUnitNotFound     ErrorCode = "UNIT_NOT_FOUND"
	ErrCodeUnitNotAssigned  ErrorCode = "UNIT_NOT_ASSIGNED"
	ErrCodeInvalidRent      ErrorCode = "INVALID_RENT"

	// Billing errors
	ErrCodeBillNotFound     ErrorCode = "BILL_NOT_FOUND"
	ErrCodeBillExists       ErrorCode = "BILL_EXISTS"
	ErrCodeInvalidAmount    ErrorCode = "INVALID_AMOUNT"
	ErrCodeInvalidDateRange ErrorCode = "INVALID_DATE_RANGE"
	ErrCodePaymentNotFound  ErrorCode = "PAYMENT_NOT_FOUND"
	ErrCodePaymentExists    ErrorCode = "PAYMENT_EXISTS"
	ErrCodeAlreadyAllocated ErrorCode = "ALREADY_ALLOCATED"

	// Database errors
	ErrCodeDBError     ErrorCode = "DB_ERROR"
	ErrCodeDBNotFound  ErrorCode = "DB_NOT_FOUND"
	ErrCodeDBDuplicate ErrorCode = "DB_DUPLICATE"

	// Validation errors
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeRequiredField ErrorCode = "REQUIRED_FIELD"
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is kiểm tra một error có phải AppError với code cho trước không
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
