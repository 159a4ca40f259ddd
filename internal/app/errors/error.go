package errors

import (
	"net/http"
	"reflect"

	"github.com/sirupsen/logrus"
)

// ProblemTypeBase is the URI prefix identifying protocol problem types.
const ProblemTypeBase = "https://wom.social/api/problems/"

// ErrorCode is the stable machine-readable identifier of a protocol failure.
type ErrorCode string

const (
	CodeOtcNotValid               ErrorCode = "otc-not-valid"
	CodeOperationAlreadyPerformed ErrorCode = "operation-already-performed"
	CodeRequestVoid               ErrorCode = "request-void"
	CodeWrongPassword             ErrorCode = "wrong-password"
	CodeWrongNumberOfVouchers     ErrorCode = "wrong-number-of-vouchers"
	CodeInsufficientValidVouchers ErrorCode = "insufficient-valid-vouchers"
	CodeVouchersNotFound          ErrorCode = "one-or-more-not-found"
	CodeLocationNotProvided       ErrorCode = "location-not-provided"
)

type AppError struct {
	StatusCode int
	Code       ErrorCode
	Message    string
	Extensions map[string]any
}

func (e *AppError) Error() string {
	return e.Message
}

// Type returns the stable problem-type URI for protocol errors, or an empty
// string for plain validation/internal errors.
func (e *AppError) Type() string {
	if e.Code == "" {
		return ""
	}
	return ProblemTypeBase + string(e.Code)
}

// WithExtension attaches a named extension value reported to the caller.
func (e *AppError) WithExtension(key string, value any) *AppError {
	if e.Extensions == nil {
		e.Extensions = map[string]any{}
	}
	e.Extensions[key] = value
	return e
}

func NewAppError(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

func NewProtocolError(statusCode int, code ErrorCode, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

func NewBadRequestError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message)
}

func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message)
}

func NewOtcNotValidError() *AppError {
	return NewProtocolError(http.StatusNotFound, CodeOtcNotValid, "OTC does not exist or is not verified")
}

func NewOperationAlreadyPerformedError() *AppError {
	return NewProtocolError(http.StatusBadRequest, CodeOperationAlreadyPerformed, "Operation already performed")
}

func NewRequestVoidError() *AppError {
	return NewProtocolError(http.StatusGone, CodeRequestVoid, "Request is void")
}

func NewWrongPasswordError() *AppError {
	return NewProtocolError(http.StatusUnprocessableEntity, CodeWrongPassword, "Wrong password")
}

func NewWrongNumberOfVouchersError(required, supplied int) *AppError {
	return NewProtocolError(http.StatusBadRequest, CodeWrongNumberOfVouchers, "Number of vouchers does not match payment amount").
		WithExtension("required", required).
		WithExtension("supplied", supplied)
}

func NewInsufficientValidVouchersError(required, supplied int) *AppError {
	return NewProtocolError(http.StatusBadRequest, CodeInsufficientValidVouchers, "Not enough valid vouchers to satisfy payment").
		WithExtension("required", required).
		WithExtension("supplied", supplied)
}

func NewVouchersNotFoundError() *AppError {
	return NewProtocolError(http.StatusBadRequest, CodeVouchersNotFound, "One or more vouchers do not exist")
}

func NewLocationNotProvidedError() *AppError {
	return NewProtocolError(http.StatusBadRequest, CodeLocationNotProvided, "Voucher redemption requires a location")
}

func NewInternalServerError(originalError error, message string) *AppError {
	logrus.Errorf("[%s] %s", reflect.TypeOf(originalError).String(), originalError)
	return NewAppError(http.StatusInternalServerError, message)
}
