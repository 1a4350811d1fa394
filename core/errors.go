package core

import (
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	ResourceErrorBadInput             = "RESOURCE_BAD_INPUT"
	ResourceErrorMalformedIdentifier  = "RESOURCE_MALFORMED_IDENTIFIER"
	ResourceErrorLimitExceeded        = "RESOURCE_LIMIT_EXCEEDED"
	ResourceErrorNotFound             = "RESOURCE_NOT_FOUND"
	ResourceErrorDuplicate            = "RESOURCE_DUPLICATE"
	ResourceErrorInvalidStage         = "RESOURCE_INVALID_STAGE"
	ResourceErrorInvalidOperation     = "RESOURCE_INVALID_OPERATION"
	ResourceErrorPermissionDenied     = "RESOURCE_PERMISSION_DENIED"
	ResourceErrorInternal             = "RESOURCE_INTERNAL_ERROR"
	ResourceErrorInconsistentSnapshot = "RESOURCE_INCONSISTENT_SNAPSHOT"
)

// NewNotFoundError reports that no record matched the resolved criteria.
func NewNotFoundError(resource string) *goerrors.Error {
	message := "Not found"
	if name := strings.TrimSpace(resource); name != "" {
		message = name + " not found"
	}
	return goerrors.New(message, goerrors.CategoryNotFound).
		WithCode(http.StatusNotFound).
		WithTextCode(ResourceErrorNotFound)
}

// NewDuplicateError reports a uniqueness violation.
func NewDuplicateError(message string) *goerrors.Error {
	if strings.TrimSpace(message) == "" {
		message = "Already exists"
	}
	return goerrors.New(message, goerrors.CategoryConflict).
		WithCode(http.StatusConflict).
		WithTextCode(ResourceErrorDuplicate)
}

// NewBadInputError is a request validation failure.
func NewBadInputError(message string, textCode ...string) *goerrors.Error {
	code := ResourceErrorBadInput
	if len(textCode) > 0 && strings.TrimSpace(textCode[0]) != "" {
		code = textCode[0]
	}
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusBadRequest).
		WithTextCode(code)
}

// NewForbiddenError is a convenience for authorize hooks.
func NewForbiddenError(message string) *goerrors.Error {
	if strings.TrimSpace(message) == "" {
		message = "Forbidden"
	}
	return goerrors.New(message, goerrors.CategoryAuthz).
		WithCode(http.StatusForbidden).
		WithTextCode(ResourceErrorPermissionDenied)
}

func newMalformedIdentifierError(err error) *goerrors.Error {
	return goerrors.Wrap(err, goerrors.CategoryBadInput, "malformed identifier").
		WithCode(http.StatusBadRequest).
		WithTextCode(ResourceErrorMalformedIdentifier)
}

func newRegistrationError(message string, textCode string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryBadInput).
		WithCode(http.StatusInternalServerError).
		WithTextCode(textCode).
		WithSeverity(goerrors.SeverityCritical)
}

func newInvalidStageError(stage string) *goerrors.Error {
	return newRegistrationError("Invalid hook: "+stage, ResourceErrorInvalidStage)
}

func newInvalidOperationError(op string) *goerrors.Error {
	return newRegistrationError("Invalid operation: "+op, ResourceErrorInvalidOperation)
}

// IsRegistrationError reports whether err came from hook registration or compilation.
func IsRegistrationError(err error) bool {
	var rich *goerrors.Error
	if !goerrors.As(err, &rich) {
		return false
	}
	return rich.TextCode == ResourceErrorInvalidStage || rich.TextCode == ResourceErrorInvalidOperation
}

// MapError converts any pipeline failure into the boundary envelope.
func MapError(err error) *goerrors.Error {
	if err == nil {
		return nil
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return ensureResourceErrorEnvelope(richErr)
	}
	if goerrors.Is(err, ErrDuplicate) {
		return ensureResourceErrorEnvelope(goerrors.Wrap(err, goerrors.CategoryConflict, "Already exists").
			WithTextCode(ResourceErrorDuplicate))
	}

	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	switch {
	case strings.Contains(msg, "unique constraint"), strings.Contains(msg, "duplicate key"):
		return newResourceError(err, goerrors.CategoryConflict, ResourceErrorDuplicate)
	case strings.Contains(msg, "not found"), strings.Contains(msg, "no rows"):
		return newResourceError(err, goerrors.CategoryNotFound, ResourceErrorNotFound)
	}

	mapped := goerrors.MapToError(err, goerrors.DefaultErrorMappers())
	return ensureResourceErrorEnvelope(mapped)
}

func newResourceError(source error, category goerrors.Category, textCode string) *goerrors.Error {
	return ensureResourceErrorEnvelope(
		goerrors.Wrap(source, category, source.Error()).
			WithTextCode(textCode),
	)
}

func ensureResourceErrorEnvelope(err *goerrors.Error) *goerrors.Error {
	if err == nil {
		return nil
	}
	if err.Code == 0 {
		err.Code = HTTPStatus(err.Category)
	}
	if strings.TrimSpace(err.TextCode) == "" || err.TextCode == "INTERNAL_ERROR" {
		err.TextCode = defaultResourceTextCode(err.Category)
	}
	if err.Category == goerrors.CategoryInternal && strings.TrimSpace(err.Message) == "" {
		err.Message = "An unexpected error occurred"
	}
	return err
}

func defaultResourceTextCode(category goerrors.Category) string {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return ResourceErrorBadInput
	case goerrors.CategoryNotFound:
		return ResourceErrorNotFound
	case goerrors.CategoryAuth, goerrors.CategoryAuthz:
		return ResourceErrorPermissionDenied
	case goerrors.CategoryConflict:
		return ResourceErrorDuplicate
	default:
		return ResourceErrorInternal
	}
}

// HTTPStatus maps an error category to a response status.
func HTTPStatus(category goerrors.Category) int {
	switch category {
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return http.StatusBadRequest
	case goerrors.CategoryNotFound:
		return http.StatusNotFound
	case goerrors.CategoryAuth:
		return http.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return http.StatusForbidden
	case goerrors.CategoryConflict:
		return http.StatusConflict
	case goerrors.CategoryRateLimit:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
