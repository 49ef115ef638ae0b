package llm

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a ServiceError. The values are stable and are
// serialized as-is by the API.
type ErrorKind string

const (
	ErrorUnknown             ErrorKind = "unknown"
	ErrorParam               ErrorKind = "param"
	ErrorUnsupportedLanguage ErrorKind = "unsupportedLanguage"
	ErrorSecretKey           ErrorKind = "secretKey"
	ErrorNetwork             ErrorKind = "network"
	ErrorAPI                 ErrorKind = "api"
	ErrorNotFound            ErrorKind = "notFound"
)

// ServiceError is the structured failure reported to the caller of a
// translation. It is returned as a plain error value and recovered with
// AsServiceError.
type ServiceError struct {
	Kind                ErrorKind `json:"type"`
	Message             string    `json:"message"`
	Addition            string    `json:"addition,omitempty"`
	TroubleshootingLink string    `json:"troubleshootingLink,omitempty"`

	// ProviderType is the error type declared by the upstream API, if any
	// (e.g. "invalid_request_error").
	ProviderType string `json:"providerType,omitempty"`

	cause error
}

// NewServiceError creates a ServiceError of the given kind.
func NewServiceError(kind ErrorKind, message string) *ServiceError {
	return &ServiceError{Kind: kind, Message: message}
}

// WithAddition sets the raw diagnostic payload and returns the error.
func (e *ServiceError) WithAddition(addition string) *ServiceError {
	e.Addition = addition
	return e
}

// WithLink sets the troubleshooting link and returns the error.
func (e *ServiceError) WithLink(link string) *ServiceError {
	e.TroubleshootingLink = link
	return e
}

// WithCause records the underlying error so errors.Is and errors.As see it.
func (e *ServiceError) WithCause(err error) *ServiceError {
	e.cause = err
	return e
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *ServiceError) Unwrap() error {
	return e.cause
}

// AsServiceError extracts a *ServiceError from err's chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var se *ServiceError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

// ToServiceError converts any error into a ServiceError. Errors that are not
// already structured become kind unknown.
func ToServiceError(err error) *ServiceError {
	if err == nil {
		return nil
	}
	if se, ok := AsServiceError(err); ok {
		return se
	}
	return NewServiceError(ErrorUnknown, err.Error()).WithCause(err)
}
