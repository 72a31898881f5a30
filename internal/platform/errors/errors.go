package errors

import (
	stderrors "errors"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/status"

	"github.com/louisbranch/garoball/internal/platform/errors/i18n"
)

// Domain is the error domain for garoball errors.
const Domain = "github.com/louisbranch/garoball"

// Error is the domain error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Internal message (for logs/telemetry)
	Metadata map[string]string // Additional context for templating
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a domain error with a code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a domain error with metadata for message templates.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates a domain error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapWithMetadata creates a domain error with both metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata, Cause: cause}
}

// From finds the first *Error in err's chain. Anything else comes back as
// an internal error wrapping err.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var domainErr *Error
	if stderrors.As(err, &domainErr) {
		return domainErr
	}
	return Wrap(CodeInternal, err.Error(), err)
}

// LocalizedMessage renders the user-facing message for locale.
func (e *Error) LocalizedMessage(locale string) string {
	return i18n.GetCatalog(locale).Format(string(e.Code), e.Metadata)
}

// ToGRPCStatus converts the error to a gRPC status with errdetails.
// The status message carries the internal message; LocalizedMessage carries
// userMessage.
func (e *Error) ToGRPCStatus(locale string, userMessage string) error {
	grpcCode := e.Code.GRPCCode()
	st, err := status.New(grpcCode, e.Message).WithDetails(
		&errdetails.ErrorInfo{
			Reason:   string(e.Code),
			Domain:   Domain,
			Metadata: e.Metadata,
		},
		&errdetails.LocalizedMessage{
			Locale:  locale,
			Message: userMessage,
		},
	)
	if err != nil {
		return status.New(grpcCode, e.Message).Err()
	}
	return st.Err()
}

// StatusFor is ToGRPCStatus with the catalog message for locale.
func (e *Error) StatusFor(locale string) error {
	return e.ToGRPCStatus(i18n.GetCatalog(locale).Locale(), e.LocalizedMessage(locale))
}
