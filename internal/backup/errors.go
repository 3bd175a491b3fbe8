package backup

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"syscall"
)

// ErrorKind categorizes per-device backup failures so callers and tests
// can match on the kind of failure rather than its text.
type ErrorKind int

const (
	// KindNetwork indicates a generic transport failure.
	KindNetwork ErrorKind = iota
	// KindTimeout indicates the device did not respond in time.
	KindTimeout
	// KindConnectionRefused indicates the device refused the connection.
	KindConnectionRefused
	// KindDNS indicates a name resolution failure.
	KindDNS
	// KindHTTP indicates a non-success HTTP status from the device.
	KindHTTP
	// KindParse indicates a malformed configuration document.
	KindParse
	// KindIdentity indicates a missing or unusable identity field.
	KindIdentity
	// KindFile indicates a local file creation or write failure.
	KindFile
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindNetwork:
		return "Network Error"
	case KindTimeout:
		return "Timeout"
	case KindConnectionRefused:
		return "Connection Refused"
	case KindDNS:
		return "DNS Error"
	case KindHTTP:
		return "HTTP Error"
	case KindParse:
		return "Parse Error"
	case KindIdentity:
		return "Identity Error"
	case KindFile:
		return "File Error"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

// DeviceError represents a failure while backing up a single device.
// Errors of this type never cross a device boundary: the orchestrator
// records them in the device's outcome and moves on.
type DeviceError struct {
	Kind       ErrorKind // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	Host       string    // Device host:port (for context)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DeviceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *DeviceError) Unwrap() error {
	return e.Err
}

// classifyNetworkError analyzes a transport error and returns a
// DeviceError with the most specific kind it can determine.
func classifyNetworkError(err error, host string) *DeviceError {
	if err == nil {
		return nil
	}

	if os.IsTimeout(err) {
		return &DeviceError{
			Kind:    KindTimeout,
			Message: "request timed out",
			Host:    host,
			Err:     err,
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &DeviceError{
			Kind:    KindDNS,
			Message: fmt.Sprintf("name resolution failed for %s", dnsErr.Name),
			Host:    host,
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &DeviceError{
				Kind:    KindConnectionRefused,
				Message: "device refused connection",
				Host:    host,
				Err:     err,
			}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &DeviceError{
				Kind:    KindNetwork,
				Message: "host unreachable",
				Host:    host,
				Err:     err,
			}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &DeviceError{
				Kind:    KindNetwork,
				Message: "network unreachable",
				Host:    host,
				Err:     err,
			}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		// Recursively classify the underlying error
		return classifyNetworkError(urlErr.Err, host)
	}

	return &DeviceError{
		Kind:    KindNetwork,
		Message: "network error occurred",
		Host:    host,
		Err:     err,
	}
}

// NewNetworkError creates a transport-level error with automatic
// classification of the underlying cause.
func NewNetworkError(message string, err error, host string) *DeviceError {
	classified := classifyNetworkError(err, host)
	if classified != nil {
		classified.Message = message
		return classified
	}
	return &DeviceError{
		Kind:    KindNetwork,
		Message: message,
		Host:    host,
		Err:     err,
	}
}

// NewHTTPError creates an HTTP-level error
func NewHTTPError(statusCode int, message string) *DeviceError {
	return &DeviceError{
		Kind:       KindHTTP,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewParseError creates a parsing error
func NewParseError(message string, err error) *DeviceError {
	return &DeviceError{
		Kind:    KindParse,
		Message: message,
		Err:     err,
	}
}

// NewIdentityError creates an identity-resolution error
func NewIdentityError(message string) *DeviceError {
	return &DeviceError{
		Kind:    KindIdentity,
		Message: message,
	}
}

// NewFileError creates a local persistence error
func NewFileError(message string, err error) *DeviceError {
	return &DeviceError{
		Kind:    KindFile,
		Message: message,
		Err:     err,
	}
}

// KindOf extracts the error kind from err, if it is a DeviceError.
func KindOf(err error) (ErrorKind, bool) {
	var devErr *DeviceError
	if errors.As(err, &devErr) {
		return devErr.Kind, true
	}
	return 0, false
}

// IsNetworkError checks if an error is a transport error (including
// timeout, connection refused and DNS failures).
func IsNetworkError(err error) bool {
	kind, ok := KindOf(err)
	return ok && (kind == KindNetwork ||
		kind == KindTimeout ||
		kind == KindConnectionRefused ||
		kind == KindDNS)
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindParse
}

// IsIdentityError checks if an error is an identity-resolution error
func IsIdentityError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindIdentity
}

// IsFileError checks if an error is a local persistence error
func IsFileError(err error) bool {
	kind, ok := KindOf(err)
	return ok && kind == KindFile
}
