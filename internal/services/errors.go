package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrConfiguration   = errors.New("configuration error")
	ErrValidation      = errors.New("validation error")
	ErrScannerProtocol = errors.New("scanner protocol error")
	ErrBackend         = errors.New("backend error")
	ErrExternalTool    = errors.New("external tool error")
)

// Wrap builds an error message that includes component context while tagging
// it with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, component, operation, message string, err error) error {
	detail := buildDetail(component, operation, message)
	if marker == nil {
		marker = ErrExternalTool
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// StatusError reports an unexpected HTTP response from the scanner or the
// document backend. Marker is ErrScannerProtocol or ErrBackend.
type StatusError struct {
	Marker     error
	Endpoint   string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = "unexpected HTTP status"
	}
	if e.StatusCode == 0 {
		return fmt.Sprintf("%v: %s: %s", e.Marker, e.Endpoint, msg)
	}
	return fmt.Sprintf("%v: %s: %s (status %d)", e.Marker, e.Endpoint, msg, e.StatusCode)
}

func (e *StatusError) Unwrap() error { return e.Marker }

// ScannerStatus builds a scanner protocol error for endpoint.
func ScannerStatus(endpoint string, status int, message string) error {
	return &StatusError{Marker: ErrScannerProtocol, Endpoint: endpoint, StatusCode: status, Message: message}
}

// BackendStatus builds a backend error for endpoint.
func BackendStatus(endpoint string, status int, message string) error {
	return &StatusError{Marker: ErrBackend, Endpoint: endpoint, StatusCode: status, Message: message}
}

// ExitCode maps an error to the CLI process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrConfiguration):
		return 78
	case errors.Is(err, ErrValidation):
		return 65
	case errors.Is(err, ErrScannerProtocol), errors.Is(err, ErrBackend):
		return 69
	default:
		return 1
	}
}

func buildDetail(component, operation, message string) string {
	parts := make([]string, 0, 3)
	if component = strings.TrimSpace(component); component != "" {
		parts = append(parts, component)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
