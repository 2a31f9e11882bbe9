package mattermost

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"syscall"

	"github.com/muurk/mmprobe/internal/urls"
)

// ErrorType represents the category of error that occurred
type ErrorType int

const (
	// ErrTypeNetwork indicates a network-level error not covered by a more
	// specific type
	ErrTypeNetwork ErrorType = iota
	// ErrTypeTimeout indicates the request did not settle in time
	ErrTypeTimeout
	// ErrTypeConnectionRefused indicates nothing is listening at the server address
	ErrTypeConnectionRefused
	// ErrTypeDNS indicates a DNS resolution failure
	ErrTypeDNS
	// ErrTypeCanceled indicates the caller abandoned the request
	ErrTypeCanceled
	// ErrTypeHTTP indicates the server answered with a 4xx or 5xx status
	ErrTypeHTTP
	// ErrTypeParse indicates a response body that could not be decoded
	ErrTypeParse
	// ErrTypeBuild indicates the request could not be constructed
	ErrTypeBuild
)

// String returns a human-readable name for the error type
func (et ErrorType) String() string {
	switch et {
	case ErrTypeNetwork:
		return "Network Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeConnectionRefused:
		return "Connection Refused"
	case ErrTypeDNS:
		return "DNS Error"
	case ErrTypeCanceled:
		return "Canceled"
	case ErrTypeHTTP:
		return "HTTP Error"
	case ErrTypeParse:
		return "Parse Error"
	case ErrTypeBuild:
		return "Request Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// APIError represents an error that occurred while talking to a server
type APIError struct {
	Type       ErrorType // Category of error
	Message    string    // Human-readable error message
	StatusCode int       // HTTP status code (if applicable)
	ServerID   string    // Server error id, e.g. "app.user.save.email_exists.app_error"
	URL        string    // Request URL (for context)
	Err        error     // Underlying error (if any)
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *APIError) Unwrap() error {
	return e.Err
}

// ClassifyNetworkError analyzes a transport error and returns an APIError
// with the most specific type that fits.
func ClassifyNetworkError(err error, rawURL string) *APIError {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.Canceled) {
		return &APIError{Type: ErrTypeCanceled, Message: "Request canceled", URL: rawURL, Err: err}
	}

	// Deadline exceeded satisfies os.IsTimeout through url.Error
	if os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded) {
		return &APIError{Type: ErrTypeTimeout, Message: "Request timed out", URL: rawURL, Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return &APIError{
			Type:    ErrTypeDNS,
			Message: fmt.Sprintf("DNS resolution failed for %s", dnsErr.Name),
			URL:     rawURL,
			Err:     err,
		}
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if errors.Is(opErr.Err, syscall.ECONNREFUSED) {
			return &APIError{Type: ErrTypeConnectionRefused, Message: "Server refused connection", URL: rawURL, Err: err}
		}
		if errors.Is(opErr.Err, syscall.EHOSTUNREACH) {
			return &APIError{Type: ErrTypeNetwork, Message: "Host unreachable", URL: rawURL, Err: err}
		}
		if errors.Is(opErr.Err, syscall.ENETUNREACH) {
			return &APIError{Type: ErrTypeNetwork, Message: "Network unreachable", URL: rawURL, Err: err}
		}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Err != nil {
		// Recursively classify the underlying error
		return ClassifyNetworkError(urlErr.Err, rawURL)
	}

	return &APIError{Type: ErrTypeNetwork, Message: "Network error occurred", URL: rawURL, Err: err}
}

// NewHTTPError creates an error for a 4xx or 5xx response. body is the raw
// response body; when it is a server error object its message is used.
func NewHTTPError(method, rawURL string, statusCode int, body []byte) *APIError {
	apiErr := &APIError{
		Type:       ErrTypeHTTP,
		Message:    fmt.Sprintf("%s %s returned status %d", method, rawURL, statusCode),
		StatusCode: statusCode,
		URL:        rawURL,
	}

	var eb errorBody
	if len(body) > 0 && decodeJSON(body, &eb) == nil && strings.TrimSpace(eb.Message) != "" {
		apiErr.Message = fmt.Sprintf("%s (status %d)", strings.TrimSpace(eb.Message), statusCode)
		apiErr.ServerID = eb.ID
	}
	return apiErr
}

// NewParseError creates a parsing error
func NewParseError(rawURL string, err error) *APIError {
	return &APIError{Type: ErrTypeParse, Message: "decode response", URL: rawURL, Err: err}
}

// NewBuildError creates an error for a request that never left the client
func NewBuildError(message string, err error) *APIError {
	return &APIError{Type: ErrTypeBuild, Message: message, Err: err}
}

// IsNetworkError checks if an error is a transport-level error (including
// timeout, connection refused and DNS)
func IsNetworkError(err error) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.Type {
	case ErrTypeNetwork, ErrTypeTimeout, ErrTypeConnectionRefused, ErrTypeDNS:
		return true
	}
	return false
}

// IsHTTPError checks if an error is an HTTP status error
func IsHTTPError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrTypeHTTP
}

// IsParseError checks if an error is a parse error
func IsParseError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Type == ErrTypeParse
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// GetTroubleshootingHint returns user-friendly troubleshooting advice for an error
func GetTroubleshootingHint(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return "An unexpected error occurred. Please try again."
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return strings.Join([]string{
			"The server did not respond in time.",
			"Troubleshooting:",
			"  • Check that the server is running",
			"  • Try increasing --timeout",
			"  • Check for a proxy or firewall between you and the server",
		}, "\n")

	case ErrTypeConnectionRefused:
		return strings.Join([]string{
			"Nothing is listening at the server address.",
			"Troubleshooting:",
			"  • Verify the port (Mattermost listens on 8065 by default)",
			"  • Check that the server process is running",
			"  • Use `mmprobe discover` to find servers on the local network",
		}, "\n")

	case ErrTypeDNS:
		return strings.Join([]string{
			"Could not resolve the server hostname.",
			"Troubleshooting:",
			"  • Use the IP address instead of hostname",
			"  • Check your network DNS settings",
		}, "\n")

	case ErrTypeNetwork:
		return strings.Join([]string{
			"Network communication failed.",
			"Troubleshooting:",
			"  • Check your network connection",
			"  • Verify the server URL with `mmprobe profile list`",
		}, "\n")

	case ErrTypeHTTP:
		if apiErr.StatusCode == http.StatusNotImplemented || apiErr.StatusCode == http.StatusForbidden {
			return "The server refused the request. Open signup may be disabled.\nSee " + urls.SignupSettings
		}
		if apiErr.StatusCode >= 500 {
			return strings.Join([]string{
				fmt.Sprintf("The server returned an error (HTTP %d).", apiErr.StatusCode),
				"Troubleshooting:",
				"  • Check the server logs",
				"  • See " + urls.ServerTroubleshooting,
			}, "\n")
		}
		if apiErr.StatusCode == http.StatusNotFound {
			return "The endpoint was not found. Check that the URL points at a Mattermost server.\nSee " + urls.APIReference
		}
		return fmt.Sprintf("The server rejected the request (HTTP %d). Check the values you entered.", apiErr.StatusCode)

	case ErrTypeParse:
		return strings.Join([]string{
			"Failed to parse the server's response.",
			"The URL may point at something other than a Mattermost server.",
			"See " + urls.APIReference,
		}, "\n")

	case ErrTypeBuild:
		return "The request could not be built. Check the server URL."

	default:
		return "An error occurred. Please check the error message for details."
	}
}

// GetShortErrorMessage returns a concise, user-friendly error message
func GetShortErrorMessage(err error) string {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return err.Error()
	}

	switch apiErr.Type {
	case ErrTypeTimeout:
		return "Server not responding (timeout)"
	case ErrTypeConnectionRefused:
		return "Server refused connection"
	case ErrTypeDNS:
		return "Cannot resolve server hostname"
	case ErrTypeCanceled:
		return "Request canceled"
	case ErrTypeNetwork:
		return "Network error - check connection"
	case ErrTypeHTTP, ErrTypeBuild:
		return apiErr.Message
	case ErrTypeParse:
		return "Failed to parse server response"
	default:
		return apiErr.Message
	}
}
