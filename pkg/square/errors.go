package square

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	sqcore "github.com/square/square-go-sdk/core"

	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
)

// ErrorDetail is one entry of the errors array returned by the Square API.
type ErrorDetail struct {
	Category string `json:"category,omitempty"`
	Code     string `json:"code,omitempty"`
	Detail   string `json:"detail,omitempty"`
	Field    string `json:"field,omitempty"`
}

// GatewayError is the uniform failure returned by every gateway call. StatusCode is zero
// for transport failures and timeouts.
type GatewayError struct {
	Op         string
	StatusCode int
	Details    []ErrorDetail
	cause      error
}

func (e *GatewayError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Details) == 0 {
		return fmt.Sprintf("square %s: %v", e.Op, e.cause)
	}
	parts := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		parts = append(parts, fmt.Sprintf("%s: %s", d.Category, d.Detail))
	}
	return fmt.Sprintf("square %s (status %d): %s", e.Op, e.StatusCode, strings.Join(parts, ", "))
}

func (e *GatewayError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// Transport reports whether the failure happened before Square produced a response.
func (e *GatewayError) Transport() bool {
	return e != nil && e.StatusCode == 0
}

// Retryable reports whether the same request may succeed if sent again.
func (e *GatewayError) Retryable() bool {
	if e == nil {
		return false
	}
	return e.Transport() || e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= http.StatusInternalServerError
}

// AsGatewayError extracts the gateway failure from an error chain.
func AsGatewayError(err error) *GatewayError {
	var gwErr *GatewayError
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return nil
}

// Details returns the Square error details carried by err, if any.
func Details(err error) []ErrorDetail {
	if gwErr := AsGatewayError(err); gwErr != nil {
		return gwErr.Details
	}
	return nil
}

func newGatewayError(op string, err error) *GatewayError {
	gwErr := &GatewayError{Op: op, cause: err}
	var apiErr *sqcore.APIError
	if errors.As(err, &apiErr) {
		gwErr.StatusCode = apiErr.StatusCode
		gwErr.Details = extractSquareErrors(apiErr)
	}
	return gwErr
}

// mapSquareError converts a gateway failure into a typed error. API rejections keep their
// details for the caller; transport failures surface as dependency errors.
func mapSquareError(gwErr *GatewayError) error {
	if gwErr == nil {
		return nil
	}
	msg := fmt.Sprintf("square %s failed", gwErr.Op)
	if gwErr.Transport() {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, gwErr, msg)
	}
	code := domainCodeForStatus(gwErr.StatusCode)
	for _, detail := range gwErr.Details {
		if detail.Code == "IDEMPOTENCY_KEY_REUSED" {
			code = pkgerrors.CodeIdempotency
			break
		}
	}
	return pkgerrors.Wrap(code, gwErr, msg).WithDetails(gwErr.Details)
}

func extractSquareErrors(apiErr *sqcore.APIError) []ErrorDetail {
	if apiErr == nil {
		return nil
	}
	inner := apiErr.Unwrap()
	if inner == nil {
		return nil
	}
	raw := strings.TrimSpace(inner.Error())
	if raw == "" {
		return nil
	}
	var payload struct {
		Errors []ErrorDetail `json:"errors"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil || len(payload.Errors) == 0 {
		return []ErrorDetail{{Category: "API_ERROR", Detail: raw}}
	}
	return payload.Errors
}

// domainCodeForStatus maps Square HTTP statuses. Anything the remote system answered with
// that is not a server fault is a gateway rejection and surfaces as 422.
func domainCodeForStatus(status int) pkgerrors.Code {
	switch {
	case status == http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case status >= http.StatusInternalServerError:
		return pkgerrors.CodeDependency
	default:
		return pkgerrors.CodeGateway
	}
}

// emptyResponse covers a 2xx answer that lacks the expected object.
func emptyResponse(op, field string) *GatewayError {
	return &GatewayError{
		Op:         op,
		StatusCode: http.StatusOK,
		Details:    []ErrorDetail{{Category: "API_ERROR", Code: "EMPTY_RESPONSE", Detail: fmt.Sprintf("response did not include %s", field)}},
		cause:      errors.New("empty response"),
	}
}

func decodeFailure(op string, err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, fmt.Sprintf("square %s returned an unreadable response", op))
}
