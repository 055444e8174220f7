package listmonk

import (
	"errors"
	"fmt"

	"github.com/listmonk-client/client-go/internal/api"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrMissingBaseURL is returned when no base URL is provided.
	ErrMissingBaseURL = errors.New("base URL is required")

	// ErrInvalidBaseURL is returned when the base URL does not carry an
	// HTTP scheme.
	ErrInvalidBaseURL = errors.New("base URL must start with http:// or https://")

	// ErrMissingCredentials is returned when the username or password is empty.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrUnauthorized is returned when the credentials are rejected.
	ErrUnauthorized = errors.New("invalid username or password")

	// ErrSubscriberNotFound is returned when a subscriber is not found.
	ErrSubscriberNotFound = errors.New("subscriber not found")

	// ErrListNotFound is returned when a mailing list is not found.
	ErrListNotFound = errors.New("list not found")

	// ErrCampaignNotFound is returned when a campaign is not found.
	ErrCampaignNotFound = errors.New("campaign not found")

	// ErrTemplateNotFound is returned when a template is not found.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrBadRequest is returned when the server rejects a request as invalid.
	ErrBadRequest = errors.New("invalid request")

	// ErrNotAllowed is returned when the server refuses the requested
	// operation, e.g. a status transition a campaign cannot make.
	ErrNotAllowed = errors.New("operation not allowed")

	// ErrAttachmentNotFound is returned when a local attachment path does
	// not exist or is not a regular file.
	ErrAttachmentNotFound = errors.New("attachment file not found")

	// ErrOptinNotConfirmed is returned when the opt-in endpoint does not
	// acknowledge the confirmation.
	ErrOptinNotConfirmed = errors.New("opt-in was not confirmed")
)

// ListmonkError is implemented by all library errors.
type ListmonkError interface {
	error
	ListmonkError() // marker method
}

// Resource indicates which kind of entity an error relates to.
type Resource string

// Resource kinds attached to API errors.
const (
	ResourceUnknown    Resource = ""
	ResourceSubscriber Resource = "subscriber"
	ResourceList       Resource = "list"
	ResourceCampaign   Resource = "campaign"
	ResourceTemplate   Resource = "template"
)

// APIError represents an HTTP error response from the Listmonk API.
type APIError struct {
	StatusCode int
	Message    string
	Resource   Resource
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("listmonk API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("listmonk API error %d", e.StatusCode)
}

// ListmonkError implements the ListmonkError interface.
func (e *APIError) ListmonkError() {}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.StatusCode {
	case 400:
		return target == ErrBadRequest
	case 401, 403:
		return target == ErrUnauthorized
	case 404:
		switch e.Resource {
		case ResourceSubscriber:
			return target == ErrSubscriberNotFound
		case ResourceList:
			return target == ErrListNotFound
		case ResourceCampaign:
			return target == ErrCampaignNotFound
		case ResourceTemplate:
			return target == ErrTemplateNotFound
		default:
			return target == ErrSubscriberNotFound || target == ErrListNotFound ||
				target == ErrCampaignNotFound || target == ErrTemplateNotFound
		}
	case 405:
		return target == ErrNotAllowed
	}
	return false
}

// NetworkError represents a transport-level failure.
type NetworkError struct {
	Err error
	URL string
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ListmonkError implements the ListmonkError interface.
func (e *NetworkError) ListmonkError() {}

// DecodeError represents a response payload that did not match the
// expected model shape.
type DecodeError struct {
	Err  error
	Path string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode response from %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ListmonkError implements the ListmonkError interface.
func (e *DecodeError) ListmonkError() {}

// ValidationError reports invalid arguments detected before any request
// is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// ListmonkError implements the ListmonkError interface.
func (e *ValidationError) ListmonkError() {}

// AttachmentError reports a local attachment file that could not be used.
type AttachmentError struct {
	Path string
	Err  error
}

func (e *AttachmentError) Error() string {
	return fmt.Sprintf("attachment %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *AttachmentError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *AttachmentError) Is(target error) bool {
	return target == ErrAttachmentNotFound
}

// ListmonkError implements the ListmonkError interface.
func (e *AttachmentError) ListmonkError() {}

// wrapError converts internal API errors to public errors so that
// errors.Is() checks work with the public sentinels.
func wrapError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Resource:   Resource(apiErr.Resource),
		}
	}

	var netErr *api.NetworkError
	if errors.As(err, &netErr) {
		return &NetworkError{
			Err: netErr.Err,
			URL: netErr.URL,
		}
	}

	var decErr *api.DecodeError
	if errors.As(err, &decErr) {
		return &DecodeError{
			Err:  decErr.Err,
			Path: decErr.Path,
		}
	}

	return err
}
