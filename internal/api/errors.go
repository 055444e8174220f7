package api

import (
	"errors"
	"fmt"
)

// Resource indicates which kind of entity an error relates to.
type Resource string

const (
	// ResourceUnknown indicates the resource kind is not specified.
	ResourceUnknown Resource = ""
	// ResourceSubscriber indicates the error relates to a subscriber.
	ResourceSubscriber Resource = "subscriber"
	// ResourceList indicates the error relates to a mailing list.
	ResourceList Resource = "list"
	// ResourceCampaign indicates the error relates to a campaign.
	ResourceCampaign Resource = "campaign"
	// ResourceTemplate indicates the error relates to a template.
	ResourceTemplate Resource = "template"
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

// WithResource returns a copy of the error with the resource kind set.
// If the error is not an *APIError, it is returned unchanged.
func WithResource(err error, r Resource) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return &APIError{
			StatusCode: apiErr.StatusCode,
			Message:    apiErr.Message,
			Resource:   r,
		}
	}
	return err
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

// DecodeError represents a response payload that did not match the
// expected shape.
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
