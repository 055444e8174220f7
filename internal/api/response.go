package api

import (
	"encoding/json"
	"io"
	"net/http"
)

// envelope is the wrapper Listmonk puts around every JSON payload.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// PageData is the paged collection shape carried inside the envelope by
// the subscriber, list, and campaign collection endpoints.
type PageData struct {
	Total   int             `json:"total"`
	PerPage int             `json:"per_page"`
	Page    int             `json:"page"`
	Results json.RawMessage `json:"results"`
}

// decodeEnvelope extracts the data payload from a response body and
// decodes it into out.
func decodeEnvelope(r io.Reader, path string, out any) error {
	var env envelope
	if err := json.NewDecoder(r).Decode(&env); err != nil {
		return &DecodeError{Err: err, Path: path}
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return &DecodeError{Err: err, Path: path}
	}
	return nil
}

// parseError maps an HTTP error response to an *APIError, extracting the
// server's message field when the body is the usual {"message": ...}
// shape.
func parseError(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	var errResp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    errResp.Message,
		}
	}

	return &APIError{
		StatusCode: resp.StatusCode,
		Message:    string(body),
	}
}
