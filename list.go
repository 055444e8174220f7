package listmonk

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/listmonk-client/client-go/internal/api"
)

// List types and opt-in modes.
const (
	ListTypePublic  = "public"
	ListTypePrivate = "private"

	ListOptinSingle = "single"
	ListOptinDouble = "double"
)

// SubscriberStatuses is the per-status subscriber breakdown attached to a
// mailing list.
type SubscriberStatuses struct {
	Unconfirmed int `json:"unconfirmed"`
}

// MailingList is a named segmentation group of subscribers. Lists are
// managed through the Listmonk admin UI; this client only reads them
// (creation and deletion are unsupported).
type MailingList struct {
	ID                 int                 `json:"id"`
	UUID               string              `json:"uuid"`
	Name               string              `json:"name"`
	Type               string              `json:"type"`
	Optin              string              `json:"optin"`
	Tags               []string            `json:"tags"`
	Description        string              `json:"description"`
	SubscriberCount    int                 `json:"subscriber_count"`
	SubscriberStatuses *SubscriberStatuses `json:"subscriber_statuses,omitempty"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          *time.Time          `json:"updated_at"`
}

// Lists returns all mailing lists on the server.
func (c *Client) Lists(ctx context.Context) ([]MailingList, error) {
	// A single huge page, as the admin API has no cursor.
	query := api.PageQuery(1, 1000000)

	var pageData api.PageData
	if err := c.apiClient.Do(ctx, http.MethodGet, api.PathLists, query, nil, &pageData); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceList))
	}

	var lists []MailingList
	if err := json.Unmarshal(pageData.Results, &lists); err != nil {
		return nil, &DecodeError{Err: err, Path: api.PathLists}
	}
	return lists, nil
}

// ListByID returns the full details of the list with the given id.
func (c *Client) ListByID(ctx context.Context, id int) (*MailingList, error) {
	var raw json.RawMessage
	if err := c.apiClient.Do(ctx, http.MethodGet, api.ListPath(id), nil, nil, &raw); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceList))
	}

	// Some server versions answer the single-list endpoint with a paged
	// results array instead of one object (knadh/listmonk#2117). Detect
	// that shape and pick the matching entry.
	var paged struct {
		Results []MailingList `json:"results"`
	}
	if err := json.Unmarshal(raw, &paged); err == nil && paged.Results != nil {
		for i := range paged.Results {
			if paged.Results[i].ID == id {
				return &paged.Results[i], nil
			}
		}
		return nil, ErrListNotFound
	}

	var list MailingList
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, &DecodeError{Err: err, Path: api.ListPath(id)}
	}
	return &list, nil
}
