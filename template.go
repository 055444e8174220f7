package listmonk

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/listmonk-client/client-go/internal/api"
)

// TemplateType distinguishes campaign templates from transactional ones.
type TemplateType string

// Template types.
const (
	TemplateTypeCampaign TemplateType = "campaign"
	TemplateTypeTx       TemplateType = "tx"
)

// contentPlaceholder must appear in every campaign template body; the
// server substitutes the campaign content for it.
const contentPlaceholder = `{{ template "content" . }}`

// Template is a reusable HTML/text structure used by campaigns or
// transactional sends.
type Template struct {
	ID        int          `json:"id"`
	Name      string       `json:"name"`
	Body      string       `json:"body"`
	Type      TemplateType `json:"type"`
	IsDefault bool         `json:"is_default"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt *time.Time   `json:"updated_at"`
}

// templateRequest is the wire shape for create and update calls.
type templateRequest struct {
	Name      string       `json:"name"`
	Body      string       `json:"body"`
	Type      TemplateType `json:"type,omitempty"`
	IsDefault bool         `json:"is_default"`
}

// Templates returns all templates on the server.
func (c *Client) Templates(ctx context.Context) ([]Template, error) {
	query := api.PageQuery(1, 1000000)

	var templates []Template
	if err := c.apiClient.Do(ctx, http.MethodGet, api.PathTemplates, query, nil, &templates); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceTemplate))
	}
	return templates, nil
}

// TemplateByID returns the template with the given id.
func (c *Client) TemplateByID(ctx context.Context, id int) (*Template, error) {
	var tmpl Template
	if err := c.apiClient.Do(ctx, http.MethodGet, api.TemplatePath(id), nil, nil, &tmpl); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceTemplate))
	}
	return &tmpl, nil
}

// TemplatePreviewByID returns the rendered preview of the template with
// the given id, filled with placeholder content.
func (c *Client) TemplatePreviewByID(ctx context.Context, id int) (string, error) {
	preview, err := c.apiClient.GetText(ctx, api.TemplatePreviewPath(id), nil)
	if err != nil {
		return "", wrapError(api.WithResource(err, api.ResourceTemplate))
	}
	return preview, nil
}

// CreateTemplate creates a new template. The body must contain the
// {{ template "content" . }} placeholder the server injects campaign
// content into.
func (c *Client) CreateTemplate(ctx context.Context, name, body string, opts ...TemplateOption) (*Template, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}
	if body == "" {
		return nil, &ValidationError{Message: "body is required"}
	}
	if !strings.Contains(body, contentPlaceholder) {
		return nil, &ValidationError{Message: `body must contain the {{ template "content" . }} placeholder`}
	}

	cfg := &templateConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	req := templateRequest{
		Name:      name,
		Body:      body,
		Type:      cfg.templateType,
		IsDefault: cfg.isDefault,
	}

	var tmpl Template
	if err := c.apiClient.Do(ctx, http.MethodPost, api.PathTemplates, nil, req, &tmpl); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceTemplate))
	}
	return &tmpl, nil
}

// UpdateTemplate sends the template's current fields to the server and
// returns its updated view.
func (c *Client) UpdateTemplate(ctx context.Context, tmpl *Template) (*Template, error) {
	if tmpl == nil || tmpl.ID == 0 {
		return nil, &ValidationError{Message: "template with a server-issued id is required"}
	}

	req := templateRequest{
		Name: tmpl.Name,
		Body: tmpl.Body,
		Type: tmpl.Type,
	}

	if err := c.apiClient.Do(ctx, http.MethodPut, api.TemplatePath(tmpl.ID), nil, req, nil); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceTemplate))
	}

	return c.TemplateByID(ctx, tmpl.ID)
}

// DeleteTemplate deletes the template with the given id. The default
// template cannot be deleted; the server refuses with ErrBadRequest.
func (c *Client) DeleteTemplate(ctx context.Context, id int) error {
	if _, err := c.TemplateByID(ctx, id); err != nil {
		return err
	}

	var ok bool
	if err := c.apiClient.Do(ctx, http.MethodDelete, api.TemplatePath(id), nil, nil, &ok); err != nil {
		return wrapError(api.WithResource(err, api.ResourceTemplate))
	}
	return nil
}

// SetDefaultTemplate marks the template with the given id as the
// instance default.
func (c *Client) SetDefaultTemplate(ctx context.Context, id int) error {
	if _, err := c.TemplateByID(ctx, id); err != nil {
		return err
	}

	var ok bool
	if err := c.apiClient.Do(ctx, http.MethodPut, api.TemplateDefaultPath(id), nil, nil, &ok); err != nil {
		return wrapError(api.WithResource(err, api.ResourceTemplate))
	}
	return nil
}
