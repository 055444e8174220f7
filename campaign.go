package listmonk

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/listmonk-client/client-go/internal/api"
)

// CampaignStatus is the lifecycle state of a campaign. The lifecycle is
// server-managed; the client only observes statuses and requests
// transitions via SetCampaignStatus.
type CampaignStatus string

// Campaign statuses.
const (
	CampaignStatusDraft     CampaignStatus = "draft"
	CampaignStatusScheduled CampaignStatus = "scheduled"
	CampaignStatusRunning   CampaignStatus = "running"
	CampaignStatusPaused    CampaignStatus = "paused"
	CampaignStatusFinished  CampaignStatus = "finished"
	CampaignStatusCancelled CampaignStatus = "cancelled"
)

// Campaign types.
const (
	CampaignTypeRegular = "regular"
	CampaignTypeOptin   = "optin"
)

// Content types accepted for campaign and transactional bodies.
const (
	ContentTypeRichtext = "richtext"
	ContentTypeHTML     = "html"
	ContentTypeMarkdown = "markdown"
	ContentTypePlain    = "plain"
)

// MessengerEmail is the default messenger channel.
const MessengerEmail = "email"

// CampaignList is a campaign's reference to one recipient list.
type CampaignList struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Campaign is a scheduled bulk email send.
type Campaign struct {
	ID          int                 `json:"id"`
	UUID        string              `json:"uuid"`
	Name        string              `json:"name"`
	Subject     string              `json:"subject"`
	FromEmail   string              `json:"from_email"`
	Body        string              `json:"body"`
	AltBody     string              `json:"altbody"`
	Lists       []CampaignList      `json:"lists"`
	Tags        []string            `json:"tags"`
	Type        string              `json:"type"`
	ContentType string              `json:"content_type"`
	Messenger   string              `json:"messenger"`
	TemplateID  int                 `json:"template_id"`
	Status      CampaignStatus      `json:"status"`
	SendAt      *time.Time          `json:"send_at"`
	StartedAt   *time.Time          `json:"started_at"`
	Views       int                 `json:"views"`
	Clicks      int                 `json:"clicks"`
	Sent        int                 `json:"sent"`
	ToSend      int                 `json:"to_send"`
	Headers     []map[string]string `json:"headers"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
}

// ListIDs returns the ids of the campaign's recipient lists.
func (c *Campaign) ListIDs() []int {
	ids := make([]int, 0, len(c.Lists))
	for _, l := range c.Lists {
		ids = append(ids, l.ID)
	}
	return ids
}

// campaignRequest is the wire shape for create and update calls.
type campaignRequest struct {
	Name        string              `json:"name"`
	Subject     string              `json:"subject"`
	Lists       []int               `json:"lists"`
	FromEmail   string              `json:"from_email,omitempty"`
	Type        string              `json:"type,omitempty"`
	ContentType string              `json:"content_type,omitempty"`
	Body        string              `json:"body,omitempty"`
	AltBody     string              `json:"altbody,omitempty"`
	SendAt      *time.Time          `json:"send_at"`
	Messenger   string              `json:"messenger,omitempty"`
	TemplateID  int                 `json:"template_id,omitempty"`
	Tags        []string            `json:"tags"`
	Headers     []map[string]string `json:"headers"`
}

// Campaigns returns all campaigns on the server.
func (c *Client) Campaigns(ctx context.Context) ([]Campaign, error) {
	query := api.PageQuery(1, 1000000)

	var pageData api.PageData
	if err := c.apiClient.Do(ctx, http.MethodGet, api.PathCampaigns, query, nil, &pageData); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceCampaign))
	}

	var campaigns []Campaign
	if err := json.Unmarshal(pageData.Results, &campaigns); err != nil {
		return nil, &DecodeError{Err: err, Path: api.PathCampaigns}
	}
	return campaigns, nil
}

// CampaignByID returns the full details of the campaign with the given id.
func (c *Client) CampaignByID(ctx context.Context, id int) (*Campaign, error) {
	var campaign Campaign
	if err := c.apiClient.Do(ctx, http.MethodGet, api.CampaignPath(id), nil, nil, &campaign); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceCampaign))
	}
	return &campaign, nil
}

// CampaignPreviewByID returns the rendered HTML preview of the campaign
// with the given id.
func (c *Client) CampaignPreviewByID(ctx context.Context, id int) (string, error) {
	preview, err := c.apiClient.GetText(ctx, api.CampaignPreviewPath(id), nil)
	if err != nil {
		return "", wrapError(api.WithResource(err, api.ResourceCampaign))
	}
	return preview, nil
}

// CreateCampaign creates a new campaign as a draft. Recipient lists
// default to list 1 unless WithCampaignLists is given.
func (c *Client) CreateCampaign(ctx context.Context, name, subject string, opts ...CampaignOption) (*Campaign, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &ValidationError{Message: "name is required"}
	}
	if subject == "" {
		return nil, &ValidationError{Message: "subject is required"}
	}

	cfg := &campaignConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.listIDs == nil {
		cfg.listIDs = []int{1}
	}
	if cfg.tags == nil {
		cfg.tags = []string{}
	}
	if cfg.headers == nil {
		cfg.headers = []map[string]string{}
	}

	req := campaignRequest{
		Name:        name,
		Subject:     subject,
		Lists:       cfg.listIDs,
		FromEmail:   strings.ToLower(strings.TrimSpace(cfg.fromEmail)),
		Type:        cfg.campaignType,
		ContentType: cfg.contentType,
		Body:        cfg.body,
		AltBody:     cfg.altBody,
		SendAt:      cfg.sendAt,
		Messenger:   cfg.messenger,
		TemplateID:  cfg.templateID,
		Tags:        cfg.tags,
		Headers:     cfg.headers,
	}

	var campaign Campaign
	if err := c.apiClient.Do(ctx, http.MethodPost, api.PathCampaigns, nil, req, &campaign); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceCampaign))
	}
	return &campaign, nil
}

// UpdateCampaign sends the campaign's current fields to the server and
// returns its updated view. A scheduled send time that has already
// passed is cleared, since the server rejects updates with a past
// send_at.
func (c *Client) UpdateCampaign(ctx context.Context, campaign *Campaign) (*Campaign, error) {
	if campaign == nil || campaign.ID == 0 {
		return nil, &ValidationError{Message: "campaign with a server-issued id is required"}
	}

	sendAt := campaign.SendAt
	if sendAt != nil && sendAt.Before(time.Now()) {
		sendAt = nil
	}

	req := campaignRequest{
		Name:        campaign.Name,
		Subject:     campaign.Subject,
		Lists:       campaign.ListIDs(),
		FromEmail:   campaign.FromEmail,
		Type:        campaign.Type,
		ContentType: campaign.ContentType,
		Body:        campaign.Body,
		AltBody:     campaign.AltBody,
		SendAt:      sendAt,
		Messenger:   campaign.Messenger,
		TemplateID:  campaign.TemplateID,
		Tags:        campaign.Tags,
		Headers:     campaign.Headers,
	}

	if err := c.apiClient.Do(ctx, http.MethodPut, api.CampaignPath(campaign.ID), nil, req, nil); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceCampaign))
	}

	return c.CampaignByID(ctx, campaign.ID)
}

// DeleteCampaign deletes the campaign with the given id.
func (c *Client) DeleteCampaign(ctx context.Context, id int) error {
	if _, err := c.CampaignByID(ctx, id); err != nil {
		return err
	}

	var ok bool
	if err := c.apiClient.Do(ctx, http.MethodDelete, api.CampaignPath(id), nil, nil, &ok); err != nil {
		return wrapError(api.WithResource(err, api.ResourceCampaign))
	}
	return nil
}

// SetCampaignStatus requests a lifecycle transition for the campaign,
// e.g. draft to scheduled, or running to cancelled. The server decides
// whether the transition is allowed; a refused transition surfaces as
// ErrNotAllowed or ErrBadRequest.
func (c *Client) SetCampaignStatus(ctx context.Context, id int, status CampaignStatus) (*Campaign, error) {
	body := map[string]CampaignStatus{"status": status}

	var campaign Campaign
	if err := c.apiClient.Do(ctx, http.MethodPut, api.CampaignStatusPath(id), nil, body, &campaign); err != nil {
		return nil, wrapError(api.WithResource(err, api.ResourceCampaign))
	}
	return &campaign, nil
}
