package api

import (
	"fmt"
	"net/url"
	"strconv"
)

// Fixed endpoint paths.
const (
	PathHealth      = "/api/health"
	PathLists       = "/api/lists"
	PathSubscribers = "/api/subscribers"
	PathCampaigns   = "/api/campaigns"
	PathTemplates   = "/api/templates"
	PathTx          = "/api/tx"
)

// ListPath returns the path for a single mailing list.
func ListPath(id int) string {
	return fmt.Sprintf("%s/%d", PathLists, id)
}

// SubscriberPath returns the path for a single subscriber.
func SubscriberPath(id int) string {
	return fmt.Sprintf("%s/%d", PathSubscribers, id)
}

// CampaignPath returns the path for a single campaign.
func CampaignPath(id int) string {
	return fmt.Sprintf("%s/%d", PathCampaigns, id)
}

// CampaignPreviewPath returns the path for a campaign's rendered preview.
func CampaignPreviewPath(id int) string {
	return fmt.Sprintf("%s/%d/preview", PathCampaigns, id)
}

// CampaignStatusPath returns the path for requesting a campaign status
// transition.
func CampaignStatusPath(id int) string {
	return fmt.Sprintf("%s/%d/status", PathCampaigns, id)
}

// TemplatePath returns the path for a single template.
func TemplatePath(id int) string {
	return fmt.Sprintf("%s/%d", PathTemplates, id)
}

// TemplatePreviewPath returns the path for a template's rendered preview.
func TemplatePreviewPath(id int) string {
	return fmt.Sprintf("%s/%d/preview", PathTemplates, id)
}

// TemplateDefaultPath returns the path for marking a template as default.
func TemplateDefaultPath(id int) string {
	return fmt.Sprintf("%s/%d/default", PathTemplates, id)
}

// OptinPath returns the public opt-in confirmation path for a subscriber.
// This is the subscription form endpoint, not part of the /api tree.
func OptinPath(subscriberUUID string) string {
	return fmt.Sprintf("/subscription/optin/%s", url.PathEscape(subscriberUUID))
}

// PageQuery returns query values for paged collection endpoints.
func PageQuery(page, perPage int) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("per_page", strconv.Itoa(perPage))
	return q
}

// SubscribersQuery returns query values for the subscriber collection
// endpoint. query is a Listmonk SQL query expression; listID narrows the
// search to one list. Zero values are omitted.
func SubscribersQuery(page, perPage int, query string, listID int) url.Values {
	q := PageQuery(page, perPage)
	q.Set("order_by", "updated_at")
	q.Set("order", "DESC")
	if listID > 0 {
		q.Set("list_id", strconv.Itoa(listID))
	}
	if query != "" {
		q.Set("query", query)
	}
	return q
}
